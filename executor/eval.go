package executor

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"

	"catmigrate/parser"
	"catmigrate/schema"
	"catmigrate/storage"
)

// evalSelect evaluates a query's projection over scanned rows, producing the
// output columns and the row values in column order. Every value is cast to
// its output column type, so a failing cast aborts the whole statement.
func evalSelect(sel *parser.Select, table *schema.Table, rows []storage.Row) ([]schema.Column, [][]any, error) {
	if sel.Star {
		values := make([][]any, len(rows))
		for i, row := range rows {
			vals := make([]any, len(table.Columns))
			for j, col := range table.Columns {
				vals[j] = row[col.Name]
			}
			values[i] = vals
		}
		return table.Columns, values, nil
	}

	columns := make([]schema.Column, len(sel.Items))
	for i, item := range sel.Items {
		typ, err := inferType(item.Expr, table)
		if err != nil {
			return nil, nil, err
		}
		columns[i] = schema.Column{Name: outputName(item, i), Type: typ}
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		vals := make([]any, len(sel.Items))
		for j, item := range sel.Items {
			v, err := evalExpr(item.Expr, row, table)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "column %q, row %d", columns[j].Name, i)
			}
			cast, err := schema.Cast(v, columns[j].Type)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "column %q, row %d", columns[j].Name, i)
			}
			vals[j] = cast
		}
		values[i] = vals
	}
	return columns, values, nil
}

// outputName picks the output column name: the alias if given, the source
// column name for bare references, and a positional placeholder otherwise.
func outputName(item parser.SelectItem, pos int) string {
	if item.Alias != "" {
		return item.Alias
	}
	if ref, ok := item.Expr.(parser.ColumnRef); ok {
		return ref.Name
	}
	return fmt.Sprintf("_c%d", pos)
}

// inferType determines the output type of a projection expression.
func inferType(e parser.Expr, table *schema.Table) (schema.ColumnType, error) {
	switch ex := e.(type) {
	case parser.ColumnRef:
		col, ok := table.Column(ex.Name)
		if !ok {
			return "", errors.Newf("unknown column %q in table %q", ex.Name, table.Name)
		}
		return col.Type, nil
	case parser.StringLit:
		return schema.TypeText, nil
	case parser.NumberLit:
		if ex.Value == math.Trunc(ex.Value) {
			return schema.TypeInt, nil
		}
		return schema.TypeDouble, nil
	case parser.Cast:
		return ex.Type, nil
	case parser.Case:
		thenType, err := inferType(ex.Then, table)
		if err != nil {
			return "", err
		}
		elseType, err := inferType(ex.Else, table)
		if err != nil {
			return "", err
		}
		if thenType == elseType {
			return thenType, nil
		}
		if numeric(thenType) && numeric(elseType) {
			return schema.TypeDouble, nil
		}
		return "", errors.Newf("CASE branches have incompatible types %s and %s", thenType, elseType)
	}
	return "", errors.Newf("unsupported expression: %T", e)
}

func numeric(t schema.ColumnType) bool {
	return t == schema.TypeInt || t == schema.TypeDouble
}

// evalExpr evaluates an expression against one row.
func evalExpr(e parser.Expr, row storage.Row, table *schema.Table) (any, error) {
	switch ex := e.(type) {
	case parser.ColumnRef:
		if _, ok := table.Column(ex.Name); !ok {
			return nil, errors.Newf("unknown column %q in table %q", ex.Name, table.Name)
		}
		return row[ex.Name], nil
	case parser.StringLit:
		return ex.Value, nil
	case parser.NumberLit:
		if ex.Value == math.Trunc(ex.Value) {
			return int64(ex.Value), nil
		}
		return ex.Value, nil
	case parser.Cast:
		v, err := evalExpr(ex.Input, row, table)
		if err != nil {
			return nil, err
		}
		return schema.Cast(v, ex.Type)
	case parser.Case:
		if _, ok := table.Column(ex.WhenColumn); !ok {
			return nil, errors.Newf("unknown column %q in table %q", ex.WhenColumn, table.Name)
		}
		whenValue, err := evalExpr(ex.WhenValue, row, table)
		if err != nil {
			return nil, err
		}
		if valuesEqual(row[ex.WhenColumn], whenValue) {
			return evalExpr(ex.Then, row, table)
		}
		return evalExpr(ex.Else, row, table)
	}
	return nil, errors.Newf("unsupported expression: %T", e)
}

// valuesEqual compares values by their printed form, which tolerates the
// int64/float64 split JSON storage introduces.
func valuesEqual(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
