package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"catmigrate/schema"
)

// Expr is a projection expression.
type Expr interface {
	expr()
}

// ColumnRef references a source column by name.
type ColumnRef struct {
	Name string
}

// StringLit is a quoted string literal.
type StringLit struct {
	Value string
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value float64
}

// Cast converts the input expression to a column type.
type Cast struct {
	Input Expr
	Type  schema.ColumnType
}

// Case is the single-branch conditional form
// CASE WHEN <column> = <literal> THEN <expr> ELSE <expr> END.
type Case struct {
	WhenColumn string
	WhenValue  Expr
	Then       Expr
	Else       Expr
}

func (ColumnRef) expr() {}
func (StringLit) expr() {}
func (NumberLit) expr() {}
func (Cast) expr()      {}
func (Case) expr()      {}

// SelectItem pairs a projection expression with its optional alias.
type SelectItem struct {
	Expr  Expr
	Alias string
}

var (
	castRe  = regexp.MustCompile(`(?is)^CAST\s*\((.+)\s+AS\s+(\w+)\s*\)$`)
	caseRe  = regexp.MustCompile(`(?is)^CASE\s+WHEN\s+(\w+)\s*=\s*(.+?)\s+THEN\s+(.+?)\s+ELSE\s+(.+)\s+END$`)
	identRe = regexp.MustCompile(`^\w+$`)
)

// parseExpr parses one projection expression.
func parseExpr(s string) (Expr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty expression")
	}

	upper := strings.ToUpper(s)
	if strings.HasPrefix(upper, "CASE") {
		return parseCase(s)
	}
	if strings.HasPrefix(upper, "CAST") {
		matches := castRe.FindStringSubmatch(s)
		if matches == nil {
			return nil, errors.Newf("invalid CAST expression: %q", s)
		}
		input, err := parseExpr(matches[1])
		if err != nil {
			return nil, err
		}
		typ, err := schema.ParseColumnType(matches[2])
		if err != nil {
			return nil, err
		}
		return Cast{Input: input, Type: typ}, nil
	}

	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return StringLit{Value: s[1 : len(s)-1]}, nil
		}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return NumberLit{Value: n}, nil
	}
	if identRe.MatchString(s) {
		return ColumnRef{Name: s}, nil
	}
	return nil, errors.Newf("invalid expression: %q", s)
}

func parseCase(s string) (Expr, error) {
	matches := caseRe.FindStringSubmatch(s)
	if matches == nil {
		return nil, errors.Newf("invalid CASE expression: %q", s)
	}

	whenValue, err := parseExpr(matches[2])
	if err != nil {
		return nil, err
	}
	thenExpr, err := parseExpr(matches[3])
	if err != nil {
		return nil, err
	}
	elseExpr, err := parseExpr(matches[4])
	if err != nil {
		return nil, err
	}
	return Case{
		WhenColumn: matches[1],
		WhenValue:  whenValue,
		Then:       thenExpr,
		Else:       elseExpr,
	}, nil
}

// parseSelectItem parses one projection list entry, splitting off a
// top-level AS alias if present.
func parseSelectItem(s string) (SelectItem, error) {
	exprStr, alias := splitAlias(s)
	e, err := parseExpr(exprStr)
	if err != nil {
		return SelectItem{}, err
	}
	return SelectItem{Expr: e, Alias: alias}, nil
}

// splitAlias finds the last top-level " AS <ident>" outside parentheses and
// quotes. It returns the expression text and the alias (empty if none).
func splitAlias(s string) (string, string) {
	depth := 0
	var quote byte
	lastAS := -1

	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
			continue
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && isSpace(c) && i+3 < len(s) &&
			strings.EqualFold(s[i+1:i+3], "AS") && isSpace(s[i+3]) {
			lastAS = i
		}
	}

	if lastAS < 0 {
		return strings.TrimSpace(s), ""
	}
	alias := strings.TrimSpace(s[lastAS+4:])
	alias = strings.Trim(alias, "`")
	if !identRe.MatchString(alias) {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(s[:lastAS]), alias
}

// splitTop splits s on sep at parenthesis depth zero, outside quotes.
func splitTop(s string, sep byte) []string {
	depth := 0
	var quote byte
	var parts []string
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
