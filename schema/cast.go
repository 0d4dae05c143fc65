package schema

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrCast is returned when a value cannot be converted to the target type.
// There is no sentinel handling here: a non-numeric string cast to INT is an
// error, and callers that want sentinel mapping express it in SQL (CASE WHEN).
var ErrCast = errors.New("cannot cast value")

// Cast converts a value to the given column type. JSON round-trips turn all
// numbers into float64, so float64 inputs are accepted for both numeric types.
func Cast(v any, to ColumnType) (any, error) {
	switch to {
	case TypeInt:
		return castInt(v)
	case TypeDouble:
		return castDouble(v)
	case TypeText:
		return castText(v)
	case TypeBool:
		return castBool(v)
	}
	return nil, errors.Newf("unknown column type: %q", to)
}

func castInt(v any) (any, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case float64:
		// Values at or beyond 2^63 would convert to an implementation-defined
		// int64, so they fail like any other non-representable value.
		if val != math.Trunc(val) || val < math.MinInt64 || val >= math.MaxInt64 {
			return nil, errors.Wrapf(ErrCast, "%v to %s", val, TypeInt)
		}
		return int64(val), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrCast, "%q to %s", val, TypeInt)
		}
		return n, nil
	}
	return nil, errors.Wrapf(ErrCast, "%v to %s", v, TypeInt)
}

func castDouble(v any) (any, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int64:
		return float64(val), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, errors.Wrapf(ErrCast, "%q to %s", val, TypeDouble)
		}
		return f, nil
	}
	return nil, errors.Wrapf(ErrCast, "%v to %s", v, TypeDouble)
}

func castText(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	}
	return nil, errors.Wrapf(ErrCast, "%v to %s", v, TypeText)
}

func castBool(v any) (any, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(val)))
		if err != nil {
			return nil, errors.Wrapf(ErrCast, "%q to %s", val, TypeBool)
		}
		return b, nil
	}
	return nil, errors.Wrapf(ErrCast, "%v to %s", v, TypeBool)
}
