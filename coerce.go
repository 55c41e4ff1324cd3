package gospec

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

func coerceBool(t Tag) func(any) (any, error) {
	return func(v any) (any, error) {
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			if b, err := cast.ToBoolE(strings.TrimSpace(x)); err == nil {
				return b, nil
			}
		case json.Number:
			if f, err := x.Float64(); err == nil {
				return f != 0, nil
			}
		default:
			if isInteger(v) {
				if b, err := cast.ToBoolE(v); err == nil {
					return b, nil
				}
			}
		}
		return nil, &CoercionError{Value: v, Type: string(t)}
	}
}

func coerceString(t Tag) func(any) (any, error) {
	return func(v any) (any, error) {
		switch x := v.(type) {
		case string:
			return x, nil
		case Keyword:
			return string(x), nil
		case time.Time:
			return x.Format(time.RFC3339Nano), nil
		case decimal.Decimal:
			return x.String(), nil
		case map[string]any, []any:
			return nil, &CoercionError{Value: v, Type: string(t)}
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, &CoercionError{Value: v, Type: string(t)}
		}
		return s, nil
	}
}

func coerceInt(t Tag) func(any) (any, error) {
	return func(v any) (any, error) {
		switch x := v.(type) {
		case int64:
			return x, nil
		case float64:
			return truncInt(x, v, t)
		case float32:
			return truncInt(float64(x), v, t)
		case json.Number:
			return parseInt(string(x), v, t)
		case string:
			return parseInt(strings.TrimSpace(x), v, t)
		case decimal.Decimal:
			return x.IntPart(), nil
		case uint64:
			if x > math.MaxInt64 {
				return nil, &CoercionError{Value: v, Type: string(t)}
			}
			return int64(x), nil
		case uint:
			if uint64(x) > math.MaxInt64 {
				return nil, &CoercionError{Value: v, Type: string(t)}
			}
			return int64(x), nil
		}
		if isInteger(v) {
			if n, err := cast.ToInt64E(v); err == nil {
				return n, nil
			}
		}
		return nil, &CoercionError{Value: v, Type: string(t)}
	}
}

// parseInt reads s as an integer, falling back to a float parse truncated
// toward zero.
func parseInt(s string, orig any, t Tag) (any, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &CoercionError{Value: orig, Type: string(t)}
	}
	return truncInt(f, orig, t)
}

func truncInt(f float64, orig any, t Tag) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, &CoercionError{Value: orig, Type: string(t)}
	}
	return int64(math.Trunc(f)), nil
}

func coerceFloat(t Tag) func(any) (any, error) {
	return func(v any) (any, error) {
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case json.Number:
			if f, err := x.Float64(); err == nil {
				return f, nil
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
				return f, nil
			}
		case decimal.Decimal:
			return x.InexactFloat64(), nil
		default:
			if isInteger(v) {
				if f, err := cast.ToFloat64E(v); err == nil {
					return f, nil
				}
			}
		}
		return nil, &CoercionError{Value: v, Type: string(t)}
	}
}

func coerceDecimal(t Tag) func(any) (any, error) {
	return func(v any) (any, error) {
		switch x := v.(type) {
		case decimal.Decimal:
			return x, nil
		case string:
			if d, err := decimal.NewFromString(strings.TrimSpace(x)); err == nil {
				return d, nil
			}
		case json.Number:
			if d, err := decimal.NewFromString(string(x)); err == nil {
				return d, nil
			}
		case float64:
			if !math.IsNaN(x) && !math.IsInf(x, 0) {
				return decimal.NewFromFloat(x), nil
			}
		case float32:
			return decimal.NewFromFloat32(x), nil
		default:
			if isInteger(v) {
				if n, err := cast.ToInt64E(v); err == nil {
					return decimal.NewFromInt(n), nil
				}
			}
		}
		return nil, &CoercionError{Value: v, Type: string(t)}
	}
}

const dateLayout = "2006-01-02"

func coerceDate(t Tag) func(any) (any, error) {
	instant := coerceInstant(t)
	return func(v any) (any, error) {
		if s, ok := v.(string); ok {
			if d, err := time.Parse(dateLayout, strings.TrimSpace(s)); err == nil {
				return d, nil
			}
		}
		iv, err := instant(v)
		if err != nil {
			return nil, err
		}
		tm := iv.(time.Time)
		return time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, time.UTC), nil
	}
}

func coerceInstant(t Tag) func(any) (any, error) {
	return func(v any) (any, error) {
		switch x := v.(type) {
		case time.Time:
			return x, nil
		case string:
			if tm, err := parseInstant(strings.TrimSpace(x)); err == nil {
				return tm, nil
			}
		case json.Number:
			if n, err := x.Int64(); err == nil {
				return time.UnixMilli(n).UTC(), nil
			}
		case float64:
			if !math.IsNaN(x) && !math.IsInf(x, 0) {
				return time.UnixMilli(int64(x)).UTC(), nil
			}
		default:
			if isInteger(v) {
				if n, err := cast.ToInt64E(v); err == nil {
					return time.UnixMilli(n).UTC(), nil
				}
			}
		}
		return nil, &CoercionError{Value: v, Type: string(t)}
	}
}

func parseInstant(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	if tm, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return tm, nil
	}
	if tm, err := time.Parse(time.RFC3339, s); err == nil {
		return tm, nil
	}
	return cast.ToTimeE(s)
}

func coerceKeyword(t Tag) func(any) (any, error) {
	return func(v any) (any, error) {
		switch x := v.(type) {
		case Keyword:
			return x, nil
		case string:
			name := strings.TrimPrefix(strings.TrimSpace(x), ":")
			if name != "" && !strings.ContainsAny(name, " \t\n") {
				return Keyword(name), nil
			}
		}
		return nil, &CoercionError{Value: v, Type: string(t)}
	}
}

func coerceURI(t Tag) func(any) (any, error) {
	return func(v any) (any, error) {
		switch x := v.(type) {
		case *url.URL:
			if x != nil {
				return x, nil
			}
		case url.URL:
			return &x, nil
		case string:
			if u, err := url.Parse(strings.TrimSpace(x)); err == nil {
				return u, nil
			}
		}
		return nil, &CoercionError{Value: v, Type: string(t)}
	}
}

func coerceUUID(t Tag) func(any) (any, error) {
	return func(v any) (any, error) {
		switch x := v.(type) {
		case uuid.UUID:
			return x, nil
		case [16]byte:
			return uuid.UUID(x), nil
		case []byte:
			if id, err := uuid.FromBytes(x); err == nil {
				return id, nil
			}
		case string:
			if id, err := uuid.Parse(strings.TrimSpace(x)); err == nil {
				return id, nil
			}
		}
		return nil, &CoercionError{Value: v, Type: string(t)}
	}
}
