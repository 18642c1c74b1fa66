package frame

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the layout used when formatting time cells.
const TimeLayout = time.RFC3339

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

// ParseCell converts a textual cell into a value for kind. Empty input is
// null and yields (nil, nil).
func ParseCell(kind Kind, raw string) (any, error) {
	val := strings.ToValidUTF8(strings.TrimSpace(raw), "?")
	if val == "" {
		return nil, nil
	}
	switch kind {
	case KindFloat:
		return strconv.ParseFloat(val, 64)
	case KindInt:
		return strconv.ParseInt(val, 10, 64)
	case KindBool:
		return strconv.ParseBool(strings.ToLower(val))
	case KindTime:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("unrecognized time %q", val)
	case KindString:
		return val, nil
	default:
		return nil, fmt.Errorf("invalid column kind %v", kind)
	}
}

// FormatCell renders row i of c as text; nulls render as "".
func FormatCell(c Column, i int) string {
	v := c.Value(i)
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	case time.Time:
		return t.Format(TimeLayout)
	default:
		return fmt.Sprintf("%v", t)
	}
}
