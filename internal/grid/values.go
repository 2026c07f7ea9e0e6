// Scalar value helpers shared by the predicate pipeline and the comparator.

package grid

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Blank is the sentinel filter value matching null/absent/empty cells.
const Blank = "BLANK"

// Stringify converts a stored scalar to the string form used for equality
// filters and search matching. Whole floats render without a decimal point so
// "3" matches a stored 3.0.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(v)
	}
}

// IsBlank reports whether a cell value counts as blank for the BLANK
// sentinel: nil, absent, or empty string.
func IsBlank(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// timestampLayouts are the accepted stored timestamp forms, most specific
// first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// BucketKey derives the YEAR-zero_padded_MONTH grouping key for a stored
// timestamp value. The second return is false for blank or unparsable
// values; those never match a concrete bucket filter.
func BucketKey(value any) (string, bool) {
	if IsBlank(value) {
		return "", false
	}
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())), true
		}
	}
	return "", false
}
