package extract

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ArraySeparator joins the elements of array fields, so that an array never spans several columns
const ArraySeparator = ";"

// FormatValue renders a single field value as a string
func FormatValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case float64:
		return formatFloat(val, 64), nil
	case float32:
		return formatFloat(float64(val), 32), nil
	case int8:
		return strconv.FormatInt(int64(val), 10), nil
	case int16:
		return strconv.FormatInt(int64(val), 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case int:
		return strconv.Itoa(val), nil
	case uint8:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case string:
		return strings.TrimRight(val, "\x00"), nil
	case []byte:
		return string(bytes.TrimRight(val, "\x00")), nil
	default:
		return "", fmt.Errorf("Unable to format value of type %T", v)
	}
}

// FormatArray renders the elements of an array field, joined by ArraySeparator
func FormatArray(values []interface{}) (string, error) {
	parts := make([]string, len(values))
	for i, v := range values {
		s, err := FormatValue(v)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ArraySeparator), nil
}

func formatFloat(v float64, bitSize int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(v, 'f', -1, bitSize)
	}
}

// isNaN reports whether a value is a NaN float, or a string spelling of NaN
func isNaN(v interface{}) bool {
	switch val := v.(type) {
	case float64:
		return math.IsNaN(val)
	case float32:
		return math.IsNaN(float64(val))
	case string:
		return strings.EqualFold(strings.TrimRight(val, "\x00"), "nan")
	case []byte:
		return strings.EqualFold(string(bytes.TrimRight(val, "\x00")), "nan")
	default:
		return false
	}
}
