package console

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// floatDigits is the number of decimals the firmware prints for floats.
const floatDigits = 2

// maxFloat is the largest magnitude the firmware prints as a number; beyond
// it the console shows "ovf".
const maxFloat = 4294967040.0

// Format returns the text Print writes for v.
//
// Floats are printed with two decimals and booleans as 1 or 0, matching the
// firmware console, so host-side output compares byte for byte with a device.
// Named types follow the rule of their underlying kind unless they implement
// error or fmt.Stringer.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		// fmt recovers from methods that dereference a nil receiver.
		return fmt.Sprint(v)
	}

	switch x := v.(type) {
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		if rv.Bool() {
			return "1"
		}
		return "0"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}
	}
	return fmt.Sprint(v)
}

// formatFloat prints f the way the firmware does: half a unit of the last
// digit is added, then the digits are truncated.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 0):
		return "inf"
	case f > maxFloat || f < -maxFloat:
		return "ovf"
	}

	buf := make([]byte, 0, 16)
	if f < 0 {
		buf = append(buf, '-')
		f = -f
	}

	rounding := 0.5
	for i := 0; i < floatDigits; i++ {
		rounding /= 10
	}
	f += rounding

	whole := uint64(f)
	rem := f - float64(whole)
	buf = strconv.AppendUint(buf, whole, 10)
	buf = append(buf, '.')
	for i := 0; i < floatDigits; i++ {
		rem *= 10
		d := int(rem)
		buf = append(buf, byte('0'+d))
		rem -= float64(d)
	}
	return string(buf)
}
