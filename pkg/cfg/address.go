package cfg

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Address is the canonical identity of a block or instruction: "0x"
// followed by lowercase hexadecimal digits. The empty Address means absent.
type Address string

// String returns the address text.
func (a Address) String() string { return string(a) }

// HexString marks a string whose digits are hexadecimal even when they
// contain no a-f letters, so HexString("1234") canonicalizes to "0x1234"
// while the plain string "1234" is read as decimal.
type HexString string

// Canonicalize converts an address-like value into its canonical form.
//
// Accepted inputs:
//   - strings with a 0x/0X prefix are lower-cased as-is
//   - strings of decimal digits are read base 10
//   - strings of hexadecimal digits containing a-f, and [HexString], are read base 16
//   - any other non-empty string is returned lower-cased as an opaque identifier
//   - non-negative integers, finite non-negative floats (truncated), and
//     [json.Number] values
//
// The boolean is false when v is nil, empty, negative, NaN, infinite, or of
// any other type. Canonicalize never panics.
func Canonicalize(v any) (Address, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case Address:
		return canonicalString(string(x), false)
	case HexString:
		return canonicalString(string(x), true)
	case string:
		return canonicalString(x, false)
	case json.Number:
		return canonicalNumber(string(x))
	case int:
		return fromInt64(int64(x))
	case int8:
		return fromInt64(int64(x))
	case int16:
		return fromInt64(int64(x))
	case int32:
		return fromInt64(int64(x))
	case int64:
		return fromInt64(x)
	case uint:
		return fromUint64(uint64(x))
	case uint8:
		return fromUint64(uint64(x))
	case uint16:
		return fromUint64(uint64(x))
	case uint32:
		return fromUint64(uint64(x))
	case uint64:
		return fromUint64(x)
	case uintptr:
		return fromUint64(uint64(x))
	case float32:
		return fromFloat64(float64(x))
	case float64:
		return fromFloat64(x)
	default:
		return "", false
	}
}

func canonicalString(s string, hex bool) (Address, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return Address(strings.ToLower(s)), true
	}

	base := 0
	switch {
	case !hex && isDigits(s, isDecimal):
		base = 10
	case isDigits(s, isHex):
		base = 16
	}
	if base != 0 {
		if n, ok := new(big.Int).SetString(s, base); ok {
			return fromBig(n)
		}
	}
	return Address(strings.ToLower(s)), true
}

func canonicalNumber(s string) (Address, bool) {
	if n, ok := new(big.Int).SetString(s, 10); ok {
		return fromBig(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", false
	}
	return fromFloat64(f)
}

func fromInt64(n int64) (Address, bool) {
	if n < 0 {
		return "", false
	}
	return fromUint64(uint64(n))
}

func fromUint64(n uint64) (Address, bool) {
	return Address("0x" + strconv.FormatUint(n, 16)), true
}

func fromFloat64(f float64) (Address, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return "", false
	}
	f = math.Trunc(f)
	if f < 1<<63 {
		return fromUint64(uint64(f))
	}
	n, _ := new(big.Float).SetFloat64(f).Int(nil)
	return fromBig(n)
}

func fromBig(n *big.Int) (Address, bool) {
	if n.Sign() < 0 {
		return "", false
	}
	return Address("0x" + n.Text(16)), true
}

func isDigits(s string, pred func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if !pred(s[i]) {
			return false
		}
	}
	return s != ""
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
