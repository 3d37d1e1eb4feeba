package binding

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// toInt converts the leading integer of s, so "12abc" is 12 and "abc" is 0.
// Out of range values saturate.
func toInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := scanSign(s, 0)
	end = scanDigits(s, end)

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(s, "-") {
				return math.MinInt64
			}
			return math.MaxInt64
		}
		return 0
	}
	return n
}

// toFloat converts the leading decimal number of s: "1.5kg" is 1.5.
func toFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := scanSign(s, 0)
	digits := scanDigits(s, end)
	end = digits
	if end < len(s) && s[end] == '.' {
		end = scanDigits(s, end+1)
	}
	if end == digits && digits == scanSign(s, 0) {
		return 0
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := scanDigits(s, scanSign(s, end+1))
		if exp > scanSign(s, end+1) {
			end = exp
		}
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		// ParseFloat reports ±Inf with ErrRange, which is the saturated value.
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return 0
	}
	return f
}

// toBool is false for "", "0" and "false", true otherwise.
func toBool(s string) bool {
	return s != "" && s != "0" && !strings.EqualFold(s, "false")
}

func scanSign(s string, i int) int {
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		return i + 1
	}
	return i
}

func scanDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
