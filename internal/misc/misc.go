package misc

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func StringLimit(s string, n int) string {
	if n < 0 {
		return ""
	}
	if n <= 3 {
		return s[:Min(n, len(s))]
	}
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// ParsePrice validates a submitted price: plain decimal digits, optionally
// one dot with at most 2 fraction digits, no sign, no exponent. Anything
// else is rejected so a malformed form value never reaches the store.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("price is required")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || !digitsOnly(whole) {
		return 0, errors.Errorf("invalid price: %s", s)
	}
	if hasFrac {
		if frac == "" || len(frac) > 2 || !digitsOnly(frac) {
			return 0, errors.Errorf("price must have at most 2 decimal places: %s", s)
		}
	}

	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("invalid price: %s", s)
	}
	return p, nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
