// Package validate holds the field-level checks applied to inbound requests
// before any upstream call is made. Every function is pure: the same input
// always yields the same result, except IsFutureDate which compares against
// the instant passed in.
package validate

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// tokenAddressRe matches a base58 string of Solana public key length. The
// alphabet excludes 0, O, I and l.
var tokenAddressRe = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

var hundred = decimal.NewFromInt(100)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// IsTokenAddress reports whether s is a syntactically plausible base58
// address. No checksum or curve check is performed.
func IsTokenAddress(s string) bool {
	return tokenAddressRe.MatchString(s)
}

// ParseAmount parses v as a decimal number.
func ParseAmount(v string) (decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Zero, fmt.Errorf("validate: empty number")
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("validate: parse number %q: %w", v, err)
	}
	return d, nil
}

// IsPositiveAmount reports whether v parses as a number greater than zero.
func IsPositiveAmount(v string) bool {
	d, err := ParseAmount(v)
	return err == nil && d.IsPositive()
}

// IsPercentage reports whether v parses as a number in [0, 100].
func IsPercentage(v string) bool {
	d, err := ParseAmount(v)
	return err == nil && !d.IsNegative() && d.LessThanOrEqual(hundred)
}

// IsEnumMember reports whether v exactly matches one of set.
func IsEnumMember(v string, set []string) bool {
	return slices.Contains(set, v)
}

// ParseDate parses an RFC 3339 timestamp or a plain date. Values without a
// zone are taken as UTC.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("validate: invalid date %q", v)
}

// IsValidDate reports whether v parses as a date.
func IsValidDate(v string) bool {
	_, err := ParseDate(v)
	return err == nil
}

// IsFutureDate reports whether v parses and is strictly after now. There is
// no tolerance window.
func IsFutureDate(v string, now time.Time) bool {
	t, err := ParseDate(v)
	return err == nil && t.After(now)
}

// IsOrderedDateRange reports whether both a and b parse and a is strictly
// before b.
func IsOrderedDateRange(a, b string) bool {
	start, err := ParseDate(a)
	if err != nil {
		return false
	}
	end, err := ParseDate(b)
	if err != nil {
		return false
	}
	return start.Before(end)
}

// SlippageBps converts a slippage percentage into basis points, rounding to
// the nearest integer.
func SlippageBps(v string) (int, error) {
	d, err := ParseAmount(v)
	if err != nil {
		return 0, err
	}
	return int(d.Mul(hundred).Round(0).IntPart()), nil
}
