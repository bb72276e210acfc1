package staking

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// NominationExp is the number of decimal places between one NEAR and one yocto.
const NominationExp = 24

// humanAmountMaxLen is the length below which an untagged amount is read as NEAR.
const humanAmountMaxLen = 15

// Unit tags an amount at an API boundary.
type Unit string

const (
	// UnitAuto applies the length heuristic of NormalizeAmount.
	UnitAuto  Unit = ""
	UnitNear  Unit = "near"
	UnitYocto Unit = "yocto"
)

var (
	// MinDisplayYocto is the smallest non-zero balance worth showing. Display only.
	MinDisplayYocto = uint256.NewInt(100)
	// StakingAmountDeviation is the tolerance used when comparing staked amounts.
	StakingAmountDeviation = mustParse("0.00001")
	// MinLockupAmount is the balance a lockup contract keeps for storage.
	MinLockupAmount = mustParse("35.00001")
)

func mustParse(s string) string {
	v, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseAmount converts a human readable NEAR amount ("1,000.5") into a yocto
// decimal string. An empty input yields an empty result.
func ParseAmount(amount string) (string, error) {
	if amount == "" {
		return "", nil
	}
	clean := strings.TrimSpace(strings.ReplaceAll(amount, ",", ""))
	parts := strings.Split(clean, ".")
	whole := parts[0]
	frac := ""
	if len(parts) > 1 {
		frac = parts[1]
	}
	if len(parts) > 2 || len(frac) > NominationExp || !isDigits(whole+frac) {
		return "", fmt.Errorf("cannot parse %q as NEAR amount", clean)
	}
	digits := strings.TrimLeft(whole+frac+strings.Repeat("0", NominationExp-len(frac)), "0")
	if digits == "" {
		return "0", nil
	}
	if _, err := uint256.FromDecimal(digits); err != nil {
		return "", fmt.Errorf("cannot parse %q as NEAR amount: %w", clean, err)
	}
	return digits, nil
}

// NormalizeAmount applies the legacy length heuristic: amounts shorter than 15
// characters are NEAR and get converted, longer ones are taken as yocto.
func NormalizeAmount(amount string) (string, error) {
	if amount == "" {
		return "", nil
	}
	if len(amount) < humanAmountMaxLen {
		return ParseAmount(amount)
	}
	return parseYocto(amount)
}

// ToYocto converts amount according to an explicit unit tag.
func ToYocto(amount string, unit Unit) (string, error) {
	switch unit {
	case UnitNear:
		return ParseAmount(amount)
	case UnitYocto:
		if amount == "" {
			return "", nil
		}
		return parseYocto(amount)
	case UnitAuto:
		return NormalizeAmount(amount)
	default:
		return "", fmt.Errorf("unknown unit %q", unit)
	}
}

// parseYocto accepts plain decimal digits only and returns them canonical.
func parseYocto(amount string) (string, error) {
	if !isDigits(amount) {
		return "", fmt.Errorf("invalid yocto amount %q", amount)
	}
	v, err := uint256.FromDecimal(amount)
	if err != nil {
		return "", fmt.Errorf("invalid yocto amount %q: %w", amount, err)
	}
	return v.Dec(), nil
}

func isDigits(s string) bool {
	return s != "" && strings.Trim(s, "0123456789") == ""
}

// FormatAmount renders a yocto amount as NEAR, rounded half up to fracDigits.
func FormatAmount(yocto string, fracDigits int) (string, error) {
	v, err := uint256.FromDecimal(yocto)
	if err != nil {
		return "", err
	}
	if fracDigits < 0 || fracDigits > NominationExp {
		fracDigits = NominationExp
	}
	if exp := NominationExp - fracDigits - 1; exp >= 0 && fracDigits != NominationExp {
		offset := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(exp)))
		offset.Mul(offset, uint256.NewInt(5))
		v.Add(v, offset)
	}
	s := v.Dec()
	if len(s) <= NominationExp {
		s = strings.Repeat("0", NominationExp-len(s)+1) + s
	}
	whole := s[:len(s)-NominationExp]
	frac := s[len(s)-NominationExp:][:fracDigits]
	out := withCommas(whole)
	if frac = strings.TrimRight(frac, "0"); frac != "" {
		out += "." + frac
	}
	return out, nil
}

// Displayable reports whether a balance is zero or large enough to show.
func Displayable(yocto string) bool {
	v, err := uint256.FromDecimal(yocto)
	if err != nil {
		return false
	}
	return v.IsZero() || !v.Lt(MinDisplayYocto)
}

// aboveDust reports whether a balance is at least MinDisplayYocto.
func aboveDust(yocto string) bool {
	v, err := uint256.FromDecimal(yocto)
	return err == nil && !v.Lt(MinDisplayYocto)
}

func withCommas(whole string) string {
	if len(whole) <= 3 {
		return whole
	}
	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	return b.String()
}

// sumAmounts adds decimal yocto strings; empty strings count as zero.
func sumAmounts(values ...string) (string, error) {
	total := new(uint256.Int)
	for _, s := range values {
		if s == "" {
			continue
		}
		v, err := uint256.FromDecimal(s)
		if err != nil {
			return "", fmt.Errorf("invalid amount %q: %w", s, err)
		}
		if _, overflow := total.AddOverflow(total, v); overflow {
			return "", fmt.Errorf("amount overflow")
		}
	}
	return total.Dec(), nil
}

// subFloor returns a-b, or "0" when b exceeds a.
func subFloor(a, b string) (string, error) {
	x, err := uint256.FromDecimal(orZero(a))
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", a, err)
	}
	y, err := uint256.FromDecimal(orZero(b))
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", b, err)
	}
	if x.Lt(y) {
		return "0", nil
	}
	return new(uint256.Int).Sub(x, y).Dec(), nil
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
