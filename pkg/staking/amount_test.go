package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"0", "0"},
		{"1", "1000000000000000000000000"},
		{"10", "10000000000000000000000000"},
		{"1.5", "1500000000000000000000000"},
		{"0.000000000000000000000001", "1"},
		{"1,000", "1000000000000000000000000000"},
		{" 2.25 ", "2250000000000000000000000"},
		{".5", "500000000000000000000000"},
		{"0.00001", "10000000000000000000"},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"1.2.3", "0.0000000000000000000000001", "abc", "-1", "+5", "1.+5", "."} {
		_, err := ParseAmount(in)
		assert.Error(t, err, in)
	}
}

func TestNormalizeAmount_LengthHeuristic(t *testing.T) {
	// shorter than 15 characters: human readable
	for _, in := range []string{"10", "1.5", "12345678901234"} {
		want, err := ParseAmount(in)
		require.NoError(t, err)
		got, err := NormalizeAmount(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	// 15 characters or more: already yocto
	for _, in := range []string{"123456789012345", "1000000000000000000000000"} {
		got, err := NormalizeAmount(in)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}

	got, err := NormalizeAmount("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = NormalizeAmount("1.5e+24xxxxxxxxx")
	assert.Error(t, err)
}

func TestAmounts_RejectSign(t *testing.T) {
	for _, in := range []string{"+5", "-5", "+1000000000000000000000000"} {
		_, err := NormalizeAmount(in)
		assert.Error(t, err, in)
		_, err = ToYocto(in, UnitYocto)
		assert.Error(t, err, in)
		_, err = ToYocto(in, UnitNear)
		assert.Error(t, err, in)
	}
}

func TestToYocto(t *testing.T) {
	got, err := ToYocto("10", UnitYocto)
	require.NoError(t, err)
	assert.Equal(t, "10", got)

	got, err = ToYocto("123456789012345678", UnitNear)
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678"+"000000000000000000000000", got)

	got, err = ToYocto("10", UnitAuto)
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000000000000", got)

	_, err = ToYocto("10", Unit("wei"))
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		yocto string
		frac  int
		want  string
	}{
		{"0", 5, "0"},
		{"1000000000000000000000000", 5, "1"},
		{"1500000000000000000000000", 5, "1.5"},
		{"1234567000000000000000000000", 2, "1,234.57"},
		{"1", 24, "0.000000000000000000000001"},
		{"4999999999999999999", 5, "0"},
		{"5000000000000000000", 5, "0.00001"},
	}
	for _, tc := range cases {
		got, err := FormatAmount(tc.yocto, tc.frac)
		require.NoError(t, err, tc.yocto)
		assert.Equal(t, tc.want, got, tc.yocto)
	}
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "10000000000000000000", StakingAmountDeviation)
	assert.Equal(t, "35000010000000000000000000", MinLockupAmount)
	assert.Equal(t, uint64(100), MinDisplayYocto.Uint64())
}

func TestDisplayableDoesNotAffectArithmetic(t *testing.T) {
	assert.True(t, Displayable("0"))
	assert.False(t, Displayable("99"))
	assert.True(t, Displayable("100"))

	totals, err := NewAggregatedTotals("", []ValidatorAccountEntry{
		{AccountID: "a", Staked: "99"},
		{AccountID: "b", Staked: "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "100", totals.TotalStaked)
}
