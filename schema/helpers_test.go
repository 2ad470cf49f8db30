package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumberBR(t *testing.T) {
	tests := []struct {
		v        float64
		decimals int
		want     string
	}{
		{0, 0, "0"},
		{88.5, 1, "88,5"},
		{3.2, 2, "3,20"},
		{1234.5, 2, "1.234,50"},
		{1234567, 0, "1.234.567"},
		{-1234.56, 1, "-1.234,6"},
		{999, 0, "999"},
		{100000, 0, "100.000"},
		{-0.04, 1, "0,0"},
		{-1234567.25, 2, "-1.234.567,25"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumberBR(tt.v, tt.decimals))
		})
	}
}

func TestFormatPercentVariants(t *testing.T) {
	assert.Equal(t, "95.0%", FormatPercent(95, 1))
	assert.Equal(t, "67%", FormatPercent(66.6667, 0))
	assert.Equal(t, "88,5%", FormatPercentBR(88.5, 1))
	assert.Equal(t, "-12,3%", FormatPercentBR(-12.34, 1))
	assert.Equal(t, "0%", FormatPercentBR(-0.2, 0))
	assert.Equal(t, NoData, FormatPercentBR(math.NaN(), 1))
	assert.Equal(t, NoData, FormatNumberBR(math.Inf(1), 1))
}

func TestParseDecimalInput(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"3,75", 3.75, false},
		{"3.75", 3.75, false},
		{" 4,5 ", 4.5, false},
		{"-2", -2, false},
		{"", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimalInput(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParsePercent(t *testing.T) {
	v, err := ParsePercent("88,5%")
	require.NoError(t, err)
	assert.InDelta(t, 88.5, v, 1e-9)

	v, err = ParsePercent("95.0%")
	require.NoError(t, err)
	assert.InDelta(t, 95.0, v, 1e-9)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "1ª Quinzena", QuinzenaLabel(1))
	assert.Equal(t, "2ª Quinzena", QuinzenaLabel(2))
	assert.Equal(t, "Janeiro", MonthLabel(1))
	assert.Equal(t, "Março", MonthLabel(3))
	assert.Equal(t, "Dezembro", MonthLabel(12))
	assert.Equal(t, "13", MonthLabel(13))
	assert.Equal(t, "Maio", PeriodLabel(MonthlyGranularity, 5))
	assert.Equal(t, "2ª Quinzena", PeriodLabel(FortnightlyGranularity, 2))
}

func TestRound(t *testing.T) {
	assert.InDelta(t, 88.9, Round(88.89, 1), 1e-9)
	assert.InDelta(t, 3.21, Round(3.2149, 2), 1e-9)
	assert.InDelta(t, 67, Round(66.6, 0), 1e-9)
}

func FuzzPercentRoundTrip(f *testing.F) {
	f.Add(95.0)
	f.Add(89.95)
	f.Add(0.05)
	f.Add(100.0)
	f.Fuzz(func(t *testing.T, v float64) {
		if v != v || v > 1e12 || v < -1e12 {
			t.Skip()
		}
		s := FormatPercent(v, 1)
		parsed, err := ParsePercent(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatPercent(parsed, 1))
	})
}

func FuzzScoreRoundTrip(f *testing.F) {
	f.Add(4.5)
	f.Add(3.745)
	f.Add(0.0)
	f.Fuzz(func(t *testing.T, v float64) {
		if v != v || v > 1e12 || v < -1e12 {
			t.Skip()
		}
		s := FormatScore(v)
		parsed, err := ParseScore(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatScore(parsed))
	})
}

func FuzzFormatNumberBR(f *testing.F) {
	f.Add(1234.5, 2)
	f.Add(-0.5, 1)
	f.Fuzz(func(t *testing.T, v float64, decimals int) {
		if v != v || v > 1e15 || v < -1e15 || decimals < 0 || decimals > 6 {
			t.Skip()
		}
		s := FormatNumberBR(v, decimals)
		parsed, err := ParseDecimalInput(stripThousands(s))
		require.NoError(t, err)
		assert.Equal(t, s, FormatNumberBR(parsed, decimals))
	})
}

func FuzzFormatPercentBR(f *testing.F) {
	f.Add(88.5, 1)
	f.Add(-0.04, 1)
	f.Fuzz(func(t *testing.T, v float64, decimals int) {
		if v != v || v > 999 || v < -999 || decimals < 0 || decimals > 6 {
			t.Skip()
		}
		s := FormatPercentBR(v, decimals)
		parsed, err := ParsePercent(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatPercentBR(parsed, decimals))
	})
}

func stripThousands(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r != '.' {
			out = append(out, r)
		}
	}
	return string(out)
}
