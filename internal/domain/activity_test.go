package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnixTimestamp_Valid(t *testing.T) {
	cases := map[string]int64{
		"1700000000":     1700000000,
		`"1700000000"`:   1700000000,
		" 1700000000 ":   1700000000,
		"1700000000.0":   1700000000,
		`"1700000000.0"`: 1700000000,
		"0":              0,
	}
	for raw, want := range cases {
		got, err := ParseUnixTimestamp(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParseUnixTimestamp_Malformed(t *testing.T) {
	for _, raw := range []string{"", "null", `""`, "abc", "1700000000.5", `"12:30"`, "NaN", "1e400", "9223372036854775808.0", "-9223372036854777856.0"} {
		_, err := ParseUnixTimestamp(raw)
		assert.True(t, errors.Is(err, ErrMalformedTimestamp), "raw=%q", raw)
	}
}

func TestActivity_Value(t *testing.T) {
	a := Activity{Size: 25, Price: 0.5}
	assert.Equal(t, "12.50", a.Value().StringFixed(2))

	// 0.1 × 0.2 en float64 da 0.020000000000000004
	b := Activity{Size: 0.1, Price: 0.2}
	assert.Equal(t, "0.02", b.Value().String())
}

func TestActivity_Key(t *testing.T) {
	assert.Equal(t, "id-1", Activity{ID: "id-1", TxHash: "0xabc"}.Key())
	assert.Equal(t, "0xabc", Activity{TxHash: "0xabc"}.Key())
	assert.Empty(t, Activity{}.Key())
}

func TestActivity_Time(t *testing.T) {
	a := Activity{Timestamp: 1700000000}
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), a.Time())
}

func TestWallet_DisplayLabel(t *testing.T) {
	assert.Equal(t, "whale", Wallet{Address: "0x37e4728b3c4607fb2b3b205386bb1d1fb1a8c991", Label: "whale"}.DisplayLabel())
	assert.Equal(t, "0x37e4728b", Wallet{Address: "0x37e4728b3c4607fb2b3b205386bb1d1fb1a8c991"}.DisplayLabel())
	assert.Equal(t, "0xabc", Wallet{Address: "0xabc"}.DisplayLabel())
}

func TestStartPolicy_InitialWatermark(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.Equal(t, int64(1700000000), StartFromNow.InitialWatermark(now))
	assert.Equal(t, int64(0), StartFromZero.InitialWatermark(now))
	assert.True(t, StartFromNow.Valid())
	assert.False(t, StartPolicy("later").Valid())
}

func TestMarket_Label(t *testing.T) {
	assert.Equal(t, "Will X happen?", Market{Question: "Will X happen?"}.Label(40))
	assert.Equal(t, "Title", Market{Title: "Title"}.Label(40))
	assert.Equal(t, "0x0123456789abcdef01...", Market{ConditionID: "0x0123456789abcdef0123456789"}.Label(40))
	assert.Equal(t, "Will...", Market{Question: "Will X happen?"}.Label(7))
}

func TestParseUnixTimestamp_Int64Bounds(t *testing.T) {
	got, err := ParseUnixTimestamp("-9223372036854775808.0")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), got)

	_, err = ParseUnixTimestamp("9223372036854775808.0")
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
}
