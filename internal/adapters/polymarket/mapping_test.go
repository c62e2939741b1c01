package polymarket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawText(t *testing.T) {
	assert.Equal(t, "1700000000", rawText(json.RawMessage(`1700000000`)))
	assert.Equal(t, "1700000000", rawText(json.RawMessage(`"1700000000"`)))
	assert.Equal(t, "", rawText(json.RawMessage(`null`)))
	assert.Equal(t, "", rawText(nil))
	assert.Equal(t, "abc", rawText(json.RawMessage(`"abc"`)))
}

func TestParseLooseFloat(t *testing.T) {
	assert.InDelta(t, 0.55, parseLooseFloat(json.RawMessage(`0.55`)), 1e-9)
	assert.InDelta(t, 0.55, parseLooseFloat(json.RawMessage(`"0.55"`)), 1e-9)
	assert.Equal(t, 0.0, parseLooseFloat(json.RawMessage(`"n/a"`)))
	assert.Equal(t, 0.0, parseLooseFloat(nil))
}

func TestDecodeMarketsPayload(t *testing.T) {
	list, err := decodeMarketsPayload(json.RawMessage(` [{"conditionId":"0x1"},{"conditionId":"0x2"}] `))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	one, err := decodeMarketsPayload(json.RawMessage(`{"conditionId":"0x1","question":"Q"}`))
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "Q", one[0].Question)

	_, err = decodeMarketsPayload(json.RawMessage(`42`))
	assert.Error(t, err)
}

func TestMapActivity_NameFallback(t *testing.T) {
	a := mapActivity(rawActivity{Pseudonym: "Brave-Otter", TransactionHash: "0xtx"})
	assert.Equal(t, "Brave-Otter", a.Name)
	assert.Equal(t, "0xtx", a.ID)
	assert.Equal(t, "0xtx", a.TxHash)
}

func TestMapGammaMarket_SlugFallback(t *testing.T) {
	m := mapGammaMarket(gammaMarket{ConditionID: "0x1", Slug: "s"}, "306")
	assert.Equal(t, "s", m.MarketSlug)
	assert.Equal(t, "306", m.TagID)

	m = mapGammaMarket(gammaMarket{ConditionID: "0x1", Slug: "s", MarketSlug: "ms"}, "")
	assert.Equal(t, "ms", m.MarketSlug)
}
