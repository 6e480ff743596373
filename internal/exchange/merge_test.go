package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestMergeNetsContractsPerSymbol(t *testing.T) {
	raw := []RawPosition{
		{Symbol: "BTC/USDT", Side: SideLong, Contracts: 2, ContractSize: 0.5, MarkPrice: fptr(100)},
		{Symbol: "ETH/USDT", Side: SideShort, Contracts: 10, ContractSize: 1},
		{Symbol: "BTC/USDT", Side: SideShort, Contracts: 1, ContractSize: 0.5, MarkPrice: fptr(101)},
	}

	out := Merge(raw)
	assert.Len(t, out, 2)

	bySymbol := map[string]MergedPosition{}
	for _, m := range out {
		bySymbol[m.Symbol] = m
	}

	assert.Equal(t, 0.5, bySymbol["BTC/USDT"].Size)
	assert.Equal(t, -10.0, bySymbol["ETH/USDT"].Size)

	// first observed mark price wins; records for one symbol come from the
	// same feed, so any of them is acceptable
	assert.Equal(t, 100.0, *bySymbol["BTC/USDT"].MarkPrice)
	assert.Nil(t, bySymbol["ETH/USDT"].MarkPrice)
}

func TestMergeOrderIndependent(t *testing.T) {
	raw := []RawPosition{
		{Symbol: "BTC/USD", Side: SideLong, Contracts: 3, ContractSize: 1},
		{Symbol: "BTC/USD", Side: SideShort, Contracts: 5, ContractSize: 1},
		{Symbol: "BTC/USD", Side: SideLong, Contracts: 1, ContractSize: 1},
	}

	forward := Merge(raw)

	reversed := []RawPosition{raw[2], raw[1], raw[0]}
	backward := Merge(reversed)

	assert.Equal(t, forward[0].Size, backward[0].Size)
	assert.Equal(t, -1.0, forward[0].Size)
}

func TestMergeEmpty(t *testing.T) {
	assert.Empty(t, Merge(nil))
}
