package usecasees

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	prices map[string]float64
}

func (f *fakeSource) SpotPrice(base, quote string) (float64, error) {
	p, ok := f.prices[base+"-"+quote]
	if !ok {
		return 0, errors.Errorf("no market %s-%s", base, quote)
	}

	return p, nil
}

func newTestConverter() *Converter {
	return NewConverter(&fakeSource{prices: map[string]float64{
		"USD-JPY": 135.0,
		"BTC-USD": 20000.0,
	}})
}

func TestConvertUSD(t *testing.T) {
	c := newTestConverter()

	jpy, usd, err := c.Convert(100, "USD")
	assert.NoError(t, err)
	assert.Equal(t, 13500.0, jpy)
	assert.Equal(t, 100.0, usd)
}

func TestConvertJPY(t *testing.T) {
	c := newTestConverter()

	jpy, usd, err := c.Convert(13500, "JPY")
	assert.NoError(t, err)
	assert.Equal(t, 13500.0, jpy)
	assert.Equal(t, 100.0, usd)
}

func TestConvertRoundTrip(t *testing.T) {
	c := newTestConverter()

	jpy, _, err := c.Convert(100, "USD")
	assert.NoError(t, err)

	_, usd, err := c.Convert(jpy, "JPY")
	assert.NoError(t, err)
	assert.InDelta(t, 100.0, usd, 1e-9)
}

func TestConvertCoinGoesThroughUSD(t *testing.T) {
	c := newTestConverter()

	jpy, usd, err := c.Convert(0.5, "BTC")
	assert.NoError(t, err)
	assert.Equal(t, 10000.0, usd)
	assert.Equal(t, 1350000.0, jpy)
}

func TestConvertUnknownCurrency(t *testing.T) {
	c := newTestConverter()

	_, _, err := c.Convert(1, "DOGE")
	assert.Error(t, err)
}

func TestConvertLookupFailureFailsWhole(t *testing.T) {
	c := NewConverter(&fakeSource{prices: map[string]float64{
		"BTC-USD": 20000.0,
		// no USD-JPY market: the recursion's base case must fail
	}})

	_, _, err := c.Convert(1, "BTC")
	assert.Error(t, err)
}
