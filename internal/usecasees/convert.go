package usecasees

import (
	"github.com/pkg/errors"

	"cryptosync/internal/exchange"
)

// Converter resolves a collateral amount in any currency into both JPY and
// USD through the reference ticker source. A failed lookup fails the whole
// conversion; the caller treats that as a failed collateral step.
type Converter struct {
	source exchange.TickerSource
}

func NewConverter(source exchange.TickerSource) *Converter {
	return &Converter{
		source: source,
	}
}

func (c *Converter) Convert(amount float64, currency string) (jpy, usd float64, err error) {
	switch currency {
	case "JPY":
		rate, err := c.source.SpotPrice("USD", "JPY")
		if err != nil {
			return 0, 0, errors.Wrap(err, "convert JPY")
		}

		return amount, amount / rate, nil

	case "USD":
		rate, err := c.source.SpotPrice("USD", "JPY")
		if err != nil {
			return 0, 0, errors.Wrap(err, "convert USD")
		}

		return amount * rate, amount, nil
	}

	// Any other currency goes through its USD market first.
	price, err := c.source.SpotPrice(currency, "USD")
	if err != nil {
		return 0, 0, errors.Wrapf(err, "convert %s", currency)
	}

	return c.Convert(amount*price, "USD")
}
