// Package exchange gives the sync engine normalized read-only access to one
// exchange account. Per-exchange quirks (endpoints, signing, symbol codes,
// account sub-types) live behind the Adapter interface; the engine never
// branches on the exchange name.
package exchange

import (
	"cryptosync/internal/controllers"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	SideLong  = "long"
	SideShort = "short"
)

var (
	ErrUnknownExchange    = errors.New("unknown exchange")
	ErrInvalidAccountType = errors.New("invalid account type for exchange")
)

type Credentials struct {
	Key      string
	Secret   string
	Password string
}

// RawOrder is an order as returned by an exchange, mapped onto a unified
// field set. Optional fields are nil when the exchange omits them.
type RawOrder struct {
	ID                 string
	Timestamp          *int64
	LastTradeTimestamp *int64
	Status             string
	Symbol             string
	Type               string
	TimeInForce        string
	Side               string
	Price              *float64
	Average            *float64
	Amount             *float64
	Filled             *float64
	Remaining          *float64
	Cost               *float64
}

// RawPosition is one per-contract position record, possibly one of several
// for the same symbol. MarkPrice is nil when the endpoint does not carry it.
type RawPosition struct {
	Symbol       string
	Side         string
	Contracts    float64
	ContractSize float64
	MarkPrice    *float64
}

// CollateralReading is account equity in the exchange's native currency.
type CollateralReading struct {
	Amount   float64
	Currency string
}

//go:generate mockery --case=snake --name=Adapter

type Adapter interface {
	Orders(symbol string) ([]RawOrder, error)
	Positions() ([]RawPosition, error)
	LastPrice(symbol string) (float64, error)
	Collateral() (CollateralReading, error)
}

// accountTypes lists the valid account sub-types per exchange. The empty
// sub-type is always the exchange default.
var accountTypes = map[string][]string{
	"binance": {""},
	"bybit":   {"", "btc", "eth"},
}

func ValidateAccountType(exchange, accountType string) error {
	valid, ok := accountTypes[exchange]
	if !ok {
		return errors.Wrap(ErrUnknownExchange, exchange)
	}

	for _, v := range valid {
		if accountType == v {
			return nil
		}
	}

	return errors.Wrapf(ErrInvalidAccountType, "%s/%s", exchange, accountType)
}

// New selects the adapter implementation for the named exchange. rawURL
// overrides the exchange's production endpoint when non-empty.
func New(
	exchange, rawURL string,
	creds Credentials,
	accountType string,
	client controllers.ClientCtrl,
	logger *logrus.Logger,
) (Adapter, error) {
	if err := ValidateAccountType(exchange, accountType); err != nil {
		return nil, err
	}

	crypto := controllers.NewCryptoController(creds.Secret)

	switch exchange {
	case "binance":
		return newBinanceAdapter(rawURL, creds.Key, client, crypto, logger), nil
	case "bybit":
		return newBybitAdapter(rawURL, creds.Key, accountType, client, crypto, logger), nil
	}

	return nil, errors.Wrap(ErrUnknownExchange, exchange)
}
