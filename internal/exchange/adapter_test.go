package exchange

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"cryptosync/internal/controllers"
)

func TestValidateAccountType(t *testing.T) {
	assert.NoError(t, ValidateAccountType("binance", ""))
	assert.NoError(t, ValidateAccountType("bybit", ""))
	assert.NoError(t, ValidateAccountType("bybit", "btc"))
	assert.NoError(t, ValidateAccountType("bybit", "eth"))

	err := ValidateAccountType("binance", "btc")
	assert.True(t, errors.Is(err, ErrInvalidAccountType))

	err = ValidateAccountType("kraken", "")
	assert.True(t, errors.Is(err, ErrUnknownExchange))
}

func TestNewSelectsAdapter(t *testing.T) {
	logger := logrus.New()
	client := controllers.NewClientController(&http.Client{}, 0, logger)
	creds := Credentials{Key: "k", Secret: "s"}

	a, err := New("binance", "", creds, "", client, logger)
	assert.NoError(t, err)
	assert.IsType(t, &binanceAdapter{}, a)

	a, err = New("bybit", "", creds, "eth", client, logger)
	assert.NoError(t, err)
	assert.IsType(t, &bybitAdapter{}, a)

	_, err = New("ftx", "", creds, "", client, logger)
	assert.Error(t, err)

	_, err = New("bybit", "", creds, "doge", client, logger)
	assert.True(t, errors.Is(err, ErrInvalidAccountType))
}
