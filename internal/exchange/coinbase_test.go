package exchange

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"cryptosync/internal/controllers"
)

func TestCoinbaseSpotPrice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/prices/USD-JPY/spot", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"base": "USD", "currency": "JPY", "amount": "135.42"}}`)
	})
	mux.HandleFunc("/v2/prices/BTC-USD/spot", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"base": "BTC", "currency": "USD", "amount": "21050.55"}}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := controllers.NewClientController(&http.Client{}, 0, logrus.New())
	source := NewCoinbaseSource(srv.URL, client)

	price, err := source.SpotPrice("USD", "JPY")
	assert.NoError(t, err)
	assert.Equal(t, 135.42, price)

	price, err = source.SpotPrice("BTC", "USD")
	assert.NoError(t, err)
	assert.Equal(t, 21050.55, price)

	_, err = source.SpotPrice("XXX", "YYY")
	assert.Error(t, err)
}
