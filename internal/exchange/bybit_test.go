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

func newBybitTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/v2/private/order/list", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "BTCUSD", q.Get("symbol"))
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.NotEmpty(t, q.Get("sign"))
		assert.NotEmpty(t, q.Get("timestamp"))

		fmt.Fprint(w, `{"ret_code": 0, "ret_msg": "OK", "result": {"data": [
			{"order_id": "abc-1", "symbol": "BTCUSD", "side": "Buy", "order_type": "Limit",
			 "price": "19000", "qty": 100, "time_in_force": "GoodTillCancel",
			 "order_status": "New", "leaves_qty": 100, "cum_exec_qty": 0,
			 "cum_exec_value": "0", "created_at": "2022-08-01T10:00:00.000Z",
			 "updated_at": "2022-08-01T10:00:00.000Z"},
			{"order_id": "abc-2", "symbol": "BTCUSD", "side": "Sell", "order_type": "Market",
			 "price": "0", "qty": 50, "time_in_force": "ImmediateOrCancel",
			 "order_status": "Filled", "leaves_qty": 0, "cum_exec_qty": 50,
			 "cum_exec_value": "0.0025", "created_at": "2022-08-01T11:00:00.000Z",
			 "updated_at": "2022-08-01T11:00:01.000Z"}
		]}}`)
	})

	mux.HandleFunc("/v2/private/position/list", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ret_code": 0, "ret_msg": "OK", "result": [
			{"is_valid": true, "data": {"symbol": "BTCUSD", "side": "Buy", "size": 150}},
			{"is_valid": true, "data": {"symbol": "ETHUSD", "side": "None", "size": 0}},
			{"is_valid": false, "data": {"symbol": "EOSUSD", "side": "None", "size": 0}}
		]}`)
	})

	mux.HandleFunc("/v2/public/tickers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BTCUSD", r.URL.Query().Get("symbol"))
		fmt.Fprint(w, `{"ret_code": 0, "result": [{"symbol": "BTCUSD", "last_price": "20123.5"}]}`)
	})

	mux.HandleFunc("/v2/private/wallet/balance", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ETH", r.URL.Query().Get("coin"))
		fmt.Fprint(w, `{"ret_code": 0, "ret_msg": "OK", "result": {"ETH": {"equity": 12.5}}}`)
	})

	return httptest.NewServer(mux)
}

func newTestBybit(t *testing.T, url, accountType string) *bybitAdapter {
	t.Helper()

	logger := logrus.New()
	client := controllers.NewClientController(&http.Client{}, 0, logger)
	crypto := controllers.NewCryptoController("test-secret")

	return newBybitAdapter(url, "test-key", accountType, client, crypto, logger)
}

func TestBybitOrders(t *testing.T) {
	srv := newBybitTestServer(t)
	defer srv.Close()

	a := newTestBybit(t, srv.URL, "btc")

	orders, err := a.Orders("BTC/USD")
	assert.NoError(t, err)
	assert.Len(t, orders, 2)

	open := orders[0]
	assert.Equal(t, "abc-1", open.ID)
	assert.Equal(t, "open", open.Status)
	assert.Equal(t, "BTC/USD", open.Symbol)
	assert.Equal(t, "limit", open.Type)
	assert.Equal(t, "buy", open.Side)
	assert.Equal(t, 19000.0, *open.Price)
	assert.Equal(t, 100.0, *open.Amount)
	assert.Equal(t, 100.0, *open.Remaining)
	assert.NotNil(t, open.Timestamp)

	filled := orders[1]
	assert.Equal(t, "closed", filled.Status)
	assert.Equal(t, "sell", filled.Side)
	assert.Equal(t, 50.0, *filled.Filled)
	assert.Equal(t, 0.0025, *filled.Cost)
}

func TestBybitPositions(t *testing.T) {
	srv := newBybitTestServer(t)
	defer srv.Close()

	a := newTestBybit(t, srv.URL, "btc")

	positions, err := a.Positions()
	assert.NoError(t, err)
	assert.Len(t, positions, 2)

	assert.Equal(t, "BTC/USD", positions[0].Symbol)
	assert.Equal(t, SideLong, positions[0].Side)
	assert.Equal(t, 150.0, positions[0].Contracts)
	assert.Nil(t, positions[0].MarkPrice)

	assert.Equal(t, "ETH/USD", positions[1].Symbol)
	assert.Equal(t, 0.0, positions[1].Contracts)
}

func TestBybitLastPrice(t *testing.T) {
	srv := newBybitTestServer(t)
	defer srv.Close()

	a := newTestBybit(t, srv.URL, "btc")

	price, err := a.LastPrice("BTC/USD")
	assert.NoError(t, err)
	assert.Equal(t, 20123.5, price)
}

func TestBybitCollateralUsesAccountTypeCoin(t *testing.T) {
	srv := newBybitTestServer(t)
	defer srv.Close()

	a := newTestBybit(t, srv.URL, "eth")

	reading, err := a.Collateral()
	assert.NoError(t, err)
	assert.Equal(t, 12.5, reading.Amount)
	assert.Equal(t, "ETH", reading.Currency)
}

func TestBybitDefaultCoin(t *testing.T) {
	a := newTestBybit(t, "", "")
	assert.Equal(t, "BTC", a.coin)

	a = newTestBybit(t, "", "eth")
	assert.Equal(t, "ETH", a.coin)
}

func TestBybitStatusMapping(t *testing.T) {
	assert.Equal(t, "open", bybitStatus("Created"))
	assert.Equal(t, "open", bybitStatus("New"))
	assert.Equal(t, "open", bybitStatus("PartiallyFilled"))
	assert.Equal(t, "closed", bybitStatus("Filled"))
	assert.Equal(t, "canceled", bybitStatus("Cancelled"))
	assert.Equal(t, "canceled", bybitStatus("Rejected"))
}
