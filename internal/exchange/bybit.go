package exchange

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"cryptosync/internal/controllers"
	"cryptosync/models"
)

// Inverse (coin-margined) v2 API. The account sub-type selects the
// settlement coin, which is also the native collateral currency.
const (
	bybitURL = "https://api.bybit.com"

	bybitOrdersUrlPath    = "/v2/private/order/list"
	bybitPositionsUrlPath = "/v2/private/position/list"
	bybitTickerUrlPath    = "/v2/public/tickers"
	bybitWalletUrlPath    = "/v2/private/wallet/balance"
)

type bybitAdapter struct {
	client controllers.ClientCtrl
	crypto controllers.CryptoCtrl

	apiKey string
	url    string
	coin   string

	logger *logrus.Logger
}

func newBybitAdapter(
	rawURL, apiKey, accountType string,
	client controllers.ClientCtrl,
	crypto controllers.CryptoCtrl,
	logger *logrus.Logger,
) *bybitAdapter {
	if rawURL == "" {
		rawURL = bybitURL
	}

	coin := "BTC"
	if accountType != "" {
		coin = strings.ToUpper(accountType)
	}

	return &bybitAdapter{
		client: client,
		crypto: crypto,
		apiKey: apiKey,
		url:    rawURL,
		coin:   coin,
		logger: logger,
	}
}

type bybitOrder struct {
	OrderID      string  `json:"order_id"`
	Symbol       string  `json:"symbol"`
	Side         string  `json:"side"`
	OrderType    string  `json:"order_type"`
	Price        string  `json:"price"`
	Qty          float64 `json:"qty"`
	TimeInForce  string  `json:"time_in_force"`
	OrderStatus  string  `json:"order_status"`
	LeavesQty    float64 `json:"leaves_qty"`
	CumExecQty   float64 `json:"cum_exec_qty"`
	CumExecValue string  `json:"cum_exec_value"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func (a *bybitAdapter) Orders(symbol string) ([]RawOrder, error) {
	u, err := a.signedURL(bybitOrdersUrlPath, map[string]string{
		"symbol": bybitSymbol(symbol),
	})
	if err != nil {
		return nil, err
	}

	body, err := a.client.Send(http.MethodGet, u, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "bybit orders")
	}

	var resp struct {
		RetCode int    `json:"ret_code"`
		RetMsg  string `json:"ret_msg"`
		Result  struct {
			Data []bybitOrder `json:"data"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "bybit orders")
	}
	if resp.RetCode != 0 {
		return nil, errors.Errorf("bybit orders: ret_code %d %s", resp.RetCode, resp.RetMsg)
	}

	out := make([]RawOrder, 0, len(resp.Result.Data))
	for _, row := range resp.Result.Data {
		qty := row.Qty
		filled := row.CumExecQty
		leaves := row.LeavesQty

		out = append(out, RawOrder{
			ID:                 row.OrderID,
			Timestamp:          bybitTime(row.CreatedAt),
			LastTradeTimestamp: bybitTime(row.UpdatedAt),
			Status:             bybitStatus(row.OrderStatus),
			Symbol:             symbol,
			Type:               strings.ToLower(row.OrderType),
			TimeInForce:        row.TimeInForce,
			Side:               strings.ToLower(row.Side),
			Price:              floatPtr(row.Price),
			Amount:             &qty,
			Filled:             &filled,
			Remaining:          &leaves,
			Cost:               floatPtr(row.CumExecValue),
		})
	}

	return out, nil
}

type bybitPosition struct {
	Symbol string  `json:"symbol"`
	Side   string  `json:"side"`
	Size   float64 `json:"size"`
}

func (a *bybitAdapter) Positions() ([]RawPosition, error) {
	u, err := a.signedURL(bybitPositionsUrlPath, nil)
	if err != nil {
		return nil, err
	}

	body, err := a.client.Send(http.MethodGet, u, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "bybit positions")
	}

	var resp struct {
		RetCode int    `json:"ret_code"`
		RetMsg  string `json:"ret_msg"`
		Result  []struct {
			IsValid bool          `json:"is_valid"`
			Data    bybitPosition `json:"data"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "bybit positions")
	}
	if resp.RetCode != 0 {
		return nil, errors.Errorf("bybit positions: ret_code %d %s", resp.RetCode, resp.RetMsg)
	}

	out := make([]RawPosition, 0, len(resp.Result))
	for _, row := range resp.Result {
		if !row.IsValid {
			continue
		}

		side := SideLong
		if row.Data.Side == "Sell" {
			side = SideShort
		}

		// Inverse contracts are 1 USD each; the position endpoint carries no
		// mark price, the engine resolves it from the ticker.
		out = append(out, RawPosition{
			Symbol:       bybitUnified(row.Data.Symbol),
			Side:         side,
			Contracts:    row.Data.Size,
			ContractSize: 1,
		})
	}

	return out, nil
}

func (a *bybitAdapter) LastPrice(symbol string) (float64, error) {
	u, err := url.Parse(a.url)
	if err != nil {
		return 0, err
	}
	u.Path = path.Join(bybitTickerUrlPath)

	q := u.Query()
	q.Set("symbol", bybitSymbol(symbol))
	u.RawQuery = q.Encode()

	body, err := a.client.Send(http.MethodGet, u, nil, nil)
	if err != nil {
		return 0, errors.Wrap(err, "bybit ticker")
	}

	var resp struct {
		Result []struct {
			LastPrice string `json:"last_price"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, errors.Wrap(err, "bybit ticker")
	}
	if len(resp.Result) == 0 {
		return 0, errors.Errorf("bybit ticker: no result for %s", symbol)
	}

	return strconv.ParseFloat(resp.Result[0].LastPrice, 64)
}

func (a *bybitAdapter) Collateral() (CollateralReading, error) {
	u, err := a.signedURL(bybitWalletUrlPath, map[string]string{
		"coin": a.coin,
	})
	if err != nil {
		return CollateralReading{}, err
	}

	body, err := a.client.Send(http.MethodGet, u, nil, nil)
	if err != nil {
		return CollateralReading{}, errors.Wrap(err, "bybit wallet")
	}

	var resp struct {
		RetCode int    `json:"ret_code"`
		RetMsg  string `json:"ret_msg"`
		Result  map[string]struct {
			Equity float64 `json:"equity"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return CollateralReading{}, errors.Wrap(err, "bybit wallet")
	}
	if resp.RetCode != 0 {
		return CollateralReading{}, errors.Errorf("bybit wallet: ret_code %d %s", resp.RetCode, resp.RetMsg)
	}

	balance, ok := resp.Result[a.coin]
	if !ok {
		return CollateralReading{}, errors.Errorf("bybit wallet: no balance for %s", a.coin)
	}

	return CollateralReading{Amount: balance.Equity, Currency: a.coin}, nil
}

func (a *bybitAdapter) signedURL(urlPath string, params map[string]string) (*url.URL, error) {
	u, err := url.Parse(a.url)
	if err != nil {
		return nil, err
	}

	u.Path = path.Join(urlPath)

	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("api_key", a.apiKey)
	q.Set("timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))

	// Encode sorts keys, which is the ordering the signature is defined over.
	sig := a.crypto.GetSignature(q.Encode())
	q.Set("sign", sig)

	u.RawQuery = q.Encode()

	return u, nil
}

func bybitSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}

func bybitUnified(code string) string {
	for _, quote := range []string{"USDT", "USD"} {
		if strings.HasSuffix(code, quote) && len(code) > len(quote) {
			return code[:len(code)-len(quote)] + "/" + quote
		}
	}

	return code
}

func bybitStatus(status string) string {
	switch status {
	case "Created", "New", "PartiallyFilled":
		return models.StatusOpen
	case "Filled":
		return models.StatusClosed
	case "Cancelled", "Rejected", "Deactivated":
		return models.StatusCanceled
	}

	return strings.ToLower(status)
}

func bybitTime(s string) *int64 {
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}

	ms := t.UnixMilli()

	return &ms
}
