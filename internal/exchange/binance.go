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

// USDⓈ-M futures API.
const (
	binanceURL = "https://fapi.binance.com"

	binanceOrdersUrlPath    = "/fapi/v1/allOrders"
	binancePositionsUrlPath = "/fapi/v2/positionRisk"
	binanceTickerUrlPath    = "/fapi/v1/ticker/price"
	binanceAccountUrlPath   = "/fapi/v2/account"
)

var binanceQuotes = []string{"USDT", "BUSD", "USDC", "USD"}

type binanceAdapter struct {
	client controllers.ClientCtrl
	crypto controllers.CryptoCtrl

	apiKey string
	url    string

	logger *logrus.Logger
}

func newBinanceAdapter(
	rawURL, apiKey string,
	client controllers.ClientCtrl,
	crypto controllers.CryptoCtrl,
	logger *logrus.Logger,
) *binanceAdapter {
	if rawURL == "" {
		rawURL = binanceURL
	}

	return &binanceAdapter{
		client: client,
		crypto: crypto,
		apiKey: apiKey,
		url:    rawURL,
		logger: logger,
	}
}

type binanceOrder struct {
	OrderID     int64  `json:"orderId"`
	Symbol      string `json:"symbol"`
	Status      string `json:"status"`
	Price       string `json:"price"`
	AvgPrice    string `json:"avgPrice"`
	OrigQty     string `json:"origQty"`
	ExecutedQty string `json:"executedQty"`
	CumQuote    string `json:"cumQuote"`
	TimeInForce string `json:"timeInForce"`
	Type        string `json:"type"`
	Side        string `json:"side"`
	Time        int64  `json:"time"`
	UpdateTime  int64  `json:"updateTime"`
}

func (a *binanceAdapter) Orders(symbol string) ([]RawOrder, error) {
	u, err := a.signedURL(binanceOrdersUrlPath, map[string]string{
		"symbol": binanceSymbol(symbol),
	})
	if err != nil {
		return nil, err
	}

	body, err := a.client.Send(http.MethodGet, u, nil, a.headers())
	if err != nil {
		return nil, errors.Wrap(err, "binance orders")
	}

	var rows []binanceOrder
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, errors.Wrap(err, "binance orders")
	}

	out := make([]RawOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, RawOrder{
			ID:                 strconv.FormatInt(row.OrderID, 10),
			Timestamp:          msPtr(row.Time),
			LastTradeTimestamp: msPtr(row.UpdateTime),
			Status:             binanceStatus(row.Status),
			Symbol:             symbol,
			Type:               strings.ToLower(row.Type),
			TimeInForce:        row.TimeInForce,
			Side:               strings.ToLower(row.Side),
			Price:              floatPtr(row.Price),
			Average:            floatPtr(row.AvgPrice),
			Amount:             floatPtr(row.OrigQty),
			Filled:             floatPtr(row.ExecutedQty),
			Remaining:          remaining(floatPtr(row.OrigQty), floatPtr(row.ExecutedQty)),
			Cost:               floatPtr(row.CumQuote),
		})
	}

	return out, nil
}

type binancePosition struct {
	Symbol      string `json:"symbol"`
	PositionAmt string `json:"positionAmt"`
	MarkPrice   string `json:"markPrice"`
}

func (a *binanceAdapter) Positions() ([]RawPosition, error) {
	u, err := a.signedURL(binancePositionsUrlPath, nil)
	if err != nil {
		return nil, err
	}

	body, err := a.client.Send(http.MethodGet, u, nil, a.headers())
	if err != nil {
		return nil, errors.Wrap(err, "binance positions")
	}

	var rows []binancePosition
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, errors.Wrap(err, "binance positions")
	}

	out := make([]RawPosition, 0, len(rows))
	for _, row := range rows {
		amt, err := strconv.ParseFloat(row.PositionAmt, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "binance positionAmt %q", row.PositionAmt)
		}

		side := SideLong
		if amt < 0 {
			side = SideShort
			amt = -amt
		}

		out = append(out, RawPosition{
			Symbol:       binanceUnified(row.Symbol),
			Side:         side,
			Contracts:    amt,
			ContractSize: 1,
			MarkPrice:    floatPtr(row.MarkPrice),
		})
	}

	return out, nil
}

func (a *binanceAdapter) LastPrice(symbol string) (float64, error) {
	u, err := url.Parse(a.url)
	if err != nil {
		return 0, err
	}
	u.Path = path.Join(binanceTickerUrlPath)

	q := u.Query()
	q.Set("symbol", binanceSymbol(symbol))
	u.RawQuery = q.Encode()

	body, err := a.client.Send(http.MethodGet, u, nil, nil)
	if err != nil {
		return 0, errors.Wrap(err, "binance ticker")
	}

	var out struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, errors.Wrap(err, "binance ticker")
	}

	return strconv.ParseFloat(out.Price, 64)
}

func (a *binanceAdapter) Collateral() (CollateralReading, error) {
	u, err := a.signedURL(binanceAccountUrlPath, nil)
	if err != nil {
		return CollateralReading{}, err
	}

	body, err := a.client.Send(http.MethodGet, u, nil, a.headers())
	if err != nil {
		return CollateralReading{}, errors.Wrap(err, "binance account")
	}

	var out struct {
		TotalMarginBalance string `json:"totalMarginBalance"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return CollateralReading{}, errors.Wrap(err, "binance account")
	}

	amount, err := strconv.ParseFloat(out.TotalMarginBalance, 64)
	if err != nil {
		return CollateralReading{}, errors.Wrap(err, "binance account")
	}

	return CollateralReading{Amount: amount, Currency: "USD"}, nil
}

func (a *binanceAdapter) signedURL(urlPath string, params map[string]string) (*url.URL, error) {
	u, err := url.Parse(a.url)
	if err != nil {
		return nil, err
	}

	u.Path = path.Join(urlPath)

	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("recvWindow", "60000")
	q.Set("timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))

	sig := a.crypto.GetSignature(q.Encode())
	q.Set("signature", sig)

	u.RawQuery = q.Encode()

	return u, nil
}

func (a *binanceAdapter) headers() map[string]string {
	return map[string]string{"X-MBX-APIKEY": a.apiKey}
}

// binanceSymbol maps a unified symbol to the exchange code: BTC/USDT -> BTCUSDT.
func binanceSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}

// binanceUnified maps an exchange code back to a unified symbol by quote
// suffix: BTCUSDT -> BTC/USDT. Unknown quotes pass through unchanged.
func binanceUnified(code string) string {
	for _, quote := range binanceQuotes {
		if strings.HasSuffix(code, quote) && len(code) > len(quote) {
			return code[:len(code)-len(quote)] + "/" + quote
		}
	}

	return code
}

func binanceStatus(status string) string {
	switch status {
	case "NEW", "PARTIALLY_FILLED":
		return models.StatusOpen
	case "FILLED":
		return models.StatusClosed
	case "CANCELED", "REJECTED", "EXPIRED":
		return models.StatusCanceled
	}

	return strings.ToLower(status)
}

func msPtr(v int64) *int64 {
	if v == 0 {
		return nil
	}

	return &v
}

func floatPtr(s string) *float64 {
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}

	return &v
}

func remaining(amount, filled *float64) *float64 {
	if amount == nil || filled == nil {
		return nil
	}

	v := *amount - *filled

	return &v
}
