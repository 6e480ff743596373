package exchange

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/pkg/errors"

	"cryptosync/internal/controllers"
)

// Collateral conversion reads prices from a fixed reference source rather
// than the account's own exchange, which may not quote every pair.
const coinbaseURL = "https://api.coinbase.com"

//go:generate mockery --case=snake --name=TickerSource

type TickerSource interface {
	SpotPrice(base, quote string) (float64, error)
}

type coinbaseSource struct {
	client controllers.ClientCtrl
	url    string
}

func NewCoinbaseSource(rawURL string, client controllers.ClientCtrl) TickerSource {
	if rawURL == "" {
		rawURL = coinbaseURL
	}

	return &coinbaseSource{
		client: client,
		url:    rawURL,
	}
}

func (s *coinbaseSource) SpotPrice(base, quote string) (float64, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return 0, err
	}

	u.Path = path.Join("/v2/prices", fmt.Sprintf("%s-%s", base, quote), "spot")

	body, err := s.client.Send(http.MethodGet, u, nil, nil)
	if err != nil {
		return 0, errors.Wrapf(err, "spot price %s-%s", base, quote)
	}

	var resp struct {
		Data struct {
			Amount string `json:"amount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, errors.Wrapf(err, "spot price %s-%s", base, quote)
	}

	return strconv.ParseFloat(resp.Data.Amount, 64)
}
