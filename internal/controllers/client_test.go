package controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"cryptosync/internal/controllers"
)

func TestSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "test-key", r.Header.Get("X-MBX-APIKEY"))
			fmt.Fprint(w, `{"pong": true}`)
		case "/fail":
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "boom")
		}
	}))
	defer srv.Close()

	client := controllers.NewClientController(&http.Client{}, 0, logrus.New())

	t.Run("ok", func(t *testing.T) {
		u, err := url.Parse(srv.URL + "/ok")
		assert.NoError(t, err)

		body, err := client.Send(http.MethodGet, u, nil, map[string]string{"X-MBX-APIKEY": "test-key"})
		assert.NoError(t, err)
		assert.Equal(t, `{"pong": true}`, string(body))
	})

	t.Run("non-200", func(t *testing.T) {
		u, err := url.Parse(srv.URL + "/fail")
		assert.NoError(t, err)

		_, err = client.Send(http.MethodGet, u, nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "statusCode 500")
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestGetSignature(t *testing.T) {
	crypto := controllers.NewCryptoController("secret")

	// hmac-sha256 is deterministic for a fixed key and query
	sig := crypto.GetSignature("symbol=BTCUSDT&timestamp=1")
	assert.Equal(t, sig, crypto.GetSignature("symbol=BTCUSDT&timestamp=1"))
	assert.Len(t, sig, 64)
	assert.NotEqual(t, sig, crypto.GetSignature("symbol=ETHUSDT&timestamp=1"))
}
