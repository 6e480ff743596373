package controllers

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ClientController performs all outbound HTTP reads. Every call is preceded
// by a fixed pacing pause so exchange rate limits are respected regardless
// of which component triggers the read; the process is single-threaded per
// cycle, so a blocking pause is enough.
type ClientController struct {
	client *http.Client
	logger *logrus.Logger

	pace time.Duration
}

func NewClientController(
	client *http.Client,
	pace time.Duration,
	logger *logrus.Logger,
) *ClientController {
	return &ClientController{
		client: client,
		pace:   pace,
		logger: logger,
	}
}

func (c *ClientController) Send(method string, url *url.URL, body []byte, headers map[string]string) ([]byte, error) {
	if c.pace > 0 {
		time.Sleep(c.pace)
	}

	req, err := http.NewRequest(method, url.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Add("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Add(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	out, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(fmt.Sprintf("statusCode %d; resp %s;", resp.StatusCode, out))
	}

	return out, nil
}
