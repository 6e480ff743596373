package controllers

import (
	"net/url"
)

//go:generate mockery --case=snake --name=ClientCtrl
//go:generate mockery --case=snake --name=CryptoCtrl
//go:generate mockery --case=snake --name=TgmCtrl

type ClientCtrl interface {
	Send(method string, url *url.URL, body []byte, headers map[string]string) ([]byte, error)
}

type CryptoCtrl interface {
	GetSignature(query string) string
}

type TgmCtrl interface {
	Send(text string) error
}
