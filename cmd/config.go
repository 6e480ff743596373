package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Exchange    string
	ExchangeURL string
	ApiKey      string
	ApiSecret   string
	ApiPassword string

	Account     string
	AccountType string

	LogLevel string

	DatabaseDriver string
	DatabaseURL    string

	LoopInterval  time.Duration
	FetchInterval time.Duration

	ListenAddr string

	TelegramApiToken string
	TelegramChatID   string

	LokiURL string
}

var ErrEnvNotFound = errors.New("err env not found")

func (a *App) loadConfig(confFileName string) error {
	var cfg Config

	err := godotenv.Load(confFileName)
	if err != nil {
		return err
	}

	if cfg.Exchange, err = cfg.set("SYNC_EXCHANGE"); err != nil {
		return err
	}

	if cfg.ApiKey, err = cfg.set("SYNC_API_KEY"); err != nil {
		return err
	}

	if cfg.ApiSecret, err = cfg.set("SYNC_API_SECRET"); err != nil {
		return err
	}

	if cfg.Account, err = cfg.set("SYNC_ACCOUNT"); err != nil {
		return err
	}

	if cfg.DatabaseURL, err = cfg.set("SYNC_DATABASE_URL"); err != nil {
		return err
	}

	cfg.ExchangeURL = os.Getenv("SYNC_EXCHANGE_URL")
	cfg.ApiPassword = os.Getenv("SYNC_API_PASSWORD")
	cfg.AccountType = os.Getenv("SYNC_ACCOUNT_TYPE")
	cfg.LogLevel = os.Getenv("SYNC_LOG_LEVEL")
	cfg.DatabaseDriver = getenvDefault("SYNC_DATABASE_DRIVER", "postgres")
	cfg.ListenAddr = getenvDefault("SYNC_LISTEN_ADDR", ":8080")

	cfg.TelegramApiToken = os.Getenv("TELEGRAM_API_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.LokiURL = os.Getenv("LOKI_URL")

	if cfg.LoopInterval, err = envSeconds("SYNC_LOOP_INTERVAL", 60*time.Second); err != nil {
		return err
	}

	if cfg.FetchInterval, err = envSeconds("SYNC_FETCH_INTERVAL", 2*time.Second); err != nil {
		return err
	}

	a.Config = &cfg

	return nil
}

func (c *Config) set(key string) (string, error) {
	if os.Getenv(key) == "" {
		return "", errors.Wrap(ErrEnvNotFound, key)
	}

	return os.Getenv(key), nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func envSeconds(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	sec, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(err, key)
	}

	return time.Duration(sec) * time.Second, nil
}
