package main

import (
	"flag"
	"strconv"
	"time"

	"cryptosync/internal/controllers"
	"cryptosync/internal/exchange"
	"cryptosync/internal/repository/postgres"
	"cryptosync/internal/usecasees"
	"cryptosync/internal/watchdog"
)

func main() {
	var app App
	var confFileName string

	flag.StringVar(&confFileName, "config", ".env", "")
	flag.Parse()

	app.Name = "cryptosync"

	if err := app.loadConfig(confFileName); err != nil {
		panic(err)
	}

	app.initLogger()

	if app.Config.LokiURL != "" {
		if err := app.initLoki(); err != nil {
			panic(err)
		}
	}

	if app.Config.TelegramApiToken != "" {
		if err := app.initTgBot(); err != nil {
			panic(err)
		}
	}

	if err := app.InitDB(); err != nil {
		panic(err)
	}

	if err := postgres.EnsureSchema(app.DB); err != nil {
		panic(err)
	}

	app.initHTTPClient()
	app.InitMetrics()

	app.Watchdog = watchdog.New()
	app.Watchdog.Register(usecasees.HeartbeatKey, 5*time.Minute, 5*time.Minute)

	clientController := controllers.NewClientController(
		app.HTTPClient,
		app.Config.FetchInterval,
		app.Logger,
	)

	adapter, err := exchange.New(
		app.Config.Exchange,
		app.Config.ExchangeURL,
		exchange.Credentials{
			Key:      app.Config.ApiKey,
			Secret:   app.Config.ApiSecret,
			Password: app.Config.ApiPassword,
		},
		app.Config.AccountType,
		clientController,
		app.Logger,
	)
	if err != nil {
		panic(err)
	}

	converter := usecasees.NewConverter(exchange.NewCoinbaseSource("", clientController))

	orderRepo := postgres.NewOrderRepository(app.DB)
	positionRepo := postgres.NewPositionRepository(app.DB)
	collateralRepo := postgres.NewCollateralRepository(app.DB)

	var tgmController controllers.TgmCtrl
	if app.TGM != nil {
		chatID, err := strconv.ParseInt(app.Config.TelegramChatID, 10, 64)
		if err != nil {
			panic(err)
		}

		tgmController = controllers.NewTgmController(app.TGM, chatID)
	}

	app.runHTTPServer()

	syncUseCase := usecasees.NewSyncUseCase(
		adapter,
		converter,
		orderRepo,
		positionRepo,
		collateralRepo,
		app.Watchdog,
		tgmController,
		app.Metrics.Sync,
		app.Config.Account,
		app.Config.LoopInterval,
		app.Logger,
	)

	app.Logger.Infof("exchange %s", app.Config.Exchange)
	app.Logger.Infof("account %s", app.Config.Account)
	app.Logger.Infof("account_type %s", app.Config.AccountType)

	syncUseCase.Run()
}
