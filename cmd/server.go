package main

import (
	"github.com/gofiber/fiber/v2"

	api "cryptosync/internal/api/http"
)

// runHTTPServer exposes the health surface and /metrics. It runs beside the
// sync loop; the watchdog registry is read concurrently with the loop's
// writes.
func (a *App) runHTTPServer() {
	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	api.NewMiddleware(f).UseMetrics(a.Name)
	api.RegisterHTTPEndpoints(f, a.Watchdog, a.Logger)

	go func() {
		if err := f.Listen(a.Config.ListenAddr); err != nil {
			a.Logger.Error(err)
		}
	}()
}
