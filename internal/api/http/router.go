package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"cryptosync/internal/watchdog"
)

func RegisterHTTPEndpoints(f *fiber.App, wd *watchdog.Registry, l *logrus.Logger) {
	h := NewHandler(f, wd, l)
	router := f.Group("api")
	router.Get("/healthcheck", h.HealthCheck)
}
