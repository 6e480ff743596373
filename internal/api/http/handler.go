package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"cryptosync/internal/watchdog"
)

type Handler struct {
	fiber    *fiber.App
	watchdog *watchdog.Registry
	logger   *logrus.Logger
}

func NewHandler(f *fiber.App, wd *watchdog.Registry, l *logrus.Logger) *Handler {
	return &Handler{
		fiber:    f,
		watchdog: wd,
		logger:   l,
	}
}

// HealthCheck reports every registered heartbeat. The response is 503 as
// soon as any key is stale so a plain HTTP monitor can alert on it.
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	statuses := h.watchdog.Snapshot()

	healthy := true
	for _, s := range statuses {
		if !s.Healthy {
			healthy = false
		}
	}

	body := struct {
		Status bool              `json:"status"`
		Keys   []watchdog.Status `json:"keys"`
	}{
		Status: healthy,
		Keys:   statuses,
	}

	if !healthy {
		c.Status(fiber.StatusServiceUnavailable)
	}

	if err := c.JSON(body); err != nil {
		return err
	}

	return nil
}
