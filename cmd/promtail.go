package main

import (
	"github.com/ic2hrmk/promtail"
	"github.com/sirupsen/logrus"
)

func (a *App) initLoki() error {
	identifiers := map[string]string{
		"instanceId": a.Name,
	}

	promTail, err := promtail.NewJSONv1Client(a.Config.LokiURL, identifiers)
	if err != nil {
		return err
	}

	a.PromTail = promTail
	a.Logger.AddHook(&promtailHook{client: promTail})

	return nil
}

// promtailHook forwards every logrus entry to Loki.
type promtailHook struct {
	client promtail.Client
}

func (h *promtailHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *promtailHook) Fire(e *logrus.Entry) error {
	h.client.LogfWithLabels(promtailLevel(e.Level), nil, "%s", e.Message)

	return nil
}

func promtailLevel(l logrus.Level) promtail.Level {
	switch l {
	case logrus.TraceLevel, logrus.DebugLevel:
		return promtail.Debug
	case logrus.InfoLevel:
		return promtail.Info
	case logrus.WarnLevel:
		return promtail.Warn
	}

	return promtail.Error
}
