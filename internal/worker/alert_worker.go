package worker

// alert_worker.go
// Processes alarm notification jobs from QueueAlerts: a swab crossed the
// alarm threshold during a scan and someone should plan its replacement.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AlarmAlertPayload is the job envelope sent to QueueAlerts.
type AlarmAlertPayload struct {
	To          string  `json:"to"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	MachineName *string `json:"machine_name"`
	CurrentDays int     `json:"current_days"`
	TotalDays   int     `json:"total_days"`
	AlarmDays   int     `json:"alarm_days"`
}

// AlertSender is the slice of the mailer the worker needs.
type AlertSender interface {
	SendAlarmNotice(to, subject, body string) error
}

// AlertWorker sends alarm notification mails via SMTP.
type AlertWorker struct {
	mailer AlertSender
}

func NewAlertWorker(mailer AlertSender) *AlertWorker {
	return &AlertWorker{mailer: mailer}
}

func (w *AlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AlarmAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return err
	}
	if payload.To == "" {
		log.Warn().Msg("alert_worker: empty recipient, skipping")
		return nil
	}

	subject := fmt.Sprintf("[swab alarm] %s exceeded %d usage days", payload.SKU, payload.AlarmDays)
	location := "in stock"
	if payload.MachineName != nil {
		location = "at " + *payload.MachineName
	}
	body := fmt.Sprintf(
		"Swab %s (%s) has crossed the alarm threshold of %d days.\n\n"+
			"Current open session: %d days\nUnique usage days total: %d\nLocation: %s\n",
		payload.SKU, payload.Name, payload.AlarmDays,
		payload.CurrentDays, payload.TotalDays, location,
	)

	if err := w.mailer.SendAlarmNotice(payload.To, subject, body); err != nil {
		log.Error().Err(err).Str("sku", payload.SKU).Msg("alert_worker: failed to send email")
		return err
	}
	log.Info().Str("sku", payload.SKU).Str("to", payload.To).Msg("alert_worker: alarm notice sent")
	return nil
}
