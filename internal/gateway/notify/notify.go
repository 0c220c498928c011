// Package notify is the fire-and-forget notification boundary. Delivery
// failures are logged and never propagated into lifecycle flows.
package notify

import (
	"context"
	"log"
)

type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendSMS(ctx context.Context, to, message string) error
}

// LogNotifier writes notifications to the process log. It stands in for the
// real email/SMS providers, which live outside this service.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) SendEmail(_ context.Context, to, subject, _ string) error {
	log.Printf("notify: email to=%s subject=%q", to, subject)
	return nil
}

func (LogNotifier) SendSMS(_ context.Context, to, message string) error {
	log.Printf("notify: sms to=%s len=%d", to, len(message))
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
