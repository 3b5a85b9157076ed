package audit

import (
	"context"
	"log"
)

// LogSink writes audit events to the process log. Used when no database is attached.
type LogSink struct{}

func (LogSink) Record(_ context.Context, event Event) error {
	log.Printf("audit: type=%s severity=%s transaction=%s description=%q",
		event.Type, event.Severity, event.TransactionID, event.Description)
	return nil
}
