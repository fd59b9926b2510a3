package publisher

import (
	"context"
	"log"
)

// LogWriter is a Writer that only logs. It stands in for the real
// published view when no spreadsheet credentials are configured.
type LogWriter struct{}

// WriteCell logs the would-be cell update
func (w *LogWriter) WriteCell(ctx context.Context, cellRange, value string) error {
	log.Printf("publisher (log only): %s = %q", cellRange, value)
	return nil
}

// ClearAll logs the would-be full clear
func (w *LogWriter) ClearAll(ctx context.Context) error {
	log.Printf("publisher (log only): clear all")
	return nil
}
