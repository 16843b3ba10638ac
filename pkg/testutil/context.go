package testutil

import (
	"context"
	"time"

	"registrar/pkg/requestcontext"
)

// ContextAt returns a background context whose command time is fixed at t.
// Services stamp events with requestcontext.Now, so this pins SelectedAt and
// registration period checks.
func ContextAt(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}
