// Package flavor produces the short "Daily Magic" line shown next to the
// clock. It is decorative: failures degrade to a fixed message.
package flavor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sandeepkv93/playroom/internal/model"
)

const (
	FallbackMessage = "Time to play and have fun!"
	EmptyMessage    = "Have a magical day!"
	DefaultTimeout  = 2 * time.Second
)

var ErrNoProvider = errors.New("flavor: no provider configured")

// Request is the context a message is generated for.
type Request struct {
	EventTitle string
	HasEvent   bool
	TimeOfDay  string // e.g. "7:45 AM"
	Hour       int
}

type Provider interface {
	Message(ctx context.Context, req Request) (string, error)
}

// RequestFor builds a request from the selected event (nil for none) at now.
func RequestFor(active *model.Event, now time.Time) Request {
	req := Request{TimeOfDay: now.Format("3:04 PM"), Hour: now.Hour()}
	if active != nil {
		req.EventTitle = active.Title
		req.HasEvent = true
	}
	return req
}

// Fetch asks p for a message with a deadline. It always returns something
// displayable; err reports why the fallback was used.
func Fetch(ctx context.Context, p Provider, req Request, timeout time.Duration) (string, error) {
	if p == nil {
		return FallbackMessage, ErrNoProvider
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := p.Message(ctx, req)
	if err != nil {
		return FallbackMessage, err
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return EmptyMessage, nil
	}
	return msg, nil
}
