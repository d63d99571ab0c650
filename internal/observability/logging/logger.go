// Package logging provides zerolog helpers with common service fields.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WithComponent returns a logger with a component tag.
func WithComponent(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}

// WithClient returns a logger with CRM client context.
func WithClient(clientID string) zerolog.Logger {
	return log.With().
		Str("clientId", clientID).
		Logger()
}

// WithRequest returns a logger with request context.
func WithRequest(requestID string) zerolog.Logger {
	return log.With().
		Str("requestId", requestID).
		Logger()
}
