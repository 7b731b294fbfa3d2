package ports

import (
	"context"
)

// Frontend is a long running presentation adapter such as the HTTP server or the SMTP filter
type Frontend interface {
	// Name identifies the front end in logs
	Name() string

	// Start begins serving in the background
	Start() error

	// Stop shuts the front end down, waiting for in-flight work until ctx expires
	Stop(ctx context.Context) error
}
