// Package upload implements the HTTP ingress for single-file uploads.
package upload

import (
	"context"

	"github.com/driverelay/service/internal/relay"
	"github.com/driverelay/service/internal/storage"
)

// Relayer sends a staged file to remote storage and removes it afterward.
type Relayer interface {
	Send(ctx context.Context, staged *relay.StagedFile, container string) (*storage.Result, error)
}

// Readiness is decided once at startup: either the server is Ready with a
// working relay, or it is Degraded and every upload is refused with the
// stored reason.
type Readiness struct {
	relayer Relayer
	reason  error
}

// Ready returns a Readiness that relays uploads through r.
func Ready(r Relayer) Readiness {
	return Readiness{relayer: r}
}

// Degraded returns a Readiness that refuses every upload with reason.
func Degraded(reason error) Readiness {
	return Readiness{reason: reason}
}

// Err returns the startup error, or nil when the server is ready.
func (s Readiness) Err() error {
	return s.reason
}
