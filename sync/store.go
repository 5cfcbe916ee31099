// Package sync publishes a Jobs collection to a CI server: each job's
// rendered configuration document is created or updated on the server
// through a small remote-store abstraction.
package sync

import (
	"context"

	"github.com/jobsync/jobsync/common/models"
)

type Operation string

const (
	OperationExists Operation = "exists"
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
)

// Store abstracts the CI server's job management operations. The engine
// depends only on this interface; implementations carry the transport
// (HTTP, control executable, in-memory).
type Store interface {
	// Exists reports whether the named job is known to the server. A false
	// result means the server confirmed the job is absent; transport or
	// authorization failures return an error rather than false, so a probe
	// failure is never mistaken for absence.
	Exists(ctx context.Context, name models.JobName) (bool, error)

	// Create registers a new job on the server with the given configuration
	// document as payload.
	Create(ctx context.Context, name models.JobName, config []byte) error

	// Update replaces the configuration document of an existing job.
	Update(ctx context.Context, name models.JobName, config []byte) error
}
