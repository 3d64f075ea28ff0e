package manager

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/MMoskowitz9/resource-provider-manager/internal/domain"
)

// MetricsSink receives Manager lifecycle events. Implementations must be
// nil-safe from the caller's perspective: passing a nil MetricsSink to New
// is valid and simply means no metrics are recorded.
type MetricsSink interface {
	SessionSubscribed()
	SessionClosed()
	PublishStarted()
	PublishResolved(ok bool)
	EventEnqueued(eventType string)
	QueueDepth(n int)
}

// Manager-level errors.
var (
	ErrSessionNotFound     = errorf("resource provider session not found")
	ErrStreamIDMismatch    = errorf("mesos-stream-id does not match the active session")
	ErrManagerClosed       = errorf("resource provider manager closed")
	ErrNoResources         = errorf("no resources to publish")
	ErrUnroutableResources = errorf("resources reference no known resource provider")
	ErrUnhandledCallType   = errorf("call type not handled by this dispatcher")
)

// session holds all per-resource-provider state. Owned exclusively by the
// actor loop; every field access happens on the run() goroutine.
type session struct {
	providerID domain.ResourceProviderID
	info       domain.ProviderInfo
	streamID   uuid.UUID

	outbox *Queue[domain.Event]

	// resourceVersionUUID is the epoch most recently reported by this
	// provider via UPDATE_STATE; publishes are addressed to a provider,
	// not a version. It is recorded here but not otherwise read; the host
	// sees the version through the UpdateState message instead.
	resourceVersionUUID uuid.UUID

	pending map[uuid.UUID]*PublishHandle
}

// Manager mediates between a fixed set of dynamically registered resource
// providers and a single host process. All mutable state lives on the
// actor goroutine started by New; every exported method other than
// Messages posts a command to it, and all but SessionClosed then block on
// that command's response channel.
type Manager struct {
	cmdCh  chan any
	doneCh chan struct{}

	messages *Queue[domain.OutboundMessage]

	// sessions is owned exclusively by run(); nothing outside the actor
	// goroutine ever touches it.
	sessions map[domain.ResourceProviderID]*session

	logger  *slog.Logger
	metrics MetricsSink
}
