package manager

import (
	"github.com/google/uuid"

	"github.com/MMoskowitz9/resource-provider-manager/internal/domain"
)

// Commands posted into the actor loop. One struct per action, following
// the same request/response-channel shape throughout: the caller builds
// the command with its own resp channel, sends it on cmdCh, and blocks
// receiving on resp.

type subscribeCmd struct {
	info domain.ProviderInfo
	resp chan subscribeResult
}

type subscribeResult struct {
	providerID domain.ResourceProviderID
	streamID   uuid.UUID
	outbox     *Queue[domain.Event]
	err        error
}

type handleCallCmd struct {
	call     domain.Call
	streamID uuid.UUID // from the call's Mesos-Stream-Id header
	resp     chan error
}

type applyOfferOperationCmd struct {
	msg  domain.ApplyOfferOperationMessage
	resp chan error
}

type acknowledgeCmd struct {
	msg  domain.AcknowledgeOfferOperationMessage
	resp chan error
}

type reconcileCmd struct {
	msg  domain.ReconcileOfferOperationsMessage
	resp chan error
}

type publishResourcesCmd struct {
	resources []domain.Resource
	resp      chan publishResourcesResult
}

type publishResourcesResult struct {
	handle *combinedPublishHandle
	err    error
}

type sessionClosedCmd struct {
	providerID domain.ResourceProviderID
	streamID   uuid.UUID
}

type shutdownCmd struct {
	resp chan struct{}
}
