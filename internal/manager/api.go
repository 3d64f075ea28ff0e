package manager

import (
	"context"

	"github.com/google/uuid"

	"github.com/MMoskowitz9/resource-provider-manager/internal/domain"
)

// PublishWaiter is returned by PublishResources: it resolves once the
// publish to every addressed resource provider has completed, either by
// that provider answering UPDATE_PUBLISH_RESOURCES_STATUS or by its
// session being torn down.
type PublishWaiter interface {
	Wait() error
}

// ResourceProviderManager is the interface the HTTP endpoint and the host
// process depend on. The concrete *Manager is its only implementation.
type ResourceProviderManager interface {
	// Subscribe registers a resource provider's session and returns its
	// (possibly newly assigned) ID, a fresh stream ID, and the outbox
	// its HTTP response pump should drain.
	Subscribe(ctx context.Context, info domain.ProviderInfo) (domain.ResourceProviderID, uuid.UUID, *Queue[domain.Event], error)

	// HandleCall dispatches any call other than SUBSCRIBE, fenced against
	// the resource provider's active stream ID.
	HandleCall(ctx context.Context, call domain.Call, streamID uuid.UUID) error

	// SessionClosed tears down a session whose HTTP connection dropped.
	// It is a no-op if streamID no longer names the active session (a
	// resubscribe already replaced it).
	SessionClosed(providerID domain.ResourceProviderID, streamID uuid.UUID)

	ApplyOfferOperation(ctx context.Context, msg domain.ApplyOfferOperationMessage) error
	AcknowledgeOfferOperationUpdate(ctx context.Context, msg domain.AcknowledgeOfferOperationMessage) error
	ReconcileOfferOperations(ctx context.Context, msg domain.ReconcileOfferOperationsMessage) error
	PublishResources(ctx context.Context, resources []domain.Resource) (PublishWaiter, error)

	// Messages returns the FIFO of host-bound updates accumulated from
	// every subscribed resource provider.
	Messages() *Queue[domain.OutboundMessage]

	Close()
}

var _ ResourceProviderManager = (*Manager)(nil)

func (m *Manager) Subscribe(ctx context.Context, info domain.ProviderInfo) (domain.ResourceProviderID, uuid.UUID, *Queue[domain.Event], error) {
	resp := make(chan subscribeResult, 1)
	if err := m.send(ctx, subscribeCmd{info: info, resp: resp}); err != nil {
		return domain.ResourceProviderID{}, uuid.Nil, nil, err
	}
	select {
	case r := <-resp:
		return r.providerID, r.streamID, r.outbox, r.err
	case <-ctx.Done():
		return domain.ResourceProviderID{}, uuid.Nil, nil, ctx.Err()
	}
}

func (m *Manager) HandleCall(ctx context.Context, call domain.Call, streamID uuid.UUID) error {
	resp := make(chan error, 1)
	if err := m.send(ctx, handleCallCmd{call: call, streamID: streamID, resp: resp}); err != nil {
		return err
	}
	select {
	case err := <-resp:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) SessionClosed(providerID domain.ResourceProviderID, streamID uuid.UUID) {
	select {
	case m.cmdCh <- sessionClosedCmd{providerID: providerID, streamID: streamID}:
	case <-m.doneCh:
	}
}

func (m *Manager) ApplyOfferOperation(ctx context.Context, msg domain.ApplyOfferOperationMessage) error {
	resp := make(chan error, 1)
	if err := m.send(ctx, applyOfferOperationCmd{msg: msg, resp: resp}); err != nil {
		return err
	}
	select {
	case err := <-resp:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) AcknowledgeOfferOperationUpdate(ctx context.Context, msg domain.AcknowledgeOfferOperationMessage) error {
	resp := make(chan error, 1)
	if err := m.send(ctx, acknowledgeCmd{msg: msg, resp: resp}); err != nil {
		return err
	}
	select {
	case err := <-resp:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) ReconcileOfferOperations(ctx context.Context, msg domain.ReconcileOfferOperationsMessage) error {
	resp := make(chan error, 1)
	if err := m.send(ctx, reconcileCmd{msg: msg, resp: resp}); err != nil {
		return err
	}
	select {
	case err := <-resp:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) PublishResources(ctx context.Context, resources []domain.Resource) (PublishWaiter, error) {
	resp := make(chan publishResourcesResult, 1)
	if err := m.send(ctx, publishResourcesCmd{resources: resources, resp: resp}); err != nil {
		return nil, err
	}
	select {
	case r := <-resp:
		if r.err != nil {
			return nil, r.err
		}
		return r.handle, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) Messages() *Queue[domain.OutboundMessage] {
	return m.messages
}

// Close shuts the actor loop down, tearing down every session and
// unblocking every pending Messages() consumer. It blocks until the loop
// has exited.
func (m *Manager) Close() {
	resp := make(chan struct{})
	select {
	case m.cmdCh <- shutdownCmd{resp: resp}:
		<-resp
	case <-m.doneCh:
	}
}

// send posts cmd to the actor loop, failing fast if the manager is
// already closed or ctx is done before the loop can accept it.
func (m *Manager) send(ctx context.Context, cmd any) error {
	select {
	case m.cmdCh <- cmd:
		return nil
	case <-m.doneCh:
		return ErrManagerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
