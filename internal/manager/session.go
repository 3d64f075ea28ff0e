package manager

import (
	"github.com/google/uuid"

	"github.com/MMoskowitz9/resource-provider-manager/internal/domain"
)

// subscribe processes a SUBSCRIBE call. Runs in loop.
//
// A resource provider without a prior ID gets one minted here; one that
// already carries an ID (reconnecting after a lost connection) keeps it.
// Any existing session under that ID is torn down, and the new session
// starts fresh: new stream ID, new outbox, no pending publishes and no
// recorded resource version — a reconnect is a new HTTP call, and the
// old outbox's consumer, if any, is gone.
func (m *Manager) subscribe(info domain.ProviderInfo) subscribeResult {
	providerID := info.ID
	if !providerID.IsZero() {
		if existing, ok := m.sessions[providerID]; ok {
			m.teardownSession(existing, nil)
		}
	} else {
		providerID = domain.NewResourceProviderID()
	}

	s := &session{
		providerID: providerID,
		info:       info,
		streamID:   uuid.New(),
		outbox:     NewQueue[domain.Event](),
		pending:    make(map[uuid.UUID]*PublishHandle),
	}
	s.info.ID = providerID
	m.sessions[providerID] = s

	s.outbox.Put(domain.Event{
		Type:       domain.EventTypeSubscribed,
		Subscribed: &domain.EventSubscribed{ProviderID: providerID},
	})

	if m.metrics != nil {
		m.metrics.SessionSubscribed()
		m.metrics.EventEnqueued(domain.EventTypeSubscribed.String())
	}
	m.logger.Info("resource provider subscribed",
		"resource_provider_id", providerID.String(),
		"stream_id", s.streamID.String(),
		"type", info.Type, "name", info.Name)

	return subscribeResult{providerID: providerID, streamID: s.streamID, outbox: s.outbox}
}

// lookupSession resolves and fences a non-SUBSCRIBE call against its
// session: the resource provider ID and the Mesos-Stream-Id header must
// both match the currently active session. Runs in loop.
func (m *Manager) lookupSession(providerID domain.ResourceProviderID, streamID uuid.UUID) (*session, error) {
	s, ok := m.sessions[providerID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.streamID != streamID {
		return nil, ErrStreamIDMismatch
	}
	return s, nil
}

// teardownSession deregisters the session, resolves any of its pending
// publishes with an error, and closes its outbox so the HTTP layer's
// writer pump unwinds. Runs in loop.
func (m *Manager) teardownSession(s *session, cause error) {
	if cause == nil {
		cause = errorf("resource provider connection closed")
	}
	for _, h := range s.pending {
		h.resolve(cause)
		if m.metrics != nil {
			m.metrics.PublishResolved(false)
		}
	}
	s.outbox.Close()
	delete(m.sessions, s.providerID)

	if m.metrics != nil {
		m.metrics.SessionClosed()
	}
	m.logger.Info("resource provider session closed",
		"resource_provider_id", s.providerID.String(),
		"stream_id", s.streamID.String())
}

// updateOfferOperationStatus relays a provider-reported status update to
// the host's message queue, unchanged. Runs in loop.
func (m *Manager) updateOfferOperationStatus(s *session, c *domain.CallUpdateOfferOperationStatus) {
	m.messages.Put(domain.OutboundMessage{
		Type: domain.OutboundMessageUpdateOfferOperationStatus,
		UpdateOfferOperationStatus: &domain.UpdateOfferOperationStatusMessage{
			FrameworkID:   c.FrameworkID,
			Status:        c.Status,
			OperationUUID: c.OperationUUID,
			LatestStatus:  c.LatestStatus,
		},
	})
	if m.metrics != nil {
		m.metrics.QueueDepth(m.messages.Len())
	}
}

// updateState records a provider's resource-version epoch and relays its
// full snapshot to the host. Runs in loop.
//
// A resource carrying another provider's ID would mean a resource provider
// agent is misreporting resources it doesn't own; that's a bug in the
// caller, not a condition this actor can recover from, so it panics rather
// than silently accepting corrupted state.
func (m *Manager) updateState(s *session, c *domain.CallUpdateState) {
	for _, r := range c.Resources {
		if r.ProviderID != nil && *r.ProviderID != s.providerID {
			panic("update_state: resource providerId " + r.ProviderID.String() +
				" does not match session providerId " + s.providerID.String())
		}
	}

	s.resourceVersionUUID = c.ResourceVersionUUID

	ops := make(map[uuid.UUID]domain.OfferOperation, len(c.Operations))
	for _, op := range c.Operations {
		ops[op.UUID] = op
	}

	m.messages.Put(domain.OutboundMessage{
		Type: domain.OutboundMessageUpdateState,
		UpdateState: &domain.UpdateStateMessage{
			Info:                s.info,
			ResourceVersionUUID: c.ResourceVersionUUID,
			Resources:           c.Resources,
			Operations:          ops,
		},
	})
	if m.metrics != nil {
		m.metrics.QueueDepth(m.messages.Len())
	}
}

// updatePublishResourcesStatus resolves the pending publish this status
// answers. An unknown UUID is logged and dropped: it names a publish this
// session never sent, or one an earlier status report already resolved.
// Runs in loop.
func (m *Manager) updatePublishResourcesStatus(s *session, c *domain.CallUpdatePublishResourcesStatus) {
	h, ok := s.pending[c.UUID]
	if !ok {
		m.logger.Error("publish status for unknown or already-resolved publish",
			"resource_provider_id", s.providerID.String(), "uuid", c.UUID.String())
		return
	}
	delete(s.pending, c.UUID)

	var err error
	if c.Status != domain.PublishStatusOK {
		err = errorf("resource provider reported publish status " + c.Status.String())
	}
	h.resolve(err)

	if m.metrics != nil {
		m.metrics.PublishResolved(err == nil)
	}
}
