package manager

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MMoskowitz9/resource-provider-manager/internal/domain"
)

// New starts a Manager's actor loop and returns a handle to it. logger
// must not be nil; pass slog.Default() if the caller has no preference.
// metrics may be nil, in which case no metrics are recorded.
func New(logger *slog.Logger, metrics MetricsSink) *Manager {
	m := &Manager{
		cmdCh:    make(chan any),
		doneCh:   make(chan struct{}),
		messages: NewQueue[domain.OutboundMessage](),
		sessions: make(map[domain.ResourceProviderID]*session),
		logger:   logger,
		metrics:  metrics,
	}
	go m.run()
	return m
}

func (m *Manager) run() {
	defer close(m.doneCh)
	for cmd := range m.cmdCh {
		switch c := cmd.(type) {
		case subscribeCmd:
			c.resp <- m.subscribe(c.info)

		case handleCallCmd:
			c.resp <- m.handleCall(c.call, c.streamID)

		case applyOfferOperationCmd:
			c.resp <- m.dispatchApplyOfferOperation(c.msg)

		case acknowledgeCmd:
			c.resp <- m.dispatchAcknowledge(c.msg)

		case reconcileCmd:
			c.resp <- m.dispatchReconcile(c.msg)

		case publishResourcesCmd:
			handle, err := m.publishResources(c.resources)
			c.resp <- publishResourcesResult{handle: handle, err: err}

		case sessionClosedCmd:
			if s, ok := m.sessions[c.providerID]; ok && s.streamID == c.streamID {
				m.teardownSession(s, nil)
			}

		case shutdownCmd:
			for _, s := range m.sessions {
				m.teardownSession(s, ErrManagerClosed)
			}
			m.messages.Close()
			close(c.resp)
			return

		default:
			m.logger.Warn("unrecognized manager command", "type", fmt.Sprintf("%T", cmd))
		}
	}
}

// handleCall dispatches a non-SUBSCRIBE call to its session, fenced by
// streamID. Runs in loop.
func (m *Manager) handleCall(call domain.Call, streamID uuid.UUID) error {
	if call.Type == domain.CallTypeSubscribe {
		return errorf("subscribe calls must go through Subscribe, not HandleCall")
	}

	s, err := m.lookupSession(call.ResourceProviderID, streamID)
	if err != nil {
		return err
	}

	switch call.Type {
	case domain.CallTypeUpdateOfferOperationStatus:
		m.updateOfferOperationStatus(s, call.UpdateOfferOperationStatus)
	case domain.CallTypeUpdateState:
		m.updateState(s, call.UpdateState)
	case domain.CallTypeUpdatePublishResourcesStatus:
		m.updatePublishResourcesStatus(s, call.UpdatePublishResourcesStatus)
	default:
		return ErrUnhandledCallType
	}
	return nil
}

// dispatchApplyOfferOperation derives the owning resource provider from the
// operation payload itself and sends it an APPLY_OFFER_OPERATION event. A
// payload with no provider ID, or one naming a provider with no active
// session, is a delivery this actor cannot make: log and drop, rather than
// surfacing an error the host-side caller has no useful way to act on. The
// resource-version UUID the host supplies is scoped to a provider; if it
// names a different provider than the one derived from the payload, the
// host has a bug in its own bookkeeping, so this panics rather than
// sending a self-contradictory event.
func (m *Manager) dispatchApplyOfferOperation(msg domain.ApplyOfferOperationMessage) error {
	providerID := msg.OperationInfo.ProviderID
	if providerID == nil || providerID.IsZero() {
		m.logger.Warn("apply_offer_operation: operation payload names no resource provider, dropping",
			"operation_uuid", msg.OperationUUID.String())
		return nil
	}

	s, ok := m.sessions[*providerID]
	if !ok {
		m.logger.Warn("apply_offer_operation: addressed to a resource provider with no active session, dropping",
			"resource_provider_id", providerID.String(), "operation_uuid", msg.OperationUUID.String())
		return nil
	}
	if !msg.ResourceVersionUUID.ProviderID.IsZero() && msg.ResourceVersionUUID.ProviderID != *providerID {
		panic("apply_offer_operation: resource_version_uuid providerId " + msg.ResourceVersionUUID.ProviderID.String() +
			" does not match derived providerId " + providerID.String())
	}
	s.outbox.Put(domain.Event{
		Type: domain.EventTypeApplyOfferOperation,
		ApplyOfferOperation: &domain.EventApplyOfferOperation{
			FrameworkID:         msg.FrameworkID,
			Info:                msg.OperationInfo,
			OperationUUID:       msg.OperationUUID,
			ResourceVersionUUID: msg.ResourceVersionUUID.UUID,
		},
	})
	if m.metrics != nil {
		m.metrics.EventEnqueued(domain.EventTypeApplyOfferOperation.String())
	}
	return nil
}

// dispatchAcknowledge relays an acknowledgement to the owning provider. A
// message naming no provider is an error; one naming a provider with no
// active session is logged and dropped. Runs in loop.
func (m *Manager) dispatchAcknowledge(msg domain.AcknowledgeOfferOperationMessage) error {
	if msg.ResourceProviderID == nil {
		return errorf("acknowledge_offer_operation missing resource_provider_id")
	}
	s, ok := m.sessions[*msg.ResourceProviderID]
	if !ok {
		m.logger.Warn("acknowledge_offer_operation: addressed to a resource provider with no active session, dropping",
			"resource_provider_id", msg.ResourceProviderID.String(), "operation_uuid", msg.OperationUUID.String())
		return nil
	}
	s.outbox.Put(domain.Event{
		Type: domain.EventTypeAcknowledgeOfferOperation,
		AcknowledgeOfferOperation: &domain.EventAcknowledgeOfferOperation{
			StatusUUID:    msg.StatusUUID,
			OperationUUID: msg.OperationUUID,
		},
	})
	if m.metrics != nil {
		m.metrics.EventEnqueued(domain.EventTypeAcknowledgeOfferOperation.String())
	}
	return nil
}

// dispatchReconcile fans a reconcile request out to the sessions its
// operations name. Operations without a resource provider ID carry no
// routing information and are ignored; an empty operation list produces
// no events at all. Runs in loop.
func (m *Manager) dispatchReconcile(msg domain.ReconcileOfferOperationsMessage) error {
	perProvider := make(map[domain.ResourceProviderID][]uuid.UUID)
	for _, op := range msg.Operations {
		if op.ResourceProviderID == nil {
			continue
		}
		perProvider[*op.ResourceProviderID] = append(perProvider[*op.ResourceProviderID], op.OperationUUID)
	}

	for pid, uuids := range perProvider {
		s, ok := m.sessions[pid]
		if !ok {
			m.logger.Warn("reconcile addressed to a resource provider with no active session",
				"resource_provider_id", pid.String())
			continue
		}
		m.sendReconcile(s, uuids)
	}
	return nil
}

func (m *Manager) sendReconcile(s *session, uuids []uuid.UUID) {
	s.outbox.Put(domain.Event{
		Type:                     domain.EventTypeReconcileOfferOperations,
		ReconcileOfferOperations: &domain.EventReconcileOfferOperations{OperationUUIDs: uuids},
	})
	if m.metrics != nil {
		m.metrics.EventEnqueued(domain.EventTypeReconcileOfferOperations.String())
	}
}

// publishResources groups resources by owning provider, validates every
// addressed provider has an active session before sending anything, then
// sends one PUBLISH_RESOURCES event per provider, each with its own
// freshly minted publish UUID. Validating first keeps the call atomic: an
// unknown provider anywhere in the batch fails the whole call before any
// event reaches an outbox. Runs in loop.
func (m *Manager) publishResources(resources []domain.Resource) (*combinedPublishHandle, error) {
	if len(resources) == 0 {
		return nil, ErrNoResources
	}

	var order []domain.ResourceProviderID
	grouped := make(map[domain.ResourceProviderID][]domain.Resource)
	for _, r := range resources {
		if !r.HasProviderID() {
			continue
		}
		pid := *r.ProviderID
		if _, seen := grouped[pid]; !seen {
			order = append(order, pid)
		}
		grouped[pid] = append(grouped[pid], r)
	}
	if len(order) == 0 {
		return nil, ErrUnroutableResources
	}

	for _, pid := range order {
		if _, ok := m.sessions[pid]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, pid.String())
		}
	}

	handles := make([]*PublishHandle, 0, len(order))
	for _, pid := range order {
		s := m.sessions[pid]
		publishUUID := uuid.New()
		h := newPublishHandle()
		s.pending[publishUUID] = h
		s.outbox.Put(domain.Event{
			Type: domain.EventTypePublishResources,
			PublishResources: &domain.EventPublishResources{
				UUID:      publishUUID,
				Resources: grouped[pid],
			},
		})
		handles = append(handles, h)

		if m.metrics != nil {
			m.metrics.PublishStarted()
			m.metrics.EventEnqueued(domain.EventTypePublishResources.String())
		}
	}

	return &combinedPublishHandle{handles: handles}, nil
}
