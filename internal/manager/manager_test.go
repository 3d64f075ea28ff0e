package manager

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/MMoskowitz9/resource-provider-manager/internal/domain"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	m := New(slog.New(slog.DiscardHandler), nil)
	t.Cleanup(m.Close)
	return m
}

func subscribeProvider(t *testing.T, m *Manager, info domain.ProviderInfo) (domain.ResourceProviderID, uuid.UUID, *Queue[domain.Event]) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	providerID, streamID, outbox, err := m.Subscribe(ctx, info)
	require.NoError(t, err)
	return providerID, streamID, outbox
}

func nextEvent(t *testing.T, q *Queue[domain.Event]) domain.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ev, ok := q.Next(ctx)
	require.True(t, ok, "expected an event before the queue closed or timed out")
	return ev
}

func TestSubscribe_AssignsProviderID(t *testing.T) {
	m := testManager(t)
	providerID, streamID, outbox := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk"})
	require.False(t, providerID.IsZero())
	require.NotEqual(t, uuid.Nil, streamID)

	ev := nextEvent(t, outbox)
	require.Equal(t, domain.EventTypeSubscribed, ev.Type)
	require.Equal(t, providerID, ev.Subscribed.ProviderID)
}

func TestSubscribe_Resubscribe_ReplacesSession(t *testing.T) {
	m := testManager(t)
	info := domain.ProviderInfo{Type: "org.example.rp", Name: "disk"}
	providerID, streamID1, outbox1 := subscribeProvider(t, m, info)

	info.ID = providerID
	providerID2, streamID2, outbox2 := subscribeProvider(t, m, info)

	require.Equal(t, providerID, providerID2)
	require.NotEqual(t, streamID1, streamID2)

	// the first outbox is closed by the replacement subscribe; its queued
	// SUBSCRIBED event is still delivered before Next reports the close.
	nextEvent(t, outbox1) // SUBSCRIBED
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, ok := outbox1.Next(ctx)
	require.False(t, ok)

	nextEvent(t, outbox2)
}

func TestHandleCall_RejectsSubscribe(t *testing.T) {
	m := testManager(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := m.HandleCall(ctx, domain.Call{Type: domain.CallTypeSubscribe}, uuid.New())
	require.Error(t, err)
}

func TestHandleCall_StreamIDMismatch(t *testing.T) {
	m := testManager(t)
	providerID, _, _ := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	call := domain.Call{
		Type:               domain.CallTypeUpdateState,
		ResourceProviderID: providerID,
		UpdateState:        &domain.CallUpdateState{},
	}
	err := m.HandleCall(ctx, call, uuid.New())
	require.ErrorIs(t, err, ErrStreamIDMismatch)
}

func TestHandleCall_SessionNotFound(t *testing.T) {
	m := testManager(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	call := domain.Call{
		Type:               domain.CallTypeUpdateState,
		ResourceProviderID: domain.NewResourceProviderID(),
		UpdateState:        &domain.CallUpdateState{},
	}
	err := m.HandleCall(ctx, call, uuid.New())
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHandleCall_UpdateOfferOperationStatus_EnqueuesMessage(t *testing.T) {
	m := testManager(t)
	providerID, streamID, _ := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk"})

	opUUID := uuid.New()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	call := domain.Call{
		Type:               domain.CallTypeUpdateOfferOperationStatus,
		ResourceProviderID: providerID,
		UpdateOfferOperationStatus: &domain.CallUpdateOfferOperationStatus{
			OperationUUID: opUUID,
			Status:        domain.OfferOperationStatus{State: "OPERATION_FINISHED"},
		},
	}
	require.NoError(t, m.HandleCall(ctx, call, streamID))

	msgCtx, msgCancel := context.WithTimeout(context.Background(), time.Second)
	defer msgCancel()
	msg, ok := m.Messages().Next(msgCtx)
	require.True(t, ok)
	require.Equal(t, domain.OutboundMessageUpdateOfferOperationStatus, msg.Type)
	require.Equal(t, opUUID, msg.UpdateOfferOperationStatus.OperationUUID)
}

// updateState and dispatchApplyOfferOperation panic on a provider-ID
// mismatch; that panic runs on the actor goroutine when reached through the
// public API, so it is exercised directly here instead, on the test
// goroutine, where require.Panics can observe it.

func TestUpdateState_ProviderMismatchPanics(t *testing.T) {
	m := &Manager{
		messages: NewQueue[domain.OutboundMessage](),
		sessions: make(map[domain.ResourceProviderID]*session),
		logger:   slog.New(slog.DiscardHandler),
	}
	providerID := domain.NewResourceProviderID()
	other := domain.NewResourceProviderID()
	s := &session{providerID: providerID, pending: make(map[uuid.UUID]*PublishHandle)}

	call := &domain.CallUpdateState{
		Resources: []domain.Resource{{ProviderID: &other}},
	}
	require.Panics(t, func() { m.updateState(s, call) })
}

func TestUpdateState_MatchingProviderDoesNotPanic(t *testing.T) {
	m := &Manager{
		messages: NewQueue[domain.OutboundMessage](),
		sessions: make(map[domain.ResourceProviderID]*session),
		logger:   slog.New(slog.DiscardHandler),
	}
	providerID := domain.NewResourceProviderID()
	s := &session{providerID: providerID, pending: make(map[uuid.UUID]*PublishHandle)}

	call := &domain.CallUpdateState{
		Resources: []domain.Resource{{ProviderID: &providerID}},
	}
	require.NotPanics(t, func() { m.updateState(s, call) })
}

func TestDispatchApplyOfferOperation_ProviderMismatchPanics(t *testing.T) {
	m := &Manager{
		sessions: make(map[domain.ResourceProviderID]*session),
		logger:   slog.New(slog.DiscardHandler),
	}
	providerID := domain.NewResourceProviderID()
	other := domain.NewResourceProviderID()
	m.sessions[providerID] = &session{
		providerID: providerID,
		outbox:     NewQueue[domain.Event](),
		pending:    make(map[uuid.UUID]*PublishHandle),
	}

	msg := domain.ApplyOfferOperationMessage{
		OperationInfo:       domain.OfferOperationInfo{ProviderID: &providerID},
		ResourceVersionUUID: domain.ResourceVersionUUID{ProviderID: other, UUID: uuid.New()},
	}
	require.Panics(t, func() {
		m.dispatchApplyOfferOperation(msg)
	})
}

func TestDispatchApplyOfferOperation_ZeroResourceVersionProviderIDDoesNotPanic(t *testing.T) {
	m := &Manager{
		sessions: make(map[domain.ResourceProviderID]*session),
		logger:   slog.New(slog.DiscardHandler),
	}
	providerID := domain.NewResourceProviderID()
	m.sessions[providerID] = &session{
		providerID: providerID,
		outbox:     NewQueue[domain.Event](),
		pending:    make(map[uuid.UUID]*PublishHandle),
	}

	msg := domain.ApplyOfferOperationMessage{
		OperationInfo: domain.OfferOperationInfo{ProviderID: &providerID},
		OperationUUID: uuid.New(),
	}
	require.NotPanics(t, func() {
		err := m.dispatchApplyOfferOperation(msg)
		require.NoError(t, err)
	})
}

func TestDispatchApplyOfferOperation_NoProviderIDLogsAndDrops(t *testing.T) {
	m := &Manager{
		sessions: make(map[domain.ResourceProviderID]*session),
		logger:   slog.New(slog.DiscardHandler),
	}
	msg := domain.ApplyOfferOperationMessage{OperationUUID: uuid.New()}
	require.NoError(t, m.dispatchApplyOfferOperation(msg))
}

func TestDispatchApplyOfferOperation_UnknownProviderLogsAndDrops(t *testing.T) {
	m := &Manager{
		sessions: make(map[domain.ResourceProviderID]*session),
		logger:   slog.New(slog.DiscardHandler),
	}
	unknown := domain.NewResourceProviderID()
	msg := domain.ApplyOfferOperationMessage{
		OperationInfo: domain.OfferOperationInfo{ProviderID: &unknown},
		OperationUUID: uuid.New(),
	}
	require.NoError(t, m.dispatchApplyOfferOperation(msg))
}

func TestPublishResources_AllOK(t *testing.T) {
	m := testManager(t)
	providerID, streamID, outbox := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk"})
	nextEvent(t, outbox) // SUBSCRIBED

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	waiter, err := m.PublishResources(ctx, []domain.Resource{{ProviderID: &providerID}})
	require.NoError(t, err)

	ev := nextEvent(t, outbox)
	require.Equal(t, domain.EventTypePublishResources, ev.Type)
	publishUUID := ev.PublishResources.UUID

	statusCall := domain.Call{
		Type:               domain.CallTypeUpdatePublishResourcesStatus,
		ResourceProviderID: providerID,
		UpdatePublishResourcesStatus: &domain.CallUpdatePublishResourcesStatus{
			UUID:   publishUUID,
			Status: domain.PublishStatusOK,
		},
	}
	require.NoError(t, m.HandleCall(ctx, statusCall, streamID))
	require.NoError(t, waiter.Wait())
}

func TestPublishResources_NoResources(t *testing.T) {
	m := testManager(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := m.PublishResources(ctx, nil)
	require.ErrorIs(t, err, ErrNoResources)
}

func TestPublishResources_UnroutableResources(t *testing.T) {
	m := testManager(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := m.PublishResources(ctx, []domain.Resource{{Raw: []byte{1}}})
	require.ErrorIs(t, err, ErrUnroutableResources)
}

func TestPublishResources_UnknownProviderFailsAtomically(t *testing.T) {
	m := testManager(t)
	providerID, _, outbox := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk"})
	nextEvent(t, outbox) // SUBSCRIBED

	unknown := domain.NewResourceProviderID()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := m.PublishResources(ctx, []domain.Resource{
		{ProviderID: &providerID},
		{ProviderID: &unknown},
	})
	require.ErrorIs(t, err, ErrSessionNotFound)

	// the whole call must fail before any event is sent, including to the
	// provider that was validly addressed.
	shortCtx, shortCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer shortCancel()
	_, ok := outbox.Next(shortCtx)
	require.False(t, ok)
}

func TestPublishResources_FailureOnDisconnect(t *testing.T) {
	m := testManager(t)
	providerID, streamID, outbox := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk"})
	nextEvent(t, outbox) // SUBSCRIBED

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	waiter, err := m.PublishResources(ctx, []domain.Resource{{ProviderID: &providerID}})
	require.NoError(t, err)
	nextEvent(t, outbox) // PUBLISH_RESOURCES

	m.SessionClosed(providerID, streamID)
	require.Error(t, waiter.Wait())
}

func TestPublishResources_EachProviderGetsDistinctUUID(t *testing.T) {
	m := testManager(t)
	providerID1, _, outbox1 := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk-1"})
	nextEvent(t, outbox1) // SUBSCRIBED
	providerID2, _, outbox2 := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk-2"})
	nextEvent(t, outbox2) // SUBSCRIBED

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := m.PublishResources(ctx, []domain.Resource{
		{ProviderID: &providerID1},
		{ProviderID: &providerID2},
	})
	require.NoError(t, err)

	ev1 := nextEvent(t, outbox1)
	ev2 := nextEvent(t, outbox2)
	require.NotEqual(t, uuid.Nil, ev1.PublishResources.UUID)
	require.NotEqual(t, uuid.Nil, ev2.PublishResources.UUID)
	require.NotEqual(t, ev1.PublishResources.UUID, ev2.PublishResources.UUID)
}

func TestReconcileOfferOperations_EmptyProducesNoEvents(t *testing.T) {
	m := testManager(t)
	_, _, outbox1 := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk-1"})
	nextEvent(t, outbox1)
	_, _, outbox2 := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk-2"})
	nextEvent(t, outbox2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.ReconcileOfferOperations(ctx, domain.ReconcileOfferOperationsMessage{}))

	shortCtx, shortCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer shortCancel()
	_, ok := outbox1.Next(shortCtx)
	require.False(t, ok)

	shortCtx2, shortCancel2 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer shortCancel2()
	_, ok = outbox2.Next(shortCtx2)
	require.False(t, ok)
}

func TestReconcileOfferOperations_ProviderlessOperationIgnored(t *testing.T) {
	m := testManager(t)
	_, _, outbox := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk-1"})
	nextEvent(t, outbox)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg := domain.ReconcileOfferOperationsMessage{
		Operations: []domain.ReconcileOperation{{OperationUUID: uuid.New()}},
	}
	require.NoError(t, m.ReconcileOfferOperations(ctx, msg))

	shortCtx, shortCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer shortCancel()
	_, ok := outbox.Next(shortCtx)
	require.False(t, ok)
}

func TestReconcileOfferOperations_PerProvider(t *testing.T) {
	m := testManager(t)
	providerID1, _, outbox1 := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk-1"})
	nextEvent(t, outbox1)
	_, _, outbox2 := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk-2"})
	nextEvent(t, outbox2)

	opUUID := uuid.New()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg := domain.ReconcileOfferOperationsMessage{
		Operations: []domain.ReconcileOperation{
			{ResourceProviderID: &providerID1, OperationUUID: opUUID},
		},
	}
	require.NoError(t, m.ReconcileOfferOperations(ctx, msg))

	ev1 := nextEvent(t, outbox1)
	require.Equal(t, []uuid.UUID{opUUID}, ev1.ReconcileOfferOperations.OperationUUIDs)

	// outbox2 never receives a reconcile: assert with a short deadline.
	shortCtx, shortCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer shortCancel()
	_, ok := outbox2.Next(shortCtx)
	require.False(t, ok)
}

func TestAcknowledgeOfferOperationUpdate_RequiresProviderID(t *testing.T) {
	m := testManager(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := m.AcknowledgeOfferOperationUpdate(ctx, domain.AcknowledgeOfferOperationMessage{})
	require.Error(t, err)
}

func TestAcknowledgeOfferOperationUpdate_UnknownProvider(t *testing.T) {
	m := testManager(t)
	unknown := domain.NewResourceProviderID()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := m.AcknowledgeOfferOperationUpdate(ctx, domain.AcknowledgeOfferOperationMessage{ResourceProviderID: &unknown})
	require.NoError(t, err)
}

func TestClose_FailsPendingPublishesAndClosesQueues(t *testing.T) {
	m := New(slog.New(slog.DiscardHandler), nil)
	providerID, _, outbox := subscribeProvider(t, m, domain.ProviderInfo{Type: "org.example.rp", Name: "disk"})
	nextEvent(t, outbox)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	waiter, err := m.PublishResources(ctx, []domain.Resource{{ProviderID: &providerID}})
	require.NoError(t, err)
	nextEvent(t, outbox)

	m.Close()
	require.Error(t, waiter.Wait())

	afterCtx, afterCancel := context.WithTimeout(context.Background(), time.Second)
	defer afterCancel()
	_, ok := outbox.Next(afterCtx)
	require.False(t, ok)
}
