package wire

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/MMoskowitz9/resource-provider-manager/internal/domain"
)

func TestEvolveEvent_Subscribed(t *testing.T) {
	providerID := domain.NewResourceProviderID()
	got := EvolveEvent(domain.Event{
		Type:       domain.EventTypeSubscribed,
		Subscribed: &domain.EventSubscribed{ProviderID: providerID},
	})
	require.Equal(t, EventTypeSubscribed, got.Type)
	require.Equal(t, providerID.String(), got.Subscribed.ProviderID)
}

func TestEvolveEvent_PublishResources(t *testing.T) {
	publishUUID := uuid.New()
	providerID := domain.NewResourceProviderID()
	got := EvolveEvent(domain.Event{
		Type: domain.EventTypePublishResources,
		PublishResources: &domain.EventPublishResources{
			UUID: publishUUID,
			Resources: []domain.Resource{
				{ProviderID: &providerID, Raw: []byte{1, 2}},
			},
		},
	})
	require.Equal(t, EventTypePublishResources, got.Type)
	require.Equal(t, publishUUID[:], got.PublishResources.UUID)
	require.Len(t, got.PublishResources.Resources, 1)
	require.Equal(t, providerID.String(), got.PublishResources.Resources[0].ProviderID)
}

func TestEvolveEvent_ReconcileOfferOperations(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()
	got := EvolveEvent(domain.Event{
		Type: domain.EventTypeReconcileOfferOperations,
		ReconcileOfferOperations: &domain.EventReconcileOfferOperations{
			OperationUUIDs: []uuid.UUID{u1, u2},
		},
	})
	require.Equal(t, EventTypeReconcileOfferOperations, got.Type)
	require.Equal(t, [][]byte{u1[:], u2[:]}, got.ReconcileOfferOperations.OperationUUIDs)
}

func TestDevolveCall_Subscribe(t *testing.T) {
	wireCall := &Call{
		Type: CallTypeSubscribe,
		Subscribe: &CallSubscribe{
			ResourceProviderInfo: ProviderInfo{Type: "org.example.rp", Name: "disk"},
		},
	}
	got, err := DevolveCall(wireCall)
	require.NoError(t, err)
	require.Equal(t, domain.CallTypeSubscribe, got.Type)
	require.Equal(t, "org.example.rp", got.Subscribe.ResourceProviderInfo.Type)
	require.True(t, got.Subscribe.ResourceProviderInfo.ID.IsZero())
}

func TestDevolveCall_UpdateState(t *testing.T) {
	versionUUID := uuid.New()
	opUUID := uuid.New()
	wireCall := &Call{
		Type:               CallTypeUpdateState,
		ResourceProviderID: "p1",
		UpdateState: &CallUpdateState{
			ResourceVersionUUID: versionUUID[:],
			Resources:           []Resource{{ProviderID: "p1", Raw: []byte{9}}},
			Operations: []OfferOperation{
				{OperationUUID: opUUID[:], Info: OfferOperationInfo{ID: "op-1"}},
			},
		},
	}
	got, err := DevolveCall(wireCall)
	require.NoError(t, err)
	require.Equal(t, domain.CallTypeUpdateState, got.Type)
	require.Equal(t, versionUUID, got.UpdateState.ResourceVersionUUID)
	require.Len(t, got.UpdateState.Operations, 1)
	require.Equal(t, opUUID, got.UpdateState.Operations[0].UUID)
}

func TestDevolveCall_UpdateState_MalformedUUID(t *testing.T) {
	wireCall := &Call{
		Type:               CallTypeUpdateState,
		ResourceProviderID: "p1",
		UpdateState:        &CallUpdateState{ResourceVersionUUID: []byte("short")},
	}
	_, err := DevolveCall(wireCall)
	require.Error(t, err)
}

func TestDevolveCall_UnknownType(t *testing.T) {
	_, err := DevolveCall(&Call{Type: "BOGUS"})
	require.Error(t, err)
}

func TestDevolveCall_UpdatePublishResourcesStatus(t *testing.T) {
	publishUUID := uuid.New()
	wireCall := &Call{
		Type:               CallTypeUpdatePublishResourcesStatus,
		ResourceProviderID: "p1",
		UpdatePublishResourcesStatus: &CallUpdatePublishResourcesStatus{
			UUID:   publishUUID[:],
			Status: PublishStatusOK,
		},
	}
	got, err := DevolveCall(wireCall)
	require.NoError(t, err)
	require.Equal(t, domain.PublishStatusOK, got.UpdatePublishResourcesStatus.Status)
	require.Equal(t, publishUUID, got.UpdatePublishResourcesStatus.UUID)
}
