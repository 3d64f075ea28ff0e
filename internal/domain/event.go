package domain

import "github.com/google/uuid"

// EventType tags the variant carried by an Event.
type EventType int

const (
	EventTypeUnknown EventType = iota
	EventTypeSubscribed
	EventTypeApplyOfferOperation
	EventTypeAcknowledgeOfferOperation
	EventTypeReconcileOfferOperations
	EventTypePublishResources
)

func (t EventType) String() string {
	switch t {
	case EventTypeSubscribed:
		return "SUBSCRIBED"
	case EventTypeApplyOfferOperation:
		return "APPLY_OFFER_OPERATION"
	case EventTypeAcknowledgeOfferOperation:
		return "ACKNOWLEDGE_OFFER_OPERATION"
	case EventTypeReconcileOfferOperations:
		return "RECONCILE_OFFER_OPERATIONS"
	case EventTypePublishResources:
		return "PUBLISH_RESOURCES"
	default:
		return "UNKNOWN"
	}
}

// Event is the internal-schema tagged union of everything the Manager can
// send outbound to a subscribed resource provider.
type Event struct {
	Type EventType

	Subscribed                *EventSubscribed
	ApplyOfferOperation       *EventApplyOfferOperation
	AcknowledgeOfferOperation *EventAcknowledgeOfferOperation
	ReconcileOfferOperations  *EventReconcileOfferOperations
	PublishResources          *EventPublishResources
}

type EventSubscribed struct {
	ProviderID ResourceProviderID
}

type EventApplyOfferOperation struct {
	FrameworkID         FrameworkID
	Info                OfferOperationInfo
	OperationUUID       uuid.UUID
	ResourceVersionUUID uuid.UUID
}

type EventAcknowledgeOfferOperation struct {
	StatusUUID    uuid.UUID
	OperationUUID uuid.UUID
}

type EventReconcileOfferOperations struct {
	OperationUUIDs []uuid.UUID
}

type EventPublishResources struct {
	UUID      uuid.UUID
	Resources []Resource
}
