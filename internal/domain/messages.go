package domain

import "github.com/google/uuid"

// ApplyOfferOperationMessage is a host-initiated request to apply an offer
// operation at the owning resource provider.
type ApplyOfferOperationMessage struct {
	FrameworkID         FrameworkID
	OperationInfo       OfferOperationInfo
	OperationUUID       uuid.UUID
	ResourceVersionUUID ResourceVersionUUID
}

// AcknowledgeOfferOperationMessage is a host-initiated acknowledgement of an
// offer operation status update, to be relayed to the resource provider.
type AcknowledgeOfferOperationMessage struct {
	ResourceProviderID *ResourceProviderID
	StatusUUID         uuid.UUID
	OperationUUID      uuid.UUID
}

// ReconcileOperation names one operation to reconcile, scoped to the
// resource provider that owns it (if any).
type ReconcileOperation struct {
	ResourceProviderID *ResourceProviderID
	OperationUUID      uuid.UUID
}

// ReconcileOfferOperationsMessage is a host-initiated request to replay the
// status of a batch of offer operations, fanned out per resource provider.
type ReconcileOfferOperationsMessage struct {
	Operations []ReconcileOperation
}

// OutboundMessageType tags the variant carried by an OutboundMessage.
type OutboundMessageType int

const (
	OutboundMessageUnknown OutboundMessageType = iota
	OutboundMessageUpdateOfferOperationStatus
	OutboundMessageUpdateState
)

// OutboundMessage is the tagged union the Manager enqueues for the host
// process to consume via Messages(). It mirrors the original's
// ResourceProviderMessage.
type OutboundMessage struct {
	Type OutboundMessageType

	UpdateOfferOperationStatus *UpdateOfferOperationStatusMessage
	UpdateState                *UpdateStateMessage
}

// UpdateOfferOperationStatusMessage carries a provider-reported operation
// status update up to the host, unchanged from the wire call.
type UpdateOfferOperationStatusMessage struct {
	FrameworkID   FrameworkID
	Status        OfferOperationStatus
	OperationUUID uuid.UUID
	LatestStatus  *OfferOperationStatus
}

// UpdateStateMessage carries a resource provider's full state snapshot up
// to the host: its resources, its resource version, and its pending
// operations keyed by operation UUID.
type UpdateStateMessage struct {
	Info                ProviderInfo
	ResourceVersionUUID uuid.UUID
	Resources           []Resource
	Operations          map[uuid.UUID]OfferOperation
}
