// Package wire implements the external ("v1") wire schema spoken between a
// resource provider and the Manager over HTTP: the Call/Event message
// shapes, their dual JSON/protobuf encoding, and the length-delimited
// record framing used for the streaming response.
//
// This is deliberately a separate schema from package domain. EvolveEvent
// and DevolveCall translate between them at the HTTP boundary, exactly as
// resource_provider/manager.cpp's internal/evolve.hpp and
// internal/devolve.hpp do for the source this module was distilled from.
package wire

// CallType mirrors the wire enum names used in both the protobuf and JSON
// encodings (protobuf-JSON renders enums as their symbolic name).
type CallType string

const (
	CallTypeUnknown                      CallType = "UNKNOWN"
	CallTypeSubscribe                    CallType = "SUBSCRIBE"
	CallTypeUpdateOfferOperationStatus   CallType = "UPDATE_OFFER_OPERATION_STATUS"
	CallTypeUpdateState                  CallType = "UPDATE_STATE"
	CallTypeUpdatePublishResourcesStatus CallType = "UPDATE_PUBLISH_RESOURCES_STATUS"
)

// EventType mirrors the wire enum names for outbound events.
type EventType string

const (
	EventTypeUnknown                   EventType = "UNKNOWN"
	EventTypeSubscribed                EventType = "SUBSCRIBED"
	EventTypeApplyOfferOperation       EventType = "APPLY_OFFER_OPERATION"
	EventTypeAcknowledgeOfferOperation EventType = "ACKNOWLEDGE_OFFER_OPERATION"
	EventTypeReconcileOfferOperations  EventType = "RECONCILE_OFFER_OPERATIONS"
	EventTypePublishResources          EventType = "PUBLISH_RESOURCES"
)

// PublishStatus mirrors Call.UpdatePublishResourcesStatus.Status.
type PublishStatus string

const (
	PublishStatusUnknown PublishStatus = "UNKNOWN"
	PublishStatusOK      PublishStatus = "OK"
	PublishStatusFailed  PublishStatus = "FAILED"
)

// ProviderInfo is the wire form of a resource provider's static descriptor.
type ProviderInfo struct {
	Type string `json:"type"`
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// OfferOperationInfo is the wire form of an offer operation's payload. Its
// full schema is owned by the host/provider and out of scope here; Raw
// carries it opaquely.
type OfferOperationInfo struct {
	ID         string `json:"id,omitempty"`
	ProviderID string `json:"providerId,omitempty"`
	Raw        []byte `json:"raw,omitempty"`
}

// OfferOperationStatus is the wire form of an offer operation status.
type OfferOperationStatus struct {
	State string `json:"state,omitempty"`
	Raw   []byte `json:"raw,omitempty"`
}

// Resource is the wire form of a cluster resource. Its full schema is out
// of scope; Raw carries it opaquely.
type Resource struct {
	ProviderID string `json:"providerId,omitempty"`
	Raw        []byte `json:"raw,omitempty"`
}

// OfferOperation pairs an operation UUID with its wire-form info.
type OfferOperation struct {
	OperationUUID []byte             `json:"operationUuid"`
	Info          OfferOperationInfo `json:"info"`
}

// Call is the wire form of the tagged union a resource provider sends
// inbound.
type Call struct {
	Type                         CallType                          `json:"type"`
	ResourceProviderID           string                            `json:"resourceProviderId,omitempty"`
	Subscribe                    *CallSubscribe                    `json:"subscribe,omitempty"`
	UpdateOfferOperationStatus   *CallUpdateOfferOperationStatus    `json:"updateOfferOperationStatus,omitempty"`
	UpdateState                  *CallUpdateState                  `json:"updateState,omitempty"`
	UpdatePublishResourcesStatus *CallUpdatePublishResourcesStatus `json:"updatePublishResourcesStatus,omitempty"`
}

type CallSubscribe struct {
	ResourceProviderInfo ProviderInfo `json:"resourceProviderInfo"`
}

type CallUpdateOfferOperationStatus struct {
	FrameworkID   string                `json:"frameworkId"`
	Status        OfferOperationStatus  `json:"status"`
	OperationUUID []byte                `json:"operationUuid"`
	LatestStatus  *OfferOperationStatus `json:"latestStatus,omitempty"`
}

type CallUpdateState struct {
	ResourceVersionUUID []byte           `json:"resourceVersionUuid"`
	Resources           []Resource       `json:"resources,omitempty"`
	Operations          []OfferOperation `json:"operations,omitempty"`
}

type CallUpdatePublishResourcesStatus struct {
	UUID   []byte        `json:"uuid"`
	Status PublishStatus `json:"status"`
}

// Event is the wire form of the tagged union the Manager sends outbound to
// a subscribed resource provider.
type Event struct {
	Type                      EventType                      `json:"type"`
	Subscribed                *EventSubscribed                `json:"subscribed,omitempty"`
	ApplyOfferOperation       *EventApplyOfferOperation       `json:"applyOfferOperation,omitempty"`
	AcknowledgeOfferOperation *EventAcknowledgeOfferOperation `json:"acknowledgeOfferOperation,omitempty"`
	ReconcileOfferOperations  *EventReconcileOfferOperations  `json:"reconcileOfferOperations,omitempty"`
	PublishResources          *EventPublishResources          `json:"publishResources,omitempty"`
}

type EventSubscribed struct {
	ProviderID string `json:"providerId"`
}

type EventApplyOfferOperation struct {
	FrameworkID         string             `json:"frameworkId"`
	Info                OfferOperationInfo `json:"info"`
	OperationUUID       []byte             `json:"operationUuid"`
	ResourceVersionUUID []byte             `json:"resourceVersionUuid"`
}

type EventAcknowledgeOfferOperation struct {
	StatusUUID    []byte `json:"statusUuid"`
	OperationUUID []byte `json:"operationUuid"`
}

type EventReconcileOfferOperations struct {
	OperationUUIDs [][]byte `json:"operationUuids"`
}

type EventPublishResources struct {
	UUID      []byte     `json:"uuid"`
	Resources []Resource `json:"resources,omitempty"`
}
