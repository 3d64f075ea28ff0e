package domain

import "github.com/google/uuid"

// CallType tags the variant carried by a Call.
type CallType int

const (
	CallTypeUnknown CallType = iota
	CallTypeSubscribe
	CallTypeUpdateOfferOperationStatus
	CallTypeUpdateState
	CallTypeUpdatePublishResourcesStatus
)

func (t CallType) String() string {
	switch t {
	case CallTypeSubscribe:
		return "SUBSCRIBE"
	case CallTypeUpdateOfferOperationStatus:
		return "UPDATE_OFFER_OPERATION_STATUS"
	case CallTypeUpdateState:
		return "UPDATE_STATE"
	case CallTypeUpdatePublishResourcesStatus:
		return "UPDATE_PUBLISH_RESOURCES_STATUS"
	default:
		return "UNKNOWN"
	}
}

// Call is the internal-schema tagged union of everything a resource
// provider can send inbound. Exactly one of the pointer fields matching
// Type is populated.
type Call struct {
	Type               CallType
	ResourceProviderID ResourceProviderID // absent (zero) for SUBSCRIBE

	Subscribe                    *CallSubscribe
	UpdateOfferOperationStatus   *CallUpdateOfferOperationStatus
	UpdateState                  *CallUpdateState
	UpdatePublishResourcesStatus *CallUpdatePublishResourcesStatus
}

type CallSubscribe struct {
	ResourceProviderInfo ProviderInfo
}

type CallUpdateOfferOperationStatus struct {
	FrameworkID   FrameworkID
	Status        OfferOperationStatus
	OperationUUID uuid.UUID
	LatestStatus  *OfferOperationStatus
}

type CallUpdateState struct {
	ResourceVersionUUID uuid.UUID
	Resources           []Resource
	Operations          []OfferOperation
}

// PublishStatus is the provider's verdict on a PUBLISH_RESOURCES event.
type PublishStatus int

const (
	PublishStatusUnknown PublishStatus = iota
	PublishStatusOK
	PublishStatusFailed
)

func (s PublishStatus) String() string {
	switch s {
	case PublishStatusOK:
		return "OK"
	case PublishStatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

type CallUpdatePublishResourcesStatus struct {
	UUID   uuid.UUID
	Status PublishStatus
}

// Validate checks the structural constraints the API endpoint must enforce
// before dispatching a parsed Call: required fields present, IDs well-formed.
func Validate(c Call) error {
	switch c.Type {
	case CallTypeSubscribe:
		if c.Subscribe == nil {
			return errorf("subscribe call missing 'subscribe' field")
		}
		info := c.Subscribe.ResourceProviderInfo
		if err := validateNonEmpty("resource_provider_info.type", info.Type); err != nil {
			return err
		}
		if err := validateNonEmpty("resource_provider_info.name", info.Name); err != nil {
			return err
		}
		return nil

	case CallTypeUpdateOfferOperationStatus:
		if c.ResourceProviderID.IsZero() {
			return errorf("update_offer_operation_status call missing resource_provider_id")
		}
		if c.UpdateOfferOperationStatus == nil {
			return errorf("update_offer_operation_status call missing 'update_offer_operation_status' field")
		}
		if c.UpdateOfferOperationStatus.OperationUUID == uuid.Nil {
			return errorf("update_offer_operation_status call missing operation_uuid")
		}
		return nil

	case CallTypeUpdateState:
		if c.ResourceProviderID.IsZero() {
			return errorf("update_state call missing resource_provider_id")
		}
		if c.UpdateState == nil {
			return errorf("update_state call missing 'update_state' field")
		}
		return nil

	case CallTypeUpdatePublishResourcesStatus:
		if c.ResourceProviderID.IsZero() {
			return errorf("update_publish_resources_status call missing resource_provider_id")
		}
		if c.UpdatePublishResourcesStatus == nil {
			return errorf("update_publish_resources_status call missing 'update_publish_resources_status' field")
		}
		if c.UpdatePublishResourcesStatus.UUID == uuid.Nil {
			return errorf("update_publish_resources_status call missing uuid")
		}
		return nil

	default:
		return errorf("unknown or missing call type")
	}
}
