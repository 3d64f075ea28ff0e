package wire

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/MMoskowitz9/resource-provider-manager/internal/domain"
)

// DevolveCall translates a wire-form Call, as received from a resource
// provider, into its internal-schema form. Named after devolve.hpp: wire
// representations "devolve" into the internal representation the Manager
// actually operates on.
func DevolveCall(c *Call) (domain.Call, error) {
	out := domain.Call{Type: devolveCallType(c.Type)}
	if c.ResourceProviderID != "" {
		out.ResourceProviderID = domain.ResourceProviderID{Value: c.ResourceProviderID}
	}

	switch out.Type {
	case domain.CallTypeSubscribe:
		if c.Subscribe == nil {
			return domain.Call{}, fmt.Errorf("devolve: subscribe call missing subscribe field")
		}
		info := domain.ProviderInfo{
			Type: c.Subscribe.ResourceProviderInfo.Type,
			Name: c.Subscribe.ResourceProviderInfo.Name,
		}
		if c.Subscribe.ResourceProviderInfo.ID != "" {
			info.ID = domain.ResourceProviderID{Value: c.Subscribe.ResourceProviderInfo.ID}
		}
		out.Subscribe = &domain.CallSubscribe{ResourceProviderInfo: info}

	case domain.CallTypeUpdateOfferOperationStatus:
		if c.UpdateOfferOperationStatus == nil {
			return domain.Call{}, fmt.Errorf("devolve: update_offer_operation_status call missing field")
		}
		u := c.UpdateOfferOperationStatus
		opUUID, err := parseUUID(u.OperationUUID)
		if err != nil {
			return domain.Call{}, fmt.Errorf("devolve: operation_uuid: %w", err)
		}
		devolved := &domain.CallUpdateOfferOperationStatus{
			FrameworkID:   domain.FrameworkID{Value: u.FrameworkID},
			Status:        devolveOfferOperationStatus(u.Status),
			OperationUUID: opUUID,
		}
		if u.LatestStatus != nil {
			ls := devolveOfferOperationStatus(*u.LatestStatus)
			devolved.LatestStatus = &ls
		}
		out.UpdateOfferOperationStatus = devolved

	case domain.CallTypeUpdateState:
		if c.UpdateState == nil {
			return domain.Call{}, fmt.Errorf("devolve: update_state call missing field")
		}
		u := c.UpdateState
		versionUUID, err := parseUUID(u.ResourceVersionUUID)
		if err != nil {
			return domain.Call{}, fmt.Errorf("devolve: resource_version_uuid: %w", err)
		}
		devolved := &domain.CallUpdateState{ResourceVersionUUID: versionUUID}
		for _, r := range u.Resources {
			devolved.Resources = append(devolved.Resources, devolveResource(r))
		}
		for _, o := range u.Operations {
			op, err := devolveOfferOperation(o)
			if err != nil {
				return domain.Call{}, err
			}
			devolved.Operations = append(devolved.Operations, op)
		}
		out.UpdateState = devolved

	case domain.CallTypeUpdatePublishResourcesStatus:
		if c.UpdatePublishResourcesStatus == nil {
			return domain.Call{}, fmt.Errorf("devolve: update_publish_resources_status call missing field")
		}
		u := c.UpdatePublishResourcesStatus
		id, err := parseUUID(u.UUID)
		if err != nil {
			return domain.Call{}, fmt.Errorf("devolve: uuid: %w", err)
		}
		out.UpdatePublishResourcesStatus = &domain.CallUpdatePublishResourcesStatus{
			UUID:   id,
			Status: devolvePublishStatus(u.Status),
		}

	default:
		return domain.Call{}, fmt.Errorf("devolve: unknown call type %q", c.Type)
	}

	return out, nil
}

func devolveCallType(t CallType) domain.CallType {
	switch t {
	case CallTypeSubscribe:
		return domain.CallTypeSubscribe
	case CallTypeUpdateOfferOperationStatus:
		return domain.CallTypeUpdateOfferOperationStatus
	case CallTypeUpdateState:
		return domain.CallTypeUpdateState
	case CallTypeUpdatePublishResourcesStatus:
		return domain.CallTypeUpdatePublishResourcesStatus
	default:
		return domain.CallTypeUnknown
	}
}

func devolvePublishStatus(s PublishStatus) domain.PublishStatus {
	switch s {
	case PublishStatusOK:
		return domain.PublishStatusOK
	case PublishStatusFailed:
		return domain.PublishStatusFailed
	default:
		return domain.PublishStatusUnknown
	}
}

func devolveOfferOperationStatus(s OfferOperationStatus) domain.OfferOperationStatus {
	return domain.OfferOperationStatus{State: s.State, Raw: s.Raw}
}

func devolveResource(r Resource) domain.Resource {
	out := domain.Resource{Raw: r.Raw}
	if r.ProviderID != "" {
		id := domain.ResourceProviderID{Value: r.ProviderID}
		out.ProviderID = &id
	}
	return out
}

func devolveOfferOperationInfo(i OfferOperationInfo) domain.OfferOperationInfo {
	out := domain.OfferOperationInfo{ID: i.ID, Raw: i.Raw}
	if i.ProviderID != "" {
		id := domain.ResourceProviderID{Value: i.ProviderID}
		out.ProviderID = &id
	}
	return out
}

func devolveOfferOperation(o OfferOperation) (domain.OfferOperation, error) {
	opUUID, err := parseUUID(o.OperationUUID)
	if err != nil {
		return domain.OfferOperation{}, fmt.Errorf("devolve: operation.operation_uuid: %w", err)
	}
	return domain.OfferOperation{
		UUID: opUUID,
		Info: devolveOfferOperationInfo(o.Info),
	}, nil
}

func parseUUID(b []byte) (uuid.UUID, error) {
	if len(b) == 0 {
		return uuid.Nil, fmt.Errorf("empty uuid")
	}
	return uuid.FromBytes(b)
}
