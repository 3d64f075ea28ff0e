package wire

import "github.com/MMoskowitz9/resource-provider-manager/internal/domain"

// EvolveEvent translates an internal-schema Event into its wire form, the
// direction the Manager sends outbound. Named after evolve.hpp in the
// source this schema split was distilled from: internal representations
// "evolve" into the wire representation sent to the outside world.
func EvolveEvent(e domain.Event) *Event {
	out := &Event{Type: evolveEventType(e.Type)}
	if e.Subscribed != nil {
		out.Subscribed = &EventSubscribed{ProviderID: e.Subscribed.ProviderID.String()}
	}
	if e.ApplyOfferOperation != nil {
		a := e.ApplyOfferOperation
		out.ApplyOfferOperation = &EventApplyOfferOperation{
			FrameworkID:         a.FrameworkID.String(),
			Info:                evolveOfferOperationInfo(a.Info),
			OperationUUID:       a.OperationUUID[:],
			ResourceVersionUUID: a.ResourceVersionUUID[:],
		}
	}
	if e.AcknowledgeOfferOperation != nil {
		a := e.AcknowledgeOfferOperation
		out.AcknowledgeOfferOperation = &EventAcknowledgeOfferOperation{
			StatusUUID:    a.StatusUUID[:],
			OperationUUID: a.OperationUUID[:],
		}
	}
	if e.ReconcileOfferOperations != nil {
		uuids := make([][]byte, 0, len(e.ReconcileOfferOperations.OperationUUIDs))
		for _, u := range e.ReconcileOfferOperations.OperationUUIDs {
			uuids = append(uuids, u[:])
		}
		out.ReconcileOfferOperations = &EventReconcileOfferOperations{OperationUUIDs: uuids}
	}
	if e.PublishResources != nil {
		p := e.PublishResources
		resources := make([]Resource, 0, len(p.Resources))
		for _, r := range p.Resources {
			resources = append(resources, evolveResource(r))
		}
		out.PublishResources = &EventPublishResources{UUID: p.UUID[:], Resources: resources}
	}
	return out
}

func evolveEventType(t domain.EventType) EventType {
	switch t {
	case domain.EventTypeSubscribed:
		return EventTypeSubscribed
	case domain.EventTypeApplyOfferOperation:
		return EventTypeApplyOfferOperation
	case domain.EventTypeAcknowledgeOfferOperation:
		return EventTypeAcknowledgeOfferOperation
	case domain.EventTypeReconcileOfferOperations:
		return EventTypeReconcileOfferOperations
	case domain.EventTypePublishResources:
		return EventTypePublishResources
	default:
		return EventTypeUnknown
	}
}

func evolveOfferOperationInfo(i domain.OfferOperationInfo) OfferOperationInfo {
	out := OfferOperationInfo{ID: i.ID, Raw: i.Raw}
	if i.ProviderID != nil {
		out.ProviderID = i.ProviderID.String()
	}
	return out
}

func evolveResource(r domain.Resource) Resource {
	out := Resource{Raw: r.Raw}
	if r.ProviderID != nil {
		out.ProviderID = r.ProviderID.String()
	}
	return out
}
