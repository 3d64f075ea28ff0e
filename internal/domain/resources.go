package domain

import "github.com/google/uuid"

// ProviderInfo is the static descriptor a resource provider reports when it
// subscribes: type, name, and (after the first subscribe) an assigned ID.
type ProviderInfo struct {
	Type string
	Name string
	ID   ResourceProviderID
}

// HasID reports whether the resource provider already carries an assigned ID.
func (p ProviderInfo) HasID() bool { return !p.ID.IsZero() }

// ResourceVersionUUID pins the resource epoch a resource provider is
// currently reporting against.
type ResourceVersionUUID struct {
	ProviderID ResourceProviderID
	UUID       uuid.UUID
}

// Resource is a minimal stand-in for the cluster resource schema, which is
// owned by the host process and the resource providers themselves and out
// of scope here. Only the fields the Manager itself inspects — which
// provider owns the resource, if any — are modeled; everything else is
// carried opaquely in Raw.
type Resource struct {
	// ProviderID is nil for agent-default resources, which the Manager
	// never touches.
	ProviderID *ResourceProviderID
	Raw        []byte
}

// HasProviderID reports whether the resource is provider-backed.
func (r Resource) HasProviderID() bool { return r.ProviderID != nil }

// OfferOperationInfo is a minimal stand-in for an offer operation's payload.
type OfferOperationInfo struct {
	ID         string
	ProviderID *ResourceProviderID
	Raw        []byte
}

// OfferOperation pairs an operation UUID with its info payload, as reported
// by a resource provider in UPDATE_STATE.
type OfferOperation struct {
	UUID uuid.UUID
	Info OfferOperationInfo
}

// OfferOperationStatus is a minimal stand-in for an offer operation status
// payload; State is an opaque state name owned by the host/provider schema.
type OfferOperationStatus struct {
	State string
	Raw   []byte
}
