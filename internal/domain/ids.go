// Package domain holds the internal (Go-native) schema that the resource
// provider manager's actor operates on. It is distinct from the external
// wire schema in package wire; internal/wire.EvolveEvent and
// internal/wire.DevolveCall translate between the two at the HTTP boundary.
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ResourceProviderID is an opaque identifier assigned by the Manager on a
// resource provider's first subscribe and stable across every resubscribe
// after that. Its zero value means "not yet assigned".
type ResourceProviderID struct {
	Value string
}

// NewResourceProviderID generates a fresh, randomly chosen provider ID
// rendered in canonical UUID string form.
func NewResourceProviderID() ResourceProviderID {
	return ResourceProviderID{Value: uuid.NewString()}
}

func (id ResourceProviderID) String() string { return id.Value }

// IsZero reports whether the ID has not been assigned yet.
func (id ResourceProviderID) IsZero() bool { return id.Value == "" }

// FrameworkID identifies the cluster-control-plane framework an offer
// operation originated from. Its concrete allocation is out of scope for
// this module; it is treated as an opaque string handed through unchanged.
type FrameworkID struct {
	Value string
}

func (id FrameworkID) String() string { return id.Value }

func (id FrameworkID) IsZero() bool { return id.Value == "" }

// validateNonEmpty rejects identifiers made only of whitespace.
func validateNonEmpty(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return errorf(name + " must not be empty")
	}
	return nil
}
