package inventory

import (
	"context"
	"errors"
)

// ErrUnrecognizedFormat is returned when a provider's listing cannot be
// mapped onto instances.
var ErrUnrecognizedFormat = errors.New("unrecognized instance listing format")

// Instance is a compute instance as seen by a provider listing.
type Instance struct {
	ID        string
	PrimaryIP string
}

// Provider lists and deletes compute instances.
type Provider interface {
	Name() string
	ListInstances(ctx context.Context) ([]Instance, error)
	DeleteInstance(ctx context.Context, id string) error
}

// FindByIP returns the first instance whose primary IP equals ip exactly.
// Instances without an address never match.
func FindByIP(instances []Instance, ip string) (Instance, bool) {
	for _, instance := range instances {
		if instance.PrimaryIP != "" && instance.PrimaryIP == ip {
			return instance, true
		}
	}

	return Instance{}, false
}
