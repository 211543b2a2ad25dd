package deleter

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"vsi-tools/internal/inventory"
)

var (
	// ErrUsage is returned when the tool is not given exactly one address.
	ErrUsage = errors.New("expected exactly one IP address argument")
	// ErrNotFound is returned when no instance owns the address.
	ErrNotFound = errors.New("no instance found with IP address")
)

// Deleter finds an instance by IP address and requests its deletion.
type Deleter struct {
	provider inventory.Provider
	out      io.Writer
	log      *zap.SugaredLogger
}

// New creates a Deleter that reports progress to out.
func New(provider inventory.Provider, out io.Writer, log *zap.SugaredLogger) *Deleter {
	return &Deleter{
		provider: provider,
		out:      out,
		log:      log,
	}
}

// Delete looks up ip in the provider's inventory and deletes the first
// matching instance. Deletion is requested only; completion is not awaited.
func (d *Deleter) Delete(ctx context.Context, ip string) (string, error) {
	log := d.log.With("provider", d.provider.Name(), "ip", ip)

	log.Debug("listing instances")
	instances, err := d.provider.ListInstances(ctx)
	if err != nil {
		return "", err
	}
	log.Debugw("listed instances", "count", len(instances))

	instance, found := inventory.FindByIP(instances, ip)
	if !found {
		fmt.Fprintf(d.out, "❌ Error: No Virtual Server found with IP Address: %s\n", ip)
		return "", fmt.Errorf("%w %s", ErrNotFound, ip)
	}

	fmt.Fprintf(d.out, "Found Virtual Server ID: %s\n", instance.ID)
	fmt.Fprintf(d.out, "Deleting VSI %s\n", instance.ID)

	if err := d.provider.DeleteInstance(ctx, instance.ID); err != nil {
		return instance.ID, err
	}

	fmt.Fprintf(d.out, "✅ VSI %s deletion initiated.\n", instance.ID)
	log.Infow("deletion initiated", "instance", instance.ID)

	return instance.ID, nil
}
