package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vsi-tools/internal/inventory"
)

type fakeProvider struct {
	instances []inventory.Instance
	listErr   error
	lists     int
	deleted   []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) ListInstances(context.Context) ([]inventory.Instance, error) {
	f.lists++
	return f.instances, f.listErr
}

func (f *fakeProvider) DeleteInstance(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type harness struct {
	provider  *fakeProvider
	factories int
	opt       *options
	stdout    bytes.Buffer
	stderr    bytes.Buffer
}

func newHarness() *harness {
	return &harness{
		provider: &fakeProvider{
			instances: []inventory.Instance{
				{ID: "def456", PrimaryIP: "10.0.0.6"},
				{ID: "abc123", PrimaryIP: "10.0.0.5"},
			},
		},
	}
}

func (h *harness) run(args ...string) int {
	factory := func(_ context.Context, opt *options) (inventory.Provider, error) {
		h.factories++
		h.opt = opt
		return h.provider, nil
	}

	return run(context.Background(), args, &h.stdout, &h.stderr, factory)
}

func TestRunDeletesMatchingInstance(t *testing.T) {
	h := newHarness()

	assert.Equal(t, 0, h.run("10.0.0.5"))
	assert.Equal(t, []string{"abc123"}, h.provider.deleted)
	assert.Contains(t, h.stdout.String(), "Found Virtual Server ID: abc123\n")
	assert.Contains(t, h.stdout.String(), "✅ VSI abc123 deletion initiated.\n")
}

func TestRunNoMatch(t *testing.T) {
	h := newHarness()

	assert.Equal(t, 1, h.run("10.0.0.9"))
	assert.Empty(t, h.provider.deleted)
	assert.Equal(t, "❌ Error: No Virtual Server found with IP Address: 10.0.0.9\n", h.stdout.String())
}

func TestRunWrongArgumentCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: nil},
		{name: "two arguments", args: []string{"10.0.0.5", "10.0.0.6"}},
		{name: "three arguments", args: []string{"10.0.0.5", "10.0.0.6", "10.0.0.7"}},
		{name: "only flags", args: []string{"--provider", "ibmcloud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()

			assert.Equal(t, 1, h.run(tt.args...))
			assert.Zero(t, h.factories)
			assert.Zero(t, h.provider.lists)
			assert.Empty(t, h.provider.deleted)
			assert.Empty(t, h.stdout.String())
			assert.Empty(t, h.stderr.String())
		})
	}
}

func TestRunListFailureIsFatal(t *testing.T) {
	h := newHarness()
	h.provider.listErr = errors.New("ibmcloud: not logged in")

	assert.Equal(t, 1, h.run("10.0.0.5"))
	assert.Empty(t, h.provider.deleted)
	assert.Contains(t, h.stderr.String(), "not logged in")
}

func TestRunFlags(t *testing.T) {
	h := newHarness()

	require.Equal(t, 0, h.run("--provider", "ec2", "--region", "eu-west-1", "10.0.0.5"))
	assert.Equal(t, "ec2", h.opt.provider)
	assert.Equal(t, "eu-west-1", h.opt.region)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := newProvider(context.Background(), &options{provider: "softlayer"})
	assert.Error(t, err)
}

func TestNewProviderIBMCloud(t *testing.T) {
	p, err := newProvider(context.Background(), &options{provider: providerIBMCloud})
	require.NoError(t, err)
	assert.Equal(t, "ibmcloud", p.Name())
}

func TestRunHelpDoesNotLookUp(t *testing.T) {
	h := newHarness()

	assert.Equal(t, 0, h.run("--help"))
	assert.Zero(t, h.factories)
	assert.Zero(t, h.provider.lists)
	assert.Contains(t, h.stdout.String(), "delete-instance-ip <ip-address>")
}
