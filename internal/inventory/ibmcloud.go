package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"vsi-tools/internal/command"
)

const DefaultIBMCloudBinary = "ibmcloud"

// IBMCloudProvider talks to IBM Cloud VPC through the ibmcloud CLI.
type IBMCloudProvider struct {
	runner command.Runner
	binary string
}

// NewIBMCloudProvider creates a provider invoking binary (DefaultIBMCloudBinary if empty).
func NewIBMCloudProvider(runner command.Runner, binary string) *IBMCloudProvider {
	if binary == "" {
		binary = DefaultIBMCloudBinary
	}

	return &IBMCloudProvider{
		runner: runner,
		binary: binary,
	}
}

func (p *IBMCloudProvider) Name() string {
	return "ibmcloud"
}

// ListInstances runs `ibmcloud is instances --output json`.
func (p *IBMCloudProvider) ListInstances(ctx context.Context) ([]Instance, error) {
	output, err := p.runner.Output(ctx, p.binary, "is", "instances", "--output", "json")
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	return ParseIBMCloudInstances(output)
}

// DeleteInstance runs `ibmcloud is instance-delete <id> --force` and returns
// as soon as the CLI acknowledges the request.
func (p *IBMCloudProvider) DeleteInstance(ctx context.Context, id string) error {
	if _, err := p.runner.Output(ctx, p.binary, "is", "instance-delete", id, "--force"); err != nil {
		return fmt.Errorf("failed to delete instance %s: %w", id, err)
	}

	return nil
}

type ibmReservedIP struct {
	Address string `json:"address"`
}

type ibmNetworkInterface struct {
	PrimaryIP *ibmReservedIP `json:"primary_ip"`
}

type ibmInstance struct {
	ID                       string               `json:"id"`
	PrimaryNetworkInterface  *ibmNetworkInterface `json:"primary_network_interface"`
	PrimaryNetworkAttachment *ibmNetworkInterface `json:"primary_network_attachment"`
}

func (i ibmInstance) primaryIP() string {
	for _, nic := range []*ibmNetworkInterface{i.PrimaryNetworkInterface, i.PrimaryNetworkAttachment} {
		if nic != nil && nic.PrimaryIP != nil && nic.PrimaryIP.Address != "" {
			return nic.PrimaryIP.Address
		}
	}

	return ""
}

// ParseIBMCloudInstances maps the JSON printed by `ibmcloud is instances
// --output json` to instances. Anything other than an array of objects that
// all carry an id is reported as ErrUnrecognizedFormat.
func ParseIBMCloudInstances(raw []byte) ([]Instance, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrUnrecognizedFormat)
	}

	var listing []ibmInstance
	if err := json.Unmarshal(trimmed, &listing); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedFormat, err)
	}

	instances := make([]Instance, 0, len(listing))
	for i, item := range listing {
		if item.ID == "" {
			return nil, fmt.Errorf("%w: instance at index %d has no id", ErrUnrecognizedFormat, i)
		}

		instances = append(instances, Instance{
			ID:        item.ID,
			PrimaryIP: item.primaryIP(),
		})
	}

	return instances, nil
}
