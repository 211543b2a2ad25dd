package inventory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"k8s.io/utils/ptr"
)

// EC2API is the subset of the EC2 client used by EC2Provider.
type EC2API interface {
	ec2.DescribeInstancesAPIClient
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
}

// EC2Provider lists and terminates AWS EC2 instances.
type EC2Provider struct {
	client EC2API
}

// NewEC2Provider wraps an existing EC2 client.
func NewEC2Provider(client EC2API) *EC2Provider {
	return &EC2Provider{client: client}
}

// NewEC2ProviderFromEnv builds a client from the default AWS credential
// chain. An empty region leaves region resolution to the SDK.
func NewEC2ProviderFromEnv(ctx context.Context, region string) (*EC2Provider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return NewEC2Provider(ec2.NewFromConfig(cfg)), nil
}

func (p *EC2Provider) Name() string {
	return "ec2"
}

// ListInstances pages through DescribeInstances. Terminated instances are
// skipped since they can no longer be deleted.
func (p *EC2Provider) ListInstances(ctx context.Context) ([]Instance, error) {
	var instances []Instance

	paginator := ec2.NewDescribeInstancesPaginator(p.client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				if instance.State != nil && instance.State.Name == ec2types.InstanceStateNameTerminated {
					continue
				}

				id := ptr.Deref(instance.InstanceId, "")
				if id == "" {
					return nil, fmt.Errorf("%w: instance without id", ErrUnrecognizedFormat)
				}

				instances = append(instances, Instance{
					ID:        id,
					PrimaryIP: ptr.Deref(instance.PrivateIpAddress, ""),
				})
			}
		}
	}

	return instances, nil
}

// DeleteInstance requests termination and does not wait for it to finish.
func (p *EC2Provider) DeleteInstance(ctx context.Context, id string) error {
	_, err := p.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return fmt.Errorf("failed to terminate instance %s: %w", id, err)
	}

	return nil
}
