package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vsi-tools/internal/command"
	"vsi-tools/internal/deleter"
	"vsi-tools/internal/inventory"
	"vsi-tools/internal/log"
)

const (
	providerIBMCloud = "ibmcloud"
	providerEC2      = "ec2"
)

type options struct {
	provider    string
	region      string
	ibmcloudBin string
	log         log.Options
}

type providerFactory func(ctx context.Context, opt *options) (inventory.Provider, error)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, newProvider)
	cancel()

	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, factory providerFactory) int {
	cmd := newRootCommand(stdout, stderr, factory)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}

	return 0
}

func newRootCommand(stdout, stderr io.Writer, factory providerFactory) *cobra.Command {
	opt := options{
		provider: providerIBMCloud,
		log:      log.NewDefaultOptions(),
	}

	cmd := &cobra.Command{
		Use:   "delete-instance-ip <ip-address>",
		Short: "Find a virtual server instance by its primary IP address and delete it",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return deleter.ErrUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithSink(opt.log.Debug, opt.log.Format, zapcore.AddSync(stderr)).Sugar()
			defer func() { _ = logger.Sync() }()

			provider, err := factory(cmd.Context(), &opt)
			if err != nil {
				logger.Errorw("failed to set up instance provider", "provider", opt.provider, zap.Error(err))
				return err
			}

			_, err = deleter.New(provider, stdout, logger).Delete(cmd.Context(), args[0])
			if err != nil && !errors.Is(err, deleter.ErrNotFound) {
				logger.Errorw("operation failed", zap.Error(err))
			}

			return err
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		if err := c.Usage(); err != nil {
			return err
		}

		// ensure we exit with code 1 later on
		return err
	})

	cmd.Flags().StringVar(&opt.provider, "provider", opt.provider, fmt.Sprintf("instance inventory backend (one of: %s, %s)", providerIBMCloud, providerEC2))
	cmd.Flags().StringVar(&opt.region, "region", "", "AWS region for the ec2 provider (defaults to the SDK configuration)")
	cmd.Flags().StringVar(&opt.ibmcloudBin, "ibmcloud-bin", inventory.DefaultIBMCloudBinary, "path to the ibmcloud CLI")
	opt.log.AddFlags(cmd.Flags())

	return cmd
}

func newProvider(ctx context.Context, opt *options) (inventory.Provider, error) {
	switch opt.provider {
	case providerIBMCloud:
		return inventory.NewIBMCloudProvider(command.New(), opt.ibmcloudBin), nil
	case providerEC2:
		return inventory.NewEC2ProviderFromEnv(ctx, opt.region)
	default:
		return nil, fmt.Errorf("unknown provider %q", opt.provider)
	}
}
