package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/canopy-network/stakex/pkg/rpc"
	"github.com/canopy-network/stakex/pkg/signer"
	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/canopy-network/stakex/pkg/wallet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type options struct {
	configPath string
	output     string
	unit       string
	verbose    bool
}

// deps is everything a command needs to talk to the chain.
type deps struct {
	Service  *staking.Service
	Session  staking.Session
	Registry *staking.ValidatorRegistry
	Deposits *staking.DepositReconciler
	Logger   *zap.Logger
}

type depsFactory func(cfg cliConfig, logger *zap.Logger) (*deps, error)

func newDeps(cfg cliConfig, logger *zap.Logger) (*deps, error) {
	opts := rpc.Opts{
		Timeout:         cfg.RPCTimeout,
		RPS:             10,
		Burst:           20,
		BreakerFailures: 3,
		BreakerCooldown: 15 * time.Second,
	}
	client := rpc.NewHTTPFactory(opts).NewClient(cfg.RPCEndpoints)

	var w *wallet.Wallet
	if cfg.PrivateKey == "" {
		w = wallet.NewViewer(cfg.AccountID, client, logger)
	} else {
		key, err := signer.ParseKeyPair(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("privateKey: %w", err)
		}
		w = wallet.New(cfg.AccountID, key, client, logger)
	}

	return &deps{
		Service:  staking.NewService(staking.Options{Logger: logger, Config: cfg.staking(), Waiter: staking.ClockWaiter{}}),
		Session:  staking.NewSession(w),
		Registry: staking.NewValidatorRegistry(logger, client),
		Deposits: staking.NewDepositReconciler(rpc.NewHelperClient(cfg.HelperURL, opts)),
		Logger:   logger,
	}, nil
}

func newRootCmd(factory depsFactory) *cobra.Command {
	opts := &options{}
	var d *deps

	root := &cobra.Command{
		Use:           "stakectl",
		Short:         "Staking operations for a NEAR account and its lockup",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch opts.output {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("invalid --output: %s (use json|yaml|text)", opts.output)
			}
			if _, err := staking.ToYocto("", staking.Unit(opts.unit)); err != nil {
				return fmt.Errorf("invalid --unit: %s (use near|yocto)", opts.unit)
			}
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if cfg.AccountID == "" {
				return fmt.Errorf("STAKING_ACCOUNT_ID is not set")
			}
			logger := zap.NewNop()
			if opts.verbose {
				zc := zap.NewDevelopmentConfig()
				zc.OutputPaths = []string{"stderr"}
				if logger, err = zc.Build(); err != nil {
					return err
				}
			}
			d, err = factory(cfg, logger)
			return err
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (overrides env)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "Output format: json|yaml|text")
	root.PersistentFlags().StringVar(&opts.unit, "unit", "", "Amount unit: near|yocto (default: guess from length)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	get := func() *deps { return d }
	root.AddCommand(
		withdrawCmd(opts, get),
		unstakeCmd(opts, get),
		selectPoolCmd(opts, get),
		pingCmd(opts, get),
		balanceCmd(opts, get),
		stateCmd(opts, get),
		depositsCmd(opts, get),
		validatorsCmd(opts, get),
	)
	return root
}

// render writes v in the selected format; text falls back to the given
// printer.
func render(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		text(w)
		return nil
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
