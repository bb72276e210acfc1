package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/canopy-network/stakex/pkg/staking"
	"github.com/spf13/cobra"
)

type getDeps func() *deps

func amountArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return ""
}

func near(yocto string) string {
	s, err := staking.FormatAmount(yocto, 4)
	if err != nil {
		return yocto
	}
	return s + " NEAR"
}

func outcomeText(op string, out staking.Outcome) func(io.Writer) {
	return func(w io.Writer) { fmt.Fprintf(w, "%s submitted: %s\n", op, out.TxHash) }
}

func withdrawCmd(opts *options, get getDeps) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "withdraw <validator> [amount]",
		Short: "Withdraw unstaked balance (all when no amount is given)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := get()
			current := from
			if current == "" {
				current = d.Session.AccountID()
			}
			out, err := d.Service.WithdrawUnit(commandContext(cmd), d.Session, current, args[0], amountArg(args), staking.Unit(opts.unit))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, out, outcomeText("withdraw", out))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Account to withdraw for; a lockup id routes through the lockup")
	return cmd
}

func unstakeCmd(opts *options, get getDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "unstake <validator> [amount]",
		Short: "Unstake from a validator (all when no amount is given)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := get()
			ctx := commandContext(cmd)
			amount, err := staking.ToYocto(amountArg(args), staking.Unit(opts.unit))
			if err != nil {
				return err
			}
			out, err := d.Service.AccountUnstake(ctx, d.Session, args[0], amount)
			if err != nil {
				return err
			}
			staked, _, err := d.Service.Cache().Get(ctx, args[0], d.Session.AccountID())
			if err != nil {
				return err
			}
			res := struct {
				TxHash        string `json:"txHash" yaml:"txHash"`
				StakedBalance string `json:"stakedBalance" yaml:"stakedBalance"`
			}{out.TxHash, staked}
			return render(cmd.OutOrStdout(), opts.output, res, func(w io.Writer) {
				fmt.Fprintf(w, "unstake submitted: %s\nstaked balance: %s\n", out.TxHash, near(staked))
			})
		},
	}
}

func selectPoolCmd(opts *options, get getDeps) *cobra.Command {
	var lockupID string
	var unselect bool
	cmd := &cobra.Command{
		Use:   "select-pool <validator>",
		Short: "Point the lockup at a staking pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := get()
			ctx := commandContext(cmd)
			if lockupID == "" {
				_, id, err := d.Service.Resolver().Lockup(ctx, d.Session, d.Session.AccountID())
				if err != nil {
					return err
				}
				lockupID = id
			}
			out, err := d.Service.LockupSelect(ctx, d.Session, args[0], lockupID, unselect)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, out, outcomeText("select", out))
		},
	}
	cmd.Flags().StringVar(&lockupID, "lockup", "", "Lockup account id (default: derived from the signer)")
	cmd.Flags().BoolVar(&unselect, "unselect", false, "Unselect the current pool first")
	return cmd
}

func pingCmd(opts *options, get getDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "ping <validator>",
		Short: "Ask a staking pool to distribute rewards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := get()
			out, err := d.Service.Ping(commandContext(cmd), d.Session, args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, out, outcomeText("ping", out))
		},
	}
}

func balanceCmd(opts *options, get getDeps) *cobra.Command {
	var accountID string
	cmd := &cobra.Command{
		Use:   "balance <validator>",
		Short: "Show the position of an account at one validator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := get()
			ctx := commandContext(cmd)
			id := accountID
			if id == "" {
				id = d.Session.AccountID()
			}
			deposits, err := d.Deposits.GetStakingDeposits(ctx, id)
			if err != nil {
				return err
			}
			entry, err := d.Service.ValidatorBalance(ctx, d.Session, args[0], id, deposits[args[0]])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, entry, func(w io.Writer) {
				fmt.Fprintf(w, "%s @ %s\n", id, entry.AccountID)
				fmt.Fprintf(w, "  staked:    %s\n", near(entry.Staked))
				fmt.Fprintf(w, "  unclaimed: %s\n", near(entry.Unclaimed))
				fmt.Fprintf(w, "  available: %s\n", near(entry.Available))
				fmt.Fprintf(w, "  pending:   %s\n", near(entry.Pending))
			})
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "Account to inspect (default: the signer)")
	return cmd
}

func stateCmd(opts *options, get getDeps) *cobra.Command {
	var current string
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Load the staking view of the signer and its lockup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := get()
			ctx := commandContext(cmd)
			validators, err := d.Registry.All(ctx)
			if err != nil {
				return err
			}
			state, loadErr := d.Service.LoadState(ctx, d.Session, current, validators, d.Deposits)
			if err := render(cmd.OutOrStdout(), opts.output, state, func(w io.Writer) {
				for _, acc := range state.Accounts {
					marker := " "
					if acc.AccountID == state.CurrentAccount.AccountID {
						marker = "*"
					}
					fmt.Fprintf(w, "%s %s staked %s, unclaimed %s, available %s, pending %s\n", marker, acc.AccountID,
						near(acc.TotalStaked), near(acc.TotalUnclaimed), near(acc.TotalAvailable), near(acc.TotalPending))
					for _, v := range acc.Validators {
						fmt.Fprintf(w, "    %s staked %s\n", v.AccountID, near(v.Staked))
					}
				}
			}); err != nil {
				return errors.Join(loadErr, err)
			}
			return loadErr
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "Current account (default: the signer)")
	return cmd
}

func depositsCmd(opts *options, get getDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "deposits [account]",
		Short: "Show the indexed deposit per validator",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := get()
			id := d.Session.AccountID()
			if len(args) == 1 {
				id = args[0]
			}
			deposits, err := d.Deposits.GetStakingDeposits(commandContext(cmd), id)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, deposits, func(w io.Writer) {
				ids := make([]string, 0, len(deposits))
				for v := range deposits {
					ids = append(ids, v)
				}
				sort.Strings(ids)
				for _, v := range ids {
					fmt.Fprintf(w, "%s\t%s\n", v, near(deposits[v]))
				}
			})
		},
	}
}

func validatorsCmd(opts *options, get getDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "validators",
		Short: "List current and next validators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := get().Registry.All(commandContext(cmd))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, ids, func(w io.Writer) {
				for _, id := range ids {
					fmt.Fprintln(w, id)
				}
			})
		},
	}
}
