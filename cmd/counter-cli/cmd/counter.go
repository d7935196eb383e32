// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/cli/prompt"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/counter"
	"github.com/ava-labs/countervm/utils"
)

const (
	verbCreate    = "create"
	verbIncrement = "increment"
	verbDecrement = "decrement"
	verbDestroy   = "destroy"
)

// newAction builds the action for [verb] on the counter owned by [owner].
func newAction(ctx context.Context, b backend, verb string, owner codec.Address) (chain.Action, error) {
	if verb == verbCreate {
		return &actions.Initialize{}, nil
	}
	reply, err := b.Counter(ctx, owner)
	if err != nil {
		return nil, err
	}
	switch verb {
	case verbIncrement:
		return &actions.Increment{Counter: reply.Address}, nil
	case verbDecrement:
		return &actions.Decrement{Counter: reply.Address}, nil
	case verbDestroy:
		return &actions.Close{Counter: reply.Address}, nil
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidStep, verb)
	}
}

func newCounterCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Create, update, destroy and query counters",
	}
	cmd.PersistentFlags().String("key", "", "name of the signing key (default key if omitted)")

	for _, verb := range []string{verbCreate, verbIncrement, verbDecrement, verbDestroy} {
		verb := verb
		use := verb
		if verb != verbCreate {
			use += " [owner]"
		}
		sub := &cobra.Command{
			Use:   use,
			Short: fmt.Sprintf("%s a counter", verb),
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runCounterAction(cmd, verb, args)
			},
		}
		if verb == verbDestroy {
			sub.Flags().Bool("yes", false, "do not ask for confirmation")
		}
		cmd.AddCommand(sub)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [owner]",
		Short: "Print the counter owned by a key or address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := c.owner(cmd, args)
			if err != nil {
				return err
			}
			b, err := c.getBackend(cmd.Context())
			if err != nil {
				return err
			}
			reply, err := b.Counter(cmd.Context(), owner)
			if err != nil {
				return err
			}
			if !reply.Exists {
				utils.Outf("{{yellow}}counter:{{/}} %s {{red}}not found{{/}}\n", reply.Address)
				return nil
			}
			utils.Outf(
				"{{yellow}}counter:{{/}} %s {{yellow}}count:{{/}} %d {{yellow}}authority:{{/}} %s {{yellow}}bump:{{/}} %d\n",
				reply.Address,
				reply.Count,
				reply.Authority,
				reply.Bump,
			)
			return nil
		},
	})
	return cmd
}

// owner resolves the optional owner argument, defaulting to the signer.
func (c *cli) owner(cmd *cobra.Command, args []string) (codec.Address, error) {
	if len(args) == 1 {
		return c.keys.Resolve(args[0])
	}
	name, err := c.signerName(cmd)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return c.keys.Resolve(name)
}

func (c *cli) runCounterAction(cmd *cobra.Command, verb string, args []string) error {
	ctx := cmd.Context()
	name, err := c.signerName(cmd)
	if err != nil {
		return err
	}
	factory, err := c.keys.Factory(name)
	if err != nil {
		return err
	}
	owner, err := c.owner(cmd, args)
	if err != nil {
		return err
	}
	if verb == verbDestroy {
		yes, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return err
		}
		if !yes {
			cont, err := prompt.Continue()
			if err != nil || !cont {
				return err
			}
		}
	}
	b, err := c.getBackend(ctx)
	if err != nil {
		return err
	}
	action, err := newAction(ctx, b, verb, owner)
	if err != nil {
		return err
	}
	result, err := b.Submit(ctx, action, factory)
	if result == nil {
		return err
	}
	printResult(result)
	return err
}

func printResult(result *chain.Result) {
	switch e := result.Event.(type) {
	case *counter.Created:
		utils.Outf("{{green}}created counter:{{/}} %s {{yellow}}count:{{/}} %d {{yellow}}txID:{{/}} %s\n", e.Counter, e.Count, result.TxID)
	case *counter.Updated:
		utils.Outf("{{green}}%s:{{/}} %d -> %d {{yellow}}txID:{{/}} %s\n", e.Op, e.Previous, e.New, result.TxID)
	case *counter.Closed:
		utils.Outf(
			"{{green}}closed counter:{{/}} %s {{yellow}}final:{{/}} %d {{yellow}}refund:{{/}} %s {{yellow}}txID:{{/}} %s\n",
			e.Counter,
			e.Final,
			utils.FormatBalance(e.Refund),
			result.TxID,
		)
	}
}
