// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/cli/prompt"
	"github.com/ava-labs/countervm/utils"
)

func newFundCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "fund <key|address> [amount]",
		Short: "Credit coins to an account of the local node",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := c.keys.Resolve(args[0])
			if err != nil {
				return err
			}
			var amount uint64
			if len(args) == 2 {
				amount, err = utils.ParseBalance(args[1])
			} else {
				amount, err = prompt.Amount("amount")
			}
			if err != nil {
				return err
			}
			b, err := c.getBackend(cmd.Context())
			if err != nil {
				return err
			}
			bal, err := b.Fund(cmd.Context(), addr, amount)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}funded:{{/}} %s {{yellow}}balance:{{/}} %s\n", addr, utils.FormatBalance(bal))
			return nil
		},
	}
}

func newBalanceCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <key|address>",
		Short: "Print the balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := c.keys.Resolve(args[0])
			if err != nil {
				return err
			}
			b, err := c.getBackend(cmd.Context())
			if err != nil {
				return err
			}
			bal, err := b.Balance(cmd.Context(), addr)
			if err != nil {
				return err
			}
			utils.Outf("{{yellow}}balance:{{/}} %s\n", utils.FormatBalance(bal))
			return nil
		},
	}
}
