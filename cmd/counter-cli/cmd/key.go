// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/cli/prompt"
	"github.com/ava-labs/countervm/utils"
)

func newKeyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage named ed25519 keys",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create [name]",
			Short: "Create a new named key",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				name, err := keyNameArg(args)
				if err != nil {
					return err
				}
				priv, err := c.keys.Create(name)
				if err != nil {
					return err
				}
				addr := priv.PublicKey().Address()
				c.log.Debug("key create successful",
					zap.String("name", name),
					zap.Stringer("address", addr),
				)
				utils.Outf("{{green}}created key:{{/}} %s {{yellow}}address:{{/}} %s\n", name, addr)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all named keys",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				names, err := c.keys.List()
				if err != nil {
					return err
				}
				def, _ := c.keys.Default()
				for i, name := range names {
					addr, err := c.keys.Resolve(name)
					if err != nil {
						return err
					}
					marker := " "
					if name == def {
						marker = "*"
					}
					utils.Outf("%s%d) {{cyan}}%s{{/}} %s\n", marker, i, name, addr)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set [name]",
			Short: "Set the key used when --key is omitted",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				var name string
				if len(args) == 1 {
					name = args[0]
				} else {
					names, err := c.keys.List()
					if err != nil {
						return err
					}
					if len(names) == 0 {
						return ErrNoKeys
					}
					for i, name := range names {
						utils.Outf("%d) {{cyan}}%s{{/}}\n", i, name)
					}
					index, err := prompt.Choice("set default key", len(names))
					if err != nil {
						return err
					}
					name = names[index]
				}
				if err := c.keys.SetDefault(name); err != nil {
					return err
				}
				utils.Outf("{{green}}default key:{{/}} %s\n", name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "address <name>",
			Short: "Print the address of a named key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				addr, err := c.keys.Resolve(args[0])
				if err != nil {
					return err
				}
				cmd.Println(addr)
				return nil
			},
		},
	)
	return cmd
}

func keyNameArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], checkKeyName(args[0])
	}
	name, err := prompt.String("key name", 1, maxKeyNameLen)
	if err != nil {
		return "", err
	}
	return name, checkKeyName(name)
}

// signerName returns the key named by --key or the default key.
func (c *cli) signerName(cmd *cobra.Command) (string, error) {
	name, err := cmd.Flags().GetString("key")
	if err != nil {
		return "", err
	}
	if name != "" {
		return name, nil
	}
	return c.keys.Default()
}
