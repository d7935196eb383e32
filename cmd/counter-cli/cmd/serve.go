// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/countervm/rpc"
	"github.com/ava-labs/countervm/utils"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the node and serve its JSON-RPC API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if address, _ := cmd.Flags().GetString("http-address"); address != "" {
				c.cfg.HTTPAddress = address
			}
			v, err := c.openVM(cmd.Context())
			if err != nil {
				return err
			}
			utils.Outf("{{green}}serving on:{{/}} %s\n", c.cfg.HTTPAddress)
			return v.Serve(cmd.Context())
		},
	}
	cmd.Flags().String("http-address", "", "override the http address of the config")
	return cmd
}

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream committed results from the node at --endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.endpoint == "" {
				return ErrEndpointRequired
			}
			ws, err := rpc.NewWebSocketClient(c.endpoint)
			if err != nil {
				return err
			}
			go func() {
				<-cmd.Context().Done()
				_ = ws.Close()
			}()
			for {
				result, err := ws.ListenResult()
				if errors.Is(err, rpc.ErrClosed) {
					return nil
				}
				if err != nil {
					return err
				}
				b, err := json.Marshal(result)
				if err != nil {
					return errors.Join(err, ws.Close())
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
			}
		},
	}
}
