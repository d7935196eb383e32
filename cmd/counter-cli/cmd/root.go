// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/vm"
)

const logsFolder = "logs"

type cli struct {
	configPath string
	dataDir    string
	logLevel   string
	endpoint   string
	quiet      bool

	cfg        config.Config
	logFactory *logFactory
	log        logging.Logger
	keys       *keyStore

	vm      *vm.VM
	backend backend
}

func NewRootCmd() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:   "counter-cli",
		Short: "Create and update per-user counters on a countervm ledger",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to a JSON node config")
	flags.StringVar(&c.dataDir, "data-dir", "", "override the data directory of the config")
	flags.StringVar(&c.logLevel, "log-level", "", "override the log level of the config")
	flags.StringVar(&c.endpoint, "endpoint", "", "send actions to the node at this URI instead of opening one")
	flags.BoolVar(&c.quiet, "quiet", false, "do not display logs")

	cmd.AddCommand(
		newKeyCmd(c),
		newFundCmd(c),
		newBalanceCmd(c),
		newCounterCmd(c),
		newRunCmd(c),
		newServeCmd(c),
		newWatchCmd(c),
	)

	// ensure the node and loggers are closed on exit
	cobra.OnFinalize(func() {
		if err := c.close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close: %s\n", err)
		}
	})
	return cmd
}

func (c *cli) init() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.dataDir != "" {
		cfg.DataDir = c.dataDir
	}
	if c.logLevel != "" {
		level, err := logging.ToLevel(c.logLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
		cfg.LogDisplayLevel = level
	}
	c.cfg = cfg

	c.logFactory = newLogFactory(logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   8, // megabytes
			MaxFiles:  4,
			MaxAge:    7, // days
			Directory: path.Join(cfg.DataDir, logsFolder),
		},
		LogLevel:                cfg.LogLevel,
		DisplayLevel:            cfg.LogDisplayLevel,
		LogFormat:               logging.JSON,
		DisableWriterDisplaying: c.quiet,
	})
	c.log, err = c.logFactory.Make("counter-cli")
	if err != nil {
		return err
	}
	c.keys, err = newKeyStore(cfg.DataDir)
	if err != nil {
		return err
	}
	c.log.Debug("cli initialized",
		zap.String("dataDir", cfg.DataDir),
		zap.String("endpoint", c.endpoint),
	)
	return nil
}

// openVM opens the node kept in the data directory. Only one process can
// hold it at a time.
func (c *cli) openVM(ctx context.Context) (*vm.VM, error) {
	if c.vm != nil {
		return c.vm, nil
	}
	v, err := vm.New(ctx, c.log, c.cfg)
	if err != nil {
		return nil, err
	}
	c.vm = v
	return v, nil
}

func (c *cli) getBackend(ctx context.Context) (backend, error) {
	if c.backend != nil {
		return c.backend, nil
	}
	if c.endpoint != "" {
		b, err := newRemoteBackend(c.endpoint)
		if err != nil {
			return nil, err
		}
		c.backend = b
		return b, nil
	}
	v, err := c.openVM(ctx)
	if err != nil {
		return nil, err
	}
	c.backend = newLocalBackend(v)
	return c.backend, nil
}

func (c *cli) close() error {
	var err error
	if c.vm != nil {
		err = c.vm.Shutdown()
		c.vm = nil
	}
	c.backend = nil
	if c.logFactory != nil {
		c.logFactory.Close()
		c.logFactory = nil
	}
	return err
}
