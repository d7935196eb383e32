// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/counter"
)

const stdinPath = "-"

func newRunCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "run <plan>",
		Short: "Run the steps of a JSON or YAML plan (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				b   []byte
				err error
			)
			if args[0] == stdinPath {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			plan, err := unmarshalPlan(b)
			if err != nil {
				return err
			}
			return c.runPlan(cmd.Context(), plan, cmd.OutOrStdout())
		},
	}
}

// runPlan executes the steps of [plan] in order, printing one response per
// step. It stops at the first step whose requirements are not met.
func (c *cli) runPlan(ctx context.Context, plan *Plan, w io.Writer) error {
	if len(plan.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidPlan)
	}
	c.log.Info("running plan",
		zap.String("name", plan.Name),
		zap.Int("steps", len(plan.Steps)),
	)
	for i, step := range plan.Steps {
		resp := NewResponse(i)
		result, err := c.runStep(ctx, step.Run)
		if result != nil {
			resp.Result = *result
		}
		if err != nil {
			resp.Error = err.Error()
		}
		if err := resp.Print(w); err != nil {
			return err
		}
		if err := checkStep(step.Require, result, err); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Run, err)
		}
	}
	return nil
}

// checkStep compares the outcome of a step with its requirements. Without
// requirements a step must succeed.
func checkStep(req *Require, result *Result, stepErr error) error {
	if req == nil {
		return stepErr
	}
	if req.Error != "" {
		if stepErr == nil {
			return fmt.Errorf("%w: expected error %q", ErrAssertionFailed, req.Error)
		}
		if !strings.Contains(stepErr.Error(), req.Error) {
			return fmt.Errorf("%w: expected error %q, got %q", ErrAssertionFailed, req.Error, stepErr)
		}
		return nil
	}
	if stepErr != nil {
		return stepErr
	}
	if req.Result == nil {
		return nil
	}
	if result == nil || result.Value == nil {
		return fmt.Errorf("%w: step produced no value", ErrAssertionFailed)
	}
	ok, err := validateAssertion(*result.Value, req.Result)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf(
			"%w: %d %s %s",
			ErrAssertionFailed,
			*result.Value,
			req.Result.Operator,
			req.Result.Value,
		)
	}
	return nil
}

// runStep parses and executes a single plan command.
func (c *cli) runStep(ctx context.Context, line string) (*Result, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStep, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrInvalidStep)
	}
	verb, args := args[0], args[1:]
	switch verb {
	case "key":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: usage: key <name>", ErrInvalidStep)
		}
		return c.stepKey(args[0])
	case "fund":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: usage: fund <key|address> <amount>", ErrInvalidStep)
		}
		return c.stepFund(ctx, args[0], args[1])
	case "balance":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: usage: balance <key|address>", ErrInvalidStep)
		}
		return c.stepBalance(ctx, args[0])
	case "get":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: usage: get <key|address>", ErrInvalidStep)
		}
		return c.stepGet(ctx, args[0])
	case verbCreate:
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: usage: create <signer>", ErrInvalidStep)
		}
		return c.stepAction(ctx, verb, args[0], args[0])
	case verbIncrement, verbDecrement, verbDestroy:
		switch len(args) {
		case 1:
			return c.stepAction(ctx, verb, args[0], args[0])
		case 2:
			return c.stepAction(ctx, verb, args[0], args[1])
		default:
			return nil, fmt.Errorf("%w: usage: %s <signer> [owner]", ErrInvalidStep, verb)
		}
	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrInvalidStep, verb)
	}
}

func (c *cli) stepKey(name string) (*Result, error) {
	ok, err := c.keys.Has(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := c.keys.Create(name); err != nil {
			return nil, err
		}
	}
	addr, err := c.keys.Resolve(name)
	if err != nil {
		return nil, err
	}
	return &Result{Msg: addr.String()}, nil
}

func (c *cli) stepFund(ctx context.Context, name string, amount string) (*Result, error) {
	addr, err := c.keys.Resolve(name)
	if err != nil {
		return nil, err
	}
	value, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStep, err)
	}
	b, err := c.getBackend(ctx)
	if err != nil {
		return nil, err
	}
	bal, err := b.Fund(ctx, addr, value)
	if err != nil {
		return nil, err
	}
	return &Result{Value: &bal, Msg: addr.String()}, nil
}

func (c *cli) stepBalance(ctx context.Context, name string) (*Result, error) {
	addr, err := c.keys.Resolve(name)
	if err != nil {
		return nil, err
	}
	b, err := c.getBackend(ctx)
	if err != nil {
		return nil, err
	}
	bal, err := b.Balance(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &Result{Value: &bal, Msg: addr.String()}, nil
}

func (c *cli) stepGet(ctx context.Context, name string) (*Result, error) {
	owner, err := c.keys.Resolve(name)
	if err != nil {
		return nil, err
	}
	b, err := c.getBackend(ctx)
	if err != nil {
		return nil, err
	}
	reply, err := b.Counter(ctx, owner)
	if err != nil {
		return nil, err
	}
	if !reply.Exists {
		return &Result{Msg: reply.Address.String()}, fmt.Errorf("%w: %s", counter.ErrRecordNotFound, reply.Address)
	}
	count := reply.Count
	return &Result{Value: &count, Msg: reply.Address.String()}, nil
}

func (c *cli) stepAction(ctx context.Context, verb string, signer string, ownerName string) (*Result, error) {
	factory, err := c.keys.Factory(signer)
	if err != nil {
		return nil, err
	}
	owner := factory.Address()
	if ownerName != signer {
		owner, err = c.keys.Resolve(ownerName)
		if err != nil {
			return nil, err
		}
	}
	b, err := c.getBackend(ctx)
	if err != nil {
		return nil, err
	}
	action, err := newAction(ctx, b, verb, owner)
	if err != nil {
		return nil, err
	}
	result, err := b.Submit(ctx, action, factory)
	if result == nil {
		return nil, err
	}
	r := &Result{Tx: result}
	if value, ok := eventValue(result); ok {
		r.Value = &value
	}
	return r, err
}

// eventValue returns the count carried by the notification of [result].
func eventValue(result *chain.Result) (uint64, bool) {
	switch e := result.Event.(type) {
	case *counter.Created:
		return e.Count, true
	case *counter.Updated:
		return e.New, true
	case *counter.Closed:
		return e.Final, true
	default:
		return 0, false
	}
}
