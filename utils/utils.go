// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"

	smath "github.com/ava-labs/avalanchego/utils/math"
	formatter "github.com/onsi/ginkgo/v2/formatter"
)

const (
	// NativeDecimals is the number of decimal places of one coin.
	NativeDecimals = 9

	lamportsPerCoin uint64 = 1_000_000_000
)

var ErrInvalidBalance = errors.New("invalid balance")

func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

func InitSubDirectory(rootPath string, name string) (string, error) {
	p := path.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// Outf prints [format] to stdout after expanding ginkgo colour tags.
//
// e.g.,
//
//	Outf("{{green}}created counter:{{/}} %s\n", addr)
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

// FormatBalance renders [bal] lamports as coins.
func FormatBalance(bal uint64) string {
	return fmt.Sprintf("%d.%0*d", bal/lamportsPerCoin, NativeDecimals, bal%lamportsPerCoin)
}

// ParseBalance converts a decimal coin amount such as "1.5" to lamports.
// Amounts finer than one lamport are rejected.
func ParseBalance(bal string) (uint64, error) {
	whole, frac, _ := strings.Cut(strings.TrimSpace(bal), ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBalance, bal)
	}
	if len(frac) > NativeDecimals {
		return 0, fmt.Errorf("%w: more than %d decimals", ErrInvalidBalance, NativeDecimals)
	}
	var (
		coins    uint64
		lamports uint64
		err      error
	)
	if whole != "" {
		coins, err = strconv.ParseUint(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidBalance, err)
		}
	}
	if frac != "" {
		lamports, err = strconv.ParseUint(frac+strings.Repeat("0", NativeDecimals-len(frac)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidBalance, err)
		}
	}
	total, err := smath.Mul64(coins, lamportsPerCoin)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidBalance, err)
	}
	total, err = smath.Add64(total, lamports)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidBalance, err)
	}
	return total, nil
}
