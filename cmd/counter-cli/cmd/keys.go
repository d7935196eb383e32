// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/ava-labs/avalanchego/utils/perms"

	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/utils"
)

const (
	keysFolder     = "keys"
	keyExt         = ".pk"
	defaultKeyFile = "default"
	maxKeyNameLen  = 32
)

var keyNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// keyStore keeps named ed25519 keys as files under the data directory.
type keyStore struct {
	dir string
}

func newKeyStore(dataDir string) (*keyStore, error) {
	dir, err := utils.InitSubDirectory(dataDir, keysFolder)
	if err != nil {
		return nil, err
	}
	return &keyStore{dir: dir}, nil
}

func checkKeyName(name string) error {
	if len(name) > maxKeyNameLen || !keyNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidKeyName, name)
	}
	return nil
}

func (k *keyStore) path(name string) string {
	return filepath.Join(k.dir, name+keyExt)
}

func (k *keyStore) Has(name string) (bool, error) {
	if err := checkKeyName(name); err != nil {
		return false, err
	}
	_, err := os.Stat(k.path(name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Create generates a key called [name]. The first key created becomes the
// default.
func (k *keyStore) Create(name string) (ed25519.PrivateKey, error) {
	ok, err := k.Has(name)
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if ok {
		return ed25519.EmptyPrivateKey, fmt.Errorf("%w: %s", ErrDuplicateKeyName, name)
	}
	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if err := priv.Save(k.path(name)); err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if _, err := k.Default(); errors.Is(err, ErrNoDefaultKey) {
		return priv, k.SetDefault(name)
	}
	return priv, nil
}

func (k *keyStore) Get(name string) (ed25519.PrivateKey, error) {
	ok, err := k.Has(name)
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if !ok {
		return ed25519.EmptyPrivateKey, fmt.Errorf("%w: %s", ErrNamedKeyNotFound, name)
	}
	return ed25519.LoadKey(k.path(name))
}

func (k *keyStore) Factory(name string) (*auth.ED25519Factory, error) {
	priv, err := k.Get(name)
	if err != nil {
		return nil, err
	}
	return auth.NewED25519Factory(priv), nil
}

// List returns the sorted names of all keys.
func (k *keyStore) List() ([]string, error) {
	entries, err := os.ReadDir(k.dir)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), keyExt)
		if !ok || entry.IsDir() {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (k *keyStore) Default() (string, error) {
	b, err := os.ReadFile(filepath.Join(k.dir, defaultKeyFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoDefaultKey
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (k *keyStore) SetDefault(name string) error {
	ok, err := k.Has(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNamedKeyNotFound, name)
	}
	return os.WriteFile(filepath.Join(k.dir, defaultKeyFile), []byte(name), perms.ReadWrite)
}

// Resolve returns the address of the key called [nameOrAddress], or parses
// it as an address.
func (k *keyStore) Resolve(nameOrAddress string) (codec.Address, error) {
	if checkKeyName(nameOrAddress) == nil {
		ok, err := k.Has(nameOrAddress)
		if err != nil {
			return codec.EmptyAddress, err
		}
		if ok {
			factory, err := k.Factory(nameOrAddress)
			if err != nil {
				return codec.EmptyAddress, err
			}
			return factory.Address(), nil
		}
	}
	addr, err := codec.StringToAddress(nameOrAddress)
	if err != nil {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrNamedKeyNotFound, nameOrAddress)
	}
	return addr, nil
}
