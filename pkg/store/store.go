package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/vango-dev/vdiff/internal/config"
	"github.com/vango-dev/vdiff/internal/errors"
)

// Extension is the file extension of an archived frame.
const Extension = ".vdp"

// Store persists encoded frames by key.
type Store interface {
	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the data stored under key. A missing key is an
	// errors.CodeObjectNotFound error.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns the keys starting with prefix in ascending order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Key returns the archive key of frame seq in session.
func Key(session string, seq uint64) string {
	return fmt.Sprintf("%s/%010d%s", session, seq, Extension)
}

// SessionPrefix returns the prefix shared by every key of session.
func SessionPrefix(session string) string {
	return session + "/"
}

// Open creates the store selected by cfg.Kind. An empty kind returns a nil
// Store and no error.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Kind {
	case config.StoreNone:
		return nil, nil
	case config.StoreDir:
		dir := cfg.Dir
		if dir == "" {
			dir = config.DefaultStoreDir
		}
		st, err := NewDirStore(dir)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.StoreS3:
		st, err := NewS3StoreFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, errors.New(errors.CodeUnknownStoreKind).
			WithDetailf("store.kind %q is not one of \"dir\", \"s3\"", cfg.Kind)
	}
}

// validKey rejects keys that would escape the store root.
func validKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return errors.New(errors.CodeStoreWrite).WithDetailf("invalid key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return errors.New(errors.CodeStoreWrite).WithDetailf("invalid key %q", key)
		}
	}
	return nil
}
