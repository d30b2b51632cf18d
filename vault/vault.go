// Package vault stores named records in a Badger database, each record
// encoded as a gringotts frame under one key.
package vault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/absfs/gringotts"
	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var (
	// ErrNotFound is returned for names that hold no record
	ErrNotFound = errors.New("vault: record not found")
	// ErrClosed is returned by every method after Close
	ErrClosed = errors.New("vault: closed")
	// ErrWrongKey means the key does not match the one the vault was created with
	ErrWrongKey = errors.New("vault: key does not open this vault")
)

const (
	recordPrefix = "rec/"
	checkKey     = "meta/check"
)

var checkValue = []byte("gringotts vault v1")

// Options configures Open
type Options struct {
	// Path is the database directory; empty keeps everything in memory
	Path string

	// Context encodes the records; nil uses NewDefaultContext("GRGV")
	Context *gringotts.Context

	// Key encrypts the records. Open keeps its own copy.
	Key *gringotts.Key

	// Logger receives vault and database logs; nil uses logrus.New()
	Logger *logrus.Logger
}

// Vault is a set of encrypted named records. It is safe for concurrent
// readers; writes are serialised by Badger transactions, but the Context
// it was opened with must not be changed afterwards.
type Vault struct {
	db     *badger.DB
	ctx    *gringotts.Context
	key    *gringotts.Key
	log    *logrus.Logger
	closed bool
}

// Open opens or creates a vault. When the database already holds records,
// the key must match the one they were written with.
func Open(opts Options) (*Vault, error) {
	if opts.Key == nil {
		return nil, gringotts.NewValidationError("key", nil, "key cannot be nil")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	ctx := opts.Context
	if ctx == nil {
		var err error
		ctx, err = gringotts.NewDefaultContext([]byte("GRGV"))
		if err != nil {
			return nil, err
		}
	} else {
		ctx = ctx.Clone()
	}
	ctx.SetLogger(opts.Logger)

	key, err := opts.Key.Clone()
	if err != nil {
		return nil, err
	}

	bopts := badger.DefaultOptions(opts.Path).WithLogger(opts.Logger)
	if opts.Path == "" {
		bopts = bopts.WithInMemory(true)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		key.Destroy()
		return nil, fmt.Errorf("error opening vault database: %w", err)
	}

	v := &Vault{db: db, ctx: ctx, key: key, log: opts.Logger}
	if err := v.checkKey(); err != nil {
		return nil, multierr.Append(err, v.Close())
	}

	v.log.WithFields(logrus.Fields{
		"path":     opts.Path,
		"inMemory": opts.Path == "",
	}).Debug("vault opened")
	return v, nil
}

// checkKey writes a known frame into a new vault, or verifies it in an
// existing one
func (v *Vault) checkKey() error {
	return v.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(checkKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			frame, err := v.ctx.EncryptMem(v.key, checkValue)
			if err != nil {
				return err
			}
			return txn.Set([]byte(checkKey), frame)
		}
		if err != nil {
			return err
		}
		frame, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		got, err := v.ctx.DecryptMem(v.key, frame)
		if err != nil {
			if gringotts.IsIntegrityError(err) {
				return fmt.Errorf("%w: %w", ErrWrongKey, err)
			}
			return err
		}
		if string(got) != string(checkValue) {
			return ErrWrongKey
		}
		return nil
	})
}

func recordKey(name string) ([]byte, error) {
	if name == "" {
		return nil, gringotts.NewValidationError("name", name, "record name cannot be empty")
	}
	return []byte(recordPrefix + name), nil
}

// Put encodes data and stores it under name, replacing any previous record
func (v *Vault) Put(name string, data []byte) error {
	if v.closed {
		return ErrClosed
	}
	k, err := recordKey(name)
	if err != nil {
		return err
	}
	frame, err := v.ctx.EncryptMem(v.key, data)
	if err != nil {
		return err
	}
	if err := v.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, frame)
	}); err != nil {
		return fmt.Errorf("error writing record %q: %w", name, err)
	}
	v.log.WithField("name", name).Debug("record stored")
	return nil
}

// Get returns the decoded record stored under name
func (v *Vault) Get(name string) ([]byte, error) {
	if v.closed {
		return nil, ErrClosed
	}
	k, err := recordKey(name)
	if err != nil {
		return nil, err
	}

	var frame []byte
	err = v.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		frame, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading record %q: %w", name, err)
	}
	return v.ctx.DecryptMem(v.key, frame)
}

// Delete removes the record stored under name
func (v *Vault) Delete(name string) error {
	if v.closed {
		return ErrClosed
	}
	k, err := recordKey(name)
	if err != nil {
		return err
	}
	return v.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(k); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(k)
	})
}

// List returns the names of all records in key order
func (v *Vault) List() ([]string, error) {
	if v.closed {
		return nil, ErrClosed
	}
	var names []string
	err := v.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(recordPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), recordPrefix))
		}
		return nil
	})
	return names, err
}

// Close destroys the vault's key copy and closes the database
func (v *Vault) Close() error {
	if v.closed {
		return ErrClosed
	}
	v.closed = true
	v.key.Destroy()
	var err error
	if cerr := v.db.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("error closing vault database: %w", cerr))
	}
	return err
}
