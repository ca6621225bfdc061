package dataset

import (
	"errors"
	"fmt"
	"os"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/neurlang/gosep/spectral"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache stores amplitude matrices between runs, keyed by file and transform
// parameters. Values are kept at half precision.
type Cache struct {
	db *badger.DB
}

// CacheOptions configures the cache.
type CacheOptions struct {
	// Dir holds the database files. Required unless InMemory is set.
	Dir string
	// InMemory keeps everything in memory.
	InMemory bool
	// Logger receives badger's messages; nil silences them.
	Logger logrus.FieldLogger
}

type cacheEntry struct {
	Bins   int      `msgpack:"bins"`
	Frames int      `msgpack:"frames"`
	Half   []uint16 `msgpack:"half"`
}

// OpenCache opens or creates a cache.
func OpenCache(opts CacheOptions) (*Cache, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("dataset: cache directory is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	if opts.Logger != nil {
		dbOpts = dbOpts.WithLogger(opts.Logger.WithField("component", "badger"))
	} else {
		dbOpts = dbOpts.WithLogger(nil)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("dataset: open cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Key identifies the amplitude of file name under cfg at the given rate. The
// file's size and modification time are part of the key so edited files miss.
func Key(name string, rate int, cfg spectral.Config) (string, error) {
	info, err := os.Stat(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("amp:%s:%d:%d:%d:%d:%d:%g:%g", name, info.Size(), info.ModTime().UnixNano(),
		rate, cfg.WindowSize, cfg.HopLength, cfg.TopDB, cfg.AMin), nil
}

// Get returns the cached matrix for key. ok is false on a miss.
func (c *Cache) Get(key string) (amp [][]float64, ok bool, err error) {
	var data []byte
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var e cacheEntry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, false, fmt.Errorf("dataset: decode cache entry: %w", err)
	}
	amp, err = spectral.FromHalfBits(e.Half, e.Bins, e.Frames)
	if err != nil {
		return nil, false, err
	}
	return amp, true, nil
}

// Put stores amp under key.
func (c *Cache) Put(key string, amp [][]float64) error {
	e := cacheEntry{Bins: len(amp), Half: spectral.HalfBits(amp)}
	if len(amp) > 0 {
		e.Frames = len(amp[0])
	}
	data, err := msgpack.Marshal(&e)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Close flushes and closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
