package catalog

import (
	"runtime"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	gCatalogStateKey => catalogState

	kResultCatalog, Kind, Modulus, Rank, len(Word), Word...     => result record
	...

All key fields are varints (word letters are zigzag encoded), so the results for an invariant are contiguous
and, within that, the results for a given rank are contiguous.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

const (
	catalogMajorVers = 2024
	catalogMinorVers = 1
)

// catalog is a db wrapper for a catalog of computed invariants
type catalog struct {
	mu         sync.Mutex
	ctx        spi.CatalogContext
	readOnly   bool
	stateDirty bool
	state      catalogState
	db         *badger.DB
}

// OpenCatalog opens (or creates) the catalog at opts.DbPathName, or an in-memory catalog if no path is given.
func OpenCatalog(ctx spi.CatalogContext, opts spi.CatalogOpts) (spi.Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(spi.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, we consider the catalog ctx blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = !cat.readOnly
		cat.state.MajorVers = catalogMajorVers
		cat.state.MinorVers = catalogMinorVers
	}

	if err == nil && (cat.state.MajorVers != catalogMajorVers || cat.state.MinorVers != catalogMinorVers) {
		err = errors.New("Catalog version is incompatible")
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	klog.V(1).Infof("opened catalog %q holding %d results", opts.DbPathName, cat.state.NumResults)
	return cat, nil
}

func (cat *catalog) loadState() error {
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return cat.state.Unmarshal(val)
			})
		}
		return err
	})
	return err
}

func (cat *catalog) flushState() {
	if cat.stateDirty {
		err := cat.db.Update(func(txn *badger.Txn) error {
			return txn.Set(gCatalogStateKey, cat.state.Marshal())
		})
		if err != nil {
			panic(err)
		}
		cat.stateDirty = false
	}
}

func (cat *catalog) Close() error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db != nil {
		cat.flushState()
		err := cat.db.Close()
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
		return err
	}
	return nil
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumResults() int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return int64(cat.state.NumResults)
}

// TryAddResult stores res if there is no result yet for res.Key().
//
// If true is returned, res was not present and was added.
func (cat *catalog) TryAddResult(res *spi.Result) bool {
	if cat.readOnly {
		return false
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()
	if cat.db == nil {
		return false
	}

	key := formResultKey(res.Key())

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get(key)
	if err == nil {
		return false
	}
	if err != badger.ErrKeyNotFound {
		panic(err)
	}

	err = txn.Set(key, marshalResult(res))
	if err == nil {
		err = txn.Commit()
	}
	if err != nil {
		panic(err)
	}

	cat.state.NumResults++
	cat.stateDirty = true
	return true
}

// Lookup returns the stored result for the given calculation, if present.
func (cat *catalog) Lookup(key spi.ResultKey) (*spi.Result, bool) {
	cat.mu.Lock()
	db := cat.db
	cat.mu.Unlock()
	if db == nil {
		return nil, false
	}

	var res *spi.Result
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(formResultKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			res, err = unmarshalResult(key, val)
			return err
		})
	})
	if err != nil {
		if err != badger.ErrKeyNotFound {
			klog.Warningf("catalog lookup of %v failed: %v", key.Word, err)
		}
		return nil, false
	}
	return res, true
}

// Select sends each stored Result meeting the given criteria to onHit, in key order.
func (cat *catalog) Select(sel spi.ResultSelector, onHit spi.OnResultHit) {
	cat.mu.Lock()
	db := cat.db
	cat.mu.Unlock()
	if db == nil {
		return
	}

	txn := db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   100,
		Prefix:         appendKeyPrefix(nil, sel.Invariant, sel.Rank),
	})
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		key, err := parseResultKey(item.KeyCopy(nil))
		if err != nil {
			klog.Warningf("skipping catalog entry: %v", err)
			continue
		}

		L := len(key.Word)
		if L < sel.MinLength || (sel.MaxLength > 0 && L > sel.MaxLength) {
			continue
		}

		var res *spi.Result
		err = item.Value(func(val []byte) error {
			res, err = unmarshalResult(key, val)
			return err
		})
		if err != nil {
			klog.Warningf("skipping catalog entry for %v: %v", key.Word, err)
			continue
		}
		if sel.FiniteOnly && res.Infinite {
			continue
		}
		res.Cached = true
		onHit <- res
	}
}
