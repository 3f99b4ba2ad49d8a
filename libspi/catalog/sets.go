package catalog

import (
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/gogo/protobuf/proto"
)

// WordSet allows adding words to an internal set and returning if a given word has already been added.
//
// A WordSet is safe for concurrent use.
type WordSet interface {

	// TryAdd adds the given word if it is not already present.
	//
	// If w already is in this WordSet, false is returned and this call has no effect.
	// If w isn't in this WordSet, a copy of w is added and true is returned.
	//
	// After one or more calls to TryAdd(), be sure to call Close() for cleanup.
	TryAdd(w spi.Word) bool

	// Len returns the number of distinct words added.
	Len() int

	// Close removes all previously added items from this set.
	//
	// If you make subsequent calls to TryAdd(), call Close() when you're done.
	Close()
}

func NewWordSet() WordSet {
	return &wordSet{}
}

type wordSet struct {
	lsmSet
}

func (ws *wordSet) TryAdd(w spi.Word) bool {
	buf := proto.NewBuffer(make([]byte, 0, 1+2*len(w)))
	appendWord(buf, w)
	return ws.tryAdd(buf.Bytes())
}

type lsmSet struct {
	mu    sync.Mutex
	db    *badger.DB
	count int
}

func (set *lsmSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *lsmSet) tryAdd(key []byte) bool {
	set.mu.Lock()
	defer set.mu.Unlock()

	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Discard()

	added := false
	_, err := txn.Get(key)
	if err == nil {
		// no-op since the key is already in the db
	} else if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		if err == nil {
			err = txn.Commit()
		}
		added = true
	}

	if err != nil {
		panic(err)
	}

	if added {
		set.count++
	}
	return added
}

func (set *lsmSet) Len() int {
	set.mu.Lock()
	defer set.mu.Unlock()
	return set.count
}

func (set *lsmSet) Close() {
	set.mu.Lock()
	defer set.mu.Unlock()

	if set.db != nil {
		set.db.Close()
		set.db = nil
		set.count = 0
	}
}
