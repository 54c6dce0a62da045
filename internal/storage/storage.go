// Package storage persists decoded positions in BadgerDB.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/fenboard/internal/board"
)

// Storage keys
const (
	prefixPosition = "pos/"  // pos/<uuid> -> Record JSON
	prefixHash     = "hash/" // hash/<%016x>/<uuid> -> empty
)

// ErrNotFound is returned when no record exists for an ID.
var ErrNotFound = errors.New("position not found")

// Record is a stored position. Pieces holds the raw masks so that positions
// with overlapping masks survive the trip through FEN.
type Record struct {
	ID        uuid.UUID               `json:"id"`
	FEN       string                  `json:"fen"`
	Hash      uint64                  `json:"hash"`
	Pieces    [board.NumPieces]uint64 `json:"pieces"`
	CreatedAt time.Time               `json:"created_at"`
}

// NewRecord builds an unsaved record for pos.
func NewRecord(pos board.Position) Record {
	rec := Record{
		FEN:  pos.ToFEN(),
		Hash: pos.Hash(),
	}
	for i, bb := range pos.Pieces {
		rec.Pieces[i] = uint64(bb)
	}
	return rec
}

// Position decodes the stored record back into a Position.
func (r Record) Position() (board.Position, error) {
	pos, err := board.ParseFEN(r.FEN)
	if err != nil {
		return board.Position{}, fmt.Errorf("record %s: %w", r.ID, err)
	}
	for i, mask := range r.Pieces {
		pos.Pieces[i] = board.Bitboard(mask)
	}
	return pos, nil
}

func (r Record) samePosition(other Record) bool {
	return r.FEN == other.FEN && r.Pieces == other.Pieces
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	log *zap.SugaredLogger
}

// Open opens (or creates) the database in dir. A nil logger discards output.
func Open(dir string, log *zap.SugaredLogger) (*Storage, error) {
	opts := badger.DefaultOptions(dir).WithLogger(newBadgerLogger(log))
	return open(opts, log)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory(log *zap.SugaredLogger) (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(newBadgerLogger(log))
	return open(opts, log)
}

func open(opts badger.Options, log *zap.SugaredLogger) (*Storage, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Storage{db: db, log: log}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func positionKey(id uuid.UUID) []byte {
	return []byte(prefixPosition + id.String())
}

func hashPrefix(hash uint64) []byte {
	return []byte(fmt.Sprintf("%s%016x/", prefixHash, hash))
}

func hashKey(hash uint64, id uuid.UUID) []byte {
	return append(hashPrefix(hash), id.String()...)
}

// Save stores pos and returns its record. If an identical position is already
// stored the existing record is returned and created is false.
func (s *Storage) Save(pos board.Position) (rec Record, created bool, err error) {
	rec = NewRecord(pos)

	err = s.db.Update(func(txn *badger.Txn) error {
		existing, err := recordsByHash(txn, rec.Hash)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if other.samePosition(rec) {
				rec = other
				return nil
			}
		}

		rec.ID = uuid.New()
		rec.CreatedAt = time.Now().UTC()
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := txn.Set(positionKey(rec.ID), data); err != nil {
			return err
		}
		if err := txn.Set(hashKey(rec.Hash, rec.ID), []byte{}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("save position: %w", err)
	}

	if created {
		s.log.Debugw("stored position", "id", rec.ID, "fen", rec.FEN)
	}
	return rec, created, nil
}

// Get loads the record with the given ID.
func (s *Storage) Get(id uuid.UUID) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = getRecord(txn, id)
		return err
	})
	return rec, err
}

// FindByHash returns every stored record whose position hashes to hash.
func (s *Storage) FindByHash(hash uint64) ([]Record, error) {
	var recs []Record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		recs, err = recordsByHash(txn, hash)
		return err
	})
	return recs, err
}

// List returns all stored records.
func (s *Storage) List() ([]Record, error) {
	var recs []Record
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixPosition)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	return recs, err
}

// Delete removes the record with the given ID.
func (s *Storage) Delete(id uuid.UUID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(positionKey(id)); err != nil {
			return err
		}
		return txn.Delete(hashKey(rec.Hash, id))
	})
}

func getRecord(txn *badger.Txn, id uuid.UUID) (Record, error) {
	var rec Record
	item, err := txn.Get(positionKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return rec, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return rec, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	return rec, err
}

func recordsByHash(txn *badger.Txn, hash uint64) ([]Record, error) {
	prefix := hashPrefix(hash)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []uuid.UUID
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		raw := bytes.TrimPrefix(it.Item().Key(), prefix)
		id, err := uuid.ParseBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt hash index key %q: %w", it.Item().Key(), err)
		}
		ids = append(ids, id)
	}

	recs := make([]Record, 0, len(ids))
	for _, id := range ids {
		rec, err := getRecord(txn, id)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
