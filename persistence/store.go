// Package persistence implements the logical save/load schema for a
// workbook: a version string plus a mapping from cell name to the exact
// source text the user supplied, backed by an embedded bbolt database.
// This package knows nothing about formulas, graphs, or cell contents —
// it deals only in strings, so the workbook package owns every
// conversion at the boundary.
package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"go.etcd.io/bbolt"

	"github.com/MasterFire41604/Spreadsheet-Program/internal/enginelog"
)

var (
	metaBucket  = []byte("meta")
	cellsBucket = []byte("cells")
	versionKey  = []byte("version")
)

// ErrMalformedRecord is returned by decodeCell when a stored record is
// too short or internally inconsistent to be a valid length-prefixed
// cell record.
var ErrMalformedRecord = errors.New("malformed cell record")

// Store is a single bbolt-backed workbook document.
type Store struct {
	db  *bbolt.DB
	log *slog.Logger
}

// Open opens (creating if necessary) the bbolt database at path. A nil
// logger falls back to enginelog.Discard.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = enginelog.Discard()
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		log.Error("open workbook store", "path", path, "error", err)
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Store{db: db, log: log}, nil
}

// Close releases the underlying file handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// WriteVersion stores the workbook's version string in the meta bucket.
func (s *Store) WriteVersion(version string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(metaBucket)
		if err != nil {
			return err
		}
		return bucket.Put(versionKey, []byte(version))
	})
	if err != nil {
		s.log.Error("write workbook version", "error", err)
	}
	return err
}

// ReadVersion returns the stored version string. A document with no
// meta bucket yet (never saved) returns an empty string, not an error.
func (s *Store) ReadVersion() (string, error) {
	var version string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(metaBucket)
		if bucket == nil {
			return nil
		}
		version = string(bucket.Get(versionKey))
		return nil
	})
	return version, err
}

// WriteCells replaces the entire cells bucket with the given mapping
// from normalized cell name to source text.
func (s *Store) WriteCells(cells map[string]string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(cellsBucket); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		bucket, err := tx.CreateBucket(cellsBucket)
		if err != nil {
			return err
		}
		for name, sourceText := range cells {
			if err := bucket.Put([]byte(name), encodeCell(name, sourceText)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("write workbook cells", "count", len(cells), "error", err)
	}
	return err
}

// ReadCells returns the full mapping from normalized cell name to source
// text. A document with no cells bucket yet returns an empty map.
func (s *Store) ReadCells() (map[string]string, error) {
	cells := make(map[string]string)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(cellsBucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			name, sourceText, err := decodeCell(v)
			if err != nil {
				return err
			}
			cells[name] = sourceText
			return nil
		})
	})
	if err != nil {
		s.log.Error("read workbook cells", "error", err)
		return nil, err
	}
	return cells, nil
}

// encodeCell frames a (name, sourceText) pair as a 2-byte little-endian
// name length followed by the name bytes followed by the source text
// bytes verbatim.
func encodeCell(name, sourceText string) []byte {
	nameBytes := []byte(name)
	out := make([]byte, 0, 2+len(nameBytes)+len(sourceText))
	out = binary.LittleEndian.AppendUint16(out, uint16(len(nameBytes)))
	out = append(out, nameBytes...)
	out = append(out, []byte(sourceText)...)
	return out
}

func decodeCell(data []byte) (name, sourceText string, err error) {
	if len(data) < 2 {
		return "", "", fmt.Errorf("%w: record shorter than length prefix (%d bytes)", ErrMalformedRecord, len(data))
	}
	nameLen := binary.LittleEndian.Uint16(data)
	if len(data) < int(nameLen)+2 {
		return "", "", fmt.Errorf("%w: name length %d exceeds record size %d", ErrMalformedRecord, nameLen, len(data))
	}
	name = string(data[2 : nameLen+2])
	sourceText = string(data[nameLen+2:])
	return name, sourceText, nil
}
