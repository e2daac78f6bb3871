package sink

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	assemblyBucket   = []byte("assembly")
	componentsBucket = []byte("components")
	summaryKey       = []byte("summary")
)

// Bolt writes records into a bbolt database file. Components are keyed by
// big-endian rank in the "components" bucket; the assembly record is the
// "summary" key of the "assembly" bucket. Values are JSON.
type Bolt struct {
	db *bbolt.DB
}

// OpenBolt opens or creates the database at path and drops the records of
// any previous run.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o644, &bbolt.Options{
		Timeout:      time.Second,
		NoGrowSync:   bbolt.DefaultOptions.NoGrowSync,
		FreelistType: bbolt.DefaultOptions.FreelistType,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{assemblyBucket, componentsBucket} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("reset %s: %w", path, err)
	}
	return &Bolt{db: db}, nil
}

// WriteComponent stores the record in one transaction.
func (b *Bolt) WriteComponent(ctx context.Context, rec *ComponentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode component %d: %w", rec.Rank, err)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(componentsBucket).Put(rankKey(rec.Rank), data)
	})
}

// WriteAssembly stores the assembly record.
func (b *Bolt) WriteAssembly(ctx context.Context, rec *AssemblyRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode assembly: %w", err)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(assemblyBucket).Put(summaryKey, data)
	})
}

// Close closes the database.
func (b *Bolt) Close() error { return b.db.Close() }

func rankKey(rank int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(rank))
	return k
}

// BoltReader reads a database written by [Bolt].
type BoltReader struct {
	db *bbolt.DB
}

// OpenBoltReader opens the database at path read-only.
func OpenBoltReader(path string) (*BoltReader, error) {
	db, err := bbolt.Open(path, 0o644, &bbolt.Options{Timeout: time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &BoltReader{db: db}, nil
}

// Assembly returns the assembly record.
func (r *BoltReader) Assembly(ctx context.Context) (*AssemblyRecord, error) {
	var rec AssemblyRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		return get(tx, assemblyBucket, summaryKey, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Components returns component summaries in rank order.
func (r *BoltReader) Components(ctx context.Context) ([]ComponentRecord, error) {
	var out []ComponentRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(componentsBucket)
		if bkt == nil {
			return nil
		}
		return bkt.ForEach(func(_, v []byte) error {
			var rec ComponentRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			out = append(out, rec.Summary())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Component returns the full record of one component.
func (r *BoltReader) Component(ctx context.Context, rank int) (*ComponentRecord, error) {
	var rec ComponentRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		return get(tx, componentsBucket, rankKey(rank), &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Close closes the database.
func (r *BoltReader) Close() error { return r.db.Close() }

func get(tx *bbolt.Tx, bucket, key []byte, v any) error {
	bkt := tx.Bucket(bucket)
	if bkt == nil {
		return ErrNotFound
	}
	data := bkt.Get(key)
	if data == nil {
		return ErrNotFound
	}
	return json.Unmarshal(data, v)
}

var (
	_ Sink   = (*Bolt)(nil)
	_ Reader = (*BoltReader)(nil)
)
