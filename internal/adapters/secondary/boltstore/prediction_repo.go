// Package boltstore keeps prediction history in an embedded BoltDB file, for
// deployments that run without PostgreSQL.
package boltstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"wine-tier-service/internal/core/domain"
	output "wine-tier-service/internal/core/ports/output"
)

var (
	predictionsBucket = []byte("predictions")    // time-ordered records
	idIndexBucket     = []byte("prediction_ids") // id -> record key
)

// Store is a PredictionRepository backed by BoltDB.
type Store struct {
	db *bbolt.DB
}

var _ output.PredictionRepository = (*Store)(nil)

// Open opens or creates the database file and its buckets.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{predictionsBucket, idIndexBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// storedPrediction is the on-disk form of a record.
type storedPrediction struct {
	ID                uuid.UUID `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	RequestID         string    `json:"request_id"`
	Country           string    `json:"country"`
	CategoryLevel1    string    `json:"category_level1"`
	CategoryLevel2    string    `json:"category_level2"`
	AlcoholPercentage float64   `json:"alcohol_percentage"`
	Volume            int       `json:"volume"`
	Vintage           *int      `json:"vintage"`
	IsOrganic         int       `json:"is_organic"`
	ClassIndex        int       `json:"class_index"`
	Label             string    `json:"label"`
	RangeLow          *float64  `json:"range_low"`
	RangeHigh         *float64  `json:"range_high"`
}

func toStored(rec *domain.PredictionRecord) storedPrediction {
	return storedPrediction{
		ID:                rec.ID,
		CreatedAt:         rec.CreatedAt,
		RequestID:         rec.RequestID,
		Country:           rec.Input.Country,
		CategoryLevel1:    rec.Input.CategoryLevel1,
		CategoryLevel2:    rec.Input.CategoryLevel2,
		AlcoholPercentage: rec.Input.AlcoholPercentage,
		Volume:            rec.Input.Volume,
		Vintage:           rec.Input.Vintage,
		IsOrganic:         rec.Input.IsOrganic,
		ClassIndex:        rec.ClassIndex,
		Label:             rec.Label,
		RangeLow:          rec.RangeLow,
		RangeHigh:         rec.RangeHigh,
	}
}

func (p storedPrediction) toDomain() *domain.PredictionRecord {
	return &domain.PredictionRecord{
		ID:        p.ID,
		CreatedAt: p.CreatedAt,
		RequestID: p.RequestID,
		Input: domain.UserInputRow{
			Country:           p.Country,
			CategoryLevel1:    p.CategoryLevel1,
			CategoryLevel2:    p.CategoryLevel2,
			AlcoholPercentage: p.AlcoholPercentage,
			Volume:            p.Volume,
			Vintage:           p.Vintage,
			IsOrganic:         p.IsOrganic,
		},
		ClassIndex: p.ClassIndex,
		Label:      p.Label,
		RangeLow:   p.RangeLow,
		RangeHigh:  p.RangeHigh,
	}
}

// recordKey sorts by creation time; the id keeps keys unique.
func recordKey(createdAt time.Time, id uuid.UUID) []byte {
	key := make([]byte, 8+len(id))
	binary.BigEndian.PutUint64(key, uint64(createdAt.UnixNano()))
	copy(key[8:], id[:])
	return key
}

func timePrefix(t time.Time) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(t.UnixNano()))
	return key
}

func (s *Store) Create(ctx context.Context, rec *domain.PredictionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(toStored(rec))
	if err != nil {
		return fmt.Errorf("marshal prediction record: %w", err)
	}

	key := recordKey(rec.CreatedAt, rec.ID)
	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(predictionsBucket).Put(key, data); err != nil {
			return err
		}
		return tx.Bucket(idIndexBucket).Put(rec.ID[:], key)
	})
	if err != nil {
		return fmt.Errorf("create prediction record: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.PredictionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var stored storedPrediction
	err := s.db.View(func(tx *bbolt.Tx) error {
		key := tx.Bucket(idIndexBucket).Get(id[:])
		if key == nil {
			return domain.ErrRecordNotFound
		}
		data := tx.Bucket(predictionsBucket).Get(key)
		if data == nil {
			return domain.ErrRecordNotFound
		}
		return json.Unmarshal(data, &stored)
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get prediction record by id: %w", err)
	}
	return stored.toDomain(), nil
}

// List walks the records in time order, newest first unless Order is "asc".
func (s *Store) List(ctx context.Context, filter output.PredictionFilter) ([]*domain.PredictionRecord, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var since []byte
	if filter.Since != nil {
		since = timePrefix(*filter.Since)
	}
	asc := filter.Order == "asc"

	var records []*domain.PredictionRecord
	total := 0

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(predictionsBucket).Cursor()

		var k, v []byte
		var next func() ([]byte, []byte)
		if asc {
			if since != nil {
				k, v = c.Seek(since)
			} else {
				k, v = c.First()
			}
			next = c.Next
		} else {
			k, v = c.Last()
			next = c.Prev
		}

		for ; k != nil; k, v = next() {
			if since != nil && bytes.Compare(k[:8], since) < 0 {
				if asc {
					continue
				}
				break
			}

			var stored storedPrediction
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("decode prediction record: %w", err)
			}
			if filter.Label != "" && stored.Label != filter.Label {
				continue
			}

			if total >= filter.Offset && (filter.Limit <= 0 || len(records) < filter.Limit) {
				records = append(records, stored.toDomain())
			}
			total++
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list prediction records: %w", err)
	}

	return records, total, nil
}
