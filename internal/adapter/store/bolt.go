package store

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"supportbot/internal/port"
)

var (
	bucketVectors = []byte("vectors")
	bucketMeta    = []byte("meta")

	keyModel     = []byte("embedding_model")
	keyDimension = []byte("dimension")
)

// BoltStore implements port.VectorStore on a local bbolt file. Search is
// brute force over an in-memory copy of the vectors; the corpus is a
// knowledge base of support articles, not millions of chunks.
//
// The file records the embedding model tag and dimension it was created
// with. Opening it with a different model or dimension is a hard error:
// vectors from two models cannot be ranked against each other.
type BoltStore struct {
	db        *bbolt.DB
	dimension int
	mu        sync.RWMutex
	vectors   map[string]vectorEntry
}

type vectorEntry struct {
	vector   []float32
	content  string
	metadata map[string]string
}

type storedVector struct {
	Vector   []float32         `json:"v"`
	Content  string            `json:"c,omitempty"`
	Metadata map[string]string `json:"m,omitempty"`
}

// NewBoltStore opens (or creates) a vector store at path for the given
// embedding model.
func NewBoltStore(path, model string, dimension int) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketVectors); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}

		storedModel := meta.Get(keyModel)
		storedDim := meta.Get(keyDimension)
		if storedModel == nil {
			if err := meta.Put(keyModel, []byte(model)); err != nil {
				return err
			}
			return meta.Put(keyDimension, []byte(fmt.Sprintf("%d", dimension)))
		}

		if string(storedModel) != model || string(storedDim) != fmt.Sprintf("%d", dimension) {
			return fmt.Errorf("store was indexed with model %q (dim %s), configured model is %q (dim %d); re-index required",
				storedModel, storedDim, model, dimension)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	store := &BoltStore{
		db:        db,
		dimension: dimension,
		vectors:   make(map[string]vectorEntry),
	}

	if err := store.loadVectors(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load vectors: %w", err)
	}

	return store, nil
}

// loadVectors loads all vectors from disk into memory.
func (s *BoltStore) loadVectors() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var stored storedVector
			if err := json.Unmarshal(v, &stored); err != nil {
				return nil // Skip corrupted entries
			}
			s.vectors[string(k)] = vectorEntry{
				vector:   stored.Vector,
				content:  stored.Content,
				metadata: stored.Metadata,
			}
			return nil
		})
	})
}

// Upsert inserts or replaces entries keyed by Item.ID.
func (s *BoltStore) Upsert(items []port.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		if b == nil {
			return fmt.Errorf("vectors bucket not found")
		}

		for _, item := range items {
			if len(item.Vector) != s.dimension {
				return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
			}

			stored := storedVector{
				Vector:   item.Vector,
				Content:  item.Content,
				Metadata: item.Metadata,
			}
			data, err := json.Marshal(stored)
			if err != nil {
				return err
			}

			if err := b.Put([]byte(item.ID), data); err != nil {
				return err
			}

			s.vectors[item.ID] = vectorEntry{
				vector:   item.Vector,
				content:  item.Content,
				metadata: item.Metadata,
			}
		}

		return nil
	})
}

// Query returns up to k entries by ascending cosine distance.
func (s *BoltStore) Query(query []float32, k int) ([]port.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}

	if len(s.vectors) == 0 {
		return nil, nil
	}

	hits := make([]port.Hit, 0, len(s.vectors))
	for id, entry := range s.vectors {
		hits = append(hits, port.Hit{
			ID:       id,
			Distance: 1 - cosineSimilarity(query, entry.vector),
			Content:  entry.content,
			Metadata: entry.metadata,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}

	return hits, nil
}

// Clear removes every entry but keeps the model metadata.
func (s *BoltStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketVectors); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(bucketVectors)
		return err
	})
	if err != nil {
		return err
	}

	s.vectors = make(map[string]vectorEntry)
	return nil
}

// Count returns the number of stored entries.
func (s *BoltStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
