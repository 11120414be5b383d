package port

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text.
	Embed(texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// VectorStore persists document vectors and answers nearest-neighbour
// queries. All mutations are durable once the call returns. The store is
// safe for concurrent reads; indexing assumes a single writer.
type VectorStore interface {
	// Upsert inserts or replaces entries keyed by Item.ID.
	Upsert(items []Item) error

	// Query returns up to k entries ordered by ascending cosine distance
	// to the query vector.
	Query(vector []float32, k int) ([]Hit, error)

	// Clear removes every entry. Used before a full re-index so stale
	// documents cannot survive a corpus change.
	Clear() error

	// Count returns the number of stored entries.
	Count() (int, error)

	// Close releases the underlying resources.
	Close() error
}

// Item is a document vector to be stored.
type Item struct {
	ID       string
	Vector   []float32
	Content  string
	Metadata map[string]string
}

// Hit is a single nearest-neighbour result.
type Hit struct {
	ID       string
	Distance float64
	Content  string
	Metadata map[string]string
}
