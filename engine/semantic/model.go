// Package semantic stores vehicle version embeddings in Qdrant and answers
// competitor-similarity queries over them.
package semantic

// Hit represents a single similarity search result.
type Hit struct {
	ID      string            `json:"id"`
	Score   float32           `json:"score"`
	Make    string            `json:"make"`
	Model   string            `json:"model"`
	Version string            `json:"version"`
	Fuel    string            `json:"fuel"`
	Meta    map[string]string `json:"meta"`
}

// VectorRecord represents a version vector to store in Qdrant.
type VectorRecord struct {
	ID        string
	Embedding []float32
	Payload   map[string]any // make, model, version, year, fuel
}
