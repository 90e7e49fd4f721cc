package embed

import "context"

// Dimensions is the width of the profile_vectors.embedding column.
const Dimensions = 768

type TaskType string

const (
	TaskDocument TaskType = "RETRIEVAL_DOCUMENT"
	TaskQuery    TaskType = "RETRIEVAL_QUERY"
)

type Embedder interface {
	Embed(ctx context.Context, text string, task TaskType) ([]float32, error)
	Close() error
}
