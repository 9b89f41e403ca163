// Package embeddings turns text into fixed-length unit vectors via
// interchangeable providers (local ONNX, Ollama daemon, OpenAI API).
package embeddings

import (
	"context"
	"errors"
	"math"
)

// Vector is a simple float32 slice wrapper.
type Vector []float32

// ErrModelNotLoaded is returned when a provider failed to initialize and
// the embedder handle is absent.
var ErrModelNotLoaded = errors.New("model not loaded")

// Embedder defines the embedding interface.
type Embedder interface {
	// Embed returns the unit-normalized embedding of text. Empty text is
	// a valid input and is forwarded to the model as-is.
	Embed(ctx context.Context, text string) (Vector, error)
	// Model returns the provider's model name.
	Model() string
	// Dimension returns the model's output dimensionality, or 0 if the
	// provider cannot know it before the first embed call.
	Dimension() int
}

// Norm returns the Euclidean norm of v.
func Norm(v Vector) float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return float32(math.Sqrt(sum))
}

// Normalize scales v in place to unit length and returns it.
// A zero vector is returned unchanged.
func Normalize(v Vector) Vector {
	n := Norm(v)
	if n == 0 {
		return v
	}
	for i := range v {
		v[i] /= n
	}
	return v
}

// CosineSimilarity returns the cosine of the angle between a and b,
// or 0 for empty or mismatched-length vectors.
func CosineSimilarity(a, b Vector) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
