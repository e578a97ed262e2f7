package mock

import (
	"bytes"
	"context"
	"crypto/sha256"
	"math"

	"github.com/thuso-software/veriface/internal/domain"
	"github.com/thuso-software/veriface/internal/provider"
)

const embeddingDimension = 128

// NoFacePrefix marks an image the mock should treat as containing no face.
// Useful for exercising the no-face pipeline in dev environments.
var NoFacePrefix = []byte("noface:")

// Extractor implementa provider.Extractor para testes e desenvolvimento
type Extractor struct{}

// New cria uma nova instância do mock
func New() *Extractor {
	return &Extractor{}
}

// ExtractFaces returns a single face whose embedding is derived
// deterministically from the image bytes: identical images always produce
// identical embeddings, so same-image comparisons score 100.
func (e *Extractor) ExtractFaces(ctx context.Context, image []byte) ([]provider.Face, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidImage
	}

	if bytes.HasPrefix(image, NoFacePrefix) {
		return []provider.Face{}, nil
	}

	return []provider.Face{
		{
			Embedding: generateEmbedding(image),
			BoundingBox: provider.BoundingBox{
				X:      10,
				Y:      10,
				Width:  200,
				Height: 200,
			},
			Confidence: 0.99,
		},
	}, nil
}

// generateEmbedding gera embedding determinístico baseado no hash da imagem
func generateEmbedding(image []byte) []float64 {
	hash := sha256.Sum256(image)
	embedding := make([]float64, embeddingDimension)
	hashLen := len(hash)

	for i := 0; i < embeddingDimension; i++ {
		idx := i % hashLen
		embedding[i] = (float64(hash[idx])/255.0)*2 - 1
	}

	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	for i := range embedding {
		embedding[i] /= norm
	}

	return embedding
}

var _ provider.Extractor = (*Extractor)(nil)
