package deepface

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/thuso-software/veriface/internal/provider"
)

// Extractor implements provider.Extractor using the DeepFace API
type Extractor struct {
	client *Client
}

// NewExtractor creates a new DeepFace extractor
func NewExtractor(config Config) *Extractor {
	return &Extractor{
		client: NewClient(config),
	}
}

// ExtractFaces sends the image to /represent and maps each detected face to
// a provider.Face. No faces in the response is not an error; the caller
// decides what an empty result means for its pipeline.
func (e *Extractor) ExtractFaces(ctx context.Context, image []byte) ([]provider.Face, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := e.client.Represent(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("extract faces: %w", err)
	}

	faces := make([]provider.Face, 0, len(resp.Results))
	for _, result := range resp.Results {
		faces = append(faces, provider.Face{
			Embedding: result.Embedding,
			BoundingBox: provider.BoundingBox{
				X:      float64(result.FacialArea.X),
				Y:      float64(result.FacialArea.Y),
				Width:  float64(result.FacialArea.W),
				Height: float64(result.FacialArea.H),
			},
			Confidence: result.Confidence,
		})
	}

	return faces, nil
}

// Ensure Extractor implements provider.Extractor
var _ provider.Extractor = (*Extractor)(nil)
