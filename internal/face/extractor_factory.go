package face

import (
	"fmt"

	"github.com/thuso-software/veriface/internal/config"
	"github.com/thuso-software/veriface/internal/provider"
	"github.com/thuso-software/veriface/internal/provider/deepface"
	"github.com/thuso-software/veriface/internal/provider/mock"
)

// ExtractorType defines supported embedding extractor backends
type ExtractorType string

const (
	// ExtractorTypeDeepFace is the DeepFace HTTP extractor (the production backend)
	ExtractorTypeDeepFace ExtractorType = "deepface"
	// ExtractorTypeMock is the deterministic in-process extractor (dev/test)
	ExtractorTypeMock ExtractorType = "mock"
)

// NewExtractor creates an embedding extractor based on configuration.
//
// Environment variables:
//   - EXTRACTOR_TYPE: "deepface" or "mock" (default: "deepface")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5005")
func NewExtractor(cfg *config.Config) (provider.Extractor, error) {
	extractorType := ExtractorType(cfg.ExtractorType)

	switch extractorType {
	case ExtractorTypeMock:
		return mock.New(), nil

	case ExtractorTypeDeepFace, "":
		return newDeepFaceExtractor(cfg), nil

	default:
		return nil, fmt.Errorf("unknown extractor type: %s (supported: %s, %s)",
			cfg.ExtractorType, ExtractorTypeDeepFace, ExtractorTypeMock)
	}
}

func newDeepFaceExtractor(cfg *config.Config) provider.Extractor {
	deepfaceConfig := deepface.DefaultConfig()
	if cfg.DeepFaceURL != "" {
		deepfaceConfig.BaseURL = cfg.DeepFaceURL
	}

	return deepface.NewExtractor(deepfaceConfig)
}
