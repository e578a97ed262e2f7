package provider

import "context"

// Extractor define a interface para extratores de embeddings faciais
type Extractor interface {
	// ExtractFaces finds faces in an encoded image and returns one entry per
	// detected face, each carrying a fixed-dimension embedding. An image with
	// no detectable face yields an empty slice, not an error; errors are
	// reserved for the extractor itself failing.
	ExtractFaces(ctx context.Context, image []byte) ([]Face, error)
}

// Face is one face found in an image together with its embedding.
type Face struct {
	Embedding   []float64   `json:"-"`
	BoundingBox BoundingBox `json:"bounding_box"`
	Confidence  float64     `json:"confidence"`
}

// BoundingBox represents the face area in the image
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the box area in square pixels.
func (b BoundingBox) Area() float64 {
	return b.Width * b.Height
}

// PrimaryFace selects the face to use when an image contains several.
// Extractors do not guarantee any ordering, so the largest bounding box
// wins; with no box metadata the first entry is used.
func PrimaryFace(faces []Face) Face {
	best := faces[0]
	for _, f := range faces[1:] {
		if f.BoundingBox.Area() > best.BoundingBox.Area() {
			best = f
		}
	}
	return best
}
