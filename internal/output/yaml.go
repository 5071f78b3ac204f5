package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spiffcs/maintkit/internal/model"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats reviews as a YAML list.
type YAMLFormatter struct{}

// Format writes one mapping per review.
func (f *YAMLFormatter) Format(_ string, reviews []model.Review, w io.Writer) error {
	if reviews == nil {
		reviews = []model.Review{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reviews); err != nil {
		return fmt.Errorf("failed to encode reviews as YAML: %w", err)
	}
	return enc.Close()
}

// JSONFormatter formats reviews as a JSON array.
type JSONFormatter struct {
	Pretty bool
}

// Format writes the reviews array.
func (f *JSONFormatter) Format(_ string, reviews []model.Review, w io.Writer) error {
	if reviews == nil {
		reviews = []model.Review{}
	}
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(reviews)
}
