// Package toml provides machine-readable TOML output
package toml

import (
	"io"

	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// Renderer writes TOML documents. Results must encode to a table.
type Renderer struct {
	encoder *toml.Encoder
}

// New creates a new TOML renderer
func New(output io.Writer) (*Renderer, error) {
	encoder := toml.NewEncoder(output)
	encoder.SetIndentTables(true)
	return &Renderer{encoder: encoder}, nil
}

// RenderResult renders any result type as TOML
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

// RenderError renders an error and its code as TOML
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{
		"error": err.Error(),
		"code":  string(errors.GetErrorCode(err)),
	})
}

// RenderMessage renders a simple message as TOML
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
