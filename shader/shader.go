package shader

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/pkg/errors"
)

const (
	PALETTE_NAME   = "MatrixPalette"
	TECHNIQUE_NAME = "TransformTechnique"
)

//go:embed fragments/*.fx
var fragments embed.FS

var effectTemplate = template.Must(template.ParseFS(fragments, "fragments/*.fx"))

// ConfigurationError reports generator input that cannot produce a valid effect.
type ConfigurationError struct {
	PaletteSize int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("shader: palette size must be positive, got %d", e.PaletteSize)
}

type effectParams struct {
	PaletteSize   int
	Technique     string
	VertexProfile string
	PixelProfile  string
}

// Generate returns the source of the matrix palette skinning effect with
// four influences per vertex. The palette array bound is the only part that
// depends on paletteSize.
func Generate(paletteSize int) (string, error) {
	if paletteSize <= 0 {
		return "", &ConfigurationError{PaletteSize: paletteSize}
	}

	var buf bytes.Buffer
	if err := effectTemplate.ExecuteTemplate(&buf, "effect.fx", &effectParams{
		PaletteSize:   paletteSize,
		Technique:     TECHNIQUE_NAME,
		VertexProfile: "vs_2_0",
		PixelProfile:  "ps_2_0",
	}); err != nil {
		return "", errors.Wrapf(err, "Failed to execute effect template")
	}
	return buf.String(), nil
}
