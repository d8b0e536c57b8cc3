package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCollapseMarker  = "_VC_"
	DefaultPaletteSize     = 56
	DefaultMaxElementCount = 1 << 20
)

// Pipeline holds the offline processing options shared by the tools and the web server.
type Pipeline struct {
	// Mesh names containing this substring are material-collapsed.
	CollapseMarker string `yaml:"collapse_marker"`
	// Bone matrices resident per skinned draw call.
	PaletteSize int `yaml:"palette_size"`
	// Encoding of names inside animation streams.
	Encoding string `yaml:"encoding"`
	// Upper bound for any count read from an animation stream.
	MaxElementCount int `yaml:"max_element_count"`
	// Meshes that never go through collapsing still get a color channel.
	EnsureVertexColors bool `yaml:"ensure_vertex_colors"`
	// Record material names into part opaque data and optionally clear them.
	TagParts      bool `yaml:"tag_parts"`
	DropMaterials bool `yaml:"drop_materials"`
}

func DefaultPipeline() *Pipeline {
	return &Pipeline{
		CollapseMarker:     DefaultCollapseMarker,
		PaletteSize:        DefaultPaletteSize,
		Encoding:           EncodingUTF8,
		MaxElementCount:    DefaultMaxElementCount,
		EnsureVertexColors: true,
	}
}

// ParsePipeline reads yaml over the defaults, so missing keys keep default values.
func ParsePipeline(data []byte) (*Pipeline, error) {
	p := DefaultPipeline()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal pipeline config")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func LoadPipeline(path string) (*Pipeline, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read pipeline config %q", path)
	}
	return ParsePipeline(data)
}

func (p *Pipeline) Validate() error {
	if p.CollapseMarker == "" {
		return errors.Errorf("collapse_marker must not be empty")
	}
	if p.PaletteSize <= 0 {
		return errors.Errorf("palette_size must be positive, got %d", p.PaletteSize)
	}
	if p.MaxElementCount <= 0 {
		return errors.Errorf("max_element_count must be positive, got %d", p.MaxElementCount)
	}
	if _, err := LookupEncoding(p.Encoding); err != nil {
		return errors.Wrapf(err, "bad encoding")
	}
	return nil
}

// NameEncoding resolves the configured stream name encoding.
func (p *Pipeline) NameEncoding() (encoding.Encoding, error) {
	return LookupEncoding(p.Encoding)
}

func (p *Pipeline) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}
