package config

import (
	"fmt"
	"testing"
)

func TestParsePipelineDefaults(t *testing.T) {
	p, err := ParsePipeline([]byte("palette_size: 30\n"))
	if err != nil {
		t.Fatal(err)
	}
	if p.PaletteSize != 30 {
		t.Errorf("PaletteSize=%d; expected 30", p.PaletteSize)
	}
	if p.CollapseMarker != DefaultCollapseMarker {
		t.Errorf("CollapseMarker=%q; expected %q", p.CollapseMarker, DefaultCollapseMarker)
	}
	if p.MaxElementCount != DefaultMaxElementCount {
		t.Errorf("MaxElementCount=%d; expected %d", p.MaxElementCount, DefaultMaxElementCount)
	}
}

var invalidPipelines = []string{
	"palette_size: 0\n",
	"palette_size: -4\n",
	"collapse_marker: ''\n",
	"max_element_count: -1\n",
	"palette_size: [1, 2]\n",
}

func TestParsePipelineInvalid(t *testing.T) {
	for _, in := range invalidPipelines {
		if _, err := ParsePipeline([]byte(in)); err == nil {
			t.Errorf("ParsePipeline(%q) returned no error", in)
		}
	}
}

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"", "utf8", EncodingUTF8, "Windows 1252"} {
		if _, err := LookupEncoding(name); err != nil {
			t.Errorf("LookupEncoding(%q) error: %v", name, err)
		}
	}
	if _, err := LookupEncoding("no such thing"); err == nil {
		t.Errorf("LookupEncoding of unknown name returned no error")
	}

	for _, name := range ListEncodings() {
		if _, err := LookupEncoding(name); err != nil {
			t.Errorf("listed encoding %q cannot be looked up: %v", name, err)
		}
	}
}

func TestPipelineNameEncoding(t *testing.T) {
	p, err := ParsePipeline([]byte("encoding: Windows 1252\n"))
	if err != nil {
		t.Fatal(err)
	}
	enc, err := p.NameEncoding()
	if err != nil {
		t.Fatal(err)
	}
	if enc.(fmt.Stringer).String() != "Windows 1252" {
		t.Errorf("NameEncoding()=%v; expected Windows 1252", enc)
	}
	if _, err := ParsePipeline([]byte("encoding: KOI9\n")); err == nil {
		t.Errorf("ParsePipeline with unknown encoding returned no error")
	}
}
