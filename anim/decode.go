package anim

import (
	"bufio"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"

	"github.com/mogaika/skinpack/config"
	"github.com/mogaika/skinpack/utils"
)

// Counts above this are not trusted for preallocation.
const preallocLimit = 4096

// Decoder reads animation streams. The zero value reads UTF-8 names and
// accepts any non-negative count.
type Decoder struct {
	// Upper bound for every count and string length in the stream, 0 for none.
	MaxElementCount int
	// Encoding of names, nil means UTF-8.
	Encoding encoding.Encoding
	Log      *utils.Logger
}

// NewDecoder applies the pipeline limit and name encoding.
func NewDecoder(p *config.Pipeline, log *utils.Logger) (*Decoder, error) {
	enc, err := p.NameEncoding()
	if err != nil {
		return nil, err
	}
	return &Decoder{MaxElementCount: p.MaxElementCount, Encoding: enc, Log: log}, nil
}

// Decode reads a whole animation set with the zero Decoder.
func Decode(r io.Reader) (*Set, error) {
	return (&Decoder{}).Decode(r)
}

// DecodeValidated is Decode followed by Validate.
func DecodeValidated(r io.Reader) (*Set, error) {
	return (&Decoder{}).DecodeValidated(r)
}

func (d *Decoder) DecodeValidated(r io.Reader) (*Set, error) {
	set, err := d.Decode(r)
	if err != nil {
		return nil, err
	}
	if err := Validate(set); err != nil {
		return nil, err
	}
	return set, nil
}

// Decode reads a whole animation set. Either the complete set or an error is returned.
func (d *Decoder) Decode(r io.Reader) (*Set, error) {
	if _, ok := r.(io.ByteReader); !ok {
		r = bufio.NewReader(r)
	}
	sr := utils.NewStreamReader(r)
	sr.Encoding = d.Encoding

	count, err := d.readCount(sr, "animation count")
	if err != nil {
		return nil, err
	}
	d.Log.Printf("stream has %d animations", count)

	set := NewSet()
	for i := 0; i < count; i++ {
		a, err := d.readAnimation(sr)
		if err != nil {
			return nil, err
		}
		if set.Add(a) {
			d.Log.Printf("animation %q defined twice, keeping the later one", a.Name)
		}
	}
	return set, nil
}

func (d *Decoder) maxElementCount() int {
	if d.MaxElementCount <= 0 {
		return math.MaxInt32
	}
	return d.MaxElementCount
}

func (d *Decoder) readAnimation(sr *utils.StreamReader) (*Animation, error) {
	name, err := d.readString(sr, "animation name")
	if err != nil {
		return nil, err
	}
	count, err := d.readCount(sr, "channel count")
	if err != nil {
		return nil, err
	}
	d.Log.Printf("animation %q: %d channels", name, count)

	a := &Animation{Name: name, Channels: make([]*Channel, 0, prealloc(count))}
	for i := 0; i < count; i++ {
		c, err := d.readChannel(sr)
		if err != nil {
			return nil, err
		}
		a.Channels = append(a.Channels, c)
	}
	return a, nil
}

func (d *Decoder) readChannel(sr *utils.StreamReader) (*Channel, error) {
	bone, err := d.readString(sr, "bone name")
	if err != nil {
		return nil, err
	}
	count, err := d.readCount(sr, "keyframe count")
	if err != nil {
		return nil, err
	}

	c := &Channel{Bone: bone, Keyframes: make([]Keyframe, 0, prealloc(count))}
	for i := 0; i < count; i++ {
		var kf Keyframe
		offset := sr.Pos()
		// row-major row-vector layout is the same memory as mgl32 column-major column-vector
		for j := range kf.Transform {
			if kf.Transform[j], err = sr.ReadLF(); err != nil {
				return nil, formatError(offset, "keyframe transform", err)
			}
		}
		offset = sr.Pos()
		if kf.Time, err = sr.ReadLI64(); err != nil {
			return nil, formatError(offset, "keyframe time", err)
		}
		c.Keyframes = append(c.Keyframes, kf)
	}
	return c, nil
}

func (d *Decoder) readCount(sr *utils.StreamReader, element string) (int, error) {
	offset := sr.Pos()
	v, err := sr.ReadLI32()
	if err != nil {
		return 0, formatError(offset, element, err)
	}
	if v < 0 {
		return 0, formatError(offset, element, errors.Errorf("negative count %d", v))
	}
	if int(v) > d.maxElementCount() {
		return 0, formatError(offset, element, errors.Errorf("count %d exceeds limit %d", v, d.maxElementCount()))
	}
	return int(v), nil
}

func (d *Decoder) readString(sr *utils.StreamReader, element string) (string, error) {
	offset := sr.Pos()
	s, err := sr.ReadPrefixedString(d.maxElementCount())
	if err != nil {
		return "", formatError(offset, element, err)
	}
	return s, nil
}

func formatError(offset int64, element string, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return &FormatError{Offset: offset, Element: element, Err: err}
}

func prealloc(count int) int {
	if count > preallocLimit {
		return preallocLimit
	}
	return count
}

// Mat4FromRowMajor builds a transform from 16 floats in the stream order.
func Mat4FromRowMajor(f [16]float32) mgl32.Mat4 {
	return mgl32.Mat4(f)
}

// RowMajor returns the transform in stream order.
func RowMajor(m mgl32.Mat4) [16]float32 {
	return [16]float32(m)
}
