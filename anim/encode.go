package anim

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"

	"github.com/mogaika/skinpack/config"
	"github.com/mogaika/skinpack/utils"
)

// Encoder writes animation streams. The zero value writes UTF-8 names.
type Encoder struct {
	Encoding encoding.Encoding
}

func NewEncoder(p *config.Pipeline) (*Encoder, error) {
	enc, err := p.NameEncoding()
	if err != nil {
		return nil, err
	}
	return &Encoder{Encoding: enc}, nil
}

// Encode writes the set with the zero Encoder. Decode(Encode(s)) reproduces s.
func Encode(w io.Writer, s *Set) error {
	return (&Encoder{}).Encode(w, s)
}

// EncodeAnimation writes a set containing only a with the zero Encoder.
func EncodeAnimation(w io.Writer, a *Animation) error {
	return (&Encoder{}).EncodeAnimation(w, a)
}

// Encode writes the set in stream order.
func (e *Encoder) Encode(w io.Writer, s *Set) error {
	bw := bufio.NewWriter(w)
	sw := utils.NewStreamWriter(bw)
	sw.Encoding = e.Encoding

	animations := s.Animations()
	sw.WriteLI32(int32(len(animations)))
	for _, a := range animations {
		sw.WritePrefixedString(a.Name)
		sw.WriteLI32(int32(len(a.Channels)))
		for _, c := range a.Channels {
			sw.WritePrefixedString(c.Bone)
			sw.WriteLI32(int32(len(c.Keyframes)))
			for _, kf := range c.Keyframes {
				for _, f := range RowMajor(kf.Transform) {
					sw.WriteLF(f)
				}
				sw.WriteLI64(kf.Time)
			}
		}
		if sw.Err() != nil {
			return errors.Wrapf(sw.Err(), "Failed to encode animation %q", a.Name)
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrapf(err, "Failed to flush animation stream")
	}
	return nil
}

func (e *Encoder) EncodeAnimation(w io.Writer, a *Animation) error {
	s := NewSet()
	s.Add(a)
	return e.Encode(w, s)
}
