package utils

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

// Max bytes of a 7-bit encoded int32 length prefix.
const max7BitLengthBytes = 5

// Longer strings are read without trusting the length for allocation.
const stringPreallocLimit = 4096

var ErrBad7BitLength = errors.New("bad 7-bit encoded length")

// StreamReader reads little-endian values sequentially and tracks the absolute position.
// Short reads surface as io.ErrUnexpectedEOF (or io.EOF when nothing at all was read).
type StreamReader struct {
	// Encoding of prefixed strings, nil means UTF-8.
	Encoding encoding.Encoding

	r   io.Reader
	pos int64
	buf [8]byte
}

func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r}
}

func (sr *StreamReader) Pos() int64 {
	return sr.pos
}

func (sr *StreamReader) ReadFull(p []byte) error {
	n, err := io.ReadFull(sr.r, p)
	sr.pos += int64(n)
	return err
}

func (sr *StreamReader) ReadLU32() (uint32, error) {
	if err := sr.ReadFull(sr.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(sr.buf[:4]), nil
}

func (sr *StreamReader) ReadLI32() (int32, error) {
	v, err := sr.ReadLU32()
	return int32(v), err
}

func (sr *StreamReader) ReadLU64() (uint64, error) {
	if err := sr.ReadFull(sr.buf[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(sr.buf[:8]), nil
}

func (sr *StreamReader) ReadLI64() (int64, error) {
	v, err := sr.ReadLU64()
	return int64(v), err
}

func (sr *StreamReader) ReadLF() (float32, error) {
	v, err := sr.ReadLU32()
	return math.Float32frombits(v), err
}

func (sr *StreamReader) ReadByte() (byte, error) {
	if err := sr.ReadFull(sr.buf[:1]); err != nil {
		return 0, err
	}
	return sr.buf[0], nil
}

// Read7BitLength reads a BinaryWriter style length prefix:
// 7 bits per byte, low groups first, high bit set on every byte but the last.
func (sr *StreamReader) Read7BitLength() (int, error) {
	var result uint32
	for i := 0; i < max7BitLengthBytes; i++ {
		b, err := sr.ReadByte()
		if err != nil {
			return 0, err
		}
		if i == max7BitLengthBytes-1 && b > 0x07 {
			// fifth byte may only carry the top 4 bits of a non-negative int32
			return 0, ErrBad7BitLength
		}
		result |= uint32(b&0x7f) << (7 * uint(i))
		if b&0x80 == 0 {
			return int(result), nil
		}
	}
	return 0, ErrBad7BitLength
}

// ReadPrefixedString reads a length-prefixed string. limit bounds the byte length.
func (sr *StreamReader) ReadPrefixedString(limit int) (string, error) {
	l, err := sr.Read7BitLength()
	if err != nil {
		return "", err
	}
	if l > limit {
		return "", errors.Errorf("string length %d exceeds limit %d", l, limit)
	}
	var raw []byte
	if l <= stringPreallocLimit {
		raw = make([]byte, l)
		if err := sr.ReadFull(raw); err != nil {
			return "", err
		}
	} else {
		// grow with the data actually present, a bogus length must not allocate up front
		var buf bytes.Buffer
		n, err := io.CopyN(&buf, sr.r, int64(l))
		sr.pos += n
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return "", err
		}
		raw = buf.Bytes()
	}
	return DecodeString(sr.Encoding, raw)
}

// StreamWriter is the writing counterpart of StreamReader.
// The first write error sticks and every later write becomes a no-op.
type StreamWriter struct {
	// Encoding of prefixed strings, nil means UTF-8.
	Encoding encoding.Encoding

	w   io.Writer
	pos int64
	err error
	buf [max7BitLengthBytes + 3]byte
}

func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

func (sw *StreamWriter) Pos() int64 {
	return sw.pos
}

func (sw *StreamWriter) Err() error {
	return sw.err
}

func (sw *StreamWriter) Write(p []byte) {
	if sw.err != nil {
		return
	}
	n, err := sw.w.Write(p)
	sw.pos += int64(n)
	sw.err = err
}

func (sw *StreamWriter) WriteLU32(v uint32) {
	binary.LittleEndian.PutUint32(sw.buf[:4], v)
	sw.Write(sw.buf[:4])
}

func (sw *StreamWriter) WriteLI32(v int32) {
	sw.WriteLU32(uint32(v))
}

func (sw *StreamWriter) WriteLU64(v uint64) {
	binary.LittleEndian.PutUint64(sw.buf[:8], v)
	sw.Write(sw.buf[:8])
}

func (sw *StreamWriter) WriteLI64(v int64) {
	sw.WriteLU64(uint64(v))
}

func (sw *StreamWriter) WriteLF(v float32) {
	sw.WriteLU32(math.Float32bits(v))
}

func (sw *StreamWriter) Write7BitLength(l int) {
	if l < 0 || l > math.MaxInt32 {
		if sw.err == nil {
			sw.err = errors.Errorf("length %d out of int32 range", l)
		}
		return
	}
	v := uint32(l)
	n := 0
	for v >= 0x80 {
		sw.buf[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	sw.buf[n] = byte(v)
	sw.Write(sw.buf[:n+1])
}

func (sw *StreamWriter) WritePrefixedString(s string) {
	if sw.err != nil {
		return
	}
	raw, err := EncodeString(sw.Encoding, s)
	if err != nil {
		sw.err = err
		return
	}
	sw.Write7BitLength(len(raw))
	sw.Write(raw)
}
