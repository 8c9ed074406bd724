package x12

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
)

// Segment is one tagged record from the EDI stream: a 2-3 character ID
// followed by ordered elements. Elements use X12 reference numbering, so
// Elem(1) is the first element after the segment ID.
type Segment struct {
	ID       string
	Elements []string
}

// Elem returns element i (1-based), or "" when the segment is shorter
// than i. Short segments are never an error.
func (s Segment) Elem(i int) string {
	if i < 1 || i > len(s.Elements) {
		return ""
	}
	return s.Elements[i-1]
}

// Source supplies decoded segments in stream order. Next returns io.EOF
// after the last segment.
type Source interface {
	Next() (Segment, error)
}

// ISA is fixed-width: the element separator is the byte at offset 3 and
// the segment terminator is the byte at offset 105.
const (
	isaMinLength         = 106
	isaElementSepOffset  = 3
	isaSegmentTermOffset = 105
	defaultElementSep    = '*'
	defaultSegmentTerm   = '~'
)

// Reader decodes an X12 envelope into segments. Delimiters are derived
// from the ISA header when present, otherwise the standard "*" and "~"
// are assumed.
type Reader struct {
	segments []Segment
	pos      int
}

// NewReader reads the full envelope from r and prepares segments for
// iteration. Claim files are small enough that buffering the whole
// envelope is fine.
func NewReader(r io.Reader) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading envelope: %w", err)
	}
	return newReaderFromBytes(data), nil
}

// Open opens an X12 file, transparently decompressing .gz input.
func Open(path string) (*Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var src io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		src = gz
	}

	r, err := NewReader(src)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f, nil
}

// Next returns the next segment, or io.EOF once the stream is exhausted.
func (r *Reader) Next() (Segment, error) {
	if r.pos >= len(r.segments) {
		return Segment{}, io.EOF
	}
	seg := r.segments[r.pos]
	r.pos++
	return seg, nil
}

func newReaderFromBytes(data []byte) *Reader {
	elemSep := byte(defaultElementSep)
	segTerm := byte(defaultSegmentTerm)

	trimmed := strings.TrimLeft(string(data), " \r\n\t")
	if strings.HasPrefix(trimmed, "ISA") && len(trimmed) >= isaMinLength {
		elemSep = trimmed[isaElementSepOffset]
		segTerm = trimmed[isaSegmentTermOffset]
	}

	var segments []Segment
	for _, raw := range strings.Split(trimmed, string(segTerm)) {
		raw = strings.Trim(raw, " \r\n\t")
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, string(elemSep))
		id := strings.TrimSpace(parts[0])
		if id == "" {
			continue
		}
		segments = append(segments, Segment{ID: id, Elements: parts[1:]})
	}

	return &Reader{segments: segments}
}
