// Package record formats and parses fingerprint record lines.
//
// A record is one line of space-separated fields. The v2 layout is
//
//	CAPTURE ATIME CTIME MTIME MD5:<hex> SHA1:<hex> BINARY LINES BYTES PATH
//
// and v1 drops ATIME, CTIME and MTIME. The path is everything after the
// single space that follows BYTES, so it may itself contain spaces.
package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jamesainslie/fileprint/pkg/fileprint/types"
)

// Layout selects which timestamps a record line carries.
type Layout int

// Supported layouts. The zero value is not a valid layout.
const (
	V1 Layout = 1
	V2 Layout = 2
)

// Digest labels as they appear on the line.
const (
	md5Label  = "MD5:"
	sha1Label = "SHA1:"
)

// Hex digest lengths.
const (
	md5HexLen  = 32
	sha1HexLen = 40
)

var (
	// ErrInvalidLayout is returned for layout names other than v1 and v2.
	ErrInvalidLayout = errors.New("invalid record layout")

	// ErrMalformed is returned when a line does not match either layout.
	ErrMalformed = errors.New("malformed record")

	// ErrNoTimes is returned when converting a v1 record to v2.
	ErrNoTimes = errors.New("record has no file times")
)

// ParseLayout accepts "v1", "v2", "1" or "2", case-insensitively.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v1", "1":
		return V1, nil
	case "v2", "2":
		return V2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLayout, s)
	}
}

// String returns "v1" or "v2".
func (l Layout) String() string {
	switch l {
	case V1:
		return "v1"
	case V2:
		return "v2"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// Valid reports whether l is V1 or V2.
func (l Layout) Valid() bool {
	return l == V1 || l == V2
}

// Record is one fingerprint. Times are seconds since the Unix epoch.
// Atime, Ctime and Mtime are only meaningful for V2 records.
type Record struct {
	Layout Layout

	// Captured is when the fingerprint was taken.
	Captured uint64

	Atime uint64
	Ctime uint64
	Mtime uint64

	// MD5 and SHA1 are lowercase hex.
	MD5  string
	SHA1 string

	Census types.Census

	// Path is the path exactly as it was given on the command line.
	Path string
}

// Line renders the record in its layout, terminated by one newline.
func (r *Record) Line() string {
	return string(r.AppendLine(nil))
}

// AppendLine appends the rendered line to b.
func (r *Record) AppendLine(b []byte) []byte {
	b = strconv.AppendUint(b, r.Captured, 10)
	b = append(b, ' ')
	if r.Layout == V2 {
		for _, t := range []uint64{r.Atime, r.Ctime, r.Mtime} {
			b = strconv.AppendUint(b, t, 10)
			b = append(b, ' ')
		}
	}
	b = append(b, md5Label...)
	b = append(b, r.MD5...)
	b = append(b, ' ')
	b = append(b, sha1Label...)
	b = append(b, r.SHA1...)
	for _, n := range []uint64{r.Census.BinaryBytes, r.Census.Lines, r.Census.Bytes} {
		b = append(b, ' ')
		b = strconv.AppendUint(b, n, 10)
	}
	b = append(b, ' ')
	b = append(b, r.Path...)
	return append(b, '\n')
}

// Convert returns a copy of r in the given layout. Dropping times is always
// possible; a v1 record cannot be widened to v2 because its times are unknown.
func (r *Record) Convert(l Layout) (*Record, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLayout, int(l))
	}
	if r.Layout == V1 && l == V2 {
		return nil, fmt.Errorf("%w: %s", ErrNoTimes, r.Path)
	}

	out := *r
	out.Layout = l
	if l == V1 {
		out.Atime, out.Ctime, out.Mtime = 0, 0, 0
	}
	return &out, nil
}

// SameContent reports whether both digests and all three counters match.
func (r *Record) SameContent(o *Record) bool {
	return r.MD5 == o.MD5 && r.SHA1 == o.SHA1 && r.Census == o.Census
}

// Parse parses one record line. A single trailing newline is ignored; any
// other byte, including a carriage return, belongs to the path.
func Parse(line string) (*Record, error) {
	rest := strings.TrimSuffix(line, "\n")

	var ints []uint64
	var tok string
	for {
		var ok bool
		tok, rest, ok = strings.Cut(rest, " ")
		if !ok {
			return nil, fmt.Errorf("%w: no %s field", ErrMalformed, md5Label)
		}
		if strings.HasPrefix(tok, md5Label) {
			break
		}
		n, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad time %q", ErrMalformed, tok)
		}
		ints = append(ints, n)
		if len(ints) > 4 {
			return nil, fmt.Errorf("%w: too many times before %s", ErrMalformed, md5Label)
		}
	}

	rec := &Record{}
	switch len(ints) {
	case 1:
		rec.Layout = V1
		rec.Captured = ints[0]
	case 4:
		rec.Layout = V2
		rec.Captured, rec.Atime, rec.Ctime, rec.Mtime = ints[0], ints[1], ints[2], ints[3]
	default:
		return nil, fmt.Errorf("%w: %d times before %s", ErrMalformed, len(ints), md5Label)
	}

	md5hex, err := digestField(tok, md5Label, md5HexLen)
	if err != nil {
		return nil, err
	}
	rec.MD5 = md5hex

	tok, rest, _ = strings.Cut(rest, " ")
	sha1hex, err := digestField(tok, sha1Label, sha1HexLen)
	if err != nil {
		return nil, err
	}
	rec.SHA1 = sha1hex

	counters := make([]uint64, 3)
	for i := range counters {
		var ok bool
		tok, rest, ok = strings.Cut(rest, " ")
		if !ok {
			return nil, fmt.Errorf("%w: missing counters or path", ErrMalformed)
		}
		n, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad counter %q", ErrMalformed, tok)
		}
		counters[i] = n
	}
	rec.Census = types.Census{BinaryBytes: counters[0], Lines: counters[1], Bytes: counters[2]}

	if rest == "" {
		return nil, fmt.Errorf("%w: empty path", ErrMalformed)
	}
	rec.Path = rest

	return rec, nil
}

func digestField(tok, label string, size int) (string, error) {
	hex, ok := strings.CutPrefix(tok, label)
	if !ok {
		return "", fmt.Errorf("%w: expected %s, got %q", ErrMalformed, label, tok)
	}
	if len(hex) != size || !isLowerHex(hex) {
		return "", fmt.Errorf("%w: bad %s digest %q", ErrMalformed, strings.TrimSuffix(label, ":"), hex)
	}
	return hex, nil
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
