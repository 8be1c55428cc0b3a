// Package fieldio reads and writes scalar fields as whitespace separated
// text.
//
// The stream starts with the bounds and the sample counts:
//
//	minx miny minz maxx maxy maxz nx ny nz
//
// followed by nx*ny*nz sample values, x varying fastest.
package fieldio

import (
	"bufio"
	"io"
	"strconv"

	"github.com/aukilabs/gecko/geometry"
	"github.com/aukilabs/gecko/scalarfield"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	ErrTypeMalformedField = "malformed_field"
)

// ReadText reads a field from r.
//
// Errors from the field construction keep their scalarfield error type.
// Anything else wrong with the stream returns an error typed
// ErrTypeMalformedField tagged with the position of the offending token.
func ReadText(r io.Reader) (*scalarfield.Field[float32], error) {
	s := tokenScanner{Scanner: bufio.NewScanner(r)}
	s.Split(bufio.ScanWords)

	var bounds [6]float32
	for i := range bounds {
		v, err := s.float()
		if err != nil {
			return nil, err
		}
		bounds[i] = v
	}

	var counts [3]int
	for i := range counts {
		v, err := s.int()
		if err != nil {
			return nil, err
		}
		counts[i] = v
	}

	f, err := scalarfield.New(
		geometry.V3(bounds[0], bounds[1], bounds[2]),
		geometry.V3(bounds[3], bounds[4], bounds[5]),
		counts[0], counts[1], counts[2],
		float32(0),
	)
	if err != nil {
		return nil, err
	}

	data := f.Data()
	for i := range data {
		v, err := s.float()
		if err != nil {
			return nil, err
		}
		data[i] = v
	}

	if s.Scan() {
		return nil, s.malformed("unexpected trailing value", s.Text(), nil)
	}
	if err := s.Err(); err != nil {
		return nil, s.malformed("reading field failed", "", err)
	}
	return f, nil
}

// WriteText writes f to w in the format read by ReadText, one x row per line.
func WriteText(w io.Writer, f *scalarfield.Field[float32]) error {
	bw := bufio.NewWriter(w)

	var buf []byte
	for _, v := range f.Min() {
		buf = appendFloat(buf, v)
	}
	for _, v := range f.Max() {
		buf = appendFloat(buf, v)
	}
	for _, n := range f.Count() {
		buf = strconv.AppendInt(buf, int64(n), 10)
		buf = append(buf, ' ')
	}
	buf[len(buf)-1] = '\n'

	data := f.Data()
	for row := 0; row < len(data); row += f.XSize() {
		for _, v := range data[row : row+f.XSize()] {
			buf = appendFloat(buf, v)
		}
		buf[len(buf)-1] = '\n'

		if _, err := bw.Write(buf); err != nil {
			return errors.New("writing field failed").Wrap(err)
		}
		buf = buf[:0]
	}

	if err := bw.Flush(); err != nil {
		return errors.New("writing field failed").Wrap(err)
	}
	return nil
}

func appendFloat(buf []byte, v float32) []byte {
	buf = strconv.AppendFloat(buf, float64(v), 'g', -1, 32)
	return append(buf, ' ')
}

type tokenScanner struct {
	*bufio.Scanner
	pos int
}

func (s *tokenScanner) next() (string, error) {
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return "", s.malformed("reading field failed", "", err)
		}
		return "", s.malformed("unexpected end of field", "", nil)
	}
	s.pos++
	return s.Text(), nil
}

func (s *tokenScanner) float() (float32, error) {
	tok, err := s.next()
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, s.malformed("invalid number", tok, err)
	}
	return float32(v), nil
}

func (s *tokenScanner) int() (int, error) {
	tok, err := s.next()
	if err != nil {
		return 0, err
	}

	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, s.malformed("invalid sample count", tok, err)
	}
	return v, nil
}

func (s *tokenScanner) malformed(msg, value string, err error) error {
	e := errors.New(msg).
		WithType(ErrTypeMalformedField).
		WithTag("token", s.pos)
	if value != "" {
		e = e.WithTag("value", value)
	}
	if err != nil {
		return e.Wrap(err)
	}
	return e
}
