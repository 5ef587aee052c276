// Package edgeio persists bin-edge arrays.
//
// The binary layout is a flat array of little-endian IEEE-754 doubles with
// no header; the element count is the file size over 8.  JSON and msgpack
// documents carry the edges together with the merge summary.
package edgeio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ugorji/go/codec"
)

type Format int

const (
	Binary Format = iota
	JSON
	Msgpack
)

func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case JSON:
		return "json"
	case Msgpack:
		return "msgpack"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin", ".dat":
		return Binary, nil
	case ".json":
		return JSON, nil
	case ".msgpack", ".mp":
		return Msgpack, nil
	}
	return 0, fmt.Errorf("edgeio: no format for extension of %q", path)
}

type EdgeDoc struct {
	Threshold float64   `codec:"threshold"`
	NIn       int       `codec:"n_in"`
	NOut      int       `codec:"n_out"`
	Edges     []float64 `codec:"edges"`
}

func (d *EdgeDoc) check() error {
	if len(d.Edges) < 2 {
		return fmt.Errorf("edgeio: %d edges, need at least 2", len(d.Edges))
	}
	for i, e := range d.Edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return fmt.Errorf("edgeio: edge %d is not finite", i)
		}
		if i > 0 && e <= d.Edges[i-1] {
			return fmt.Errorf("edgeio: edges not strictly increasing at %d", i)
		}
	}
	if d.NOut == 0 {
		d.NOut = len(d.Edges) - 1
	}
	if d.NOut != len(d.Edges)-1 {
		return fmt.Errorf("edgeio: n_out %d does not match %d edges", d.NOut, len(d.Edges))
	}
	return nil
}

func WriteFloats(w io.Writer, xs []float64) error {
	return binary.Write(w, binary.LittleEndian, xs)
}

// ReadFloats reads doubles until EOF.  A trailing partial value is an error.
func ReadFloats(r io.Reader) ([]float64, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("edgeio: %d bytes is not a whole number of float64 values", len(raw))
	}
	xs := make([]float64, len(raw)/8)
	for i := range xs {
		xs[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
	}
	return xs, nil
}

func handle(f Format) (codec.Handle, error) {
	switch f {
	case JSON:
		return new(codec.JsonHandle), nil
	case Msgpack:
		return new(codec.MsgpackHandle), nil
	}
	return nil, fmt.Errorf("edgeio: %v is not a document format", f)
}

// Encode writes d in format f.  The binary format keeps only the edges, so
// a document decoded from it has zero Threshold and NIn.
func Encode(w io.Writer, f Format, d *EdgeDoc) error {
	if err := d.check(); err != nil {
		return err
	}
	if f == Binary {
		return WriteFloats(w, d.Edges)
	}
	h, err := handle(f)
	if err != nil {
		return err
	}
	return codec.NewEncoder(w, h).Encode(d)
}

func Decode(r io.Reader, f Format) (*EdgeDoc, error) {
	d := &EdgeDoc{}
	if f == Binary {
		edges, err := ReadFloats(r)
		if err != nil {
			return nil, err
		}
		d.Edges = edges
	} else {
		h, err := handle(f)
		if err != nil {
			return nil, err
		}
		if err := codec.NewDecoder(r, h).Decode(d); err != nil {
			return nil, fmt.Errorf("edgeio: decoding %v: %w", f, err)
		}
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return d, nil
}

func Save(path string, d *EdgeDoc) (err error) {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(file)
	if err = Encode(w, f, d); err != nil {
		return err
	}
	return w.Flush()
}

func Load(path string) (*EdgeDoc, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	d, err := Decode(bufio.NewReader(file), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
