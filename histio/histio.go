// Package histio loads histograms for the bin merger from JSON documents,
// YODA files or raw per-event decay times.
package histio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ugorji/go/codec"
	"go-hep.org/x/hep/hbook"

	"github.com/lhcb-b2dsk/timeacc/binmerge"
)

// Doc is the JSON form of a histogram.  A missing error array means
// Poisson errors.
type Doc struct {
	Edges   []float64 `codec:"edges"`
	Content []float64 `codec:"content"`
	Error   []float64 `codec:"error,omitempty"`
}

func (d Doc) Histogram() (binmerge.Histogram, error) {
	h := binmerge.Histogram{
		Edges:   d.Edges,
		Content: d.Content,
		Error:   d.Error,
	}
	if len(h.Error) == 0 {
		h.Error = binmerge.PoissonErrors(h.Content)
	}
	return h, h.Validate()
}

func DecodeJSON(r io.Reader) (binmerge.Histogram, error) {
	var d Doc
	if err := codec.NewDecoder(r, new(codec.JsonHandle)).Decode(&d); err != nil {
		return binmerge.Histogram{}, fmt.Errorf("histio: decoding json: %w", err)
	}
	return d.Histogram()
}

func EncodeJSON(w io.Writer, h binmerge.Histogram) error {
	d := Doc{Edges: h.Edges, Content: h.Content, Error: h.Error}
	return codec.NewEncoder(w, new(codec.JsonHandle)).Encode(&d)
}

// FromH1D takes the sum of weights as content and sqrt(sum of squared
// weights) as error.  Under- and overflow are dropped.
func FromH1D(h1 *hbook.H1D) binmerge.Histogram {
	bins := h1.Binning.Bins
	h := binmerge.Histogram{
		Edges:   make([]float64, len(bins)+1),
		Content: make([]float64, len(bins)),
		Error:   make([]float64, len(bins)),
	}
	for i, bin := range bins {
		h.Edges[i] = bin.XMin()
		h.Content[i] = bin.SumW()
		h.Error[i] = math.Sqrt(bin.SumW2())
	}
	if len(bins) > 0 {
		h.Edges[len(bins)] = bins[len(bins)-1].XMax()
	}
	return h
}

func ReadYODA(r io.Reader) (binmerge.Histogram, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return binmerge.Histogram{}, err
	}
	var h1 hbook.H1D
	if err := h1.UnmarshalYODA(raw); err != nil {
		return binmerge.Histogram{}, fmt.Errorf("histio: decoding yoda: %w", err)
	}
	h := FromH1D(&h1)
	return h, h.Validate()
}

// Binning describes the fixed-width histogram that raw events are filled
// into.
type Binning struct {
	Bins int     `mapstructure:"bins"`
	Min  float64 `mapstructure:"min"`
	Max  float64 `mapstructure:"max"`
}

func (b Binning) validate() error {
	if b.Bins < 1 {
		return fmt.Errorf("histio: need at least one bin, got %d", b.Bins)
	}
	if !(b.Max > b.Min) {
		return fmt.Errorf("histio: empty range [%v, %v)", b.Min, b.Max)
	}
	return nil
}

// ReadEvents fills a histogram from CSV lines of "time" or "time,weight".
// Blank lines and lines starting with '#' are skipped.
func ReadEvents(r io.Reader, b Binning) (binmerge.Histogram, error) {
	if err := b.validate(); err != nil {
		return binmerge.Histogram{}, err
	}
	h1 := hbook.NewH1D(b.Bins, b.Min, b.Max)

	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return binmerge.Histogram{}, fmt.Errorf("histio: %w", err)
		}
		if len(rec) == 0 || len(rec) > 2 {
			return binmerge.Histogram{}, fmt.Errorf("histio: record %d: want 1 or 2 fields, got %d", n, len(rec))
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			return binmerge.Histogram{}, fmt.Errorf("histio: record %d: %w", n, err)
		}
		w := 1.0
		if len(rec) == 2 {
			if w, err = strconv.ParseFloat(strings.TrimSpace(rec[1]), 64); err != nil {
				return binmerge.Histogram{}, fmt.Errorf("histio: record %d: %w", n, err)
			}
		}
		h1.Fill(t, w)
	}
	h := FromH1D(h1)
	return h, h.Validate()
}

// Load dispatches on the extension: .json, .yoda, or .csv/.txt for raw
// events (which need b).
func Load(path string, b Binning) (binmerge.Histogram, error) {
	f, err := os.Open(path)
	if err != nil {
		return binmerge.Histogram{}, err
	}
	defer f.Close()

	var h binmerge.Histogram
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		h, err = DecodeJSON(f)
	case ".yoda":
		h, err = ReadYODA(f)
	case ".csv", ".txt":
		h, err = ReadEvents(f, b)
	default:
		err = fmt.Errorf("histio: unsupported extension %q", ext)
	}
	if err != nil {
		return binmerge.Histogram{}, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}
