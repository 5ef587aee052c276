package edgeio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var doc = EdgeDoc{
	Threshold: 0.1,
	NIn:       150,
	NOut:      4,
	Edges:     []float64{0.2, 0.5, 1.25, 4, 15},
}

func TestFloatsLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFloats(&buf, []float64{1.5, -2}))

	raw := buf.Bytes()
	require.Len(t, raw, 2*8)
	assert.Equal(t, 1.5, math.Float64frombits(binary.LittleEndian.Uint64(raw[0:8])))
	assert.Equal(t, -2.0, math.Float64frombits(binary.LittleEndian.Uint64(raw[8:16])))

	xs, err := ReadFloats(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2}, xs)
}

func TestReadFloatsTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFloats(&buf, []float64{1, 2, 3}))
	raw := buf.Bytes()

	_, err := ReadFloats(bytes.NewReader(raw[:len(raw)-3]))
	assert.Error(t, err)

	xs, err := ReadFloats(bytes.NewReader(raw[:8]))
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, xs)

	xs, err = ReadFloats(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, xs)
}

// A flat array written by any other tool decodes without a header.
func TestDecodeFlatArray(t *testing.T) {
	edges := []float64{0.4, 1, 2.5, 15}
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, edges))

	d, err := Decode(&buf, Binary)
	require.NoError(t, err)
	assert.Equal(t, edges, d.Edges)
	assert.Equal(t, 3, d.NOut)

	// a single edge is no binning
	buf.Reset()
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, []float64{1}))
	_, err = Decode(&buf, Binary)
	assert.Error(t, err)
}

func TestDocumentFormats(t *testing.T) {
	for _, f := range []Format{JSON, Msgpack} {
		t.Run(f.String(), func(t *testing.T) {
			in := doc
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, f, &in))
			out, err := Decode(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, &in, out)
		})
	}
}

func TestJSONFieldNames(t *testing.T) {
	in := doc
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, JSON, &in))
	for _, key := range []string{`"threshold"`, `"n_in"`, `"n_out"`, `"edges"`} {
		assert.Contains(t, buf.String(), key)
	}
}

func TestEncodeRejectsBadEdges(t *testing.T) {
	for name, d := range map[string]EdgeDoc{
		"too few":       {Edges: []float64{1}},
		"not sorted":    {Edges: []float64{0, 2, 1}},
		"inf":           {Edges: []float64{0, math.Inf(1)}},
		"count differs": {NOut: 3, Edges: []float64{0, 1, 2}},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, Encode(io.Discard, JSON, &d))
		})
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"edges.bin", "edges.json", "edges.msgpack"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			in := doc
			require.NoError(t, Save(path, &in))

			out, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, doc.Edges, out.Edges)
			assert.Equal(t, doc.NOut, out.NOut)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.bin"))
	assert.Error(t, err)
	assert.Error(t, Save(filepath.Join(dir, "edges.txt"), &EdgeDoc{Edges: []float64{0, 1}}))
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{
		"a.bin": Binary, "b.DAT": Binary, "c.json": JSON, "d.mp": Msgpack, "e.msgpack": Msgpack,
	} {
		got, err := FormatFor(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFor("noext")
	assert.Error(t, err)
}
