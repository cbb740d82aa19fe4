package index

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	for name, want := range map[string]Metric{"l2": L2, "squared_l2": L2, "Euclidean": Euclidean, "angular": Cosine} {
		got, err := ParseMetric(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseMetric("hamming")
	assert.Error(t, err)
}

func TestMetric_Distance(t *testing.T) {
	a := []float32{0, 0}
	b := []float32{3, 4}
	assert.InDelta(t, 25, L2.Distance(a, 0, b, 0), 1e-5)
	assert.InDelta(t, 5, Euclidean.Distance(a, 0, b, 0), 1e-5)
	assert.InDelta(t, 0, Cosine.Distance([]float32{1, 0}, 0, []float32{2, 0}, 0), 1e-6)
	assert.InDelta(t, 1, Cosine.Distance([]float32{1, 0}, 0, []float32{0, 1}, 0), 1e-6)
	assert.InDelta(t, 2, Cosine.Distance([]float32{1, 1}, 0, []float32{-2, -2}, 0), 1e-5)
	assert.InDelta(t, 1-0.6, Cosine.Distance([]float32{1, 0}, 1, []float32{3, 4}, 5), 1e-6)
	assert.InDelta(t, 1, Cosine.Distance([]float32{0, 0}, 0, []float32{3, 4}, 0), 1e-6)

	assert.Equal(t, Euclidean, L2.Tree())
	assert.InDelta(t, 25, L2.Report(5), 1e-6)
	assert.InDelta(t, 5, Euclidean.Report(5), 1e-6)
}

func TestParams(t *testing.T) {
	p, err := ParseParams([]string{"M=32", "efSearch = 64", "base=1.5"})
	require.NoError(t, err)

	m, err := p.Int("M", 16)
	require.NoError(t, err)
	assert.Equal(t, 32, m)

	ef, err := p.Int("efSearch", 20)
	require.NoError(t, err)
	assert.Equal(t, 64, ef)

	def, err := p.Int("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, def)

	base, err := p.Float("base", 1.3)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, base, 1e-9)

	_, err = ParseParams([]string{"novalue"})
	assert.Error(t, err)

	_, err = Params{"M": "x"}.Int("M", 1)
	assert.Error(t, err)
	assert.Equal(t, []string{"M", "base", "efSearch"}, p.Keys())
}

func TestCodec_RoundTrip(t *testing.T) {
	ids := []int64{3, 1, 2}
	vecs := [][]float32{{0, 1.5}, {-2.25, 3.75}, {float32(math.Inf(1)), 0}}
	data, err := EncodeVectors(ids, vecs)
	require.NoError(t, err)

	gotIDs, gotVecs, err := DecodeVectors(data)
	require.NoError(t, err)
	assert.Equal(t, ids, gotIDs)
	assert.Equal(t, vecs, gotVecs)

	_, _, err = DecodeVectors(data[:len(data)-1])
	assert.Error(t, err)
	_, err = EncodeVectors([]int64{1}, nil)
	assert.Error(t, err)
}

func TestDecodeVectors_HugeHeader(t *testing.T) {
	for _, header := range [][2]uint32{
		{math.MaxUint32, math.MaxUint32},
		{1 << 30, 1 << 4},
		{0, math.MaxUint32},
	} {
		data := make([]byte, 64)
		binary.LittleEndian.PutUint32(data[0:4], header[0])
		binary.LittleEndian.PutUint32(data[4:8], header[1])
		_, _, err := DecodeVectors(data)
		assert.Error(t, err, "dim=%d n=%d", header[0], header[1])
	}
}

func TestTopK(t *testing.T) {
	top := NewTopK(3)
	assert.True(t, math.IsInf(float64(top.Worst()), 1))
	for pos, d := range []float32{5, 1, 4, 2, 3, 0.5} {
		top.Push(pos, d)
	}
	assert.True(t, top.Full())
	assert.Equal(t, float32(2), top.Worst())
	assert.Equal(t, []Candidate{{Pos: 5, Distance: 0.5}, {Pos: 1, Distance: 1}, {Pos: 3, Distance: 2}}, top.Sorted())
}

func TestRegistry(t *testing.T) {
	Register(Backend{Name: "test-null", New: func(Metric, int, Params) (Index, error) { return nil, nil }, Defaults: Params{"a": "1"}})
	b, err := Lookup("test-null")
	require.NoError(t, err)
	assert.Equal(t, "test-null", b.Label)
	assert.Equal(t, Params{"a": "2", "b": "3"}, b.Resolve(Params{"a": "2", "b": "3"}))

	_, err = Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.Panics(t, func() { Register(b) })
}
