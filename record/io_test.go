package record

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(t *testing.T) *Record {
	t.Helper()
	r, err := Build(
		[][]float32{{0.0, 1.5, 2.0}},
		[][]int64{{0, 4, 7}},
		Meta{TotalSearchTimeSeconds: 3.0, BuildTimeSeconds: 1.0, IndexFileSizeBytes: 100},
	)
	require.NoError(t, err)
	return r
}

func TestEncode_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleRecord(t)))
	assert.JSONEq(t, `{"searchall":3,"searchtime":3,"buildtime":1,"results":[[[4,1.5],[7,2]]],"filesize":100}`, buf.String())
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("searchall")), bytes.Index(buf.Bytes(), []byte("filesize")))
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "mnist", "results.index.FlatL2.json")
	want := sampleRecord(t)
	require.NoError(t, WriteFile(path, want))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestQueryResult_UnmarshalJSON(t *testing.T) {
	var q QueryResult
	require.NoError(t, q.UnmarshalJSON([]byte(`[12, 0.25]`)))
	assert.Equal(t, QueryResult{NeighborID: 12, Distance: 0.25}, q)

	assert.Error(t, q.UnmarshalJSON([]byte(`[12]`)))
	assert.Error(t, q.UnmarshalJSON([]byte(`[1.5, 2]`)))
}

func TestValidate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleRecord(t)))
	require.NoError(t, Validate(buf.Bytes()))

	err := Validate([]byte(`{"searchall":1,"searchtime":1,"buildtime":0,"results":[[[1]]],"filesize":0}`))
	assert.ErrorIs(t, err, ErrSchema)

	err = Validate([]byte(`{"searchall":1,"results":[]}`))
	assert.ErrorIs(t, err, ErrSchema)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
