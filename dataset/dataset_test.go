package dataset

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/annbench/engine"
	"github.com/viant/annbench/vector"
)

func writeFile(t *testing.T, name string, data []byte, compress bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if compress {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write(data)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		data = buf.Bytes()
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func ubyteImages(n, rows, cols int) []byte {
	data := []byte{0, 0, 0x08, 3}
	for _, d := range []int{n, rows, cols} {
		data = binary.BigEndian.AppendUint32(data, uint32(d))
	}
	for i := 0; i < n*rows*cols; i++ {
		data = append(data, byte(i%256))
	}
	return data
}

func TestReadIDX_Ubyte(t *testing.T) {
	vecs, err := ReadIDX(bytes.NewReader(ubyteImages(3, 2, 2)), 0)
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, []float32{4, 5, 6, 7}, vecs[1])

	limited, err := ReadIDX(bytes.NewReader(ubyteImages(3, 2, 2)), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestReadIDX_Errors(t *testing.T) {
	_, err := ReadIDX(bytes.NewReader([]byte{1, 0, 8, 1}), 0)
	assert.Error(t, err)
	_, err = ReadIDX(bytes.NewReader([]byte{0, 0, 0x42, 1, 0, 0, 0, 1}), 0)
	assert.Error(t, err)
	truncated := ubyteImages(3, 2, 2)
	_, err = ReadIDX(bytes.NewReader(truncated[:len(truncated)-1]), 0)
	assert.Error(t, err)
}

func TestWriteReadIDX_Float(t *testing.T) {
	vecs := [][]float32{{0.5, -1}, {2, 3.25}}
	var buf bytes.Buffer
	require.NoError(t, WriteIDX(&buf, vecs))
	got, err := ReadIDX(&buf, 0)
	require.NoError(t, err)
	assert.Equal(t, vecs, got)
}

func TestTexmex(t *testing.T) {
	vecs := [][]float32{{1, 2, 3}, {4, 5, 6}}
	var buf bytes.Buffer
	require.NoError(t, WriteFvecs(&buf, vecs))
	got, err := ReadFvecs(bytes.NewReader(buf.Bytes()), 0)
	require.NoError(t, err)
	assert.Equal(t, vecs, got)

	got, err = ReadFvecs(bytes.NewReader(buf.Bytes()), 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	bvecs := []byte{2, 0, 0, 0, 7, 255, 2, 0, 0, 0, 0, 1}
	got, err = ReadBvecs(bytes.NewReader(bvecs), 0)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{7, 255}, {0, 1}}, got)

	_, err = ReadBvecs(bytes.NewReader(bvecs[:len(bvecs)-1]), 0)
	assert.Error(t, err)
	mixed := append(append([]byte{}, bvecs[:6]...), 1, 0, 0, 0, 9)
	_, err = ReadBvecs(bytes.NewReader(mixed), 0)
	assert.Error(t, err)
}

func TestLoad_Files(t *testing.T) {
	ctx := context.Background()
	plain := writeFile(t, "train-images-idx3-ubyte", ubyteImages(5, 28, 28), false)
	gz := writeFile(t, "train-images-idx3-ubyte.gz", ubyteImages(5, 28, 28), true)

	for _, path := range []string{plain, gz} {
		ds, err := Load(ctx, Config{Source: SourceIDX, Path: path, Limit: 4})
		require.NoError(t, err)
		assert.Equal(t, "train-images-idx3-ubyte", ds.Name)
		assert.Equal(t, 4, ds.Len())
		assert.Equal(t, 784, ds.Dim())
		assert.Equal(t, []int64{0, 1, 2, 3}, ds.IDs)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFvecs(&buf, [][]float32{{1, 1}, {2, 2}}))
	fv := writeFile(t, "sift_base.fvecs", buf.Bytes(), false)
	ds, err := Load(ctx, Config{Source: SourceFvecs, Path: fv, Name: "sift"})
	require.NoError(t, err)
	assert.Equal(t, "sift", ds.Name)
	assert.Equal(t, 2, ds.Len())
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	_, err := Load(ctx, Config{Source: "parquet"})
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, err = Load(ctx, Config{Source: SourceIDX})
	assert.Error(t, err)

	_, err = Load(ctx, Config{Source: SourceSynthetic, Count: 0, Dim: 3})
	assert.Error(t, err)

	_, err = Load(ctx, Config{Source: SourceIDX, Path: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestSynthetic(t *testing.T) {
	a, err := Load(context.Background(), Config{Source: SourceSynthetic, Count: 20, Dim: 4, Seed: 9})
	require.NoError(t, err)
	b := Synthetic("other", 20, 4, 9)
	assert.Equal(t, a.Vectors, b.Vectors)
	assert.Equal(t, "synthetic-20x4", a.Name)
	assert.NotEqual(t, a.Vectors, Synthetic("x", 20, 4, 10).Vectors)
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Dataset{Name: "empty"}).Validate())
	assert.Error(t, (&Dataset{IDs: []int64{1}, Vectors: [][]float32{{1}, {2}}}).Validate())
	assert.Error(t, (&Dataset{IDs: []int64{1, 2}, Vectors: [][]float32{{1}, {2, 3}}}).Validate())
	assert.Error(t, (&Dataset{IDs: []int64{1, 1}, Vectors: [][]float32{{1}, {2}}}).Validate())
	assert.Error(t, (&Dataset{IDs: []int64{1}, Vectors: [][]float32{{}}}).Validate())
	assert.NoError(t, (&Dataset{IDs: []int64{7, 3}, Vectors: [][]float32{{1}, {2}}}).Validate())
}

func TestSQLite_ImportLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vectors.sqlite")
	db, err := engine.Open(path)
	require.NoError(t, err)
	store, err := vector.NewSQLiteStore(db)
	require.NoError(t, err)

	src := Synthetic("toy", 25, 3, 1)
	n, err := Import(ctx, store, src, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, n)
	require.NoError(t, db.Close())

	ds, err := Load(ctx, Config{Source: SourceSQLite, Path: path, Name: "toy", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 20, ds.Len())
	assert.Equal(t, src.Vectors[:20], ds.Vectors)
	assert.Equal(t, src.IDs[:20], ds.IDs)

	_, err = Load(ctx, Config{Source: SourceSQLite, Path: path})
	assert.Error(t, err, "dataset name is required")
	_, err = Load(ctx, Config{Source: SourceSQLite, Path: path, Name: "missing"})
	assert.Error(t, err, "an unknown dataset has no vectors")
}

func TestPostgresQuery(t *testing.T) {
	query, args, err := postgresQuery(Config{Table: "public.mnist", Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, `SELECT id, "embedding" FROM "public"."mnist" ORDER BY id LIMIT $1`, query)
	assert.Equal(t, []any{100}, args)

	query, args, err = postgresQuery(Config{Table: "vecs", Column: "vec"})
	require.NoError(t, err)
	assert.Equal(t, `SELECT id, "vec" FROM "vecs" ORDER BY id`, query)
	assert.Empty(t, args)

	_, _, err = postgresQuery(Config{})
	assert.Error(t, err)

	_, err = Load(context.Background(), Config{Source: SourcePostgres, Table: "t"})
	assert.Error(t, err, "dsn is required")
}
