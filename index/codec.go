package index

import (
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// EncodeVectors serializes ids and vectors as: dim(uint32), n(uint32), then
// for each item id(int64) followed by vec(float32[dim]), little endian.
func EncodeVectors(ids []int64, vectors [][]float32) ([]byte, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("index: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	out := make([]byte, 8, 8+len(ids)*(8+4*dim))
	binary.LittleEndian.PutUint32(out[0:4], uint32(dim))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(ids)))
	for i, id := range ids {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("index: inconsistent vector dims %d vs %d", len(vectors[i]), dim)
		}
		out = binary.LittleEndian.AppendUint64(out, uint64(id))
		for _, v := range vectors[i] {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out, nil
}

// DecodeVectors restores ids and vectors written by EncodeVectors.
func DecodeVectors(data []byte) ([]int64, [][]float32, error) {
	if len(data) < 8 {
		return nil, nil, errors.New("index: invalid data")
	}
	dim32 := binary.LittleEndian.Uint32(data[0:4])
	n32 := binary.LittleEndian.Uint32(data[4:8])
	item := 8 + 4*uint64(dim32)
	if uint64(n32) > uint64(len(data)-8)/item {
		return nil, nil, fmt.Errorf("index: truncated data: %d bytes for %d vectors of dim %d", len(data), n32, dim32)
	}
	dim, n := int(dim32), int(n32)
	off := 8
	ids := make([]int64, n)
	vecs := make([][]float32, n)
	for i := 0; i < n; i++ {
		ids[i] = int64(binary.LittleEndian.Uint64(data[off:]))
		off += 8
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vecs[i] = vec
	}
	return ids, vecs, nil
}

// SaveBinary writes m's binary form to path, creating parent directories.
func SaveBinary(path string, m encoding.BinaryMarshaler) error {
	data, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("index: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("index: write %s: %w", path, err)
	}
	return nil
}

// LoadBinary reads path into u.
func LoadBinary(path string, u encoding.BinaryUnmarshaler) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("index: read %s: %w", path, err)
	}
	return u.UnmarshalBinary(data)
}
