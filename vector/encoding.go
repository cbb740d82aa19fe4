package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// AppendEmbedding appends the BLOB form of vec to dst: little-endian IEEE 754
// float32 values with no length prefix. The dimension is len(blob)/4.
func AppendEmbedding(dst []byte, vec []float32) []byte {
	for _, v := range vec {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// EncodeEmbedding returns the BLOB stored in the embedding column for vec.
// An empty vector encodes to a nil BLOB.
func EncodeEmbedding(vec []float32) ([]byte, error) {
	if len(vec) == 0 {
		return nil, nil
	}
	return AppendEmbedding(make([]byte, 0, 4*len(vec)), vec), nil
}

// DecodeEmbedding reverses EncodeEmbedding.
func DecodeEmbedding(blob []byte) ([]float32, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("vector: embedding blob of %d bytes is not a float32 sequence", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}
