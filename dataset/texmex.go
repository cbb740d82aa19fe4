package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ReadFvecs decodes the TEXMEX fvecs format: per vector a little-endian
// int32 dimension followed by that many float32 values.
func ReadFvecs(r io.Reader, limit int) ([][]float32, error) {
	return readVecs(r, limit, 4, func(b []byte) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	})
}

// ReadBvecs decodes the TEXMEX bvecs format: per vector a little-endian
// int32 dimension followed by that many unsigned bytes.
func ReadBvecs(r io.Reader, limit int) ([][]float32, error) {
	return readVecs(r, limit, 1, func(b []byte) float32 { return float32(b[0]) })
}

func readVecs(r io.Reader, limit, size int, decode func([]byte) float32) ([][]float32, error) {
	var vecs [][]float32
	var head [4]byte
	var buf []byte
	for limit <= 0 || len(vecs) < limit {
		if _, err := io.ReadFull(r, head[:]); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("vecs: vector %d header: %w", len(vecs), err)
		}
		dim := int(int32(binary.LittleEndian.Uint32(head[:])))
		if dim <= 0 {
			return nil, fmt.Errorf("vecs: vector %d has invalid dim %d", len(vecs), dim)
		}
		if len(vecs) > 0 && dim != len(vecs[0]) {
			return nil, fmt.Errorf("vecs: vector %d has dim %d, want %d", len(vecs), dim, len(vecs[0]))
		}
		if cap(buf) < dim*size {
			buf = make([]byte, dim*size)
		}
		buf = buf[:dim*size]
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("vecs: vector %d: %w", len(vecs), err)
		}
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = decode(buf[j*size:])
		}
		vecs = append(vecs, vec)
	}
	return vecs, nil
}

// WriteFvecs encodes vectors in the fvecs format.
func WriteFvecs(w io.Writer, vectors [][]float32) error {
	for _, vec := range vectors {
		buf := binary.LittleEndian.AppendUint32(make([]byte, 0, 4+4*len(vec)), uint32(len(vec)))
		for _, v := range vec {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
