package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// IDX element type codes.
const (
	idxUbyte  = 0x08
	idxByte   = 0x09
	idxShort  = 0x0B
	idxInt    = 0x0C
	idxFloat  = 0x0D
	idxDouble = 0x0E
)

var idxSizes = map[byte]int{idxUbyte: 1, idxByte: 1, idxShort: 2, idxInt: 4, idxFloat: 4, idxDouble: 8}

// ReadIDX decodes an IDX file (big endian, as used by MNIST). The first
// dimension counts vectors and the remaining dimensions are flattened, so
// 60000x28x28 images become 60000 vectors of 784 values. A positive limit
// stops after limit vectors.
func ReadIDX(r io.Reader, limit int) ([][]float32, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("idx header: %w", err)
	}
	if magic[0] != 0 || magic[1] != 0 {
		return nil, errors.New("idx: bad magic number")
	}
	kind, ndims := magic[2], int(magic[3])
	size, ok := idxSizes[kind]
	if !ok {
		return nil, fmt.Errorf("idx: unsupported element type 0x%02x", kind)
	}
	if ndims == 0 {
		return nil, errors.New("idx: zero dimensions")
	}
	dims := make([]uint32, ndims)
	if err := binary.Read(r, binary.BigEndian, dims); err != nil {
		return nil, fmt.Errorf("idx dims: %w", err)
	}
	n := int(dims[0])
	dim := 1
	for _, d := range dims[1:] {
		dim *= int(d)
	}
	if limit > 0 && limit < n {
		n = limit
	}
	buf := make([]byte, dim*size)
	vecs := make([][]float32, n)
	for i := range vecs {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("idx: vector %d: %w", i, err)
		}
		vec := make([]float32, dim)
		for j := range vec {
			b := buf[j*size:]
			switch kind {
			case idxUbyte:
				vec[j] = float32(b[0])
			case idxByte:
				vec[j] = float32(int8(b[0]))
			case idxShort:
				vec[j] = float32(int16(binary.BigEndian.Uint16(b)))
			case idxInt:
				vec[j] = float32(int32(binary.BigEndian.Uint32(b)))
			case idxFloat:
				vec[j] = math.Float32frombits(binary.BigEndian.Uint32(b))
			case idxDouble:
				vec[j] = float32(math.Float64frombits(binary.BigEndian.Uint64(b)))
			}
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// WriteIDX encodes vectors as an IDX float32 matrix.
func WriteIDX(w io.Writer, vectors [][]float32) error {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	header := []byte{0, 0, idxFloat, 2}
	header = binary.BigEndian.AppendUint32(header, uint32(len(vectors)))
	header = binary.BigEndian.AppendUint32(header, uint32(dim))
	if _, err := w.Write(header); err != nil {
		return err
	}
	buf := make([]byte, 4*dim)
	for i, vec := range vectors {
		if len(vec) != dim {
			return fmt.Errorf("idx: vector %d has dim %d, want %d", i, len(vec), dim)
		}
		for j, v := range vec {
			binary.BigEndian.PutUint32(buf[4*j:], math.Float32bits(v))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
