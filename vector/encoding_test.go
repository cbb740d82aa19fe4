package vector

import (
	"bytes"
	"math"
	"testing"
)

func TestEmbedding_RoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		vec  []float32
	}{
		{name: "mnist pixels", vec: []float32{0, 255, 128, 3}},
		{name: "signed", vec: []float32{0, 1.5, -2.25, 3.75}},
		{name: "non finite", vec: []float32{float32(math.Inf(-1)), float32(math.Inf(1))}},
		{name: "single", vec: []float32{42}},
	} {
		blob, err := EncodeEmbedding(tc.vec)
		if err != nil {
			t.Fatalf("%s: encode: %v", tc.name, err)
		}
		if len(blob) != 4*len(tc.vec) {
			t.Fatalf("%s: blob length = %d, want %d", tc.name, len(blob), 4*len(tc.vec))
		}
		got, err := DecodeEmbedding(blob)
		if err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if len(got) != len(tc.vec) {
			t.Fatalf("%s: decoded dim = %d, want %d", tc.name, len(got), len(tc.vec))
		}
		for i := range tc.vec {
			if got[i] != tc.vec[i] {
				t.Fatalf("%s: decoded[%d] = %v, want %v", tc.name, i, got[i], tc.vec[i])
			}
		}
	}
}

func TestAppendEmbedding_ReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 16)
	first := AppendEmbedding(buf[:0], []float32{1, 2})
	want, _ := EncodeEmbedding([]float32{1, 2})
	if !bytes.Equal(first, want) {
		t.Fatalf("AppendEmbedding = %v, want %v", first, want)
	}
	second := AppendEmbedding(first[:0], []float32{3})
	if &second[0] != &buf[:1][0] {
		t.Fatalf("expected the buffer to be reused")
	}
	if got, _ := DecodeEmbedding(second); len(got) != 1 || got[0] != 3 {
		t.Fatalf("decoded reused buffer = %v", got)
	}
}

func TestEmbedding_Empty(t *testing.T) {
	blob, err := EncodeEmbedding(nil)
	if err != nil || blob != nil {
		t.Fatalf("EncodeEmbedding(nil) = %v, %v; want nil, nil", blob, err)
	}
	vec, err := DecodeEmbedding(nil)
	if err != nil || vec != nil {
		t.Fatalf("DecodeEmbedding(nil) = %v, %v; want nil, nil", vec, err)
	}
}

func TestDecodeEmbedding_BadLength(t *testing.T) {
	if _, err := DecodeEmbedding([]byte{1, 2, 3, 4, 5}); err == nil {
		t.Fatalf("expected error for a 5 byte blob")
	}
}
