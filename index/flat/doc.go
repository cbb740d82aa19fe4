// Package flat provides the exact reference index: every query is answered
// by scanning all vectors. It supports a compact binary format so a built
// index can be persisted and restored.
package flat
