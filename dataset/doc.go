// Package dataset loads the vectors a benchmark indexes and queries: IDX
// files such as MNIST, TEXMEX fvecs/bvecs files, the SQLite vector store,
// a Postgres table, or seeded synthetic data.
package dataset
