package domain

import "time"

// IndexInfo describes a built or saved index.
type IndexInfo struct {
	// ID identifies the index build.
	ID string

	// Model is the embedding model used to build the index.
	Model string

	// Dimensions is the vector size.
	Dimensions int

	// Documents is the number of distinct documents indexed.
	Documents int

	// Chunks is the number of stored chunks.
	Chunks int

	// CreatedAt is when the index was built.
	CreatedAt time.Time
}
