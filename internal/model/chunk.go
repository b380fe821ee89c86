package model

// Chunk is the unit of retrieval: a bounded slice of a document's text.
// ChunkID is doc_id plus a sequence index and is unique per document.
type Chunk struct {
	ChunkID       string `json:"chunk_id"`
	DocID         string `json:"doc_id"`
	Filename      string `json:"filename"`
	OriginPointer string `json:"origin_pointer"`
	Text          string `json:"text"`
}
