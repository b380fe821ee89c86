package model

const (
	IndexStateFailed = 1
	IndexStateDone   = 2
)

// IndexState records the outcome of the best-effort chunk indexing step
// for a document, so failed documents can be re-indexed later.
type IndexState struct {
	DocID     string `json:"doc_id"`
	Status    int    `json:"status"`
	LastError string `json:"last_error"`
	Attempts  int    `json:"attempts"`
	Mtime     int64  `json:"mtime"`
}
