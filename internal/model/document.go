package model

// Document is the primary record of an ingested case file. The raw bytes
// live in the content-addressed blob store under OriginPointer; the row
// here only carries metadata.
type Document struct {
	ID            string            `json:"id"`
	OwnerID       string            `json:"owner_id"`
	Filename      string            `json:"filename"`
	OriginPointer string            `json:"origin_pointer"`
	LedgerReceipt string            `json:"ledger_receipt,omitempty"`
	Metadata      map[string]string `json:"metadata"`
	Ctime         int64             `json:"ctime"`
}
