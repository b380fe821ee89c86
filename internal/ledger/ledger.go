package ledger

import "context"

// Writer anchors an ingestion payload in the tamper-evident provenance
// ledger and returns a receipt id. Implementations own retries and
// timeouts; callers treat anchoring as best-effort.
type Writer interface {
	Write(ctx context.Context, owner string, payload string) (string, error)
}
