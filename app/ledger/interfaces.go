package ledger

// Store is the de-duplication ledger consumed by the ingestion pipeline.
// Record and Trim report persistence failures but never lose the in-memory
// state for the current run.
type Store interface {
	Contains(url string) bool
	Record(url string) error
	Trim() error
	Len() int
}

var (
	_ Store = (*FileLedger)(nil)
	_ Store = (*MemoryLedger)(nil)
)
