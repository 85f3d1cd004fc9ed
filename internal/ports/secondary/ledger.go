// Package secondary defines the secondary ports (driven adapters) for the application.
package secondary

// Ledger is the persisted set of already-processed source identifiers.
// Each event source owns exactly one ledger instance; there is no
// cross-source sharing.
type Ledger interface {
	// Load reads the backing store into memory. A missing or corrupt
	// store is not an error: the ledger starts empty and the condition
	// is reported.
	Load() error

	// Contains reports whether the identifier has already been admitted.
	Contains(id string) bool

	// Admit records the identifier and persists the ledger synchronously.
	// Admitting a present identifier is a no-op. A persistence failure is
	// returned but leaves the in-memory set authoritative for this
	// process lifetime.
	Admit(id string) error

	// Len returns the number of admitted identifiers.
	Len() int
}
