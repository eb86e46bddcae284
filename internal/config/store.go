package config

// Store persists the single Config record.
type Store interface {
	// Load returns the stored record. found is false on a blank store
	// (first run); the caller substitutes Default() and persists it.
	Load() (cfg Config, found bool, err error)

	// Save writes the record, clamping out-of-range fields.
	Save(cfg Config) error

	// Close releases the underlying medium.
	Close() error
}
