package config

// FakeStore is an in-memory Store for tests.
type FakeStore struct {
	// Cfg is the stored record when Found is true.
	Cfg   Config
	Found bool

	// Saves counts calls to Save.
	Saves int

	// LoadError and SaveError, if set, are returned by the respective calls.
	LoadError error
	SaveError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeStore creates a blank (first-run) store.
func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// Load returns the stored record.
func (f *FakeStore) Load() (Config, bool, error) {
	if f.LoadError != nil {
		return Config{}, false, f.LoadError
	}
	return f.Cfg, f.Found, nil
}

// Save records the config.
func (f *FakeStore) Save(cfg Config) error {
	if f.SaveError != nil {
		return f.SaveError
	}
	f.Cfg = cfg.Clamp()
	f.Found = true
	f.Saves++
	return nil
}

// Close marks the store as closed.
func (f *FakeStore) Close() error {
	f.Closed = true
	return nil
}
