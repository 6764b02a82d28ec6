package types

import "errors"

// Config holds backend selection and parameters for the save archive.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Compression is the zstd level used for stored payloads: one of
	// "fastest", "default", "better", "best". Empty means "default".
	Compression string `json:"compression,omitempty" yaml:"compression,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Supported compression levels.
const (
	CompressionFastest = "fastest"
	CompressionDefault = "default"
	CompressionBetter  = "better"
	CompressionBest    = "best"
)

// Config validation errors.
var (
	ErrBackendEmpty       = errors.New("backend must not be empty")
	ErrBackendUnknown     = errors.New("unknown backend")
	ErrCompressionUnknown = errors.New("unknown compression level")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

var knownCompression = map[string]bool{
	"":                 true,
	CompressionFastest: true,
	CompressionDefault: true,
	CompressionBetter:  true,
	CompressionBest:    true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownCompression[c.Compression] {
		return ErrCompressionUnknown
	}
	return nil
}
