package hookless

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is a package-level validator instance, shared across Config
// values rather than constructed per call.
var validate = validator.New()

// Config holds the Task tunables: the read-phase buffer size, the
// write-phase buffer cap, and the container-delegated timeout. Validated
// with go-playground/validator, the same library an application would use
// to validate its own request structs.
type Config struct {
	// ReadBufferSize is the reusable read buffer's size in bytes.
	ReadBufferSize int `validate:"gte=1"`

	// WriteBufferCap bounds the reusable write buffer's size in bytes,
	// sized to the body if smaller.
	WriteBufferCap int `validate:"gte=1"`

	// Timeout is the upper bound on a Task's lifetime, delegated to the
	// container.
	Timeout time.Duration `validate:"gt=0"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		ReadBufferSize: 128,
		WriteBufferCap: 4096,
		Timeout:        30 * time.Second,
	}
}

// Validate fails fast on an invalid Config, mirroring the fail-fast setter
// philosophy used elsewhere in this package (response.go).
func (c Config) Validate() error {
	return validate.Struct(c)
}
