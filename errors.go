package cacheprovider

import (
	"errors"
	"fmt"
)

// Error taxonomy. Sentinels are wrapped with call context and matched with
// errors.Is. Note what is deliberately NOT here: "key not found" is a
// normal return value, never an error.
var (
	// ErrInvalidArgument reports a malformed call: empty key, empty or
	// non-compiling pattern, or a nil value where a value is required.
	ErrInvalidArgument = errors.New("cacheprovider: invalid argument")

	// ErrFileNotFound reports a dependency file that does not exist at
	// call time.
	ErrFileNotFound = errors.New("cacheprovider: dependency file not found")

	// ErrTypeMismatch reports a typed lookup against a stored value of an
	// incompatible type.
	ErrTypeMismatch = errors.New("cacheprovider: type mismatch")
)

// checkKey rejects empty keys before any store interaction.
func checkKey(op, key string) error {
	if key == "" {
		return fmt.Errorf("%s: %w: empty key", op, ErrInvalidArgument)
	}
	return nil
}

func fmtInvalidTTL(key string) error {
	return fmt.Errorf("set %q: %w: negative ttl", key, ErrInvalidArgument)
}
