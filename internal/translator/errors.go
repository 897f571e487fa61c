package translator

import "errors"

var (
	// ErrAlreadyRewritten is returned when a class reaches an engine a
	// second time. Rewriting again would wrap the forwarding bodies.
	ErrAlreadyRewritten = errors.New("class already rewritten")

	// ErrInvalidBody is returned when a generated listing does not parse.
	ErrInvalidBody = errors.New("invalid generated body")
)
