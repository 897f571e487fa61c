package classfile

import "errors"

var (
	// ErrClassNotFound means the class space has no definition for a name.
	ErrClassNotFound = errors.New("class not found")

	// ErrLoadFailed means a translator rejected the class; it stays unavailable.
	ErrLoadFailed = errors.New("class load failed")

	// ErrStub is what stock SDK bodies fail with, like android.jar's
	// RuntimeException("Stub!").
	ErrStub = errors.New("Stub!")

	// ErrNoBody means the member has no executable body (abstract, or
	// native with no implementation linked).
	ErrNoBody = errors.New("member has no body")

	// ErrNotInstantiable is returned by New for interfaces and abstract classes.
	ErrNotInstantiable = errors.New("class not instantiable")

	// ErrNoSuchMethod means no member matched a name and argument list.
	ErrNoSuchMethod = errors.New("no such method")
)
