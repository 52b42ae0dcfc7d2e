package epdimg

import "fmt"

// ConfigError reports an unknown option, a value of the wrong type, or a
// missing required field. Configuration is validated before any file is
// opened, so a ConfigError guarantees that no font or image access took
// place.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: option %q: %s", e.Option, e.Reason)
}

// ResourceError reports an unreadable or malformed external resource,
// such as a font file that cannot be parsed or an image that cannot be
// decoded. The failure is a hard precondition failure and is never
// retried.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %q: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// LayoutError reports degenerate layout input: text that produces no
// lines, or computed canvas dimensions that are not positive. The
// generation call aborts rather than emitting a malformed zero-sized
// buffer.
type LayoutError struct {
	Reason string
}

func (e *LayoutError) Error() string {
	return "layout: " + e.Reason
}
