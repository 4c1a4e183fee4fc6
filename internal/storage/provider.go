// Package storage writes generated SEO artifacts to a publish directory.
package storage

// Provider is the interface for artifact file operations.
type Provider interface {
	// Write atomically writes content to path (relative to root).
	// It reports whether the file changed.
	Write(path string, content []byte) (bool, error)
}
