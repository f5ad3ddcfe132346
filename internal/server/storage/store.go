// Package storage abstracts where uploaded profile images live: a local
// public directory or an S3-compatible bucket.
package storage

import (
	"context"
	"io"
)

// Store persists uploaded images and resolves their stored reference into a
// URL the client can fetch.
type Store interface {
	// Save writes the image under name and returns the reference to persist
	// alongside the user record.
	Save(ctx context.Context, name string, r io.Reader) (string, error)

	// Remove deletes a previously saved image. Removing an unknown or empty
	// reference is not an error.
	Remove(ctx context.Context, ref string) error

	// ResolveURL turns a stored reference into a fetchable URL.
	ResolveURL(ctx context.Context, ref string) (string, error)
}
