package storage

import "io"

// BlobStore keeps uploaded gradebook and submission-ZIP bytes. Exports
// re-read the original file from here, so whatever was uploaded must come
// back byte-for-byte.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}
