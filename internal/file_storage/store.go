package filestorage

import (
	"context"
	"io"
)

// Blob is a payload to be written to the object store.
type Blob struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Locator points at a stored blob. Handle is what Delete takes.
type Locator struct {
	URL    string `json:"url"`
	Handle string `json:"handle"`
}

// ObjectStore is the only way the rest of the app reaches blob storage.
//
// Put either returns a retrievable locator or leaves nothing behind. Errors
// wrap errs.ErrStoreUnavailable or errs.ErrUploadRejected.
// Delete of an absent handle is not an error.
type ObjectStore interface {
	Put(ctx context.Context, blob Blob, folder string) (Locator, error)
	Delete(ctx context.Context, handle string) error
}
