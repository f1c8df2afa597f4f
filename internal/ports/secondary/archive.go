package secondary

import "context"

// ArchiveStore defines the secondary port for writing archive artifacts.
type ArchiveStore interface {
	// Write stores data under name, replacing any artifact of the same name,
	// and returns the artifact's path. A failed write leaves any previous
	// artifact of that name intact.
	Write(ctx context.Context, name string, data []byte) (string, error)
}
