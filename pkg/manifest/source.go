package manifest

import (
	"fmt"
	"os"
)

// Source resolves manifest and module references to local file paths.
// IPFS-backed resolution is a collaborator; the pipeline only needs the
// resolved paths.
type Source interface {
	Resolve(ref string) (string, error)
}

// LocalSource resolves references as plain filesystem paths.
type LocalSource struct{}

func (LocalSource) Resolve(ref string) (string, error) {
	if _, err := os.Stat(ref); err != nil {
		return "", fmt.Errorf("resolve %s: %w", ref, err)
	}
	return ref, nil
}
