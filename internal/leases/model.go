package leases

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianworks/meridian/pkg/storage"
)

// StorageModelBuilder writes the underwriting inputs for an abstract to
// the blob store and returns the blob key. Downstream tooling picks the
// artifact up from there.
type StorageModelBuilder struct {
	store storage.System
}

// NewStorageModelBuilder creates a ModelBuilder backed by the blob store.
func NewStorageModelBuilder(store storage.System) *StorageModelBuilder {
	return &StorageModelBuilder{store: store}
}

// Build serializes the abstract and uploads it under models/.
func (b *StorageModelBuilder) Build(ctx context.Context, abstract *Abstract) (string, error) {
	data, err := json.MarshalIndent(abstract, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize model inputs: %w", err)
	}

	key := fmt.Sprintf("models/%s.json", uuid.NewString())
	err = b.store.Upload(ctx, key, bytes.NewReader(data), "application/json")
	if err != nil {
		return "", fmt.Errorf("upload model inputs: %w", err)
	}

	return key, nil
}
