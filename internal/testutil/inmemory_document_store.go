package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/invixio/invixio/internal/s3"
)

var _ s3.Service = (*InMemoryDocumentStore)(nil)

// InMemoryDocumentStore stands in for object storage. Keys are namespaced by
// document type the same way the real store prefixes them.
type InMemoryDocumentStore struct {
	mu         sync.RWMutex
	FailUpload bool
	FailDelete bool
	docs       map[string][]byte
}

func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docs: make(map[string][]byte),
	}
}

func storeKey(key string, docType s3.DocumentType) string {
	return fmt.Sprintf("%s/%s", docType, key)
}

func (s *InMemoryDocumentStore) UploadDocument(ctx context.Context, document *s3.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUpload {
		return fmt.Errorf("upload failed")
	}
	s.docs[storeKey(document.Key, document.Type)] = append([]byte(nil), document.Data...)
	return nil
}

func (s *InMemoryDocumentStore) GetPresignedUrl(ctx context.Context, key string, docType s3.DocumentType) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.docs[storeKey(key, docType)]; !ok {
		return "", fmt.Errorf("document %s not found", key)
	}
	return fmt.Sprintf("https://storage.test/%s/%s?signed=1", docType, key), nil
}

func (s *InMemoryDocumentStore) PublicUrl(key string, docType s3.DocumentType) (string, error) {
	return fmt.Sprintf("https://storage.test/%s/%s", docType, key), nil
}

func (s *InMemoryDocumentStore) DeleteDocument(ctx context.Context, key string, docType s3.DocumentType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailDelete {
		return fmt.Errorf("delete failed")
	}
	delete(s.docs, storeKey(key, docType))
	return nil
}

func (s *InMemoryDocumentStore) Exists(ctx context.Context, key string, docType s3.DocumentType) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[storeKey(key, docType)]
	return ok, nil
}

// Document returns the stored payload for assertions.
func (s *InMemoryDocumentStore) Document(key string, docType s3.DocumentType) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[storeKey(key, docType)]
	return data, ok
}

func (s *InMemoryDocumentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailUpload = false
	s.FailDelete = false
	s.docs = make(map[string][]byte)
}
