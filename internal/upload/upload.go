// Package upload validates vendor files and stores them in object storage.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/apperr"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/logger"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	KindRegistrationDocs = "registration-docs"
	KindPitchDecks       = "pitch-decks"
	KindProductImages    = "product-images"

	mb = 1 << 20
)

// Kind is a bucket prefix with its accepted content.
type Kind struct {
	Name     string
	MaxBytes int64
	// Types maps accepted sniffed content types to file extensions.
	Types map[string]string
}

var kinds = map[string]Kind{
	KindRegistrationDocs: {KindRegistrationDocs, 10 * mb, map[string]string{"application/pdf": ".pdf"}},
	KindPitchDecks:       {KindPitchDecks, 10 * mb, map[string]string{"application/pdf": ".pdf"}},
	KindProductImages: {KindProductImages, 2 * mb, map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	}},
}

// LookupKind returns the named kind.
func LookupKind(name string) (Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}

// Backend is where validated objects end up.
type Backend interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	URL(key string) string
}

// Result describes a stored file.
type Result struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Service struct {
	backend Backend
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Upload checks the file against its kind by sniffed content type and
// size, then stores it under <kind>/<owner>/<random id><ext>.
func (s *Service) Upload(ctx context.Context, kindName, ownerID string, r io.Reader) (*Result, error) {
	kind, ok := LookupKind(kindName)
	if !ok {
		return nil, apperr.Validation("unknown upload type " + kindName)
	}
	if ownerID == "" {
		return nil, apperr.Unauthenticated("")
	}
	log := logger.FromCtx(ctx).With(zap.String("kind", kind.Name), zap.String("owner", ownerID))

	body, err := io.ReadAll(io.LimitReader(r, kind.MaxBytes+1))
	if err != nil {
		prometheus.RecordUpload(kind.Name, "read_error")
		return nil, apperr.Wrap(apperr.ErrValidation, "could not read the uploaded file", err)
	}
	if len(body) == 0 {
		prometheus.RecordUpload(kind.Name, "rejected")
		return nil, apperr.Validation("the uploaded file is empty")
	}
	if int64(len(body)) > kind.MaxBytes {
		prometheus.RecordUpload(kind.Name, "rejected")
		return nil, apperr.Validation(fmt.Sprintf("file is larger than %d MB", kind.MaxBytes/mb))
	}

	contentType := sniff(body)
	ext, ok := kind.Types[contentType]
	if !ok {
		prometheus.RecordUpload(kind.Name, "rejected")
		log.Warn("Rejected upload content type", zap.String("content_type", contentType))
		return nil, apperr.Validation("unsupported file type " + contentType)
	}

	key := kind.Name + "/" + ownerID + "/" + uuid.NewString() + ext
	if err := s.backend.Put(ctx, key, contentType, body); err != nil {
		prometheus.RecordUpload(kind.Name, "failed")
		log.Error("Failed to store upload", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	prometheus.RecordUpload(kind.Name, "stored")
	log.Info("Upload stored", zap.String("key", key), zap.Int("size", len(body)))

	return &Result{
		URL:         s.backend.URL(key),
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(body)),
	}, nil
}

func sniff(body []byte) string {
	ct := http.DetectContentType(body)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

// MemoryBackend keeps objects in process, for development and tests.
type MemoryBackend struct {
	BaseURL string

	mu      sync.Mutex
	objects map[string]memoryObject
}

type memoryObject struct {
	contentType string
	body        []byte
}

func NewMemoryBackend(baseURL string) *MemoryBackend {
	return &MemoryBackend{BaseURL: strings.TrimRight(baseURL, "/"), objects: map[string]memoryObject{}}
}

func (m *MemoryBackend) Put(_ context.Context, key, contentType string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{contentType: contentType, body: bytes.Clone(body)}
	return nil
}

func (m *MemoryBackend) URL(key string) string { return m.BaseURL + "/" + key }

// Object returns a stored object.
func (m *MemoryBackend) Object(key string) (contentType string, body []byte, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[key]
	return o.contentType, o.body, ok
}
