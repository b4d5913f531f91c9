package jobdesc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"resume-screener/internal/shared/storage/object"
	"resume-screener/internal/shared/util"
)

const (
	// ContentKey holds the bytes of the current job description.
	ContentKey = "jobdesc/current"
	metaKey    = ContentKey + ".meta"
)

// Metadata describes the document currently occupying the slot.
type Metadata struct {
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	Checksum   string    `json:"checksum"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Document is a point-in-time copy of the slot.
type Document struct {
	Metadata
	Data []byte
}

// Store keeps a single job description on the object store. Each upload
// replaces the previous one.
type Store struct {
	Objects  object.ObjectStore
	MaxBytes int64
	Now      func() time.Time

	mu sync.RWMutex
}

// Put replaces the slot with the document read from r.
func (s *Store) Put(ctx context.Context, fileName string, r io.Reader) (Metadata, error) {
	fileName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	data, err := s.readLimited(r)
	if err != nil {
		return Metadata{}, err
	}
	if len(data) == 0 {
		return Metadata{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	meta := Metadata{
		FileName:   fileName,
		MimeType:   http.DetectContentType(data),
		SizeBytes:  int64(len(data)),
		Checksum:   util.Checksum(data),
		UploadedAt: s.now(),
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return Metadata{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	previous, err := s.read(ctx, ContentKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Metadata{}, fmt.Errorf("read job description: %w", err)
	}
	if _, err := s.Objects.SaveWithKey(ctx, ContentKey, meta.MimeType, bytes.NewReader(data)); err != nil {
		return Metadata{}, fmt.Errorf("save job description: %w", err)
	}
	if _, err := s.Objects.SaveWithKey(ctx, metaKey, "application/json", bytes.NewReader(encoded)); err != nil {
		if rerr := s.restore(ctx, previous); rerr != nil {
			return Metadata{}, fmt.Errorf("save job description metadata: %w (restore: %v)", err, rerr)
		}
		return Metadata{}, fmt.Errorf("save job description metadata: %w", err)
	}
	return meta, nil
}

// restore puts back the content that was in the slot before a failed Put.
// A nil previous means the slot was empty.
func (s *Store) restore(ctx context.Context, previous []byte) error {
	if previous == nil {
		return s.Objects.Delete(ctx, ContentKey)
	}
	_, err := s.Objects.SaveWithKey(ctx, ContentKey, http.DetectContentType(previous), bytes.NewReader(previous))
	return err
}

// Metadata returns the description of the current document.
func (s *Store) Metadata(ctx context.Context) (Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readMeta(ctx)
}

// Snapshot reads the current document and its metadata together.
func (s *Store) Snapshot(ctx context.Context) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, err := s.readMeta(ctx)
	if err != nil {
		return Document{}, err
	}
	data, err := s.read(ctx, ContentKey)
	if err != nil {
		return Document{}, err
	}
	if util.Checksum(data) != meta.Checksum {
		return Document{}, ErrInconsistent
	}
	return Document{Metadata: meta, Data: data}, nil
}

func (s *Store) readMeta(ctx context.Context) (Metadata, error) {
	raw, err := s.read(ctx, metaKey)
	if err != nil {
		return Metadata{}, err
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, fmt.Errorf("decode job description metadata: %w", err)
	}
	return meta, nil
}

func (s *Store) read(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.Objects.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *Store) readLimited(r io.Reader) ([]byte, error) {
	if s.MaxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, s.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.MaxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
