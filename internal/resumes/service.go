package resumes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-screener/internal/extract"
	"resume-screener/internal/shared/storage/object"
	"resume-screener/internal/shared/util"
)

const (
	poolNamespace        = "resumes"
	applicationNamespace = "applications"
)

// Service stores résumé files and tracks their metadata.
type Service struct {
	Store    object.ObjectStore
	Repo     Repo
	MaxBytes int64
	Now      func() time.Time
}

// UploadPool stores a résumé that is screened without an application.
func (s *Service) UploadPool(ctx context.Context, fileName string, r io.Reader) (Document, error) {
	return s.upload(ctx, SourcePool, poolNamespace, fileName, r)
}

// UploadForApplication stores a résumé attached to a candidate's application.
func (s *Service) UploadForApplication(ctx context.Context, candidateID, fileName string, r io.Reader) (Document, error) {
	if strings.TrimSpace(candidateID) == "" {
		return Document{}, fmt.Errorf("%w: candidate id is required", ErrInvalidInput)
	}
	return s.upload(ctx, SourceApplication, applicationNamespace+"/"+candidateID, fileName, r)
}

// ListPool returns pool résumés in upload order.
func (s *Service) ListPool(ctx context.Context) ([]Document, error) {
	return s.Repo.ListBySource(ctx, SourcePool)
}

// MarkExtracted records that text for storageKey has been cached.
func (s *Service) MarkExtracted(ctx context.Context, storageKey string) error {
	return s.Repo.UpdateExtraction(ctx, storageKey, extract.SidecarKey(storageKey), s.now())
}

func (s *Service) upload(ctx context.Context, source Source, namespace, fileName string, r io.Reader) (Document, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	data, err := s.readLimited(r)
	if err != nil {
		return Document{}, err
	}
	if len(data) == 0 {
		return Document{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, namespace, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:         uuid.NewString(),
		Source:     source,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		Checksum:   util.Checksum(data),
		StorageKey: storageKey,
		CreatedAt:  s.now(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *Service) readLimited(r io.Reader) ([]byte, error) {
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

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
