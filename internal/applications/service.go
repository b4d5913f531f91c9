package applications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-screener/internal/candidates"
	"resume-screener/internal/jobs"
	"resume-screener/internal/resumes"
)

// ResumeUploader stores the résumé file attached to a submission.
type ResumeUploader interface {
	UploadForApplication(ctx context.Context, candidateID, fileName string, r io.Reader) (resumes.Document, error)
}

// Service contains business logic for applications.
type Service struct {
	Repo       Repo
	Candidates candidates.Repo
	Jobs       jobs.Repo
	Resumes    ResumeUploader
	Now        func() time.Time
}

// SubmitInput is a candidate's application with its résumé file.
type SubmitInput struct {
	CandidateID    string
	JobID          string
	CoverLetter    string
	ResumeFileName string
	Resume         io.Reader
}

// Submit checks references, stores the résumé and creates the application.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Application, error) {
	if in.Resume == nil || strings.TrimSpace(in.ResumeFileName) == "" {
		return Application{}, fmt.Errorf("%w: resume file is required", ErrInvalidInput)
	}
	if err := s.checkReferences(ctx, in.CandidateID, in.JobID); err != nil {
		return Application{}, err
	}
	doc, err := s.Resumes.UploadForApplication(ctx, in.CandidateID, in.ResumeFileName, in.Resume)
	if err != nil {
		return Application{}, err
	}
	return s.CreateApplication(ctx, in.CandidateID, in.JobID, doc.StorageKey, doc.FileName, in.CoverLetter)
}

// CreateApplication records a submission with status new and no score.
func (s *Service) CreateApplication(ctx context.Context, candidateID, jobID, resumeRef, resumeFileName, coverLetter string) (Application, error) {
	if strings.TrimSpace(resumeRef) == "" {
		return Application{}, fmt.Errorf("%w: resume reference is required", ErrInvalidInput)
	}
	if err := s.checkReferences(ctx, candidateID, jobID); err != nil {
		return Application{}, err
	}
	now := s.now()
	app := Application{
		ID:             uuid.NewString(),
		CandidateID:    candidateID,
		JobID:          jobID,
		ResumeRef:      resumeRef,
		ResumeFileName: resumeFileName,
		CoverLetter:    strings.TrimSpace(coverLetter),
		Status:         StatusNew,
		SubmittedAt:    now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (s *Service) Get(ctx context.Context, id string) (Application, error) {
	return s.Repo.GetByID(ctx, id)
}

// ListForCandidate returns a candidate's applications ordered by submission time.
func (s *Service) ListForCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	if _, err := s.Candidates.GetByID(ctx, candidateID); err != nil {
		return nil, err
	}
	apps, err := s.Repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	sortBySubmission(apps)
	return apps, nil
}

// ListForJob returns a posting's applications ordered by submission time.
func (s *Service) ListForJob(ctx context.Context, jobID string) ([]Application, error) {
	if _, err := s.Jobs.GetByID(ctx, jobID); err != nil {
		return nil, err
	}
	apps, err := s.Repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	sortBySubmission(apps)
	return apps, nil
}

// RecordScreeningOutcome stores the score and status from a screening run.
func (s *Service) RecordScreeningOutcome(ctx context.Context, id string, score float64, status Status) error {
	return s.Repo.RecordScreeningOutcome(ctx, id, score, status, s.now())
}

// Review applies an explicit status decision and returns the previous status.
func (s *Service) Review(ctx context.Context, id string, next Status) (Application, Status, error) {
	if !next.Valid() {
		return Application{}, "", ErrInvalidStatus
	}
	return s.Repo.Transition(ctx, id, next, s.now())
}

func (s *Service) ListLog(ctx context.Context, limit int) ([]LogEntry, error) {
	return s.Repo.ListLog(ctx, limit)
}

func (s *Service) RebuildLog(ctx context.Context) (int, error) {
	return s.Repo.RebuildLog(ctx, s.now())
}

func (s *Service) checkReferences(ctx context.Context, candidateID, jobID string) error {
	if _, err := s.Candidates.GetByID(ctx, candidateID); err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			return fmt.Errorf("%w: candidate %s", ErrReference, candidateID)
		}
		return err
	}
	job, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return fmt.Errorf("%w: job %s", ErrReference, jobID)
		}
		return err
	}
	if !job.Active {
		return ErrJobClosed
	}
	return nil
}

func sortBySubmission(apps []Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].SubmittedAt.Before(apps[j].SubmittedAt)
	})
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
