package screening

import (
	"context"

	"resume-screener/internal/applications"
	"resume-screener/internal/candidates"
	"resume-screener/internal/jobs"
	"resume-screener/internal/resumes"
)

// Enumerator lists the résumés in scope for a run. An empty jobID means
// every active posting.
type Enumerator interface {
	Enumerate(ctx context.Context, jobID string) ([]Document, error)
}

// StoreEnumerator enumerates application résumés of the requested postings
// followed by the résumé pool, each in submission order.
type StoreEnumerator struct {
	Jobs         jobs.Repo
	Applications applications.Repo
	Candidates   candidates.Repo
	Resumes      resumes.Repo
}

func (e *StoreEnumerator) Enumerate(ctx context.Context, jobID string) ([]Document, error) {
	postings, err := e.postings(ctx, jobID)
	if err != nil {
		return nil, err
	}

	docs := []Document{}
	people := make(map[string]candidates.Candidate)
	for _, job := range postings {
		apps, err := e.Applications.ListByJob(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		for _, app := range apps {
			cand, ok := people[app.CandidateID]
			if !ok {
				cand, err = e.Candidates.GetByID(ctx, app.CandidateID)
				if err != nil {
					return nil, err
				}
				people[app.CandidateID] = cand
			}
			docs = append(docs, Document{
				FileName:       app.ResumeFileName,
				StorageKey:     app.ResumeRef,
				ApplicationID:  app.ID,
				CandidateName:  cand.Name,
				CandidateEmail: cand.Email,
				Status:         app.Status,
			})
		}
	}

	pool, err := e.Resumes.ListBySource(ctx, resumes.SourcePool)
	if err != nil {
		return nil, err
	}
	for _, doc := range pool {
		docs = append(docs, Document{FileName: doc.FileName, StorageKey: doc.StorageKey})
	}
	return docs, nil
}

func (e *StoreEnumerator) postings(ctx context.Context, jobID string) ([]jobs.JobPosting, error) {
	if jobID == "" {
		return e.Jobs.ListActive(ctx)
	}
	job, err := e.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return []jobs.JobPosting{job}, nil
}
