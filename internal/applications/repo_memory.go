package applications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"resume-screener/internal/candidates"
	"resume-screener/internal/jobs"
)

// MemoryRepo is an in-memory implementation of Repo. Candidate and job
// lookups enforce the same referential integrity the Postgres schema does.
type MemoryRepo struct {
	Candidates candidates.Repo
	Jobs       jobs.Repo

	mu      sync.Mutex
	apps    map[string]Application
	order   []string
	log     []LogEntry
	nextSeq int64
}

func NewMemoryRepo(cands candidates.Repo, jobRepo jobs.Repo) *MemoryRepo {
	return &MemoryRepo{
		Candidates: cands,
		Jobs:       jobRepo,
		apps:       make(map[string]Application),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		existing := r.apps[id]
		if existing.CandidateID == app.CandidateID && existing.JobID == app.JobID && existing.SubmittedAt.Equal(app.SubmittedAt) {
			return ErrDuplicate
		}
	}
	cand, job, err := r.lookup(ctx, app)
	if err != nil {
		return err
	}
	r.apps[app.ID] = app
	r.order = append(r.order, app.ID)
	r.appendLog(app, EventSubmitted, cand, job, app.SubmittedAt)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return cloneApp(app), nil
}

func (r *MemoryRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	return r.filter(ctx, func(a Application) bool { return a.CandidateID == candidateID })
}

func (r *MemoryRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	return r.filter(ctx, func(a Application) bool { return a.JobID == jobID })
}

func (r *MemoryRepo) RecordScreeningOutcome(ctx context.Context, id string, score float64, status Status, at time.Time) error {
	if err := validateOutcome(score, status); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return ErrNotFound
	}
	cand, job, err := r.lookup(ctx, app)
	if err != nil {
		return err
	}
	s := score
	app.Score = &s
	if !app.Status.Terminal() {
		app.Status = status
	}
	app.UpdatedAt = at
	r.apps[id] = app
	r.appendLog(app, EventScreened, cand, job, at)
	return nil
}

func (r *MemoryRepo) Transition(ctx context.Context, id string, next Status, at time.Time) (Application, Status, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return Application{}, "", ErrNotFound
	}
	prev := app.Status
	if !prev.CanTransition(next) {
		return Application{}, prev, ErrInvalidTransition
	}
	cand, job, err := r.lookup(ctx, app)
	if err != nil {
		return Application{}, prev, err
	}
	app.Status = next
	app.UpdatedAt = at
	r.apps[id] = app
	r.appendLog(app, EventReviewed, cand, job, at)
	return cloneApp(app), prev, nil
}

func (r *MemoryRepo) ListLog(ctx context.Context, limit int) ([]LogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.log)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]LogEntry, 0, n)
	for i := len(r.log) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.log[i])
	}
	return out, nil
}

func (r *MemoryRepo) RebuildLog(ctx context.Context, at time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	apps := make([]Application, 0, len(r.order))
	for _, id := range r.order {
		apps = append(apps, r.apps[id])
	}
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].SubmittedAt.Before(apps[j].SubmittedAt)
	})

	seq := r.nextSeq
	rebuilt := make([]LogEntry, 0, len(apps))
	for _, app := range apps {
		cand, job, err := r.lookup(ctx, app)
		if err != nil {
			return 0, err
		}
		seq++
		rebuilt = append(rebuilt, newLogEntry(seq, app, EventSnapshot, cand, job, at))
	}
	r.nextSeq = seq
	r.log = rebuilt
	return len(rebuilt), nil
}

func (r *MemoryRepo) lookup(ctx context.Context, app Application) (candidates.Candidate, jobs.JobPosting, error) {
	cand, err := r.Candidates.GetByID(ctx, app.CandidateID)
	if err != nil {
		if errors.Is(err, candidates.ErrNotFound) {
			return candidates.Candidate{}, jobs.JobPosting{}, ErrReference
		}
		return candidates.Candidate{}, jobs.JobPosting{}, err
	}
	job, err := r.Jobs.GetByID(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return candidates.Candidate{}, jobs.JobPosting{}, ErrReference
		}
		return candidates.Candidate{}, jobs.JobPosting{}, err
	}
	return cand, job, nil
}

// appendLog must be called with r.mu held.
func (r *MemoryRepo) appendLog(app Application, event string, cand candidates.Candidate, job jobs.JobPosting, at time.Time) {
	r.nextSeq++
	r.log = append(r.log, newLogEntry(r.nextSeq, app, event, cand, job, at))
}

func newLogEntry(seq int64, app Application, event string, cand candidates.Candidate, job jobs.JobPosting, at time.Time) LogEntry {
	entry := LogEntry{
		Seq:            seq,
		ApplicationID:  app.ID,
		Event:          event,
		CandidateName:  cand.Name,
		CandidateEmail: cand.Email,
		JobTitle:       job.Title,
		Status:         app.Status,
		RecordedAt:     at,
	}
	if app.Score != nil {
		s := *app.Score
		entry.Score = &s
	}
	return entry
}

func (r *MemoryRepo) filter(ctx context.Context, keep func(Application) bool) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Application{}
	for _, id := range r.order {
		if app := r.apps[id]; keep(app) {
			out = append(out, cloneApp(app))
		}
	}
	return out, nil
}

func cloneApp(app Application) Application {
	if app.Score != nil {
		s := *app.Score
		app.Score = &s
	}
	return app
}

var _ Repo = (*MemoryRepo)(nil)
