package screening

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resume-screener/internal/applications"
	"resume-screener/internal/extract"
	"resume-screener/internal/jobdesc"
	"resume-screener/internal/jobs"
	"resume-screener/internal/scoring"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/storage/object"
	"resume-screener/internal/shared/telemetry"
)

const defaultWorkers = 4

// JobDescriptionSource returns a copy of the current job description.
type JobDescriptionSource interface {
	Snapshot(ctx context.Context) (jobdesc.Document, error)
}

// PostingLookup resolves the posting named by a run.
type PostingLookup interface {
	GetByID(ctx context.Context, id string) (jobs.JobPosting, error)
}

// OutcomeRecorder stores a score and status for an application.
type OutcomeRecorder interface {
	RecordScreeningOutcome(ctx context.Context, applicationID string, score float64, status applications.Status) error
}

// ExtractionRecorder is told when text for a stored résumé has been cached.
type ExtractionRecorder interface {
	MarkExtracted(ctx context.Context, storageKey string) error
}

// Request selects what a run screens.
type Request struct {
	JobID     string
	RequestID string
}

// Pipeline screens every enumerated résumé against the job description and
// ranks the results.
type Pipeline struct {
	JobDescriptions JobDescriptionSource
	Postings        PostingLookup
	Candidates      Enumerator
	Objects         object.ObjectStore
	Outcomes        OutcomeRecorder
	Extractions     ExtractionRecorder
	Workers         int
	Now             func() time.Time
}

// Run executes one screening run. Failures before scoring return the failed
// run together with the error and leave the application store untouched.
// Outcome write failures are reported on Run.PersistenceErr.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		RequestID: req.RequestID,
		JobID:     req.JobID,
		State:     StateAwaitingJobDescription,
		StartedAt: p.now(),
	}
	metrics.IncScreeningStarted()

	jd, err := p.jobDescription(ctx, req.JobID)
	if err != nil {
		return p.fail(run, err)
	}
	run.JobDescriptionFile = jd.FileName

	run.State = StateExtractingJobText
	extracted, err := extract.ExtractTextFromBytes(ctx, jd.Data, jd.FileName)
	if err != nil {
		return p.fail(run, fmt.Errorf("%w: %v", ErrJobExtraction, err))
	}
	if extracted.Placeholder {
		return p.fail(run, fmt.Errorf("%w: %s", ErrJobExtraction, strings.Trim(extracted.Body, "[]")))
	}
	jobText := extracted.Body

	run.State = StateEnumeratingCandidates
	docs, err := p.Candidates.Enumerate(ctx, req.JobID)
	if err != nil {
		return p.fail(run, err)
	}
	if len(docs) == 0 {
		return p.fail(run, ErrNoCandidates)
	}

	run.State = StateScoring
	results := p.scoreAll(ctx, docs, jobText)
	metrics.AddDocumentsScored(len(results))

	run.State = StateRanking
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	run.Results = results

	run.State = StatePersisting
	if err := p.persist(ctx, results, docs); err != nil {
		run.PersistenceErr = err
	}

	run.State = StateCompleted
	run.CompletedAt = p.now()
	metrics.IncScreeningCompleted()
	metrics.ObserveScreeningDurationMs(float64(run.CompletedAt.Sub(run.StartedAt).Milliseconds()))
	return run, nil
}

// jobDescription prefers the uploaded document. A run for a specific posting
// falls back to the posting's own text when nothing was uploaded.
func (p *Pipeline) jobDescription(ctx context.Context, jobID string) (jobdesc.Document, error) {
	doc, err := p.JobDescriptions.Snapshot(ctx)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, jobdesc.ErrNotFound) {
		return jobdesc.Document{}, err
	}
	if jobID == "" || p.Postings == nil {
		return jobdesc.Document{}, ErrNoJobDescription
	}
	job, err := p.Postings.GetByID(ctx, jobID)
	if err != nil {
		return jobdesc.Document{}, err
	}
	text := strings.TrimSpace(job.ScreeningText())
	if text == "" {
		return jobdesc.Document{}, ErrNoJobDescription
	}
	return jobdesc.Document{
		Metadata: jobdesc.Metadata{FileName: "posting-" + job.ID + ".txt"},
		Data:     []byte(text),
	}, nil
}

// scoreAll scores documents in parallel. Each worker writes only its own slot
// so results keep enumeration order.
func (p *Pipeline) scoreAll(ctx context.Context, docs []Document, jobText string) []Result {
	results := make([]Result, len(docs))
	var g errgroup.Group
	g.SetLimit(p.workers())
	for i, doc := range docs {
		g.Go(func() error {
			results[i] = p.scoreOne(ctx, doc, jobText)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *Pipeline) scoreOne(ctx context.Context, doc Document, jobText string) Result {
	res := Result{
		FileName:      doc.FileName,
		ApplicationID: doc.ApplicationID,
	}
	if doc.ApplicationID != "" {
		res.CandidateName = doc.CandidateName
		res.CandidateEmail = doc.CandidateEmail
		res.IdentitySource = IdentityApplication
	} else {
		res.CandidateName, res.CandidateEmail = IdentityFromFileName(doc.FileName)
		res.IdentitySource = IdentityFileName
	}

	extracted, err := extract.ExtractText(ctx, p.Objects, doc.StorageKey, doc.FileName)
	if err != nil {
		metrics.IncExtractionFailed()
		telemetry.Warn("screening.extraction_failed", map[string]any{
			"file_name":      doc.FileName,
			"storage_key":    doc.StorageKey,
			"application_id": doc.ApplicationID,
			"err":            err.Error(),
		})
		res.Flag = FlagExtractionFailed
		return res
	}
	if extracted.Placeholder {
		res.Flag = FlagUnsupportedFormat
		return res
	}
	p.markExtracted(ctx, doc.StorageKey)
	text := extracted.Body

	res.Score = scoring.Score(text, jobText)
	explanation := scoring.Explain(text, jobText)
	res.MatchedKeywords = explanation.Matched
	res.MissingKeywords = explanation.Missing
	return res
}

func (p *Pipeline) markExtracted(ctx context.Context, storageKey string) {
	if p.Extractions == nil {
		return
	}
	if err := p.Extractions.MarkExtracted(ctx, storageKey); err != nil {
		telemetry.Warn("screening.mark_extracted_failed", map[string]any{
			"storage_key": storageKey,
			"err":         err.Error(),
		})
	}
}

// persist records outcomes for results tied to an application. Writes run
// concurrently; every failure is collected.
func (p *Pipeline) persist(ctx context.Context, results []Result, docs []Document) error {
	current := make(map[string]applications.Status, len(docs))
	for _, d := range docs {
		if d.ApplicationID != "" {
			current[d.ApplicationID] = d.Status
		}
	}

	var (
		mu       sync.Mutex
		failures []error
	)
	var g errgroup.Group
	g.SetLimit(p.workers())
	for _, r := range results {
		if r.ApplicationID == "" {
			continue
		}
		g.Go(func() error {
			status := outcomeStatus(current[r.ApplicationID], r.Flag)
			if err := p.Outcomes.RecordScreeningOutcome(ctx, r.ApplicationID, r.Score, status); err != nil {
				metrics.IncPersistenceFailed()
				mu.Lock()
				failures = append(failures, fmt.Errorf("application %s: %w", r.ApplicationID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) == 0 {
		return nil
	}
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Error() < failures[j].Error()
	})
	return &PersistenceError{Failures: failures}
}

// outcomeStatus keeps decided applications decided and only refreshes their
// score. Unscorable résumés wait for a human as pending.
func outcomeStatus(current applications.Status, flag string) applications.Status {
	switch {
	case current.Terminal():
		return current
	case flag != "":
		return applications.StatusPending
	default:
		return applications.StatusReviewed
	}
}

func (p *Pipeline) fail(run *Run, err error) (*Run, error) {
	run.State = StateFailed
	run.FailureReason = err
	run.CompletedAt = p.now()
	metrics.IncScreeningFailed()
	telemetry.Error("screening.failed", map[string]any{
		"run_id":     run.ID,
		"request_id": run.RequestID,
		"job_id":     run.JobID,
		"err":        err.Error(),
	})
	return run, err
}

func (p *Pipeline) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return defaultWorkers
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}
