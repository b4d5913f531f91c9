package screening

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"resume-screener/internal/export"
	"resume-screener/internal/queue"
	"resume-screener/internal/shared/storage/object"
	"resume-screener/internal/shared/telemetry"
)

// Service runs the pipeline and handles what follows a completed run:
// writing the export, publishing the completion event and caching the run.
type Service struct {
	Pipeline *Pipeline
	Cache    *RunCache
	Objects  object.ObjectStore
	Queue    queue.Client

	// exportStale is set when a run's export could neither be written nor
	// the previous one removed.
	exportStale atomic.Bool
}

// Screen executes a run. A returned error means the run failed before any
// results were produced.
func (s *Service) Screen(ctx context.Context, jobID, requestID string) (*Run, error) {
	run, err := s.Pipeline.Run(ctx, Request{JobID: jobID, RequestID: requestID})
	if err != nil {
		return run, err
	}

	if run.PersistenceErr != nil {
		telemetry.Error("screening.persistence_failed", map[string]any{
			"run_id": run.ID,
			"err":    run.PersistenceErr.Error(),
		})
		run.Warnings = append(run.Warnings, "some screening outcomes could not be saved: "+run.PersistenceErr.Error())
	}

	key, err := export.Save(ctx, s.Objects, ExportResults(run.Results))
	if err != nil {
		telemetry.Error("screening.export_failed", map[string]any{
			"run_id": run.ID,
			"err":    err.Error(),
		})
		run.Warnings = append(run.Warnings, "export could not be written")
		s.discardExport(ctx, run)
	} else {
		run.ExportKey = key
		s.exportStale.Store(false)
	}

	s.publish(ctx, run)
	if s.Cache != nil {
		s.Cache.Put(run)
	}

	telemetry.Info("screening.completed", map[string]any{
		"run_id":      run.ID,
		"request_id":  run.RequestID,
		"job_id":      run.JobID,
		"results":     len(run.Results),
		"warnings":    len(run.Warnings),
		"duration_ms": run.CompletedAt.Sub(run.StartedAt).Milliseconds(),
	})
	return run, nil
}

// Get returns a cached run.
func (s *Service) Get(id string) (*Run, error) {
	if s.Cache == nil {
		return nil, ErrRunNotFound
	}
	run, ok := s.Cache.Get(id)
	if !ok {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// OpenExport returns the export written by the latest completed run.
func (s *Service) OpenExport(ctx context.Context) (io.ReadCloser, error) {
	if s.exportStale.Load() {
		return nil, export.ErrNoExport
	}
	return export.Open(ctx, s.Objects)
}

// discardExport removes the previous run's workbook after a failed write.
func (s *Service) discardExport(ctx context.Context, run *Run) {
	if err := export.Remove(ctx, s.Objects); err != nil {
		s.exportStale.Store(true)
		telemetry.Error("screening.export_remove_failed", map[string]any{
			"run_id": run.ID,
			"err":    err.Error(),
		})
	}
}

func (s *Service) publish(ctx context.Context, run *Run) {
	if s.Queue == nil {
		return
	}
	var top float64
	if len(run.Results) > 0 {
		top = run.Results[0].Score
	}
	msg := queue.NewScreeningCompleted(run.ID, run.RequestID, run.JobID, len(run.Results), top, run.ExportKey, run.CompletedAt.Format(time.RFC3339))
	if err := s.Queue.Send(ctx, msg); err != nil {
		telemetry.Error("screening.publish_failed", map[string]any{
			"run_id": run.ID,
			"err":    err.Error(),
		})
		run.Warnings = append(run.Warnings, "completion event could not be published")
	}
}

// ExportResults converts ranked results into export rows, keeping order.
func ExportResults(results []Result) []export.Result {
	out := make([]export.Result, 0, len(results))
	for _, r := range results {
		out = append(out, export.Result{Name: r.CandidateName, Email: r.CandidateEmail, Score: r.Score})
	}
	return out
}
