package applications

import "time"

// ApplicationResponse is the outward-facing representation of an application.
type ApplicationResponse struct {
	ID             string    `json:"id"`
	CandidateID    string    `json:"candidateId"`
	JobID          string    `json:"jobId"`
	ResumeFileName string    `json:"resumeFileName"`
	CoverLetter    string    `json:"coverLetter,omitempty"`
	Status         Status    `json:"status"`
	Score          *float64  `json:"score"`
	SubmittedAt    time.Time `json:"submittedAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// LogEntryResponse is one row of the application log.
type LogEntryResponse struct {
	Seq            int64     `json:"seq"`
	ApplicationID  string    `json:"applicationId"`
	Event          string    `json:"event"`
	CandidateName  string    `json:"candidateName"`
	CandidateEmail string    `json:"candidateEmail"`
	JobTitle       string    `json:"jobTitle"`
	Status         Status    `json:"status"`
	Score          *float64  `json:"score"`
	RecordedAt     time.Time `json:"recordedAt"`
}

type reviewRequest struct {
	Status string `json:"status" binding:"required"`
}

func toResponse(a Application) ApplicationResponse {
	return ApplicationResponse{
		ID:             a.ID,
		CandidateID:    a.CandidateID,
		JobID:          a.JobID,
		ResumeFileName: a.ResumeFileName,
		CoverLetter:    a.CoverLetter,
		Status:         a.Status,
		Score:          a.Score,
		SubmittedAt:    a.SubmittedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toResponses(apps []Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toResponse(a))
	}
	return out
}

func toLogResponse(e LogEntry) LogEntryResponse {
	return LogEntryResponse{
		Seq:            e.Seq,
		ApplicationID:  e.ApplicationID,
		Event:          e.Event,
		CandidateName:  e.CandidateName,
		CandidateEmail: e.CandidateEmail,
		JobTitle:       e.JobTitle,
		Status:         e.Status,
		Score:          e.Score,
		RecordedAt:     e.RecordedAt,
	}
}
