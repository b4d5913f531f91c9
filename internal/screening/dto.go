package screening

import (
	"strconv"
	"time"
)

type screenRequest struct {
	JobID string `json:"jobId"`
}

// ResultResponse is one ranked row of a run.
type ResultResponse struct {
	Rank            int            `json:"rank"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Score           float64        `json:"score"`
	ApplicationID   string         `json:"applicationId,omitempty"`
	FileName        string         `json:"fileName"`
	Flag            string         `json:"flag,omitempty"`
	IdentitySource  IdentitySource `json:"identitySource"`
	MatchedKeywords []string       `json:"matchedKeywords"`
	MissingKeywords []string       `json:"missingKeywords"`
}

// RunResponse is the body returned for a completed run.
type RunResponse struct {
	RunID              string           `json:"runId"`
	State              State            `json:"state"`
	JobID              string           `json:"jobId,omitempty"`
	JobDescriptionFile string           `json:"jobDescriptionFile"`
	Message            string           `json:"message"`
	Results            []ResultResponse `json:"results"`
	ExportKey          string           `json:"exportKey,omitempty"`
	DownloadURL        string           `json:"downloadUrl,omitempty"`
	Warnings           []string         `json:"warnings"`
	StartedAt          time.Time        `json:"startedAt"`
	CompletedAt        time.Time        `json:"completedAt"`
}

func toRunResponse(run *Run, downloadURL string) RunResponse {
	resp := RunResponse{
		RunID:              run.ID,
		State:              run.State,
		JobID:              run.JobID,
		JobDescriptionFile: run.JobDescriptionFile,
		Results:            make([]ResultResponse, 0, len(run.Results)),
		ExportKey:          run.ExportKey,
		Warnings:           run.Warnings,
		StartedAt:          run.StartedAt,
		CompletedAt:        run.CompletedAt,
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	if run.ExportKey != "" {
		resp.DownloadURL = downloadURL
	}
	resp.Message = screenedMessage(len(run.Results))
	for i, r := range run.Results {
		resp.Results = append(resp.Results, ResultResponse{
			Rank:            i + 1,
			Name:            r.CandidateName,
			Email:           r.CandidateEmail,
			Score:           r.Score,
			ApplicationID:   r.ApplicationID,
			FileName:        r.FileName,
			Flag:            r.Flag,
			IdentitySource:  r.IdentitySource,
			MatchedKeywords: nonNil(r.MatchedKeywords),
			MissingKeywords: nonNil(r.MissingKeywords),
		})
	}
	return resp
}

func screenedMessage(n int) string {
	if n == 1 {
		return "Screened 1 resume"
	}
	return "Screened " + strconv.Itoa(n) + " resumes"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
