package candidates

import "time"

type createRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

// CandidateResponse is the outward-facing representation of a candidate.
type CandidateResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// createResponse carries a candidate-scoped bearer token for the new record.
type createResponse struct {
	CandidateResponse
	Token string `json:"token,omitempty"`
}

func toResponse(c Candidate) CandidateResponse {
	return CandidateResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}
