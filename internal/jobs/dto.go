package jobs

import "time"

type createRequest struct {
	Title        string `json:"title" binding:"required"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
}

// JobResponse is the outward-facing representation of a posting.
type JobResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Company       string     `json:"company"`
	Location      string     `json:"location"`
	Description   string     `json:"description"`
	Requirements  string     `json:"requirements"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"createdAt"`
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty"`
}

func toResponse(j JobPosting) JobResponse {
	return JobResponse{
		ID:            j.ID,
		Title:         j.Title,
		Company:       j.Company,
		Location:      j.Location,
		Description:   j.Description,
		Requirements:  j.Requirements,
		Active:        j.Active,
		CreatedAt:     j.CreatedAt,
		DeactivatedAt: j.DeactivatedAt,
	}
}
