package jobs

import "time"

// JobPosting is an open or closed position. Postings are deactivated rather
// than removed.
type JobPosting struct {
	ID            string
	Title         string
	Company       string
	Location      string
	Description   string
	Requirements  string
	Active        bool
	CreatedAt     time.Time
	DeactivatedAt *time.Time
}

// ScreeningText is the text a posting contributes when screened without an
// uploaded job description document.
func (j JobPosting) ScreeningText() string {
	switch {
	case j.Description == "":
		return j.Requirements
	case j.Requirements == "":
		return j.Description
	default:
		return j.Description + "\n" + j.Requirements
	}
}
