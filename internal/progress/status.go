package progress

// Status is a course's position relative to the student's approvals.
type Status string

const (
	StatusBlocked   Status = "blocked"
	StatusAvailable Status = "available"
	StatusApproved  Status = "approved"
)

// Label returns a display label for the status.
func (s Status) Label() string {
	switch s {
	case StatusApproved:
		return "Approved"
	case StatusAvailable:
		return "Available"
	case StatusBlocked:
		return "Blocked"
	default:
		return string(s)
	}
}

// Icon returns a single-glyph marker for the status.
func (s Status) Icon() string {
	switch s {
	case StatusApproved:
		return "✓"
	case StatusAvailable:
		return "○"
	default:
		return "✗"
	}
}

// CourseStatus is the per-course view handed to presentation code.
type CourseStatus struct {
	Code    string   `json:"code"`
	Status  Status   `json:"status"`
	Missing []string `json:"missing,omitempty"` // unapproved direct prerequisites
}

// CreditSummary aggregates approved credits over the whole catalog.
type CreditSummary struct {
	Total      int `json:"totalCredits"`
	Approved   int `json:"approvedCredits"`
	Percentage int `json:"percentage"`
}

// ApproveResult reports the outcome of an Approve call. A declined approval
// is a value, not an error.
type ApproveResult struct {
	Code            string
	Approved        bool
	AlreadyApproved bool
	Missing         []string // unapproved prerequisites when declined
}

// Percent returns round(100*part/whole), or 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}
