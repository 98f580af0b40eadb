package worker

import (
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/careermatchworker/internal/analysis"
)

// Session statuses written to the database and published as updates.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Per-resume analysis statuses.
const (
	ResumeAnalyzed = "analyzed"
	ResumeFailed   = "failed"
)

// KindDownloadFailed marks a resume whose bytes could not be fetched.
const KindDownloadFailed = "download_failed"

// Session is the queue message asking for a session's resumes to be analyzed.
type Session struct {
	ID         uuid.UUID `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Name       string    `json:"name"`
	UserID     uuid.UUID `json:"user_id"`
	Status     string    `json:"status"`
	TargetRole string    `json:"target_role,omitempty"`
	FactsOnly  bool      `json:"facts_only,omitempty"`
}

type SessionUpdate struct {
	SessionID uuid.UUID `json:"session_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ResumeResult is one entry of the persisted session results.
type ResumeResult struct {
	ResumeID uuid.UUID        `json:"resume_id"`
	Filename string           `json:"filename"`
	Analysis *analysis.Result `json:"analysis,omitempty"`
	// Error result entry
	IsErrorResult bool   `json:"is_error_result"`
	ErrorKind     string `json:"error_kind,omitempty"`
	Error         string `json:"error,omitempty"`
}
