// Package worker consumes session messages, analyzes every resume in the
// session and stores the aggregated results.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/careermatchworker/internal/analysis"
	"github.com/muhammadolammi/careermatchworker/internal/database"
	"github.com/muhammadolammi/careermatchworker/internal/logger"
	"go.uber.org/zap"
)

const defaultAttempts = 3

// Store is the subset of database queries the worker needs.
type Store interface {
	GetResumesBySession(ctx context.Context, sessionID uuid.UUID) ([]database.Resume, error)
	UpdateSessionStatus(ctx context.Context, arg database.UpdateSessionStatusParams) error
	UpdateResumeAnalysisStatus(ctx context.Context, arg database.UpdateResumeAnalysisStatusParams) error
	UpsertAnalysisResult(ctx context.Context, arg database.UpsertAnalysisResultParams) error
}

type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

type ResumeAnalyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

// Worker processes sessions. Zero values of Logger, Attempts, Backoff and
// Now fall back to defaults.
type Worker struct {
	DB        Store
	Files     Downloader
	Analyzer  ResumeAnalyzer
	Publisher Publisher
	Logger    *zap.Logger

	Attempts int
	Backoff  func(attempt int) time.Duration
	Now      func() time.Time
}

func (w *Worker) attempts() int {
	if w.Attempts > 0 {
		return w.Attempts
	}
	return defaultAttempts
}

func (w *Worker) backoff() func(int) time.Duration {
	if w.Backoff != nil {
		return w.Backoff
	}
	return linearBackoff
}

func (w *Worker) logger() *zap.Logger {
	return logger.Fallback(w.Logger)
}

func (w *Worker) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

// HandleMessage decodes a session message and processes it, publishing the
// processing, completed or failed updates along the way. A returned context
// error means the session was interrupted and should be redelivered.
func (w *Worker) HandleMessage(ctx context.Context, body []byte) error {
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		w.logger().Error("error unmarshalling message body", zap.Error(err))
		if s.ID != uuid.Nil {
			w.setStatus(ctx, s.ID, StatusFailed, "analysis failed: invalid session message")
		}
		return fmt.Errorf("error unmarshalling message body: %w", err)
	}
	if s.ID == uuid.Nil {
		w.logger().Error("session message without id")
		return fmt.Errorf("session message without id: %w", analysis.ErrMissingInput)
	}

	log := w.logger().With(zap.Stringer("session_id", s.ID))
	log.Info("processing session")
	w.setStatus(ctx, s.ID, StatusProcessing, "analysis started")

	summary, err := w.ProcessSession(ctx, s)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Warn("session interrupted", zap.Error(err))
		return err
	case err != nil:
		log.Error("error analyzing session", zap.Error(err))
		w.setStatus(ctx, s.ID, StatusFailed, "analysis failed")
		return err
	}

	log.Info("session analyzed",
		zap.Int("resumes", summary.Resumes),
		zap.Int("failed", summary.Failed),
	)
	w.setStatus(ctx, s.ID, StatusCompleted, summary.Message())
	return nil
}

// Summary counts the resumes of a processed session.
type Summary struct {
	Resumes int
	Failed  int
}

func (s Summary) Message() string {
	if s.Failed == 0 {
		return "analysis completed"
	}
	return fmt.Sprintf("analysis completed: %d of %d resumes failed", s.Failed, s.Resumes)
}

// ProcessSession analyzes every resume of s and upserts the results. A
// resume that fails is stored as an error entry and does not fail the
// session.
func (w *Worker) ProcessSession(ctx context.Context, s Session) (Summary, error) {
	resumes, err := w.DB.GetResumesBySession(ctx, s.ID)
	if err != nil {
		return Summary{}, fmt.Errorf("error getting resumes for session: %v, err: %w", s.ID, err)
	}
	if len(resumes) == 0 {
		return Summary{}, fmt.Errorf("session %v has no resumes: %w", s.ID, analysis.ErrMissingInput)
	}

	summary := Summary{Resumes: len(resumes)}
	results := make([]ResumeResult, 0, len(resumes))
	for _, resume := range resumes {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}

		result := w.analyzeResume(ctx, s, resume)
		status := ResumeAnalyzed
		if result.IsErrorResult {
			summary.Failed++
			status = ResumeFailed
		}
		if err := w.DB.UpdateResumeAnalysisStatus(ctx, database.UpdateResumeAnalysisStatusParams{
			AnalysisStatus: status,
			ID:             resume.ID,
		}); err != nil {
			w.logger().Warn("failed to update resume status", zap.Stringer("resume_id", resume.ID), zap.Error(err))
		}
		results = append(results, result)
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to marshal analysis results: %w", err)
	}

	_, err = retry(ctx, w.attempts(), w.backoff(), func() (struct{}, error) {
		return struct{}{}, w.DB.UpsertAnalysisResult(ctx, database.UpsertAnalysisResultParams{
			SessionID:   s.ID,
			Results:     resultsJSON,
			ResumeCount: int32(summary.Resumes),
			FailedCount: int32(summary.Failed),
		})
	})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to save analysis result after retries: %w", err)
	}
	return summary, nil
}

func (w *Worker) analyzeResume(ctx context.Context, s Session, resume database.Resume) ResumeResult {
	result := ResumeResult{ResumeID: resume.ID, Filename: resume.OriginalFilename}
	log := w.logger().With(zap.Stringer("session_id", s.ID), zap.String("object_key", resume.ObjectKey))

	data, err := retry(ctx, w.attempts(), w.backoff(), func() ([]byte, error) {
		return w.Files.Download(ctx, resume.ObjectKey)
	})
	if err != nil {
		log.Warn("failed to download resume after retries", zap.Error(err))
		result.IsErrorResult = true
		result.ErrorKind = KindDownloadFailed
		result.Error = fmt.Sprintf("file download error: %v", err)
		return result
	}

	res, err := w.Analyzer.Analyze(ctx, analysis.Request{
		Content:    data,
		MediaType:  resume.Mime,
		TargetRole: s.TargetRole,
		FactsOnly:  s.FactsOnly,
	})
	if err != nil {
		log.Warn("resume analysis failed", zap.Error(err))
		result.IsErrorResult = true
		result.ErrorKind = analysis.Kind(err)
		result.Error = err.Error()
		return result
	}

	result.Analysis = res
	return result
}

// setStatus records the session status and publishes the update. Both are
// best effort; failures are logged.
func (w *Worker) setStatus(ctx context.Context, id uuid.UUID, status, message string) {
	log := w.logger().With(zap.Stringer("session_id", id), zap.String("status", status))

	if err := w.DB.UpdateSessionStatus(context.WithoutCancel(ctx), database.UpdateSessionStatusParams{
		Status:        status,
		StatusMessage: message,
		ID:            id,
	}); err != nil {
		log.Error("error updating session status", zap.Error(err))
	}

	if err := w.Publisher.Publish(SessionUpdate{
		SessionID: id,
		Status:    status,
		Message:   message,
		Timestamp: w.now(),
	}); err != nil {
		log.Error("failed to publish update", zap.Error(err))
	}
}
