package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/careermatchworker/internal/analysis"
	"github.com/muhammadolammi/careermatchworker/internal/catalog"
	"github.com/muhammadolammi/careermatchworker/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	resumes        []database.Resume
	getErr         error
	upsertErr      error
	upsertCalls    int
	upserts        []database.UpsertAnalysisResultParams
	statuses       []database.UpdateSessionStatusParams
	resumeStatuses []database.UpdateResumeAnalysisStatusParams
}

func (f *fakeStore) GetResumesBySession(_ context.Context, _ uuid.UUID) ([]database.Resume, error) {
	return f.resumes, f.getErr
}

func (f *fakeStore) UpdateSessionStatus(_ context.Context, arg database.UpdateSessionStatusParams) error {
	f.statuses = append(f.statuses, arg)
	return nil
}

func (f *fakeStore) UpdateResumeAnalysisStatus(_ context.Context, arg database.UpdateResumeAnalysisStatusParams) error {
	f.resumeStatuses = append(f.resumeStatuses, arg)
	return nil
}

func (f *fakeStore) UpsertAnalysisResult(_ context.Context, arg database.UpsertAnalysisResultParams) error {
	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, arg)
	return nil
}

func (f *fakeStore) statusNames() []string {
	var out []string
	for _, s := range f.statuses {
		out = append(out, s.Status)
	}
	return out
}

type fakeFiles struct {
	objects  map[string]string
	failures map[string]int
	calls    map[string]int
}

func (f *fakeFiles) Download(_ context.Context, key string) ([]byte, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[key]++
	if f.failures[key] > 0 {
		f.failures[key]--
		return nil, errors.New("connection reset by peer")
	}
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return []byte(body), nil
}

type fakePublisher struct {
	updates []SessionUpdate
	err     error
}

func (f *fakePublisher) Publish(u SessionUpdate) error {
	f.updates = append(f.updates, u)
	return f.err
}

// plainText treats the stored bytes as already extracted text.
type plainText struct{}

func (plainText) Extract(_ context.Context, data []byte, _ string) (string, error) {
	return string(data), nil
}

func newWorker(t *testing.T, store *fakeStore, files *fakeFiles, pub *fakePublisher) *Worker {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return &Worker{
		DB:        store,
		Files:     files,
		Analyzer:  analysis.New(c, plainText{}, analysis.WithClock(func() time.Time { return fixedNow })),
		Publisher: pub,
		Logger:    zaptest.NewLogger(t),
		Backoff:   func(int) time.Duration { return 0 },
		Now:       func() time.Time { return fixedNow },
	}
}

func resume(key, mime string) database.Resume {
	return database.Resume{
		ID:               uuid.New(),
		OriginalFilename: key,
		Mime:             mime,
		ObjectKey:        key,
	}
}

func sessionMessage(t *testing.T, s Session) []byte {
	t.Helper()
	body, err := json.Marshal(s)
	require.NoError(t, err)
	return body
}

func TestHandleMessage_Completed(t *testing.T) {
	store := &fakeStore{resumes: []database.Resume{
		resume("jane.pdf", "application/pdf"),
		resume("photo.png", "image/png"),
	}}
	files := &fakeFiles{objects: map[string]string{
		"jane.pdf":  "Jane Doe\nPython, Docker and Git\n2019 - Present",
		"photo.png": "not a resume",
	}}
	pub := &fakePublisher{}
	w := newWorker(t, store, files, pub)

	id := uuid.New()
	err := w.HandleMessage(context.Background(), sessionMessage(t, Session{ID: id, Name: "batch"}))
	require.NoError(t, err)

	assert.Equal(t, []string{StatusProcessing, StatusCompleted}, store.statusNames())
	assert.Equal(t, "analysis completed: 1 of 2 resumes failed", store.statuses[1].StatusMessage)

	require.Len(t, pub.updates, 2)
	assert.Equal(t, SessionUpdate{
		SessionID: id,
		Status:    StatusCompleted,
		Message:   "analysis completed: 1 of 2 resumes failed",
		Timestamp: fixedNow,
	}, pub.updates[1])

	require.Len(t, store.resumeStatuses, 2)
	assert.Equal(t, ResumeAnalyzed, store.resumeStatuses[0].AnalysisStatus)
	assert.Equal(t, ResumeFailed, store.resumeStatuses[1].AnalysisStatus)

	require.Len(t, store.upserts, 1)
	saved := store.upserts[0]
	assert.Equal(t, id, saved.SessionID)
	assert.EqualValues(t, 2, saved.ResumeCount)
	assert.EqualValues(t, 1, saved.FailedCount)

	var results []ResumeResult
	require.NoError(t, json.Unmarshal(saved.Results, &results))
	require.Len(t, results, 2)

	assert.False(t, results[0].IsErrorResult)
	require.NotNil(t, results[0].Analysis)
	assert.Equal(t, []string{"Docker", "Git", "Python"}, results[0].Analysis.Skills)
	assert.Equal(t, "Jane Doe", results[0].Analysis.PersonalInfo.Name)
	require.NotNil(t, results[0].Analysis.CareerRecommendations)

	assert.True(t, results[1].IsErrorResult)
	assert.Nil(t, results[1].Analysis)
	assert.Equal(t, analysis.KindUnsupportedMediaType, results[1].ErrorKind)
	assert.Equal(t, "photo.png", results[1].Filename)
}

func TestHandleMessage_FactsOnly(t *testing.T) {
	store := &fakeStore{resumes: []database.Resume{resume("a.pdf", "application/pdf")}}
	files := &fakeFiles{objects: map[string]string{"a.pdf": "Go and Python"}}
	w := newWorker(t, store, files, &fakePublisher{})

	err := w.HandleMessage(context.Background(), sessionMessage(t, Session{ID: uuid.New(), FactsOnly: true}))
	require.NoError(t, err)

	require.Len(t, store.upserts, 1)
	assert.NotContains(t, string(store.upserts[0].Results), "career_recommendations")
	assert.Contains(t, string(store.upserts[0].Results), `"skills":["Go","Python"]`)
}

func TestHandleMessage_NeverStoresRawText(t *testing.T) {
	const secret = "Jane Doe\nconfidential salary history 123456"
	store := &fakeStore{resumes: []database.Resume{resume("a.pdf", "application/pdf")}}
	files := &fakeFiles{objects: map[string]string{"a.pdf": secret}}
	w := newWorker(t, store, files, &fakePublisher{})

	require.NoError(t, w.HandleMessage(context.Background(), sessionMessage(t, Session{ID: uuid.New()})))
	require.Len(t, store.upserts, 1)
	assert.NotContains(t, string(store.upserts[0].Results), "confidential")
}

func TestProcessSession_DownloadRetries(t *testing.T) {
	store := &fakeStore{resumes: []database.Resume{
		resume("flaky.pdf", "application/pdf"),
		resume("gone.pdf", "application/pdf"),
	}}
	files := &fakeFiles{
		objects:  map[string]string{"flaky.pdf": "Python"},
		failures: map[string]int{"flaky.pdf": 2},
	}
	w := newWorker(t, store, files, &fakePublisher{})

	summary, err := w.ProcessSession(context.Background(), Session{ID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, Summary{Resumes: 2, Failed: 1}, summary)
	assert.Equal(t, 3, files.calls["flaky.pdf"])
	assert.Equal(t, 3, files.calls["gone.pdf"])

	var results []ResumeResult
	require.NoError(t, json.Unmarshal(store.upserts[0].Results, &results))
	assert.False(t, results[0].IsErrorResult)
	assert.Equal(t, KindDownloadFailed, results[1].ErrorKind)
	assert.Contains(t, results[1].Error, "NoSuchKey")
}

func TestHandleMessage_Failures(t *testing.T) {
	tests := []struct {
		name       string
		store      *fakeStore
		wantErr    error
		wantUpsert int
	}{
		{
			name:    "no resumes",
			store:   &fakeStore{},
			wantErr: analysis.ErrMissingInput,
		},
		{
			name: "database unavailable",
			store: &fakeStore{
				getErr: errors.New("connection refused"),
			},
		},
		{
			name: "upsert keeps failing",
			store: &fakeStore{
				resumes:   []database.Resume{resume("a.pdf", "application/pdf")},
				upsertErr: errors.New("deadlock detected"),
			},
			wantUpsert: defaultAttempts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			files := &fakeFiles{objects: map[string]string{"a.pdf": "Python"}}
			w := newWorker(t, tt.store, files, pub)

			err := w.HandleMessage(context.Background(), sessionMessage(t, Session{ID: uuid.New()}))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, []string{StatusProcessing, StatusFailed}, tt.store.statusNames())
			assert.Equal(t, "analysis failed", pub.updates[len(pub.updates)-1].Message)
			assert.Equal(t, tt.wantUpsert, tt.store.upsertCalls)
		})
	}
}

func TestHandleMessage_Malformed(t *testing.T) {
	t.Run("no id", func(t *testing.T) {
		store := &fakeStore{}
		pub := &fakePublisher{}
		w := newWorker(t, store, &fakeFiles{}, pub)

		err := w.HandleMessage(context.Background(), []byte(`{not json`))
		require.Error(t, err)
		assert.Empty(t, store.statuses)
		assert.Empty(t, pub.updates)
	})

	t.Run("id decoded before bad field", func(t *testing.T) {
		store := &fakeStore{}
		pub := &fakePublisher{}
		w := newWorker(t, store, &fakeFiles{}, pub)

		id := uuid.New()
		err := w.HandleMessage(context.Background(), []byte(`{"id":"`+id.String()+`","facts_only":"yes"}`))
		require.Error(t, err)
		assert.Equal(t, []string{StatusFailed}, store.statusNames())
		require.Len(t, pub.updates, 1)
		assert.Equal(t, id, pub.updates[0].SessionID)
	})

	t.Run("missing id", func(t *testing.T) {
		store := &fakeStore{}
		w := newWorker(t, store, &fakeFiles{}, &fakePublisher{})

		err := w.HandleMessage(context.Background(), []byte(`{"name":"batch"}`))
		require.ErrorIs(t, err, analysis.ErrMissingInput)
		assert.Empty(t, store.statuses)
	})
}

func TestHandleMessage_Cancelled(t *testing.T) {
	store := &fakeStore{resumes: []database.Resume{resume("a.pdf", "application/pdf")}}
	w := newWorker(t, store, &fakeFiles{objects: map[string]string{"a.pdf": "Python"}}, &fakePublisher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.HandleMessage(ctx, sessionMessage(t, Session{ID: uuid.New()}))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{StatusProcessing}, store.statusNames())
	assert.Empty(t, store.upserts)
}

func TestHandleMessage_PublishFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := &fakeStore{resumes: []database.Resume{resume("a.pdf", "application/pdf")}}
	w := newWorker(t, store, &fakeFiles{objects: map[string]string{"a.pdf": "Python"}}, &fakePublisher{err: errors.New("channel closed")})
	w.Logger = zap.New(core)

	require.NoError(t, w.HandleMessage(context.Background(), sessionMessage(t, Session{ID: uuid.New()})))
	assert.Equal(t, []string{StatusProcessing, StatusCompleted}, store.statusNames())
	assert.Equal(t, 2, logs.FilterMessage("failed to publish update").Len())
	assert.Equal(t, 1, logs.FilterMessage("session analyzed").Len())
}

func TestSummaryMessage(t *testing.T) {
	assert.Equal(t, "analysis completed", Summary{Resumes: 3}.Message())
	assert.Equal(t, "analysis completed: 3 of 3 resumes failed", Summary{Resumes: 3, Failed: 3}.Message())
}

func TestRoutingKey(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, "session.6ba7b810-9dad-11d1-80b4-00c04fd430c8", RoutingKey(id))
}

func TestHandleMessage_NilLogger(t *testing.T) {
	store := &fakeStore{resumes: []database.Resume{resume("a.pdf", "application/pdf")}}
	w := newWorker(t, store, &fakeFiles{objects: map[string]string{"a.pdf": "Python"}}, &fakePublisher{})
	w.Logger = nil

	require.NoError(t, w.HandleMessage(context.Background(), sessionMessage(t, Session{ID: uuid.New()})))
	assert.Equal(t, []string{StatusProcessing, StatusCompleted}, store.statusNames())
}
