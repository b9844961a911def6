package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerpulse/backend/internal/infrastructure/scheduler"
)

type stubQueue struct {
	submitted []*scheduler.SyncJob
	submitErr error
	history   []*scheduler.SyncJob
}

func (q *stubQueue) Submit(job *scheduler.SyncJob) error {
	if q.submitErr != nil {
		return q.submitErr
	}
	q.submitted = append(q.submitted, job)
	return nil
}

func (q *stubQueue) JobHistory(limit int) []*scheduler.SyncJob {
	if limit > len(q.history) {
		limit = len(q.history)
	}
	return q.history[:limit]
}

func newSyncRouter(queue JobQueue) *gin.Engine {
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewSyncHandler(queue).RegisterRoutes(api)
	return engine
}

func postJSON(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestSyncHandler_Run(t *testing.T) {
	t.Run("empty body queues a full run", func(t *testing.T) {
		queue := &stubQueue{}
		engine := newSyncRouter(queue)

		w := postJSON(engine, "/api/v1/sync/run", "")

		require.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, queue.submitted, 1)
		job := queue.submitted[0]
		assert.Equal(t, uuid.Nil, job.CabinetID)
		assert.True(t, job.From.IsZero())
		assert.True(t, job.To.IsZero())
		assert.Equal(t, scheduler.SyncJobStatusPending, job.Status)
	})

	t.Run("explicit cabinet and window", func(t *testing.T) {
		queue := &stubQueue{}
		engine := newSyncRouter(queue)
		cabinetID := uuid.New()

		w := postJSON(engine, "/api/v1/sync/run",
			`{"cabinet_id":"`+cabinetID.String()+`","date_from":"2024-05-01","date_to":"2024-05-07"}`)

		require.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, queue.submitted, 1)
		job := queue.submitted[0]
		assert.Equal(t, cabinetID, job.CabinetID)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), job.From)
		assert.Equal(t, time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), job.To)
	})

	t.Run("rejects malformed cabinet id", func(t *testing.T) {
		w := postJSON(newSyncRouter(&stubQueue{}), "/api/v1/sync/run", `{"cabinet_id":"nope"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		w := postJSON(newSyncRouter(&stubQueue{}), "/api/v1/sync/run", `{"date_from":"01.05.2024"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		w := postJSON(newSyncRouter(&stubQueue{}), "/api/v1/sync/run",
			`{"date_from":"2024-05-07","date_to":"2024-05-01"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("full queue is 429", func(t *testing.T) {
		queue := &stubQueue{submitErr: scheduler.ErrJobQueueFull}
		w := postJSON(newSyncRouter(queue), "/api/v1/sync/run", "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("stopped scheduler is 503", func(t *testing.T) {
		queue := &stubQueue{submitErr: scheduler.ErrSchedulerNotRunning}
		w := postJSON(newSyncRouter(queue), "/api/v1/sync/run", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestSyncHandler_Jobs(t *testing.T) {
	jobA := scheduler.NewSyncJob(uuid.Nil, time.Time{}, time.Time{})
	jobA.Start()
	jobA.Complete(2, 0)
	jobB := scheduler.NewSyncJob(uuid.New(), time.Time{}, time.Time{})
	queue := &stubQueue{history: []*scheduler.SyncJob{jobA, jobB}}
	engine := newSyncRouter(queue)

	t.Run("returns history", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/jobs", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w.Body)
		jobs := resp.Data.([]interface{})
		require.Len(t, jobs, 2)
		first := jobs[0].(map[string]interface{})
		assert.Equal(t, string(scheduler.SyncJobStatusSuccess), first["status"])
	})

	t.Run("honors limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/jobs?limit=1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w.Body)
		assert.Len(t, resp.Data.([]interface{}), 1)
	})

	t.Run("rejects invalid limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/jobs?limit=zero", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
