package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sellerpulse/backend/internal/infrastructure/scheduler"
)

const dateLayout = "2006-01-02"

// JobQueue accepts sync jobs and exposes recent run history
type JobQueue interface {
	Submit(job *scheduler.SyncJob) error
	JobHistory(limit int) []*scheduler.SyncJob
}

// SyncHandler handles sync trigger and job history endpoints
type SyncHandler struct {
	BaseHandler
	queue JobQueue
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(queue JobQueue) *SyncHandler {
	return &SyncHandler{queue: queue}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/run", h.Run)
		sync.GET("/jobs", h.Jobs)
	}
}

// RunSyncRequest is the payload for triggering a mirror run. All fields
// are optional: an empty cabinet_id targets every syncable cabinet and
// an empty date range falls back to the configured lookback window.
type RunSyncRequest struct {
	CabinetID string `json:"cabinet_id"`
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
}

// SyncJobResponse represents a queued or completed job
type SyncJobResponse struct {
	ID          uuid.UUID  `json:"id"`
	CabinetID   string     `json:"cabinet_id,omitempty"`
	DateFrom    string     `json:"date_from,omitempty"`
	DateTo      string     `json:"date_to,omitempty"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Cabinets    int        `json:"cabinets"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
}

func toSyncJobResponse(job *scheduler.SyncJob) SyncJobResponse {
	resp := SyncJobResponse{
		ID:          job.ID,
		Status:      string(job.Status),
		Error:       job.Error,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
		Cabinets:    job.Cabinets,
		Succeeded:   job.Succeeded,
		Failed:      job.Failed,
	}
	if job.CabinetID != uuid.Nil {
		resp.CabinetID = job.CabinetID.String()
	}
	if !job.From.IsZero() {
		resp.DateFrom = job.From.Format(dateLayout)
	}
	if !job.To.IsZero() {
		resp.DateTo = job.To.Format(dateLayout)
	}
	return resp
}

// Run queues a mirror run and returns immediately
func (h *SyncHandler) Run(c *gin.Context) {
	var req RunSyncRequest
	// an absent body means a full default-window run
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	cabinetID := uuid.Nil
	if req.CabinetID != "" {
		parsed, err := uuid.Parse(req.CabinetID)
		if err != nil {
			h.BadRequest(c, "Invalid cabinet_id")
			return
		}
		cabinetID = parsed
	}

	var from, to time.Time
	var err error
	if req.DateFrom != "" {
		if from, err = time.Parse(dateLayout, req.DateFrom); err != nil {
			h.BadRequest(c, "Invalid date_from, expected YYYY-MM-DD")
			return
		}
	}
	if req.DateTo != "" {
		if to, err = time.Parse(dateLayout, req.DateTo); err != nil {
			h.BadRequest(c, "Invalid date_to, expected YYYY-MM-DD")
			return
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		h.BadRequest(c, "date_to precedes date_from")
		return
	}

	job := scheduler.NewSyncJob(cabinetID, from, to)
	if err := h.queue.Submit(job); err != nil {
		switch {
		case errors.Is(err, scheduler.ErrJobQueueFull):
			h.TooManyRequests(c, "Sync queue is full, retry later")
		case errors.Is(err, scheduler.ErrSchedulerNotRunning):
			h.Unavailable(c, "Sync scheduler is not running")
		default:
			h.HandleError(c, err)
		}
		return
	}

	h.Accepted(c, toSyncJobResponse(job))
}

// Jobs returns recent job history, newest first
func (h *SyncHandler) Jobs(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	jobs := h.queue.JobHistory(limit)
	responses := make([]SyncJobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, toSyncJobResponse(job))
	}
	h.Success(c, responses)
}
