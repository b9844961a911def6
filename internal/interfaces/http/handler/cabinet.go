package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sellerpulse/backend/internal/domain/cabinet"
)

// CabinetService covers cabinet registration and credential rotation
type CabinetService interface {
	Register(ctx context.Context, name, token string) (*cabinet.Cabinet, error)
	RotateToken(ctx context.Context, id uuid.UUID, token string) (*cabinet.Cabinet, error)
}

// CabinetRemover tears a cabinet down together with all of its mirrored data
type CabinetRemover interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// CabinetHandler handles cabinet management endpoints
type CabinetHandler struct {
	BaseHandler
	service  CabinetService
	remover  CabinetRemover
	cabinets cabinet.Repository
}

// NewCabinetHandler creates a new CabinetHandler
func NewCabinetHandler(service CabinetService, remover CabinetRemover, cabinets cabinet.Repository) *CabinetHandler {
	return &CabinetHandler{
		service:  service,
		remover:  remover,
		cabinets: cabinets,
	}
}

// RegisterRoutes registers cabinet routes
func (h *CabinetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cabinets := rg.Group("/cabinets")
	{
		cabinets.POST("", h.Register)
		cabinets.GET("", h.List)
		cabinets.GET("/:id", h.Get)
		cabinets.PUT("/:id/token", h.RotateToken)
		cabinets.DELETE("/:id", h.Delete)
	}
}

// RegisterCabinetRequest is the payload for creating a cabinet
type RegisterCabinetRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	APIToken string `json:"api_token" binding:"required"`
}

// RotateTokenRequest is the payload for replacing a cabinet credential
type RotateTokenRequest struct {
	APIToken string `json:"api_token" binding:"required"`
}

// CabinetResponse represents a cabinet in API responses
type CabinetResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	TokenValid   bool       `json:"token_valid"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toCabinetResponse(cab *cabinet.Cabinet) CabinetResponse {
	return CabinetResponse{
		ID:           cab.ID,
		Name:         cab.Name,
		TokenValid:   cab.TokenValid,
		LastSyncedAt: cab.LastSyncedAt,
		CreatedAt:    cab.CreatedAt,
		UpdatedAt:    cab.UpdatedAt,
	}
}

// Register creates a cabinet and validates its credential against the
// marketplace; a rejected credential still registers the cabinet
func (h *CabinetHandler) Register(c *gin.Context) {
	var req RegisterCabinetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cab, err := h.service.Register(c.Request.Context(), req.Name, req.APIToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toCabinetResponse(cab))
}

// List returns all cabinets
func (h *CabinetHandler) List(c *gin.Context) {
	cabs, err := h.cabinets.FindAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]CabinetResponse, 0, len(cabs))
	for i := range cabs {
		responses = append(responses, toCabinetResponse(&cabs[i]))
	}
	h.Success(c, responses)
}

// Get returns a single cabinet by ID
func (h *CabinetHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cabinet ID")
		return
	}

	cab, err := h.cabinets.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCabinetResponse(cab))
}

// RotateToken replaces the cabinet credential and revalidates it
func (h *CabinetHandler) RotateToken(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cabinet ID")
		return
	}

	var req RotateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cab, err := h.service.RotateToken(c.Request.Context(), id, req.APIToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCabinetResponse(cab))
}

// Delete removes the cabinet and every row mirrored for it
func (h *CabinetHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cabinet ID")
		return
	}

	if err := h.remover.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
