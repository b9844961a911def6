package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerpulse/backend/internal/domain/cabinet"
	"github.com/sellerpulse/backend/internal/domain/shared"
	"github.com/sellerpulse/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCabinetService struct {
	registerFn func(ctx context.Context, name, token string) (*cabinet.Cabinet, error)
	rotateFn   func(ctx context.Context, id uuid.UUID, token string) (*cabinet.Cabinet, error)
}

func (s *stubCabinetService) Register(ctx context.Context, name, token string) (*cabinet.Cabinet, error) {
	return s.registerFn(ctx, name, token)
}

func (s *stubCabinetService) RotateToken(ctx context.Context, id uuid.UUID, token string) (*cabinet.Cabinet, error) {
	return s.rotateFn(ctx, id, token)
}

type stubRemover struct {
	deleted []uuid.UUID
	err     error
}

func (s *stubRemover) Delete(_ context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubCabinetRepo struct {
	byID map[uuid.UUID]*cabinet.Cabinet
}

func (r *stubCabinetRepo) FindByID(_ context.Context, id uuid.UUID) (*cabinet.Cabinet, error) {
	if cab, ok := r.byID[id]; ok {
		return cab, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubCabinetRepo) FindAll(_ context.Context) ([]cabinet.Cabinet, error) {
	out := make([]cabinet.Cabinet, 0, len(r.byID))
	for _, cab := range r.byID {
		out = append(out, *cab)
	}
	return out, nil
}

func (r *stubCabinetRepo) FindSyncable(_ context.Context) ([]cabinet.Cabinet, error) {
	return nil, nil
}

func (r *stubCabinetRepo) Save(_ context.Context, c *cabinet.Cabinet) error {
	r.byID[c.ID] = c
	return nil
}

func (r *stubCabinetRepo) SaveNote(_ context.Context, _ *cabinet.Note) error { return nil }

func newCabinetRouter(service CabinetService, remover CabinetRemover, repo cabinet.Repository) *gin.Engine {
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewCabinetHandler(service, remover, repo).RegisterRoutes(api)
	return engine
}

func mustCabinet(t *testing.T, name string) *cabinet.Cabinet {
	t.Helper()
	cab, err := cabinet.NewCabinet(name, "tok")
	require.NoError(t, err)
	return cab
}

func decodeResponse(t *testing.T, body *bytes.Buffer) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(body.Bytes(), &resp))
	return resp
}

func TestCabinetHandler_Register(t *testing.T) {
	t.Run("creates a cabinet", func(t *testing.T) {
		cab := mustCabinet(t, "Main store")
		cab.MarkTokenValid()
		service := &stubCabinetService{
			registerFn: func(_ context.Context, name, token string) (*cabinet.Cabinet, error) {
				assert.Equal(t, "Main store", name)
				assert.Equal(t, "secret", token)
				return cab, nil
			},
		}
		engine := newCabinetRouter(service, &stubRemover{}, &stubCabinetRepo{byID: map[uuid.UUID]*cabinet.Cabinet{}})

		body := bytes.NewBufferString(`{"name":"Main store","api_token":"secret"}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cabinets", body)
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w.Body)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, cab.ID.String(), data["id"])
		assert.Equal(t, true, data["token_valid"])
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		engine := newCabinetRouter(&stubCabinetService{}, &stubRemover{}, &stubCabinetRepo{byID: map[uuid.UUID]*cabinet.Cabinet{}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cabinets", bytes.NewBufferString(`{"name":"No token"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps domain errors", func(t *testing.T) {
		service := &stubCabinetService{
			registerFn: func(_ context.Context, _, _ string) (*cabinet.Cabinet, error) {
				return nil, shared.NewDomainError("INVALID_NAME", "Cabinet name cannot be empty")
			},
		}
		engine := newCabinetRouter(service, &stubRemover{}, &stubCabinetRepo{byID: map[uuid.UUID]*cabinet.Cabinet{}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cabinets", bytes.NewBufferString(`{"name":" ","api_token":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w.Body)
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	})
}

func TestCabinetHandler_Get(t *testing.T) {
	cab := mustCabinet(t, "Main store")
	repo := &stubCabinetRepo{byID: map[uuid.UUID]*cabinet.Cabinet{cab.ID: cab}}
	engine := newCabinetRouter(&stubCabinetService{}, &stubRemover{}, repo)

	t.Run("returns the cabinet", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cabinets/"+cab.ID.String(), nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w.Body)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "Main store", data["name"])
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cabinets/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cabinets/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCabinetHandler_RotateToken(t *testing.T) {
	cab := mustCabinet(t, "Main store")
	service := &stubCabinetService{
		rotateFn: func(_ context.Context, id uuid.UUID, token string) (*cabinet.Cabinet, error) {
			if id != cab.ID {
				return nil, shared.ErrNotFound
			}
			assert.Equal(t, "fresh", token)
			return cab, nil
		},
	}
	engine := newCabinetRouter(service, &stubRemover{}, &stubCabinetRepo{byID: map[uuid.UUID]*cabinet.Cabinet{}})

	t.Run("rotates", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/cabinets/"+cab.ID.String()+"/token",
			bytes.NewBufferString(`{"api_token":"fresh"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown cabinet is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/cabinets/"+uuid.NewString()+"/token",
			bytes.NewBufferString(`{"api_token":"fresh"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCabinetHandler_Delete(t *testing.T) {
	t.Run("removes the cabinet", func(t *testing.T) {
		remover := &stubRemover{}
		engine := newCabinetRouter(&stubCabinetService{}, remover, &stubCabinetRepo{byID: map[uuid.UUID]*cabinet.Cabinet{}})

		id := uuid.New()
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/cabinets/"+id.String(), nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		require.Len(t, remover.deleted, 1)
		assert.Equal(t, id, remover.deleted[0])
	})

	t.Run("unknown cabinet is 404", func(t *testing.T) {
		remover := &stubRemover{err: shared.ErrNotFound}
		engine := newCabinetRouter(&stubCabinetService{}, remover, &stubCabinetRepo{byID: map[uuid.UUID]*cabinet.Cabinet{}})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/cabinets/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
