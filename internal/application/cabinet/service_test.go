package cabinet

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sellerpulse/backend/internal/domain/cabinet"
	"github.com/sellerpulse/backend/internal/domain/shared"
	"github.com/sellerpulse/backend/internal/infrastructure/marketplace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryRepo is an in-memory cabinet.Repository for service tests
type memoryRepo struct {
	cabinets map[uuid.UUID]cabinet.Cabinet
	saves    int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{cabinets: make(map[uuid.UUID]cabinet.Cabinet)}
}

func (r *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*cabinet.Cabinet, error) {
	c, ok := r.cabinets[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r *memoryRepo) FindAll(_ context.Context) ([]cabinet.Cabinet, error) {
	var all []cabinet.Cabinet
	for _, c := range r.cabinets {
		all = append(all, c)
	}
	return all, nil
}

func (r *memoryRepo) FindSyncable(_ context.Context) ([]cabinet.Cabinet, error) {
	var out []cabinet.Cabinet
	for _, c := range r.cabinets {
		if c.Syncable() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepo) Save(_ context.Context, c *cabinet.Cabinet) error {
	r.cabinets[c.ID] = *c
	r.saves++
	return nil
}

func (r *memoryRepo) SaveNote(_ context.Context, _ *cabinet.Note) error { return nil }

// pingerFunc adapts a function to the Pinger interface
type pingerFunc func(ctx context.Context, token string) error

func (f pingerFunc) Ping(ctx context.Context, token string) error { return f(ctx, token) }

func TestService_Register(t *testing.T) {
	t.Run("accepted token registers a syncable cabinet", func(t *testing.T) {
		repo := newMemoryRepo()
		svc := NewService(repo, pingerFunc(func(context.Context, string) error { return nil }), zap.NewNop())

		cab, err := svc.Register(context.Background(), "main", "good-token")

		require.NoError(t, err)
		assert.True(t, cab.TokenValid)
		assert.True(t, cab.Syncable())
		assert.Equal(t, 1, repo.saves)
	})

	t.Run("rejected token registers an unsyncable cabinet", func(t *testing.T) {
		repo := newMemoryRepo()
		svc := NewService(repo, pingerFunc(func(context.Context, string) error {
			return &marketplace.APIError{Kind: marketplace.KindRemote, Status: 401}
		}), zap.NewNop())

		cab, err := svc.Register(context.Background(), "main", "bad-token")

		require.NoError(t, err)
		assert.False(t, cab.TokenValid)
		assert.False(t, cab.Syncable())
		assert.Equal(t, 1, repo.saves)
	})

	t.Run("transport failure does not register", func(t *testing.T) {
		repo := newMemoryRepo()
		netErr := errors.New("connection refused")
		svc := NewService(repo, pingerFunc(func(context.Context, string) error { return netErr }), zap.NewNop())

		_, err := svc.Register(context.Background(), "main", "token")

		assert.ErrorIs(t, err, netErr)
		assert.Zero(t, repo.saves)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		repo := newMemoryRepo()
		svc := NewService(repo, pingerFunc(func(context.Context, string) error { return nil }), zap.NewNop())

		_, err := svc.Register(context.Background(), "  ", "token")

		assert.Error(t, err)
		assert.Zero(t, repo.saves)
	})
}

func TestService_RotateToken(t *testing.T) {
	seed := func(t *testing.T, repo *memoryRepo, valid bool) *cabinet.Cabinet {
		t.Helper()
		cab, err := cabinet.NewCabinet("main", "old-token")
		require.NoError(t, err)
		if valid {
			cab.MarkTokenValid()
		}
		require.NoError(t, repo.Save(context.Background(), cab))
		repo.saves = 0
		return cab
	}

	t.Run("accepted replacement becomes the active token", func(t *testing.T) {
		repo := newMemoryRepo()
		cab := seed(t, repo, true)

		var pinged string
		svc := NewService(repo, pingerFunc(func(_ context.Context, token string) error {
			pinged = token
			return nil
		}), zap.NewNop())

		updated, err := svc.RotateToken(context.Background(), cab.ID, "new-token")

		require.NoError(t, err)
		assert.Equal(t, "new-token", pinged)
		assert.Equal(t, "new-token", updated.APIToken)
		assert.True(t, updated.TokenValid)
	})

	t.Run("rejected replacement leaves the cabinet unsyncable", func(t *testing.T) {
		repo := newMemoryRepo()
		cab := seed(t, repo, true)

		svc := NewService(repo, pingerFunc(func(context.Context, string) error {
			return &marketplace.APIError{Kind: marketplace.KindRemote, Status: 401}
		}), zap.NewNop())

		updated, err := svc.RotateToken(context.Background(), cab.ID, "bad-token")

		require.NoError(t, err)
		assert.False(t, updated.TokenValid)

		stored, err := repo.FindByID(context.Background(), cab.ID)
		require.NoError(t, err)
		assert.False(t, stored.Syncable())
	})

	t.Run("unknown cabinet returns not found", func(t *testing.T) {
		repo := newMemoryRepo()
		svc := NewService(repo, pingerFunc(func(context.Context, string) error { return nil }), zap.NewNop())

		_, err := svc.RotateToken(context.Background(), uuid.New(), "token")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
