package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	cabinetID := uuid.New()

	t.Run("creates a card", func(t *testing.T) {
		item, err := NewItem(cabinetID, 101, "Wool socks")
		require.NoError(t, err)
		assert.Equal(t, cabinetID, item.CabinetID)
		assert.Equal(t, int64(101), item.NmID)
	})

	t.Run("rejects non-positive nm id", func(t *testing.T) {
		_, err := NewItem(cabinetID, 0, "x")
		assert.Error(t, err)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewItem(cabinetID, 101, " ")
		assert.Error(t, err)
	})
}

func TestItem_ApplyCard(t *testing.T) {
	item, err := NewItem(uuid.New(), 101, "Wool socks")
	require.NoError(t, err)

	item.ApplyCard("Wool socks v2", "Acme", "Socks", "WS-2")
	assert.Equal(t, "Wool socks v2", item.Title)
	assert.Equal(t, "Acme", item.Brand)

	// an empty remote title never erases the stored one
	item.ApplyCard("", "Acme", "Socks", "WS-2")
	assert.Equal(t, "Wool socks v2", item.Title)
}

func TestItem_ApplyRating(t *testing.T) {
	item, err := NewItem(uuid.New(), 101, "Wool socks")
	require.NoError(t, err)

	item.ApplyRating(4.5, 12)
	assert.Equal(t, 4.5, item.Rating)
	assert.Equal(t, 12, item.ReviewCount)
}

func TestNewPriceSnapshot(t *testing.T) {
	day := time.Date(2024, 5, 7, 13, 30, 0, 0, time.UTC)
	snap, err := NewPriceSnapshot(uuid.New(), 101, day, "M",
		decimal.NewFromInt(1000), decimal.NewFromInt(800))
	require.NoError(t, err)

	// snapshots are keyed by calendar day
	assert.Equal(t, time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), snap.Date)
	assert.True(t, snap.Price.Equal(decimal.NewFromInt(1000)))
}

func TestStockSnapshot_ApplyAmount(t *testing.T) {
	snap, err := NewStockSnapshot(uuid.New(), 101, 7, "2000001", 5)
	require.NoError(t, err)

	snap.ApplyAmount(12)
	assert.Equal(t, 12, snap.Amount)
}
