package cabinet

import (
	"strings"

	"github.com/google/uuid"

	"github.com/sellerpulse/backend/internal/domain/shared"
)

// Note is a free-text operator note attached to a cabinet
type Note struct {
	shared.CabinetEntity
	Body string `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (Note) TableName() string {
	return "cabinet_notes"
}

// NewNote creates a note for the given cabinet
func NewNote(cabinetID uuid.UUID, body string) (*Note, error) {
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_NOTE", "Note body cannot be empty")
	}
	return &Note{
		CabinetEntity: shared.NewCabinetEntity(cabinetID),
		Body:          body,
	}, nil
}
