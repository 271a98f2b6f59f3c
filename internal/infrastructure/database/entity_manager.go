package database

import (
	"fmt"

	"orderpdf/internal/domain/entities"
	"orderpdf/internal/host"
)

var _ host.EntityManager = (*EntityManager)(nil)

// EntityManager maps entity names to repositories backed by one connection.
type EntityManager struct {
	db DBTX
}

// NewEntityManager creates an EntityManager over db.
func NewEntityManager(db DBTX) *EntityManager {
	return &EntityManager{db: db}
}

// GetRepository returns a fresh repository for entity.
func (em *EntityManager) GetRepository(entity string) (any, error) {
	switch entity {
	case entities.OrderPdfEntity:
		return NewOrderPdfRepository(em.db), nil
	default:
		return nil, fmt.Errorf("repository %q: %w", entity, host.ErrUnknownEntity)
	}
}
