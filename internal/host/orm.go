package host

import "errors"

// ErrUnknownEntity is returned by an EntityManager for unmapped entities.
var ErrUnknownEntity = errors.New("host: unknown entity")

// EntityManager hands out repositories for persisted entity types.
type EntityManager interface {
	GetRepository(entity string) (any, error)
}
