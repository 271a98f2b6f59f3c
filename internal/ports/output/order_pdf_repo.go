package output

import (
	"context"

	"orderpdf/internal/domain/entities"
)

type OrderPdfRepository interface {
	// FindByMemberID returns domain.ErrOrderPdfNotFound when the
	// administrator has no saved settings.
	FindByMemberID(ctx context.Context, memberID int64) (*entities.OrderPdf, error)
	Save(ctx context.Context, settings *entities.OrderPdf) error
}
