package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"orderpdf/internal/domain"
	"orderpdf/internal/domain/entities"
	"orderpdf/internal/ports/output"
)

var _ output.OrderPdfRepository = (*OrderPdfRepository)(nil)

// DBTX is the subset of pgxpool.Pool, pgx.Conn and pgx.Tx the repository uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const selectOrderPdf = `
SELECT member_id, title, message1, message2, message3, note1, note2, note3,
       del_flg, create_date, update_date
  FROM plg_order_pdf
 WHERE member_id = $1 AND del_flg = 0`

const upsertOrderPdf = `
INSERT INTO plg_order_pdf (member_id, title, message1, message2, message3, note1, note2, note3, del_flg)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)
ON CONFLICT (member_id) DO UPDATE
   SET title = EXCLUDED.title,
       message1 = EXCLUDED.message1,
       message2 = EXCLUDED.message2,
       message3 = EXCLUDED.message3,
       note1 = EXCLUDED.note1,
       note2 = EXCLUDED.note2,
       note3 = EXCLUDED.note3,
       del_flg = 0,
       update_date = now()
RETURNING create_date, update_date`

// OrderPdfRepository implements output.OrderPdfRepository using pgx.
type OrderPdfRepository struct {
	db DBTX
}

// NewOrderPdfRepository creates an OrderPdfRepository.
func NewOrderPdfRepository(db DBTX) *OrderPdfRepository {
	return &OrderPdfRepository{db: db}
}

func (r *OrderPdfRepository) FindByMemberID(ctx context.Context, memberID int64) (*entities.OrderPdf, error) {
	var row orderPdfRow
	if err := r.db.QueryRow(ctx, selectOrderPdf, memberID).Scan(row.scanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderPdfNotFound
		}
		return nil, fmt.Errorf("get order pdf by member id: %w", err)
	}
	o := orderPdfToDomain(row)
	return &o, nil
}

func (r *OrderPdfRepository) Save(ctx context.Context, settings *entities.OrderPdf) error {
	var created, updated pgtype.Timestamptz
	err := r.db.QueryRow(ctx, upsertOrderPdf,
		settings.MemberID,
		nullableText(settings.Title),
		nullableText(settings.Message1),
		nullableText(settings.Message2),
		nullableText(settings.Message3),
		nullableText(settings.Note1),
		nullableText(settings.Note2),
		nullableText(settings.Note3),
	).Scan(&created, &updated)
	if err != nil {
		return fmt.Errorf("save order pdf: %w", err)
	}
	settings.Deleted = false
	settings.CreatedAt = pgtypeTimestamptzToTime(created)
	settings.UpdatedAt = pgtypeTimestamptzToTime(updated)
	return nil
}
