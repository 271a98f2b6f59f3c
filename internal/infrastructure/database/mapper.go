package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"orderpdf/internal/domain/entities"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// orderPdfRow mirrors a plg_order_pdf row.
type orderPdfRow struct {
	MemberID   int64
	Title      pgtype.Text
	Message1   pgtype.Text
	Message2   pgtype.Text
	Message3   pgtype.Text
	Note1      pgtype.Text
	Note2      pgtype.Text
	Note3      pgtype.Text
	DelFlg     int16
	CreateDate pgtype.Timestamptz
	UpdateDate pgtype.Timestamptz
}

func (r *orderPdfRow) scanTargets() []any {
	return []any{
		&r.MemberID, &r.Title,
		&r.Message1, &r.Message2, &r.Message3,
		&r.Note1, &r.Note2, &r.Note3,
		&r.DelFlg, &r.CreateDate, &r.UpdateDate,
	}
}

func orderPdfToDomain(r orderPdfRow) entities.OrderPdf {
	return entities.OrderPdf{
		MemberID:  r.MemberID,
		Title:     r.Title.String,
		Message1:  r.Message1.String,
		Message2:  r.Message2.String,
		Message3:  r.Message3.String,
		Note1:     r.Note1.String,
		Note2:     r.Note2.String,
		Note3:     r.Note3.String,
		Deleted:   r.DelFlg != 0,
		CreatedAt: pgtypeTimestamptzToTime(r.CreateDate),
		UpdatedAt: pgtypeTimestamptzToTime(r.UpdateDate),
	}
}

// nullableText stores empty strings as NULL.
func nullableText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
