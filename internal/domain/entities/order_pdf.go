package entities

import "time"

// OrderPdfEntity is the name the ORM maps to OrderPdf.
const OrderPdfEntity = "OrderPdf"

// OrderPdf holds the PDF settings an administrator saved as defaults.
type OrderPdf struct {
	MemberID  int64 // administrator id, one row per administrator
	Title     string
	Message1  string
	Message2  string
	Message3  string
	Note1     string
	Note2     string
	Note3     string
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Messages returns the three message lines in order.
func (o *OrderPdf) Messages() [3]string {
	return [3]string{o.Message1, o.Message2, o.Message3}
}

// Notes returns the three note lines in order.
func (o *OrderPdf) Notes() [3]string {
	return [3]string{o.Note1, o.Note2, o.Note3}
}
