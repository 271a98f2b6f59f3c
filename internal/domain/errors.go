package domain

import "errors"

// Domain errors.
var (
	ErrOrderPdfNotFound    = errors.New("order pdf settings not found")
	ErrNoOrders            = errors.New("no orders selected")
	ErrRendererUnavailable = errors.New("pdf renderer unavailable")
	ErrNotAuthenticated    = errors.New("administrator not authenticated")
)
