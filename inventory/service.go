// Package inventory holds the dashboard join, the form controllers and the
// view router. It talks to the tables only through store.Store.
package inventory

import (
	"errors"

	"go.uber.org/zap"

	"stockroom/models"
	"stockroom/store"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrPrecondition = errors.New("precondition not met")
	ErrMissingStock = errors.New("stock record missing")
	ErrUnknownView  = errors.New("unknown view")
)

// Warning is a request rejected before any write. Kind is one of
// ErrValidation, ErrPrecondition or ErrMissingStock.
type Warning struct {
	Kind    error
	Message string
}

func (w *Warning) Error() string { return w.Message }

func (w *Warning) Unwrap() error { return w.Kind }

func (w *Warning) Notice() models.Notice {
	return models.Notice{Level: models.NoticeWarning, Message: w.Message}
}

// AsWarning reports whether err carries a Warning.
func AsWarning(err error) (*Warning, bool) {
	var w *Warning
	if errors.As(err, &w) {
		return w, true
	}
	return nil, false
}

func warn(kind error, msg string) error {
	return &Warning{Kind: kind, Message: msg}
}

func success(msg string) models.Notice {
	return models.Notice{Level: models.NoticeSuccess, Message: msg}
}

func info(msg string) models.Notice {
	return models.Notice{Level: models.NoticeInfo, Message: msg}
}

type Service struct {
	store     store.Store
	log       *zap.Logger
	threshold int
}

// NewService builds a Service. A non-positive lowStock falls back to
// DefaultLowStockThreshold.
func NewService(s store.Store, log *zap.Logger, lowStock int) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if lowStock <= 0 {
		lowStock = DefaultLowStockThreshold
	}
	return &Service{store: s, log: log, threshold: lowStock}
}
