package domain

import "github.com/pkg/errors"

var (
	ErrNoData = errors.New("no data")

	ErrInvalidURL         = errors.New("invalid url")
	ErrURLNotFound        = errors.New("short key not found")
	ErrFatalInconsistency = errors.New("mapping conflict without existing row")
	ErrEncodeFailed       = errors.New("encode id failed")
)
