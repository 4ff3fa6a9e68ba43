package domain

import (
	"context"
	"time"
)

type URL struct {
	ID          int64     `json:"id"`
	ShortKey    string    `json:"short_key"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type ShortURL struct {
	ShortKey string `json:"shortKey"`
	ShortURL string `json:"shortUrl"`
}

type InsertResultEnum int

const (
	UnknownInsertResultEnum InsertResultEnum = iota
	CreatedInsertResultEnum
	ConflictInsertResultEnum
)

func (i InsertResultEnum) String() string {
	switch i {
	case CreatedInsertResultEnum:
		return "created"
	case ConflictInsertResultEnum:
		return "conflict"
	default:
		return "unknown"
	}
}

// InsertResult reports the outcome of URLRepo.Insert. A unique-constraint
// violation is a Conflict result, never an error.
type InsertResult struct {
	Status InsertResultEnum
	URL    *URL
}

type URLRepo interface {
	Insert(ctx context.Context, url *URL) (*InsertResult, error)
	GetByOriginalURL(ctx context.Context, originalURL string) (*URL, error)
	GetByShortKey(ctx context.Context, shortKey string) (*URL, error)
}

type URLCache interface {
	Get(ctx context.Context, shortKey string) (originalURL string, exists bool, err error)
	Set(ctx context.Context, shortKey, originalURL string) error
}

type IDGenerator interface {
	NextID() (int64, error)
}

type KeyEncoder interface {
	Encode(id int64) (string, error)
}

type URLValidator interface {
	IsValidURL(rawURL string) bool
}

type URLUseCase interface {
	Create(ctx context.Context, longURL string) (*ShortURL, error)
	Resolve(ctx context.Context, shortKey string) (string, error)
}
