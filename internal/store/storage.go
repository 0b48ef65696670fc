package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("ad not found")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Ads interface {
		List(ctx context.Context, position string) ([]Ad, error)
		BulkUpsert(ctx context.Context, writes []AdWrite) ([]Ad, error)
		UpdateOne(ctx context.Context, id int64, content string, position Position, order int) (*Ad, error)
		DeleteOne(ctx context.Context, id int64) (*Ad, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Ads: &AdsStore{db},
	}
}
