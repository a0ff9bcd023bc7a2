package domain

import (
	"context"
	"time"
)

type Review struct {
	ID        int
	TourID    int
	UserID    int
	UserName  string
	Rating    int
	Review    string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

type ReviewRepository interface {
	// Create inserts the review and recomputes the tour's rating
	// aggregates in the same transaction.
	Create(ctx context.Context, review *Review) error
	GetById(ctx context.Context, id int) (*Review, error)
	GetByTourId(ctx context.Context, tourId int, pagination Pagination) ([]Review, *Metadata, error)
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id int) error
}
