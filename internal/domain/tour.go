package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

type Tour struct {
	ID              int
	Name            string
	Slug            string
	Duration        int
	MaxGroupSize    int
	Difficulty      Difficulty
	Price           decimal.Decimal
	Summary         string
	Description     string
	ImageCover      string
	RatingsAverage  decimal.Decimal
	RatingsQuantity int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int
}

// TourFilter narrows tour listings. Nil fields mean "no constraint".
type TourFilter struct {
	Difficulty *Difficulty
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

type TourRepository interface {
	Create(ctx context.Context, tour *Tour) error
	GetById(ctx context.Context, id int) (*Tour, error)
	GetAll(ctx context.Context, filter TourFilter, pagination Pagination) ([]Tour, *Metadata, error)
	Update(ctx context.Context, tour *Tour) error
	Delete(ctx context.Context, id int) error
}
