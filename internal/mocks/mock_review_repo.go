package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tourvana/tour-booking-api/internal/domain"
)

type MockReviewRepo struct {
	mock.Mock
	domain.ReviewRepository
}

func (m *MockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepo) GetById(ctx context.Context, id int) (*domain.Review, error) {
	args := m.Called(ctx, id)

	review, _ := args.Get(0).(*domain.Review)
	return review, args.Error(1)
}

func (m *MockReviewRepo) GetByTourId(
	ctx context.Context,
	tourId int,
	pagination domain.Pagination) ([]domain.Review, *domain.Metadata, error) {

	args := m.Called(ctx, tourId, pagination)
	return args.Get(0).([]domain.Review), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockReviewRepo) Update(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepo) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
