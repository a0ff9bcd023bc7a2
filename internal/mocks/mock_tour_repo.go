package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tourvana/tour-booking-api/internal/domain"
)

type MockTourRepo struct {
	mock.Mock
	domain.TourRepository
}

func (m *MockTourRepo) Create(ctx context.Context, tour *domain.Tour) error {
	args := m.Called(ctx, tour)
	return args.Error(0)
}

func (m *MockTourRepo) GetById(ctx context.Context, id int) (*domain.Tour, error) {
	args := m.Called(ctx, id)

	tour, _ := args.Get(0).(*domain.Tour)
	return tour, args.Error(1)
}

func (m *MockTourRepo) GetAll(
	ctx context.Context,
	filter domain.TourFilter,
	pagination domain.Pagination) ([]domain.Tour, *domain.Metadata, error) {

	args := m.Called(ctx, filter, pagination)
	return args.Get(0).([]domain.Tour), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockTourRepo) Update(ctx context.Context, tour *domain.Tour) error {
	args := m.Called(ctx, tour)
	return args.Error(0)
}

func (m *MockTourRepo) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
