package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
	"github.com/tourvana/tour-booking-api/internal/domain"
)

type MockCheckoutProvider struct {
	mock.Mock
	domain.CheckoutProvider
}

func (m *MockCheckoutProvider) CreateCheckoutSession(
	origin string,
	user *domain.User,
	tour *domain.Tour) (*stripe.CheckoutSession, error) {

	args := m.Called(origin, user, tour)

	session, _ := args.Get(0).(*stripe.CheckoutSession)
	return session, args.Error(1)
}
