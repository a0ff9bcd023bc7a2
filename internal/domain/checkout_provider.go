package domain

import "github.com/stripe/stripe-go/v82"

// CheckoutProvider allocates a hosted checkout session for a single
// tour purchase. The origin is the scheme://host of the originating
// request and is used to derive the success/cancel redirect targets.
type CheckoutProvider interface {
	CreateCheckoutSession(origin string, user *User, tour *Tour) (*stripe.CheckoutSession, error)
}
