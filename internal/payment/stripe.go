package payment

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/tourvana/tour-booking-api/internal/domain"
)

var centsPerUnit = decimal.NewFromInt(100)

type StripeCheckoutProvider struct{}

func NewStripeCheckoutProvider() *StripeCheckoutProvider {
	return &StripeCheckoutProvider{}
}

// CreateCheckoutSession allocates a hosted checkout session for one
// tour purchase. The redirect targets are derived from the request
// origin so the flow works behind any deployment host.
func (s *StripeCheckoutProvider) CreateCheckoutSession(
	origin string,
	user *domain.User,
	tour *domain.Tour) (*stripe.CheckoutSession, error) {

	priceCents := tour.Price.Mul(centsPerUnit).IntPart()

	lineItem := &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(string(stripe.CurrencyUSD)),
			UnitAmount: stripe.Int64(priceCents),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name:        stripe.String(fmt.Sprintf("%s Tour", tour.Name)),
				Description: stripe.String(tour.Summary),
				Images:      []*string{stripe.String(fmt.Sprintf("%s/img/tours/%s", origin, tour.ImageCover))},
			},
		},
		Quantity: stripe.Int64(1),
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  []*stripe.CheckoutSessionLineItemParams{lineItem},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(fmt.Sprintf("%s/my-tours?alert=booking", origin)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/tour/%s", origin, tour.Slug)),
		Metadata: map[string]string{
			"tour_id": fmt.Sprint(tour.ID),
			"user_id": fmt.Sprint(user.ID),
		},
		CustomerEmail:     &user.Email,
		ClientReferenceID: stripe.String(fmt.Sprint(tour.ID)),
	}

	return session.New(params)
}
