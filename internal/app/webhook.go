package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/tourvana/tour-booking-api/internal/domain"
)

// Stripe's own webhook body limit.
const webhookBodyLimit = 64 * 1024

// StripeWebhookHandler consumes provider-initiated checkout events. It
// needs the byte-exact payload for signature verification, which is
// why it is mounted outside the JSON-parsing API group.
//
// The handler must stay idempotent: Stripe redelivers events until it
// sees a 2xx, so the booking insert is guarded by the uniqueness of
// the checkout session id.
func (app *application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, webhookBodyLimit)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("unable to read request body"))
		return
	}

	// Signature failure is handled locally: no booking may be created
	// from an unverified payload.
	event, err := webhook.ConstructEventWithOptions(
		payload,
		r.Header.Get("Stripe-Signature"),
		app.config.stripe.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		app.logger.Warn("webhook signature verification failed", "error", err)
		app.errorResponse(w, r, http.StatusBadRequest, "invalid webhook signature")
		return
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		app.logger.Debug("ignoring webhook event", "type", event.Type)
		app.ackWebhook(w, r)
		return
	}

	var checkoutSession stripe.CheckoutSession
	err = json.Unmarshal(event.Data.Raw, &checkoutSession)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("malformed checkout session payload"))
		return
	}

	booking, err := bookingFromSession(&checkoutSession)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.bookingRepo.Create(r.Context(), booking)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateBooking):
			// Redelivery of an event we already processed. Ack so the
			// provider stops retrying.
			app.logger.Info("duplicate webhook delivery ignored", "checkout_session", checkoutSession.ID)
			app.ackWebhook(w, r)
		default:
			// Non-2xx makes the provider redeliver later.
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.logger.Info("booking created from webhook",
		"booking_id", booking.ID,
		"tour_id", booking.TourID,
		"user_id", booking.UserID,
		"checkout_session", checkoutSession.ID,
	)

	app.sendBookingConfirmation(booking)

	app.ackWebhook(w, r)
}

func (app *application) ackWebhook(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"received": true}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func bookingFromSession(checkoutSession *stripe.CheckoutSession) (*domain.Booking, error) {
	tourId, err := strconv.Atoi(checkoutSession.Metadata["tour_id"])
	if err != nil {
		return nil, errors.New("checkout session metadata is missing a valid tour id")
	}

	userId, err := strconv.Atoi(checkoutSession.Metadata["user_id"])
	if err != nil {
		return nil, errors.New("checkout session metadata is missing a valid user id")
	}

	amount := decimal.NewFromInt(checkoutSession.AmountTotal).Div(decimal.NewFromInt(100))

	currency := string(checkoutSession.Currency)
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	return &domain.Booking{
		Reference:         uuid.NewString(),
		TourID:            tourId,
		UserID:            userId,
		CheckoutSessionID: checkoutSession.ID,
		Amount:            amount,
		Currency:          currency,
		Paid:              true,
	}, nil
}

func (app *application) sendBookingConfirmation(booking *domain.Booking) {
	// Copy what the goroutine needs; the request context is gone by
	// the time it runs.
	userId := booking.UserID
	tourId := booking.TourID
	reference := booking.Reference

	app.background(func() {
		ctx := context.Background()

		user, err := app.userRepo.GetById(ctx, userId)
		if err != nil {
			app.logger.Error("failed to load user for booking confirmation", "error", err, "user_id", userId)
			return
		}

		tour, err := app.tourRepo.GetById(ctx, tourId)
		if err != nil {
			app.logger.Error("failed to load tour for booking confirmation", "error", err, "tour_id", tourId)
			return
		}

		data := map[string]any{
			"name":      user.Name,
			"tourName":  tour.Name,
			"reference": reference,
		}

		err = app.mailer.Send(user.Email, "booking_confirmation.tmpl", data)
		if err != nil {
			app.logger.Error("failed to send booking confirmation email", "error", err)
		}
	})
}
