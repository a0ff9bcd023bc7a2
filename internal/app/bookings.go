package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tourvana/tour-booking-api/internal/domain"
)

type bookingResponse struct {
	Id        int             `json:"id"`
	Reference string          `json:"reference"`
	TourId    int             `json:"tourId"`
	UserId    int             `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Paid      bool            `json:"paid"`
	CreatedAt time.Time       `json:"createdAt"`
}

type bookingSummaryResponse struct {
	Id        int             `json:"id"`
	Reference string          `json:"reference"`
	TourName  string          `json:"tourName"`
	TourSlug  string          `json:"tourSlug"`
	Amount    decimal.Decimal `json:"amount"`
	Paid      bool            `json:"paid"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toBookingResponse(booking *domain.Booking) bookingResponse {
	return bookingResponse{
		Id:        booking.ID,
		Reference: booking.Reference,
		TourId:    booking.TourID,
		UserId:    booking.UserID,
		Amount:    booking.Amount,
		Currency:  booking.Currency,
		Paid:      booking.Paid,
		CreatedAt: booking.CreatedAt,
	}
}

func toBookingSummaries(bookings []domain.BookingSummary) []bookingSummaryResponse {
	summaries := make([]bookingSummaryResponse, len(bookings))

	for i, b := range bookings {
		summaries[i] = bookingSummaryResponse{
			Id:        b.BookingID,
			Reference: b.Reference,
			TourName:  b.TourName,
			TourSlug:  b.TourSlug,
			Amount:    b.Amount,
			Paid:      b.Paid,
			CreatedAt: b.CreatedAt,
		}
	}

	return summaries
}

// CreateCheckoutSessionHandler asks the payment provider to allocate a
// checkout session for the requested tour and returns the provider's
// session verbatim. The booking itself is only created later, by the
// webhook, once the provider reports the payment as completed.
func (app *application) CreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	tourId, err := app.readIDParam(r, "tourID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	tour, err := app.tourRepo.GetById(r.Context(), tourId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	user, err := app.userRepo.GetById(r.Context(), app.contextGetUserId(r))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	checkoutSession, err := app.checkoutProvider.CreateCheckoutSession(app.requestOrigin(r), user, tour)
	if err != nil {
		app.badGatewayResponse(w, r, err)
		return
	}

	resp := envelope{
		"status":  "success",
		"session": checkoutSession,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	pagination := app.readPagination(r, "-created_at")

	bookings, metadata, err := app.bookingRepo.GetByUserId(r.Context(), app.contextGetUserId(r), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := envelope{
		"status": "success",
		"data": envelope{
			"bookings": toBookingSummaries(bookings),
			"metadata": toMetadataResponse(metadata),
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) ListBookings(w http.ResponseWriter, r *http.Request) {
	pagination := app.readPagination(r, "-created_at")

	bookings, metadata, err := app.bookingRepo.GetAll(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := envelope{
		"status": "success",
		"data": envelope{
			"bookings": toBookingSummaries(bookings),
			"metadata": toMetadataResponse(metadata),
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.bookingRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := envelope{
		"status": "success",
		"data": envelope{
			"booking": toBookingResponse(booking),
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Paid *bool `json:"paid" validate:"required"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	booking, err := app.bookingRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	booking.Paid = *input.Paid

	err = app.bookingRepo.Update(r.Context(), booking)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := envelope{
		"status": "success",
		"data": envelope{
			"booking": toBookingResponse(booking),
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "bookingID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.bookingRepo.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"status": "success", "data": nil}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
