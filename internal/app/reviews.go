package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/tourvana/tour-booking-api/internal/domain"
)

type reviewResponse struct {
	Id        int       `json:"id"`
	TourId    int       `json:"tourId"`
	UserId    int       `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"createdAt"`
}

func toReviewResponse(review *domain.Review) reviewResponse {
	return reviewResponse{
		Id:        review.ID,
		TourId:    review.TourID,
		UserId:    review.UserID,
		UserName:  review.UserName,
		Rating:    review.Rating,
		Review:    review.Review,
		CreatedAt: review.CreatedAt,
	}
}

func (app *application) ListTourReviews(w http.ResponseWriter, r *http.Request) {
	tourId, err := app.readIDParam(r, "tourID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pagination := app.readPagination(r, "-created_at")

	reviews, metadata, err := app.reviewRepo.GetByTourId(r.Context(), tourId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	reviewResponses := make([]reviewResponse, len(reviews))
	for i := range reviews {
		reviewResponses[i] = toReviewResponse(&reviews[i])
	}

	resp := envelope{
		"status": "success",
		"data": envelope{
			"reviews":  reviewResponses,
			"metadata": toMetadataResponse(metadata),
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) CreateReview(w http.ResponseWriter, r *http.Request) {
	tourId, err := app.readIDParam(r, "tourID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Rating int    `json:"rating" validate:"required,min=1,max=5"`
		Review string `json:"review" validate:"required,min=3"`
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

	review := domain.Review{
		TourID: tourId,
		UserID: app.contextGetUserId(r),
		Rating: input.Rating,
		Review: input.Review,
	}

	err = app.reviewRepo.Create(r.Context(), &review)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateReview):
			app.errorResponse(w, r, http.StatusConflict, "You have already reviewed this tour")
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
			"review": toReviewResponse(&review),
		},
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
		Review *string `json:"review" validate:"omitempty,min=3"`
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

	review, err := app.reviewRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if !app.canModifyReview(r, review) {
		app.forbiddenResponse(w, r)
		return
	}

	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.Review != nil {
		review.Review = *input.Review
	}

	err = app.reviewRepo.Update(r.Context(), review)
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
			"review": toReviewResponse(review),
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.reviewRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if !app.canModifyReview(r, review) {
		app.forbiddenResponse(w, r)
		return
	}

	err = app.reviewRepo.Delete(r.Context(), id)
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

// canModifyReview allows the review's author and admins.
func (app *application) canModifyReview(r *http.Request, review *domain.Review) bool {
	if review.UserID == app.contextGetUserId(r) {
		return true
	}

	return app.contextGetUserRole(r) == domain.RoleAdmin
}
