package app

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tourvana/tour-booking-api/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type tourResponse struct {
	Id              int             `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Duration        int             `json:"duration"`
	MaxGroupSize    int             `json:"maxGroupSize"`
	Difficulty      string          `json:"difficulty"`
	Price           decimal.Decimal `json:"price"`
	Summary         string          `json:"summary"`
	Description     string          `json:"description,omitempty"`
	ImageCover      string          `json:"imageCover"`
	RatingsAverage  decimal.Decimal `json:"ratingsAverage"`
	RatingsQuantity int             `json:"ratingsQuantity"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func toTourResponse(tour *domain.Tour) tourResponse {
	return tourResponse{
		Id:              tour.ID,
		Name:            tour.Name,
		Slug:            tour.Slug,
		Duration:        tour.Duration,
		MaxGroupSize:    tour.MaxGroupSize,
		Difficulty:      string(tour.Difficulty),
		Price:           tour.Price,
		Summary:         tour.Summary,
		Description:     tour.Description,
		ImageCover:      tour.ImageCover,
		RatingsAverage:  tour.RatingsAverage,
		RatingsQuantity: tour.RatingsQuantity,
		CreatedAt:       tour.CreatedAt,
	}
}

func toMetadataResponse(metadata *domain.Metadata) envelope {
	return envelope{
		"currentPage":  metadata.CurrentPage,
		"firstPage":    metadata.FirstPage,
		"lastPage":     metadata.LastPage,
		"pageSize":     metadata.PageSize,
		"totalRecords": metadata.TotalRecords,
	}
}

// readPagination parses page/pageSize/sort query parameters, clamping
// them to sane bounds.
func (app *application) readPagination(r *http.Request, defaultSort string) domain.Pagination {
	qs := r.URL.Query()

	pagination := domain.Pagination{
		Page:     app.readInt(qs, "page", DefaultPage),
		PageSize: app.readInt(qs, "pageSize", DefaultPageSize),
		Sort:     qs.Get("sort"),
	}

	if pagination.Page < 1 {
		pagination.Page = DefaultPage
	}
	if pagination.PageSize < 1 || pagination.PageSize > MaxPageSize {
		pagination.PageSize = DefaultPageSize
	}
	if pagination.Sort == "" {
		pagination.Sort = defaultSort
	}

	return pagination
}

func (app *application) ListTours(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	var filter domain.TourFilter

	if v := qs.Get("difficulty"); v != "" {
		difficulty := domain.Difficulty(v)
		filter.Difficulty = &difficulty
	}
	if v := qs.Get("minPrice"); v != "" {
		if price, err := decimal.NewFromString(v); err == nil {
			filter.MinPrice = &price
		}
	}
	if v := qs.Get("maxPrice"); v != "" {
		if price, err := decimal.NewFromString(v); err == nil {
			filter.MaxPrice = &price
		}
	}

	pagination := app.readPagination(r, "-created_at")

	tours, metadata, err := app.tourRepo.GetAll(r.Context(), filter, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	tourResponses := make([]tourResponse, len(tours))
	for i := range tours {
		tourResponses[i] = toTourResponse(&tours[i])
	}

	resp := envelope{
		"status": "success",
		"data": envelope{
			"tours":    tourResponses,
			"metadata": toMetadataResponse(metadata),
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetTour(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "tourID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	tour, err := app.tourRepo.GetById(r.Context(), id)
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
			"tour": toTourResponse(tour),
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) CreateTour(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name         string          `json:"name" validate:"required,min=10,max=40"`
		Duration     int             `json:"duration" validate:"required,gt=0"`
		MaxGroupSize int             `json:"maxGroupSize" validate:"required,gt=0"`
		Difficulty   string          `json:"difficulty" validate:"required,difficulty"`
		Price        decimal.Decimal `json:"price" validate:"required"`
		Summary      string          `json:"summary" validate:"required"`
		Description  string          `json:"description"`
		ImageCover   string          `json:"imageCover"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if input.Price.IsNegative() || input.Price.IsZero() {
		app.badRequestResponse(w, r, errors.New("price must be greater than zero"))
		return
	}

	tour := domain.Tour{
		Name:         input.Name,
		Slug:         slugify(input.Name),
		Duration:     input.Duration,
		MaxGroupSize: input.MaxGroupSize,
		Difficulty:   domain.Difficulty(input.Difficulty),
		Price:        input.Price,
		Summary:      input.Summary,
		Description:  input.Description,
		ImageCover:   input.ImageCover,
	}

	err = app.tourRepo.Create(r.Context(), &tour)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := envelope{
		"status": "success",
		"data": envelope{
			"tour": toTourResponse(&tour),
		},
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) UpdateTour(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "tourID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Name         *string          `json:"name" validate:"omitempty,min=10,max=40"`
		Duration     *int             `json:"duration" validate:"omitempty,gt=0"`
		MaxGroupSize *int             `json:"maxGroupSize" validate:"omitempty,gt=0"`
		Difficulty   *string          `json:"difficulty" validate:"omitempty,difficulty"`
		Price        *decimal.Decimal `json:"price"`
		Summary      *string          `json:"summary"`
		Description  *string          `json:"description"`
		ImageCover   *string          `json:"imageCover"`
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

	tour, err := app.tourRepo.GetById(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if input.Name != nil {
		tour.Name = *input.Name
		tour.Slug = slugify(*input.Name)
	}
	if input.Duration != nil {
		tour.Duration = *input.Duration
	}
	if input.MaxGroupSize != nil {
		tour.MaxGroupSize = *input.MaxGroupSize
	}
	if input.Difficulty != nil {
		tour.Difficulty = domain.Difficulty(*input.Difficulty)
	}
	if input.Price != nil {
		if input.Price.IsNegative() || input.Price.IsZero() {
			app.badRequestResponse(w, r, errors.New("price must be greater than zero"))
			return
		}
		tour.Price = *input.Price
	}
	if input.Summary != nil {
		tour.Summary = *input.Summary
	}
	if input.Description != nil {
		tour.Description = *input.Description
	}
	if input.ImageCover != nil {
		tour.ImageCover = *input.ImageCover
	}

	err = app.tourRepo.Update(r.Context(), tour)
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
			"tour": toTourResponse(tour),
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteTour(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "tourID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.tourRepo.Delete(r.Context(), id)
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

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-':
			return '-'
		default:
			return -1
		}
	}, slug)

	return strings.Trim(slug, "-")
}
