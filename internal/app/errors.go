package app

import (
	"net/http"
	"runtime/debug"

	"github.com/go-playground/validator/v10"
	appvalidator "github.com/tourvana/tour-booking-api/internal/validator"
)

const (
	ErrInternalServer  = "The server encountered a problem and could not process your request"
	ErrNotFound        = "The requested resource could not be found"
	ErrRateLimited     = "Too many requests from this IP, please try again in an hour!"
	ErrUnauthorized    = "You are not logged in! Please log in to get access"
	ErrForbidden       = "You do not have permission to perform this action"
	ErrEditConflictMsg = "Unable to update the record due to an edit conflict, please try again"
	ErrUpstreamPayment = "The payment provider could not be reached, please try again"
)

func (app *application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// errorResponse is the single terminal error path: every failure is
// rendered as {"status": "fail"|"error", "message": ...}, "fail" for
// client faults and "error" for server faults.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	resp := envelope{
		"status":  statusWord(status),
		"message": message,
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func statusWord(status int) string {
	if status >= 400 && status < 500 {
		return "fail"
	}

	return "error"
}

// serverErrorResponse hides internals in prod; in dev it includes the
// underlying error and a stack trace to ease debugging.
func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	resp := envelope{
		"status":  "error",
		"message": ErrInternalServer,
	}

	if app.config.env == "dev" {
		resp["error"] = err.Error()
		resp["stack"] = string(debug.Stack())
	}

	writeErr := app.writeJSON(w, http.StatusInternalServerError, resp, nil)
	if writeErr != nil {
		app.logError(r, writeErr)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		app.serverErrorResponse(w, r, err)
		return
	}

	messages := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages[fieldErr.Field()] = appvalidator.ValidationMessage(fieldErr)
	}

	app.errorResponse(w, r, http.StatusUnprocessableEntity, messages)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, "The "+r.Method+" method is not supported for this resource")
}

func (app *application) unauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, ErrUnauthorized)
}

func (app *application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, "Incorrect email or password")
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusForbidden, ErrForbidden)
}

func (app *application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusConflict, ErrEditConflictMsg)
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, ErrRateLimited)
}

// badGatewayResponse surfaces an upstream (payment provider) failure.
// The provider error itself is logged, never leaked.
func (app *application) badGatewayResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusBadGateway, ErrUpstreamPayment)
}
