package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tourvana/tour-booking-api/internal/domain"
	"github.com/tourvana/tour-booking-api/internal/mailer"
	"github.com/tourvana/tour-booking-api/internal/mocks"
	appvalidator "github.com/tourvana/tour-booking-api/internal/validator"
)

func newTestApplication(opts ...func(*application)) *application {
	app := &application{
		validator:   appvalidator.NewValidator(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		mailer:      mailer.NewMockMailer(),
		tourRepo:    &mocks.MockTourRepo{},
		userRepo:    &mocks.MockUserRepo{},
		reviewRepo:  &mocks.MockReviewRepo{},
		bookingRepo: &mocks.MockBookingRepo{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func setupTestSession(t *testing.T, app *application, r *http.Request, userId int, role domain.Role) *http.Request {
	ctx, err := app.sessionManager.Load(r.Context(), "session")
	if err != nil {
		t.Errorf("Failed to load session: %v", err)
	}

	app.sessionManager.Put(ctx, SessionKeyUserId.String(), userId)
	app.sessionManager.Put(ctx, SessionKeyUserRole.String(), string(role))

	return r.WithContext(ctx)
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	wantStatusWord := "fail"
	if wantStatus >= 500 {
		wantStatusWord = "error"
	}

	switch wantStatus {
	case http.StatusUnprocessableEntity:
		var resp struct {
			Status  string            `json:"status"`
			Message map[string]string `json:"message"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		if resp.Status != wantStatusWord {
			t.Errorf("Status word = %v, want %v", resp.Status, wantStatusWord)
		}

		found := false
		for _, issue := range resp.Message {
			if issue == wantErrMessage {
				found = true
			}
		}

		if !found {
			t.Errorf("Expected validation error message '%s' not found in response", wantErrMessage)
		}

	default:
		var resp struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if resp.Status != wantStatusWord {
			t.Errorf("Status word = %v, want %v", resp.Status, wantStatusWord)
		}

		if wantErrMessage != "" && resp.Message != wantErrMessage {
			t.Errorf("Error message = %v, want %v", resp.Message, wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
