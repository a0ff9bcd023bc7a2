package app

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tourvana/tour-booking-api/internal/domain"
	"github.com/tourvana/tour-booking-api/internal/mailer"
	"github.com/tourvana/tour-booking-api/internal/mocks"
)

const testWebhookSecret = "whsec_test_secret"

// signWebhookPayload produces a Stripe-Signature header value for the
// payload, in the same t=<timestamp>,v1=<hmac> scheme Stripe uses.
func signWebhookPayload(payload []byte, secret string) string {
	timestamp := time.Now().Unix()

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)

	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func checkoutCompletedEvent(sessionJSON string) []byte {
	return fmt.Appendf(nil, `{
		"id": "evt_test_1",
		"type": "checkout.session.completed",
		"data": {"object": %s}
	}`, sessionJSON)
}

const completedSessionJSON = `{
	"id": "cs_test_123",
	"amount_total": 299700,
	"currency": "usd",
	"metadata": {"tour_id": "7", "user_id": "3"}
}`

type WebhookTestSuite struct {
	suite.Suite
	app         *application
	bookingRepo *mocks.MockBookingRepo
	tourRepo    *mocks.MockTourRepo
	userRepo    *mocks.MockUserRepo
	mailer      *mailer.MockMailer
}

func (s *WebhookTestSuite) SetupTest() {
	s.bookingRepo = new(mocks.MockBookingRepo)
	s.tourRepo = new(mocks.MockTourRepo)
	s.userRepo = new(mocks.MockUserRepo)
	s.mailer = mailer.NewMockMailer()

	s.app = newTestApplication(func(a *application) {
		a.config.stripe.webhookSecret = testWebhookSecret
		a.bookingRepo = s.bookingRepo
		a.tourRepo = s.tourRepo
		a.userRepo = s.userRepo
		a.mailer = s.mailer
	})
}

func TestWebhookSuite(t *testing.T) {
	suite.Run(t, new(WebhookTestSuite))
}

func (s *WebhookTestSuite) postWebhook(payload []byte, signature string) int {
	r := httptest.NewRequest(http.MethodPost, "/webhook-checkout", bytes.NewReader(payload))
	r.Header.Set("Stripe-Signature", signature)
	w := httptest.NewRecorder()

	s.app.StripeWebhookHandler(w, r)

	return w.Code
}

func (s *WebhookTestSuite) TestRejectsMissingSignature() {
	code := s.postWebhook(checkoutCompletedEvent(completedSessionJSON), "")

	s.Equal(http.StatusBadRequest, code)
	s.bookingRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *WebhookTestSuite) TestRejectsSignatureFromWrongSecret() {
	payload := checkoutCompletedEvent(completedSessionJSON)
	code := s.postWebhook(payload, signWebhookPayload(payload, "whsec_some_other_secret"))

	s.Equal(http.StatusBadRequest, code)
	s.bookingRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *WebhookTestSuite) TestRejectsTamperedPayload() {
	payload := checkoutCompletedEvent(completedSessionJSON)
	signature := signWebhookPayload(payload, testWebhookSecret)

	tampered := checkoutCompletedEvent(`{"id": "cs_test_456", "metadata": {"tour_id": "7", "user_id": "3"}}`)
	code := s.postWebhook(tampered, signature)

	s.Equal(http.StatusBadRequest, code)
	s.bookingRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *WebhookTestSuite) TestIgnoresUnrelatedEventTypes() {
	payload := []byte(`{"id": "evt_test_2", "type": "payment_intent.succeeded", "data": {"object": {}}}`)
	code := s.postWebhook(payload, signWebhookPayload(payload, testWebhookSecret))

	s.Equal(http.StatusOK, code)
	s.bookingRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *WebhookTestSuite) TestRejectsMalformedMetadata() {
	payload := checkoutCompletedEvent(`{"id": "cs_test_123", "metadata": {"tour_id": "not-a-number"}}`)
	code := s.postWebhook(payload, signWebhookPayload(payload, testWebhookSecret))

	s.Equal(http.StatusBadRequest, code)
	s.bookingRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *WebhookTestSuite) TestCreatesBookingAndSendsConfirmation() {
	s.bookingRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.TourID == 7 &&
			b.UserID == 3 &&
			b.CheckoutSessionID == "cs_test_123" &&
			b.Amount.Equal(decimal.NewFromInt(2997)) &&
			b.Currency == "usd" &&
			b.Paid &&
			b.Reference != ""
	})).Return(nil).Once()

	s.userRepo.On("GetById", mock.Anything, 3).Return(&domain.User{ID: 3, Name: "Leo", Email: "leo@example.com"}, nil).Once()
	s.tourRepo.On("GetById", mock.Anything, 7).Return(&domain.Tour{ID: 7, Name: "The Forest Hiker"}, nil).Once()

	payload := checkoutCompletedEvent(completedSessionJSON)
	code := s.postWebhook(payload, signWebhookPayload(payload, testWebhookSecret))

	s.Equal(http.StatusOK, code)

	// The confirmation email is sent from a background goroutine.
	s.app.wg.Wait()

	emails := s.mailer.GetSentEmails()
	s.Require().Len(emails, 1)
	s.Equal("leo@example.com", emails[0].Recipient)
	s.Equal("booking_confirmation.tmpl", emails[0].TemplateFile)

	s.bookingRepo.AssertExpectations(s.T())
	s.userRepo.AssertExpectations(s.T())
	s.tourRepo.AssertExpectations(s.T())
}

func (s *WebhookTestSuite) TestAcksDuplicateDelivery() {
	s.bookingRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateBooking).Once()

	payload := checkoutCompletedEvent(completedSessionJSON)
	code := s.postWebhook(payload, signWebhookPayload(payload, testWebhookSecret))

	s.Equal(http.StatusOK, code)

	s.app.wg.Wait()
	s.Empty(s.mailer.GetSentEmails())

	s.bookingRepo.AssertExpectations(s.T())
}

func (s *WebhookTestSuite) TestRetriableFailureOnRepositoryError() {
	s.bookingRepo.On("Create", mock.Anything, mock.Anything).Return(fmt.Errorf("connection reset")).Once()

	payload := checkoutCompletedEvent(completedSessionJSON)
	code := s.postWebhook(payload, signWebhookPayload(payload, testWebhookSecret))

	// A 5xx makes the provider redeliver the event.
	s.Equal(http.StatusInternalServerError, code)
	s.bookingRepo.AssertExpectations(s.T())
}

func (s *WebhookTestSuite) TestDoubleDeliveryResultsInSingleBooking() {
	s.bookingRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	s.bookingRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateBooking).Once()

	s.userRepo.On("GetById", mock.Anything, 3).Return(&domain.User{ID: 3, Email: "leo@example.com"}, nil).Once()
	s.tourRepo.On("GetById", mock.Anything, 7).Return(&domain.Tour{ID: 7, Name: "The Forest Hiker"}, nil).Once()

	payload := checkoutCompletedEvent(completedSessionJSON)
	signature := signWebhookPayload(payload, testWebhookSecret)

	s.Equal(http.StatusOK, s.postWebhook(payload, signature))
	s.Equal(http.StatusOK, s.postWebhook(payload, signature))

	s.app.wg.Wait()
	s.Require().Len(s.mailer.GetSentEmails(), 1)

	s.bookingRepo.AssertExpectations(s.T())
}
