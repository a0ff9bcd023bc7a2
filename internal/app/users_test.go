package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tourvana/tour-booking-api/internal/domain"
	"github.com/tourvana/tour-booking-api/internal/mailer"
	"github.com/tourvana/tour-booking-api/internal/mocks"
)

type UsersTestSuite struct {
	suite.Suite
	app            *application
	userRepo       *mocks.MockUserRepo
	mailer         *mailer.MockMailer
	sessionManager *scs.SessionManager
}

func (s *UsersTestSuite) SetupTest() {
	s.userRepo = new(mocks.MockUserRepo)
	s.mailer = mailer.NewMockMailer()
	s.sessionManager = scs.New()

	s.app = newTestApplication(func(a *application) {
		a.userRepo = s.userRepo
		a.mailer = s.mailer
		a.sessionManager = s.sessionManager
	})
}

func TestUsersSuite(t *testing.T) {
	suite.Run(t, new(UsersTestSuite))
}

func (s *UsersTestSuite) TestRegisterUser() {
	tests := []struct {
		name           string
		body           any
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:           "should fail when the email is invalid",
			body:           map[string]any{"name": "Leo Gillespie", "email": "not-an-email", "password": "Pa55word!"},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "must be a valid email address",
		},
		{
			name:       "should fail when the password is too weak",
			body:       map[string]any{"name": "Leo Gillespie", "email": "leo@example.com", "password": "password"},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrMessage: "must be 8 to 25 characters long and include at least one uppercase letter, one lowercase letter, " +
				"one number, and one special character (!@#$%^&*)",
		},
		{
			name: "should not reveal whether an email is already registered",
			body: map[string]any{"name": "Leo Gillespie", "email": "leo@example.com", "password": "Pa55word!"},
			setupMocks: func() {
				s.userRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrUserAlreadyExists).Once()
			},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "invalid input data",
		},
		{
			name: "should successfully register a user and send a welcome email",
			body: map[string]any{"name": "Leo Gillespie", "email": "leo@example.com", "password": "Pa55word!"},
			setupMocks: func() {
				s.userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
					return u.Name == "Leo Gillespie" &&
						u.Email == "leo@example.com" &&
						u.Role == domain.RoleUser &&
						len(u.Password.Hash) > 0
				})).Return(nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.userRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodPost, "/api/v1/users/signup", tt.body)

			handler := s.app.sessionManager.LoadAndSave(http.HandlerFunc(s.app.RegisterUser))
			handler.ServeHTTP(w, r)

			s.Equal(tt.wantStatus, w.Code)
			checkErrorResponse(s.T(), w, tt.wantStatus, tt.wantErrMessage)

			s.app.wg.Wait()

			if tt.wantStatus == http.StatusCreated {
				emails := s.mailer.GetSentEmails()
				s.Require().Len(emails, 1)
				s.Equal("leo@example.com", emails[0].Recipient)
				s.Equal("user_welcome.tmpl", emails[0].TemplateFile)
			} else {
				s.Empty(s.mailer.GetSentEmails())
			}
		})
	}
}

func (s *UsersTestSuite) TestLoginUser() {
	knownUser := func() *domain.User {
		user := &domain.User{ID: 3, Name: "Leo Gillespie", Email: "leo@example.com", Role: domain.RoleUser}
		err := user.Password.Set("Pa55word!")
		s.Require().NoError(err)
		return user
	}

	tests := []struct {
		name           string
		body           any
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
	}{
		{
			name: "should fail when the email is unknown",
			body: map[string]any{"email": "nobody@example.com", "password": "Pa55word!"},
			setupMocks: func() {
				s.userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").
					Return(nil, domain.ErrRecordNotFound).Once()
			},
			wantStatus:     http.StatusUnauthorized,
			wantErrMessage: "Incorrect email or password",
		},
		{
			name: "should fail when the password does not match",
			body: map[string]any{"email": "leo@example.com", "password": "WrongPa55word!"},
			setupMocks: func() {
				s.userRepo.On("GetByEmail", mock.Anything, "leo@example.com").Return(knownUser(), nil).Once()
			},
			wantStatus:     http.StatusUnauthorized,
			wantErrMessage: "Incorrect email or password",
		},
		{
			name: "should fail when the user lookup fails",
			body: map[string]any{"email": "leo@example.com", "password": "Pa55word!"},
			setupMocks: func() {
				s.userRepo.On("GetByEmail", mock.Anything, "leo@example.com").
					Return(nil, fmt.Errorf("connection reset")).Once()
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
		{
			name: "should successfully log the user in",
			body: map[string]any{"email": "leo@example.com", "password": "Pa55word!"},
			setupMocks: func() {
				s.userRepo.On("GetByEmail", mock.Anything, "leo@example.com").Return(knownUser(), nil).Once()
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.userRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodPost, "/api/v1/users/login", tt.body)

			handler := s.app.sessionManager.LoadAndSave(http.HandlerFunc(s.app.LoginUser))
			handler.ServeHTTP(w, r)

			s.Equal(tt.wantStatus, w.Code)
			checkErrorResponse(s.T(), w, tt.wantStatus, tt.wantErrMessage)

			if tt.wantStatus == http.StatusOK {
				var resp struct {
					Status string `json:"status"`
					Data   struct {
						User userResponse `json:"user"`
					} `json:"data"`
				}
				err := json.NewDecoder(w.Body).Decode(&resp)
				s.Require().NoError(err)

				s.Equal("success", resp.Status)
				s.Equal("leo@example.com", resp.Data.User.Email)
			}
		})
	}
}

func (s *UsersTestSuite) TestUpdateCurrentUser() {
	tests := []struct {
		name           string
		body           any
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:           "should fail when an unknown field is sent",
			body:           map[string]any{"role": "admin"},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: `body contains unknown key "role"`,
		},
		{
			name: "should apply a partial update",
			body: map[string]any{"name": "Leo G."},
			setupMocks: func() {
				s.userRepo.On("GetById", mock.Anything, 3).
					Return(&domain.User{ID: 3, Name: "Leo Gillespie", Email: "leo@example.com", Role: domain.RoleUser}, nil).
					Once()
				s.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
					return u.Name == "Leo G." && u.Email == "leo@example.com"
				})).Return(nil).Once()
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.userRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodPatch, "/api/v1/users/me", tt.body)
			r = setupTestSession(s.T(), s.app, r, 3, domain.RoleUser)

			handler := s.app.requireAuthentication(http.HandlerFunc(s.app.UpdateCurrentUser))
			handler = s.app.sessionManager.LoadAndSave(handler)
			handler.ServeHTTP(w, r)

			s.Equal(tt.wantStatus, w.Code)
			checkErrorResponse(s.T(), w, tt.wantStatus, tt.wantErrMessage)
		})
	}
}
