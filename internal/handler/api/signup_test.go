//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"datenight/internal/handler/api"
	resdto "datenight/internal/handler/dto/response"
	"datenight/internal/usecase/commands"
	"datenight/internal/usecase/queries"
	"datenight/tests/common/builder"
	"datenight/tests/common/httptest"
	"datenight/tests/common/testutil"
	commandsmock "datenight/tests/mock/commands"
	queriesmock "datenight/tests/mock/queries"

	"datenight/internal/domain/event"
	"datenight/internal/domain/signup"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SignupHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockSignup   *commandsmock.MockSignupCommands
	mockCancel   *commandsmock.MockCancelCommands
	mockEventQrs *queriesmock.MockEventQueries
	handler      *api.SignupHandler
	userID       uuid.UUID
}

func (s *SignupHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.userID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockSignup = commandsmock.NewMockSignupCommands(s.mockCtrl)
	s.mockCancel = commandsmock.NewMockCancelCommands(s.mockCtrl)
	s.mockEventQrs = queriesmock.NewMockEventQueries(s.mockCtrl)
	s.handler = api.NewSignupHandler(s.mockSignup, s.mockCancel, s.mockEventQrs)

	// Mock middleware behavior: an authorized request carries the user id.
	authed := func(next gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			if c.GetHeader("Authorization") != "" {
				c.Set("user_id", s.userID)
			}
			next(c)
		}
	}
	s.router.POST("/events/:id/signup", authed(s.handler.Signup))
	s.router.DELETE("/events/:id/signup", authed(s.handler.CancelSignup))
}

func (s *SignupHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSignupHandlerSuite(t *testing.T) {
	suite.Run(t, new(SignupHandlerTestSuite))
}

func (s *SignupHandlerTestSuite) TestSignup() {
	eventID := uuid.New()
	url := "/events/" + eventID.String() + "/signup"
	reqBody := map[string]any{"gender": "female"}

	s.Run("success: returns 201 Created with the signup outcome", func() {
		s.mockSignup.EXPECT().Signup(gomock.Any(), s.userID, eventID, event.GenderFemale).
			Return(&commands.SignupResult{Status: signup.StatusConfirmed, Balance: 2}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.SignupResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("confirmed", response.Status)
		s.Equal(2, response.Balance)
	})

	s.Run("success: waitlisted outcome is still 201", func() {
		s.mockSignup.EXPECT().Signup(gomock.Any(), s.userID, eventID, event.GenderFemale).
			Return(&commands.SignupResult{Status: signup.StatusWaitlisted, Balance: 3}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.SignupResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("waitlisted", response.Status)
	})

	s.Run("success: external event id in the path resolves to the ledger id", func() {
		view := builder.NewEventBuilder().WithLocalID(eventID).BuildView()
		s.mockEventQrs.EXPECT().GetByRef(gomock.Any(), view.ExternalID).
			Return(view, nil).Times(1)
		s.mockSignup.EXPECT().Signup(gomock.Any(), s.userID, eventID, event.GenderFemale).
			Return(&commands.SignupResult{Status: signup.StatusConfirmed, Balance: 1}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/events/"+view.ExternalID+"/signup", reqBody, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing gender", mutate: testutil.Field("gender", nil)},
			{name: "empty gender", mutate: testutil.Field("gender", "")},
			{name: "unknown gender", mutate: testutil.Field("gender", "other")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "event not found",
				commandsError:  commands.ErrEventNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Event not found",
			},
			{
				name:           "duplicate signup",
				commandsError:  commands.ErrDuplicateSignup,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Already signed up",
			},
			{
				name:           "insufficient credits",
				commandsError:  commands.ErrInsufficientCredits,
				expectedStatus: http.StatusPaymentRequired,
				expectedMsg:    "Insufficient credits",
			},
			{
				name:           "capacity race exhausted",
				commandsError:  commands.ErrCapacityRaceExhausted,
				expectedStatus: http.StatusServiceUnavailable,
				expectedMsg:    "try again",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockSignup.EXPECT().Signup(gomock.Any(), s.userID, eventID, event.GenderFemale).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: 500 when user_id missing in context", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

func (s *SignupHandlerTestSuite) TestCancelSignup() {
	eventID := uuid.New()
	url := "/events/" + eventID.String() + "/signup"

	s.Run("success: returns 200 OK with the cancel outcome", func() {
		s.mockCancel.EXPECT().Cancel(gomock.Any(), s.userID, eventID).
			Return(&commands.CancelResult{
				PreviousStatus: signup.StatusConfirmed,
				Refunded:       false,
				Balance:        2,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")

		var response resdto.CancelResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("confirmed", response.PreviousStatus)
		s.False(response.Refunded)
	})

	s.Run("error: 404 when not signed up", func() {
		s.mockCancel.EXPECT().Cancel(gomock.Any(), s.userID, eventID).
			Return(nil, commands.ErrNotSignedUp).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not signed up")
	})

	s.Run("error: 404 when the external id resolves to nothing", func() {
		s.mockEventQrs.EXPECT().GetByRef(gomock.Any(), "evt_unknown").
			Return(nil, queries.ErrEventNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/events/evt_unknown/signup", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Event not found")
	})
}
