//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"datenight/internal/handler/api"
	resdto "datenight/internal/handler/dto/response"
	"datenight/internal/usecase/commands"
	"datenight/tests/common/httptest"
	"datenight/tests/common/testutil"
	commandsmock "datenight/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PurchaseHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockPurchase *commandsmock.MockPurchaseCommands
	handler      *api.PurchaseHandler
	userID       uuid.UUID
}

func (s *PurchaseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.userID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockPurchase = commandsmock.NewMockPurchaseCommands(s.mockCtrl)
	s.handler = api.NewPurchaseHandler(s.mockPurchase)

	s.router.POST("/purchases", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", s.userID)
		}
		s.handler.CompletePurchase(c)
	})
}

func (s *PurchaseHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPurchaseHandlerSuite(t *testing.T) {
	suite.Run(t, new(PurchaseHandlerTestSuite))
}

func (s *PurchaseHandlerTestSuite) TestCompletePurchase() {
	url := "/purchases"
	reqBody := map[string]any{
		"external_payment_id":  "pi_3MtwBwLkdIwHu7ix28a3tqPa",
		"amount_charged_cents": 12000,
	}
	paymentID := uuid.New()

	s.Run("success: first completion returns 201 Created", func() {
		s.mockPurchase.EXPECT().
			CompletePurchase(gomock.Any(), s.userID, "pi_3MtwBwLkdIwHu7ix28a3tqPa", int64(12000), gomock.Nil()).
			Return(&commands.PurchaseResult{
				PaymentID:    paymentID,
				CreditsAdded: 5,
				Balance:      5,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.PurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(paymentID, response.PaymentID)
		s.Equal(5, response.TotalDatesPurchased)
		s.False(response.Replayed)
	})

	s.Run("success: replayed completion returns 200 OK", func() {
		s.mockPurchase.EXPECT().
			CompletePurchase(gomock.Any(), s.userID, "pi_3MtwBwLkdIwHu7ix28a3tqPa", int64(12000), gomock.Nil()).
			Return(&commands.PurchaseResult{
				PaymentID:    paymentID,
				CreditsAdded: 5,
				Balance:      5,
				Replayed:     true,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.PurchaseResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Replayed)
	})

	s.Run("success: discount code is forwarded", func() {
		code := "LOVE10"
		s.mockPurchase.EXPECT().
			CompletePurchase(gomock.Any(), s.userID, "pi_discounted", int64(2520), &code).
			Return(&commands.PurchaseResult{PaymentID: paymentID, CreditsAdded: 1, Balance: 1}, nil).
			Times(1)

		body := map[string]any{
			"external_payment_id":  "pi_discounted",
			"amount_charged_cents": 2520,
			"discount_code":        code,
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing external payment id", mutate: testutil.Field("external_payment_id", nil)},
			{name: "empty external payment id", mutate: testutil.Field("external_payment_id", "")},
			{name: "negative amount", mutate: testutil.Field("amount_charged_cents", -1)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 422 when the cart is empty", func() {
		s.mockPurchase.EXPECT().
			CompletePurchase(gomock.Any(), s.userID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrEmptyCart).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Cart is empty")
	})

	s.Run("error: 500 on unexpected failures", func() {
		s.mockPurchase.EXPECT().
			CompletePurchase(gomock.Any(), s.userID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})

	s.Run("error: 500 when user_id missing in context", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
