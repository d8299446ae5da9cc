package api

import (
	"errors"
	"net/http"

	reqdto "datenight/internal/handler/dto/request"
	resdto "datenight/internal/handler/dto/response"
	"datenight/internal/handler/middleware"
	"datenight/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchaseCommands commands.PurchaseCommands
}

func NewPurchaseHandler(purchaseCommands commands.PurchaseCommands) *PurchaseHandler {
	return &PurchaseHandler{purchaseCommands: purchaseCommands}
}

// @Summary Complete a purchase
// @Description Convert a completed external payment into date credits. Replaying the same external payment id returns the original result.
// @Tags purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CompletePurchaseRequest true "Payment confirmation"
// @Success 200 {object} resdto.PurchaseResponse "Replayed request"
// @Success 201 {object} resdto.PurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /purchases [post]
func (h *PurchaseHandler) CompletePurchase(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CompletePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.purchaseCommands.CompletePurchase(
		c.Request.Context(), userID, req.ExternalPaymentID, req.AmountCharged, req.DiscountCode)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEmptyCart):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Cart is empty",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromPurchaseResult(result))
}
