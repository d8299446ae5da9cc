package api

import (
	"errors"
	"net/http"

	reqdto "datenight/internal/handler/dto/request"
	resdto "datenight/internal/handler/dto/response"
	"datenight/internal/handler/middleware"
	"datenight/internal/usecase/commands"
	"datenight/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MeHandler struct {
	signupQueries     queries.SignupQueries
	cartQueries       queries.CartQueries
	cartCommands      commands.CartCommands
	reconcileCommands commands.ReconcileCommands
}

func NewMeHandler(
	signupQueries queries.SignupQueries,
	cartQueries queries.CartQueries,
	cartCommands commands.CartCommands,
	reconcileCommands commands.ReconcileCommands,
) *MeHandler {
	return &MeHandler{
		signupQueries:     signupQueries,
		cartQueries:       cartQueries,
		cartCommands:      cartCommands,
		reconcileCommands: reconcileCommands,
	}
}

// @Summary List my signups
// @Description List the caller's signup records across all events
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.SignupListResponse
// @Failure 401 {object} map[string]string
// @Router /me/signups [get]
func (h *MeHandler) GetSignups(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	views, err := h.signupQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.SignupListResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromSignupView(v)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary My credit balance
// @Description Get the caller's remaining date credits
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CreditResponse
// @Failure 401 {object} map[string]string
// @Router /me/credits [get]
func (h *MeHandler) GetCredits(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.signupQueries.CreditBalance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.CreditResponse{Balance: view.Balance})
}

// @Summary My cart
// @Description Get the caller's cart with subtotal and total dates
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CartResponse
// @Failure 401 {object} map[string]string
// @Router /me/cart [get]
func (h *MeHandler) GetCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.cartQueries.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCartView(view))
}

// @Summary Add cart item
// @Description Add a package line item to the caller's cart
// @Tags me
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddCartItemRequest true "Line item"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /me/cart/items [post]
func (h *MeHandler) AddCartItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req reqdto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	item, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid line item",
		})
		return
	}

	if err := h.cartCommands.AddItem(c.Request.Context(), userID, item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "added"})
}

// @Summary Clear cart
// @Description Remove every item from the caller's cart
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /me/cart [delete]
func (h *MeHandler) ClearCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.cartCommands.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// @Summary Reconcile my state
// @Description Run the reconciliation pass for the caller and return its report
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.ReconcileResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /me/reconcile [post]
func (h *MeHandler) Reconcile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	report, err := h.reconcileCommands.Reconcile(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReconcileReport(report))
}

func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return uuid.Nil, false
	}
	return userID, true
}
