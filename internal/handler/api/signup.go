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

type SignupHandler struct {
	signupCommands commands.SignupCommands
	cancelCommands commands.CancelCommands
	eventQueries   queries.EventQueries
}

func NewSignupHandler(
	signupCommands commands.SignupCommands,
	cancelCommands commands.CancelCommands,
	eventQueries queries.EventQueries,
) *SignupHandler {
	return &SignupHandler{
		signupCommands: signupCommands,
		cancelCommands: cancelCommands,
		eventQueries:   eventQueries,
	}
}

// @Summary Sign up for an event
// @Description Reserve a seat in the caller's gender pool or join the waitlist
// @Tags signups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (uuid or external id)"
// @Param request body reqdto.SignupRequest true "Signup request"
// @Success 201 {object} resdto.SignupResultResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /events/{id}/signup [post]
func (h *SignupHandler) Signup(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	eventID, ok := h.resolveEventID(c)
	if !ok {
		return
	}

	var req reqdto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	gender, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid gender",
		})
		return
	}

	result, err := h.signupCommands.Signup(c.Request.Context(), userID, eventID, gender)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Event not found",
			})
		case errors.Is(err, commands.ErrDuplicateSignup):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Already signed up for this event",
			})
		case errors.Is(err, commands.ErrInsufficientCredits):
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error": "Insufficient credits",
			})
		case errors.Is(err, commands.ErrCapacityRaceExhausted):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Event is busy, please try again",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromSignupResult(result))
}

// @Summary Cancel a signup
// @Description Release the caller's seat or waitlist spot for the event
// @Tags signups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (uuid or external id)"
// @Success 200 {object} resdto.CancelResultResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/signup [delete]
func (h *SignupHandler) CancelSignup(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	eventID, ok := h.resolveEventID(c)
	if !ok {
		return
	}

	result, err := h.cancelCommands.Cancel(c.Request.Context(), userID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrNotSignedUp):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Not signed up for this event",
			})
		case errors.Is(err, commands.ErrCapacityRaceExhausted):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Event is busy, please try again",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCancelResult(result))
}

// resolveEventID accepts either identifier form in the path and always
// hands the ledger uuid to the command layer.
func (h *SignupHandler) resolveEventID(c *gin.Context) (uuid.UUID, bool) {
	ref := c.Param("id")
	if id, err := uuid.Parse(ref); err == nil {
		return id, true
	}

	view, err := h.eventQueries.GetByRef(c.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, queries.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Event not found",
			})
			return uuid.Nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return uuid.Nil, false
	}
	return view.ID, true
}
