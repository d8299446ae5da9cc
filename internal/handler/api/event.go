package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	resdto "datenight/internal/handler/dto/response"
	"datenight/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventQueries queries.EventQueries
}

func NewEventHandler(eventQueries queries.EventQueries) *EventHandler {
	return &EventHandler{eventQueries: eventQueries}
}

// @Summary List upcoming events
// @Description List upcoming events with per-gender seat counters
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of events"
// @Success 200 {array} resdto.EventResponse
// @Failure 401 {object} map[string]string
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	views, err := h.eventQueries.ListUpcoming(c.Request.Context(), time.Now(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.EventResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromEventView(v)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get event
// @Description Get one event by its ledger id or its registry external id
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (uuid or external id)"
// @Success 200 {object} resdto.EventResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	view, err := h.eventQueries.GetByRef(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, queries.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Event not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromEventView(view))
}
