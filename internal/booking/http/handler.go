package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dadasys/parkovaci-app/internal/auth"
	"github.com/dadasys/parkovaci-app/internal/booking"
	"github.com/dadasys/parkovaci-app/internal/pkg/request"
	"github.com/dadasys/parkovaci-app/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Week returns the booking grid of one work week.
func (h *Handler) Week(c *gin.Context) {
	var req WeekRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid week offset", err)
		return
	}

	w, err := h.service.Week(c.Request.Context(), req.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWeekResponse(w))
}

// List returns every active reservation ordered by id.
func (h *Handler) List(c *gin.Context) {
	all, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ReservationResponse, len(all))
	for i, r := range all {
		items[i] = NewReservationResponse(r)
	}

	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid reservation id", err)
		return
	}

	r, err := h.service.Get(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	requestor, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	slot, err := body.Slot(h.service.Location())
	if err != nil {
		response.Error(c, err)
		return
	}

	r, err := h.service.Reserve(c.Request.Context(), requestor, slot)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(r))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid reservation id", err)
		return
	}

	requestor, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), requestor, req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
