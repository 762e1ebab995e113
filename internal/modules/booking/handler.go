package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inkwell/internal/domain"
	"inkwell/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/bookings", h.CreateBooking)
	r.GET("/bookings", h.GetMyBookings)
	r.GET("/bookings/:id", h.GetBooking)
	r.POST("/bookings/:id/reaction", h.SubmitReaction)
}

// CreateBooking creates a booking and returns the checkout URL when a
// deposit is required.
// @Summary Create booking
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "Booking details"
// @Success 201 {object} CreateBookingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	req.ClientID = middleware.UserID(c)

	b, checkoutURL, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid booking window or amount"})
		case errors.Is(err, ErrPayoutsDisabled):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "artist has not completed payout onboarding"})
		default:
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "could not create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, CreateBookingResponse{
		BookingID:   b.PublicID,
		CheckoutURL: checkoutURL,
		Status:      string(b.Status),
	})
}

// GetMyBookings lists bookings where the caller is client or artist.
// @Summary List my bookings
// @Tags bookings
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} domain.Booking
// @Router /bookings [get]
func (h *Handler) GetMyBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.service.GetMyBookings(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load bookings"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetBooking returns a single booking visible to its counterparties only.
// @Summary Get booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking public ID"
// @Success 200 {object} domain.Booking
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /bookings/{id} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.service.GetByPublicID(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// SubmitReaction records the artist's (or client's) accept/reject
// decision and settles the deposit hold accordingly.
// @Summary Submit reaction
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking public ID"
// @Param request body ReactionRequest true "Decision"
// @Success 200 {object} domain.Booking
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /bookings/{id}/reaction [post]
func (h *Handler) SubmitReaction(c *gin.Context) {
	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	b, err := h.service.SubmitReaction(c.Request.Context(), c.Param("id"), middleware.UserID(c), domain.Reaction(req.Reaction), req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "reaction must be accepted or rejected"})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a party to this booking"})
		case errors.Is(err, ErrAlreadyDecided):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "reaction already decided"})
		default:
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "could not settle deposit"})
		}
		return
	}
	c.JSON(http.StatusOK, b)
}

func writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a party to this booking"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
