package guestspot

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
	r.POST("/guest-spots", h.CreateGuestSpot)
	r.GET("/guest-spots", h.GetMyGuestSpots)
	r.GET("/guest-spots/:id", h.GetGuestSpot)
	r.POST("/guest-spots/:id/reaction", h.SubmitReaction)
}

// CreateGuestSpot opens a guest spot booking with the caller as the
// visiting artist.
// @Summary Create guest spot booking
// @Tags guest-spots
// @Accept json
// @Produce json
// @Param request body CreateGuestSpotRequest true "Guest spot details"
// @Success 201 {object} CreateGuestSpotResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /guest-spots [post]
func (h *Handler) CreateGuestSpot(c *gin.Context) {
	var req CreateGuestSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	req.ArtistID = middleware.UserID(c)

	g, checkoutURL, err := h.service.CreateGuestSpot(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date range or amount"})
		case errors.Is(err, ErrPayoutsDisabled):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "shop has not completed payout onboarding"})
		default:
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "could not create guest spot booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, CreateGuestSpotResponse{
		GuestSpotID: g.PublicID,
		CheckoutURL: checkoutURL,
	})
}

// GetMyGuestSpots lists guest spot bookings where the caller is the
// artist or the shop.
func (h *Handler) GetMyGuestSpots(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.service.GetMyGuestSpots(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load guest spot bookings"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetGuestSpot(c *gin.Context) {
	g, err := h.service.GetByPublicID(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "guest spot booking not found"})
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a party to this booking"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, g)
}

// SubmitReaction records the accept/reject decision on a guest spot
// booking and settles the deposit hold accordingly.
// @Summary Submit reaction
// @Tags guest-spots
// @Accept json
// @Produce json
// @Param id path string true "Guest spot public ID"
// @Param request body ReactionRequest true "Decision"
// @Success 200 {object} domain.GuestSpotBooking
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /guest-spots/{id}/reaction [post]
func (h *Handler) SubmitReaction(c *gin.Context) {
	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	g, err := h.service.SubmitReaction(c.Request.Context(), c.Param("id"), middleware.UserID(c), domain.Reaction(req.Reaction), req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "reaction must be accepted or rejected"})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "guest spot booking not found"})
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a party to this booking"})
		case errors.Is(err, ErrAlreadyDecided):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "reaction already decided"})
		default:
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "could not settle deposit"})
		}
		return
	}
	c.JSON(http.StatusOK, g)
}
