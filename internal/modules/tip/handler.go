package tip

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/tips", h.CreateTip)
	r.GET("/tips/:id", h.GetTip)
}

// CreateTip starts a one-shot tip payment and returns the checkout URL.
// @Summary Send a tip
// @Tags tips
// @Accept json
// @Produce json
// @Param request body CreateTipRequest true "Tip details"
// @Success 201 {object} CreateTipResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /tips [post]
func (h *Handler) CreateTip(c *gin.Context) {
	var req CreateTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	req.ClientID = middleware.UserID(c)

	t, checkoutURL, err := h.service.CreateTip(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid tip amount or recipient"})
		case errors.Is(err, ErrPayoutsDisabled):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "artist has not completed payout onboarding"})
		default:
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "could not create tip"})
		}
		return
	}

	c.JSON(http.StatusCreated, CreateTipResponse{
		TipID:       t.PublicID,
		CheckoutURL: checkoutURL,
	})
}

func (h *Handler) GetTip(c *gin.Context) {
	t, err := h.service.GetByPublicID(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "tip not found"})
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a party to this tip"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, t)
}
