package payment

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "Stripe-Signature"

// Handler exposes the webhook endpoints. The endpoints are
// unauthenticated; trust comes from the signature over the exact raw
// body bytes, so the body is read before any binding can consume it.
type Handler struct {
	verifier eventVerifier
	router   *Router
	loggerf  func(format string, args ...interface{})
}

func NewHandler(verifier eventVerifier, router *Router, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{verifier: verifier, router: router, loggerf: loggerf}
}

func (h *Handler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.Webhook)
	rg.POST("/webhooks/stripe/tips", h.TipWebhook)
}

// Webhook godoc
// @Summary      Stripe webhook endpoint
// @Description  Verifies the event signature and routes it to the owning record family
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]bool
// @Failure      400 {object} map[string]string
// @Router       /webhooks/stripe [post]
func (h *Handler) Webhook(c *gin.Context) {
	h.handle(c, false)
}

// TipWebhook godoc
// @Summary      Stripe tip webhook endpoint
// @Description  Same intake as the main endpoint but verified against the tip channel secret
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]bool
// @Failure      400 {object} map[string]string
// @Router       /webhooks/stripe/tips [post]
func (h *Handler) TipWebhook(c *gin.Context) {
	h.handle(c, true)
}

func (h *Handler) handle(c *gin.Context, tip bool) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil || len(payload) == 0 {
		h.loggerf("level=error msg=webhook body read failed err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing request body"})
		return
	}

	sig := c.GetHeader(signatureHeader)
	if sig == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing signature header"})
		return
	}

	ev, err := h.verifier.VerifyEvent(payload, sig, tip)
	if err != nil {
		h.loggerf("level=error msg=webhook signature verification failed tip=%t err=%v", tip, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	// The event is verified and durably read: acknowledge with 2xx even
	// if a downstream side effect fails, otherwise the gateway redelivers
	// an event that already partially applied. The CAS transition guards
	// make the redelivery safe, but there is no reason to invite it.
	if err := h.router.Dispatch(c.Request.Context(), ev); err != nil {
		h.loggerf("level=error msg=webhook processing failed event_id=%s type=%s err=%v", ev.ID, ev.Type, err)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
