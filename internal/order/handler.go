package order

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// IdempotencyHeader lets a client mark retries of the same order.
const IdempotencyHeader = "Idempotency-Key"

type Handler struct {
	service *Service
}

type AdminHandler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func NewAdminHandler(service *Service) *AdminHandler {
	return &AdminHandler{service: service}
}

type placeOrderRequest struct {
	Customer CustomerInfo    `json:"customer"`
	Items    []SelectionLine `json:"items"`
}

// --------------------------------------------------
// Guest: place order in one request
// --------------------------------------------------
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	key := IdempotencyKey(c)
	record, err := h.service.PlaceOrder(c.Request.Context(), req.Items, req.Customer, key)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// --------------------------------------------------
// Admin: recent orders
// --------------------------------------------------
func (h *AdminHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	orders, err := h.service.ListOrders(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, ErrListingUnsupported) {
			c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}

	if orders == nil {
		orders = []StoredOrder{}
	}
	c.JSON(http.StatusOK, orders)
}

func IdempotencyKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(IdempotencyHeader))
}

// WriteError maps order errors to responses: validation problems go back to
// the guest, persistence failures are retryable.
func WriteError(c *gin.Context, err error) {
	var (
		v *ValidationError
		p *PersistenceError
	)
	switch {
	case errors.As(err, &v):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": v.Message, "kind": v.Kind})
	case errors.Is(err, ErrDuplicateOrder):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &p):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "could not save your order, please try again",
			"retryable": true,
			"order":     p.Record,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
