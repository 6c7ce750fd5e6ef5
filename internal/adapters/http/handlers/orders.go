package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/error-normalizer/internal/adapters/http/dto"
	"github.com/jsamuelsen/error-normalizer/internal/app"
	"github.com/jsamuelsen/error-normalizer/internal/domain"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	service *app.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service *app.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// OrderItemRequest is one line of a PlaceOrderRequest.
type OrderItemRequest struct {
	SKU      string `json:"sku"      validate:"required,notblank"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

func (r *OrderItemRequest) toDomain() *domain.OrderItem {
	return &domain.OrderItem{SKU: r.SKU, Quantity: r.Quantity}
}

// PlaceOrderRequest is the body of POST /orders.
type PlaceOrderRequest struct {
	UserID string              `json:"userId" validate:"required,uuid"`
	Items  []*OrderItemRequest `json:"items"  validate:"required,min=1,dive"`
}

// OrderItemResponse is one line of an OrderResponse.
type OrderItemResponse struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// OrderResponse is the HTTP representation of an order.
type OrderResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId"`
	Items         []OrderItemResponse `json:"items"`
	TotalQuantity int                 `json:"totalQuantity"`
	CreatedAt     time.Time           `json:"createdAt"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{SKU: item.SKU, Quantity: item.Quantity})
	}

	return OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Items:         items,
		TotalQuantity: o.TotalQuantity(),
		CreatedAt:     o.CreatedAt,
	}
}

// PlaceOrder handles POST /api/v1/orders.
//
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Param order body PlaceOrderRequest true "Order"
// @Success 201 {object} OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.Fail(c, err)
		return
	}

	items := make([]*domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, item.toDomain())
	}

	order, err := h.service.PlaceOrder(c.Request.Context(), app.PlaceOrderInput{
		UserID: req.UserID,
		Items:  items,
	})
	if err != nil {
		dto.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// GetOrder handles GET /api/v1/orders/:id.
//
// @Summary Get an order by ID
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// RegisterOrderRoutes registers order routes on rg behind guards.
func (h *OrderHandler) RegisterOrderRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	orders := rg.Group("/orders", guards...)
	orders.POST("", h.PlaceOrder)
	orders.GET("/:id", h.GetOrder)
}
