package storefront

import (
	"net/http"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/handler"
	"github.com/ngocanhle/pawshop/internal/service"
)

// OrderHandler exposes the customer's order history and cancellation
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type orderListResponse struct {
	Orders  []domain.Order `json:"orders"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// List handles GET /orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page := handler.QueryInt(r, "page", 1)
	perPage := handler.QueryInt(r, "per_page", 20)

	orders, total, err := h.orderService.ListMyOrders(r.Context(), page, perPage)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, orderListResponse{
		Orders:  orders,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// Get handles GET /orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, order)
}

// Cancel handles POST /orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.orderService.CancelOrder(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, order)
}

// Points handles GET /points
func (h *OrderHandler) Points(w http.ResponseWriter, r *http.Request) {
	points, err := h.orderService.ListMyPoints(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var total int32
	for _, p := range points {
		total += p.Points
	}

	handler.JSON(w, http.StatusOK, struct {
		Points []domain.CustomerPoint `json:"points"`
		Total  int32                  `json:"total"`
	}{Points: points, Total: total})
}
