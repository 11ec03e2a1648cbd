// Package admin contains the back-office JSON handlers. Authorization is
// enforced in the service layer; these handlers only shape requests and
// responses.
package admin

import (
	"net/http"
	"time"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/handler"
	"github.com/ngocanhle/pawshop/internal/service"
)

// PromotionHandler manages promotion codes
type PromotionHandler struct {
	promotionService service.PromotionService
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(promotionService service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// List handles GET /admin/promotions
func (h *PromotionHandler) List(w http.ResponseWriter, r *http.Request) {
	promos, err := h.promotionService.ListPromotions(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, struct {
		Promotions []domain.PromotionCode `json:"promotions"`
	}{Promotions: promos})
}

// Get handles GET /admin/promotions/{id}
func (h *PromotionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	promo, err := h.promotionService.GetPromotion(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, promo)
}

type createPromotionRequest struct {
	Code            string     `json:"code" validate:"required,max=50"`
	Description     string     `json:"description" validate:"max=500"`
	DiscountAmount  int64      `json:"discount_amount" validate:"min=0"`
	DiscountPercent int32      `json:"discount_percent" validate:"min=0,max=100"`
	IsActive        bool       `json:"is_active"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	MaxUsage        int32      `json:"max_usage" validate:"min=0"`
}

// Create handles POST /admin/promotions
func (h *PromotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPromotionRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := handler.ValidateStruct("promotion.create", req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	promo := &domain.PromotionCode{
		Code:            req.Code,
		Description:     req.Description,
		DiscountAmount:  req.DiscountAmount,
		DiscountPercent: req.DiscountPercent,
		IsActive:        req.IsActive,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MaxUsage:        req.MaxUsage,
	}

	if err := h.promotionService.CreatePromotion(r.Context(), promo); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusCreated, promo)
}

type updatePromotionRequest struct {
	Description     *string    `json:"description"`
	DiscountAmount  *int64     `json:"discount_amount"`
	DiscountPercent *int32     `json:"discount_percent"`
	IsActive        *bool      `json:"is_active"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	MaxUsage        *int32     `json:"max_usage"`
}

// Update handles PATCH /admin/promotions/{id}
func (h *PromotionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updatePromotionRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	promo, err := h.promotionService.UpdatePromotion(r.Context(), id, domain.PromotionUpdate{
		Description:     req.Description,
		DiscountAmount:  req.DiscountAmount,
		DiscountPercent: req.DiscountPercent,
		IsActive:        req.IsActive,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MaxUsage:        req.MaxUsage,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, promo)
}

// Delete handles DELETE /admin/promotions/{id}
func (h *PromotionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.promotionService.DeletePromotion(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SetActive handles POST /admin/promotions/{id}/active
func (h *PromotionHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req setActiveRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	promo, err := h.promotionService.SetPromotionActive(r.Context(), id, req.IsActive)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, promo)
}
