package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// CouponHandler handles coupon administration and validation endpoints
type CouponHandler struct {
	BaseHandler
	coupons *promotionapp.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(coupons *promotionapp.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// RegisterRoutes registers coupon routes on the given group
func (h *CouponHandler) RegisterRoutes(rg *gin.RouterGroup) {
	coupons := rg.Group("/coupons")
	{
		coupons.POST("", h.Create)
		coupons.GET("", h.List)
		coupons.GET("/:code", h.GetByCode)
		coupons.POST("/:id/activate", h.Activate)
		coupons.POST("/:id/deactivate", h.Deactivate)
	}
}

// RegisterValidateRoute registers the public validation endpoint
func (h *CouponHandler) RegisterValidateRoute(rg *gin.RouterGroup) {
	rg.POST("/coupons/validate", h.Validate)
}

// CreateCouponRequest is the body for creating a coupon
type CreateCouponRequest struct {
	Code            string               `json:"code" binding:"required"`
	Type            promotion.CouponType `json:"type" binding:"required"`
	Value           decimal.Decimal      `json:"value" binding:"required"`
	MinimumAmount   decimal.Decimal      `json:"minimum_amount"`
	MaximumDiscount *decimal.Decimal     `json:"maximum_discount"`
	UsageLimit      *int                 `json:"usage_limit"`
	StartsAt        *time.Time           `json:"starts_at"`
	ExpiresAt       *time.Time           `json:"expires_at"`
}

// ValidateCouponRequest asks whether a coupon applies to a given subtotal
type ValidateCouponRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal" binding:"required"`
}

// Create creates a new coupon
func (h *CouponHandler) Create(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	startsAt := time.Now()
	if req.StartsAt != nil {
		startsAt = *req.StartsAt
	}

	coupon, err := h.coupons.Create(c.Request.Context(), promotionapp.CreateCouponRequest{
		Code:            req.Code,
		Type:            req.Type,
		Value:           req.Value,
		MinimumAmount:   req.MinimumAmount,
		MaximumDiscount: req.MaximumDiscount,
		UsageLimit:      req.UsageLimit,
		StartsAt:        startsAt,
		ExpiresAt:       req.ExpiresAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, coupon)
}

// List lists coupons
func (h *CouponHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := req.ToFilter()
	coupons, total, err := h.coupons.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, coupons, total, filter.Page, filter.PageSize)
}

// GetByCode retrieves a coupon by its code
func (h *CouponHandler) GetByCode(c *gin.Context) {
	coupon, err := h.coupons.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, coupon)
}

// Activate enables a coupon
func (h *CouponHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate disables a coupon
func (h *CouponHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *CouponHandler) setActive(c *gin.Context, active bool) {
	couponID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid coupon ID format")
		return
	}

	coupon, err := h.coupons.SetActive(c.Request.Context(), couponID, active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, coupon)
}

// Validate checks a coupon against a cart subtotal and returns the
// discount it would grant. Validation only; no usage is recorded.
func (h *CouponHandler) Validate(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.coupons.ValidateAndPrice(c.Request.Context(), req.Code, req.Subtotal, time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
