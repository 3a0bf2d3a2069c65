package handler

import (
	"net/http"
	"strings"

	"github.com/Khawar13/web-pos/internal/domain"
	"github.com/Khawar13/web-pos/internal/service"
	"github.com/Khawar13/web-pos/pkg/response"

	"github.com/gorilla/mux"
)

type CouponHandler struct {
	coupons *service.CouponService
}

func NewCouponHandler(coupons *service.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// ValidateCoupon checks a code without redeeming it; the POS terminal calls
// this while the cart is still open.
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	rate, ok, err := h.coupons.Validate(r.Context(), code)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, domain.CouponValidationResponse{
		Code:         strings.ToUpper(code),
		Valid:        ok,
		DiscountRate: rate,
	})
}
