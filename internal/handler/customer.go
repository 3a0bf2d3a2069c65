package handler

import (
	"net/http"
	"time"

	"github.com/Khawar13/web-pos/internal/service"
	"github.com/Khawar13/web-pos/pkg/response"
	"github.com/Khawar13/web-pos/pkg/utils"

	"github.com/gorilla/mux"
)

type CustomerHandler struct {
	rentals *service.RentalService
}

func NewCustomerHandler(rentals *service.RentalService) *CustomerHandler {
	return &CustomerHandler{rentals: rentals}
}

// OutstandingRentals lists a customer's open rentals with days late, for the
// return screen at the counter.
func (h *CustomerHandler) OutstandingRentals(w http.ResponseWriter, r *http.Request) {
	phone := mux.Vars(r)["phone"]
	if !utils.IsValidPhone(phone) {
		response.BadRequest(w, "Phone number must be 10 digits", nil)
		return
	}

	rentals, err := h.rentals.OutstandingByPhone(r.Context(), phone, time.Now())
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, rentals)
}
