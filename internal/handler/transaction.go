package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Khawar13/web-pos/internal/domain"
	"github.com/Khawar13/web-pos/internal/service"
	customError "github.com/Khawar13/web-pos/pkg/errors"
	"github.com/Khawar13/web-pos/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// TransactionHandler exposes the three transaction flows. Notifications
// returned by the processor are dispatched here (to the log) so nothing in
// the service layer holds listener state.
type TransactionHandler struct {
	service   *service.TransactionService
	validator *validator.Validate
}

func NewTransactionHandler(service *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *TransactionHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var request domain.SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid sale request", err)
		return
	}

	transaction, notifications, err := h.service.ProcessSale(r.Context(), &request)
	h.dispatch(notifications)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, domain.TransactionResponse{Transaction: transaction, Notifications: notifications})
}

func (h *TransactionHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var request domain.RentalRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid rental request", err)
		return
	}

	transaction, notifications, err := h.service.ProcessRental(r.Context(), &request)
	h.dispatch(notifications)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, domain.TransactionResponse{Transaction: transaction, Notifications: notifications})
}

func (h *TransactionHandler) CreateReturn(w http.ResponseWriter, r *http.Request) {
	var request domain.ReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid return request", err)
		return
	}

	transaction, notifications, err := h.service.ProcessReturn(r.Context(), &request)
	h.dispatch(notifications)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, domain.TransactionResponse{Transaction: transaction, Notifications: notifications})
}

func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := mux.Vars(r)["transactionId"]

	transaction, err := h.service.GetTransaction(r.Context(), transactionID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	if transaction == nil {
		response.NotFound(w, "Transaction not found")
		return
	}

	response.Success(w, transaction)
}

func (h *TransactionHandler) dispatch(notifications []domain.Notification) {
	for _, n := range notifications {
		log.Printf("event %s: %s", n.Event, n.Message)
	}
}

// writeBusinessError maps a business error to an HTTP status. Partial
// failures are server errors: the transaction is committed but stock or
// ledger state needs reconciliation.
func writeBusinessError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "Unexpected error", err)
		return
	}

	switch businessErr.Code {
	case customError.ErrCodeValidation, customError.ErrCodeEmptyCart:
		response.ErrorWithCode(w, http.StatusBadRequest, businessErr.Message, businessErr.Code, businessErr.Err)
	case customError.ErrCodeProductNotFound, customError.ErrCodeCustomerNotFound, customError.ErrCodeNoOpenRental:
		response.ErrorWithCode(w, http.StatusNotFound, businessErr.Message, businessErr.Code, businessErr.Err)
	case customError.ErrCodePartialFailure:
		log.Printf("reconciliation needed: %v", businessErr)
		response.ErrorWithCode(w, http.StatusInternalServerError, businessErr.Message, businessErr.Code, businessErr.Err)
	default:
		response.ErrorWithCode(w, http.StatusInternalServerError, businessErr.Message, businessErr.Code, businessErr.Err)
	}
}
