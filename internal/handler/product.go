package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Khawar13/web-pos/internal/domain"
	"github.com/Khawar13/web-pos/internal/service"
	"github.com/Khawar13/web-pos/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type ProductHandler struct {
	service   *service.ProductService
	validator *validator.Validate
}

func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.ProductFilter{
		Category:     query.Get("category"),
		Search:       query.Get("search"),
		RentableOnly: query.Get("rentable") == "true",
		LowStockOnly: query.Get("low_stock") == "true",
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, product)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid product request", err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, product)
}

type stockUpdateRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// UpdateStock applies a signed stock correction (receiving, shrinkage).
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]

	var request stockUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid stock update", err)
		return
	}

	product, notifications, err := h.service.UpdateStock(r.Context(), productID, request.Delta)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	for _, n := range notifications {
		log.Printf("event %s: %s", n.Event, n.Message)
	}

	response.Success(w, product)
}
