package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/telemetry"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts every catalog route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	routes := map[string]http.HandlerFunc{
		"POST /categories":                             h.HandleCreateCategory,
		"GET /categories":                              h.HandleListCategories,
		"GET /categories/{id}":                         h.HandleGetCategory,
		"GET /categories/{id}/report":                  h.HandleCategoryReport,
		"PUT /categories/{id}/products/{productId}":    h.HandleAttachProduct,
		"DELETE /categories/{id}/products/{productId}": h.HandleDetachProduct,
		"POST /products":                               h.HandleCreateProduct,
		"GET /products/{id}":                           h.HandleGetProduct,
		"POST /products/{id}/stock":                    h.HandleUpdateStock,
		"POST /products/{id}/discount":                 h.HandleApplyDiscount,
		"POST /products/{id}/price":                    h.HandleSetPrice,
		"POST /orders":                                 h.HandleCreateOrder,
		"GET /orders":                                  h.HandleListOrders,
		"GET /orders/{id}":                             h.HandleGetOrder,
		"GET /orders/{id}/details":                     h.HandleOrderDetails,
		"POST /orders/{id}/items":                      h.HandleAddItem,
		"DELETE /orders/{id}/items/{productId}":        h.HandleRemoveItem,
		"PATCH /orders/{id}/status":                    h.HandleUpdateStatus,
	}
	for pattern, fn := range routes {
		mux.HandleFunc(pattern, telemetry.WithHTTPRoute(fn))
	}
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, category)
}

func (h *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Categories(r.Context()))
}

func (h *Handler) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.Category(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, category)
}

func (h *Handler) HandleCategoryReport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.CategoryReport(r.Context(), r.PathValue("id"), &buf); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeText(w, buf.Bytes())
}

type attachResponse struct {
	Added bool `json:"added"`
}

func (h *Handler) HandleAttachProduct(w http.ResponseWriter, r *http.Request) {
	added, err := h.service.AttachProduct(r.Context(), r.PathValue("id"), r.PathValue("productId"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, attachResponse{Added: added})
}

func (h *Handler) HandleDetachProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DetachProduct(r.Context(), r.PathValue("id"), r.PathValue("productId")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createProductRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  string          `json:"category_id"`
	Description string          `json:"description"`
	Discount    decimal.Decimal `json:"discount"`
}

func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.service.CreateProduct(r.Context(), NewProductInput(req))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Product(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

type updateStockRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) HandleUpdateStock(w http.ResponseWriter, r *http.Request) {
	var req updateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.service.UpdateStock(r.Context(), r.PathValue("id"), req.Delta)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

type discountRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

func (h *Handler) HandleApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.service.ApplyDiscount(r.Context(), r.PathValue("id"), req.Discount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

type priceRequest struct {
	Price decimal.Decimal `json:"price"`
}

func (h *Handler) HandleSetPrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.service.SetPrice(r.Context(), r.PathValue("id"), req.Price)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

type createOrderRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerAddress string `json:"customer_address"`
}

func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), NewOrderInput(req))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.service.Orders(r.Context())
	h.logger.Info("orders listed", "count", len(orders))
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Order(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleOrderDetails(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.OrderDetails(r.Context(), r.PathValue("id"), &buf); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeText(w, buf.Bytes())
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.AddItem(r.Context(), r.PathValue("id"), req.ProductID, req.Quantity)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

// HandleRemoveItem removes the whole line unless a positive ?quantity= is given.
func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	quantity := domain.RemoveAll
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid quantity")
			return
		}
		quantity = q
	}

	order, err := h.service.RemoveItem(r.Context(), r.PathValue("id"), r.PathValue("productId"), quantity)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, domain.ErrProductNotInCategory),
		errors.Is(err, domain.ErrProductNotInOrder):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrCustomerNameRequired),
		errors.Is(err, ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("unexpected catalog error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) writeText(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
