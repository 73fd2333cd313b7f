package sale

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jataidesja-hub/gerenciamento/internal/money"
	"github.com/jataidesja-hub/gerenciamento/internal/sale"
)

type Handler struct {
	svc *sale.Service
}

func NewHandler(svc *sale.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Post("/{id}/installments/{number}/pay", h.pay)
}

// saleRequest carries the sale fields as the legacy sheet did: everything is a
// string and numeric fields are coerced, with comma accepted as the decimal
// separator. Malformed values degrade to zero rather than failing the request.
type saleRequest struct {
	Status           string `json:"status"`
	CustomerName     string `json:"customer_name"`
	CityState        string `json:"city_state"`
	Phone            string `json:"phone"`
	PurchaseDate     string `json:"purchase_date"`
	TotalValue       string `json:"total_value"`
	PaymentMethod    string `json:"payment_method"`
	InstallmentCount string `json:"installment_count"`
	InstallmentValue string `json:"installment_value"`
	Litter           string `json:"litter"`
	Sex              string `json:"sex"`
	Color            string `json:"color"`
	DeliveryDate     string `json:"delivery_date"`
	Responsible      string `json:"responsible"`
}

func (r saleRequest) toParams() sale.CreateParams {
	return sale.CreateParams{
		Status:           sale.Status(strings.TrimSpace(r.Status)),
		CustomerName:     r.CustomerName,
		CityState:        r.CityState,
		Phone:            r.Phone,
		PurchaseDate:     parseDate(r.PurchaseDate),
		TotalValue:       money.Coerce(r.TotalValue),
		PaymentMethod:    r.PaymentMethod,
		InstallmentCount: parseCount(r.InstallmentCount),
		InstallmentValue: money.Coerce(r.InstallmentValue),
		Litter:           r.Litter,
		Sex:              r.Sex,
		Color:            r.Color,
		DeliveryDate:     parseDate(r.DeliveryDate),
		Responsible:      r.Responsible,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sl, err := h.svc.Create(r.Context(), req.toParams())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(sl)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(sales)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sl, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			http.Error(w, "sale not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	installments, err := h.svc.SaleInstallments(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toDetailResponse(sl, installments)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// update overwrites the sale's full field set. The ID is taken from the URL
// and is immutable; the sale's installments are not regenerated.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := req.toParams()

	sl := &sale.Sale{
		ID:               id,
		Status:           params.Status,
		CustomerName:     params.CustomerName,
		CityState:        params.CityState,
		Phone:            params.Phone,
		PurchaseDate:     params.PurchaseDate,
		TotalValue:       params.TotalValue,
		PaymentMethod:    params.PaymentMethod,
		InstallmentCount: params.InstallmentCount,
		InstallmentValue: params.InstallmentValue,
		Litter:           params.Litter,
		Sex:              params.Sex,
		Color:            params.Color,
		DeliveryDate:     params.DeliveryDate,
		Responsible:      params.Responsible,
	}

	if err := h.svc.Update(r.Context(), sl); err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			http.Error(w, "sale not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(sl)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		http.Error(w, "invalid installment number", http.StatusBadRequest)
		return
	}

	result, err := h.svc.PayInstallment(r.Context(), id, number)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toPayResponse(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// ListInstallments serves the full installment table.
func (h *Handler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	installments, err := h.svc.ListInstallments(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toInstallmentList(installments)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Setup initializes the backing tables. Idempotent.
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Setup(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}

	return n
}

// parseDate accepts ISO and Brazilian date formats; anything else reads as
// the zero time, letting downstream defaults apply.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range []string{time.DateOnly, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
