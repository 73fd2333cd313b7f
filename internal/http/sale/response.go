package sale

import (
	"time"

	"github.com/jataidesja-hub/gerenciamento/internal/money"
	"github.com/jataidesja-hub/gerenciamento/internal/sale"
)

type saleResponse struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	CustomerName     string `json:"customer_name"`
	CityState        string `json:"city_state"`
	Phone            string `json:"phone"`
	PurchaseDate     string `json:"purchase_date"`
	TotalValue       string `json:"total_value"`
	PaymentMethod    string `json:"payment_method"`
	InstallmentCount int    `json:"installment_count"`
	InstallmentValue string `json:"installment_value"`
	Litter           string `json:"litter"`
	Sex              string `json:"sex"`
	Color            string `json:"color"`
	DeliveryDate     string `json:"delivery_date"`
	Responsible      string `json:"responsible"`
}

type installmentResponse struct {
	SaleID  string `json:"sale_id"`
	Number  int    `json:"number"`
	Value   string `json:"value"`
	DueDate string `json:"due_date"`
	Status  string `json:"status"`
	PaidAt  string `json:"paid_at,omitempty"`
}

type saleDetailResponse struct {
	saleResponse
	Installments []installmentResponse `json:"installments"`
}

type payResponse struct {
	Updated    bool   `json:"updated"`
	PaidCount  int    `json:"paid_count"`
	TotalCount int    `json:"total_count"`
	Status     string `json:"status"`
}

func toResponse(s *sale.Sale) saleResponse {
	return saleResponse{
		ID:               s.ID,
		Status:           string(s.Status),
		CustomerName:     s.CustomerName,
		CityState:        s.CityState,
		Phone:            s.Phone,
		PurchaseDate:     formatDate(s.PurchaseDate),
		TotalValue:       money.Format(s.TotalValue),
		PaymentMethod:    s.PaymentMethod,
		InstallmentCount: s.InstallmentCount,
		InstallmentValue: money.Format(s.InstallmentValue),
		Litter:           s.Litter,
		Sex:              s.Sex,
		Color:            s.Color,
		DeliveryDate:     formatDate(s.DeliveryDate),
		Responsible:      s.Responsible,
	}
}

func toResponseList(sales []*sale.Sale) []saleResponse {
	out := make([]saleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toResponse(s))
	}

	return out
}

func toInstallment(i *sale.Installment) installmentResponse {
	resp := installmentResponse{
		SaleID:  i.SaleID,
		Number:  i.Number,
		Value:   money.Format(i.Value),
		DueDate: formatDate(i.DueDate),
		Status:  string(i.Status),
	}

	if i.PaidAt != nil {
		resp.PaidAt = i.PaidAt.Format(time.RFC3339)
	}

	return resp
}

func toInstallmentList(installments []*sale.Installment) []installmentResponse {
	out := make([]installmentResponse, 0, len(installments))
	for _, i := range installments {
		out = append(out, toInstallment(i))
	}

	return out
}

func toDetailResponse(s *sale.Sale, installments []*sale.Installment) saleDetailResponse {
	return saleDetailResponse{
		saleResponse: toResponse(s),
		Installments: toInstallmentList(installments),
	}
}

func toPayResponse(r *sale.PaymentResult) payResponse {
	return payResponse{
		Updated:    r.Updated,
		PaidCount:  r.Paid,
		TotalCount: r.Total,
		Status:     string(r.Status),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(time.DateOnly)
}
