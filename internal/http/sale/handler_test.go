package sale_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	salehttp "github.com/jataidesja-hub/gerenciamento/internal/http/sale"
	"github.com/jataidesja-hub/gerenciamento/internal/sale"
	"github.com/jataidesja-hub/gerenciamento/internal/sale/store"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	wb, err := store.OpenWorkbook(filepath.Join(t.TempDir(), "vendas.xlsx"))
	require.NoError(t, err)

	svc := sale.NewService(wb)
	require.NoError(t, svc.Setup(context.Background()))

	router := chi.NewRouter()
	salehttp.NewHandler(svc).Routes(router)

	return router
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(into))
}

func TestHandler_CreateSale(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/", map[string]string{
		"customer_name":     "Maria Souza",
		"city_state":        "Jataí/GO",
		"purchase_date":     "15/01/2024",
		"total_value":       "1.200,00",
		"payment_method":    "Pix",
		"installment_count": "3",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		TotalValue       string `json:"total_value"`
		InstallmentCount int    `json:"installment_count"`
		InstallmentValue string `json:"installment_value"`
		PurchaseDate     string `json:"purchase_date"`
	}
	decodeBody(t, rec, &resp)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Em aberto", resp.Status)
	assert.Equal(t, "1200,00", resp.TotalValue)
	assert.Equal(t, 3, resp.InstallmentCount)
	assert.Equal(t, "400,00", resp.InstallmentValue)
	assert.Equal(t, "2024-01-15", resp.PurchaseDate)
}

func TestHandler_CreateSale_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetSale(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/", map[string]string{
		"customer_name":     "João Lima",
		"total_value":       "900",
		"purchase_date":     "2024-03-10",
		"installment_count": "2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &created)

	rec = doJSON(t, router, http.MethodGet, "/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID           string `json:"id"`
		CustomerName string `json:"customer_name"`
		Installments []struct {
			Number  int    `json:"number"`
			Value   string `json:"value"`
			DueDate string `json:"due_date"`
			Status  string `json:"status"`
		} `json:"installments"`
	}
	decodeBody(t, rec, &resp)

	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "João Lima", resp.CustomerName)
	require.Len(t, resp.Installments, 2)
	assert.Equal(t, "450,00", resp.Installments[0].Value)
	assert.Equal(t, "2024-03-10", resp.Installments[0].DueDate)
	assert.Equal(t, "2024-04-10", resp.Installments[1].DueDate)
	assert.Equal(t, "Pendente", resp.Installments[0].Status)
}

func TestHandler_GetSale_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/missing-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpdateSale(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/", map[string]string{
		"customer_name": "Ana",
		"total_value":   "500",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &created)

	rec = doJSON(t, router, http.MethodPut, "/"+created.ID, map[string]string{
		"customer_name":     "Ana Paula",
		"status":            "Em aberto",
		"total_value":       "500",
		"installment_count": "1",
		"phone":             "(64) 99999-0000",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated struct {
		ID           string `json:"id"`
		CustomerName string `json:"customer_name"`
		Phone        string `json:"phone"`
	}
	decodeBody(t, rec, &updated)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ana Paula", updated.CustomerName)
	assert.Equal(t, "(64) 99999-0000", updated.Phone)
}

func TestHandler_UpdateSale_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/missing-id", map[string]string{
		"customer_name": "Ninguém",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_PayInstallment(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/", map[string]string{
		"customer_name":     "Carlos",
		"total_value":       "800",
		"installment_count": "2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &created)

	type payResp struct {
		Updated    bool   `json:"updated"`
		PaidCount  int    `json:"paid_count"`
		TotalCount int    `json:"total_count"`
		Status     string `json:"status"`
	}

	rec = doJSON(t, router, http.MethodPost, "/"+created.ID+"/installments/1/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var first payResp
	decodeBody(t, rec, &first)
	assert.True(t, first.Updated)
	assert.Equal(t, 1, first.PaidCount)
	assert.Equal(t, 2, first.TotalCount)
	assert.Equal(t, "Parcial", first.Status)

	rec = doJSON(t, router, http.MethodPost, "/"+created.ID+"/installments/2/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var second payResp
	decodeBody(t, rec, &second)
	assert.True(t, second.Updated)
	assert.Equal(t, "Pago", second.Status)

	rec = doJSON(t, router, http.MethodPost, "/"+created.ID+"/installments/2/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var again payResp
	decodeBody(t, rec, &again)
	assert.False(t, again.Updated)
	assert.Equal(t, "Pago", again.Status)
}

func TestHandler_PayInstallment_UnknownSale(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/missing-id/installments/1/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Updated    bool `json:"updated"`
		TotalCount int  `json:"total_count"`
	}
	decodeBody(t, rec, &resp)

	assert.False(t, resp.Updated)
	assert.Zero(t, resp.TotalCount)
}

func TestHandler_PayInstallment_BadNumber(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/some-id/installments/zero/pay", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ListSales(t *testing.T) {
	router := newTestRouter(t)

	for _, name := range []string{"Um", "Dois"} {
		rec := doJSON(t, router, http.MethodPost, "/", map[string]string{
			"customer_name": name,
			"total_value":   "100",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []struct {
		CustomerName string `json:"customer_name"`
	}
	decodeBody(t, rec, &resp)

	require.Len(t, resp, 2)
	assert.Equal(t, "Um", resp[0].CustomerName)
	assert.Equal(t, "Dois", resp[1].CustomerName)
}
