package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jataidesja-hub/gerenciamento/internal/sale"
	"github.com/jataidesja-hub/gerenciamento/internal/sale/store"
)

func newWorkbook(t *testing.T) (*store.Workbook, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vendas.xlsx")

	wb, err := store.OpenWorkbook(path)
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })

	require.NoError(t, wb.Setup(context.Background()))

	return wb, path
}

func testSale() *sale.Sale {
	return &sale.Sale{
		ID:               "7f9b6c2e-0000-0000-0000-000000000001",
		Status:           sale.StatusOpen,
		CustomerName:     "Ana Lima",
		CityState:        "Curitiba/PR",
		Phone:            "(41) 99999-0000",
		PurchaseDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		TotalValue:       decimal.NewFromInt(1200),
		PaymentMethod:    "Pix",
		InstallmentCount: 3,
		InstallmentValue: decimal.NewFromInt(400),
		Litter:           "Ninhada B",
		Sex:              "Fêmea",
		Color:            "Preta",
		Responsible:      "Carla",
	}
}

func testInstallments(saleID string) []*sale.Installment {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	installments := make([]*sale.Installment, 3)
	for i := range installments {
		installments[i] = &sale.Installment{
			SaleID:  saleID,
			Number:  i + 1,
			Value:   decimal.NewFromInt(400),
			DueDate: base.AddDate(0, i, 0),
			Status:  sale.InstallmentPending,
		}
	}

	return installments
}

func TestWorkbook_SetupIsIdempotent(t *testing.T) {
	wb, _ := newWorkbook(t)

	ctx := context.Background()

	sl := testSale()
	require.NoError(t, wb.CreateSale(ctx, sl, testInstallments(sl.ID)))

	// A second setup must not wipe existing rows.
	require.NoError(t, wb.Setup(ctx))

	sales, err := wb.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestWorkbook_CreateAndListRoundtrip(t *testing.T) {
	wb, _ := newWorkbook(t)

	ctx := context.Background()

	sl := testSale()
	require.NoError(t, wb.CreateSale(ctx, sl, testInstallments(sl.ID)))

	sales, err := wb.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)

	got := sales[0]
	assert.Equal(t, sl.ID, got.ID)
	assert.Equal(t, sale.StatusOpen, got.Status)
	assert.Equal(t, "Ana Lima", got.CustomerName)
	assert.Equal(t, "Curitiba/PR", got.CityState)
	assert.True(t, got.TotalValue.Equal(decimal.NewFromInt(1200)), "total %s", got.TotalValue)
	assert.Equal(t, 3, got.InstallmentCount)
	assert.True(t, got.InstallmentValue.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, sl.PurchaseDate, got.PurchaseDate)

	installments, err := wb.SaleInstallments(ctx, sl.ID)
	require.NoError(t, err)
	require.Len(t, installments, 3)

	for i, inst := range installments {
		assert.Equal(t, i+1, inst.Number)
		assert.Equal(t, sale.InstallmentPending, inst.Status)
		assert.Nil(t, inst.PaidAt)
		assert.True(t, inst.Value.Equal(decimal.NewFromInt(400)))
	}

	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), installments[1].DueDate)
}

func TestWorkbook_PersistsAcrossReopen(t *testing.T) {
	wb, path := newWorkbook(t)

	ctx := context.Background()

	sl := testSale()
	require.NoError(t, wb.CreateSale(ctx, sl, testInstallments(sl.ID)))
	require.NoError(t, wb.Close())

	reopened, err := store.OpenWorkbook(path)
	require.NoError(t, err)
	defer reopened.Close()

	sales, err := reopened.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, sl.ID, sales[0].ID)

	installments, err := reopened.ListInstallments(ctx)
	require.NoError(t, err)
	assert.Len(t, installments, 3)
}

func TestWorkbook_MarkInstallmentPaid(t *testing.T) {
	wb, _ := newWorkbook(t)

	ctx := context.Background()

	sl := testSale()
	require.NoError(t, wb.CreateSale(ctx, sl, testInstallments(sl.ID)))

	paidAt := time.Date(2024, 2, 20, 14, 30, 0, 0, time.UTC)

	updated, err := wb.MarkInstallmentPaid(ctx, sl.ID, 2, paidAt)
	require.NoError(t, err)
	assert.True(t, updated)

	installments, err := wb.SaleInstallments(ctx, sl.ID)
	require.NoError(t, err)
	require.Len(t, installments, 3)

	assert.Equal(t, sale.InstallmentPending, installments[0].Status)
	assert.Equal(t, sale.InstallmentPaid, installments[1].Status)
	require.NotNil(t, installments[1].PaidAt)
	assert.Equal(t, sale.InstallmentPending, installments[2].Status)

	// Paying the same installment again mutates nothing.
	updated, err = wb.MarkInstallmentPaid(ctx, sl.ID, 2, paidAt.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestWorkbook_MarkInstallmentPaid_NoMatch(t *testing.T) {
	wb, _ := newWorkbook(t)

	updated, err := wb.MarkInstallmentPaid(context.Background(), "missing", 1, time.Now())
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestWorkbook_UpdateSale(t *testing.T) {
	wb, _ := newWorkbook(t)

	ctx := context.Background()

	sl := testSale()
	require.NoError(t, wb.CreateSale(ctx, sl, testInstallments(sl.ID)))

	sl.CustomerName = "Ana Lima Ferreira"
	sl.Phone = "(41) 98888-1111"
	require.NoError(t, wb.UpdateSale(ctx, sl))

	got, err := wb.GetSale(ctx, sl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima Ferreira", got.CustomerName)
	assert.Equal(t, "(41) 98888-1111", got.Phone)

	// Installments stay untouched by a sale update.
	installments, err := wb.SaleInstallments(ctx, sl.ID)
	require.NoError(t, err)
	assert.Len(t, installments, 3)
}

func TestWorkbook_UpdateSale_NotFound(t *testing.T) {
	wb, _ := newWorkbook(t)

	missing := testSale()
	missing.ID = "does-not-exist"

	err := wb.UpdateSale(context.Background(), missing)
	assert.ErrorIs(t, err, sale.ErrNotFound)
}

func TestWorkbook_UpdateSaleStatus(t *testing.T) {
	wb, _ := newWorkbook(t)

	ctx := context.Background()

	sl := testSale()
	require.NoError(t, wb.CreateSale(ctx, sl, testInstallments(sl.ID)))

	require.NoError(t, wb.UpdateSaleStatus(ctx, sl.ID, sale.StatusPartial))

	got, err := wb.GetSale(ctx, sl.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.StatusPartial, got.Status)

	// Unknown sale is a silent no-op.
	require.NoError(t, wb.UpdateSaleStatus(ctx, "missing", sale.StatusPaid))
}

func TestWorkbook_EmptyListsBeforeSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "novo.xlsx")

	wb, err := store.OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()

	sales, err := wb.ListSales(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sales)

	installments, err := wb.ListInstallments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, installments)

	_, err = wb.GetSale(context.Background(), "x")
	assert.ErrorIs(t, err, sale.ErrNotFound)
}
