package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jataidesja-hub/gerenciamento/internal/money"
	"github.com/jataidesja-hub/gerenciamento/internal/sale"
)

const (
	sheetSales        = "Vendas"
	sheetInstallments = "Parcelas"

	cellDate     = "02/01/2006"
	cellDateTime = "02/01/2006 15:04"
)

// Column orders match the original sheet layout and are significant for
// positional writes.
var (
	salesHeader = []string{
		"ID Venda", "Status Pagamento", "Nome do Cliente", "Cidade/Estado",
		"Telefone", "Data da Compra", "Valor Total", "Forma de Pagamento",
		"Qtd. Parcelas", "Valor da Parcela", "Ninhada", "Sexo", "Cor",
		"Data de Entrega", "Responsável",
	}

	installmentsHeader = []string{
		"ID Venda", "Nº Parcela", "Valor", "Data de Vencimento", "Status",
		"Data de Pagamento",
	}
)

// Workbook is an xlsx-backed Repository. All writes go through the in-memory
// excelize file and are flushed to disk before returning; there is no
// transactionality across the sale and installment sheets.
type Workbook struct {
	mu   sync.Mutex
	path string
	f    *excelize.File
}

// OpenWorkbook opens the workbook at path, creating a fresh one in memory if
// the file does not exist yet. Nothing is written to disk until the first
// mutation or Setup.
func OpenWorkbook(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening workbook: %w", err)
		}

		return &Workbook{path: path, f: f}, nil
	}

	return &Workbook{path: path, f: excelize.NewFile()}, nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

// Setup creates the Vendas and Parcelas sheets with their header rows. Safe to
// call repeatedly; existing data is never touched.
func (w *Workbook) Setup(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureSheets(); err != nil {
		return err
	}

	return w.save()
}

func (w *Workbook) ensureSheets() error {
	created := false

	for _, sh := range []struct {
		name   string
		header []string
	}{
		{sheetSales, salesHeader},
		{sheetInstallments, installmentsHeader},
	} {
		idx, err := w.f.GetSheetIndex(sh.name)
		if err != nil {
			return fmt.Errorf("looking up sheet %s: %w", sh.name, err)
		}

		if idx >= 0 {
			continue
		}

		if _, err := w.f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sh.name, err)
		}

		header := make([]interface{}, len(sh.header))
		for i, h := range sh.header {
			header[i] = h
		}

		if err := w.f.SetSheetRow(sh.name, "A1", &header); err != nil {
			return fmt.Errorf("writing header of %s: %w", sh.name, err)
		}

		created = true
	}

	// Drop excelize's default sheet once our own exist.
	if created {
		if idx, err := w.f.GetSheetIndex("Sheet1"); err == nil && idx >= 0 {
			_ = w.f.DeleteSheet("Sheet1")
		}
	}

	return nil
}

func (w *Workbook) save() error {
	if err := w.f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	return nil
}

func (w *Workbook) ListSales(ctx context.Context) ([]*sale.Sale, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.dataRows(sheetSales)
	if err != nil {
		return nil, err
	}

	var sales []*sale.Sale

	for _, row := range rows {
		if cellValue(row, 0) == "" {
			continue
		}

		sales = append(sales, saleFromRow(row))
	}

	return sales, nil
}

func (w *Workbook) GetSale(ctx context.Context, id string) (*sale.Sale, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.dataRows(sheetSales)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if cellValue(row, 0) == id {
			return saleFromRow(row), nil
		}
	}

	return nil, sale.ErrNotFound
}

// CreateSale appends the sale row and the installment batch in sequence
// order. The two sheets are written in one save, but a failure between the
// appends can still leave the workbook without installments.
func (w *Workbook) CreateSale(ctx context.Context, s *sale.Sale, installments []*sale.Installment) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureSheets(); err != nil {
		return err
	}

	if err := w.appendRow(sheetSales, saleToRow(s)); err != nil {
		return fmt.Errorf("appending sale: %w", err)
	}

	for _, inst := range installments {
		if err := w.appendRow(sheetInstallments, installmentToRow(inst)); err != nil {
			return fmt.Errorf("appending installment %d: %w", inst.Number, err)
		}
	}

	return w.save()
}

func (w *Workbook) UpdateSale(ctx context.Context, s *sale.Sale) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	rowNum, err := w.findSaleRow(s.ID)
	if err != nil {
		return err
	}

	if rowNum == 0 {
		return sale.ErrNotFound
	}

	row := saleToRow(s)
	if err := w.f.SetSheetRow(sheetSales, "A"+strconv.Itoa(rowNum), &row); err != nil {
		return fmt.Errorf("updating sale row: %w", err)
	}

	return w.save()
}

// UpdateSaleStatus overwrites only the status cell. A missing sale is a
// silent no-op, matching the lenient payment flow.
func (w *Workbook) UpdateSaleStatus(ctx context.Context, id string, status sale.Status) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	rowNum, err := w.findSaleRow(id)
	if err != nil {
		return err
	}

	if rowNum == 0 {
		return nil
	}

	if err := w.f.SetCellValue(sheetSales, "B"+strconv.Itoa(rowNum), string(status)); err != nil {
		return fmt.Errorf("updating status cell: %w", err)
	}

	return w.save()
}

func (w *Workbook) ListInstallments(ctx context.Context) ([]*sale.Installment, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.installments("")
}

func (w *Workbook) SaleInstallments(ctx context.Context, saleID string) ([]*sale.Installment, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.installments(saleID)
}

func (w *Workbook) installments(saleID string) ([]*sale.Installment, error) {
	rows, err := w.dataRows(sheetInstallments)
	if err != nil {
		return nil, err
	}

	var installments []*sale.Installment

	for _, row := range rows {
		id := cellValue(row, 0)
		if id == "" {
			continue
		}

		if saleID != "" && id != saleID {
			continue
		}

		installments = append(installments, installmentFromRow(row))
	}

	return installments, nil
}

// MarkInstallmentPaid writes the status and payment date cells of the first
// row matching (saleID, number). Returns false without mutating when no
// pending match exists.
func (w *Workbook) MarkInstallmentPaid(ctx context.Context, saleID string, number int, paidAt time.Time) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.dataRows(sheetInstallments)
	if err != nil {
		return false, err
	}

	for i, row := range rows {
		if cellValue(row, 0) != saleID || parseCount(cellValue(row, 1), 0) != number {
			continue
		}

		if sale.InstallmentStatus(cellValue(row, 4)) == sale.InstallmentPaid {
			return false, nil
		}

		rowNum := i + 2 // 1-based, past the header

		if err := w.f.SetCellValue(sheetInstallments, "E"+strconv.Itoa(rowNum), string(sale.InstallmentPaid)); err != nil {
			return false, fmt.Errorf("updating installment status: %w", err)
		}

		if err := w.f.SetCellValue(sheetInstallments, "F"+strconv.Itoa(rowNum), paidAt.Format(cellDateTime)); err != nil {
			return false, fmt.Errorf("updating payment date: %w", err)
		}

		return true, w.save()
	}

	return false, nil
}

// dataRows returns the sheet's rows minus the header. A sheet that does not
// exist yet reads as empty.
func (w *Workbook) dataRows(sheet string) ([][]string, error) {
	idx, err := w.f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("looking up sheet %s: %w", sheet, err)
	}

	if idx < 0 {
		return nil, nil
	}

	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}

	if len(rows) <= 1 {
		return nil, nil
	}

	return rows[1:], nil
}

func (w *Workbook) appendRow(sheet string, row []interface{}) error {
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return err
	}

	return w.f.SetSheetRow(sheet, "A"+strconv.Itoa(len(rows)+1), &row)
}

// findSaleRow returns the 1-based sheet row of the sale, or 0 when absent.
func (w *Workbook) findSaleRow(id string) (int, error) {
	rows, err := w.dataRows(sheetSales)
	if err != nil {
		return 0, err
	}

	for i, row := range rows {
		if cellValue(row, 0) == id {
			return i + 2, nil
		}
	}

	return 0, nil
}

func saleToRow(s *sale.Sale) []interface{} {
	return []interface{}{
		s.ID,
		string(s.Status),
		s.CustomerName,
		s.CityState,
		s.Phone,
		formatCellDate(s.PurchaseDate),
		money.Format(s.TotalValue),
		s.PaymentMethod,
		strconv.Itoa(s.InstallmentCount),
		money.Format(s.InstallmentValue),
		s.Litter,
		s.Sex,
		s.Color,
		formatCellDate(s.DeliveryDate),
		s.Responsible,
	}
}

func saleFromRow(row []string) *sale.Sale {
	return &sale.Sale{
		ID:               cellValue(row, 0),
		Status:           sale.Status(cellValue(row, 1)),
		CustomerName:     cellValue(row, 2),
		CityState:        cellValue(row, 3),
		Phone:            cellValue(row, 4),
		PurchaseDate:     parseCellDate(cellValue(row, 5)),
		TotalValue:       money.Coerce(cellValue(row, 6)),
		PaymentMethod:    cellValue(row, 7),
		InstallmentCount: parseCount(cellValue(row, 8), 1),
		InstallmentValue: money.Coerce(cellValue(row, 9)),
		Litter:           cellValue(row, 10),
		Sex:              cellValue(row, 11),
		Color:            cellValue(row, 12),
		DeliveryDate:     parseCellDate(cellValue(row, 13)),
		Responsible:      cellValue(row, 14),
	}
}

func installmentToRow(inst *sale.Installment) []interface{} {
	paidAt := ""
	if inst.PaidAt != nil {
		paidAt = inst.PaidAt.Format(cellDateTime)
	}

	return []interface{}{
		inst.SaleID,
		strconv.Itoa(inst.Number),
		money.Format(inst.Value),
		formatCellDate(inst.DueDate),
		string(inst.Status),
		paidAt,
	}
}

func installmentFromRow(row []string) *sale.Installment {
	inst := &sale.Installment{
		SaleID:  cellValue(row, 0),
		Number:  parseCount(cellValue(row, 1), 0),
		Value:   money.Coerce(cellValue(row, 2)),
		DueDate: parseCellDate(cellValue(row, 3)),
		Status:  sale.InstallmentStatus(cellValue(row, 4)),
	}

	if t := parseCellDate(cellValue(row, 5)); !t.IsZero() && inst.Status == sale.InstallmentPaid {
		inst.PaidAt = &t
	}

	return inst
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func parseCount(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}

	return n
}

func formatCellDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(cellDate)
}

// parseCellDate is lenient: sheet cells may carry dd/mm/yyyy, ISO dates or a
// payment timestamp. Unparseable values read as the zero time.
func parseCellDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	for _, layout := range []string{cellDateTime, cellDate, time.DateOnly, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
