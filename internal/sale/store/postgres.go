package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jataidesja-hub/gerenciamento/internal/sale"
)

// Postgres is a SQL Repository over database/sql with the pgx driver.
// CreateSale runs the sale insert and the installment batch inside one
// transaction, so a half-created sale cannot be observed.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const setupDDL = `
	CREATE TABLE IF NOT EXISTS sales (
		id UUID PRIMARY KEY,
		status TEXT NOT NULL,
		customer_name TEXT NOT NULL DEFAULT '',
		city_state TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		purchase_date DATE,
		total_value NUMERIC(12,2) NOT NULL DEFAULT 0,
		payment_method TEXT NOT NULL DEFAULT '',
		installment_count INT NOT NULL DEFAULT 1,
		installment_value NUMERIC(12,2) NOT NULL DEFAULT 0,
		litter TEXT NOT NULL DEFAULT '',
		sex TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		delivery_date DATE,
		responsible TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS installments (
		sale_id UUID NOT NULL REFERENCES sales(id),
		number INT NOT NULL,
		value NUMERIC(12,2) NOT NULL DEFAULT 0,
		due_date DATE,
		status TEXT NOT NULL,
		paid_at TIMESTAMPTZ,
		PRIMARY KEY (sale_id, number)
	);
`

func (p *Postgres) Setup(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, setupDDL); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectSaleColumns = `
	id, status, customer_name, city_state, phone, purchase_date, total_value,
	payment_method, installment_count, installment_value, litter, sex, color,
	delivery_date, responsible
`

func scanSale(s scanner) (*sale.Sale, error) {
	var sl sale.Sale

	var statusStr, totalStr, valueStr string

	var purchase, delivery sql.NullTime

	if err := s.Scan(
		&sl.ID, &statusStr, &sl.CustomerName, &sl.CityState, &sl.Phone,
		&purchase, &totalStr, &sl.PaymentMethod, &sl.InstallmentCount,
		&valueStr, &sl.Litter, &sl.Sex, &sl.Color, &delivery, &sl.Responsible,
	); err != nil {
		return nil, err
	}

	sl.Status = sale.Status(statusStr)
	sl.PurchaseDate = purchase.Time
	sl.DeliveryDate = delivery.Time

	var err error

	if sl.TotalValue, err = decimal.NewFromString(totalStr); err != nil {
		return nil, fmt.Errorf("parsing total value: %w", err)
	}

	if sl.InstallmentValue, err = decimal.NewFromString(valueStr); err != nil {
		return nil, fmt.Errorf("parsing installment value: %w", err)
	}

	return &sl, nil
}

func (p *Postgres) ListSales(ctx context.Context) ([]*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + ` FROM sales ORDER BY created_at ASC`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []*sale.Sale

	for rows.Next() {
		sl, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}

		sales = append(sales, sl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale rows: %w", err)
	}

	return sales, nil
}

func (p *Postgres) GetSale(ctx context.Context, id string) (*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + ` FROM sales WHERE id = $1`

	sl, err := scanSale(p.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("getting sale: %w", err)
	}

	return sl, nil
}

func (p *Postgres) CreateSale(ctx context.Context, s *sale.Sale, installments []*sale.Installment) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	saleQuery := `
		INSERT INTO sales (id, status, customer_name, city_state, phone, purchase_date,
			total_value, payment_method, installment_count, installment_value,
			litter, sex, color, delivery_date, responsible)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	if _, err := tx.ExecContext(ctx, saleQuery,
		s.ID, s.Status, s.CustomerName, s.CityState, s.Phone,
		nullDate(s.PurchaseDate), s.TotalValue, s.PaymentMethod,
		s.InstallmentCount, s.InstallmentValue, s.Litter, s.Sex, s.Color,
		nullDate(s.DeliveryDate), s.Responsible,
	); err != nil {
		return fmt.Errorf("inserting sale: %w", err)
	}

	instQuery := `
		INSERT INTO installments (sale_id, number, value, due_date, status, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, inst := range installments {
		if _, err := tx.ExecContext(ctx, instQuery,
			inst.SaleID, inst.Number, inst.Value, nullDate(inst.DueDate),
			inst.Status, inst.PaidAt,
		); err != nil {
			return fmt.Errorf("inserting installment %d: %w", inst.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sale: %w", err)
	}

	return nil
}

func (p *Postgres) UpdateSale(ctx context.Context, s *sale.Sale) error {
	query := `
		UPDATE sales
		SET status = $1, customer_name = $2, city_state = $3, phone = $4,
			purchase_date = $5, total_value = $6, payment_method = $7,
			installment_count = $8, installment_value = $9, litter = $10,
			sex = $11, color = $12, delivery_date = $13, responsible = $14
		WHERE id = $15
	`

	res, err := p.db.ExecContext(ctx, query,
		s.Status, s.CustomerName, s.CityState, s.Phone,
		nullDate(s.PurchaseDate), s.TotalValue, s.PaymentMethod,
		s.InstallmentCount, s.InstallmentValue, s.Litter, s.Sex, s.Color,
		nullDate(s.DeliveryDate), s.Responsible, s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating sale: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sale.ErrNotFound
	}

	return nil
}

func (p *Postgres) UpdateSaleStatus(ctx context.Context, id string, status sale.Status) error {
	query := `UPDATE sales SET status = $1 WHERE id = $2`

	if _, err := p.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("updating sale status: %w", err)
	}

	return nil
}

const selectInstallmentColumns = `sale_id, number, value, due_date, status, paid_at`

func scanInstallment(s scanner) (*sale.Installment, error) {
	var inst sale.Installment

	var statusStr, valueStr string

	var due, paidAt sql.NullTime

	if err := s.Scan(&inst.SaleID, &inst.Number, &valueStr, &due, &statusStr, &paidAt); err != nil {
		return nil, err
	}

	inst.Status = sale.InstallmentStatus(statusStr)
	inst.DueDate = due.Time

	if paidAt.Valid {
		t := paidAt.Time
		inst.PaidAt = &t
	}

	var err error
	if inst.Value, err = decimal.NewFromString(valueStr); err != nil {
		return nil, fmt.Errorf("parsing installment value: %w", err)
	}

	return &inst, nil
}

func (p *Postgres) ListInstallments(ctx context.Context) ([]*sale.Installment, error) {
	query := `SELECT ` + selectInstallmentColumns + ` FROM installments ORDER BY sale_id, number`

	return p.queryInstallments(ctx, query)
}

func (p *Postgres) SaleInstallments(ctx context.Context, saleID string) ([]*sale.Installment, error) {
	query := `SELECT ` + selectInstallmentColumns + ` FROM installments WHERE sale_id = $1 ORDER BY number`

	return p.queryInstallments(ctx, query, saleID)
}

func (p *Postgres) queryInstallments(ctx context.Context, query string, args ...any) ([]*sale.Installment, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing installments: %w", err)
	}
	defer rows.Close()

	var installments []*sale.Installment

	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning installment: %w", err)
		}

		installments = append(installments, inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating installment rows: %w", err)
	}

	return installments, nil
}

// MarkInstallmentPaid is a targeted update: only a pending matching row is
// touched, so repeated payments keep the original payment date.
func (p *Postgres) MarkInstallmentPaid(ctx context.Context, saleID string, number int, paidAt time.Time) (bool, error) {
	query := `
		UPDATE installments
		SET status = $1, paid_at = $2
		WHERE sale_id = $3 AND number = $4 AND status <> $1
	`

	res, err := p.db.ExecContext(ctx, query, sale.InstallmentPaid, paidAt, saleID, number)
	if err != nil {
		return false, fmt.Errorf("marking installment paid: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking affected rows: %w", err)
	}

	return n > 0, nil
}

func nullDate(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
