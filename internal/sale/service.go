package sale

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sale
type Repository interface {
	Setup(ctx context.Context) error

	ListSales(ctx context.Context) ([]*Sale, error)
	GetSale(ctx context.Context, id string) (*Sale, error)
	CreateSale(ctx context.Context, s *Sale, installments []*Installment) error
	UpdateSale(ctx context.Context, s *Sale) error
	UpdateSaleStatus(ctx context.Context, id string, status Status) error

	ListInstallments(ctx context.Context) ([]*Installment, error)
	SaleInstallments(ctx context.Context, saleID string) ([]*Installment, error)
	MarkInstallmentPaid(ctx context.Context, saleID string, number int, paidAt time.Time) (bool, error)
}

// Service provides sale and installment management on a Repository backend.
// A single mutex serializes mutations so that two concurrent payments cannot
// interleave their mark-paid and status-recompute steps.
type Service struct {
	repo Repository
	mu   sync.Mutex
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Status           Status
	CustomerName     string
	CityState        string
	Phone            string
	PurchaseDate     time.Time
	TotalValue       decimal.Decimal
	PaymentMethod    string
	InstallmentCount int
	InstallmentValue decimal.Decimal
	Litter           string
	Sex              string
	Color            string
	DeliveryDate     time.Time
	Responsible      string
}

// Setup initializes the backing tables. It is idempotent.
func (s *Service) Setup(ctx context.Context) error {
	return s.repo.Setup(ctx)
}

func (s *Service) List(ctx context.Context) ([]*Sale, error) {
	return s.repo.ListSales(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

func (s *Service) ListInstallments(ctx context.Context) ([]*Installment, error) {
	return s.repo.ListInstallments(ctx)
}

func (s *Service) SaleInstallments(ctx context.Context, saleID string) ([]*Installment, error) {
	return s.repo.SaleInstallments(ctx, saleID)
}

// Create persists a new sale together with its generated installment schedule.
// The installment count is coerced to at least one. The per-installment value
// is the explicit value when positive, otherwise total divided evenly by count
// rounded to two places; the last installment does not absorb any remainder.
// A single-installment sale declared as paid gets its installment created
// already paid.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := params.InstallmentCount
	if count < 1 {
		count = 1
	}

	status := params.Status
	if status == "" {
		status = StatusOpen
	}

	value := params.InstallmentValue
	if !value.IsPositive() {
		value = params.TotalValue.DivRound(decimal.NewFromInt(int64(count)), 2)
	}

	instStatus := InstallmentPending
	if count == 1 && status == StatusPaid {
		instStatus = InstallmentPaid
	}

	sl := &Sale{
		ID:               uuid.NewString(),
		Status:           status,
		CustomerName:     params.CustomerName,
		CityState:        params.CityState,
		Phone:            params.Phone,
		PurchaseDate:     params.PurchaseDate,
		TotalValue:       params.TotalValue,
		PaymentMethod:    params.PaymentMethod,
		InstallmentCount: count,
		InstallmentValue: value,
		Litter:           params.Litter,
		Sex:              params.Sex,
		Color:            params.Color,
		DeliveryDate:     params.DeliveryDate,
		Responsible:      params.Responsible,
	}

	installments := buildSchedule(sl.ID, count, value, params.PurchaseDate, instStatus, time.Now())

	if err := s.repo.CreateSale(ctx, sl, installments); err != nil {
		return nil, err
	}

	return sl, nil
}

// Update overwrites the sale's fields. The ID is immutable and the sale's
// installments are left untouched.
func (s *Service) Update(ctx context.Context, sl *Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.UpdateSale(ctx, sl)
}

// PaymentResult reports the outcome of a payment and the reconciled state of
// the sale afterwards. Updated is false when no pending installment matched,
// in which case nothing was mutated.
type PaymentResult struct {
	Paid    int
	Total   int
	Status  Status
	Updated bool
}

// PayInstallment marks the (saleID, number) installment paid, re-reads the
// sale's installments and writes the recomputed status back onto the sale.
// An unknown pair is not an error: the operation completes with Updated=false
// and the counts of whatever snapshot exists (possibly zero).
func (s *Service) PayInstallment(ctx context.Context, saleID string, number int) (*PaymentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.repo.MarkInstallmentPaid(ctx, saleID, number, time.Now())
	if err != nil {
		return nil, err
	}

	installments, err := s.repo.SaleInstallments(ctx, saleID)
	if err != nil {
		return nil, err
	}

	rec := reconcile(installments)

	if rec.Total > 0 {
		if err := s.repo.UpdateSaleStatus(ctx, saleID, rec.Status); err != nil {
			return nil, err
		}
	}

	return &PaymentResult{
		Paid:    rec.Paid,
		Total:   rec.Total,
		Status:  rec.Status,
		Updated: updated,
	}, nil
}
