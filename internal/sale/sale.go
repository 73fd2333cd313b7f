package sale

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no sale exists with the given ID.
var ErrNotFound = errors.New("sale not found")

// Status is the aggregate payment state of a sale, derived from its
// installments. The values are the Portuguese labels stored in the sheet.
type Status string

const (
	StatusOpen    Status = "Em aberto"
	StatusPartial Status = "Parcial"
	StatusPaid    Status = "Pago"
)

// InstallmentStatus is the payment state of a single installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "Pendente"
	InstallmentPaid    InstallmentStatus = "Pago"
)

// Sale is a purchase payable in one or more installments.
type Sale struct {
	ID               string
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

// Installment is one scheduled partial payment of a sale.
// PaidAt is set exactly when Status is InstallmentPaid.
type Installment struct {
	SaleID  string
	Number  int
	Value   decimal.Decimal
	DueDate time.Time
	Status  InstallmentStatus
	PaidAt  *time.Time
}
