package model

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentFailed},
	PaymentFailed:  {PaymentPending},
	PaymentPaid:    {PaymentRefunded},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, n := range paymentTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

type Payment struct {
	DTO
	OrderID       uint          `gorm:"not null;uniqueIndex" json:"orderId"`
	Amount        float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method        PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`
	Status        PaymentStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	Reference     string        `gorm:"uniqueIndex;size:40" json:"reference"`
	TransactionID *string       `json:"transactionId,omitempty"`
}

type UpdatePaymentStatusInput struct {
	Status        PaymentStatus `json:"status" validate:"required,oneof=pending paid failed refunded"`
	TransactionID *string       `json:"transactionId" validate:"omitempty,max=120"`
}
