package model

import "time"

type OrderType string

const (
	OrderDineIn   OrderType = "dine-in"
	OrderPickup   OrderType = "pickup"
	OrderDelivery OrderType = "delivery"
)

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderKitchenReady   OrderStatus = "kitchen-ready"
	OrderOutForDelivery OrderStatus = "out-for-delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

var orderFlow = []OrderStatus{
	OrderPending, OrderConfirmed, OrderPreparing, OrderKitchenReady, OrderOutForDelivery, OrderDelivered,
}

func (s OrderStatus) rank() int {
	for i, st := range orderFlow {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo allows one step forward along the flow, or cancellation
// from any state before delivered.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	from := s.rank()
	if from < 0 || s == OrderDelivered {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	to := next.rank()
	return to == from+1
}

type Order struct {
	DTO
	OrderNumber     uint        `gorm:"not null;index" json:"orderNumber"`
	BranchID        uint        `gorm:"not null;index" json:"branchId"`
	Branch          *Branch     `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	CustomerID      *uint       `gorm:"index" json:"customerId,omitempty"`
	Customer        *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Type            OrderType   `gorm:"type:varchar(20);not null" json:"type"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	Subtotal        float64     `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DiscountAmount  float64     `gorm:"type:decimal(10,2);not null;default:0" json:"discountAmount"`
	Total           float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	DiscountCode    *string     `json:"discountCode,omitempty"`
	DeliveryAddress *string     `json:"deliveryAddress,omitempty"`
	CreatedBy       uint        `json:"createdBy"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Payment         *Payment    `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
}

type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"orderId"`
	MenuItemID uint      `gorm:"not null" json:"menuItemId"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID" json:"menuItem,omitempty"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  float64   `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateOrderItemInput struct {
	MenuItemID uint     `json:"menuItemId" validate:"required,gt=0"`
	Quantity   int      `json:"quantity" validate:"required,gt=0"`
	Price      *float64 `json:"price" validate:"required,gte=0"`
}

type CreateOrderInput struct {
	BranchID        uint                   `json:"branchId" validate:"required,gt=0"`
	Type            OrderType              `json:"type" validate:"required,oneof=dine-in pickup delivery"`
	Items           []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   PaymentMethod          `json:"paymentMethod" validate:"omitempty,oneof=cash card online"`
	Total           *float64               `json:"total" validate:"required,gte=0"`
	DeliveryAddress *string                `json:"deliveryAddress" validate:"omitempty,max=255"`
	DiscountCode    *string                `json:"discountCode" validate:"omitempty,max=40"`
}

type UpdateOrderStatusInput struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed preparing kitchen-ready out-for-delivery delivered cancelled"`
}

type FilterOrder struct {
	Pagination
	Status   string `query:"status"`
	BranchID uint   `query:"branchId"`
}
