package helper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant_manager/constants"
	"restaurant_manager/model"
	"restaurant_manager/utils"
	"restaurant_manager/validate"
)

// OrderReloadError means the order was committed but reading it back failed.
type OrderReloadError struct {
	OrderID     uint
	OrderNumber uint
	Err         error
}

func (e *OrderReloadError) Error() string {
	return fmt.Sprintf("order %d committed but reload failed: %v", e.OrderID, e.Err)
}

func (e *OrderReloadError) Unwrap() error { return e.Err }

type OrderService struct {
	db        *gorm.DB
	discounts *DiscountEvaluator
	notifier  NotificationDispatcher
	mailer    *utils.Mailer
	loc       *time.Location
	now       func() time.Time
}

func NewOrderService(db *gorm.DB, discounts *DiscountEvaluator, notifier NotificationDispatcher, mailer *utils.Mailer, loc *time.Location) *OrderService {
	if loc == nil {
		loc = time.Local
	}
	return &OrderService{
		db:        db,
		discounts: discounts,
		notifier:  notifier,
		mailer:    mailer,
		loc:       loc,
		now:       time.Now,
	}
}

// WithClock replaces the time source of the service and its discount evaluator.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	if s.discounts != nil {
		s.discounts.now = now
	}
	return s
}

// PlaceOrder validates, re-checks tenant ownership and writes the order, its
// items and its payment in one transaction. tenantID is the effective tenant
// of the caller; nil lets a global admin order on any branch.
func (s *OrderService) PlaceOrder(ctx context.Context, claim model.IdentityClaim, tenantID *uint, input model.CreateOrderInput) (*model.Order, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.Type == model.OrderDelivery && (input.DeliveryAddress == nil || strings.TrimSpace(*input.DeliveryAddress) == "") {
		return nil, utils.NewValidationError(constants.DELIVERY_ADDRESS_MISSING, map[string]string{"deliveryAddress": "required"})
	}

	db := s.db.WithContext(ctx)

	var branch model.Branch
	if err := db.Preload("Restaurant").First(&branch, input.BranchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(constants.BRANCH_NOT_FOUND)
		}
		return nil, utils.NewInternalError(err)
	}
	// the branch id comes from the caller, so the guard's scoping is not enough
	if tenantID != nil && branch.RestaurantID != *tenantID {
		return nil, utils.NewAuthorizationError(constants.BRANCH_NOT_OWNED)
	}
	tenant := branch.RestaurantID

	if err := s.checkMenuItems(db, tenant, input.Items); err != nil {
		return nil, err
	}

	if input.Type == model.OrderDelivery && branch.DeliveryCutoffTime != nil && *branch.DeliveryCutoffTime != "" {
		closed, err := utils.AtOrPastClock(s.now(), *branch.DeliveryCutoffTime, s.loc)
		if err != nil {
			return nil, utils.NewInternalError(err)
		}
		if closed {
			return nil, utils.NewValidationError(fmt.Sprintf(constants.DELIVERY_UNAVAILABLE, *branch.DeliveryCutoffTime), nil)
		}
	}

	subtotal := utils.RoundMoney(*input.Total)
	discountAmount := 0.0
	var appliedCode *string
	if input.DiscountCode != nil && strings.TrimSpace(*input.DiscountCode) != "" {
		result, err := s.discounts.Evaluate(ctx, *input.DiscountCode, tenant, subtotal)
		switch {
		case err == nil:
			discountAmount = result.DiscountAmount
			appliedCode = &result.Code
		case utils.IsKind(err, utils.KindNotFound):
			// self-service orders go through at full price
			logrus.WithFields(logrus.Fields{"tenant_id": tenant, "code": *input.DiscountCode}).
				Info("discount code ignored")
		default:
			return nil, err
		}
	}
	total := utils.RoundMoney(subtotal - discountAmount)

	method := input.PaymentMethod
	if method == "" {
		method = model.PaymentCash
	}

	order := model.Order{
		BranchID:        branch.ID,
		Type:            input.Type,
		Status:          model.OrderPending,
		Subtotal:        subtotal,
		DiscountAmount:  discountAmount,
		Total:           total,
		DiscountCode:    appliedCode,
		DeliveryAddress: input.DeliveryAddress,
		CreatedBy:       claim.SubjectID,
	}
	if claim.Role == model.RoleCustomer {
		order.CustomerID = utils.Ptr(claim.SubjectID)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Unscoped().Model(&model.Order{}).
			Joins("JOIN branches ON branches.id = orders.branch_id").
			Where("branches.restaurant_id = ?", tenant).
			Select("COALESCE(MAX(orders.order_number), 0)").
			Scan(&last).Error; err != nil {
			return err
		}
		order.OrderNumber = uint(last) + 1

		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}

		items := make([]model.OrderItem, 0, len(input.Items))
		for _, it := range input.Items {
			items = append(items, model.OrderItem{
				OrderID:    order.ID,
				MenuItemID: it.MenuItemID,
				Quantity:   it.Quantity,
				UnitPrice:  utils.RoundMoney(*it.Price),
			})
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return err
		}

		payment := model.Payment{
			OrderID:   order.ID,
			Amount:    total,
			Method:    method,
			Status:    model.PaymentPending,
			Reference: uuid.NewString(),
		}
		return tx.Omit(clause.Associations).Create(&payment).Error
	})
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	logrus.WithFields(logrus.Fields{
		"tenant_id":    tenant,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        total,
	}).Info("order placed")

	loaded, reloadErr := s.LoadOrder(ctx, order.ID)

	if s.notifier != nil {
		s.notifier.Dispatch(tenant, fmt.Sprintf("New %s order #%d at %s", order.Type, order.OrderNumber, branch.Name))
	}

	if reloadErr != nil {
		return &order, &OrderReloadError{OrderID: order.ID, OrderNumber: order.OrderNumber, Err: reloadErr}
	}

	if loaded.Customer != nil {
		s.mailer.SendOrderConfirmationAsync(loaded.Customer.Email, utils.OrderConfirmationData{
			RestaurantName: branch.Restaurant.Name,
			OrderNumber:    loaded.OrderNumber,
			Total:          loaded.Total,
			PaymentMethod:  string(method),
			ItemCount:      len(loaded.Items),
		})
	}
	return loaded, nil
}

// checkMenuItems rejects line items that reference another tenant's catalog.
func (s *OrderService) checkMenuItems(db *gorm.DB, tenant uint, items []model.CreateOrderItemInput) error {
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.MenuItemID]; ok {
			continue
		}
		seen[it.MenuItemID] = struct{}{}
		ids = append(ids, it.MenuItemID)
	}

	var count int64
	if err := db.Model(&model.MenuItem{}).
		Where("id IN ? AND restaurant_id = ?", ids, tenant).
		Count(&count).Error; err != nil {
		return utils.NewInternalError(err)
	}
	if count != int64(len(ids)) {
		return utils.NewAuthorizationError(constants.MENU_ITEM_NOT_OWNED)
	}
	return nil
}

// withDeletedBranch keeps orders of a deleted branch attached to their tenant.
func withDeletedBranch(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

func (s *OrderService) LoadOrder(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Preload("Customer").
		Preload("Branch", withDeletedBranch).
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder reads an order visible to the tenant. Orders of other tenants are
// reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, tenantID *uint, id uint) (*model.Order, error) {
	order, err := s.LoadOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(constants.ORDER_NOT_FOUND)
		}
		return nil, utils.NewInternalError(err)
	}
	if tenantID != nil && (order.Branch == nil || order.Branch.RestaurantID != *tenantID) {
		return nil, utils.NewNotFoundError(constants.ORDER_NOT_FOUND)
	}
	return order, nil
}

// ownedOrder loads an order for mutation and re-checks ownership.
func (s *OrderService) ownedOrder(tx *gorm.DB, tenantID *uint, id uint) (*model.Order, error) {
	var order model.Order
	if err := tx.Preload("Branch", withDeletedBranch).Preload("Payment").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(constants.ORDER_NOT_FOUND)
		}
		return nil, utils.NewInternalError(err)
	}
	if tenantID != nil && (order.Branch == nil || order.Branch.RestaurantID != *tenantID) {
		return nil, utils.NewAuthorizationError(constants.FORBIDDEN)
	}
	return &order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, tenantID *uint, id uint, next model.OrderStatus) (*model.Order, error) {
	db := s.db.WithContext(ctx)
	order, err := s.ownedOrder(db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, utils.NewValidationError(fmt.Sprintf(constants.INVALID_TRANSITION, order.Status, next), map[string]string{"status": string(next)})
	}

	res := db.Model(&model.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", next)
	if res.Error != nil {
		return nil, utils.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, utils.NewConflictError(fmt.Sprintf(constants.INVALID_TRANSITION, order.Status, next))
	}
	if next == model.OrderCancelled && s.notifier != nil && order.Branch != nil {
		s.notifier.Dispatch(order.Branch.RestaurantID, fmt.Sprintf("Order #%d was cancelled", order.OrderNumber))
	}
	return s.GetOrder(ctx, tenantID, id)
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, tenantID *uint, id uint, input model.UpdatePaymentStatusInput) (*model.Payment, error) {
	db := s.db.WithContext(ctx)
	order, err := s.ownedOrder(db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if order.Payment == nil {
		return nil, utils.NewNotFoundError(constants.PAYMENT_NOT_FOUND)
	}
	payment := order.Payment
	if !payment.Status.CanTransitionTo(input.Status) {
		return nil, utils.NewValidationError(fmt.Sprintf(constants.INVALID_TRANSITION, payment.Status, input.Status), map[string]string{"status": string(input.Status)})
	}

	updates := map[string]any{"status": input.Status}
	if input.TransactionID != nil {
		updates["transaction_id"] = *input.TransactionID
	}
	res := db.Model(&model.Payment{}).
		Where("id = ? AND status = ?", payment.ID, payment.Status).
		Updates(updates)
	if res.Error != nil {
		return nil, utils.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, utils.NewConflictError(fmt.Sprintf(constants.INVALID_TRANSITION, payment.Status, input.Status))
	}

	payment.Status = input.Status
	if input.TransactionID != nil {
		payment.TransactionID = input.TransactionID
	}
	return payment, nil
}
