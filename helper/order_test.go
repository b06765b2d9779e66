package helper

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"restaurant_manager/model"
	"restaurant_manager/utils"
)

func assertKind(t *testing.T, err error, kind utils.ErrorKind, status int) {
	t.Helper()
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Kind != kind || appErr.Status != status {
		t.Fatalf("expected %s/%d, got %s/%d (%s)", kind, status, appErr.Kind, appErr.Status, appErr.Message)
	}
}

func TestPlaceOrderAppliesDiscount(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	dispatcher := &recordingDispatcher{}
	svc := newOrderService(db, dispatcher)

	input := f.standardOrder()
	input.DiscountCode = utils.Ptr(" save20 ")
	input.PaymentMethod = model.PaymentCard

	order, err := svc.PlaceOrder(context.Background(), f.adminClaim(), &f.tenantA.ID, input)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.Subtotal != 200 || order.DiscountAmount != 40 || order.Total != 160 {
		t.Fatalf("expected 200 - 40 = 160, got %v - %v = %v", order.Subtotal, order.DiscountAmount, order.Total)
	}
	if order.DiscountCode == nil || *order.DiscountCode != "SAVE20" {
		t.Fatalf("expected normalized code on order, got %v", order.DiscountCode)
	}
	if order.OrderNumber != 1 || order.Status != model.OrderPending {
		t.Fatalf("unexpected order header %+v", order)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.Payment == nil {
		t.Fatalf("expected payment to be loaded")
	}
	if order.Payment.Amount != 160 || order.Payment.Status != model.PaymentPending || order.Payment.Method != model.PaymentCard {
		t.Fatalf("unexpected payment %+v", order.Payment)
	}
	if order.Payment.Reference == "" {
		t.Fatalf("expected payment reference")
	}
	if dispatcher.count() != 1 || dispatcher.tenants[0] != f.tenantA.ID {
		t.Fatalf("expected one notification for tenant A, got %v", dispatcher.tenants)
	}
}

func TestPlaceOrderUnknownDiscountChargesFullPrice(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newOrderService(db, &recordingDispatcher{})

	input := f.standardOrder()
	input.DiscountCode = utils.Ptr("NOPE")

	order, err := svc.PlaceOrder(context.Background(), f.adminClaim(), &f.tenantA.ID, input)
	if err != nil {
		t.Fatalf("unknown code must not fail the order: %v", err)
	}
	if order.Total != 200 || order.DiscountAmount != 0 || order.DiscountCode != nil {
		t.Fatalf("expected full price without code, got total=%v discount=%v code=%v", order.Total, order.DiscountAmount, order.DiscountCode)
	}
}

func TestPlaceOrderRejectsForeignBranch(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	dispatcher := &recordingDispatcher{}
	svc := newOrderService(db, dispatcher)

	input := f.standardOrder()
	input.BranchID = f.branchB.ID

	_, err := svc.PlaceOrder(context.Background(), f.adminClaim(), &f.tenantA.ID, input)
	assertKind(t, err, utils.KindAuthorization, http.StatusForbidden)
	if n := countRows(t, db, &model.Order{}); n != 0 {
		t.Fatalf("expected no orders, got %d", n)
	}
	if dispatcher.count() != 0 {
		t.Fatalf("rejected order must not notify")
	}
}

func TestPlaceOrderRejectsForeignMenuItem(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newOrderService(db, &recordingDispatcher{})

	input := f.standardOrder()
	input.Items = append(input.Items, model.CreateOrderItemInput{MenuItemID: f.foreignItem.ID, Quantity: 1, Price: utils.Ptr(15.0)})

	_, err := svc.PlaceOrder(context.Background(), f.adminClaim(), &f.tenantA.ID, input)
	assertKind(t, err, utils.KindAuthorization, http.StatusForbidden)
	if n := countRows(t, db, &model.OrderItem{}); n != 0 {
		t.Fatalf("expected no order items, got %d", n)
	}
}

func TestPlaceOrderUnknownBranch(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newOrderService(db, &recordingDispatcher{})

	input := f.standardOrder()
	input.BranchID = 9999

	_, err := svc.PlaceOrder(context.Background(), f.adminClaim(), &f.tenantA.ID, input)
	assertKind(t, err, utils.KindNotFound, http.StatusNotFound)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newOrderService(db, &recordingDispatcher{})

	cases := map[string]func(in *model.CreateOrderInput){
		"empty items":         func(in *model.CreateOrderInput) { in.Items = nil },
		"zero quantity":       func(in *model.CreateOrderInput) { in.Items[0].Quantity = 0 },
		"missing total":       func(in *model.CreateOrderInput) { in.Total = nil },
		"negative total":      func(in *model.CreateOrderInput) { in.Total = utils.Ptr(-1.0) },
		"unknown type":        func(in *model.CreateOrderInput) { in.Type = "drive-thru" },
		"delivery no address": func(in *model.CreateOrderInput) { in.Type = model.OrderDelivery },
		"blank address": func(in *model.CreateOrderInput) {
			in.Type = model.OrderDelivery
			in.DeliveryAddress = utils.Ptr("   ")
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := f.standardOrder()
			mutate(&input)
			_, err := svc.PlaceOrder(context.Background(), f.adminClaim(), &f.tenantA.ID, input)
			assertKind(t, err, utils.KindValidation, http.StatusBadRequest)
		})
	}
	if n := countRows(t, db, &model.Order{}); n != 0 {
		t.Fatalf("expected no orders, got %d", n)
	}
}

func TestPlaceOrderDeliveryCutoff(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	delivery := f.standardOrder()
	delivery.Type = model.OrderDelivery
	delivery.DeliveryAddress = utils.Ptr("12 Canal St")

	late := newOrderService(db, &recordingDispatcher{}).
		WithClock(func() time.Time { return time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC) })
	_, err := late.PlaceOrder(context.Background(), f.adminClaim(), &f.tenantA.ID, delivery)
	assertKind(t, err, utils.KindValidation, http.StatusBadRequest)
	if n := countRows(t, db, &model.Order{}); n != 0 {
		t.Fatalf("expected no orders after cutoff, got %d", n)
	}

	// the cutoff applies to delivery only
	pickup := f.standardOrder()
	pickup.Type = model.OrderPickup
	if _, err := late.PlaceOrder(context.Background(), f.adminClaim(), &f.tenantA.ID, pickup); err != nil {
		t.Fatalf("pickup after cutoff: %v", err)
	}

	early := newOrderService(db, &recordingDispatcher{}).
		WithClock(func() time.Time { return time.Date(2026, 3, 10, 21, 59, 0, 0, time.UTC) })
	order, err := early.PlaceOrder(context.Background(), f.adminClaim(), &f.tenantA.ID, delivery)
	if err != nil {
		t.Fatalf("delivery before cutoff: %v", err)
	}
	if order.DeliveryAddress == nil || *order.DeliveryAddress != "12 Canal St" {
		t.Fatalf("expected delivery address to be stored")
	}
}

func TestPlaceOrderIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	dispatcher := &recordingDispatcher{}
	svc := newOrderService(db, dispatcher)

	err := db.Callback().Create().Before("gorm:create").Register("test:fail_order_items", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "order_items" {
			tx.AddError(errors.New("disk full"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = svc.PlaceOrder(context.Background(), f.adminClaim(), &f.tenantA.ID, f.standardOrder())
	assertKind(t, err, utils.KindInternal, http.StatusInternalServerError)

	if n := countRows(t, db, &model.Order{}); n != 0 {
		t.Fatalf("order row survived rollback: %d", n)
	}
	if n := countRows(t, db, &model.Payment{}); n != 0 {
		t.Fatalf("payment row survived rollback: %d", n)
	}
	if dispatcher.count() != 0 {
		t.Fatalf("failed order must not notify")
	}
}

func TestPlaceOrderReloadFailureKeepsOrder(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	dispatcher := &recordingDispatcher{}
	svc := newOrderService(db, dispatcher)

	var failReload atomic.Bool
	err := db.Callback().Query().Before("gorm:query").Register("test:fail_order_reload", func(tx *gorm.DB) {
		if failReload.Load() && tx.Statement.Schema != nil && tx.Statement.Schema.Table == "orders" {
			tx.AddError(errors.New("connection reset"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	failReload.Store(true)
	order, err := svc.PlaceOrder(context.Background(), f.adminClaim(), &f.tenantA.ID, f.standardOrder())
	failReload.Store(false)

	var reloadErr *OrderReloadError
	if !errors.As(err, &reloadErr) {
		t.Fatalf("expected OrderReloadError, got %v", err)
	}
	if order == nil || reloadErr.OrderID == 0 || reloadErr.OrderNumber != 1 {
		t.Fatalf("expected committed order id and number, got %+v", reloadErr)
	}
	if n := countRows(t, db, &model.Order{}); n != 1 {
		t.Fatalf("expected the committed order to remain, got %d", n)
	}
	if dispatcher.count() != 1 {
		t.Fatalf("committed order must still notify")
	}

	reloaded, err := svc.LoadOrder(context.Background(), reloadErr.OrderID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Total != 200 || len(reloaded.Items) != 2 || reloaded.Payment == nil {
		t.Fatalf("unexpected reloaded order %+v", reloaded)
	}
}

func TestOrderNumbersArePerTenant(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newOrderService(db, &recordingDispatcher{})
	ctx := context.Background()

	for want := uint(1); want <= 2; want++ {
		order, err := svc.PlaceOrder(ctx, f.adminClaim(), &f.tenantA.ID, f.standardOrder())
		if err != nil {
			t.Fatalf("place order: %v", err)
		}
		if order.OrderNumber != want {
			t.Fatalf("expected order number %d, got %d", want, order.OrderNumber)
		}
	}

	claimB := model.IdentityClaim{SubjectID: f.staffB.ID, Role: model.RoleStaff, TenantID: &f.tenantB.ID}
	orderB, err := svc.PlaceOrder(ctx, claimB, &f.tenantB.ID, model.CreateOrderInput{
		BranchID: f.branchB.ID,
		Type:     model.OrderPickup,
		Items:    []model.CreateOrderItemInput{{MenuItemID: f.foreignItem.ID, Quantity: 1, Price: utils.Ptr(15.0)}},
		Total:    utils.Ptr(15.0),
	})
	if err != nil {
		t.Fatalf("place order for tenant B: %v", err)
	}
	if orderB.OrderNumber != 1 {
		t.Fatalf("expected tenant B numbering to start at 1, got %d", orderB.OrderNumber)
	}
}

func TestGlobalAdminOrdersOnAnyBranch(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newOrderService(db, &recordingDispatcher{})

	claim := model.IdentityClaim{SubjectID: 1, Role: model.RoleGlobalAdmin}
	order, err := svc.PlaceOrder(context.Background(), claim, nil, f.standardOrder())
	if err != nil {
		t.Fatalf("global admin order: %v", err)
	}
	if order.Branch == nil || order.Branch.RestaurantID != f.tenantA.ID {
		t.Fatalf("expected order on tenant A branch")
	}
}

func TestGetOrderHidesOtherTenants(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newOrderService(db, &recordingDispatcher{})
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, f.adminClaim(), &f.tenantA.ID, f.standardOrder())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if _, err := svc.GetOrder(ctx, &f.tenantA.ID, order.ID); err != nil {
		t.Fatalf("own tenant read: %v", err)
	}
	_, err = svc.GetOrder(ctx, &f.tenantB.ID, order.ID)
	assertKind(t, err, utils.KindNotFound, http.StatusNotFound)
}

func TestCommittedOrderReadsAreStable(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newOrderService(db, &recordingDispatcher{})
	ctx := context.Background()

	input := f.standardOrder()
	input.DiscountCode = utils.Ptr("SAVE20")
	placed, err := svc.PlaceOrder(ctx, f.adminClaim(), &f.tenantA.ID, input)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	type line struct {
		quantity int
		price    float64
	}
	snapshot := func() (float64, float64, map[uint]line) {
		t.Helper()
		order, err := svc.GetOrder(ctx, &f.tenantA.ID, placed.ID)
		if err != nil {
			t.Fatalf("read order: %v", err)
		}
		lines := make(map[uint]line, len(order.Items))
		for _, it := range order.Items {
			lines[it.MenuItemID] = line{it.Quantity, it.UnitPrice}
		}
		return order.Subtotal, order.Total, lines
	}

	sub1, total1, lines1 := snapshot()
	sub2, total2, lines2 := snapshot()
	if sub1 != sub2 || total1 != total2 {
		t.Fatalf("totals drifted between reads: %v/%v then %v/%v", sub1, total1, sub2, total2)
	}
	if total1 != placed.Total || total1 != 160 {
		t.Fatalf("expected committed total 160, got %v", total1)
	}
	if len(lines1) != 2 || len(lines1) != len(lines2) {
		t.Fatalf("item sets differ: %v vs %v", lines1, lines2)
	}
	for id, l := range lines1 {
		if lines2[id] != l {
			t.Fatalf("item %d changed between reads: %+v vs %+v", id, l, lines2[id])
		}
	}
}

func TestOrdersOfDeletedBranchStayReachable(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	dispatcher := &recordingDispatcher{}
	svc := newOrderService(db, dispatcher)
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, f.adminClaim(), &f.tenantA.ID, f.standardOrder())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if err := db.Delete(&f.branchA).Error; err != nil {
		t.Fatalf("delete branch: %v", err)
	}

	for _, tenantID := range []*uint{&f.tenantA.ID, nil} {
		got, err := svc.GetOrder(ctx, tenantID, order.ID)
		if err != nil {
			t.Fatalf("read with tenant %v: %v", tenantID, err)
		}
		if got.Branch == nil || got.Branch.RestaurantID != f.tenantA.ID {
			t.Fatalf("expected deleted branch to stay attached, got %+v", got.Branch)
		}
	}
	_, err = svc.GetOrder(ctx, &f.tenantB.ID, order.ID)
	assertKind(t, err, utils.KindNotFound, http.StatusNotFound)

	if _, err := svc.UpdateStatus(ctx, nil, order.ID, model.OrderCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// placement plus cancellation
	if dispatcher.count() != 2 {
		t.Fatalf("expected 2 notifications, got %d", dispatcher.count())
	}
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	dispatcher := &recordingDispatcher{}
	svc := newOrderService(db, dispatcher)
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, f.adminClaim(), &f.tenantA.ID, f.standardOrder())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	_, err = svc.UpdateStatus(ctx, &f.tenantB.ID, order.ID, model.OrderConfirmed)
	assertKind(t, err, utils.KindAuthorization, http.StatusForbidden)

	_, err = svc.UpdateStatus(ctx, &f.tenantA.ID, order.ID, model.OrderPreparing)
	assertKind(t, err, utils.KindValidation, http.StatusBadRequest)

	updated, err := svc.UpdateStatus(ctx, &f.tenantA.ID, order.ID, model.OrderConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if updated.Status != model.OrderConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(ctx, &f.tenantA.ID, order.ID, model.OrderCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// placement plus cancellation
	if dispatcher.count() != 2 {
		t.Fatalf("expected 2 notifications, got %d", dispatcher.count())
	}

	_, err = svc.UpdateStatus(ctx, &f.tenantA.ID, order.ID, model.OrderConfirmed)
	assertKind(t, err, utils.KindValidation, http.StatusBadRequest)
}

func TestUpdatePaymentStatus(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)
	svc := newOrderService(db, &recordingDispatcher{})
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, f.adminClaim(), &f.tenantA.ID, f.standardOrder())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	payment, err := svc.UpdatePaymentStatus(ctx, &f.tenantA.ID, order.ID, model.UpdatePaymentStatusInput{
		Status:        model.PaymentPaid,
		TransactionID: utils.Ptr("txn-42"),
	})
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if payment.Status != model.PaymentPaid || payment.TransactionID == nil || *payment.TransactionID != "txn-42" {
		t.Fatalf("unexpected payment %+v", payment)
	}

	_, err = svc.UpdatePaymentStatus(ctx, &f.tenantA.ID, order.ID, model.UpdatePaymentStatusInput{Status: model.PaymentPending})
	assertKind(t, err, utils.KindValidation, http.StatusBadRequest)

	_, err = svc.UpdatePaymentStatus(ctx, &f.tenantB.ID, order.ID, model.UpdatePaymentStatusInput{Status: model.PaymentRefunded})
	assertKind(t, err, utils.KindAuthorization, http.StatusForbidden)
}
