package helper

import (
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restaurant_manager/database"
	"restaurant_manager/model"
	"restaurant_manager/utils"
)

var noon = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// one in-memory database per test
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	tenantA, tenantB model.Restaurant
	branchA, branchB model.Branch
	burger, fries    model.MenuItem
	foreignItem      model.MenuItem
	adminA           model.User
	staffA           model.User
	staffB           model.User
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	var f fixture

	f.tenantA = model.Restaurant{Name: "Pho House", Slug: "pho-house", Status: model.RestaurantActive}
	f.tenantB = model.Restaurant{Name: "Taco Stand", Slug: "taco-stand", Status: model.RestaurantActive}
	mustCreate(t, db, &f.tenantA)
	mustCreate(t, db, &f.tenantB)

	f.branchA = model.Branch{RestaurantID: f.tenantA.ID, Name: "Downtown", DeliveryCutoffTime: utils.Ptr("22:00")}
	f.branchB = model.Branch{RestaurantID: f.tenantB.ID, Name: "Harbor"}
	mustCreate(t, db, &f.branchA)
	mustCreate(t, db, &f.branchB)

	f.burger = model.MenuItem{RestaurantID: f.tenantA.ID, Name: "Burger", Price: 60, Available: true}
	f.fries = model.MenuItem{RestaurantID: f.tenantA.ID, Name: "Fries", Price: 20, Available: true}
	f.foreignItem = model.MenuItem{RestaurantID: f.tenantB.ID, Name: "Taco", Price: 15, Available: true}
	mustCreate(t, db, &f.burger)
	mustCreate(t, db, &f.fries)
	mustCreate(t, db, &f.foreignItem)

	f.adminA = model.User{Email: "admin@pho.test", Password: "x", Role: model.RoleTenantAdmin, Active: true, RestaurantID: &f.tenantA.ID}
	f.staffA = model.User{Email: "staff@pho.test", Password: "x", Role: model.RoleStaff, Active: true, RestaurantID: &f.tenantA.ID}
	f.staffB = model.User{Email: "staff@taco.test", Password: "x", Role: model.RoleStaff, Active: true, RestaurantID: &f.tenantB.ID}
	mustCreate(t, db, &f.adminA)
	mustCreate(t, db, &f.staffA)
	mustCreate(t, db, &f.staffB)

	pct := 20.0
	mustCreate(t, db, &model.DiscountCode{Code: "SAVE20", RestaurantID: f.tenantA.ID, Percentage: &pct, IsActive: true})
	return f
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}

func (f fixture) adminClaim() model.IdentityClaim {
	return model.IdentityClaim{SubjectID: f.adminA.ID, Email: f.adminA.Email, Role: model.RoleTenantAdmin, TenantID: &f.tenantA.ID}
}

// standardOrder is two burgers and four fries at the branch of tenant A: 200.00.
func (f fixture) standardOrder() model.CreateOrderInput {
	return model.CreateOrderInput{
		BranchID: f.branchA.ID,
		Type:     model.OrderDineIn,
		Items: []model.CreateOrderItemInput{
			{MenuItemID: f.burger.ID, Quantity: 2, Price: utils.Ptr(60.0)},
			{MenuItemID: f.fries.ID, Quantity: 4, Price: utils.Ptr(20.0)},
		},
		Total: utils.Ptr(200.0),
	}
}

type recordingDispatcher struct {
	mu       sync.Mutex
	tenants  []uint
	messages []string
}

func (d *recordingDispatcher) Dispatch(tenantID uint, message string) <-chan error {
	d.mu.Lock()
	d.tenants = append(d.tenants, tenantID)
	d.messages = append(d.messages, message)
	d.mu.Unlock()

	done := make(chan error, 1)
	close(done)
	return done
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.messages)
}

func newOrderService(db *gorm.DB, dispatcher NotificationDispatcher) *OrderService {
	return NewOrderService(db, NewDiscountEvaluator(db), dispatcher, nil, time.UTC).
		WithClock(func() time.Time { return noon })
}

func countRows(t *testing.T, db *gorm.DB, v any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(v).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", v, err)
	}
	return n
}

func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}
