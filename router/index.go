package router

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"restaurant_manager/handler"
	"restaurant_manager/middleware"
	"restaurant_manager/model"
	"restaurant_manager/validate"
)

func SetupRoutes(app *fiber.App, h *handler.Handler, guard *middleware.Guard) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1")

	staffRoles := []model.Role{model.RoleGlobalAdmin, model.RoleTenantAdmin, model.RoleManager, model.RoleStaff}
	admins := []model.Role{model.RoleGlobalAdmin, model.RoleTenantAdmin}
	managers := []model.Role{model.RoleGlobalAdmin, model.RoleTenantAdmin, model.RoleManager}

	auth := v1.Group("/auth")
	auth.Post("/login", validate.Login(), h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", guard.Wrap(h.Me))

	customer := v1.Group("/customer")
	customer.Post("/register", validate.RegisterCustomer(), h.RegisterCustomer)
	customer.Post("/login", validate.CustomerLogin(), h.CustomerLogin)
	customer.Post("/logout", h.CustomerLogout)

	user := v1.Group("/user")
	user.Get("/", guard.Wrap(h.GetUsers, admins...))
	user.Post("/", guard.Wrap(h.CreateUser, admins...))
	user.Patch("/:userId/active", guard.Wrap(h.SetUserActive, admins...))

	restaurant := v1.Group("/restaurant")
	restaurant.Get("/", guard.Wrap(h.GetRestaurants, admins...))
	restaurant.Post("/", guard.Wrap(h.CreateRestaurant, model.RoleGlobalAdmin))
	restaurant.Put("/:restaurantId/subscription", guard.Wrap(h.UpdateSubscription, model.RoleGlobalAdmin))

	branch := v1.Group("/branch")
	branch.Get("/", guard.Wrap(h.GetBranches))
	branch.Post("/", guard.Wrap(h.CreateBranch, admins...))
	branch.Delete("/:branchId", guard.Wrap(h.DeleteBranch, admins...))

	menu := v1.Group("/menu")
	menu.Get("/", guard.Wrap(h.GetMenuItems))
	menu.Post("/", guard.Wrap(h.CreateMenuItem, managers...))

	order := v1.Group("/order")
	order.Get("/", guard.Wrap(h.GetOrders))
	order.Post("/", guard.Wrap(h.PlaceOrder))
	order.Get("/:orderId", guard.Wrap(h.GetOrderById))
	order.Patch("/:orderId/status", guard.Wrap(h.UpdateOrderStatus, staffRoles...))
	order.Patch("/:orderId/payment", guard.Wrap(h.UpdatePaymentStatus, staffRoles...))

	discount := v1.Group("/discount")
	discount.Post("/validate", validate.ValidateDiscount(), h.ValidateDiscount)
	discount.Get("/", guard.Wrap(h.GetDiscounts, managers...))
	discount.Post("/", guard.Wrap(h.CreateDiscount, managers...))

	notification := v1.Group("/notification")
	notification.Get("/", guard.Wrap(h.GetNotifications, staffRoles...))
	notification.Patch("/:notificationId/read", guard.Wrap(h.MarkNotificationRead, staffRoles...))
	notification.Get("/ws", guard.Upgrade(staffRoles...), handler.RequireWebsocket, websocket.New(h.NotificationStream))
}
