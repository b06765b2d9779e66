package constants

import "time"

const (
	STAFF_COOKIE    = "auth_token"
	CUSTOMER_COOKIE = "customer_token"

	STAFF_TOKEN_TTL    = 24 * time.Hour
	CUSTOMER_TOKEN_TTL = 7 * 24 * time.Hour

	STAFF_ISSUER    = "restaurant-staff"
	CUSTOMER_ISSUER = "restaurant-customer"

	TENANT_QUERY_PARAM = "restaurantId"
	AUTH_LOCALS_KEY    = "auth"
)

const (
	MISSING_LOGIN_INPUT      = "Email and password are required"
	INVALID_CREDENTIALS      = "Invalid email or password"
	ACCOUNT_NOT_ACTIVE       = "Account is disabled"
	SUBSCRIPTION_EXPIRED     = "Subscription for %s has expired"
	LOGIN_SUCCESS            = "Login success"
	LOGOUT_SUCCESS           = "Logout success"
	REGISTER_SUCCESS         = "Register success"
	UNAUTHENTICATED          = "Authentication required"
	FORBIDDEN                = "You do not have access to this resource"
	INVALID_INPUT            = "Invalid input"
	ERROR_INTERNAL_ERROR     = "Internal server error"
	CAN_NOT_HASH_PASSWORD    = "Cannot hash password"
	EMAIL_ALREADY_USED       = "Email already in use"
	BRANCH_NOT_FOUND         = "Branch not found"
	BRANCH_NOT_OWNED         = "Branch does not belong to your restaurant"
	MENU_ITEM_NOT_OWNED      = "Menu items must belong to the branch's restaurant"
	DELIVERY_UNAVAILABLE     = "Delivery is unavailable after %s for this branch"
	DELIVERY_ADDRESS_MISSING = "Delivery address is required for delivery orders"
	ORDER_CREATED            = "Order placed"
	ORDER_RELOAD_FAILED      = "Order placed but could not be loaded"
	ORDER_NOT_FOUND          = "Order not found"
	ORDER_STATUS_UPDATED     = "Order status updated"
	INVALID_TRANSITION       = "Cannot move from %s to %s"
	PAYMENT_NOT_FOUND        = "Payment not found"
	PAYMENT_STATUS_UPDATED   = "Payment status updated"
	DISCOUNT_NOT_FOUND       = "Discount code is invalid or expired"
	DISCOUNT_VALID           = "Discount code applied"
	DISCOUNT_ACTIVE_EXISTS   = "An active discount with this code already exists"
	RESTAURANT_NOT_FOUND     = "Restaurant not found"
	NOTIFICATION_NOT_FOUND   = "Notification not found"
	USER_NOT_FOUND           = "User not found"
	CANNOT_CHANGE_SELF       = "You cannot change your own account status"
	FETCH_SUCCESS            = "Success"
	CREATE_SUCCESS           = "Created"
	UPDATE_SUCCESS           = "Updated"
	DELETE_SUCCESS           = "Deleted"
)
