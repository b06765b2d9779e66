package helper

import (
	"time"

	"restaurant_manager/model"
	"restaurant_manager/utils"
)

// CheckSubscription gates staff login. Global admins are never gated and a
// restaurant without an end date never expires. Tokens issued before expiry
// stay valid until their own expiry.
func CheckSubscription(restaurant *model.Restaurant, role model.Role, now time.Time) error {
	if role.IsGlobal() || restaurant == nil {
		return nil
	}
	if restaurant.SubscriptionEnd != nil && restaurant.SubscriptionEnd.Before(now) {
		return utils.NewSubscriptionExpiredError(restaurant.Name)
	}
	return nil
}
