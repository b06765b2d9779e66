package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"restaurant_manager/constants"
	"restaurant_manager/model"
	"restaurant_manager/utils"
)

// AuthContext is what a guarded handler receives alongside the request.
type AuthContext struct {
	Params            map[string]string
	Claim             model.IdentityClaim
	EffectiveTenantID *uint
}

// TenantID returns the effective tenant or 0 when the caller sees all tenants.
func (ac AuthContext) TenantID() uint {
	if ac.EffectiveTenantID == nil {
		return 0
	}
	return *ac.EffectiveTenantID
}

type GuardedHandler func(c *fiber.Ctx, ac AuthContext) error

// IdentityResolver turns a request into a verified claim.
type IdentityResolver interface {
	Resolve(c *fiber.Ctx) (*model.IdentityClaim, bool)
}

type Guard struct {
	resolver IdentityResolver
}

func NewGuard(resolver IdentityResolver) *Guard {
	return &Guard{resolver: resolver}
}

// Wrap authenticates the caller, checks the role allow-list (empty means any
// role) and pins the effective tenant before calling h.
func (g *Guard) Wrap(h GuardedHandler, allowed ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, err := g.Authorize(c, allowed...)
		if err != nil {
			return utils.HandleError(c, err)
		}
		return h(c, ac)
	}
}

// Upgrade is Wrap for routes that continue down the fiber chain, such as a
// websocket upgrade. The context is left in c.Locals.
func (g *Guard) Upgrade(allowed ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, err := g.Authorize(c, allowed...)
		if err != nil {
			return utils.HandleError(c, err)
		}
		c.Locals(constants.AUTH_LOCALS_KEY, ac)
		return c.Next()
	}
}

func (g *Guard) Authorize(c *fiber.Ctx, allowed ...model.Role) (AuthContext, error) {
	claim, ok := g.resolver.Resolve(c)
	if !ok || claim == nil {
		return AuthContext{}, utils.NewAuthenticationError(constants.UNAUTHENTICATED)
	}
	if len(allowed) > 0 && !claim.Role.In(allowed...) {
		return AuthContext{}, utils.NewAuthorizationError(constants.FORBIDDEN)
	}

	tenantID, err := effectiveTenant(c, *claim)
	if err != nil {
		return AuthContext{}, err
	}
	return AuthContext{
		Params:            c.AllParams(),
		Claim:             *claim,
		EffectiveTenantID: tenantID,
	}, nil
}

func effectiveTenant(c *fiber.Ctx, claim model.IdentityClaim) (*uint, error) {
	if !claim.Role.IsGlobal() {
		// client supplied tenant ids are ignored for scoped roles
		if claim.TenantID == nil {
			return nil, utils.NewAuthorizationError(constants.FORBIDDEN)
		}
		id := *claim.TenantID
		return &id, nil
	}

	raw := c.Query(constants.TENANT_QUERY_PARAM)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, utils.NewValidationError(constants.INVALID_INPUT, map[string]string{
			constants.TENANT_QUERY_PARAM: "must be a positive integer",
		})
	}
	return utils.Ptr(uint(id)), nil
}

// FromLocals converts the value stored by Upgrade under constants.AUTH_LOCALS_KEY.
func FromLocals(v interface{}) (AuthContext, bool) {
	ac, ok := v.(AuthContext)
	return ac, ok
}
