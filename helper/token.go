package helper

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"restaurant_manager/constants"
	"restaurant_manager/model"
)

type sessionClaims struct {
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	TenantID *uint      `json:"tenantId,omitempty"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies the staff and customer session tokens.
// The two namespaces use different secrets and issuers.
type Sessions struct {
	staffSecret    []byte
	customerSecret []byte
	now            func() time.Time
}

func NewSessions(staffSecret, customerSecret string) *Sessions {
	return &Sessions{
		staffSecret:    []byte(staffSecret),
		customerSecret: []byte(customerSecret),
		now:            time.Now,
	}
}

// WithClock replaces the time source, used by tests.
func (s *Sessions) WithClock(now func() time.Time) *Sessions {
	s.now = now
	return s
}

func (s *Sessions) IssueStaff(claim model.IdentityClaim) (string, time.Time, error) {
	if claim.Role == model.RoleCustomer || !claim.Role.Valid() {
		return "", time.Time{}, errors.New("staff token requires a staff role")
	}
	return s.issue(claim, s.staffSecret, constants.STAFF_ISSUER, constants.STAFF_TOKEN_TTL)
}

func (s *Sessions) IssueCustomer(claim model.IdentityClaim) (string, time.Time, error) {
	if claim.Role != model.RoleCustomer {
		return "", time.Time{}, errors.New("customer token requires the customer role")
	}
	return s.issue(claim, s.customerSecret, constants.CUSTOMER_ISSUER, constants.CUSTOMER_TOKEN_TTL)
}

func (s *Sessions) issue(claim model.IdentityClaim, secret []byte, issuer string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email:    claim.Email,
		Role:     claim.Role,
		TenantID: claim.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(claim.SubjectID), 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(secret)
	return signed, exp, err
}

// ParseStaff verifies a staff-namespace token. Any failure yields nil.
func (s *Sessions) ParseStaff(token string) *model.IdentityClaim {
	claim := s.parse(token, s.staffSecret, constants.STAFF_ISSUER)
	if claim == nil || claim.Role == model.RoleCustomer {
		return nil
	}
	return claim
}

// ParseCustomer verifies a customer-namespace token. Any failure yields nil.
func (s *Sessions) ParseCustomer(token string) *model.IdentityClaim {
	claim := s.parse(token, s.customerSecret, constants.CUSTOMER_ISSUER)
	if claim == nil || claim.Role != model.RoleCustomer {
		return nil
	}
	return claim
}

func (s *Sessions) parse(tokenString string, secret []byte, issuer string) *model.IdentityClaim {
	if tokenString == "" || len(secret) == 0 {
		return nil
	}
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 || !claims.Role.Valid() {
		return nil
	}
	return &model.IdentityClaim{
		SubjectID: uint(id),
		Email:     claims.Email,
		Role:      claims.Role,
		TenantID:  claims.TenantID,
	}
}

// Resolve reads the session from cookies or the bearer header, trying the staff
// namespace before the customer one. Absence means anonymous.
func (s *Sessions) Resolve(c *fiber.Ctx) (*model.IdentityClaim, bool) {
	bearer := ""
	if auth := c.Get(fiber.HeaderAuthorization); len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		bearer = strings.TrimSpace(auth[7:])
	}

	for _, tok := range []string{c.Cookies(constants.STAFF_COOKIE), bearer} {
		if claim := s.ParseStaff(tok); claim != nil {
			return claim, true
		}
	}
	for _, tok := range []string{c.Cookies(constants.CUSTOMER_COOKIE), bearer} {
		if claim := s.ParseCustomer(tok); claim != nil {
			return claim, true
		}
	}
	return nil, false
}
