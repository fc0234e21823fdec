// file: internals/middlewares/auth/claim_utils.go
package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserIDFromCtx returns the authenticated user id, or uuid.Nil when the auth
// middleware did not run.
func UserIDFromCtx(c *fiber.Ctx) uuid.UUID {
	s, ok := c.Locals(LocUserID).(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// MembershipFromCtx returns the resolved class membership, or nil when
// LoadMembership did not run.
func MembershipFromCtx(c *fiber.Ctx) *Membership {
	m, _ := c.Locals(LocMembership).(*Membership)
	return m
}
