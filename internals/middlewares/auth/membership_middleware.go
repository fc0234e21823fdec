// file: internals/middlewares/auth/membership_middleware.go
package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classmanager_backend/internals/constants"
	classModel "classmanager_backend/internals/features/classes/model"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/resperr"
)

// Membership is the per-request class context: who the caller is inside
// their current class.
type Membership struct {
	MemberID  uuid.UUID
	UserID    uuid.UUID
	ClassID   uuid.UUID
	Role      string
	SubjectID *uuid.UUID
	Name      string
}

// LoadMembership resolves the caller's current class membership and stores
// it in Locals. Fails when the user has no current membership or the row was
// soft-deleted.
func LoadMembership(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberIDStr, ok := c.Locals(LocCurrentMemberID).(string)
		if !ok || memberIDStr == "" {
			return helper.BizError(c, resperr.NotClassMember)
		}
		memberID, err := uuid.Parse(memberIDStr)
		if err != nil {
			return helper.BizError(c, resperr.NotClassMember)
		}

		var member classModel.ClassMemberModel
		if err := db.Where("class_member_id = ?", memberID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.BizError(c, resperr.NotClassMember)
			}
			log.Printf("[ERROR] membership lookup failed: %v", err)
			return helper.BizError(c, resperr.InternalServerError)
		}
		if member.ClassMemberIsDeleted {
			return helper.BizError(c, resperr.DisabledMembership)
		}

		c.Locals(LocMembership, &Membership{
			MemberID:  member.ClassMemberID,
			UserID:    member.ClassMemberUserID,
			ClassID:   member.ClassMemberClassID,
			Role:      member.ClassMemberRole,
			SubjectID: member.ClassMemberSubjectID,
			Name:      member.ClassMemberName,
		})
		return c.Next()
	}
}

// OnlyTeacher admits headteachers and subject teachers.
func OnlyTeacher() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m := MembershipFromCtx(c)
		if m == nil || !constants.IsTeachingRole(m.Role) {
			return helper.BizError(c, resperr.AuthorizationDenied)
		}
		return c.Next()
	}
}

// OnlyHeadteacher admits the class owner only.
func OnlyHeadteacher() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m := MembershipFromCtx(c)
		if m == nil || m.Role != constants.RoleHeadteacher {
			return helper.BizError(c, resperr.AuthorizationDenied)
		}
		return c.Next()
	}
}

// OnlyStudent admits student memberships only.
func OnlyStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m := MembershipFromCtx(c)
		if m == nil || m.Role != constants.RoleStudent {
			return helper.BizError(c, resperr.AuthorizationDenied)
		}
		return c.Next()
	}
}
