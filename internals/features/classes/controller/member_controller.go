// file: internals/features/classes/controller/member_controller.go
package controller

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/classes/dto"
	"classmanager_backend/internals/features/classes/service"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/middlewares/auth"
	"classmanager_backend/internals/resperr"
)

// MemberController exposes the roster and membership mutations.
type MemberController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Members  *service.MemberService
}

func NewMemberController(db *gorm.DB, v *validator.Validate) *MemberController {
	return &MemberController{
		DB:       db,
		Validate: v,
		Members:  service.NewMemberService(db),
	}
}

// Roster handles GET /classes/members.
func (ctl *MemberController) Roster(c *fiber.Ctx) error {
	member := auth.MembershipFromCtx(c)
	members, err := ctl.Members.Roster(member.ClassID)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "roster", members)
}

// StudentNames handles GET /classes/members/students.
func (ctl *MemberController) StudentNames(c *fiber.Ctx) error {
	member := auth.MembershipFromCtx(c)
	names, err := ctl.Members.StudentNames(member.ClassID)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "student names", names)
}

// FamilyMembers handles GET /classes/members/family/:name.
func (ctl *MemberController) FamilyMembers(c *fiber.Ctx) error {
	member := auth.MembershipFromCtx(c)
	name := c.Params("name")
	if name == "" {
		return helper.BizError(c, resperr.MissingParams)
	}
	members, err := ctl.Members.FamilyMembers(member.ClassID, name)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "family members", members)
}

// Delete handles DELETE /classes/members/:id.
func (ctl *MemberController) Delete(c *fiber.Ctx) error {
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	member := auth.MembershipFromCtx(c)
	if err := ctl.Members.DeleteMember(member.MemberID, member.Role, member.ClassID, targetID); err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "member removed", nil)
}

// Update handles PUT /classes/members.
func (ctl *MemberController) Update(c *fiber.Ctx) error {
	var req dto.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	member := auth.MembershipFromCtx(c)
	err := ctl.Members.UpdateMember(member.MemberID, member.Role, member.ClassID, req.MemberID, service.MemberUpdate{
		Name:           req.Name,
		Telephone:      req.Telephone,
		FamilyRelation: req.FamilyRelation,
		SubjectID:      req.SubjectID,
	})
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "member updated", nil)
}

// ToggleAudit handles PUT /classes/audit, headteacher-guarded.
func (ctl *MemberController) ToggleAudit(c *fiber.Ctx) error {
	var req dto.ToggleAuditRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	member := auth.MembershipFromCtx(c)
	if err := ctl.Members.ToggleAudit(member.ClassID, *req.NeedAudit); err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "audit flag updated", nil)
}

// JoinRequests handles GET /classes/join-requests, teacher-guarded.
func (ctl *MemberController) JoinRequests(c *fiber.Ctx) error {
	member := auth.MembershipFromCtx(c)
	reviewing, reviewed, err := ctl.Members.JoinRequests(member.ClassID)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "join requests", fiber.Map{
		"reviewing": reviewing,
		"reviewed":  reviewed,
	})
}

// MyApplications handles GET /classes/applications.
func (ctl *MemberController) MyApplications(c *fiber.Ctx) error {
	applies, err := ctl.Members.MyApplications(auth.UserIDFromCtx(c))
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "applications", applies)
}

// Invitation handles GET /classes/invitation/:code, public.
func (ctl *MemberController) Invitation(c *fiber.Ctx) error {
	code, err := strconv.ParseInt(c.Params("code"), 10, 64)
	if err != nil {
		return helper.BizError(c, resperr.InvalidInvitation)
	}
	info, err := ctl.Members.Invitation(code)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "invitation", info)
}

// ClassCodeByPhone handles GET /classes/code-by-phone?telephone=.
func (ctl *MemberController) ClassCodeByPhone(c *fiber.Ctx) error {
	telephone := c.Query("telephone")
	if telephone == "" {
		return helper.BizError(c, resperr.MissingParams)
	}
	code, err := ctl.Members.ClassCodeByPhone(telephone)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "class code", fiber.Map{"class_code": code})
}
