// file: internals/features/groups/controller/group_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/groups/service"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/middlewares/auth"
	"classmanager_backend/internals/resperr"
)

type GroupController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Groups   *service.GroupService
}

func NewGroupController(db *gorm.DB, v *validator.Validate) *GroupController {
	return &GroupController{
		DB:       db,
		Validate: v,
		Groups:   service.NewGroupService(db),
	}
}

type groupPayload struct {
	Name         string   `json:"name" validate:"required,max=10"`
	StudentNames []string `json:"student_names" validate:"dive,required,max=10"`
}

// Create handles POST /groups, teacher-guarded.
func (ctl *GroupController) Create(c *fiber.Ctx) error {
	var req groupPayload
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	member := auth.MembershipFromCtx(c)
	group, err := ctl.Groups.Create(member.ClassID, req.Name, req.StudentNames)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "group created", group)
}

// Update handles PUT /groups/:id, teacher-guarded.
func (ctl *GroupController) Update(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.BizError(c, resperr.GroupNotFound)
	}
	var req groupPayload
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	member := auth.MembershipFromCtx(c)
	if err := ctl.Groups.Update(member.ClassID, groupID, req.Name, req.StudentNames); err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "group updated", nil)
}

// Delete handles DELETE /groups/:id, teacher-guarded.
func (ctl *GroupController) Delete(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.BizError(c, resperr.GroupNotFound)
	}
	member := auth.MembershipFromCtx(c)
	if err := ctl.Groups.Delete(member.ClassID, groupID); err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "group deleted", nil)
}

// List handles GET /groups.
func (ctl *GroupController) List(c *fiber.Ctx) error {
	member := auth.MembershipFromCtx(c)
	views, err := ctl.Groups.List(member.ClassID)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "groups", views)
}

// Get handles GET /groups/:id.
func (ctl *GroupController) Get(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.BizError(c, resperr.GroupNotFound)
	}
	member := auth.MembershipFromCtx(c)
	view, err := ctl.Groups.Get(member.ClassID, groupID)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "group", view)
}
