// file: internals/features/classes/controller/join_controller.go
package controller

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/classes/dto"
	"classmanager_backend/internals/features/classes/service"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/middlewares/auth"
	"classmanager_backend/internals/resperr"
)

// JoinController exposes the class join workflow.
type JoinController struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Validate *validator.Validate
	Join     *service.JoinService
}

func NewJoinController(db *gorm.DB, rdb *redis.Client, v *validator.Validate) *JoinController {
	return &JoinController{
		DB:       db,
		Redis:    rdb,
		Validate: v,
		Join:     service.NewJoinService(db),
	}
}

// ValidateClassCode handles GET /classes/code/:code.
func (ctl *JoinController) ValidateClassCode(c *fiber.Ctx) error {
	code, err := strconv.ParseInt(c.Params("code"), 10, 64)
	if err != nil {
		return helper.BizError(c, resperr.InvalidCode)
	}
	class, err := ctl.Join.ValidateClassCode(code)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "class found", fiber.Map{
		"class_id":   class.ClassID,
		"need_audit": class.ClassNeedAudit,
	})
}

// TeacherJoin handles POST /classes/join/teacher.
func (ctl *JoinController) TeacherJoin(c *fiber.Ctx) error {
	var req dto.TeacherJoinRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := helper.VerifyCaptcha(c.Context(), ctl.Redis, req.Telephone, req.Captcha); err != nil {
		return helper.BizError(c, err)
	}

	class, err := ctl.Join.ValidateClassCode(req.ClassCode)
	if err != nil {
		return helper.BizError(c, err)
	}
	if err := ctl.Join.SubjectExists(req.SubjectID); err != nil {
		return helper.BizError(c, err)
	}

	userID := auth.UserIDFromCtx(c)
	if err := ctl.Join.TeacherJoin(userID, req.Name, req.SubjectID, req.Telephone, class); err != nil {
		log.Printf("[JOIN] teacher join rejected user=%s class=%d: %v", userID, req.ClassCode, err)
		return helper.BizError(c, err)
	}
	return helper.Success(c, "join request accepted", nil)
}

// StudentJoin handles POST /classes/join/student.
func (ctl *JoinController) StudentJoin(c *fiber.Ctx) error {
	var req dto.StudentJoinRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := helper.VerifyCaptcha(c.Context(), ctl.Redis, req.Telephone, req.Captcha); err != nil {
		return helper.BizError(c, err)
	}

	class, err := ctl.Join.ValidateClassCode(req.ClassCode)
	if err != nil {
		return helper.BizError(c, err)
	}
	if err := ctl.Join.FamilyRelationExists(req.FamilyRelation); err != nil {
		return helper.BizError(c, err)
	}

	userID := auth.UserIDFromCtx(c)
	if err := ctl.Join.StudentJoin(userID, req.Name, req.FamilyRelation, req.Telephone, class); err != nil {
		log.Printf("[JOIN] student join rejected user=%s class=%d: %v", userID, req.ClassCode, err)
		return helper.BizError(c, err)
	}
	return helper.Success(c, "join request accepted", nil)
}

// Resubmit handles POST /classes/join/resubmit.
func (ctl *JoinController) Resubmit(c *fiber.Ctx) error {
	var req dto.ResubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := ctl.Join.Resubmit(auth.UserIDFromCtx(c), req.ApplyID); err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "application resubmitted", nil)
}

// Review handles POST /classes/join/review, teacher-guarded.
func (ctl *JoinController) Review(c *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	member := auth.MembershipFromCtx(c)
	if member == nil {
		return helper.BizError(c, resperr.NotClassMember)
	}
	err := ctl.Join.Review(member.MemberID, member.Name, member.ClassID, req.ApplyID, *req.Passed)
	if err != nil {
		log.Printf("[JOIN] review failed apply=%s reviewer=%s: %v", req.ApplyID, member.MemberID, err)
		return helper.BizError(c, err)
	}
	return helper.Success(c, "application reviewed", nil)
}
