// file: internals/features/users/controller/user_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	classService "classmanager_backend/internals/features/classes/service"
	"classmanager_backend/internals/features/users/service"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/middlewares/auth"
	"classmanager_backend/internals/resperr"
)

type UserController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Users    *service.UserService
	Members  *classService.MemberService
}

func NewUserController(db *gorm.DB, v *validator.Validate) *UserController {
	return &UserController{
		DB:       db,
		Validate: v,
		Users:    service.NewUserService(db),
		Members:  classService.NewMemberService(db),
	}
}

type loginRequest struct {
	OpenID string `json:"openid" validate:"required"`
	WxName string `json:"wx_name"`
	Avatar string `json:"avatar"`
}

// Login handles POST /auth/login. The mini-program exchanges its WeChat
// code for the openid upstream; this endpoint trusts the gateway's result.
func (ctl *UserController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	token, user, err := ctl.Users.Login(req.OpenID, req.WxName, req.Avatar)
	if err != nil {
		return helper.BizError(c, err)
	}
	helper.SetRawAccessToken(c, token)
	return helper.Success(c, "login ok", fiber.Map{
		"access_token": token,
		"user_id":      user.UserID,
	})
}

// Profile handles GET /users/me.
func (ctl *UserController) Profile(c *fiber.Ctx) error {
	profile, err := ctl.Users.Profile(auth.UserIDFromCtx(c))
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "profile", profile)
}

type updateProfileRequest struct {
	WxName    *string `json:"wx_name"`
	Avatar    *string `json:"avatar"`
	Telephone *string `json:"telephone" validate:"omitempty,cnphone"`
}

// UpdateProfile handles PUT /users/me.
func (ctl *UserController) UpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := ctl.Users.UpdateProfile(auth.UserIDFromCtx(c), req.WxName, req.Avatar, req.Telephone); err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "profile updated", nil)
}

// MyClasses handles GET /users/me/classes.
func (ctl *UserController) MyClasses(c *fiber.Ctx) error {
	userID := auth.UserIDFromCtx(c)
	views, err := ctl.Users.MyClasses(userID)
	if err != nil {
		return helper.BizError(c, err)
	}
	applies, err := ctl.Members.MyApplications(userID)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "my classes", fiber.Map{
		"joined":       views,
		"applications": applies,
	})
}

// SwitchClass handles PUT /users/me/current-class.
func (ctl *UserController) SwitchClass(c *fiber.Ctx) error {
	var req struct {
		MemberID string `json:"member_id" validate:"required,uuid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Members.SwitchCurrentClass(auth.UserIDFromCtx(c), memberID); err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "current class switched", nil)
}
