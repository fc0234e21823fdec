// file: internals/features/files/controller/file_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/files/service"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/middlewares/auth"
	"classmanager_backend/internals/resperr"
)

type FileController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Registry *service.RegistryService
}

func NewFileController(db *gorm.DB, v *validator.Validate) *FileController {
	return &FileController{
		DB:       db,
		Validate: v,
		Registry: service.NewRegistryService(db),
	}
}

type registerRequest struct {
	Category   string `json:"category" validate:"required,len=1"`
	Path       string `json:"path" validate:"required"`
	Compressed bool   `json:"compressed"`
}

// Register handles POST /files. The storage collaborator calls back here
// after persisting the bytes.
func (ctl *FileController) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	info, err := ctl.Registry.Register(auth.UserIDFromCtx(c), req.Category, req.Path, req.Compressed)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "file registered", info)
}

// Get handles GET /files/:id.
func (ctl *FileController) Get(c *fiber.Ctx) error {
	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.BizError(c, resperr.FileNotFound)
	}
	info, err := ctl.Registry.Get(fileID)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "file", info)
}
