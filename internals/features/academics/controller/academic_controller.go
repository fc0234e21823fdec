// file: internals/features/academics/controller/academic_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/academics/service"
	helper "classmanager_backend/internals/helpers"
)

type AcademicController struct {
	DB        *gorm.DB
	Academics *service.AcademicService
}

func NewAcademicController(db *gorm.DB) *AcademicController {
	return &AcademicController{
		DB:        db,
		Academics: service.NewAcademicService(db),
	}
}

// Subjects handles GET /academics/subjects.
func (ctl *AcademicController) Subjects(c *fiber.Ctx) error {
	subjects, err := ctl.Academics.Subjects()
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "subjects", subjects)
}

// FamilyRelations handles GET /academics/family-relations.
func (ctl *AcademicController) FamilyRelations(c *fiber.Ctx) error {
	entries, err := ctl.Academics.FamilyRelations()
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "family relations", entries)
}

// StudyStages handles GET /academics/study-stages.
func (ctl *AcademicController) StudyStages(c *fiber.Ctx) error {
	entries, err := ctl.Academics.StudyStages()
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "study stages", entries)
}
