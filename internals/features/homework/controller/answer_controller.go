// file: internals/features/homework/controller/answer_controller.go
package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/homework/dto"
	"classmanager_backend/internals/features/homework/service"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/middlewares/auth"
	"classmanager_backend/internals/resperr"
)

// AnswerController exposes submission and grading.
type AnswerController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Answers  *service.AnswerService
}

func NewAnswerController(db *gorm.DB, v *validator.Validate) *AnswerController {
	return &AnswerController{
		DB:       db,
		Validate: v,
		Answers:  service.NewAnswerService(db),
	}
}

// Commit handles POST /homework/answers, student-guarded.
func (ctl *AnswerController) Commit(c *fiber.Ctx) error {
	var req dto.CommitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	member := auth.MembershipFromCtx(c)
	err := ctl.Answers.Commit(member.MemberID, member.ClassID, member.Name, service.CommitInput{
		HomeworkID:  req.HomeworkID,
		Desc:        req.Desc,
		Attachments: req.Attachments,
	})
	if err != nil {
		log.Printf("[HOMEWORK] commit rejected member=%s homework=%s: %v", member.MemberID, req.HomeworkID, err)
		return helper.BizError(c, err)
	}
	return helper.Success(c, "answer submitted", nil)
}

// Check handles POST /homework/answers/check, teacher-guarded.
func (ctl *AnswerController) Check(c *fiber.Ctx) error {
	var req dto.CheckRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	member := auth.MembershipFromCtx(c)
	if err := ctl.Answers.Check(member.UserID, member.MemberID, req.AnswerID, req.Score, req.Content); err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "answer checked", nil)
}

// Evaluate handles POST /homework/answers/evaluate, teacher-guarded.
func (ctl *AnswerController) Evaluate(c *fiber.Ctx) error {
	var req dto.EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	member := auth.MembershipFromCtx(c)
	err := ctl.Answers.Evaluate(member.UserID, member.MemberID, member.ClassID, service.EvaluateInput{
		AnswerIDs: req.AnswerIDs,
		Comment:   req.Comment,
		Score:     req.Score,
	})
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "answers evaluated", nil)
}
