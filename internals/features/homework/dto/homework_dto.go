// file: internals/features/homework/dto/homework_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	fileService "classmanager_backend/internals/features/files/service"
	"classmanager_backend/internals/features/homework/service"
)

type AssignRequest struct {
	Title       string                      `json:"title" validate:"required,max=20"`
	Desc        string                      `json:"desc" validate:"required"`
	PubTime     time.Time                   `json:"pub_time" validate:"omitempty,ltfield=EndTime"`
	EndTime     time.Time                   `json:"end_time" validate:"required"`
	Targets     []service.ScopeTarget       `json:"targets" validate:"required,min=1,dive"`
	Attachments fileService.AttachmentLists `json:"attachments"`
}

type UpdateRequest struct {
	HomeworkID  uuid.UUID                   `json:"homework_id" validate:"required"`
	Title       string                      `json:"title" validate:"required,max=20"`
	Desc        string                      `json:"desc" validate:"required"`
	PubTime     time.Time                   `json:"pub_time" validate:"required,ltfield=EndTime"`
	EndTime     time.Time                   `json:"end_time" validate:"required"`
	Attachments fileService.AttachmentLists `json:"attachments"`
}

type CommitRequest struct {
	HomeworkID  uuid.UUID                   `json:"homework_id" validate:"required"`
	Desc        string                      `json:"desc"`
	Attachments fileService.AttachmentLists `json:"attachments"`
}

type CheckRequest struct {
	AnswerID uuid.UUID      `json:"answer_id" validate:"required"`
	Score    string         `json:"score" validate:"omitempty,len=1"`
	Content  datatypes.JSON `json:"content"`
}

type EvaluateRequest struct {
	AnswerIDs []uuid.UUID `json:"answer_ids" validate:"required,min=1"`
	Comment   string      `json:"comment" validate:"required"`
	Score     string      `json:"score" validate:"omitempty,len=1"`
}
