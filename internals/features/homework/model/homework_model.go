// file: internals/features/homework/model/homework_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/datatypes"
)

// HomeworkModel is one published assignment. Soft-deleted; the per-day
// publish invariant (one homework per teacher per class per calendar day) is
// enforced by the assign service against homework_assigns.
type HomeworkModel struct {
	HomeworkID uuid.UUID `gorm:"type:uuid;primaryKey;column:homework_id" json:"homework_id"`

	HomeworkPublisherID uuid.UUID `gorm:"not null;index;column:homework_publisher_id" json:"homework_publisher_id"`
	HomeworkSubjectID   uuid.UUID `gorm:"not null;column:homework_subject_id" json:"homework_subject_id"`

	HomeworkPubTime time.Time `gorm:"not null;index;column:homework_pub_time" json:"homework_pub_time"`
	HomeworkEndTime time.Time `gorm:"not null;index;column:homework_end_time" json:"homework_end_time"`
	HomeworkTitle   string    `gorm:"size:20;not null;column:homework_title" json:"homework_title"`
	HomeworkDesc    string    `gorm:"type:text;not null;column:homework_desc" json:"homework_desc"`

	HomeworkIsDeleted bool      `gorm:"not null;default:false;column:homework_is_deleted" json:"homework_is_deleted"`
	HomeworkCreatedAt time.Time `gorm:"not null;autoCreateTime;column:homework_created_at" json:"homework_created_at"`
	HomeworkUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:homework_updated_at" json:"homework_updated_at"`
}

func (HomeworkModel) TableName() string { return "homeworks" }

// HomeworkAssignModel declares one scope target of a homework. A Nil group
// id means the whole class.
type HomeworkAssignModel struct {
	HomeworkAssignID uuid.UUID `gorm:"type:uuid;primaryKey;column:homework_assign_id" json:"homework_assign_id"`

	HomeworkAssignHomeworkID uuid.UUID `gorm:"not null;uniqueIndex:uq_homework_assigns_scope;column:homework_assign_homework_id" json:"homework_assign_homework_id"`
	HomeworkAssignClassID    uuid.UUID `gorm:"not null;uniqueIndex:uq_homework_assigns_scope;index;column:homework_assign_class_id" json:"homework_assign_class_id"`
	HomeworkAssignGroupID    uuid.UUID `gorm:"not null;uniqueIndex:uq_homework_assigns_scope;column:homework_assign_group_id" json:"homework_assign_group_id"`
}

func (HomeworkAssignModel) TableName() string { return "homework_assigns" }

// HomeworkAnswerStatusModel is the authoritative per-student state machine,
// one row per (homework, student-class, student-name), created at publish
// time for every student in scope.
type HomeworkAnswerStatusModel struct {
	HomeworkAnswerStatusID uuid.UUID `gorm:"type:uuid;primaryKey;column:homework_answer_status_id" json:"homework_answer_status_id"`

	HomeworkAnswerStatusHomeworkID  uuid.UUID `gorm:"not null;index;column:homework_answer_status_homework_id" json:"homework_answer_status_homework_id"`
	HomeworkAnswerStatusClassID     uuid.UUID `gorm:"not null;index;column:homework_answer_status_class_id" json:"homework_answer_status_class_id"`
	HomeworkAnswerStatusStudentName string    `gorm:"not null;index;column:homework_answer_status_student_name" json:"homework_answer_status_student_name"`

	HomeworkAnswerStatusScore  *string `gorm:"size:2;column:homework_answer_status_score" json:"homework_answer_status_score"`
	HomeworkAnswerStatusStatus string  `gorm:"size:2;not null;default:'1';column:homework_answer_status_status" json:"homework_answer_status_status"`
}

func (HomeworkAnswerStatusModel) TableName() string { return "homework_answer_statuses" }

// HomeworkAnswerModel is one submission event (answer, rework or
// correction) linked to a status row and optionally to the grading
// artifacts produced for it.
type HomeworkAnswerModel struct {
	HomeworkAnswerID uuid.UUID `gorm:"type:uuid;primaryKey;column:homework_answer_id" json:"homework_answer_id"`

	HomeworkAnswerSubmitterMemberID uuid.UUID `gorm:"not null;index;column:homework_answer_submitter_member_id" json:"homework_answer_submitter_member_id"`
	HomeworkAnswerHomeworkID        uuid.UUID `gorm:"not null;index;column:homework_answer_homework_id" json:"homework_answer_homework_id"`
	HomeworkAnswerStatusID          uuid.UUID `gorm:"not null;index;column:homework_answer_status_id" json:"homework_answer_status_id"`

	HomeworkAnswerEvaluationID *uuid.UUID `gorm:"column:homework_answer_evaluation_id" json:"homework_answer_evaluation_id"`
	HomeworkAnswerCheckID      *uuid.UUID `gorm:"column:homework_answer_check_id" json:"homework_answer_check_id"`

	HomeworkAnswerCategory string `gorm:"size:2;not null;default:'1';column:homework_answer_category" json:"homework_answer_category"`
	HomeworkAnswerDesc     string `gorm:"type:text;not null;column:homework_answer_desc" json:"homework_answer_desc"`

	HomeworkAnswerCreatedAt time.Time `gorm:"not null;autoCreateTime;column:homework_answer_created_at" json:"homework_answer_created_at"`
}

func (HomeworkAnswerModel) TableName() string { return "homework_answers" }

// HomeworkEvaluateModel is a free-text comment + optional score shared by
// every answer of one batch evaluation. rejected means the batch returned
// the answers for rework.
type HomeworkEvaluateModel struct {
	HomeworkEvaluateID uuid.UUID `gorm:"type:uuid;primaryKey;column:homework_evaluate_id" json:"homework_evaluate_id"`

	HomeworkEvaluateReviewerMemberID uuid.UUID `gorm:"not null;index;column:homework_evaluate_reviewer_member_id" json:"homework_evaluate_reviewer_member_id"`
	HomeworkEvaluateComment          string    `gorm:"not null;column:homework_evaluate_comment" json:"homework_evaluate_comment"`
	HomeworkEvaluateRejected         bool      `gorm:"not null;default:false;column:homework_evaluate_rejected" json:"homework_evaluate_rejected"`
	HomeworkEvaluateScore            *string   `gorm:"size:2;column:homework_evaluate_score" json:"homework_evaluate_score"`

	HomeworkEvaluateCreatedAt time.Time `gorm:"not null;autoCreateTime;column:homework_evaluate_created_at" json:"homework_evaluate_created_at"`
}

func (HomeworkEvaluateModel) TableName() string { return "homework_evaluates" }

// HomeworkAnswerCheckModel is an image-annotation grading record for a
// single answer.
type HomeworkAnswerCheckModel struct {
	HomeworkAnswerCheckID uuid.UUID `gorm:"type:uuid;primaryKey;column:homework_answer_check_id" json:"homework_answer_check_id"`

	HomeworkAnswerCheckReviewerMemberID uuid.UUID      `gorm:"not null;index;column:homework_answer_check_reviewer_member_id" json:"homework_answer_check_reviewer_member_id"`
	HomeworkAnswerCheckCategory         string         `gorm:"size:2;not null;column:homework_answer_check_category" json:"homework_answer_check_category"`
	HomeworkAnswerCheckContent          datatypes.JSON `gorm:"column:homework_answer_check_content" json:"homework_answer_check_content"`

	HomeworkAnswerCheckCreatedAt time.Time `gorm:"not null;autoCreateTime;column:homework_answer_check_created_at" json:"homework_answer_check_created_at"`
}

func (HomeworkAnswerCheckModel) TableName() string { return "homework_answer_checks" }

func (h *HomeworkModel) BeforeCreate(tx *gorm.DB) error {
	if h.HomeworkID == uuid.Nil {
		h.HomeworkID = uuid.New()
	}
	return nil
}

func (h *HomeworkAssignModel) BeforeCreate(tx *gorm.DB) error {
	if h.HomeworkAssignID == uuid.Nil {
		h.HomeworkAssignID = uuid.New()
	}
	return nil
}

func (h *HomeworkAnswerStatusModel) BeforeCreate(tx *gorm.DB) error {
	if h.HomeworkAnswerStatusID == uuid.Nil {
		h.HomeworkAnswerStatusID = uuid.New()
	}
	return nil
}

func (h *HomeworkAnswerModel) BeforeCreate(tx *gorm.DB) error {
	if h.HomeworkAnswerID == uuid.Nil {
		h.HomeworkAnswerID = uuid.New()
	}
	return nil
}

func (h *HomeworkEvaluateModel) BeforeCreate(tx *gorm.DB) error {
	if h.HomeworkEvaluateID == uuid.Nil {
		h.HomeworkEvaluateID = uuid.New()
	}
	return nil
}

func (h *HomeworkAnswerCheckModel) BeforeCreate(tx *gorm.DB) error {
	if h.HomeworkAnswerCheckID == uuid.Nil {
		h.HomeworkAnswerCheckID = uuid.New()
	}
	return nil
}
