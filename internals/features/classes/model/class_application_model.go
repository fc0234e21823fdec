// file: internals/features/classes/model/class_application_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassApplicationModel is a join request. It is resolved exactly once by a
// teacher of the target class; a rejected application does not block
// resubmission, a reviewing or passed one does.
type ClassApplicationModel struct {
	ClassApplicationID uuid.UUID `gorm:"type:uuid;primaryKey;column:class_application_id" json:"class_application_id"`

	ClassApplicationProposerName string    `gorm:"not null;column:class_application_proposer_name" json:"class_application_proposer_name"`
	ClassApplicationProposerID   uuid.UUID `gorm:"not null;index;column:class_application_proposer_id" json:"class_application_proposer_id"`
	ClassApplicationClassID      uuid.UUID `gorm:"not null;index;column:class_application_class_id" json:"class_application_class_id"`

	// teacher applications carry a subject, student ones a family relation
	ClassApplicationSubjectID      *uuid.UUID `gorm:"column:class_application_subject_id" json:"class_application_subject_id"`
	ClassApplicationFamilyRelation *string    `gorm:"size:3;column:class_application_family_relation" json:"class_application_family_relation"`
	ClassApplicationTelephone      string     `gorm:"size:11;column:class_application_telephone" json:"class_application_telephone"`

	ClassApplicationResult          string     `gorm:"size:2;not null;default:'1';column:class_application_result" json:"class_application_result"`
	ClassApplicationAuditorName     *string    `gorm:"column:class_application_auditor_name" json:"class_application_auditor_name"`
	ClassApplicationAuditorMemberID *uuid.UUID `gorm:"column:class_application_auditor_member_id" json:"class_application_auditor_member_id"`

	ClassApplicationStartTime time.Time  `gorm:"not null;autoCreateTime;column:class_application_start_time" json:"class_application_start_time"`
	ClassApplicationEndTime   *time.Time `gorm:"column:class_application_end_time" json:"class_application_end_time"`
}

func (ClassApplicationModel) TableName() string { return "class_applications" }

func (c *ClassApplicationModel) BeforeCreate(tx *gorm.DB) error {
	if c.ClassApplicationID == uuid.Nil {
		c.ClassApplicationID = uuid.New()
	}
	return nil
}
