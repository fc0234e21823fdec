// file: internals/features/classes/model/class_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassModel. class_code doubles as the join code students and teachers
// enter; class_contact_phone is the headteacher's registered phone (a
// matching teacher join request becomes headteacher without audit).
type ClassModel struct {
	ClassID uuid.UUID `gorm:"type:uuid;primaryKey;column:class_id" json:"class_id"`

	ClassCode     int64      `gorm:"uniqueIndex:uq_classes_code;not null;column:class_code" json:"class_code"`
	ClassSchoolID *uuid.UUID `gorm:"index;column:class_school_id" json:"class_school_id"`
	ClassGrade    int        `gorm:"column:class_grade" json:"class_grade"`
	ClassNumber   int        `gorm:"column:class_number" json:"class_number"`

	ClassContactPhone string `gorm:"size:11;column:class_contact_phone" json:"class_contact_phone"`
	ClassNeedAudit    bool   `gorm:"not null;default:true;column:class_need_audit" json:"class_need_audit"`

	ClassIsDeleted bool      `gorm:"not null;default:false;column:class_is_deleted" json:"class_is_deleted"`
	ClassCreatedAt time.Time `gorm:"not null;autoCreateTime;column:class_created_at" json:"class_created_at"`
	ClassUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:class_updated_at" json:"class_updated_at"`
}

func (ClassModel) TableName() string { return "classes" }

func (c *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if c.ClassID == uuid.Nil {
		c.ClassID = uuid.New()
	}
	return nil
}
