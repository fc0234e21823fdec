// file: internals/features/classes/model/class_member_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassMemberModel binds a user to a class under a role. Rows are
// soft-deleted only: homework statuses and messages reference members by id
// and must stay resolvable.
//
// Partial unique indexes (created by migration, postgres):
//
//	CREATE UNIQUE INDEX uq_class_members_headteacher
//	    ON class_members (class_member_class_id)
//	    WHERE class_member_role = '1' AND class_member_is_deleted = false;
//	CREATE UNIQUE INDEX uq_class_members_subject_teacher
//	    ON class_members (class_member_class_id, class_member_subject_id)
//	    WHERE class_member_role IN ('1','2') AND class_member_is_deleted = false;
//
// They close the check-then-insert race the services otherwise serialize
// with row locks.
type ClassMemberModel struct {
	ClassMemberID uuid.UUID `gorm:"type:uuid;primaryKey;column:class_member_id" json:"class_member_id"`

	ClassMemberClassID uuid.UUID `gorm:"not null;index;column:class_member_class_id" json:"class_member_class_id"`
	ClassMemberUserID  uuid.UUID `gorm:"not null;index;column:class_member_user_id" json:"class_member_user_id"`

	// teacher/student display name; for students this is the child's name,
	// shared by every guardian membership of the same child
	ClassMemberName string `gorm:"not null;index;column:class_member_name" json:"class_member_name"`

	ClassMemberRole string `gorm:"size:3;not null;column:class_member_role" json:"class_member_role"`

	ClassMemberSubjectID      *uuid.UUID `gorm:"column:class_member_subject_id" json:"class_member_subject_id"`
	ClassMemberFamilyRelation *string    `gorm:"size:3;column:class_member_family_relation" json:"class_member_family_relation"`
	ClassMemberTelephone      string     `gorm:"size:11;not null;column:class_member_telephone" json:"class_member_telephone"`

	ClassMemberIsDeleted bool      `gorm:"not null;default:false;column:class_member_is_deleted" json:"class_member_is_deleted"`
	ClassMemberCreatedAt time.Time `gorm:"not null;autoCreateTime;column:class_member_created_at" json:"class_member_created_at"`
	ClassMemberUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:class_member_updated_at" json:"class_member_updated_at"`
}

func (ClassMemberModel) TableName() string { return "class_members" }

func (c *ClassMemberModel) BeforeCreate(tx *gorm.DB) error {
	if c.ClassMemberID == uuid.Nil {
		c.ClassMemberID = uuid.New()
	}
	return nil
}
