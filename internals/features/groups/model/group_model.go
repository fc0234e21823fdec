// file: internals/features/groups/model/group_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupModel is a named subset of a class's students.
type GroupModel struct {
	GroupID uuid.UUID `gorm:"type:uuid;primaryKey;column:group_id" json:"group_id"`

	GroupClassID uuid.UUID `gorm:"not null;uniqueIndex:uq_groups_class_name;column:group_class_id" json:"group_class_id"`
	GroupName    string    `gorm:"size:10;not null;uniqueIndex:uq_groups_class_name;column:group_name" json:"group_name"`

	GroupCreatedAt time.Time `gorm:"not null;autoCreateTime;column:group_created_at" json:"group_created_at"`
	GroupUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:group_updated_at" json:"group_updated_at"`
}

func (GroupModel) TableName() string { return "groups" }

// GroupMemberModel keys members by student name within the group, matching
// how homework scopes and messages address students.
type GroupMemberModel struct {
	GroupMemberID uuid.UUID `gorm:"type:uuid;primaryKey;column:group_member_id" json:"group_member_id"`

	GroupMemberGroupID     uuid.UUID `gorm:"not null;uniqueIndex:uq_group_members_group_name;column:group_member_group_id" json:"group_member_group_id"`
	GroupMemberStudentName string    `gorm:"not null;uniqueIndex:uq_group_members_group_name;column:group_member_student_name" json:"group_member_student_name"`

	GroupMemberCreatedAt time.Time `gorm:"not null;autoCreateTime;column:group_member_created_at" json:"group_member_created_at"`
}

func (GroupMemberModel) TableName() string { return "group_members" }

func (g *GroupModel) BeforeCreate(tx *gorm.DB) error {
	if g.GroupID == uuid.Nil {
		g.GroupID = uuid.New()
	}
	return nil
}

func (g *GroupMemberModel) BeforeCreate(tx *gorm.DB) error {
	if g.GroupMemberID == uuid.Nil {
		g.GroupMemberID = uuid.New()
	}
	return nil
}
