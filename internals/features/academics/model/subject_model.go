// file: internals/features/academics/model/subject_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubjectModel is reference data shared with the (external) school directory
// sync collaborator.
type SubjectModel struct {
	SubjectID uuid.UUID `gorm:"type:uuid;primaryKey;column:subject_id" json:"subject_id"`

	SubjectName string `gorm:"uniqueIndex:uq_subjects_name;not null;column:subject_name" json:"subject_name"`

	SubjectCreatedAt time.Time `gorm:"not null;autoCreateTime;column:subject_created_at" json:"subject_created_at"`
}

func (SubjectModel) TableName() string { return "subjects" }

// SysConfigModel holds enumerated configuration entries; family relations
// live here under ConfigFamilyRelation.
type SysConfigModel struct {
	SysConfigID uuid.UUID `gorm:"type:uuid;primaryKey;column:sys_config_id" json:"sys_config_id"`

	SysConfigType  string `gorm:"size:2;not null;uniqueIndex:uq_sys_configs_type_key;column:sys_config_type" json:"sys_config_type"`
	SysConfigKey   string `gorm:"size:3;not null;uniqueIndex:uq_sys_configs_type_key;column:sys_config_key" json:"sys_config_key"`
	SysConfigValue string `gorm:"not null;column:sys_config_value" json:"sys_config_value"`
}

func (SysConfigModel) TableName() string { return "sys_configs" }

func (s *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	if s.SubjectID == uuid.Nil {
		s.SubjectID = uuid.New()
	}
	return nil
}

func (s *SysConfigModel) BeforeCreate(tx *gorm.DB) error {
	if s.SysConfigID == uuid.Nil {
		s.SysConfigID = uuid.New()
	}
	return nil
}
