// file: internals/features/files/model/file_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileInfoModel is uploaded-file metadata. Upload, storage layout and MIME
// sniffing belong to the storage collaborator; the registry only consumes
// id + category + existence.
type FileInfoModel struct {
	FileInfoID uuid.UUID `gorm:"type:uuid;primaryKey;column:file_info_id" json:"file_info_id"`

	FileInfoUploaderID uuid.UUID `gorm:"not null;index;column:file_info_uploader_id" json:"file_info_uploader_id"`
	FileInfoCategory   string    `gorm:"size:2;not null;column:file_info_category" json:"file_info_category"`
	FileInfoPath       string    `gorm:"not null;column:file_info_path" json:"file_info_path"`
	FileInfoCompressed bool      `gorm:"not null;default:false;column:file_info_compressed" json:"file_info_compressed"`

	FileInfoCreatedAt time.Time `gorm:"not null;autoCreateTime;column:file_info_created_at" json:"file_info_created_at"`
}

func (FileInfoModel) TableName() string { return "file_infos" }

// FileReferenceModel joins a file to the entity that embeds it (feedback,
// homework, or homework answer).
type FileReferenceModel struct {
	FileReferenceID uuid.UUID `gorm:"type:uuid;primaryKey;column:file_reference_id" json:"file_reference_id"`

	FileReferenceFileID       uuid.UUID `gorm:"not null;index;column:file_reference_file_id" json:"file_reference_file_id"`
	FileReferenceRefType      string    `gorm:"size:2;not null;column:file_reference_ref_type" json:"file_reference_ref_type"`
	FileReferenceReferencedID uuid.UUID `gorm:"not null;index;column:file_reference_referenced_id" json:"file_reference_referenced_id"`
}

func (FileReferenceModel) TableName() string { return "file_references" }

func (f *FileInfoModel) BeforeCreate(tx *gorm.DB) error {
	if f.FileInfoID == uuid.Nil {
		f.FileInfoID = uuid.New()
	}
	return nil
}

func (f *FileReferenceModel) BeforeCreate(tx *gorm.DB) error {
	if f.FileReferenceID == uuid.Nil {
		f.FileReferenceID = uuid.New()
	}
	return nil
}
