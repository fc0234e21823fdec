// file: internals/features/files/service/attachment_service.go
package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classmanager_backend/internals/constants"
	fileModel "classmanager_backend/internals/features/files/model"
	"classmanager_backend/internals/resperr"
)

// AttachmentLists partitions declared attachment ids by kind, the shape
// every homework/answer payload uses.
type AttachmentLists struct {
	Images []uuid.UUID `json:"images"`
	Videos []uuid.UUID `json:"videos"`
	Audios []uuid.UUID `json:"audios"`
	Docs   []uuid.UUID `json:"docs"`
}

func (a AttachmentLists) Flatten() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(a.Images)+len(a.Videos)+len(a.Audios)+len(a.Docs))
	out = append(out, a.Images...)
	out = append(out, a.Videos...)
	out = append(out, a.Audios...)
	out = append(out, a.Docs...)
	return out
}

// ValidateAttachments confirms every declared id exists with the declared
// kind. Returns the flattened id list for reference-row creation, or
// FileNotFound when any kind's count does not match.
func ValidateAttachments(db *gorm.DB, lists AttachmentLists) ([]uuid.UUID, error) {
	kinds := []struct {
		category string
		ids      []uuid.UUID
	}{
		{constants.FileImage, lists.Images},
		{constants.FileVideo, lists.Videos},
		{constants.FileAudio, lists.Audios},
		{constants.FileDoc, lists.Docs},
	}
	for _, kind := range kinds {
		if len(kind.ids) == 0 {
			continue
		}
		var count int64
		err := db.Model(&fileModel.FileInfoModel{}).
			Where("file_info_id IN ?", kind.ids).
			Where("file_info_category = ?", kind.category).
			Count(&count).Error
		if err != nil {
			return nil, resperr.InternalServerError
		}
		if count != int64(len(kind.ids)) {
			return nil, resperr.FileNotFound
		}
	}
	return lists.Flatten(), nil
}

// CreateReferences inserts one reference row per attachment id.
func CreateReferences(tx *gorm.DB, refType string, referencedID uuid.UUID, fileIDs []uuid.UUID) error {
	if len(fileIDs) == 0 {
		return nil
	}
	refs := make([]fileModel.FileReferenceModel, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		refs = append(refs, fileModel.FileReferenceModel{
			FileReferenceFileID:       fileID,
			FileReferenceRefType:      refType,
			FileReferenceReferencedID: referencedID,
		})
	}
	return tx.Create(&refs).Error
}

// DeleteReferences drops every reference row of an entity, for wholesale
// attachment replacement on update.
func DeleteReferences(tx *gorm.DB, refType string, referencedID uuid.UUID) error {
	return tx.
		Where("file_reference_ref_type = ?", refType).
		Where("file_reference_referenced_id = ?", referencedID).
		Delete(&fileModel.FileReferenceModel{}).Error
}

// ReferencedFileKinds loads the referenced files of an entity and splits
// their ids per kind for response shaping.
func ReferencedFileKinds(db *gorm.DB, refType string, referencedID uuid.UUID) (AttachmentLists, error) {
	var rows []struct {
		FileInfoID       uuid.UUID
		FileInfoCategory string
	}
	err := db.Model(&fileModel.FileInfoModel{}).
		Select("file_infos.file_info_id, file_infos.file_info_category").
		Joins("JOIN file_references ON file_references.file_reference_file_id = file_infos.file_info_id").
		Where("file_references.file_reference_ref_type = ?", refType).
		Where("file_references.file_reference_referenced_id = ?", referencedID).
		Scan(&rows).Error
	if err != nil {
		return AttachmentLists{}, resperr.InternalServerError
	}
	return splitByKind(rows), nil
}

// ReferencedFileKindsBatch does the same for many entities in one query,
// keyed by referenced id.
func ReferencedFileKindsBatch(db *gorm.DB, refType string, referencedIDs []uuid.UUID) (map[uuid.UUID]AttachmentLists, error) {
	out := make(map[uuid.UUID]AttachmentLists, len(referencedIDs))
	if len(referencedIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ReferencedID     uuid.UUID `gorm:"column:referenced_id"`
		FileInfoID       uuid.UUID
		FileInfoCategory string
	}
	err := db.Model(&fileModel.FileInfoModel{}).
		Select("file_references.file_reference_referenced_id AS referenced_id, file_infos.file_info_id, file_infos.file_info_category").
		Joins("JOIN file_references ON file_references.file_reference_file_id = file_infos.file_info_id").
		Where("file_references.file_reference_ref_type = ?", refType).
		Where("file_references.file_reference_referenced_id IN ?", referencedIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	for _, row := range rows {
		lists := out[row.ReferencedID]
		appendKind(&lists, row.FileInfoCategory, row.FileInfoID)
		out[row.ReferencedID] = lists
	}
	return out, nil
}

func splitByKind(rows []struct {
	FileInfoID       uuid.UUID
	FileInfoCategory string
}) AttachmentLists {
	var lists AttachmentLists
	for _, row := range rows {
		appendKind(&lists, row.FileInfoCategory, row.FileInfoID)
	}
	return lists
}

func appendKind(lists *AttachmentLists, category string, id uuid.UUID) {
	switch category {
	case constants.FileImage:
		lists.Images = append(lists.Images, id)
	case constants.FileVideo:
		lists.Videos = append(lists.Videos, id)
	case constants.FileAudio:
		lists.Audios = append(lists.Audios, id)
	case constants.FileDoc:
		lists.Docs = append(lists.Docs, id)
	}
}
