// file: internals/features/files/service/registry_service.go
package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classmanager_backend/internals/constants"
	fileModel "classmanager_backend/internals/features/files/model"
	"classmanager_backend/internals/resperr"
)

// RegistryService records uploaded-file metadata. The storage collaborator
// owns the bytes; this registry only issues ids for later attachment
// validation.
type RegistryService struct {
	DB *gorm.DB
}

func NewRegistryService(db *gorm.DB) *RegistryService {
	return &RegistryService{DB: db}
}

// Register inserts one FileInfo row for a stored object.
func (s *RegistryService) Register(uploaderID uuid.UUID, category, path string, compressed bool) (*fileModel.FileInfoModel, error) {
	if !constants.IsFileCategory(category) {
		return nil, resperr.InvalidParams.WithMessage("unknown file kind")
	}
	if path == "" {
		return nil, resperr.MissingParams
	}
	info := fileModel.FileInfoModel{
		FileInfoUploaderID: uploaderID,
		FileInfoCategory:   category,
		FileInfoPath:       path,
		FileInfoCompressed: compressed,
	}
	if err := s.DB.Create(&info).Error; err != nil {
		return nil, resperr.InternalServerError
	}
	return &info, nil
}

// Get loads one file's metadata.
func (s *RegistryService) Get(fileID uuid.UUID) (*fileModel.FileInfoModel, error) {
	var info fileModel.FileInfoModel
	err := s.DB.
		Where("file_info_id = ?", fileID).
		First(&info).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resperr.FileNotFound
		}
		return nil, resperr.InternalServerError
	}
	return &info, nil
}

// Paths resolves many file ids into storage paths, keyed by id.
func (s *RegistryService) Paths(fileIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(fileIDs))
	if len(fileIDs) == 0 {
		return out, nil
	}
	var infos []fileModel.FileInfoModel
	err := s.DB.
		Where("file_info_id IN ?", fileIDs).
		Find(&infos).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	for _, info := range infos {
		out[info.FileInfoID] = info.FileInfoPath
	}
	return out, nil
}
