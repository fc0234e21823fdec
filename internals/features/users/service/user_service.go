// file: internals/features/users/service/user_service.go
package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classmanager_backend/internals/configs"
	"classmanager_backend/internals/constants"
	classModel "classmanager_backend/internals/features/classes/model"
	"classmanager_backend/internals/features/users/model"
	"classmanager_backend/internals/resperr"
)

// UserService handles identity: first-login registration, token issuance,
// profile edits and the cross-class membership overview.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Login finds or creates the user bound to an external open id and issues
// an access token for it.
func (s *UserService) Login(openID, wxName, avatar string) (string, *model.UserModel, error) {
	if openID == "" {
		return "", nil, resperr.MissingParams
	}
	var user model.UserModel
	err := s.DB.
		Where("user_openid = ?", openID).
		First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.UserModel{
			UserOpenID: openID,
			UserWxName: wxName,
			UserAvatar: avatar,
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return "", nil, resperr.InternalServerError
		}
	case err != nil:
		return "", nil, resperr.InternalServerError
	}
	if user.UserIsDeleted {
		return "", nil, resperr.UserDisabled
	}

	token, err := s.issueToken(user.UserID)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

func (s *UserService) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Audience:  jwt.ClaimStrings{configs.JWTAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(7 * 24 * time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return "", resperr.InternalServerError
	}
	return signed, nil
}

// UpdateProfile edits the user's own mutable fields. Nil means keep.
func (s *UserService) UpdateProfile(userID uuid.UUID, wxName, avatar, telephone *string) error {
	updates := map[string]interface{}{
		"user_updated_at": time.Now(),
	}
	if wxName != nil {
		updates["user_wx_name"] = *wxName
	}
	if avatar != nil {
		updates["user_avatar"] = *avatar
	}
	if telephone != nil {
		updates["user_telephone"] = *telephone
	}
	if err := s.DB.Model(&model.UserModel{}).
		Where("user_id = ?", userID).
		Updates(updates).Error; err != nil {
		return resperr.InternalServerError
	}
	return nil
}

// MembershipView is one class the user belongs to, as seen from the profile.
type MembershipView struct {
	MemberID  uuid.UUID  `json:"member_id"`
	ClassID   uuid.UUID  `json:"class_id"`
	ClassCode int64      `json:"class_code"`
	Grade     int        `json:"grade"`
	Number    int        `json:"number"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	SubjectID *uuid.UUID `json:"subject_id"`
	Current   bool       `json:"current"`
}

// MyClasses lists the user's active memberships with their class context.
func (s *UserService) MyClasses(userID uuid.UUID) ([]MembershipView, error) {
	var user model.UserModel
	if err := s.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, resperr.InternalServerError
	}

	var members []classModel.ClassMemberModel
	err := s.DB.
		Where("class_member_user_id = ?", userID).
		Where("class_member_is_deleted = ?", false).
		Order("class_member_created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	if len(members) == 0 {
		return []MembershipView{}, nil
	}

	classIDs := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		classIDs = append(classIDs, m.ClassMemberClassID)
	}
	var classes []classModel.ClassModel
	err = s.DB.
		Where("class_id IN ?", classIDs).
		Find(&classes).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	byID := make(map[uuid.UUID]classModel.ClassModel, len(classes))
	for _, c := range classes {
		byID[c.ClassID] = c
	}

	views := make([]MembershipView, 0, len(members))
	for _, m := range members {
		class := byID[m.ClassMemberClassID]
		views = append(views, MembershipView{
			MemberID:  m.ClassMemberID,
			ClassID:   m.ClassMemberClassID,
			ClassCode: class.ClassCode,
			Grade:     class.ClassGrade,
			Number:    class.ClassNumber,
			Name:      m.ClassMemberName,
			Role:      m.ClassMemberRole,
			SubjectID: m.ClassMemberSubjectID,
			Current:   user.UserCurrentMemberID != nil && *user.UserCurrentMemberID == m.ClassMemberID,
		})
	}
	return views, nil
}

// Profile is the authenticated user's own view, with the current membership
// expanded when one is set.
type Profile struct {
	UserID    uuid.UUID       `json:"user_id"`
	WxName    string          `json:"wx_name"`
	Avatar    string          `json:"avatar"`
	Telephone string          `json:"telephone"`
	Current   *MembershipView `json:"current"`
}

func (s *UserService) Profile(userID uuid.UUID) (*Profile, error) {
	var user model.UserModel
	err := s.DB.
		Where("user_id = ?", userID).
		Where("user_is_deleted = ?", false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resperr.UserNotFound
		}
		return nil, resperr.InternalServerError
	}

	profile := Profile{
		UserID:    user.UserID,
		WxName:    user.UserWxName,
		Avatar:    user.UserAvatar,
		Telephone: user.UserTelephone,
	}
	if user.UserCurrentMemberID == nil {
		return &profile, nil
	}

	var member classModel.ClassMemberModel
	err = s.DB.
		Where("class_member_id = ?", *user.UserCurrentMemberID).
		Where("class_member_is_deleted = ?", false).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// stale pointer after a removal that raced the repoint
		return &profile, nil
	}
	if err != nil {
		return nil, resperr.InternalServerError
	}
	var class classModel.ClassModel
	if err := s.DB.Where("class_id = ?", member.ClassMemberClassID).First(&class).Error; err != nil {
		return nil, resperr.InternalServerError
	}
	profile.Current = &MembershipView{
		MemberID:  member.ClassMemberID,
		ClassID:   member.ClassMemberClassID,
		ClassCode: class.ClassCode,
		Grade:     class.ClassGrade,
		Number:    class.ClassNumber,
		Name:      member.ClassMemberName,
		Role:      member.ClassMemberRole,
		SubjectID: member.ClassMemberSubjectID,
		Current:   true,
	}
	return &profile, nil
}

// IsTeachingSomewhere reports whether the user holds any active teaching
// membership, for client-side join-flow branching.
func (s *UserService) IsTeachingSomewhere(userID uuid.UUID) (bool, error) {
	var count int64
	err := s.DB.Model(&classModel.ClassMemberModel{}).
		Where("class_member_user_id = ?", userID).
		Where("class_member_role IN ?", []string{constants.RoleHeadteacher, constants.RoleTeacher}).
		Where("class_member_is_deleted = ?", false).
		Count(&count).Error
	if err != nil {
		return false, resperr.InternalServerError
	}
	return count > 0, nil
}
