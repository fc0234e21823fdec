// file: internals/features/users/model/user_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is the mini-program identity. Created on first login, never hard
// deleted; user_is_deleted disables the account.
type UserModel struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`

	UserOpenID    string `gorm:"uniqueIndex:uq_users_openid;not null;column:user_openid" json:"user_openid"`
	UserWxName    string `gorm:"column:user_wx_name" json:"user_wx_name"`
	UserAvatar    string `gorm:"column:user_avatar" json:"user_avatar"`
	UserTelephone string `gorm:"size:11;column:user_telephone" json:"user_telephone"`

	// the membership whose class context the user currently acts in
	UserCurrentMemberID *uuid.UUID `gorm:"column:user_current_member_id" json:"user_current_member_id"`

	UserIsDeleted bool      `gorm:"not null;default:false;column:user_is_deleted" json:"user_is_deleted"`
	UserCreatedAt time.Time `gorm:"not null;autoCreateTime;column:user_created_at" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:user_updated_at" json:"user_updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
