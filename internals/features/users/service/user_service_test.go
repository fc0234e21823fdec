// file: internals/features/users/service/user_service_test.go
package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmanager_backend/internals/configs"
	"classmanager_backend/internals/constants"
	"classmanager_backend/internals/features/users/model"
	"classmanager_backend/internals/resperr"
	"classmanager_backend/internals/testutil"
)

func TestLoginRegistersOnFirstVisit(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewUserService(db)

	token, user, err := svc.Login("wx-open-id-1", "Xiao Ming Mom", "https://cdn/avatar.png")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "Xiao Ming Mom", user.UserWxName)

	// a second login with the same open id reuses the row
	_, again, err := svc.Login("wx-open-id-1", "ignored", "ignored")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, again.UserID)

	var count int64
	require.NoError(t, db.Model(&model.UserModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLoginTokenClaims(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewUserService(db)

	token, user, err := svc.Login("wx-open-id-1", "name", "")
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	}, jwt.WithAudience(configs.JWTAudience))
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, user.UserID.String(), claims.Subject)
}

func TestLoginDisabledUser(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewUserService(db)

	_, user, err := svc.Login("wx-open-id-1", "name", "")
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.UserModel{}).
		Where("user_id = ?", user.UserID).
		Update("user_is_deleted", true).Error)

	_, _, err = svc.Login("wx-open-id-1", "name", "")
	assert.True(t, resperr.UserDisabled.Is(err))
}

func TestUpdateProfileKeepsNilFields(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewUserService(db)
	_, user, err := svc.Login("wx-open-id-1", "original", "avatar-1")
	require.NoError(t, err)

	newName := "renamed"
	require.NoError(t, svc.UpdateProfile(user.UserID, &newName, nil, nil))

	profile, err := svc.Profile(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", profile.WxName)
	assert.Equal(t, "avatar-1", profile.Avatar)
}

func TestProfileExpandsCurrentMembership(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewUserService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", false)
	user := testutil.SeedUser(t, db, "wx-open-id-1")
	member := testutil.SeedMember(t, db, class.ClassID, user.UserID, "Xiao Ming", constants.RoleStudent, nil)
	require.NoError(t, db.Model(&model.UserModel{}).
		Where("user_id = ?", user.UserID).
		Update("user_current_member_id", member.ClassMemberID).Error)

	profile, err := svc.Profile(user.UserID)
	require.NoError(t, err)
	require.NotNil(t, profile.Current)
	assert.Equal(t, class.ClassID, profile.Current.ClassID)
	assert.Equal(t, "Xiao Ming", profile.Current.Name)
	assert.True(t, profile.Current.Current)
}

func TestProfileToleratesStaleCurrentPointer(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewUserService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", false)
	user := testutil.SeedUser(t, db, "wx-open-id-1")
	member := testutil.SeedMember(t, db, class.ClassID, user.UserID, "Xiao Ming", constants.RoleStudent, nil)
	require.NoError(t, db.Model(&model.UserModel{}).
		Where("user_id = ?", user.UserID).
		Update("user_current_member_id", member.ClassMemberID).Error)
	require.NoError(t, db.Model(member).
		Update("class_member_is_deleted", true).Error)

	profile, err := svc.Profile(user.UserID)
	require.NoError(t, err)
	assert.Nil(t, profile.Current)
}

func TestMyClassesMarksCurrent(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewUserService(db)
	first := testutil.SeedClass(t, db, 100001, "13912345678", false)
	second := testutil.SeedClass(t, db, 100002, "13987654321", false)
	user := testutil.SeedUser(t, db, "wx-open-id-1")
	m1 := testutil.SeedMember(t, db, first.ClassID, user.UserID, "Xiao Ming", constants.RoleStudent, nil)
	testutil.SeedMember(t, db, second.ClassID, user.UserID, "Xiao Ming", constants.RoleStudent, nil)
	require.NoError(t, db.Model(&model.UserModel{}).
		Where("user_id = ?", user.UserID).
		Update("user_current_member_id", m1.ClassMemberID).Error)

	views, err := svc.MyClasses(user.UserID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	currents := 0
	for _, v := range views {
		if v.Current {
			currents++
			assert.Equal(t, first.ClassID, v.ClassID)
		}
	}
	assert.Equal(t, 1, currents)
}

func TestIsTeachingSomewhere(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewUserService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", false)
	subject := testutil.SeedSubject(t, db, "Math")

	student := testutil.SeedUser(t, db, "student")
	testutil.SeedMember(t, db, class.ClassID, student.UserID, "Xiao Ming", constants.RoleStudent, nil)
	teaching, err := svc.IsTeachingSomewhere(student.UserID)
	require.NoError(t, err)
	assert.False(t, teaching)

	teacher := testutil.SeedUser(t, db, "teacher")
	testutil.SeedMember(t, db, class.ClassID, teacher.UserID, "Mr. Wang", constants.RoleTeacher, &subject.SubjectID)
	teaching, err = svc.IsTeachingSomewhere(teacher.UserID)
	require.NoError(t, err)
	assert.True(t, teaching)
}
