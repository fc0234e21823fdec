// file: internals/features/groups/service/group_service_test.go
package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmanager_backend/internals/features/groups/model"
	"classmanager_backend/internals/resperr"
	"classmanager_backend/internals/testutil"
)

func TestCreateGroup(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewGroupService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	testutil.SeedStudent(t, db, class.ClassID, "Xiao Ming")
	testutil.SeedStudent(t, db, class.ClassID, "Xiao Hong")

	group, err := svc.Create(class.ClassID, "Group A", []string{"Xiao Ming", "Xiao Hong"})
	require.NoError(t, err)

	names, err := svc.MemberNames(group.GroupID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Xiao Hong", "Xiao Ming"}, names)
}

func TestCreateGroupDuplicateName(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewGroupService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	testutil.SeedStudent(t, db, class.ClassID, "Xiao Ming")

	_, err := svc.Create(class.ClassID, "Group A", []string{"Xiao Ming"})
	require.NoError(t, err)
	_, err = svc.Create(class.ClassID, "Group A", []string{"Xiao Ming"})
	assert.True(t, resperr.GroupExists.Is(err))
}

func TestCreateGroupUnknownStudent(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewGroupService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	testutil.SeedStudent(t, db, class.ClassID, "Xiao Ming")

	_, err := svc.Create(class.ClassID, "Group A", []string{"Xiao Ming", "Nobody"})
	assert.True(t, resperr.InvalidParams.Is(err))
}

func TestUpdateGroupReconcilesMembers(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewGroupService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	testutil.SeedStudent(t, db, class.ClassID, "Xiao Ming")
	testutil.SeedStudent(t, db, class.ClassID, "Xiao Hong")
	testutil.SeedStudent(t, db, class.ClassID, "Xiao Gang")

	group, err := svc.Create(class.ClassID, "Group A", []string{"Xiao Ming", "Xiao Hong"})
	require.NoError(t, err)

	// drop Xiao Hong, add Xiao Gang, rename
	require.NoError(t, svc.Update(class.ClassID, group.GroupID, "Group B", []string{"Xiao Ming", "Xiao Gang"}))

	view, err := svc.Get(class.ClassID, group.GroupID)
	require.NoError(t, err)
	assert.Equal(t, "Group B", view.Name)
	assert.Equal(t, []string{"Xiao Gang", "Xiao Ming"}, view.StudentNames)
}

func TestDeleteGroupCascades(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewGroupService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	testutil.SeedStudent(t, db, class.ClassID, "Xiao Ming")

	group, err := svc.Create(class.ClassID, "Group A", []string{"Xiao Ming"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(class.ClassID, group.GroupID))

	var members int64
	require.NoError(t, db.Model(&model.GroupMemberModel{}).Count(&members).Error)
	assert.Zero(t, members)

	err = svc.Delete(class.ClassID, group.GroupID)
	assert.True(t, resperr.GroupNotFound.Is(err))
}
