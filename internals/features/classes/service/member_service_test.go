// file: internals/features/classes/service/member_service_test.go
package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmanager_backend/internals/constants"
	classModel "classmanager_backend/internals/features/classes/model"
	userModel "classmanager_backend/internals/features/users/model"
	"classmanager_backend/internals/resperr"
	"classmanager_backend/internals/testutil"
)

func TestHeadteacherCannotBeDeleted(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewMemberService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	headUser := testutil.SeedUser(t, db, "head-1")
	head := testutil.SeedMember(t, db, class.ClassID, headUser.UserID, "Mr. Wang", constants.RoleHeadteacher, nil)

	err := svc.DeleteMember(head.ClassMemberID, head.ClassMemberRole, class.ClassID, head.ClassMemberID)
	assert.True(t, resperr.HeadteacherDelete.Is(err))
}

func TestStudentMayOnlyDeleteSelf(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewMemberService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	a := testutil.SeedStudent(t, db, class.ClassID, "Xiao Ming")
	b := testutil.SeedStudent(t, db, class.ClassID, "Xiao Hong")

	err := svc.DeleteMember(a.ClassMemberID, a.ClassMemberRole, class.ClassID, b.ClassMemberID)
	assert.True(t, resperr.AuthorizationDenied.Is(err))

	require.NoError(t, svc.DeleteMember(a.ClassMemberID, a.ClassMemberRole, class.ClassID, a.ClassMemberID))

	var fresh classModel.ClassMemberModel
	require.NoError(t, db.Where("class_member_id = ?", a.ClassMemberID).First(&fresh).Error)
	assert.True(t, fresh.ClassMemberIsDeleted)
}

func TestDeleteMemberRepointsCurrent(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewMemberService(db)
	classA := testutil.SeedClass(t, db, 100001, "13912345678", true)
	classB := testutil.SeedClass(t, db, 100002, "13987654321", true)
	user := testutil.SeedUser(t, db, "parent-1")
	first := testutil.SeedMember(t, db, classA.ClassID, user.UserID, "Xiao Ming", constants.RoleStudent, nil)
	second := testutil.SeedMember(t, db, classB.ClassID, user.UserID, "Xiao Ming B", constants.RoleStudent, nil)
	require.NoError(t, db.Model(&userModel.UserModel{}).
		Where("user_id = ?", user.UserID).
		Update("user_current_member_id", first.ClassMemberID).Error)

	require.NoError(t, svc.DeleteMember(first.ClassMemberID, first.ClassMemberRole, classA.ClassID, first.ClassMemberID))

	var fresh userModel.UserModel
	require.NoError(t, db.Where("user_id = ?", user.UserID).First(&fresh).Error)
	require.NotNil(t, fresh.UserCurrentMemberID)
	assert.Equal(t, second.ClassMemberID, *fresh.UserCurrentMemberID)
}

func TestSwitchCurrentClass(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewMemberService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	user := testutil.SeedUser(t, db, "parent-1")
	member := testutil.SeedMember(t, db, class.ClassID, user.UserID, "Xiao Ming", constants.RoleStudent, nil)

	require.NoError(t, svc.SwitchCurrentClass(user.UserID, member.ClassMemberID))

	var fresh userModel.UserModel
	require.NoError(t, db.Where("user_id = ?", user.UserID).First(&fresh).Error)
	require.NotNil(t, fresh.UserCurrentMemberID)
	assert.Equal(t, member.ClassMemberID, *fresh.UserCurrentMemberID)

	// somebody else's membership is off limits
	stranger := testutil.SeedUser(t, db, "parent-2")
	err := svc.SwitchCurrentClass(stranger.UserID, member.ClassMemberID)
	assert.True(t, resperr.AuthorizationDenied.Is(err))
}

func TestUpdateMemberSubjectGuard(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewMemberService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	math := testutil.SeedSubject(t, db, "Math")
	english := testutil.SeedSubject(t, db, "English")

	headUser := testutil.SeedUser(t, db, "head-1")
	head := testutil.SeedMember(t, db, class.ClassID, headUser.UserID, "Mr. Wang", constants.RoleHeadteacher, &math.SubjectID)
	teacherUser := testutil.SeedUser(t, db, "teacher-1")
	teacher := testutil.SeedMember(t, db, class.ClassID, teacherUser.UserID, "Ms. Li", constants.RoleTeacher, &english.SubjectID)

	// moving the teacher onto the headteacher's subject collides
	err := svc.UpdateMember(head.ClassMemberID, head.ClassMemberRole, class.ClassID, teacher.ClassMemberID,
		MemberUpdate{SubjectID: &math.SubjectID})
	assert.True(t, resperr.TeacherExists.Is(err))
}

func TestJoinRequestsSplit(t *testing.T) {
	db := testutil.OpenDB(t)
	joinSvc := NewJoinService(db)
	svc := NewMemberService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)

	u1 := testutil.SeedUser(t, db, "parent-1")
	u2 := testutil.SeedUser(t, db, "parent-2")
	require.NoError(t, joinSvc.StudentJoin(u1.UserID, "Xiao Ming", "1", "13800000001", class))
	require.NoError(t, joinSvc.StudentJoin(u2.UserID, "Xiao Hong", "1", "13800000002", class))

	headUser := testutil.SeedUser(t, db, "head-1")
	head := testutil.SeedMember(t, db, class.ClassID, headUser.UserID, "Mr. Wang", constants.RoleHeadteacher, nil)

	var apply classModel.ClassApplicationModel
	require.NoError(t, db.Where("class_application_proposer_name = ?", "Xiao Hong").First(&apply).Error)
	require.NoError(t, joinSvc.Review(head.ClassMemberID, head.ClassMemberName, class.ClassID, apply.ClassApplicationID, false))

	reviewing, reviewed, err := svc.JoinRequests(class.ClassID)
	require.NoError(t, err)
	assert.Len(t, reviewing, 1)
	assert.Len(t, reviewed, 1)
	assert.Equal(t, "Xiao Ming", reviewing[0].ClassApplicationProposerName)
	assert.Equal(t, "Xiao Hong", reviewed[0].ClassApplicationProposerName)
}
