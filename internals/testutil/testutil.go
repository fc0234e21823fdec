// file: internals/testutil/testutil.go
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"classmanager_backend/internals/constants"
	academicModel "classmanager_backend/internals/features/academics/model"
	classModel "classmanager_backend/internals/features/classes/model"
	fileModel "classmanager_backend/internals/features/files/model"
	groupModel "classmanager_backend/internals/features/groups/model"
	homeworkModel "classmanager_backend/internals/features/homework/model"
	msgModel "classmanager_backend/internals/features/messages/model"
	userModel "classmanager_backend/internals/features/users/model"
)

// OpenDB builds an isolated in-memory database with the full schema.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&userModel.UserModel{},
		&classModel.ClassModel{},
		&classModel.ClassMemberModel{},
		&classModel.ClassApplicationModel{},
		&groupModel.GroupModel{},
		&groupModel.GroupMemberModel{},
		&homeworkModel.HomeworkModel{},
		&homeworkModel.HomeworkAssignModel{},
		&homeworkModel.HomeworkAnswerStatusModel{},
		&homeworkModel.HomeworkAnswerModel{},
		&homeworkModel.HomeworkEvaluateModel{},
		&homeworkModel.HomeworkAnswerCheckModel{},
		&msgModel.MessageModel{},
		&msgModel.MessageContentModel{},
		&fileModel.FileInfoModel{},
		&fileModel.FileReferenceModel{},
		&academicModel.SubjectModel{},
		&academicModel.SysConfigModel{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// SeedUser inserts a user.
func SeedUser(t *testing.T, db *gorm.DB, openID string) *userModel.UserModel {
	t.Helper()
	user := userModel.UserModel{UserOpenID: openID}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

// SeedClass inserts a class.
func SeedClass(t *testing.T, db *gorm.DB, code int64, contactPhone string, needAudit bool) *classModel.ClassModel {
	t.Helper()
	class := classModel.ClassModel{
		ClassCode:         code,
		ClassGrade:        3,
		ClassNumber:       2,
		ClassContactPhone: contactPhone,
		ClassNeedAudit:    needAudit,
	}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("seed class: %v", err)
	}
	if !needAudit {
		// gorm substitutes the column default (true) for zero-valued fields
		// on create, so persist false explicitly
		if err := db.Model(&class).UpdateColumn("class_need_audit", false).Error; err != nil {
			t.Fatalf("seed class: %v", err)
		}
		class.ClassNeedAudit = false
	}
	return &class
}

// SeedSubject inserts a subject.
func SeedSubject(t *testing.T, db *gorm.DB, name string) *academicModel.SubjectModel {
	t.Helper()
	subject := academicModel.SubjectModel{SubjectName: name}
	if err := db.Create(&subject).Error; err != nil {
		t.Fatalf("seed subject: %v", err)
	}
	return &subject
}

// SeedFamilyRelation inserts one relation entry into sys configs.
func SeedFamilyRelation(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()
	entry := academicModel.SysConfigModel{
		SysConfigType:  constants.ConfigFamilyRelation,
		SysConfigKey:   key,
		SysConfigValue: value,
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("seed family relation: %v", err)
	}
}

// SeedMember inserts an active class membership.
func SeedMember(t *testing.T, db *gorm.DB, classID, userID uuid.UUID, name, role string, subjectID *uuid.UUID) *classModel.ClassMemberModel {
	t.Helper()
	member := classModel.ClassMemberModel{
		ClassMemberClassID:   classID,
		ClassMemberUserID:    userID,
		ClassMemberName:      name,
		ClassMemberRole:      role,
		ClassMemberSubjectID: subjectID,
		ClassMemberTelephone: "13800000000",
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return &member
}

// SeedStudent inserts a student membership under its own fresh user.
func SeedStudent(t *testing.T, db *gorm.DB, classID uuid.UUID, name string) *classModel.ClassMemberModel {
	t.Helper()
	user := SeedUser(t, db, "openid-"+name+"-"+uuid.NewString()[:8])
	return SeedMember(t, db, classID, user.UserID, name, constants.RoleStudent, nil)
}

// SeedFile inserts a registered file of a kind.
func SeedFile(t *testing.T, db *gorm.DB, uploaderID uuid.UUID, category string) *fileModel.FileInfoModel {
	t.Helper()
	info := fileModel.FileInfoModel{
		FileInfoUploaderID: uploaderID,
		FileInfoCategory:   category,
		FileInfoPath:       "objects/" + uuid.NewString(),
	}
	if err := db.Create(&info).Error; err != nil {
		t.Fatalf("seed file: %v", err)
	}
	return &info
}
