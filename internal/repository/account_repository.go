package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eduhub/internal/model"
)

// AccountRepository defines persistence for students, class representatives and admins.
type AccountRepository interface {
	EmailTaken(ctx context.Context, email string) (bool, error)

	CreateStudent(ctx context.Context, student *model.Student) error
	FindStudentByID(ctx context.Context, id uint) (*model.Student, error)
	FindStudentByEmail(ctx context.Context, email string) (*model.Student, error)
	ListStudents(ctx context.Context) ([]model.Student, error)
	CountStudents(ctx context.Context) (model.GenderCounts, error)
	ListClassReps(ctx context.Context) ([]model.Student, error)
	DeleteStudent(ctx context.Context, id uint) (int64, error)

	CreateAdmin(ctx context.Context, admin *model.Admin) error
	FindAdminByID(ctx context.Context, id uint) (*model.Admin, error)
	FindAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	DeleteAdmin(ctx context.Context, id uint) (int64, error)

	UpdateStudentProfile(ctx context.Context, id uint, p model.StudentProfile) (int64, error)
	UpdateAdminProfile(ctx context.Context, id uint, p model.AdminProfile) (int64, error)

	PromoteToClassRep(ctx context.Context, student *model.Student) error
	DemoteClassRep(ctx context.Context, studentID uint) (int64, error)

	UpdatePassword(ctx context.Context, studentID uint, hash string) error
	SetResetToken(ctx context.Context, studentID uint, token string, expiry time.Time) error
	FindStudentByResetToken(ctx context.Context, token string) (*model.Student, error)
	FindStudentByValidResetTokenForUpdate(ctx context.Context, token string, now time.Time) (*model.Student, error)
	ResetPassword(ctx context.Context, studentID uint, hash string) (int64, error)

	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo AccountRepository) error) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// EmailTaken reports whether a student or admin already uses email.
func (r *accountRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Student{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateStudent creates a new student.
func (r *accountRepository) CreateStudent(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

// FindStudentByID finds a student by ID with the course name joined in.
func (r *accountRepository) FindStudentByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	if err := r.studentsWithCourse(ctx).Where("s.id = ?", id).Take(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// FindStudentByEmail finds a student by email with the course name joined in.
func (r *accountRepository) FindStudentByEmail(ctx context.Context, email string) (*model.Student, error) {
	var student model.Student
	if err := r.studentsWithCourse(ctx).Where("s.email = ?", email).Take(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *accountRepository) studentsWithCourse(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Student{}).
		Table("students AS s").
		Select("s.*, c.course_name").
		Joins("LEFT JOIN courses c ON c.course_id = s.course_id")
}

// ListStudents lists every student, newest first.
func (r *accountRepository) ListStudents(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := r.studentsWithCourse(ctx).Order("s.id DESC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// CountStudents counts all students and those recorded as Female or Male.
func (r *accountRepository) CountStudents(ctx context.Context) (model.GenderCounts, error) {
	var counts model.GenderCounts
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN gender = ? THEN 1 ELSE 0 END), 0) AS female,
			COALESCE(SUM(CASE WHEN gender = ? THEN 1 ELSE 0 END), 0) AS male`, "Female", "Male").
		Scan(&counts).Error
	return counts, err
}

// ListClassReps lists students holding the classRep role, newest first.
func (r *accountRepository) ListClassReps(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := r.studentsWithCourse(ctx).
		Where("s.user_role = ?", model.RoleClassRep).
		Order("s.id DESC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// DeleteStudent removes a student and any class representative mirror.
func (r *accountRepository) DeleteStudent(ctx context.Context, id uint) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&model.ClassRep{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Student{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

// CreateAdmin creates a new admin.
func (r *accountRepository) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// FindAdminByID finds an admin by ID.
func (r *accountRepository) FindAdminByID(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindAdminByEmail finds an admin by email.
func (r *accountRepository) FindAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// DeleteAdmin removes an admin.
func (r *accountRepository) DeleteAdmin(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Admin{})
	return res.RowsAffected, res.Error
}

// UpdateStudentProfile writes the student-editable columns and, when the
// student is a class representative, the mirror row. The stored role decides,
// not the caller's credential.
func (r *accountRepository) UpdateStudentProfile(ctx context.Context, id uint, p model.StudentProfile) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Student{}).
			Where("id = ?", id).
			Updates(studentProfileColumns(p))
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return tx.Model(&model.ClassRep{}).
			Where("student_id = ?", id).
			Updates(studentProfileColumns(p)).Error
	})
	return affected, err
}

// PromoteToClassRep sets the classRep role and upserts the mirror row.
func (r *accountRepository) PromoteToClassRep(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Student{}).
			Where("id = ?", student.ID).
			Update("user_role", model.RoleClassRep).Error; err != nil {
			return err
		}
		rep := model.ClassRep{
			StudentID: student.ID,
			Email:     student.Email,
			FirstName: student.FirstName,
			LastName:  student.LastName,
			CourseID:  student.CourseID,
			Year:      student.Year,
			Semester:  student.Semester,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "course_id", "year", "semester"}),
		}).Create(&rep).Error
	})
}

// DemoteClassRep drops the mirror row and resets the student's role.
func (r *accountRepository) DemoteClassRep(ctx context.Context, studentID uint) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&model.ClassRep{}).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Student{}).
			Where("id = ? AND user_role = ?", studentID, model.RoleClassRep).
			Update("user_role", model.RoleStudent)
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

// UpdatePassword stores a new password hash.
func (r *accountRepository) UpdatePassword(ctx context.Context, studentID uint, hash string) error {
	return r.db.WithContext(ctx).Model(&model.Student{}).
		Where("id = ?", studentID).
		Update("password", hash).Error
}

// SetResetToken stores a reset token and its expiry.
func (r *accountRepository) SetResetToken(ctx context.Context, studentID uint, token string, expiry time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Student{}).
		Where("id = ?", studentID).
		Updates(map[string]interface{}{
			"reset_token":        token,
			"reset_token_expiry": expiry,
		}).Error
}

// FindStudentByResetToken matches the token value only; expiry is not checked.
func (r *accountRepository) FindStudentByResetToken(ctx context.Context, token string) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).Where("reset_token = ?", token).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// FindStudentByValidResetTokenForUpdate locks the student holding an unexpired token.
func (r *accountRepository) FindStudentByValidResetTokenForUpdate(ctx context.Context, token string, now time.Time) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reset_token = ? AND reset_token_expiry > ?", token, now).
		First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// ResetPassword stores the new hash and clears both token columns in one statement.
func (r *accountRepository) ResetPassword(ctx context.Context, studentID uint, hash string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("id = ?", studentID).
		Updates(map[string]interface{}{
			"password":           hash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})
	return res.RowsAffected, res.Error
}

// WithTransaction executes a function within a database transaction.
func (r *accountRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo AccountRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &accountRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
