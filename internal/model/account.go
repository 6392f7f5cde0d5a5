package model

import "time"

// Role is the caller's role carried in every credential.
type Role string

const (
	RoleStudent    Role = "student"
	RoleClassRep   Role = "classRep"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleClassRep, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// In reports whether r is any of roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// Student is a registered learner. Promoted class representatives keep their
// row here with UserRole set to classRep.
type Student struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	Email            string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash     string     `json:"-" gorm:"column:password;size:255;not null"`
	FirstName        string     `json:"first_name" gorm:"size:100;not null"`
	LastName         string     `json:"last_name" gorm:"size:100;not null"`
	CourseID         uint       `json:"course_id" gorm:"index;not null"`
	Year             int        `json:"year" gorm:"not null"`
	Semester         int        `json:"semester" gorm:"not null"`
	Gender           string     `json:"gender" gorm:"size:20"`
	UserRole         Role       `json:"user_role" gorm:"size:20;not null;default:student;index"`
	ResetToken       *string    `json:"-" gorm:"size:64;index"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`

	// Populated by joins only.
	CourseName string `json:"course_name,omitempty" gorm:"->;-:migration"`
}

// ClassRep mirrors the profile of a promoted student.
type ClassRep struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StudentID uint      `json:"student_id" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName string    `json:"first_name" gorm:"size:100;not null"`
	LastName  string    `json:"last_name" gorm:"size:100;not null"`
	CourseID  uint      `json:"course_id" gorm:"index;not null"`
	Year      int       `json:"year"`
	Semester  int       `json:"semester"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the default table name.
func (ClassRep) TableName() string { return "class_representatives" }

// Admin manages the course catalogue. Admins have no course affiliation.
type Admin struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"`
	FirstName    string    `json:"first_name" gorm:"size:100;not null"`
	LastName     string    `json:"last_name" gorm:"size:100;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// StudentProfile holds the columns a student or class representative may change.
type StudentProfile struct {
	FirstName string
	LastName  string
	CourseID  uint
	Year      int
	Semester  int
}

// AdminProfile holds the columns an admin may change.
type AdminProfile struct {
	FirstName string
	LastName  string
}

// GenderCounts summarises the student body.
type GenderCounts struct {
	Total  int64 `json:"totalStudents"`
	Female int64 `json:"totalFemaleStudents"`
	Male   int64 `json:"totalMaleStudents"`
}
