package model

import "time"

// Course is a programme of study, e.g. "Computer Science".
type Course struct {
	ID        uint      `json:"course_id" gorm:"column:course_id;primaryKey"`
	Name      string    `json:"course_name" gorm:"column:course_name;uniqueIndex;size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Unit is a single taught module within a course, year and semester.
type Unit struct {
	ID       uint   `json:"unit_id" gorm:"column:unit_id;primaryKey"`
	UnitCode string `json:"unit_code" gorm:"size:50;not null"`
	UnitName string `json:"unit_name" gorm:"size:255;not null"`
	Lecturer string `json:"lecturer" gorm:"size:255"`
	CourseID uint   `json:"course_id" gorm:"index:idx_units_scope;not null"`
	Year     int    `json:"year" gorm:"index:idx_units_scope;not null"`
	Semester int    `json:"semester" gorm:"index:idx_units_scope;not null"`

	CourseName string `json:"course_name,omitempty" gorm:"->;-:migration"`
}

// Resource categories accepted on upload.
const (
	ResourceNotes  = "Notes"
	ResourcePapers = "Papers"
	ResourceTasks  = "Tasks"
)

// ValidResourceType reports whether t is an accepted resource category.
func ValidResourceType(t string) bool {
	return t == ResourceNotes || t == ResourcePapers || t == ResourceTasks
}

// Resource is an uploaded file attached to a unit.
type Resource struct {
	ID           uint      `json:"resource_id" gorm:"column:resource_id;primaryKey"`
	UnitID       uint      `json:"unit_id" gorm:"index;not null"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	Description  string    `json:"description" gorm:"type:text"`
	Link         string    `json:"link" gorm:"size:1024;not null"`
	FileType     string    `json:"file_type" gorm:"size:20"`
	ResourceType string    `json:"resource_type" gorm:"size:20;not null"`
	UploadDate   time.Time `json:"upload_date" gorm:"autoCreateTime"`
}

// Notification is a course-wide announcement for a year and semester.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CourseID  uint      `json:"course_id" gorm:"index:idx_notifications_scope;not null"`
	Year      int       `json:"year" gorm:"index:idx_notifications_scope;not null"`
	Semester  int       `json:"semester" gorm:"index:idx_notifications_scope;not null"`
	Message   string    `json:"notification" gorm:"column:notification;type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}
