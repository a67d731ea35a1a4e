package models

// Course represents a row in the course table
type Course struct {
	ID         int64   `json:"id" db:"id"`
	CourseCode string  `json:"courseCode" db:"course_code"`
	CourseName string  `json:"courseName" db:"course_name"`
	TeacherID  int64   `json:"teacherId" db:"teacher_id"`
	Credit     float64 `json:"credit" db:"credit"`
}

// TableName returns the table name for the Course model
func (Course) TableName() string {
	return "course"
}

// OwnedBy reports whether the course belongs to the given teacher
func (c *Course) OwnedBy(teacherID int64) bool {
	return c.TeacherID == teacherID
}
