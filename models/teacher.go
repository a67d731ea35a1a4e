package models

// Teacher represents a row in the teacher table, linked to sys_user by UserID
type Teacher struct {
	ID         int64  `json:"id" db:"id"`
	UserID     int64  `json:"userId" db:"user_id"`
	TeacherNo  string `json:"teacherNo" db:"teacher_no"`
	Title      string `json:"title" db:"title"`
	Department string `json:"department" db:"department"`
	Phone      string `json:"phone" db:"phone"`
}

// TableName returns the table name for the Teacher model
func (Teacher) TableName() string {
	return "teacher"
}
