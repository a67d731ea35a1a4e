package models

// Student represents a row in the student table, linked to sys_user by UserID
type Student struct {
	ID        int64  `json:"id" db:"id"`
	UserID    int64  `json:"userId" db:"user_id"`
	StudentNo string `json:"studentNo" db:"student_no"`
	ClassName string `json:"className" db:"class_name"`
	Gender    string `json:"gender" db:"gender"`
	Phone     string `json:"phone" db:"phone"`
}

// TableName returns the table name for the Student model
func (Student) TableName() string {
	return "student"
}

// StudentOption is the joined student row used to populate selection lists
// (student plus the real name from sys_user).
type StudentOption struct {
	ID          int64  `json:"id" db:"id"`
	StudentNo   string `json:"studentNo" db:"student_no"`
	StudentName string `json:"studentName" db:"student_name"`
}
