package models

import "time"

// Score represents a row in the score table
type Score struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	Score     float64   `json:"score" db:"score"`
	ExamTime  time.Time `json:"examTime" db:"exam_time"`
	CreatedAt time.Time `json:"createTime" db:"create_time"`
}

// TableName returns the table name for the Score model
func (Score) TableName() string {
	return "score"
}

// ScoreDetail is the joined score row returned to clients: score plus the
// student number, student real name and course name resolved from the
// student, sys_user and course tables.
type ScoreDetail struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	StudentNo   string    `json:"studentNo" db:"student_no"`
	StudentName string    `json:"studentName" db:"student_name"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	CourseName  string    `json:"courseName" db:"course_name"`
	Score       float64   `json:"score" db:"score"`
	ExamTime    time.Time `json:"examTime" db:"exam_time"`
}

// SegmentCounts holds per-band head counts for one course's scores
type SegmentCounts struct {
	Below60    int64 `json:"count0To60" db:"count_0_60"`
	From60To80 int64 `json:"count60To80" db:"count_60_80"`
	From80Up   int64 `json:"count80To100" db:"count_80_100"`
}
