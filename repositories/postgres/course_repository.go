package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/repositories"
)

// CourseRepository implements the repositories.CourseRepository interface
type CourseRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *DB, logger *zap.Logger) repositories.CourseRepository {
	return &CourseRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, course_code, course_name, teacher_id, credit
		FROM course
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	course := &models.Course{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.CourseCode,
		&course.CourseName,
		&course.TeacherID,
		&course.Credit,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("course %d: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return course, nil
}

// ListByTeacherID retrieves the courses owned by a teacher
func (r *CourseRepository) ListByTeacherID(ctx context.Context, teacherID int64) ([]*models.Course, error) {
	query := `
		SELECT id, course_code, course_name, teacher_id, credit
		FROM course
		WHERE teacher_id = $1
		ORDER BY course_code
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course := &models.Course{}
		err := rows.Scan(
			&course.ID,
			&course.CourseCode,
			&course.CourseName,
			&course.TeacherID,
			&course.Credit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}
