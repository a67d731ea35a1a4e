package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/repositories"
)

// StudentRepository implements the repositories.StudentRepository interface
type StudentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *DB, logger *zap.Logger) repositories.StudentRepository {
	return &StudentRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new student row and fills in the assigned ID
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO student (user_id, student_no, class_name, gender, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		student.UserID,
		student.StudentNo,
		student.ClassName,
		student.Gender,
		student.Phone,
	).Scan(&student.ID)

	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}

	r.logger.Debug("student created",
		zap.Int64("id", student.ID),
		zap.String("student_no", student.StudentNo))
	return nil
}

// GetByUserID retrieves the student linked to a sys_user row
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	query := `
		SELECT id, user_id, student_no, class_name, gender, phone
		FROM student
		WHERE user_id = $1
	`

	executor := GetExecutor(ctx, r.db)
	student := &models.Student{}

	err := executor.QueryRowContext(ctx, query, userID).Scan(
		&student.ID,
		&student.UserID,
		&student.StudentNo,
		&student.ClassName,
		&student.Gender,
		&student.Phone,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("student for user %d: %w", userID, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return student, nil
}

// GetByStudentNo retrieves a student by student number
func (r *StudentRepository) GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error) {
	query := `
		SELECT id, user_id, student_no, class_name, gender, phone
		FROM student
		WHERE student_no = $1
	`

	executor := GetExecutor(ctx, r.db)
	student := &models.Student{}

	err := executor.QueryRowContext(ctx, query, studentNo).Scan(
		&student.ID,
		&student.UserID,
		&student.StudentNo,
		&student.ClassName,
		&student.Gender,
		&student.Phone,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("student %q: %w", studentNo, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return student, nil
}

// ListByCourseID retrieves the students enrolled in a course
func (r *StudentRepository) ListByCourseID(ctx context.Context, courseID int64) ([]*models.Student, error) {
	query := `
		SELECT s.id, s.user_id, s.student_no, s.class_name, s.gender, s.phone
		FROM student s
		JOIN student_course sc ON sc.student_id = s.id
		WHERE sc.course_id = $1
		ORDER BY s.student_no
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// ListAll retrieves every student
func (r *StudentRepository) ListAll(ctx context.Context) ([]*models.Student, error) {
	query := `
		SELECT id, user_id, student_no, class_name, gender, phone
		FROM student
		ORDER BY student_no
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// ListOptionsByCourseID retrieves selection options for the students
// enrolled in a course
func (r *StudentRepository) ListOptionsByCourseID(ctx context.Context, courseID int64) ([]*models.StudentOption, error) {
	query := `
		SELECT s.id, s.student_no, u.real_name
		FROM student s
		JOIN sys_user u ON u.id = s.user_id
		JOIN student_course sc ON sc.student_id = s.id
		WHERE sc.course_id = $1
		ORDER BY s.student_no
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query student options: %w", err)
	}
	defer rows.Close()

	return scanStudentOptions(rows)
}

// ListAllOptions retrieves selection options for every student
func (r *StudentRepository) ListAllOptions(ctx context.Context) ([]*models.StudentOption, error) {
	query := `
		SELECT s.id, s.student_no, u.real_name
		FROM student s
		JOIN sys_user u ON u.id = s.user_id
		ORDER BY s.student_no
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query student options: %w", err)
	}
	defer rows.Close()

	return scanStudentOptions(rows)
}

func scanStudents(rows *sql.Rows) ([]*models.Student, error) {
	var students []*models.Student
	for rows.Next() {
		student := &models.Student{}
		err := rows.Scan(
			&student.ID,
			&student.UserID,
			&student.StudentNo,
			&student.ClassName,
			&student.Gender,
			&student.Phone,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

func scanStudentOptions(rows *sql.Rows) ([]*models.StudentOption, error) {
	var options []*models.StudentOption
	for rows.Next() {
		option := &models.StudentOption{}
		err := rows.Scan(
			&option.ID,
			&option.StudentNo,
			&option.StudentName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student option: %w", err)
		}
		options = append(options, option)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student option rows: %w", err)
	}

	return options, nil
}
