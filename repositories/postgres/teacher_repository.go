package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/repositories"
)

// TeacherRepository implements the repositories.TeacherRepository interface
type TeacherRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(db *DB, logger *zap.Logger) repositories.TeacherRepository {
	return &TeacherRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new teacher row and fills in the assigned ID
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	query := `
		INSERT INTO teacher (user_id, teacher_no, title, department, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		teacher.UserID,
		teacher.TeacherNo,
		teacher.Title,
		teacher.Department,
		teacher.Phone,
	).Scan(&teacher.ID)

	if err != nil {
		return fmt.Errorf("failed to create teacher: %w", err)
	}

	r.logger.Debug("teacher created",
		zap.Int64("id", teacher.ID),
		zap.String("teacher_no", teacher.TeacherNo))
	return nil
}

// GetByUserID retrieves the teacher linked to a sys_user row
func (r *TeacherRepository) GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	query := `
		SELECT id, user_id, teacher_no, title, department, phone
		FROM teacher
		WHERE user_id = $1
	`

	executor := GetExecutor(ctx, r.db)
	teacher := &models.Teacher{}

	err := executor.QueryRowContext(ctx, query, userID).Scan(
		&teacher.ID,
		&teacher.UserID,
		&teacher.TeacherNo,
		&teacher.Title,
		&teacher.Department,
		&teacher.Phone,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("teacher for user %d: %w", userID, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}

	return teacher, nil
}

// GetByTeacherNo retrieves a teacher by teacher number
func (r *TeacherRepository) GetByTeacherNo(ctx context.Context, teacherNo string) (*models.Teacher, error) {
	query := `
		SELECT id, user_id, teacher_no, title, department, phone
		FROM teacher
		WHERE teacher_no = $1
	`

	executor := GetExecutor(ctx, r.db)
	teacher := &models.Teacher{}

	err := executor.QueryRowContext(ctx, query, teacherNo).Scan(
		&teacher.ID,
		&teacher.UserID,
		&teacher.TeacherNo,
		&teacher.Title,
		&teacher.Department,
		&teacher.Phone,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("teacher %q: %w", teacherNo, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}

	return teacher, nil
}
