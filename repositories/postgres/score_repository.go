package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/repositories"
)

// scoreDetailColumns is the joined projection shared by the page and list
// queries: score row plus student number, student real name and course name.
const scoreDetailColumns = `
	sc.id, sc.student_id, s.student_no, u.real_name, sc.course_id, c.course_name, sc.score, sc.exam_time
`

const scoreDetailJoins = `
	FROM score sc
	JOIN student s ON s.id = sc.student_id
	JOIN sys_user u ON u.id = s.user_id
	JOIN course c ON c.id = sc.course_id
`

// ScoreRepository implements the repositories.ScoreRepository interface
type ScoreRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *DB, logger *zap.Logger) repositories.ScoreRepository {
	return &ScoreRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a score by ID
func (r *ScoreRepository) GetByID(ctx context.Context, id int64) (*models.Score, error) {
	query := `
		SELECT id, student_id, course_id, score, exam_time, create_time
		FROM score
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	score := &models.Score{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&score.ID,
		&score.StudentID,
		&score.CourseID,
		&score.Score,
		&score.ExamTime,
		&score.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("score %d: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	return score, nil
}

// ListByIDs retrieves the scores with the given IDs
func (r *ScoreRepository) ListByIDs(ctx context.Context, ids []int64) ([]*models.Score, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, student_id, course_id, score, exam_time, create_time
		FROM score
		WHERE id = ANY($1)
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []*models.Score
	for rows.Next() {
		score := &models.Score{}
		err := rows.Scan(
			&score.ID,
			&score.StudentID,
			&score.CourseID,
			&score.Score,
			&score.ExamTime,
			&score.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, score)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score rows: %w", err)
	}

	return scores, nil
}

// PageByStudent retrieves one page of a student's scores, optionally
// filtered by course name substring
func (r *ScoreRepository) PageByStudent(ctx context.Context, studentID int64, filter repositories.ScoreFilter, limit, offset int) (*repositories.ScorePage, error) {
	where := "WHERE sc.student_id = $1"
	args := []interface{}{studentID}

	if filter.CourseName != "" {
		args = append(args, "%"+filter.CourseName+"%")
		where += fmt.Sprintf(" AND c.course_name ILIKE $%d", len(args))
	}
	if filter.CourseID > 0 {
		args = append(args, filter.CourseID)
		where += fmt.Sprintf(" AND sc.course_id = $%d", len(args))
	}

	return r.page(ctx, where, args, limit, offset)
}

// PageByTeacher retrieves one page of the scores across a teacher's
// courses, optionally filtered by student name substring and course
func (r *ScoreRepository) PageByTeacher(ctx context.Context, teacherID int64, filter repositories.ScoreFilter, limit, offset int) (*repositories.ScorePage, error) {
	where := "WHERE c.teacher_id = $1"
	args := []interface{}{teacherID}

	if filter.StudentName != "" {
		args = append(args, "%"+filter.StudentName+"%")
		where += fmt.Sprintf(" AND u.real_name ILIKE $%d", len(args))
	}
	if filter.CourseID > 0 {
		args = append(args, filter.CourseID)
		where += fmt.Sprintf(" AND sc.course_id = $%d", len(args))
	}

	return r.page(ctx, where, args, limit, offset)
}

// page runs the shared count plus page queries for one WHERE clause
func (r *ScoreRepository) page(ctx context.Context, where string, args []interface{}, limit, offset int) (*repositories.ScorePage, error) {
	executor := GetExecutor(ctx, r.db)

	countQuery := "SELECT COUNT(*)" + scoreDetailJoins + where

	var total int64
	if err := executor.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count scores: %w", err)
	}

	pageArgs := append(args, limit, offset)
	pageQuery := fmt.Sprintf(
		"SELECT %s %s %s ORDER BY sc.id LIMIT $%d OFFSET $%d",
		scoreDetailColumns, scoreDetailJoins, where, len(pageArgs)-1, len(pageArgs),
	)

	rows, err := executor.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	details, err := scanScoreDetails(rows)
	if err != nil {
		return nil, err
	}

	return &repositories.ScorePage{Total: total, List: details}, nil
}

// ListByCourseID retrieves all joined score rows for a course
func (r *ScoreRepository) ListByCourseID(ctx context.Context, courseID int64) ([]*models.ScoreDetail, error) {
	query := "SELECT " + scoreDetailColumns + scoreDetailJoins +
		"WHERE sc.course_id = $1 ORDER BY sc.score DESC"

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	return scanScoreDetails(rows)
}

// Exists reports whether a score already exists for the student/course
// pair; excludeID (when > 0) ignores one row, for edits
func (r *ScoreRepository) Exists(ctx context.Context, studentID, courseID, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM score
			WHERE student_id = $1 AND course_id = $2 AND id <> $3
		)
	`

	executor := GetExecutor(ctx, r.db)

	var exists bool
	if err := executor.QueryRowContext(ctx, query, studentID, courseID, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check score existence: %w", err)
	}

	return exists, nil
}

// Create inserts a new score and fills in the assigned ID
func (r *ScoreRepository) Create(ctx context.Context, score *models.Score) error {
	query := `
		INSERT INTO score (student_id, course_id, score, exam_time, create_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		score.StudentID,
		score.CourseID,
		score.Score,
		score.ExamTime,
		score.CreatedAt,
	).Scan(&score.ID)

	if err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}

	r.logger.Debug("score created",
		zap.Int64("id", score.ID),
		zap.Int64("student_id", score.StudentID),
		zap.Int64("course_id", score.CourseID))
	return nil
}

// Update rewrites an existing score by ID
func (r *ScoreRepository) Update(ctx context.Context, score *models.Score) error {
	query := `
		UPDATE score
		SET student_id = $2,
		    course_id = $3,
		    score = $4,
		    exam_time = $5
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		score.ID,
		score.StudentID,
		score.CourseID,
		score.Score,
		score.ExamTime,
	)

	if err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("score %d: %w", score.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("score updated", zap.Int64("id", score.ID))
	return nil
}

// Delete removes a score by ID
func (r *ScoreRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM score WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete score: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("score %d: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("score deleted", zap.Int64("id", id))
	return nil
}

// DeleteBatch removes the scores with the given IDs, returning the number
// of rows removed
func (r *ScoreRepository) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `DELETE FROM score WHERE id = ANY($1)`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to delete scores: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	r.logger.Debug("scores deleted", zap.Int64("count", rowsAffected))
	return rowsAffected, nil
}

// SegmentCounts returns per-band head counts for a course's scores
func (r *ScoreRepository) SegmentCounts(ctx context.Context, courseID int64) (*models.SegmentCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE score < 60) AS count_0_60,
			COUNT(*) FILTER (WHERE score >= 60 AND score < 80) AS count_60_80,
			COUNT(*) FILTER (WHERE score >= 80) AS count_80_100
		FROM score
		WHERE course_id = $1
	`

	executor := GetExecutor(ctx, r.db)
	counts := &models.SegmentCounts{}

	err := executor.QueryRowContext(ctx, query, courseID).Scan(
		&counts.Below60,
		&counts.From60To80,
		&counts.From80Up,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to count score segments: %w", err)
	}

	return counts, nil
}

func scanScoreDetails(rows *sql.Rows) ([]*models.ScoreDetail, error) {
	var details []*models.ScoreDetail
	for rows.Next() {
		detail := &models.ScoreDetail{}
		err := rows.Scan(
			&detail.ID,
			&detail.StudentID,
			&detail.StudentNo,
			&detail.StudentName,
			&detail.CourseID,
			&detail.CourseName,
			&detail.Score,
			&detail.ExamTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score detail: %w", err)
		}
		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score detail rows: %w", err)
	}

	return details, nil
}
