package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/repositories"
)

var scoreDetailTestColumns = []string{
	"id", "student_id", "student_no", "real_name", "course_id", "course_name", "score", "exam_time",
}

func TestScoreRepositoryPageByTeacher(t *testing.T) {
	examTime := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

	t.Run("returns total and page rows", func(t *testing.T) {
		db, mock := newMockRepo(t)
		repo := NewScoreRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY sc.id LIMIT $2 OFFSET $3")).
			WithArgs(int64(5), 10, 0).
			WillReturnRows(sqlmock.NewRows(scoreDetailTestColumns).
				AddRow(int64(1), int64(2), "S001", "Alice", int64(9), "Algebra", 88.5, examTime).
				AddRow(int64(2), int64(3), "S002", "Bob", int64(9), "Algebra", 59.0, examTime))

		page, err := repo.PageByTeacher(context.Background(), 5, repositories.ScoreFilter{}, 10, 0)
		require.NoError(t, err)

		assert.Equal(t, int64(12), page.Total)
		require.Len(t, page.List, 2)
		assert.Equal(t, "S001", page.List[0].StudentNo)
		assert.Equal(t, "Algebra", page.List[0].CourseName)
		assert.Equal(t, 88.5, page.List[0].Score)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies student name and course filters", func(t *testing.T) {
		db, mock := newMockRepo(t)
		repo := NewScoreRepository(db, zap.NewNop())

		filter := repositories.ScoreFilter{StudentName: "Ali", CourseID: 9}

		mock.ExpectQuery(regexp.QuoteMeta("u.real_name ILIKE $2 AND sc.course_id = $3")).
			WithArgs(int64(5), "%Ali%", int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

		mock.ExpectQuery(regexp.QuoteMeta("LIMIT $4 OFFSET $5")).
			WithArgs(int64(5), "%Ali%", int64(9), 10, 0).
			WillReturnRows(sqlmock.NewRows(scoreDetailTestColumns).
				AddRow(int64(1), int64(2), "S001", "Alice", int64(9), "Algebra", 88.5, examTime))

		page, err := repo.PageByTeacher(context.Background(), 5, filter, 10, 0)
		require.NoError(t, err)

		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.List, 1)
		assert.Equal(t, "Alice", page.List[0].StudentName)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestScoreRepositoryPageByStudent(t *testing.T) {
	examTime := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

	db, mock := newMockRepo(t)
	repo := NewScoreRepository(db, zap.NewNop())

	filter := repositories.ScoreFilter{CourseName: "Alg"}

	mock.ExpectQuery(regexp.QuoteMeta("c.course_name ILIKE $2")).
		WithArgs(int64(2), "%Alg%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $3 OFFSET $4")).
		WithArgs(int64(2), "%Alg%", 10, 0).
		WillReturnRows(sqlmock.NewRows(scoreDetailTestColumns).
			AddRow(int64(1), int64(2), "S001", "Alice", int64(9), "Algebra", 88.5, examTime))

	page, err := repo.PageByStudent(context.Background(), 2, filter, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.List, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryExists(t *testing.T) {
	db, mock := newMockRepo(t)
	repo := NewScoreRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(2), int64(9), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), 2, 9, 0)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryCreate(t *testing.T) {
	db, mock := newMockRepo(t)
	repo := NewScoreRepository(db, zap.NewNop())

	score := &models.Score{
		StudentID: 2,
		CourseID:  9,
		Score:     91.5,
		ExamTime:  time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Now(),
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO score")).
		WithArgs(score.StudentID, score.CourseID, score.Score, score.ExamTime, score.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	err := repo.Create(context.Background(), score)
	require.NoError(t, err)
	assert.Equal(t, int64(42), score.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryDelete(t *testing.T) {
	t.Run("removes an existing score", func(t *testing.T) {
		db, mock := newMockRepo(t)
		repo := NewScoreRepository(db, zap.NewNop())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM score")).
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), 4)
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing score to ErrNotFound", func(t *testing.T) {
		db, mock := newMockRepo(t)
		repo := NewScoreRepository(db, zap.NewNop())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM score")).
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), 4)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestScoreRepositoryDeleteBatch(t *testing.T) {
	db, mock := newMockRepo(t)
	repo := NewScoreRepository(db, zap.NewNop())

	ids := []int64{1, 2, 3}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM score WHERE id = ANY($1)")).
		WithArgs(pq.Array(ids)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := repo.DeleteBatch(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositorySegmentCounts(t *testing.T) {
	db, mock := newMockRepo(t)
	repo := NewScoreRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("FROM score")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count_0_60", "count_60_80", "count_80_100"}).
			AddRow(int64(3), int64(10), int64(7)))

	counts, err := repo.SegmentCounts(context.Background(), 9)
	require.NoError(t, err)

	assert.Equal(t, int64(3), counts.Below60)
	assert.Equal(t, int64(10), counts.From60To80)
	assert.Equal(t, int64(7), counts.From80Up)

	assert.NoError(t, mock.ExpectationsWereMet())
}
