package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/repositories"
)

// ScoreService handles score queries and teacher-side score management.
// Every mutating operation verifies that the acting teacher owns the
// course the score belongs to.
type ScoreService struct {
	scores   repositories.ScoreRepository
	courses  repositories.CourseRepository
	students repositories.StudentRepository
	teachers repositories.TeacherRepository
	logger   *zap.Logger
}

// NewScoreService creates a new ScoreService
func NewScoreService(repos *repositories.Repositories, logger *zap.Logger) *ScoreService {
	return &ScoreService{
		scores:   repos.Scores,
		courses:  repos.Courses,
		students: repos.Students,
		teachers: repos.Teachers,
		logger:   logger,
	}
}

// StudentScores returns one page of the logged-in student's scores. An
// account with no student record gets an empty page, not an error.
func (s *ScoreService) StudentScores(ctx context.Context, userID int64, filter repositories.ScoreFilter, page, size int) (*repositories.ScorePage, error) {
	page, size = normalizePage(page, size)

	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &repositories.ScorePage{Total: 0, List: []*models.ScoreDetail{}}, nil
		}
		return nil, WrapInternal("failed to resolve student", err)
	}

	result, err := s.scores.PageByStudent(ctx, student.ID, filter, size, (page-1)*size)
	if err != nil {
		return nil, WrapInternal("failed to query scores", err)
	}
	return result, nil
}

// TeacherScores returns one page of the scores across the logged-in
// teacher's courses
func (s *ScoreService) TeacherScores(ctx context.Context, userID int64, filter repositories.ScoreFilter, page, size int) (*repositories.ScorePage, error) {
	page, size = normalizePage(page, size)

	teacher, err := s.resolveTeacher(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.scores.PageByTeacher(ctx, teacher.ID, filter, size, (page-1)*size)
	if err != nil {
		return nil, WrapInternal("failed to query scores", err)
	}
	return result, nil
}

// TeacherCourses returns the courses owned by the logged-in teacher
func (s *ScoreService) TeacherCourses(ctx context.Context, userID int64) ([]*models.Course, error) {
	teacher, err := s.resolveTeacher(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses, err := s.courses.ListByTeacherID(ctx, teacher.ID)
	if err != nil {
		return nil, WrapInternal("failed to list courses", err)
	}
	return courses, nil
}

// CourseScores returns every joined score row of one of the teacher's courses
func (s *ScoreService) CourseScores(ctx context.Context, userID, courseID int64) ([]*models.ScoreDetail, error) {
	teacher, err := s.resolveTeacher(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCourseOwnership(ctx, teacher.ID, courseID); err != nil {
		return nil, err
	}

	details, err := s.scores.ListByCourseID(ctx, courseID)
	if err != nil {
		return nil, WrapInternal("failed to list scores", err)
	}
	return details, nil
}

// SaveScore creates a new score (ID zero) or rewrites an existing one.
// The acting teacher must own the target course, and the student/course
// pair must stay unique.
func (s *ScoreService) SaveScore(ctx context.Context, userID int64, score *models.Score) error {
	if score.StudentID <= 0 {
		return NewValidationError("student is required")
	}
	if score.CourseID <= 0 {
		return NewValidationError("course is required")
	}
	if score.Score < 0 || score.Score > 100 {
		return NewValidationError("score must be between 0 and 100")
	}
	if score.ExamTime.IsZero() {
		return NewValidationError("exam time is required")
	}

	teacher, err := s.resolveTeacher(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.checkCourseOwnership(ctx, teacher.ID, score.CourseID); err != nil {
		return err
	}

	exists, err := s.scores.Exists(ctx, score.StudentID, score.CourseID, score.ID)
	if err != nil {
		return WrapInternal("failed to check score uniqueness", err)
	}
	if exists {
		return ErrScoreExists
	}

	if score.ID == 0 {
		score.CreatedAt = time.Now()
		if err := s.scores.Create(ctx, score); err != nil {
			return WrapInternal("failed to create score", err)
		}
		return nil
	}

	// On update the stored row may point at a different course than the
	// request; the teacher must own that one as well.
	existing, err := s.scores.GetByID(ctx, score.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrScoreNotFound
		}
		return WrapInternal("failed to load score", err)
	}
	if existing.CourseID != score.CourseID {
		if err := s.checkCourseOwnership(ctx, teacher.ID, existing.CourseID); err != nil {
			return err
		}
	}

	if err := s.scores.Update(ctx, score); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrScoreNotFound
		}
		return WrapInternal("failed to update score", err)
	}
	return nil
}

// DeleteScore removes one score after checking course ownership
func (s *ScoreService) DeleteScore(ctx context.Context, userID, scoreID int64) error {
	teacher, err := s.resolveTeacher(ctx, userID)
	if err != nil {
		return err
	}

	score, err := s.scores.GetByID(ctx, scoreID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrScoreNotFound
		}
		return WrapInternal("failed to load score", err)
	}

	if err := s.checkCourseOwnership(ctx, teacher.ID, score.CourseID); err != nil {
		return err
	}

	if err := s.scores.Delete(ctx, scoreID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrScoreNotFound
		}
		return WrapInternal("failed to delete score", err)
	}
	return nil
}

// DeleteScores removes a batch of scores. A single unknown ID or a single
// score outside the teacher's courses denies the whole batch.
func (s *ScoreService) DeleteScores(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return NewValidationError("no score ids given")
	}

	teacher, err := s.resolveTeacher(ctx, userID)
	if err != nil {
		return err
	}

	scores, err := s.scores.ListByIDs(ctx, ids)
	if err != nil {
		return WrapInternal("failed to load scores", err)
	}
	if len(scores) != len(ids) {
		return ErrScoreNotFound
	}

	owned := make(map[int64]bool)
	for _, score := range scores {
		if _, seen := owned[score.CourseID]; seen {
			continue
		}
		if err := s.checkCourseOwnership(ctx, teacher.ID, score.CourseID); err != nil {
			return err
		}
		owned[score.CourseID] = true
	}

	if _, err := s.scores.DeleteBatch(ctx, ids); err != nil {
		return WrapInternal("failed to delete scores", err)
	}

	s.logger.Info("scores deleted",
		zap.Int64("teacher_id", teacher.ID),
		zap.Int("count", len(ids)))
	return nil
}

// ScoreExists probes per-student-per-course uniqueness for one of the
// teacher's courses; excludeID ignores one row, for edit forms
func (s *ScoreService) ScoreExists(ctx context.Context, userID, studentID, courseID, excludeID int64) (bool, error) {
	teacher, err := s.resolveTeacher(ctx, userID)
	if err != nil {
		return false, err
	}
	if err := s.checkCourseOwnership(ctx, teacher.ID, courseID); err != nil {
		return false, err
	}

	exists, err := s.scores.Exists(ctx, studentID, courseID, excludeID)
	if err != nil {
		return false, WrapInternal("failed to check score uniqueness", err)
	}
	return exists, nil
}

// SegmentStat is one score band with its head count and percentage rate
type SegmentStat struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
	Rate  string `json:"rate"`
}

// ScoreStats summarizes one course's scores
type ScoreStats struct {
	CourseID   int64         `json:"courseId"`
	CourseName string        `json:"courseName"`
	Total      int64         `json:"total"`
	Average    float64       `json:"average"`
	Max        float64       `json:"max"`
	Min        float64       `json:"min"`
	Segments   []SegmentStat `json:"segments"`
}

// SegmentStats computes the score distribution of one of the teacher's
// courses: 0-60 / 60-80 / 80-100 head counts with rates, plus average
// (one decimal, half-up), max, min and total
func (s *ScoreService) SegmentStats(ctx context.Context, userID, courseID int64) (*ScoreStats, error) {
	teacher, err := s.resolveTeacher(ctx, userID)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, WrapInternal("failed to load course", err)
	}
	if !course.OwnedBy(teacher.ID) {
		return nil, ErrNotCourseOwner
	}

	details, err := s.scores.ListByCourseID(ctx, courseID)
	if err != nil {
		return nil, WrapInternal("failed to list scores", err)
	}

	counts, err := s.scores.SegmentCounts(ctx, courseID)
	if err != nil {
		return nil, WrapInternal("failed to count score segments", err)
	}

	stats := &ScoreStats{
		CourseID:   course.ID,
		CourseName: course.CourseName,
		Total:      int64(len(details)),
	}

	if len(details) > 0 {
		sum := 0.0
		stats.Max = details[0].Score
		stats.Min = details[0].Score
		for _, d := range details {
			sum += d.Score
			if d.Score > stats.Max {
				stats.Max = d.Score
			}
			if d.Score < stats.Min {
				stats.Min = d.Score
			}
		}
		stats.Average = roundHalfUp1(sum / float64(len(details)))
	}

	stats.Segments = []SegmentStat{
		{Label: "0-60", Count: counts.Below60, Rate: formatRate(counts.Below60, stats.Total)},
		{Label: "60-80", Count: counts.From60To80, Rate: formatRate(counts.From60To80, stats.Total)},
		{Label: "80-100", Count: counts.From80Up, Rate: formatRate(counts.From80Up, stats.Total)},
	}

	return stats, nil
}

// resolveTeacher maps the logged-in account to its teacher row
func (s *ScoreService) resolveTeacher(ctx context.Context, userID int64) (*models.Teacher, error) {
	teacher, err := s.teachers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, WrapInternal("failed to resolve teacher", err)
	}
	return teacher, nil
}

func (s *ScoreService) checkCourseOwnership(ctx context.Context, teacherID, courseID int64) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCourseNotFound
		}
		return WrapInternal("failed to load course", err)
	}
	if !course.OwnedBy(teacherID) {
		return ErrNotCourseOwner
	}
	return nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	return page, size
}

// roundHalfUp1 rounds to one decimal, ties away from zero
func roundHalfUp1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// formatRate renders a band's share of total as a percentage string
// with one decimal, e.g. "15.0%"
func formatRate(count, total int64) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", roundHalfUp1(float64(count)/float64(total)*100))
}
