package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/repositories"
)

// StudentService handles the teacher-facing student roster views
type StudentService struct {
	students repositories.StudentRepository
	logger   *zap.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(repos *repositories.Repositories, logger *zap.Logger) *StudentService {
	return &StudentService{
		students: repos.Students,
		logger:   logger,
	}
}

// ListAll returns every student
func (s *StudentService) ListAll(ctx context.Context) ([]*models.Student, error) {
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list students", err)
	}
	return students, nil
}

// ListByCourse returns the students enrolled in one course
func (s *StudentService) ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	students, err := s.students.ListByCourseID(ctx, courseID)
	if err != nil {
		return nil, WrapInternal("failed to list students", err)
	}
	return students, nil
}

// Options returns selection options for score entry forms. A course ID of
// zero means every student.
func (s *StudentService) Options(ctx context.Context, courseID int64) ([]*models.StudentOption, error) {
	var (
		options []*models.StudentOption
		err     error
	)
	if courseID > 0 {
		options, err = s.students.ListOptionsByCourseID(ctx, courseID)
	} else {
		options, err = s.students.ListAllOptions(ctx)
	}
	if err != nil {
		return nil, WrapInternal("failed to list student options", err)
	}
	return options, nil
}

// Profile returns the student row of the logged-in account
func (s *StudentService) Profile(ctx context.Context, userID int64) (*models.Student, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewDomainError(ErrorTypeNotFound, "student record not found", nil)
		}
		return nil, WrapInternal("failed to resolve student", err)
	}
	return student, nil
}
