package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/repositories"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockStudentRepository is a mock implementation of repositories.StudentRepository
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, student *models.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepository) GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error) {
	args := m.Called(ctx, studentNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepository) ListByCourseID(ctx context.Context, courseID int64) ([]*models.Student, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Student), args.Error(1)
}

func (m *MockStudentRepository) ListAll(ctx context.Context) ([]*models.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Student), args.Error(1)
}

func (m *MockStudentRepository) ListOptionsByCourseID(ctx context.Context, courseID int64) ([]*models.StudentOption, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StudentOption), args.Error(1)
}

func (m *MockStudentRepository) ListAllOptions(ctx context.Context) ([]*models.StudentOption, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StudentOption), args.Error(1)
}

// MockTeacherRepository is a mock implementation of repositories.TeacherRepository
type MockTeacherRepository struct {
	mock.Mock
}

func (m *MockTeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	args := m.Called(ctx, teacher)
	return args.Error(0)
}

func (m *MockTeacherRepository) GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

func (m *MockTeacherRepository) GetByTeacherNo(ctx context.Context, teacherNo string) (*models.Teacher, error) {
	args := m.Called(ctx, teacherNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

// MockCourseRepository is a mock implementation of repositories.CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) ListByTeacherID(ctx context.Context, teacherID int64) ([]*models.Course, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
}

// MockScoreRepository is a mock implementation of repositories.ScoreRepository
type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) GetByID(ctx context.Context, id int64) (*models.Score, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Score), args.Error(1)
}

func (m *MockScoreRepository) ListByIDs(ctx context.Context, ids []int64) ([]*models.Score, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Score), args.Error(1)
}

func (m *MockScoreRepository) PageByStudent(ctx context.Context, studentID int64, filter repositories.ScoreFilter, limit, offset int) (*repositories.ScorePage, error) {
	args := m.Called(ctx, studentID, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ScorePage), args.Error(1)
}

func (m *MockScoreRepository) PageByTeacher(ctx context.Context, teacherID int64, filter repositories.ScoreFilter, limit, offset int) (*repositories.ScorePage, error) {
	args := m.Called(ctx, teacherID, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ScorePage), args.Error(1)
}

func (m *MockScoreRepository) ListByCourseID(ctx context.Context, courseID int64) ([]*models.ScoreDetail, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScoreDetail), args.Error(1)
}

func (m *MockScoreRepository) Exists(ctx context.Context, studentID, courseID, excludeID int64) (bool, error) {
	args := m.Called(ctx, studentID, courseID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockScoreRepository) Create(ctx context.Context, score *models.Score) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}

func (m *MockScoreRepository) Update(ctx context.Context, score *models.Score) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}

func (m *MockScoreRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockScoreRepository) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScoreRepository) SegmentCounts(ctx context.Context, courseID int64) (*models.SegmentCounts, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SegmentCounts), args.Error(1)
}

// fakeTxManager runs the transactional function inline, without a database
type fakeTxManager struct{}

func (fakeTxManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return fakeTx{ctx: ctx}, nil
}

func (fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	return fn(ctx, fakeTx{ctx: ctx})
}

type fakeTx struct{ ctx context.Context }

func (fakeTx) Commit() error              { return nil }
func (fakeTx) Rollback() error            { return nil }
func (t fakeTx) Context() context.Context { return t.ctx }

func testRepos(users *MockUserRepository, students *MockStudentRepository, teachers *MockTeacherRepository, courses *MockCourseRepository, scores *MockScoreRepository) *repositories.Repositories {
	return &repositories.Repositories{
		Users:    users,
		Students: students,
		Teachers: teachers,
		Courses:  courses,
		Scores:   scores,
	}
}
