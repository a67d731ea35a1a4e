package repositories

import (
	"context"
	"errors"

	"github.com/WQTY-MASTER/SGMS/models"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Automatically commits if function succeeds, rolls back on error.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// ScorePage is one page of joined score rows plus the unpaged total
type ScorePage struct {
	Total int64                 `json:"total"`
	List  []*models.ScoreDetail `json:"list"`
}

// ScoreFilter narrows score page queries; zero values mean "no filter"
type ScoreFilter struct {
	CourseName  string
	StudentName string
	CourseID    int64
}

// UserRepository handles sys_user data operations
type UserRepository interface {
	// Create inserts a new account and fills in the assigned ID
	Create(ctx context.Context, user *models.User) error

	// GetByUsername retrieves an account by its unique username
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// StudentRepository handles student data operations
type StudentRepository interface {
	// Create inserts a new student row and fills in the assigned ID
	Create(ctx context.Context, student *models.Student) error

	// GetByUserID retrieves the student linked to a sys_user row
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)

	// GetByStudentNo retrieves a student by student number
	GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error)

	// ListByCourseID retrieves the students enrolled in a course
	ListByCourseID(ctx context.Context, courseID int64) ([]*models.Student, error)

	// ListAll retrieves every student
	ListAll(ctx context.Context) ([]*models.Student, error)

	// ListOptionsByCourseID retrieves selection options (id, number, real
	// name) for the students enrolled in a course
	ListOptionsByCourseID(ctx context.Context, courseID int64) ([]*models.StudentOption, error)

	// ListAllOptions retrieves selection options for every student
	ListAllOptions(ctx context.Context) ([]*models.StudentOption, error)
}

// TeacherRepository handles teacher data operations
type TeacherRepository interface {
	// Create inserts a new teacher row and fills in the assigned ID
	Create(ctx context.Context, teacher *models.Teacher) error

	// GetByUserID retrieves the teacher linked to a sys_user row
	GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error)

	// GetByTeacherNo retrieves a teacher by teacher number
	GetByTeacherNo(ctx context.Context, teacherNo string) (*models.Teacher, error)
}

// CourseRepository handles course data operations
type CourseRepository interface {
	// GetByID retrieves a course by ID
	GetByID(ctx context.Context, id int64) (*models.Course, error)

	// ListByTeacherID retrieves the courses owned by a teacher
	ListByTeacherID(ctx context.Context, teacherID int64) ([]*models.Course, error)
}

// ScoreRepository handles score data operations
type ScoreRepository interface {
	// GetByID retrieves a score by ID
	GetByID(ctx context.Context, id int64) (*models.Score, error)

	// ListByIDs retrieves the scores with the given IDs
	ListByIDs(ctx context.Context, ids []int64) ([]*models.Score, error)

	// PageByStudent retrieves one page of a student's scores, optionally
	// filtered by course name substring
	PageByStudent(ctx context.Context, studentID int64, filter ScoreFilter, limit, offset int) (*ScorePage, error)

	// PageByTeacher retrieves one page of the scores across a teacher's
	// courses, optionally filtered by student name substring and course
	PageByTeacher(ctx context.Context, teacherID int64, filter ScoreFilter, limit, offset int) (*ScorePage, error)

	// ListByCourseID retrieves all joined score rows for a course
	ListByCourseID(ctx context.Context, courseID int64) ([]*models.ScoreDetail, error)

	// Exists reports whether a score already exists for the student/course
	// pair; excludeID (when > 0) ignores one row, for edits
	Exists(ctx context.Context, studentID, courseID, excludeID int64) (bool, error)

	// Create inserts a new score and fills in the assigned ID
	Create(ctx context.Context, score *models.Score) error

	// Update rewrites an existing score by ID
	Update(ctx context.Context, score *models.Score) error

	// Delete removes a score by ID
	Delete(ctx context.Context, id int64) error

	// DeleteBatch removes the scores with the given IDs, returning the
	// number of rows removed
	DeleteBatch(ctx context.Context, ids []int64) (int64, error)

	// SegmentCounts returns per-band head counts for a course's scores
	SegmentCounts(ctx context.Context, courseID int64) (*models.SegmentCounts, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users    UserRepository
	Students StudentRepository
	Teachers TeacherRepository
	Courses  CourseRepository
	Scores   ScoreRepository
}
