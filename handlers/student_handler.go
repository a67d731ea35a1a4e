package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/middleware"
	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/utils"
)

// StudentDirectory defines the roster operations the handler needs
type StudentDirectory interface {
	ListAll(ctx context.Context) ([]*models.Student, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error)
	Options(ctx context.Context, courseID int64) ([]*models.StudentOption, error)
	Profile(ctx context.Context, userID int64) (*models.Student, error)
}

// StudentHandler handles the teacher-facing roster views and the
// student's own profile
type StudentHandler struct {
	students StudentDirectory
	logger   *zap.Logger
}

// NewStudentHandler creates a new StudentHandler
func NewStudentHandler(students StudentDirectory, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{
		students: students,
		logger:   logger,
	}
}

// HandleListStudents handles GET /teacher/students
func (h *StudentHandler) HandleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.students.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, students)
}

// HandleStudentsByCourse handles GET /teacher/students-by-course
func (h *StudentHandler) HandleStudentsByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := queryInt64(r, "courseId")
	if !ok || courseID == 0 {
		_ = utils.WriteBadRequest(w, "invalid courseId")
		return
	}

	students, err := h.students.ListByCourse(r.Context(), courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, students)
}

// HandleCourseStudents handles GET /students/course/{courseId}
func (h *StudentHandler) HandleCourseStudents(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(r, "courseId")
	if !ok {
		_ = utils.WriteBadRequest(w, "invalid course id")
		return
	}

	students, err := h.students.ListByCourse(r.Context(), courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, students)
}

// HandleStudentOptions handles GET /teacher/students/options; courseId is
// optional and restricts the options to one course's roster
func (h *StudentHandler) HandleStudentOptions(w http.ResponseWriter, r *http.Request) {
	courseID, ok := queryInt64(r, "courseId")
	if !ok {
		_ = utils.WriteBadRequest(w, "invalid courseId")
		return
	}

	options, err := h.students.Options(r.Context(), courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, options)
}

// HandleProfile handles GET /student/info
func (h *StudentHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	student, err := h.students.Profile(r.Context(), principal.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, student)
}
