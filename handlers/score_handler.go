package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/middleware"
	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/repositories"
	"github.com/WQTY-MASTER/SGMS/utils"
)

// examTimeLayout is the date format the API accepts for exam times
const examTimeLayout = "2006-01-02"

// SaveScoreRequest represents the score create/update request body
type SaveScoreRequest struct {
	ID        int64   `json:"id"`
	StudentID int64   `json:"studentId" validate:"required,gt=0"`
	CourseID  int64   `json:"courseId" validate:"required,gt=0"`
	Score     float64 `json:"score" validate:"gte=0,lte=100"`
	ExamTime  string  `json:"examTime" validate:"required"`
}

// DeleteBatchRequest represents the batch delete request body
type DeleteBatchRequest struct {
	IDs []int64 `json:"ids"`
}

// ScoreManager defines the score operations the handler needs
type ScoreManager interface {
	StudentScores(ctx context.Context, userID int64, filter repositories.ScoreFilter, page, size int) (*repositories.ScorePage, error)
	TeacherScores(ctx context.Context, userID int64, filter repositories.ScoreFilter, page, size int) (*repositories.ScorePage, error)
	TeacherCourses(ctx context.Context, userID int64) ([]*models.Course, error)
	CourseScores(ctx context.Context, userID, courseID int64) ([]*models.ScoreDetail, error)
	SaveScore(ctx context.Context, userID int64, score *models.Score) error
	DeleteScore(ctx context.Context, userID, scoreID int64) error
	DeleteScores(ctx context.Context, userID int64, ids []int64) error
	ScoreExists(ctx context.Context, userID, studentID, courseID, excludeID int64) (bool, error)
}

// ScoreHandler handles score HTTP requests
type ScoreHandler struct {
	scores ScoreManager
	logger *zap.Logger
}

// NewScoreHandler creates a new ScoreHandler
func NewScoreHandler(scores ScoreManager, logger *zap.Logger) *ScoreHandler {
	return &ScoreHandler{
		scores: scores,
		logger: logger,
	}
}

// HandleStudentScores handles GET /score/student
func (h *ScoreHandler) HandleStudentScores(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	page, size := queryPage(r)
	filter := repositories.ScoreFilter{
		CourseName: r.URL.Query().Get("courseName"),
	}

	result, err := h.scores.StudentScores(r.Context(), principal.UserID, filter, page, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, result)
}

// HandleTeacherScores handles GET /score/teacher
func (h *ScoreHandler) HandleTeacherScores(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	courseID, ok := queryInt64(r, "courseId")
	if !ok {
		_ = utils.WriteBadRequest(w, "invalid courseId")
		return
	}

	page, size := queryPage(r)
	filter := repositories.ScoreFilter{
		StudentName: r.URL.Query().Get("studentName"),
		CourseID:    courseID,
	}

	result, err := h.scores.TeacherScores(r.Context(), principal.UserID, filter, page, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, result)
}

// HandleTeacherCourses handles GET /score/teacher/courses
func (h *ScoreHandler) HandleTeacherCourses(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	courses, err := h.scores.TeacherCourses(r.Context(), principal.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, courses)
}

// HandleCourseScores handles GET /teacher/score/list/{courseId}
func (h *ScoreHandler) HandleCourseScores(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	courseID, ok := pathID(r, "courseId")
	if !ok {
		_ = utils.WriteBadRequest(w, "invalid course id")
		return
	}

	details, err := h.scores.CourseScores(r.Context(), principal.UserID, courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, details)
}

// HandleSaveScore handles POST /score/teacher/save
func (h *ScoreHandler) HandleSaveScore(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	var req SaveScoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		_ = utils.WriteJSON(w, http.StatusBadRequest, utils.Result{
			Code: http.StatusBadRequest,
			Msg:  "validation failed",
			Data: utils.GetValidationFields(err),
		})
		return
	}

	examTime, err := time.Parse(examTimeLayout, req.ExamTime)
	if err != nil {
		_ = utils.WriteBadRequest(w, "exam time must be a date like 2024-06-20")
		return
	}

	score := &models.Score{
		ID:        req.ID,
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Score:     req.Score,
		ExamTime:  examTime,
	}

	if err := h.scores.SaveScore(r.Context(), principal.UserID, score); err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, score)
}

// HandleDeleteScore handles DELETE /score/teacher/{id}
func (h *ScoreHandler) HandleDeleteScore(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		_ = utils.WriteBadRequest(w, "invalid score id")
		return
	}

	if err := h.scores.DeleteScore(r.Context(), principal.UserID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, nil)
}

// HandleDeleteBatch handles DELETE /score/teacher/batch
func (h *ScoreHandler) HandleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	var req DeleteBatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.scores.DeleteScores(r.Context(), principal.UserID, req.IDs); err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, nil)
}

// HandleCheckScore handles GET /score/teacher/check, the uniqueness probe
// used by score entry forms
func (h *ScoreHandler) HandleCheckScore(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w)
		return
	}

	studentID, ok := queryInt64(r, "studentId")
	if !ok || studentID == 0 {
		_ = utils.WriteBadRequest(w, "invalid studentId")
		return
	}
	courseID, ok := queryInt64(r, "courseId")
	if !ok || courseID == 0 {
		_ = utils.WriteBadRequest(w, "invalid courseId")
		return
	}
	excludeID, ok := queryInt64(r, "excludeId")
	if !ok {
		_ = utils.WriteBadRequest(w, "invalid excludeId")
		return
	}

	exists, err := h.scores.ScoreExists(r.Context(), principal.UserID, studentID, courseID, excludeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_ = utils.WriteSuccess(w, map[string]bool{"exists": exists})
}
