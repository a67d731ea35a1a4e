package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/WQTY-MASTER/SGMS/app"
	"github.com/WQTY-MASTER/SGMS/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware. The login response carries the token in the
	// Authorization and token headers, so both must be exposed.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "token"},
		ExposedHeaders:   []string{"Authorization", "token", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Authentication runs before role enforcement so every protected
	// request carries a principal by the time rules are evaluated.
	r.Use(deps.AuthMiddleware.RequireAuth)
	r.Use(deps.AccessMiddleware.EnforceAccess)

	// Health check endpoints
	r.Get("/health", deps.HealthHandler.HandleHealth)
	r.Get("/health/ready", deps.HealthHandler.HandleReadiness)

	// Login and registration
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", deps.AuthHandler.HandleLogin)
		r.Post("/register/student", deps.AuthHandler.HandleRegisterStudent)
		r.Post("/register/teacher", deps.AuthHandler.HandleRegisterTeacher)
	})

	// Score endpoints
	r.Route("/score", func(r chi.Router) {
		r.Get("/student", deps.ScoreHandler.HandleStudentScores)
		r.Route("/teacher", func(r chi.Router) {
			r.Get("/", deps.ScoreHandler.HandleTeacherScores)
			r.Get("/courses", deps.ScoreHandler.HandleTeacherCourses)
			r.Get("/check", deps.ScoreHandler.HandleCheckScore)
			r.Post("/save", deps.ScoreHandler.HandleSaveScore)
			r.Delete("/batch", deps.ScoreHandler.HandleDeleteBatch)
			r.Delete("/{id}", deps.ScoreHandler.HandleDeleteScore)
		})
	})

	// Teacher views
	r.Route("/teacher", func(r chi.Router) {
		r.Get("/score/list/{courseId}", deps.ScoreHandler.HandleCourseScores)
		r.Get("/score/check-unique", deps.ScoreHandler.HandleCheckScore)
		r.Get("/students", deps.StudentHandler.HandleListStudents)
		r.Get("/students-by-course", deps.StudentHandler.HandleStudentsByCourse)
		r.Get("/students/options", deps.StudentHandler.HandleStudentOptions)
	})

	// Student views
	r.Get("/student/info", deps.StudentHandler.HandleProfile)

	// Roster lookup by course
	r.Get("/students/course/{courseId}", deps.StudentHandler.HandleCourseStudents)

	// Statistics
	r.Get("/stat/score/segment", deps.StatHandler.HandleScoreSegments)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusNotFound, utils.Result{
			Code: http.StatusNotFound,
			Msg:  "endpoint not found",
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusMethodNotAllowed, utils.Result{
			Code: http.StatusMethodNotAllowed,
			Msg:  "method not allowed",
		})
	})

	return r
}
