package postgres

import (
	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/repositories"
)

// NewRepositories creates all repository implementations backed by the
// given database connection
func NewRepositories(db *DB, logger *zap.Logger) *repositories.Repositories {
	return &repositories.Repositories{
		Users:    NewUserRepository(db, logger),
		Students: NewStudentRepository(db, logger),
		Teachers: NewTeacherRepository(db, logger),
		Courses:  NewCourseRepository(db, logger),
		Scores:   NewScoreRepository(db, logger),
	}
}
