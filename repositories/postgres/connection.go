package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/config"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// WrapDB wraps an existing sql.DB; used by tests with sqlmock
func WrapDB(db *sql.DB, logger *zap.Logger) *DB {
	return &DB{DB: db, logger: logger}
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Check if we can query
	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Accounts table
		CREATE TABLE IF NOT EXISTS sys_user (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(64) NOT NULL UNIQUE,
			password VARCHAR(100) NOT NULL,
			role VARCHAR(20) NOT NULL,
			real_name VARCHAR(64) NOT NULL DEFAULT '',
			status SMALLINT NOT NULL DEFAULT 1,
			create_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			update_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Students table
		CREATE TABLE IF NOT EXISTS student (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES sys_user(id) ON DELETE CASCADE,
			student_no VARCHAR(32) NOT NULL UNIQUE,
			class_name VARCHAR(64) NOT NULL DEFAULT '',
			gender VARCHAR(10) NOT NULL DEFAULT '',
			phone VARCHAR(20) NOT NULL DEFAULT ''
		);

		-- Teachers table
		CREATE TABLE IF NOT EXISTS teacher (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES sys_user(id) ON DELETE CASCADE,
			teacher_no VARCHAR(32) NOT NULL UNIQUE,
			title VARCHAR(64) NOT NULL DEFAULT '',
			department VARCHAR(64) NOT NULL DEFAULT '',
			phone VARCHAR(20) NOT NULL DEFAULT ''
		);

		-- Courses table
		CREATE TABLE IF NOT EXISTS course (
			id BIGSERIAL PRIMARY KEY,
			course_code VARCHAR(32) NOT NULL UNIQUE,
			course_name VARCHAR(128) NOT NULL,
			teacher_id BIGINT NOT NULL REFERENCES teacher(id) ON DELETE CASCADE,
			credit NUMERIC(3,1) NOT NULL DEFAULT 0
		);

		-- Course enrollment table
		CREATE TABLE IF NOT EXISTS student_course (
			student_id BIGINT NOT NULL REFERENCES student(id) ON DELETE CASCADE,
			course_id BIGINT NOT NULL REFERENCES course(id) ON DELETE CASCADE,
			PRIMARY KEY (student_id, course_id)
		);

		-- Scores table
		CREATE TABLE IF NOT EXISTS score (
			id BIGSERIAL PRIMARY KEY,
			student_id BIGINT NOT NULL REFERENCES student(id) ON DELETE CASCADE,
			course_id BIGINT NOT NULL REFERENCES course(id) ON DELETE CASCADE,
			score NUMERIC(5,1) NOT NULL,
			exam_time DATE NOT NULL,
			create_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (student_id, course_id)
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS idx_student_user_id ON student(user_id);
		CREATE INDEX IF NOT EXISTS idx_teacher_user_id ON teacher(user_id);
		CREATE INDEX IF NOT EXISTS idx_course_teacher_id ON course(teacher_id);
		CREATE INDEX IF NOT EXISTS idx_score_student_id ON score(student_id);
		CREATE INDEX IF NOT EXISTS idx_score_course_id ON score(course_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized")
	return nil
}
