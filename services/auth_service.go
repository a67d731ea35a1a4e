package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/repositories"
	"github.com/WQTY-MASTER/SGMS/token"
)

// TokenIssuer defines the interface for minting tokens after login
type TokenIssuer interface {
	Encode(identity token.Identity) (string, error)
}

// AuthService handles login and account registration
type AuthService struct {
	users     repositories.UserRepository
	students  repositories.StudentRepository
	teachers  repositories.TeacherRepository
	txManager repositories.TransactionManager
	issuer    TokenIssuer
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repos *repositories.Repositories,
	txManager repositories.TransactionManager,
	issuer TokenIssuer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     repos.Users,
		students:  repos.Students,
		teachers:  repos.Teachers,
		txManager: txManager,
		issuer:    issuer,
		logger:    logger,
	}
}

// LoginResult is the payload returned after a successful login
type LoginResult struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// Login verifies credentials and mints a token. Every verification
// failure collapses into ErrBadCredentials; the distinct cause is logged.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrBadCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.Info("login rejected: unknown username",
				zap.String("username", username))
			return nil, ErrBadCredentials
		}
		return nil, WrapInternal("failed to look up account", err)
	}

	if !user.IsEnabled() {
		s.logger.Info("login rejected: account disabled",
			zap.String("username", username))
		return nil, ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login rejected: password mismatch",
			zap.String("username", username))
		return nil, ErrBadCredentials
	}

	signed, err := s.issuer.Encode(token.Identity{Username: user.Username, Role: user.Role})
	if err != nil {
		return nil, WrapInternal("failed to issue token", err)
	}

	s.logger.Info("login successful",
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()))

	return &LoginResult{
		Token:    signed,
		Role:     user.Role.String(),
		Username: user.Username,
	}, nil
}

// RegisterStudentRequest carries the fields of a student registration
type RegisterStudentRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	RealName        string `json:"realName"`
	StudentNo       string `json:"studentNo"`
	ClassName       string `json:"className"`
	Gender          string `json:"gender"`
	Phone           string `json:"phone"`
}

// RegisterTeacherRequest carries the fields of a teacher registration
type RegisterTeacherRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	RealName        string `json:"realName"`
	TeacherNo       string `json:"teacherNo"`
	Title           string `json:"title"`
	Department      string `json:"department"`
	Phone           string `json:"phone"`
}

// RegisterStudent creates the account and student rows in one transaction
func (s *AuthService) RegisterStudent(ctx context.Context, req RegisterStudentRequest) error {
	if err := s.validateCredentials(req.Username, req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	if strings.TrimSpace(req.StudentNo) == "" {
		return NewValidationError("student number cannot be empty")
	}

	if err := s.checkUsernameFree(ctx, req.Username); err != nil {
		return err
	}
	if _, err := s.students.GetByStudentNo(ctx, req.StudentNo); err == nil {
		return ErrStudentNoTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return WrapInternal("failed to check student number", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return WrapInternal("failed to hash password", err)
	}

	err = s.txManager.InTransaction(ctx, func(ctx context.Context, _ repositories.Transaction) error {
		user := models.NewUser(strings.TrimSpace(req.Username), string(hash), models.RoleStudent, req.RealName)
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}

		student := &models.Student{
			UserID:    user.ID,
			StudentNo: strings.TrimSpace(req.StudentNo),
			ClassName: req.ClassName,
			Gender:    req.Gender,
			Phone:     req.Phone,
		}
		return s.students.Create(ctx, student)
	})
	if err != nil {
		return WrapInternal("failed to register student", err)
	}

	s.logger.Info("student registered",
		zap.String("username", req.Username),
		zap.String("student_no", req.StudentNo))
	return nil
}

// RegisterTeacher creates the account and teacher rows in one transaction
func (s *AuthService) RegisterTeacher(ctx context.Context, req RegisterTeacherRequest) error {
	if err := s.validateCredentials(req.Username, req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	if strings.TrimSpace(req.TeacherNo) == "" {
		return NewValidationError("teacher number cannot be empty")
	}

	if err := s.checkUsernameFree(ctx, req.Username); err != nil {
		return err
	}
	if _, err := s.teachers.GetByTeacherNo(ctx, req.TeacherNo); err == nil {
		return ErrTeacherNoTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return WrapInternal("failed to check teacher number", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return WrapInternal("failed to hash password", err)
	}

	err = s.txManager.InTransaction(ctx, func(ctx context.Context, _ repositories.Transaction) error {
		user := models.NewUser(strings.TrimSpace(req.Username), string(hash), models.RoleTeacher, req.RealName)
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}

		teacher := &models.Teacher{
			UserID:     user.ID,
			TeacherNo:  strings.TrimSpace(req.TeacherNo),
			Title:      req.Title,
			Department: req.Department,
			Phone:      req.Phone,
		}
		return s.teachers.Create(ctx, teacher)
	})
	if err != nil {
		return WrapInternal("failed to register teacher", err)
	}

	s.logger.Info("teacher registered",
		zap.String("username", req.Username),
		zap.String("teacher_no", req.TeacherNo))
	return nil
}

// validateCredentials applies the shared username/password checks, in order
func (s *AuthService) validateCredentials(username, password, confirm string) error {
	if strings.TrimSpace(username) == "" {
		return NewValidationError("username cannot be empty")
	}
	if password == "" {
		return NewValidationError("password cannot be empty")
	}
	if password != confirm {
		return NewValidationError("passwords do not match")
	}
	return nil
}

func (s *AuthService) checkUsernameFree(ctx context.Context, username string) error {
	_, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return ErrUsernameTaken
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return WrapInternal("failed to check username", err)
	}
	return nil
}
