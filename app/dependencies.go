package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/config"
	"github.com/WQTY-MASTER/SGMS/handlers"
	"github.com/WQTY-MASTER/SGMS/middleware"
	"github.com/WQTY-MASTER/SGMS/repositories"
	"github.com/WQTY-MASTER/SGMS/repositories/postgres"
	"github.com/WQTY-MASTER/SGMS/services"
	"github.com/WQTY-MASTER/SGMS/token"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	DB        *postgres.DB
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	Codec *token.Codec

	AuthMiddleware   *middleware.AuthMiddleware
	AccessMiddleware *middleware.AccessControlMiddleware

	AuthService    *services.AuthService
	ScoreService   *services.ScoreService
	StudentService *services.StudentService

	AuthHandler    *handlers.AuthHandler
	ScoreHandler   *handlers.ScoreHandler
	StudentHandler *handlers.StudentHandler
	StatHandler    *handlers.StatHandler
	HealthHandler  *handlers.HealthHandler
}

// NewDependencies creates and wires all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initStorage(ctx); err != nil {
		return nil, err
	}
	if err := deps.initToken(); err != nil {
		return nil, err
	}
	deps.initServices()
	deps.initMiddleware()
	deps.initHandlers()

	logger.Info("application dependencies initialized")
	return deps, nil
}

func (d *Dependencies) initStorage(ctx context.Context) error {
	db, err := postgres.NewDB(d.Config.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	d.DB = db

	if err := db.InitSchema(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Repos = postgres.NewRepositories(db, d.Logger)
	d.TxManager = postgres.NewTransactionManager(db, d.Logger)
	return nil
}

func (d *Dependencies) initToken() error {
	codec, err := token.NewCodec(d.Config.JWT, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}
	d.Codec = codec
	return nil
}

func (d *Dependencies) initServices() {
	d.AuthService = services.NewAuthService(d.Repos, d.TxManager, d.Codec, d.Logger)
	d.ScoreService = services.NewScoreService(d.Repos, d.Logger)
	d.StudentService = services.NewStudentService(d.Repos, d.Logger)
}

func (d *Dependencies) initMiddleware() {
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Codec, d.Repos.Users, d.Logger)
	d.AccessMiddleware = middleware.NewAccessControlMiddleware(middleware.DefaultAccessRules(), d.Logger)
}

func (d *Dependencies) initHandlers() {
	d.AuthHandler = handlers.NewAuthHandler(d.AuthService, d.Logger)
	d.ScoreHandler = handlers.NewScoreHandler(d.ScoreService, d.Logger)
	d.StudentHandler = handlers.NewStudentHandler(d.StudentService, d.Logger)
	d.StatHandler = handlers.NewStatHandler(d.ScoreService, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB.DB, d.Logger)
}

// Close releases all resources held by the dependencies
func (d *Dependencies) Close() {
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Error("failed to close database", zap.Error(err))
		}
	}
}
