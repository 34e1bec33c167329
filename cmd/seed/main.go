package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workforce/internal/authz"
	"workforce/internal/config"
	"workforce/internal/db"
	"workforce/internal/events"
	"workforce/internal/logging"
	"workforce/internal/repository"
	"workforce/internal/service"
)

func main() {
	file := flag.String("file", "seed.yaml", "path to the YAML seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("seed")

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal("failed to open seed file", zap.String("file", *file), zap.Error(err))
	}
	seed, err := ParseSeedFile(f)
	_ = f.Close()
	if err != nil {
		logger.Fatal("failed to read seed file", zap.Error(err))
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close(gormDB) }()
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	s := newSeeder(gormDB, logger)
	summary, err := s.run(context.Background(), seed)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}

	users, err := s.users.List(context.Background())
	if err != nil {
		logger.Fatal("failed to list users", zap.Error(err))
	}
	logger.Info("seed completed",
		zap.Int("users_created", summary.Users),
		zap.Int("companies_created", summary.Companies),
		zap.Int("departments_created", summary.Departments),
		zap.Int("employees_created", summary.Employees),
		zap.Int("skipped", summary.Skipped),
		zap.Int("total_users", len(users)),
	)
}

func newSeeder(conn *gorm.DB, logger *zap.Logger) *seeder {
	store := repository.NewStore(conn)
	policy := authz.MustDefault(logger)
	stats := service.NewStatisticsService(store, policy)
	publisher := events.NopPublisher{}
	return &seeder{
		users:       repository.NewUserRepository(conn),
		companies:   service.NewCompanyService(store, policy, stats, publisher, nil, logger),
		departments: service.NewDepartmentService(store, policy, stats, logger),
		employees:   service.NewEmployeeService(store, policy, publisher, nil, logger),
		logger:      logger,
	}
}
