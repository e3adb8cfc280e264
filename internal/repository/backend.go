// Package repository opens the repository set selected by DB_DRIVER.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"placementcell/internal/config"
	"placementcell/internal/database"
	"placementcell/internal/domain/application"
	"placementcell/internal/domain/company"
	"placementcell/internal/domain/drive"
	"placementcell/internal/domain/notice"
	"placementcell/internal/domain/student"
	"placementcell/internal/repository/memory"
	"placementcell/internal/repository/mongo"
	"placementcell/internal/repository/postgres"
)

type Set struct {
	Students     student.Repository
	Companies    company.Repository
	Drives       drive.Repository
	Applications application.Repository
	Notices      notice.NoticeRepository
	Events       notice.EventRepository
	close        func(context.Context) error
}

func (s *Set) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Set, error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return &Set{
			Students:     memory.NewStudentRepository(),
			Companies:    memory.NewCompanyRepository(),
			Drives:       memory.NewDriveRepository(),
			Applications: memory.NewApplicationRepository(),
			Notices:      memory.NewNoticeRepository(),
			Events:       memory.NewEventRepository(),
		}, nil
	case config.DriverPgx, config.DriverPostgres:
		db, err := database.NewPostgres(ctx, database.PostgresConfig{
			Driver:          cfg.DBDriver,
			DSN:             cfg.PostgresDSN,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxIdle:     cfg.DBConnMaxIdle,
			ConnMaxLifetime: cfg.DBConnMaxLife,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Set{
			Students:     postgres.NewStudentRepository(db),
			Companies:    postgres.NewCompanyRepository(db),
			Drives:       postgres.NewDriveRepository(db),
			Applications: postgres.NewApplicationRepository(db),
			Notices:      postgres.NewNoticeRepository(db),
			Events:       postgres.NewEventRepository(db),
			close:        func(context.Context) error { return db.Close() },
		}, nil
	case config.DriverMongo:
		client, db, err := database.NewMongo(ctx, database.MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
		if err != nil {
			return nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Set{
			Students:     mongo.NewStudentRepository(db),
			Companies:    mongo.NewCompanyRepository(db),
			Drives:       mongo.NewDriveRepository(db),
			Applications: mongo.NewApplicationRepository(db),
			Notices:      mongo.NewNoticeRepository(db),
			Events:       mongo.NewEventRepository(db),
			close:        client.Disconnect,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
