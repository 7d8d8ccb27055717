package main

import (
	"fmt"

	"github.com/h4ks-com/coffee-catalog/internal/config"
	"github.com/h4ks-com/coffee-catalog/internal/console"
	"github.com/h4ks-com/coffee-catalog/internal/database"
	"github.com/h4ks-com/coffee-catalog/internal/repository"
	"github.com/h4ks-com/coffee-catalog/internal/services"
	"gorm.io/gorm"
)

type app struct {
	cfg *config.Config
	db  *gorm.DB

	services console.Services
	exports  *services.ExportService
	imports  *services.ImportService
}

// openApp loads the configuration, connects and migrates the database and
// builds every service.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if databaseURL != "" {
		cfg.Database.URL = databaseURL
	}
	if logSQL {
		cfg.Database.LogSQL = true
	}

	db, err := database.Connect(cfg.Database.URL, database.Options{LogSQL: cfg.Database.LogSQL})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	varietyRepo := repository.NewVarietyRepository(db)
	resistanceRepo := repository.NewResistanceRepository(db)

	varietyService := services.NewVarietyService(varietyRepo, resistanceRepo, db)
	exportService := services.NewExportService(varietyRepo, cfg.ExportSigningKey)

	return &app{
		cfg:         cfg,
		db:          db,
		services: console.Services{
			Varieties:       varietyService,
			Recommendations: services.NewRecommendationService(varietyRepo),
			Comparisons:     services.NewComparisonService(varietyService),
			Statistics:      services.NewStatisticsService(varietyRepo),
			Catalog:         services.NewCatalogService(varietyService, cfg.Export.Dir, cfg.Export.ImagesDir),
			Users:           services.NewUserService(userRepo),
		},
		exports: exportService,
		imports: services.NewImportService(varietyService, exportService),
	}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}
