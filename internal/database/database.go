package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type Options struct {
	LogSQL bool
}

// Connect opens the database named by databaseURL. Accepted forms are
// ":memory:" (or empty), "sqlite:<path>", "mysql://<dsn>" and any
// postgres URL or DSN.
func Connect(databaseURL string, opts ...Options) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}

	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	if opt.LogSQL {
		config.Logger = logger.New(log.New(os.Stderr, "[SQL] ", log.LstdFlags), logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Info,
			Colorful:      false,
		})
	}

	memory := false
	switch {
	case databaseURL == "" || databaseURL == ":memory:":
		memory = true
		db, err = gorm.Open(sqlite.Open(":memory:"), config)
	case strings.HasPrefix(databaseURL, "sqlite:"):
		dbPath := strings.TrimPrefix(databaseURL, "sqlite:")
		dbPath = dbPath + "?_foreign_keys=1&_journal_mode=WAL"
		db, err = gorm.Open(sqlite.Open(dbPath), config)
	case strings.HasPrefix(databaseURL, "mysql://"):
		db, err = gorm.Open(mysql.Open(mysqlDSN(databaseURL)), config)
	default:
		db, err = gorm.Open(postgres.Open(databaseURL), config)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if memory {
		// Every sqlite connection to ":memory:" is a separate database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func mysqlDSN(databaseURL string) string {
	dsn := strings.TrimPrefix(databaseURL, "mysql://")
	if !strings.Contains(dsn, "parseTime=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "parseTime=true"
	}
	return dsn
}

func Migrate(db *gorm.DB) error {
	log.Println("[Database] Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Resistance{},
		&models.Variety{},
		&models.VarietyImage{},
		&models.VarietyResistance{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if err := seedResistances(db); err != nil {
		return fmt.Errorf("seeding resistances failed: %w", err)
	}

	log.Println("[Database] Database migrations completed successfully")
	return nil
}

func seedResistances(db *gorm.DB) error {
	rows := make([]models.Resistance, 0, len(models.ResistanceTypes))
	for _, t := range models.ResistanceTypes {
		rows = append(rows, models.Resistance{Type: t})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}},
		DoNothing: true,
	}).Create(&rows).Error
}
