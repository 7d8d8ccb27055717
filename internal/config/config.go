package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database         DatabaseConfig
	Export           ExportConfig
	ExportSigningKey string
	PageSize         int
}

type DatabaseConfig struct {
	URL    string
	LogSQL bool
}

type ExportConfig struct {
	Dir       string
	ImagesDir string
	Open      bool
}

func Load() (*Config, error) {
	godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	pageSize := v.GetInt("PAGE_SIZE")
	if pageSize < 1 {
		pageSize = 10
	}

	return &Config{
		Database: DatabaseConfig{
			URL:    v.GetString("DATABASE_URL"),
			LogSQL: v.GetBool("LOG_SQL"),
		},
		Export: ExportConfig{
			Dir:       v.GetString("EXPORT_DIR"),
			ImagesDir: v.GetString("IMAGES_DIR"),
			Open:      v.GetBool("OPEN_EXPORTS"),
		},
		ExportSigningKey: v.GetString("EXPORT_SIGNING_KEY"),
		PageSize:         pageSize,
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DATABASE_URL", "sqlite:catalog.db")
	v.SetDefault("EXPORT_DIR", ".")
	v.SetDefault("IMAGES_DIR", "images")
	v.SetDefault("EXPORT_SIGNING_KEY", "")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("LOG_SQL", false)
	v.SetDefault("OPEN_EXPORTS", true)
}
