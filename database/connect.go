package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/game-catalog-backend/config"
	"github.com/rpupo63/game-catalog-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Config selects and tunes the storage backend.
type Config struct {
	Type          string // postgres, supa or sqlite
	DSN           string
	ReplicaDSNs   []string
	SlowThreshold time.Duration
	LogLevel      logger.LogLevel
}

// ConfigFromEnv builds a Config from the environment map, the same keys for every deployment.
func ConfigFromEnv(c map[string]string) Config {
	cfg := Config{
		Type:          strings.ToLower(config.GetString(c, "DB_TYPE", "sqlite")),
		SlowThreshold: time.Duration(config.GetInt(c, "DB_SLOW_THRESHOLD_MS", 10000)) * time.Millisecond,
		LogLevel:      logger.Warn,
	}

	switch cfg.Type {
	case "postgres", "supa":
		sslMode := config.GetString(c, "DB_SSLMODE", "disable")
		if cfg.Type == "supa" {
			sslMode = "require"
		}
		cfg.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", "postgres"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", "games"),
			config.GetString(c, "DB_PORT", "5432"),
			sslMode,
		)
		cfg.ReplicaDSNs = config.GetList(c, "DB_REPLICA_DSNS")
	default:
		cfg.DSN = config.GetString(c, "SQLITE_PATH", "games.db")
	}
	return cfg
}

// Open connects to the configured backend and checks the connection answers.
func Open(cfg Config) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  cfg.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	gormConfig := &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger:         newLogger,
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres", "supa":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.DSN))
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.Type)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if cfg.Type == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// one connection keeps an in-memory database alive and serialises writers
		sqlDB.SetMaxOpenConns(1)
	} else if len(cfg.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaDSNs))
		for _, dsn := range cfg.ReplicaDSNs {
			replicas = append(replicas, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("error registering read replicas: %w", err)
		}
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}
	return db, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// DefaultPlatforms are the platforms the admin game form has sections for.
var DefaultPlatforms = []models.Platform{
	{ID: models.PlatformPC, Name: "PC", Description: "Windows, macOS and Linux computers"},
	{ID: models.PlatformPlayStation, Name: "PlayStation", Description: "Sony PlayStation consoles"},
	{ID: models.PlatformXbox, Name: "Xbox", Description: "Microsoft Xbox consoles"},
}

// DefaultCategories fill an empty category table so the admin game form has boxes to check.
var DefaultCategories = []models.Category{
	{Name: "Action", Description: "Fast reflexes and combat"},
	{Name: "First-Person Shooter", Description: "Gunplay seen through the player's eyes"},
	{Name: "Competitive", Description: "Ranked play against other players"},
	{Name: "Co-op", Description: "Played together with friends"},
	{Name: "Adventure", Description: "Exploration and discovery"},
	{Name: "Sandbox", Description: "Open-ended play without a fixed goal"},
	{Name: "Crafting", Description: "Gather resources and build tools"},
	{Name: "Open World", Description: "A large world to roam freely"},
	{Name: "Simulation", Description: "Realistic recreation of an activity"},
	{Name: "Building", Description: "Construct structures and worlds"},
	{Name: "Multiplayer", Description: "Played online with others"},
	{Name: "Battle Royale", Description: "Last player or team standing wins"},
	{Name: "Survival", Description: "Stay alive against the world"},
	{Name: "RPG", Description: "Grow a character through quests"},
	{Name: "Fantasy", Description: "Magic and myth"},
	{Name: "MOBA", Description: "Team strategy in lanes"},
	{Name: "Story Rich", Description: "Narrative first"},
	{Name: "Hack and Slash", Description: "Melee combat against crowds"},
	{Name: "Anime", Description: "Japanese animation style"},
	{Name: "Stealth", Description: "Avoid detection"},
	{Name: "Crime", Description: "Heists and the underworld"},
	{Name: "Racing", Description: "Cars, tracks and lap times"},
	{Name: "Dungeon Crawler", Description: "Clear dungeons for loot"},
	{Name: "Sci-Fi", Description: "Science fiction settings"},
}

// Migrate creates or updates every table, seeds DefaultPlatforms and fills an empty
// category table with DefaultCategories.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Game{},
		&models.Category{},
		&models.Platform{},
		&models.Account{},
		&models.SystemRequirement{},
		&models.GamePlatformDetail{},
		&models.GameCategory{},
		&models.GamePlatform{},
		&models.Review{},
	); err != nil {
		return fmt.Errorf("error migrating tables: %w", err)
	}

	platforms := make([]models.Platform, len(DefaultPlatforms))
	copy(platforms, DefaultPlatforms)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&platforms).Error; err != nil {
		return fmt.Errorf("error seeding platforms: %w", err)
	}

	// explicit ids do not advance a postgres sequence
	if db.Dialector.Name() == "postgres" {
		err := db.Exec("SELECT setval(pg_get_serial_sequence('platforms', 'id'), (SELECT MAX(id) FROM platforms))").Error
		if err != nil {
			return fmt.Errorf("error resetting platform sequence: %w", err)
		}
	}

	var categoryCount int64
	if err := db.Model(&models.Category{}).Count(&categoryCount).Error; err != nil {
		return fmt.Errorf("error counting categories: %w", err)
	}
	if categoryCount == 0 {
		categories := make([]models.Category, len(DefaultCategories))
		copy(categories, DefaultCategories)
		if err := db.Create(&categories).Error; err != nil {
			return fmt.Errorf("error seeding categories: %w", err)
		}
	}
	return nil
}
