package migration

import (
	"errors"

	"gorm.io/gorm"

	coreport "github.com/loomapp/credit-ledger/internal/domain/port/core"
	"github.com/loomapp/credit-ledger/internal/infrastructure/adapter/model"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.0.0"
)

// MigrationManager manages database migrations
type MigrationManager struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// MigrateAll performs all migrations
func (m *MigrationManager) MigrateAll() error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	if err := m.db.AutoMigrate(&model.MigrationVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	currentVersion, err := m.CurrentVersion()
	if err != nil {
		return err
	}
	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	// The users table is externally owned; migrating it here keeps a
	// self-contained deployment working and gives the ledger FKs a target.
	if err := m.db.AutoMigrate(
		&model.User{},
		&model.Account{},
		&model.Transaction{},
		&model.LedgerHold{},
	); err != nil {
		m.logger.Error("Failed to auto-migrate models", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := m.recordVersion(CurrentSchemaVersion, "ledger schema"); err != nil {
		return err
	}

	m.logger.Info("Database migrations completed", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// CurrentVersion returns the most recently applied schema version
func (m *MigrationManager) CurrentVersion() (string, error) {
	var version model.MigrationVersion
	result := m.db.Order("applied_at DESC").First(&version)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		m.logger.Error("Failed to check current schema version", map[string]any{
			"error": result.Error.Error(),
		})
		return "", result.Error
	}
	return version.Version, nil
}

func (m *MigrationManager) recordVersion(version, details string) error {
	record := model.MigrationVersion{
		Version:   version,
		AppliedAt: m.timeProvider.Now(),
		Details:   details,
	}
	if err := m.db.Create(&record).Error; err != nil {
		m.logger.Error("Failed to record schema version", map[string]any{
			"version": version,
			"error":   err.Error(),
		})
		return err
	}
	return nil
}
