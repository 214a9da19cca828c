package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// HistoryManager persists one record per measured command to a sqlite
// database. It implements the session's Recorder interface; persistence is
// best effort and callers are expected to swallow errors.
type HistoryManager struct {
	db *gorm.DB
}

// CommandRecord is one measured command invocation.
type CommandRecord struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	Command    string
	DurationMs float64
	ExitCode   sql.NullInt32
	StartedAt  time.Time
	FinishedAt time.Time
}

const historySchemaVersion = 1

func NewHistoryManager(dbFilePath string) (*HistoryManager, error) {
	dbFileExists := true
	if _, err := os.Stat(dbFilePath); errors.Is(err, os.ErrNotExist) {
		dbFileExists = false
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "error checking history db: %v\n", err)
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database")
		return nil, err
	}

	if needsMigration(dbFileExists, dbFilePath, db) {
		if err := db.AutoMigrate(&CommandRecord{}); err != nil {
			fmt.Fprintf(os.Stderr, "error auto-migrating database schema: %v\n", err)
			return nil, err
		}
		if err := writeSchemaVersion(dbFilePath, historySchemaVersion); err != nil {
			fmt.Fprintf(os.Stderr, "error writing history schema version: %v\n", err)
			return nil, err
		}
	}

	return &HistoryManager{
		db: db,
	}, nil
}

func needsMigration(dbFileExists bool, dbFilePath string, db *gorm.DB) bool {
	if !dbFileExists {
		return true
	}

	versionMatches, err := schemaVersionMatches(dbFilePath)
	if err != nil || !versionMatches {
		return true
	}

	// If the version marker is present but the table is missing (corruption or manual deletion),
	// re-run migrations to restore the schema.
	return !db.Migrator().HasTable(&CommandRecord{})
}

func writeSchemaVersion(dbFilePath string, version int) error {
	return os.WriteFile(schemaVersionPath(dbFilePath), []byte(strconv.Itoa(version)), 0644)
}

func schemaVersionMatches(dbFilePath string) (bool, error) {
	data, err := os.ReadFile(schemaVersionPath(dbFilePath))
	if err != nil {
		return false, err
	}
	trimmed := strings.TrimSpace(string(data))
	version, err := strconv.Atoi(trimmed)
	if err != nil {
		return false, err
	}
	if version != historySchemaVersion {
		return false, fmt.Errorf("history schema version mismatch: got %d, want %d", version, historySchemaVersion)
	}
	return true, nil
}

// schemaVersionPath keeps the version marker next to the database file so
// a relocated database carries its marker along.
func schemaVersionPath(dbFilePath string) string {
	return dbFilePath + ".version"
}

// Record persists one measured command. It satisfies instrument.Recorder.
func (historyManager *HistoryManager) Record(commandLine string, durationMs float64, exitCode int, start, end time.Time) error {
	record := CommandRecord{
		Command:    commandLine,
		DurationMs: durationMs,
		ExitCode:   sql.NullInt32{Int32: int32(exitCode), Valid: true},
		StartedAt:  start,
		FinishedAt: end,
	}

	result := historyManager.db.Create(&record)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// GetRecentRecords returns up to limit records, oldest first.
func (historyManager *HistoryManager) GetRecentRecords(limit int) ([]CommandRecord, error) {
	var records []CommandRecord
	result := historyManager.db.Order("created_at desc").Limit(limit).Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	slices.Reverse(records)
	return records, nil
}

// SearchRecords returns records whose command contains the given
// substring, most recent first.
func (historyManager *HistoryManager) SearchRecords(query string, limit int) ([]CommandRecord, error) {
	var records []CommandRecord
	result := historyManager.db.Where("command LIKE ?", "%"+query+"%").
		Order("created_at desc").
		Limit(limit).
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

// ResetHistory deletes all persisted records.
func (historyManager *HistoryManager) ResetHistory() error {
	result := historyManager.db.Exec("DELETE FROM command_records")
	if result.Error != nil {
		return result.Error
	}

	return nil
}
