package mobilesync

import (
	"context"
	"testing"

	"fieldsync.com/fieldsync/core/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	scheduleID1 = "64b0a1a1a1a1a1a1a1a1a1a1"
	scheduleID2 = "64b0a2a2a2a2a2a2a2a2a2a2"
	invoiceID1  = "64b0b1b1b1b1b1b1b1b1b1b1"
	photoID1    = "64b0c1c1c1c1c1c1c1c1c1c1"
	photoID2    = "64b0c2c2c2c2c2c2c2c2c2c2"
	missingID   = "64b0ffffffffffffffffffff"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A :memory: database exists per connection; pin the pool to one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Schedule{}, &models.Invoice{}, &models.Photo{},
		&models.Availability{}, &models.TimeOffRequest{},
		&models.PayrollPeriod{}, &models.Report{}, &models.ExpoPushToken{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedSchedule(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	rec := models.Schedule{
		ID:           id,
		TechnicianID: "tech-1",
		Date:         "2026-03-02",
		StartTime:    "08:00",
		EndTime:      "16:00",
		Status:       "scheduled",
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed schedule: %v", err)
	}
}

func seedInvoice(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	rec := models.Invoice{ID: id, ClientID: "64b0d1d1d1d1d1d1d1d1d1d1", AmountDue: 150, Status: "draft"}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
}

type fakeBlobStore struct {
	status string
	err    error
	calls  []string
}

func (f *fakeBlobStore) Destroy(_ context.Context, publicID string) (string, error) {
	f.calls = append(f.calls, publicID)
	return f.status, f.err
}

// testExecutor satisfies DBExecutor over the in-memory test database.
type testExecutor struct {
	db *gorm.DB
}

func (e testExecutor) Exec(ctx context.Context, fn func(db *gorm.DB) error) error {
	return fn(e.db.WithContext(ctx))
}
