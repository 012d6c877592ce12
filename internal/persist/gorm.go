package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres SQLSTATEs that mean the server ran out of room.
const (
	sqlStateDiskFull     = "53100"
	sqlStateOutOfMemory  = "53200"
	sqlStateProgramLimit = "54000"
)

// Record is one stored value.
type Record struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (Record) TableName() string { return "lineup_records" }

// Gorm keeps values in a single key/value table.
type Gorm struct {
	db       *gorm.DB
	maxValue int
}

// NewGorm migrates the records table. A positive maxValueBytes rejects larger
// values with ErrStorageFull before they reach the database.
func NewGorm(db *gorm.DB, maxValueBytes int) (*Gorm, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate records table: %w", err)
	}
	return &Gorm{db: db, maxValue: maxValueBytes}, nil
}

func (g *Gorm) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var rec Record
	err := g.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load %q: %w", key, err)
	}
	return rec.Value, true, nil
}

func (g *Gorm) Save(ctx context.Context, key string, value []byte) error {
	if g.maxValue > 0 && len(value) > g.maxValue {
		return fmt.Errorf("save %q: %d bytes over limit %d: %w", key, len(value), g.maxValue, ErrStorageFull)
	}
	rec := Record{Key: key, Value: value}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		if isStorageFull(err) {
			return fmt.Errorf("save %q: %v: %w", key, err, ErrStorageFull)
		}
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	return nil
}

func (g *Gorm) Remove(ctx context.Context, key string) error {
	if err := g.db.WithContext(ctx).Where("key = ?", key).Delete(&Record{}).Error; err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

func isStorageFull(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case sqlStateDiskFull, sqlStateOutOfMemory, sqlStateProgramLimit:
		return true
	}
	return false
}
