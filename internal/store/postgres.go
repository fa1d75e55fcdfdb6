package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hoopdesk/gm-league-backend/internal/engine"
)

// LeagueRecord is the persisted row: the full aggregate as one JSON document.
type LeagueRecord struct {
	ID        string `gorm:"primaryKey;size:64"`
	Doc       []byte `gorm:"type:jsonb;not null"`
	Version   int64  `gorm:"not null"`
	UpdatedAt time.Time
}

func (LeagueRecord) TableName() string { return "league_records" }

type Postgres struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&LeagueRecord{}); err != nil {
		return nil, fmt.Errorf("migrate league_records: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (s *Postgres) Load(ctx context.Context, id string) (*engine.League, error) {
	var rec LeagueRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var l engine.League
	if err := json.Unmarshal(rec.Doc, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return &l, nil
}

func (s *Postgres) Save(ctx context.Context, l *engine.League) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return err
	}
	rec := LeagueRecord{ID: l.ID, Doc: doc, Version: l.Version, UpdatedAt: l.UpdatedAt}
	// Optimistic version check: the upsert only applies when the stored row
	// is older, so a stale writer cannot clobber a newer document.
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"doc", "version", "updated_at"}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Lt{Column: clause.Column{Table: "league_records", Name: "version"}, Value: rec.Version},
			}},
		}).
		Create(&rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
