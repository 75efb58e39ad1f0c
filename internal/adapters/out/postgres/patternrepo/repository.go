// Package patternrepo answers pattern file lookups for the cutting gate.
package patternrepo

import (
	"context"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatternDTO is a style_patterns row. Any row for the style counts as a
// pattern on record.
type PatternDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID   string    `gorm:"size:64;not null;index:ix_patterns_style,priority:1"`
	StyleNo    string    `gorm:"size:64;not null;index:ix_patterns_style,priority:2"`
	FileURL    string    `gorm:"size:512;not null"`
	UploadedAt time.Time
}

// TableName specifies the database table name for pattern files.
func (PatternDTO) TableName() string {
	return "style_patterns"
}

// GormPatternRepository implements ports.PatternRepository using GORM.
type GormPatternRepository struct {
	db *gorm.DB
}

var _ ports.PatternRepository = (*GormPatternRepository)(nil)

// NewGormPatternRepository creates a new GORM pattern repository.
func NewGormPatternRepository(db *gorm.DB) *GormPatternRepository {
	return &GormPatternRepository{db: db}
}

// HasPattern reports whether the style has at least one pattern file.
func (r *GormPatternRepository) HasPattern(ctx context.Context, tenant kernel.TenantID, styleNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PatternDTO{}).
		Where("tenant_id = ? AND style_no = ?", tenant.String(), styleNo).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
