// Package templaterepo persists the template library. Content is stored as a
// jsonb document.
package templaterepo

import (
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TemplateDTO is the template_libraries row. An empty tenant marks a global
// default, an empty style a tenant default.
type TemplateDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantID     string         `gorm:"size:64;not null;default:'';uniqueIndex:ux_templates_scope,priority:1"`
	TemplateType string         `gorm:"size:16;not null;uniqueIndex:ux_templates_scope,priority:2"`
	StyleNo      string         `gorm:"size:64;not null;default:'';uniqueIndex:ux_templates_scope,priority:3"`
	Name         string         `gorm:"size:128;not null"`
	Content      datatypes.JSON `gorm:"type:jsonb;not null"`
	Version      int            `gorm:"not null"`
	Locked       bool           `gorm:"not null;default:false"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime:false"`
}

// TableName specifies the database table name for templates.
func (TemplateDTO) TableName() string {
	return "template_libraries"
}

func fromDomain(l *template.Library) TemplateDTO {
	return TemplateDTO{
		ID:           l.ID().Bytes(),
		TenantID:     l.Tenant().String(),
		TemplateType: string(l.Type()),
		StyleNo:      l.StyleNo(),
		Name:         l.Name(),
		Content:      datatypes.JSON(l.Content()),
		Version:      l.Version(),
		Locked:       l.Locked(),
		UpdatedAt:    l.UpdatedAt(),
	}
}

func toDomain(dto TemplateDTO) (*template.Library, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	kind, err := template.ParseType(dto.TemplateType)
	if err != nil {
		return nil, err
	}

	return template.RestoreLibrary(
		id,
		kernel.RestoreTenantID(dto.TenantID),
		kind,
		dto.StyleNo,
		dto.Name,
		[]byte(dto.Content),
		dto.Version,
		dto.Locked,
		dto.UpdatedAt,
	)
}
