package templaterepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/kernel"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/domain/model/template"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormTemplateRepository implements ports.TemplateRepository using GORM.
type GormTemplateRepository struct {
	db *gorm.DB
}

var _ ports.TemplateRepository = (*GormTemplateRepository)(nil)

// NewGormTemplateRepository creates a new GORM template repository.
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindActive returns the template of one (tenant, type, style) scope.
func (r *GormTemplateRepository) FindActive(
	ctx context.Context,
	tenant kernel.TenantID,
	kind template.Type,
	styleNo string,
) (*template.Library, error) {
	var dto TemplateDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND template_type = ? AND style_no = ?", tenant.String(), string(kind), styleNo).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("template", fmt.Sprintf("%s/%s/%s", tenant, kind, styleNo))
		}
		return nil, err
	}

	return toDomain(dto)
}

// Add saves a new template.
func (r *GormTemplateRepository) Add(ctx context.Context, aggregate *template.Library) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes a revision or a lock change.
func (r *GormTemplateRepository) Update(ctx context.Context, aggregate *template.Library) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&TemplateDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"name":       dto.Name,
			"content":    dto.Content,
			"version":    dto.Version,
			"locked":     dto.Locked,
			"updated_at": dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("template", aggregate.ID().String())
	}
	return nil
}

// Get retrieves a template by ID regardless of tenant; callers check scope.
func (r *GormTemplateRepository) Get(ctx context.Context, id kernel.UUID) (*template.Library, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TemplateDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("template", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
