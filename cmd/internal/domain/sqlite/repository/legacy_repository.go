package repository

import (
	"gorm.io/gorm"
	"indicacoes/cmd/internal/domain/entity"
)

type DefaultLegacyRepository struct {
	db *gorm.DB
}

func NewLegacyRepository(db *gorm.DB) *DefaultLegacyRepository {
	return &DefaultLegacyRepository{db: db}
}

// FindIndicadores returns every legacy referrer in id order.
func (d *DefaultLegacyRepository) FindIndicadores() ([]*entity.LegacyIndicador, error) {
	var rows []*entity.LegacyIndicador
	err := d.db.Order("id").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *DefaultLegacyRepository) FindIndicacoes() ([]*entity.LegacyIndicacao, error) {
	var rows []*entity.LegacyIndicacao
	err := d.db.Order("id").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
