package repository

import (
	"github.com/h4ks-com/coffee-catalog/internal/models"
	"gorm.io/gorm"
)

type ResistanceRepository struct {
	db *gorm.DB
}

func NewResistanceRepository(db *gorm.DB) *ResistanceRepository {
	return &ResistanceRepository{db: db}
}

func (r *ResistanceRepository) FindAll() ([]models.Resistance, error) {
	var resistances []models.Resistance
	err := r.db.Order("id").Find(&resistances).Error
	return resistances, err
}

// ByType indexes the seeded reference rows by their type.
func (r *ResistanceRepository) ByType(tx *gorm.DB) (map[models.ResistanceType]models.Resistance, error) {
	var resistances []models.Resistance
	if err := tx.Find(&resistances).Error; err != nil {
		return nil, err
	}
	out := make(map[models.ResistanceType]models.Resistance, len(resistances))
	for _, res := range resistances {
		out[res.Type] = res
	}
	return out, nil
}
