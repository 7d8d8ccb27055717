package repository

import (
	"fmt"
	"time"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VarietyRepository struct {
	db *gorm.DB
}

func NewVarietyRepository(db *gorm.DB) *VarietyRepository {
	return &VarietyRepository{db: db}
}

// GroupCount is one row of an aggregate by a single column. A nil Name
// collects the rows where the column is null.
type GroupCount struct {
	Name  *string
	Total int64
}

var groupColumns = map[string]bool{
	"plant_height":    true,
	"grain_size":      true,
	"yield_potential": true,
	"genetic_family":  true,
	"breeder":         true,
	"status":          true,
}

func withAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Preload("Resistances.Resistance")
}

func byName(db *gorm.DB) *gorm.DB {
	return db.Order("common_name ASC").Order("id ASC")
}

// Create inserts the variety and its images and resistance associations.
// Callers run it inside a transaction.
func (r *VarietyRepository) Create(tx *gorm.DB, variety *models.Variety) error {
	if err := tx.Omit(clause.Associations).Create(variety).Error; err != nil {
		return err
	}
	return r.createAssociations(tx, variety)
}

// Update overwrites every column and replaces both association sets.
func (r *VarietyRepository) Update(tx *gorm.DB, variety *models.Variety) error {
	if err := tx.Omit(clause.Associations).Save(variety).Error; err != nil {
		return err
	}
	if err := r.deleteAssociations(tx, variety.ID); err != nil {
		return err
	}
	return r.createAssociations(tx, variety)
}

func (r *VarietyRepository) createAssociations(tx *gorm.DB, variety *models.Variety) error {
	for i := range variety.Images {
		variety.Images[i].ID = 0
		variety.Images[i].VarietyID = variety.ID
	}
	for i := range variety.Resistances {
		variety.Resistances[i].VarietyID = variety.ID
	}
	if len(variety.Images) > 0 {
		if err := tx.Create(&variety.Images).Error; err != nil {
			return err
		}
	}
	if len(variety.Resistances) > 0 {
		if err := tx.Omit("Resistance").Create(&variety.Resistances).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *VarietyRepository) deleteAssociations(tx *gorm.DB, id uint) error {
	if err := tx.Where("variety_id = ?", id).Delete(&models.VarietyImage{}).Error; err != nil {
		return err
	}
	return tx.Where("variety_id = ?", id).Delete(&models.VarietyResistance{}).Error
}

// Delete removes the variety row together with its images and associations.
func (r *VarietyRepository) Delete(tx *gorm.DB, id uint) (int64, error) {
	if err := r.deleteAssociations(tx, id); err != nil {
		return 0, err
	}
	result := tx.Delete(&models.Variety{}, id)
	return result.RowsAffected, result.Error
}

func (r *VarietyRepository) FindByID(id uint) (*models.Variety, error) {
	var variety models.Variety
	err := withAssociations(r.db).First(&variety, id).Error
	if err != nil {
		return nil, err
	}
	return &variety, nil
}

func (r *VarietyRepository) FindByIDInTx(tx *gorm.DB, id uint) (*models.Variety, error) {
	var variety models.Variety
	err := tx.First(&variety, id).Error
	if err != nil {
		return nil, err
	}
	return &variety, nil
}

// FindByIDs returns the matching varieties in no particular order.
func (r *VarietyRepository) FindByIDs(ids []uint) ([]models.Variety, error) {
	var varieties []models.Variety
	if len(ids) == 0 {
		return varieties, nil
	}
	err := withAssociations(r.db).Where("id IN ?", ids).Find(&varieties).Error
	return varieties, err
}

func (r *VarietyRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Variety{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// FindAll lists every variety that is not deleted, sorted by common name.
func (r *VarietyRepository) FindAll(preload bool) ([]models.Variety, error) {
	return r.Find(VarietyFilter{}, preload)
}

// Find returns every variety matching filter, sorted by common name.
func (r *VarietyRepository) Find(filter VarietyFilter, preload bool) ([]models.Variety, error) {
	var varieties []models.Variety
	db := filter.apply(r.db.Model(&models.Variety{}))
	if preload {
		db = withAssociations(db)
	}
	err := byName(db).Find(&varieties).Error
	return varieties, err
}

func (r *VarietyRepository) Count(filter VarietyFilter) (int64, error) {
	var count int64
	err := filter.apply(r.db.Model(&models.Variety{})).Count(&count).Error
	return count, err
}

// FindPage returns one 1-based page of the filtered set and the size of
// the whole set.
func (r *VarietyRepository) FindPage(filter VarietyFilter, page, size int) ([]models.Variety, int64, error) {
	total, err := r.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	var varieties []models.Variety
	offset := (page - 1) * size
	err = byName(withAssociations(filter.apply(r.db.Model(&models.Variety{})))).
		Offset(offset).
		Limit(size).
		Find(&varieties).Error
	return varieties, total, err
}

func (r *VarietyRepository) Search(term string) ([]models.Variety, error) {
	return r.Find(VarietyFilter{Search: term}, true)
}

func (r *VarietyRepository) FindByCreator(userID uint) ([]models.Variety, error) {
	var varieties []models.Variety
	err := byName(withAssociations(r.db)).
		Where("created_by_id = ? AND status <> ?", userID, string(models.StatusDeleted)).
		Find(&varieties).Error
	return varieties, err
}

// IsCommonNameUnique reports whether no other variety uses name, compared
// case-insensitively. excludeID skips the variety being updated; pass 0
// when creating.
func (r *VarietyRepository) IsCommonNameUnique(name string, excludeID uint) (bool, error) {
	return r.isUnique("name_key", models.FoldKey(name), excludeID)
}

func (r *VarietyRepository) IsScientificNameUnique(name string, excludeID uint) (bool, error) {
	key := models.FoldKey(name)
	if key == "" {
		return true, nil
	}
	return r.isUnique("scientific_name_key", key, excludeID)
}

func (r *VarietyRepository) isUnique(column, key string, excludeID uint) (bool, error) {
	var count int64
	db := r.db.Model(&models.Variety{}).Where(column+" = ?", key)
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count == 0, err
}

func (r *VarietyRepository) UpdateStatus(id uint, status models.Status) (int64, error) {
	result := r.db.Model(&models.Variety{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// CountBy aggregates the non-deleted varieties by one of the enum or text
// columns.
func (r *VarietyRepository) CountBy(column string) ([]GroupCount, error) {
	if !groupColumns[column] {
		return nil, fmt.Errorf("cannot group varieties by %q", column)
	}
	var rows []GroupCount
	err := r.db.Model(&models.Variety{}).
		Select(column + " AS name, COUNT(*) AS total").
		Where("status <> ?", string(models.StatusDeleted)).
		Group(column).
		Order(column).
		Scan(&rows).Error
	return rows, err
}
