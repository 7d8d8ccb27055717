package repository

import (
	"sort"
	"strings"
	"time"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"gorm.io/gorm"
)

// VarietyFilter narrows a variety query. Unset fields add no constraint.
// Range checks on the altitude bounds belong to the caller.
type VarietyFilter struct {
	PlantHeight *models.PlantHeight
	GrainSize   *models.GrainSize

	YieldMin   *models.YieldPotential
	YieldMax   *models.YieldPotential
	QualityMin *models.GrainQuality
	QualityMax *models.GrainQuality

	// Altitude bounds match by overlap with the stored range. A missing
	// stored bound never excludes a variety.
	AltitudeMin *int
	AltitudeMax *int

	GeneticGroup  string
	GeneticFamily string
	Breeder       string

	// Each entry requires an association of that type at or above the level.
	Resistances map[models.ResistanceType]models.ResistanceLevel

	CreatedFrom *time.Time
	CreatedTo   *time.Time

	Search string

	// Nil means every status except deleted, unless IncludeDeleted is set.
	Status         *models.Status
	IncludeDeleted bool
}

const likeEscape = "!"

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func likePattern(s string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

func like(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '" + likeEscape + "'"
}

var searchColumns = []string{
	"common_name", "scientific_name", "description",
	"genetic_group", "genetic_family", "breeder",
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func (f VarietyFilter) apply(db *gorm.DB) *gorm.DB {
	switch {
	case f.Status != nil:
		db = db.Where("status = ?", string(*f.Status))
	case !f.IncludeDeleted:
		db = db.Where("status <> ?", string(models.StatusDeleted))
	}

	if f.PlantHeight != nil {
		db = db.Where("plant_height = ?", string(*f.PlantHeight))
	}
	if f.GrainSize != nil {
		db = db.Where("grain_size = ?", string(*f.GrainSize))
	}

	if f.YieldMin != nil {
		db = db.Where("yield_potential IN ?", toStrings(f.YieldMin.AtLeast()))
	}
	if f.YieldMax != nil {
		db = db.Where("yield_potential IN ?", toStrings(f.YieldMax.AtMost()))
	}
	if f.QualityMin != nil {
		db = db.Where("grain_quality IN ?", toStrings(f.QualityMin.AtLeast()))
	}
	if f.QualityMax != nil {
		db = db.Where("grain_quality IN ?", toStrings(f.QualityMax.AtMost()))
	}

	if f.AltitudeMin != nil {
		db = db.Where("(altitude_max IS NULL OR altitude_max >= ?)", *f.AltitudeMin)
	}
	if f.AltitudeMax != nil {
		db = db.Where("(altitude_min IS NULL OR altitude_min <= ?)", *f.AltitudeMax)
	}

	if strings.TrimSpace(f.GeneticGroup) != "" {
		db = db.Where(like("genetic_group"), likePattern(f.GeneticGroup))
	}
	if strings.TrimSpace(f.GeneticFamily) != "" {
		db = db.Where(like("genetic_family"), likePattern(f.GeneticFamily))
	}
	if strings.TrimSpace(f.Breeder) != "" {
		db = db.Where(like("breeder"), likePattern(f.Breeder))
	}

	if len(f.Resistances) > 0 {
		types := make([]models.ResistanceType, 0, len(f.Resistances))
		for t := range f.Resistances {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		for _, t := range types {
			levels := f.Resistances[t].AtLeast()
			db = db.Where(`EXISTS (SELECT 1 FROM variety_resistances vr
				JOIN resistances r ON r.id = vr.resistance_id
				WHERE vr.variety_id = varieties.id AND r.type = ? AND vr.level IN ?)`,
				string(t), toStrings(levels))
		}
	}

	if f.CreatedFrom != nil {
		db = db.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		db = db.Where("created_at <= ?", *f.CreatedTo)
	}

	if strings.TrimSpace(f.Search) != "" {
		pattern := likePattern(f.Search)
		clauses := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, col := range searchColumns {
			clauses[i] = like(col)
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	return db
}
