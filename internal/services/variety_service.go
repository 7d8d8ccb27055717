package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"github.com/h4ks-com/coffee-catalog/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrValidation              = errors.New("validation failed")
	ErrVarietyNotFound         = errors.New("variety not found")
	ErrDuplicateCommonName     = errors.New("a variety with this common name already exists")
	ErrDuplicateScientificName = errors.New("a variety with this scientific name already exists")
)

// VarietyInput carries the user-editable fields of a variety. Enum fields
// take the stored English names or their Spanish spellings.
type VarietyInput struct {
	CommonName     string            `json:"common_name" yaml:"common_name"`
	ScientificName string            `json:"scientific_name,omitempty" yaml:"scientific_name,omitempty"`
	Description    string            `json:"description,omitempty" yaml:"description,omitempty"`
	PlantHeight    string            `json:"plant_height" yaml:"plant_height"`
	GrainSize      string            `json:"grain_size" yaml:"grain_size"`
	AltitudeMin    *int              `json:"altitude_min,omitempty" yaml:"altitude_min,omitempty"`
	AltitudeMax    *int              `json:"altitude_max,omitempty" yaml:"altitude_max,omitempty"`
	YieldPotential string            `json:"yield_potential,omitempty" yaml:"yield_potential,omitempty"`
	GrainQuality   string            `json:"grain_quality,omitempty" yaml:"grain_quality,omitempty"`
	History        string            `json:"history,omitempty" yaml:"history,omitempty"`
	Breeder        string            `json:"breeder,omitempty" yaml:"breeder,omitempty"`
	GeneticFamily  string            `json:"genetic_family,omitempty" yaml:"genetic_family,omitempty"`
	GeneticGroup   string            `json:"genetic_group,omitempty" yaml:"genetic_group,omitempty"`
	Resistances    map[string]string `json:"resistances,omitempty" yaml:"resistances,omitempty"`
	Images         []ImageInput      `json:"images,omitempty" yaml:"images,omitempty"`
	CreatedByID    *uint             `json:"-" yaml:"-"`
}

type ImageInput struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// InputFromVariety is the inverse of applying an input, used to prefill
// edits and to export the catalog.
func InputFromVariety(v *models.Variety) VarietyInput {
	input := VarietyInput{
		CommonName:     v.CommonName,
		ScientificName: v.ScientificName,
		Description:    v.Description,
		PlantHeight:    string(v.PlantHeight),
		GrainSize:      string(v.GrainSize),
		AltitudeMin:    v.AltitudeMin,
		AltitudeMax:    v.AltitudeMax,
		History:        v.History,
		Breeder:        v.Breeder,
		GeneticFamily:  v.GeneticFamily,
		GeneticGroup:   v.GeneticGroup,
		CreatedByID:    v.CreatedByID,
	}
	if v.YieldPotential != nil {
		input.YieldPotential = string(*v.YieldPotential)
	}
	if v.GrainQuality != nil {
		input.GrainQuality = string(*v.GrainQuality)
	}
	if len(v.Resistances) > 0 {
		input.Resistances = make(map[string]string, len(v.Resistances))
		for _, r := range v.Resistances {
			if r.Resistance != nil {
				input.Resistances[string(r.Resistance.Type)] = string(r.Level)
			}
		}
	}
	for _, img := range v.Images {
		input.Images = append(input.Images, ImageInput{URL: img.ImageURL, Description: img.Description})
	}
	return input
}

// PagedResult is one page of a filtered listing.
type PagedResult struct {
	Items      []models.Variety
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

func (p *PagedResult) HasPrevious() bool { return p.Page > 1 }
func (p *PagedResult) HasNext() bool     { return p.Page < p.TotalPages }

// DisplayRange describes the slice of the full set on this page, "1-10 of 25".
func (p *PagedResult) DisplayRange() string {
	if len(p.Items) == 0 {
		return fmt.Sprintf("0 of %d", p.Total)
	}
	start := (p.Page-1)*p.PageSize + 1
	end := start + len(p.Items) - 1
	return fmt.Sprintf("%d-%d of %d", start, end, p.Total)
}

type VarietyService struct {
	varietyRepo    *repository.VarietyRepository
	resistanceRepo *repository.ResistanceRepository
	db             *gorm.DB
}

func NewVarietyService(
	varietyRepo *repository.VarietyRepository,
	resistanceRepo *repository.ResistanceRepository,
	db *gorm.DB,
) *VarietyService {
	return &VarietyService{
		varietyRepo:    varietyRepo,
		resistanceRepo: resistanceRepo,
		db:             db,
	}
}

func notFound(id uint) error {
	return fmt.Errorf("%w: id %d", ErrVarietyNotFound, id)
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ValidateAltitudeRange rejects negative bounds, bounds above the maximum
// altitude, and a minimum that is not below the maximum.
func ValidateAltitudeRange(min, max *int) error {
	if min != nil && (*min < 0 || *min > models.MaxAltitude) {
		return validationf("minimum altitude must be between 0 and %d", models.MaxAltitude)
	}
	if max != nil && (*max < 0 || *max > models.MaxAltitude) {
		return validationf("maximum altitude must be between 0 and %d", models.MaxAltitude)
	}
	if min != nil && max != nil && *min >= *max {
		return validationf("minimum altitude must be lower than maximum altitude")
	}
	return nil
}

type parsedInput struct {
	variety     models.Variety
	resistances map[models.ResistanceType]models.ResistanceLevel
}

func checkLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return validationf("%s must be at most %d characters", field, max)
	}
	return nil
}

func parseInput(input VarietyInput) (*parsedInput, error) {
	name := strings.TrimSpace(input.CommonName)
	if name == "" {
		return nil, validationf("common name is required")
	}

	v := models.Variety{
		CommonName:     name,
		ScientificName: strings.TrimSpace(input.ScientificName),
		Description:    strings.TrimSpace(input.Description),
		AltitudeMin:    input.AltitudeMin,
		AltitudeMax:    input.AltitudeMax,
		History:        strings.TrimSpace(input.History),
		Breeder:        strings.TrimSpace(input.Breeder),
		GeneticFamily:  strings.TrimSpace(input.GeneticFamily),
		GeneticGroup:   strings.TrimSpace(input.GeneticGroup),
		CreatedByID:    input.CreatedByID,
	}

	for _, c := range []struct {
		field, value string
		max          int
	}{
		{"common name", v.CommonName, 100},
		{"scientific name", v.ScientificName, 150},
		{"breeder", v.Breeder, 150},
		{"genetic family", v.GeneticFamily, 100},
		{"genetic group", v.GeneticGroup, 100},
	} {
		if err := checkLength(c.field, c.value, c.max); err != nil {
			return nil, err
		}
	}

	var err error
	if v.PlantHeight, err = models.ParsePlantHeight(input.PlantHeight); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if v.GrainSize, err = models.ParseGrainSize(input.GrainSize); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if strings.TrimSpace(input.YieldPotential) != "" {
		y, err := models.ParseYieldPotential(input.YieldPotential)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		v.YieldPotential = &y
	}
	if strings.TrimSpace(input.GrainQuality) != "" {
		q, err := models.ParseGrainQuality(input.GrainQuality)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		v.GrainQuality = &q
	}

	if err := ValidateAltitudeRange(v.AltitudeMin, v.AltitudeMax); err != nil {
		return nil, err
	}

	resistances := make(map[models.ResistanceType]models.ResistanceLevel, len(input.Resistances))
	for rawType, rawLevel := range input.Resistances {
		t, err := models.ParseResistanceType(rawType)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		level, err := models.ParseResistanceLevel(rawLevel)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		if _, dup := resistances[t]; dup {
			return nil, validationf("resistance %s given more than once", t)
		}
		resistances[t] = level
	}

	for _, img := range input.Images {
		url := strings.TrimSpace(img.URL)
		if url == "" {
			return nil, validationf("image URL is required")
		}
		if err := checkLength("image URL", url, 255); err != nil {
			return nil, err
		}
		v.Images = append(v.Images, models.VarietyImage{
			ImageURL:    url,
			Description: strings.TrimSpace(img.Description),
		})
	}

	return &parsedInput{variety: v, resistances: resistances}, nil
}

func (s *VarietyService) attachResistances(tx *gorm.DB, v *models.Variety, levels map[models.ResistanceType]models.ResistanceLevel) error {
	v.Resistances = nil
	if len(levels) == 0 {
		return nil
	}
	byType, err := s.resistanceRepo.ByType(tx)
	if err != nil {
		return err
	}
	for _, t := range models.ResistanceTypes {
		level, ok := levels[t]
		if !ok {
			continue
		}
		res, ok := byType[t]
		if !ok {
			return fmt.Errorf("resistance %s is not seeded", t)
		}
		v.Resistances = append(v.Resistances, models.VarietyResistance{
			ResistanceID: res.ID,
			Level:        level,
		})
	}
	return nil
}

// translateWriteError maps a unique index violation onto the field that
// caused it.
func (s *VarietyService) translateWriteError(err error, v *models.Variety) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if unique, lookupErr := s.varietyRepo.IsCommonNameUnique(v.CommonName, v.ID); lookupErr == nil && !unique {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrDuplicateCommonName, v.CommonName)
	}
	if unique, lookupErr := s.varietyRepo.IsScientificNameUnique(v.ScientificName, v.ID); lookupErr == nil && !unique {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrDuplicateScientificName, v.ScientificName)
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func (s *VarietyService) CreateVariety(input VarietyInput) (*models.Variety, error) {
	return s.createWithStatus(input, models.StatusActive)
}

// createWithStatus inserts the variety already in the given status, in the
// same transaction as its associations.
func (s *VarietyService) createWithStatus(input VarietyInput, status models.Status) (*models.Variety, error) {
	if !status.Valid() {
		return nil, validationf("invalid status %q", status)
	}
	parsed, err := parseInput(input)
	if err != nil {
		return nil, err
	}
	variety := parsed.variety
	variety.Status = status

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.attachResistances(tx, &variety, parsed.resistances); err != nil {
			return err
		}
		return s.varietyRepo.Create(tx, &variety)
	})
	if err != nil {
		variety.ID = 0
		return nil, s.translateWriteError(err, &variety)
	}

	return s.varietyRepo.FindByID(variety.ID)
}

// UpdateVariety overwrites every editable field of the variety, replacing
// its images and resistances. Status and creator are kept.
func (s *VarietyService) UpdateVariety(id uint, input VarietyInput) (*models.Variety, error) {
	parsed, err := parseInput(input)
	if err != nil {
		return nil, err
	}

	var variety *models.Variety
	err = s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.varietyRepo.FindByIDInTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(id)
			}
			return err
		}

		updated := parsed.variety
		updated.ID = existing.ID
		updated.Status = existing.Status
		updated.CreatedByID = existing.CreatedByID
		updated.CreatedAt = existing.CreatedAt
		variety = &updated

		if err := s.attachResistances(tx, variety, parsed.resistances); err != nil {
			return err
		}
		return s.varietyRepo.Update(tx, variety)
	})
	if err != nil {
		if variety == nil {
			return nil, err
		}
		return nil, s.translateWriteError(err, variety)
	}

	return s.varietyRepo.FindByID(id)
}

func (s *VarietyService) GetVariety(id uint) (*models.Variety, error) {
	variety, err := s.varietyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, err
	}
	return variety, nil
}

// GetVarietiesByIDs returns the varieties in the order of ids. Repeated
// ids collapse to their first position.
func (s *VarietyService) GetVarietiesByIDs(ids []uint) ([]models.Variety, error) {
	ids = dedupe(ids)
	found, err := s.varietyRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Variety, len(found))
	for _, v := range found {
		byID[v.ID] = v
	}
	out := make([]models.Variety, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			return nil, notFound(id)
		}
		out = append(out, v)
	}
	return out, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *VarietyService) GetAllVarieties() ([]models.Variety, error) {
	return s.varietyRepo.FindAll(true)
}

func (s *VarietyService) VarietyExists(id uint) (bool, error) {
	return s.varietyRepo.Exists(id)
}

// DeleteVariety removes the variety and everything attached to it.
func (s *VarietyService) DeleteVariety(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		affected, err := s.varietyRepo.Delete(tx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return notFound(id)
		}
		return nil
	})
}

func (s *VarietyService) setStatus(id uint, status models.Status) error {
	affected, err := s.varietyRepo.UpdateStatus(id, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound(id)
	}
	return nil
}

func (s *VarietyService) ActivateVariety(id uint) error {
	return s.setStatus(id, models.StatusActive)
}

func (s *VarietyService) DeactivateVariety(id uint) error {
	return s.setStatus(id, models.StatusInactive)
}

// ArchiveVariety hides the variety from every listing without removing it.
func (s *VarietyService) ArchiveVariety(id uint) error {
	return s.setStatus(id, models.StatusDeleted)
}

func (s *VarietyService) IsCommonNameUnique(name string, excludeID uint) (bool, error) {
	return s.varietyRepo.IsCommonNameUnique(name, excludeID)
}

func (s *VarietyService) IsScientificNameUnique(name string, excludeID uint) (bool, error) {
	return s.varietyRepo.IsScientificNameUnique(name, excludeID)
}

func validateFilter(filter repository.VarietyFilter) error {
	if err := ValidateAltitudeRange(filter.AltitudeMin, filter.AltitudeMax); err != nil {
		return err
	}
	if filter.PlantHeight != nil && !filter.PlantHeight.Valid() {
		return validationf("invalid plant height %q", *filter.PlantHeight)
	}
	if filter.GrainSize != nil && !filter.GrainSize.Valid() {
		return validationf("invalid grain size %q", *filter.GrainSize)
	}
	for _, y := range []*models.YieldPotential{filter.YieldMin, filter.YieldMax} {
		if y != nil && !y.Valid() {
			return validationf("invalid yield potential %q", *y)
		}
	}
	for _, q := range []*models.GrainQuality{filter.QualityMin, filter.QualityMax} {
		if q != nil && !q.Valid() {
			return validationf("invalid grain quality %q", *q)
		}
	}
	for t, level := range filter.Resistances {
		if !t.Valid() || !level.Valid() {
			return validationf("invalid resistance filter %s=%s", t, level)
		}
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return validationf("invalid status %q", *filter.Status)
	}
	return nil
}

func (s *VarietyService) FilterVarieties(filter repository.VarietyFilter) ([]models.Variety, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	return s.varietyRepo.Find(filter, true)
}

func (s *VarietyService) ListVarietiesPaged(filter repository.VarietyFilter, page, pageSize int) (*PagedResult, error) {
	if page < 1 {
		return nil, validationf("page must be at least 1")
	}
	if pageSize < 1 {
		return nil, validationf("page size must be at least 1")
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	items, total, err := s.varietyRepo.FindPage(filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &PagedResult{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func (s *VarietyService) SearchVarieties(term string) ([]models.Variety, error) {
	if strings.TrimSpace(term) == "" {
		return s.GetAllVarieties()
	}
	return s.varietyRepo.Search(term)
}

func (s *VarietyService) GetByPlantHeight(height models.PlantHeight) ([]models.Variety, error) {
	if !height.Valid() {
		return nil, validationf("invalid plant height %q", height)
	}
	return s.FilterVarieties(repository.VarietyFilter{PlantHeight: &height})
}

func (s *VarietyService) GetByGrainSize(size models.GrainSize) ([]models.Variety, error) {
	if !size.Valid() {
		return nil, validationf("invalid grain size %q", size)
	}
	return s.FilterVarieties(repository.VarietyFilter{GrainSize: &size})
}

func (s *VarietyService) GetByMinimumYield(min models.YieldPotential) ([]models.Variety, error) {
	if !min.Valid() {
		return nil, validationf("invalid yield potential %q", min)
	}
	return s.FilterVarieties(repository.VarietyFilter{YieldMin: &min})
}

func (s *VarietyService) GetByAltitudeRange(min, max *int) ([]models.Variety, error) {
	return s.FilterVarieties(repository.VarietyFilter{AltitudeMin: min, AltitudeMax: max})
}

// GetByResistance defaults an empty level to tolerant.
func (s *VarietyService) GetByResistance(t models.ResistanceType, min models.ResistanceLevel) ([]models.Variety, error) {
	if min == "" {
		min = models.LevelTolerant
	}
	return s.FilterVarieties(repository.VarietyFilter{
		Resistances: map[models.ResistanceType]models.ResistanceLevel{t: min},
	})
}

func (s *VarietyService) GetByResistances(levels map[models.ResistanceType]models.ResistanceLevel) ([]models.Variety, error) {
	return s.FilterVarieties(repository.VarietyFilter{Resistances: levels})
}

func (s *VarietyService) GetByCreator(userID uint) ([]models.Variety, error) {
	return s.varietyRepo.FindByCreator(userID)
}
