package services

import (
	"sort"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"github.com/h4ks-com/coffee-catalog/internal/repository"
)

const (
	scoreAltitude = 50
	scoreHeight   = 30
	scoreGrain    = 20
	scoreYield    = 40
)

// RecommendationRequest describes the grower's conditions. Every field is
// optional. Region is recorded but does not affect the ranking.
type RecommendationRequest struct {
	TargetAltitude *int
	PlantHeight    *models.PlantHeight
	GrainSize      *models.GrainSize
	MinYield       *models.YieldPotential
	Region         string
}

type Recommendation struct {
	Variety models.Variety
	Score   int
}

type RecommendationService struct {
	varietyRepo *repository.VarietyRepository
}

func NewRecommendationService(varietyRepo *repository.VarietyRepository) *RecommendationService {
	return &RecommendationService{varietyRepo: varietyRepo}
}

// Score adds up the weights of every preference the variety satisfies.
func Score(v *models.Variety, req RecommendationRequest) int {
	score := 0
	if req.TargetAltitude != nil && v.AltitudeMin != nil && v.AltitudeMax != nil &&
		*req.TargetAltitude >= *v.AltitudeMin && *req.TargetAltitude <= *v.AltitudeMax {
		score += scoreAltitude
	}
	if req.PlantHeight != nil && v.PlantHeight == *req.PlantHeight {
		score += scoreHeight
	}
	if req.GrainSize != nil && v.GrainSize == *req.GrainSize {
		score += scoreGrain
	}
	if req.MinYield != nil && v.YieldPotential != nil && v.YieldPotential.Rank() >= req.MinYield.Rank() {
		score += scoreYield
	}
	return score
}

func (s *RecommendationService) Recommend(req RecommendationRequest) ([]Recommendation, error) {
	filter := repository.VarietyFilter{
		PlantHeight: req.PlantHeight,
		GrainSize:   req.GrainSize,
		YieldMin:    req.MinYield,
	}

	if req.TargetAltitude != nil {
		target := *req.TargetAltitude
		if target < 0 || target > models.MaxAltitude {
			return nil, validationf("target altitude must be between 0 and %d", models.MaxAltitude)
		}
		tolerance := target / 10
		low, high := target-tolerance, target+tolerance
		filter.AltitudeMin = &low
		filter.AltitudeMax = &high
	}
	if req.PlantHeight != nil && !req.PlantHeight.Valid() {
		return nil, validationf("invalid plant height %q", *req.PlantHeight)
	}
	if req.GrainSize != nil && !req.GrainSize.Valid() {
		return nil, validationf("invalid grain size %q", *req.GrainSize)
	}
	if req.MinYield != nil && !req.MinYield.Valid() {
		return nil, validationf("invalid yield potential %q", *req.MinYield)
	}

	// The widened window may collapse to a single point, so it bypasses
	// the min < max rule applied to user filters.
	varieties, err := s.varietyRepo.Find(filter, true)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, len(varieties))
	for i := range varieties {
		recs[i] = Recommendation{Variety: varieties[i], Score: Score(&varieties[i], req)}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	return recs, nil
}

func (s *RecommendationService) DiseaseResistant() ([]models.Variety, error) {
	return s.varietyRepo.Find(repository.VarietyFilter{
		Resistances: map[models.ResistanceType]models.ResistanceLevel{
			models.ResistanceRust: models.LevelTolerant,
		},
	}, true)
}

// HighYield lists varieties rated high or better, best first.
func (s *RecommendationService) HighYield() ([]models.Variety, error) {
	min := models.YieldHigh
	varieties, err := s.varietyRepo.Find(repository.VarietyFilter{YieldMin: &min}, true)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(varieties, func(i, j int) bool {
		return varieties[i].YieldPotential.Rank() > varieties[j].YieldPotential.Rank()
	})
	return varieties, nil
}

// BeginnerFriendly lists varieties that are both disease resistant and
// high-yield.
func (s *RecommendationService) BeginnerFriendly() ([]models.Variety, error) {
	min := models.YieldHigh
	return s.varietyRepo.Find(repository.VarietyFilter{
		YieldMin: &min,
		Resistances: map[models.ResistanceType]models.ResistanceLevel{
			models.ResistanceRust: models.LevelTolerant,
		},
	}, true)
}

func validateThreshold(altitude int) error {
	if altitude < 0 || altitude > models.MaxAltitude {
		return validationf("altitude must be between 0 and %d", models.MaxAltitude)
	}
	return nil
}

func byMinAltitude(varieties []models.Variety) {
	minOf := func(v models.Variety) int {
		if v.AltitudeMin == nil {
			return 0
		}
		return *v.AltitudeMin
	}
	sort.SliceStable(varieties, func(i, j int) bool { return minOf(varieties[i]) < minOf(varieties[j]) })
}

// HighAltitude lists varieties that can grow at or above altitude.
func (s *RecommendationService) HighAltitude(altitude int) ([]models.Variety, error) {
	if err := validateThreshold(altitude); err != nil {
		return nil, err
	}
	varieties, err := s.varietyRepo.Find(repository.VarietyFilter{AltitudeMin: &altitude}, true)
	if err != nil {
		return nil, err
	}
	byMinAltitude(varieties)
	return varieties, nil
}

// LowAltitude lists varieties that can grow at or below altitude.
func (s *RecommendationService) LowAltitude(altitude int) ([]models.Variety, error) {
	if err := validateThreshold(altitude); err != nil {
		return nil, err
	}
	varieties, err := s.varietyRepo.Find(repository.VarietyFilter{AltitudeMax: &altitude}, true)
	if err != nil {
		return nil, err
	}
	byMinAltitude(varieties)
	return varieties, nil
}
