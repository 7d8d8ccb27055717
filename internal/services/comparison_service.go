package services

import (
	"fmt"
	"time"

	"github.com/h4ks-com/coffee-catalog/internal/models"
)

type ComparisonSummary struct {
	Count                 int
	BestYield             *models.Variety
	CommonCharacteristics []string
}

type Comparison struct {
	Varieties  []models.Variety
	ComparedAt time.Time
	Summary    ComparisonSummary
}

type ComparisonService struct {
	varietyService *VarietyService
	now            func() time.Time
}

func NewComparisonService(varietyService *VarietyService) *ComparisonService {
	return &ComparisonService{varietyService: varietyService, now: time.Now}
}

// Compare loads the varieties in the order given. At least two distinct
// ids are required.
func (s *ComparisonService) Compare(ids []uint) (*Comparison, error) {
	ids = dedupe(ids)
	if len(ids) < 2 {
		return nil, validationf("at least two distinct varieties are required for a comparison")
	}

	varieties, err := s.varietyService.GetVarietiesByIDs(ids)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		Varieties:  varieties,
		ComparedAt: s.now(),
		Summary: ComparisonSummary{
			Count:                 len(varieties),
			BestYield:             bestYield(varieties),
			CommonCharacteristics: commonCharacteristics(varieties),
		},
	}, nil
}

// bestYield picks the highest rated variety. Ties go to the earliest one.
func bestYield(varieties []models.Variety) *models.Variety {
	var best *models.Variety
	for i := range varieties {
		v := &varieties[i]
		if v.YieldPotential == nil {
			continue
		}
		if best == nil || v.YieldPotential.Rank() > best.YieldPotential.Rank() {
			best = v
		}
	}
	return best
}

func commonCharacteristics(varieties []models.Variety) []string {
	var out []string
	if h, ok := firstShared(varieties, func(v models.Variety) string { return string(v.PlantHeight) }); ok {
		out = append(out, fmt.Sprintf("Common plant height: %s", models.Label(models.PlantHeight(h))))
	}
	if g, ok := firstShared(varieties, func(v models.Variety) string { return string(v.GrainSize) }); ok {
		out = append(out, fmt.Sprintf("Common grain size: %s", models.Label(models.GrainSize(g))))
	}
	if f, ok := firstShared(varieties, func(v models.Variety) string { return v.GeneticFamily }); ok {
		out = append(out, fmt.Sprintf("Common genetic family: %s", f))
	}
	return out
}

// firstShared returns the first value, in input order, held by more than
// one variety. Empty values are ignored.
func firstShared(varieties []models.Variety, key func(models.Variety) string) (string, bool) {
	counts := make(map[string]int, len(varieties))
	var order []string
	for _, v := range varieties {
		k := key(v)
		if k == "" {
			continue
		}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	for _, k := range order {
		if counts[k] > 1 {
			return k, true
		}
	}
	return "", false
}
