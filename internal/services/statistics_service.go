package services

import (
	"time"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"github.com/h4ks-com/coffee-catalog/internal/repository"
)

// Statistics counts the varieties that are not deleted.
type Statistics struct {
	Total            int64
	Active           int64
	Inactive         int64
	ByPlantHeight    map[string]int64
	ByGrainSize      map[string]int64
	ByYieldPotential map[string]int64
	ByGeneticFamily  map[string]int64
	ByBreeder        map[string]int64
}

func (s *Statistics) ActivePercentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Active) / float64(s.Total) * 100
}

type ReportRow struct {
	ID              uint
	CommonName      string
	ScientificName  string
	PlantHeight     string
	GrainSize       string
	YieldPotential  string
	AltitudeRange   string
	GeneticGroup    string
	Status          string
	CreatedAt       time.Time
	ResistanceCount int
	ImageCount      int
}

type StatisticsService struct {
	varietyRepo *repository.VarietyRepository
}

func NewStatisticsService(varietyRepo *repository.VarietyRepository) *StatisticsService {
	return &StatisticsService{varietyRepo: varietyRepo}
}

func (s *StatisticsService) countBy(column string) (map[string]int64, error) {
	rows, err := s.varietyRepo.CountBy(column)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		if row.Name == nil || *row.Name == "" {
			continue
		}
		out[*row.Name] = row.Total
	}
	return out, nil
}

func (s *StatisticsService) GetStatistics() (*Statistics, error) {
	stats := &Statistics{}

	byStatus, err := s.countBy("status")
	if err != nil {
		return nil, err
	}
	stats.Active = byStatus[string(models.StatusActive)]
	stats.Inactive = byStatus[string(models.StatusInactive)]
	stats.Total = stats.Active + stats.Inactive

	dims := []struct {
		column string
		dest   *map[string]int64
	}{
		{"plant_height", &stats.ByPlantHeight},
		{"grain_size", &stats.ByGrainSize},
		{"yield_potential", &stats.ByYieldPotential},
		{"genetic_family", &stats.ByGeneticFamily},
		{"breeder", &stats.ByBreeder},
	}
	for _, d := range dims {
		counts, err := s.countBy(d.column)
		if err != nil {
			return nil, err
		}
		*d.dest = counts
	}

	return stats, nil
}

// GetReport flattens every listed variety into a display row.
func (s *StatisticsService) GetReport() ([]ReportRow, error) {
	varieties, err := s.varietyRepo.FindAll(true)
	if err != nil {
		return nil, err
	}

	rows := make([]ReportRow, len(varieties))
	for i := range varieties {
		v := &varieties[i]
		group := v.GeneticGroup
		if group == "" {
			group = "N/A"
		}
		rows[i] = ReportRow{
			ID:              v.ID,
			CommonName:      v.CommonName,
			ScientificName:  v.ScientificName,
			PlantHeight:     models.Label(v.PlantHeight),
			GrainSize:       models.Label(v.GrainSize),
			YieldPotential:  v.YieldLabel(),
			AltitudeRange:   v.AltitudeRange(),
			GeneticGroup:    group,
			Status:          models.Label(v.Status),
			CreatedAt:       v.CreatedAt,
			ResistanceCount: len(v.Resistances),
			ImageCount:      len(v.Images),
		}
	}
	return rows, nil
}
