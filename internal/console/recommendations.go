package console

import (
	"fmt"
	"strconv"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"github.com/h4ks-com/coffee-catalog/internal/services"
)

var recommendationOptions = []string{
	"Personalised suggestions",
	"Beginner farmer",
	"High altitude farming",
	"Low altitude farming",
	"High yield",
	"Disease resistant",
}

func (s *Session) recommendationsMenu() error {
	choice, err := s.menu("Recommendations", recommendationOptions, "Back")
	if err != nil || choice == 0 {
		return err
	}

	var (
		varieties []models.Variety
		title     string
	)
	switch choice {
	case 1:
		return s.personalised()
	case 2:
		title = "Varieties for beginner farmers"
		varieties, err = s.svc.Recommendations.BeginnerFriendly()
	case 3:
		var altitude int
		if altitude, err = s.askInt("Altitude (masl)"); err != nil {
			return err
		}
		title = fmt.Sprintf("Varieties for high altitude (%d+ masl)", altitude)
		varieties, err = s.svc.Recommendations.HighAltitude(altitude)
	case 4:
		var altitude int
		if altitude, err = s.askInt("Maximum altitude (masl)"); err != nil {
			return err
		}
		title = fmt.Sprintf("Varieties for low altitude (up to %d masl)", altitude)
		varieties, err = s.svc.Recommendations.LowAltitude(altitude)
	case 5:
		title = "High yield varieties"
		varieties, err = s.svc.Recommendations.HighYield()
	case 6:
		title = "Disease resistant varieties"
		varieties, err = s.svc.Recommendations.DiseaseResistant()
	}
	if err != nil {
		return err
	}

	s.out.Section(title)
	s.varietyTable(varieties)
	return nil
}

func (s *Session) personalised() error {
	s.out.Section("Personalised suggestions")
	var req services.RecommendationRequest
	var err error

	if req.TargetAltitude, err = s.askOptionalInt("Farm altitude (masl)", nil); err != nil {
		return err
	}
	h, err := choose(s, "Preferred plant height", models.PlantHeights, "", true)
	if err != nil {
		return err
	}
	if h != "" {
		req.PlantHeight = &h
	}
	g, err := choose(s, "Preferred grain size", models.GrainSizes, "", true)
	if err != nil {
		return err
	}
	if g != "" {
		req.GrainSize = &g
	}
	y, err := choose(s, "Minimum yield", models.YieldPotentials, "", true)
	if err != nil {
		return err
	}
	if y != "" {
		req.MinYield = &y
	}
	if req.Region, err = s.ask("Region (optional)"); err != nil {
		return err
	}

	recs, err := s.svc.Recommendations.Recommend(req)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		s.out.Warning("No varieties match these conditions.")
		return nil
	}

	rows := make([][]string, len(recs))
	for i, r := range recs {
		v := &r.Variety
		rows[i] = []string{
			strconv.Itoa(r.Score),
			strconv.FormatUint(uint64(v.ID), 10),
			v.CommonName,
			models.Label(v.PlantHeight),
			models.Label(v.GrainSize),
			v.AltitudeRange(),
			v.YieldLabel(),
		}
	}
	s.out.Section(fmt.Sprintf("%d suggestions", len(recs)))
	s.out.Table([]string{"Score", "ID", "Common name", "Height", "Grain", "Altitude", "Yield"}, rows)
	return nil
}

func (s *Session) compare() error {
	ids, err := s.askIDs("Variety IDs to compare (comma separated)")
	if err != nil {
		return err
	}
	cmp, err := s.svc.Comparisons.Compare(ids)
	if err != nil {
		return err
	}

	headers := []string{"Attribute"}
	for _, v := range cmp.Varieties {
		headers = append(headers, v.CommonName)
	}
	attr := func(label string, value func(v *models.Variety) string) []string {
		row := []string{label}
		for i := range cmp.Varieties {
			row = append(row, value(&cmp.Varieties[i]))
		}
		return row
	}
	resistance := func(t models.ResistanceType) func(v *models.Variety) string {
		return func(v *models.Variety) string { return models.Label(v.ResistanceLevel(t)) }
	}
	rows := [][]string{
		attr("Plant height", func(v *models.Variety) string { return models.Label(v.PlantHeight) }),
		attr("Grain size", func(v *models.Variety) string { return models.Label(v.GrainSize) }),
		attr("Altitude", func(v *models.Variety) string { return v.AltitudeRange() }),
		attr("Yield", func(v *models.Variety) string { return v.YieldLabel() }),
		attr("Grain quality", func(v *models.Variety) string { return v.QualityLabel() }),
		attr("Genetic family", func(v *models.Variety) string { return v.GeneticFamily }),
		attr("Rust", resistance(models.ResistanceRust)),
		attr("Anthracnose", resistance(models.ResistanceAnthracnose)),
		attr("Nematodes", resistance(models.ResistanceNematodes)),
	}

	s.out.Section(fmt.Sprintf("Comparison of %d varieties", cmp.Summary.Count))
	s.out.Table(headers, rows)
	s.out.Muted("Compared at %s", cmp.ComparedAt.Format("2006-01-02 15:04"))
	if cmp.Summary.BestYield != nil {
		s.out.Info("Best yield: %s (%s)", cmp.Summary.BestYield.CommonName, cmp.Summary.BestYield.YieldLabel())
	}
	for _, c := range cmp.Summary.CommonCharacteristics {
		s.out.Info("%s", c)
	}
	return nil
}
