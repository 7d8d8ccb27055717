package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"github.com/h4ks-com/coffee-catalog/internal/repository"
	"github.com/h4ks-com/coffee-catalog/internal/services"
)

var catalogOptions = []string{
	"List all varieties",
	"Search by name",
	"Filter varieties",
	"Variety details",
	"Recommendations",
	"Compare varieties",
	"Export catalog",
	"Statistics",
	"Variety report",
	"Create variety",
	"Update variety",
	"Change status",
	"Delete variety",
	"My varieties",
}

func (s *Session) catalogMenu() error {
	for {
		choice, err := s.menu("Variety catalog", catalogOptions, "Back to main menu")
		if err != nil {
			return err
		}

		switch choice {
		case 0:
			return nil
		case 1:
			err = s.listAll()
		case 2:
			err = s.search()
		case 3:
			err = s.filterMenu()
		case 4:
			err = s.details()
		case 5:
			err = s.recommendationsMenu()
		case 6:
			err = s.compare()
		case 7:
			err = s.exportCatalog()
		case 8:
			err = s.statistics()
		case 9:
			err = s.varietyReport()
		case 10:
			err = s.createVariety()
		case 11:
			err = s.updateVariety()
		case 12:
			err = s.changeStatus()
		case 13:
			err = s.deleteVariety()
		case 14:
			err = s.myVarieties()
		}
		if err != nil {
			if errors.Is(err, errEndOfInput) {
				return err
			}
			s.report(err)
		}
	}
}

func (s *Session) varietyTable(varieties []models.Variety) {
	if len(varieties) == 0 {
		s.out.Warning("No varieties found.")
		return
	}
	rows := make([][]string, len(varieties))
	for i := range varieties {
		v := &varieties[i]
		rows[i] = []string{
			strconv.FormatUint(uint64(v.ID), 10),
			v.CommonName,
			models.Label(v.PlantHeight),
			models.Label(v.GrainSize),
			v.AltitudeRange(),
			v.YieldLabel(),
			models.Label(v.Status),
		}
	}
	s.out.Table([]string{"ID", "Common name", "Height", "Grain", "Altitude", "Yield", "Status"}, rows)
}

func (s *Session) listAll() error {
	return s.browse(repository.VarietyFilter{})
}

// browse pages through the filtered set.
func (s *Session) browse(filter repository.VarietyFilter) error {
	page := 1
	for {
		result, err := s.svc.Varieties.ListVarietiesPaged(filter, page, s.opts.PageSize)
		if err != nil {
			return err
		}
		s.out.Section(fmt.Sprintf("Varieties %s", result.DisplayRange()))
		s.varietyTable(result.Items)
		if result.TotalPages > 0 {
			s.out.Muted("Page %d of %d", result.Page, result.TotalPages)
		}

		var hints []string
		if result.HasPrevious() {
			hints = append(hints, "[p]revious")
		}
		if result.HasNext() {
			hints = append(hints, "[n]ext")
		}
		if len(hints) == 0 {
			return nil
		}
		answer, err := s.ask(strings.Join(append(hints, "[enter] back"), ", "))
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "n":
			if result.HasNext() {
				page++
			}
		case "p":
			if result.HasPrevious() {
				page--
			}
		default:
			return nil
		}
	}
}

func (s *Session) search() error {
	term, err := s.ask("Search term")
	if err != nil {
		return err
	}
	varieties, err := s.svc.Varieties.SearchVarieties(term)
	if err != nil {
		return err
	}
	s.out.Section(fmt.Sprintf("Results for %q", term))
	s.varietyTable(varieties)
	return nil
}

var filterOptions = []string{
	"By plant height",
	"By grain size",
	"By altitude range",
	"By minimum yield",
	"Combined filters",
}

func (s *Session) filterMenu() error {
	choice, err := s.menu("Filter varieties", filterOptions, "Back")
	if err != nil || choice == 0 {
		return err
	}

	var varieties []models.Variety
	switch choice {
	case 1:
		h, err := choose(s, "Plant height", models.PlantHeights, "", false)
		if err != nil {
			return err
		}
		varieties, err = s.svc.Varieties.GetByPlantHeight(h)
		if err != nil {
			return err
		}
	case 2:
		g, err := choose(s, "Grain size", models.GrainSizes, "", false)
		if err != nil {
			return err
		}
		varieties, err = s.svc.Varieties.GetByGrainSize(g)
		if err != nil {
			return err
		}
	case 3:
		min, err := s.askOptionalInt("Minimum altitude (masl)", nil)
		if err != nil {
			return err
		}
		max, err := s.askOptionalInt("Maximum altitude (masl)", nil)
		if err != nil {
			return err
		}
		varieties, err = s.svc.Varieties.GetByAltitudeRange(min, max)
		if err != nil {
			return err
		}
	case 4:
		y, err := choose(s, "Minimum yield", models.YieldPotentials, "", false)
		if err != nil {
			return err
		}
		varieties, err = s.svc.Varieties.GetByMinimumYield(y)
		if err != nil {
			return err
		}
	case 5:
		filter, err := s.askFilter()
		if err != nil {
			return err
		}
		return s.browse(filter)
	}

	s.out.Section(fmt.Sprintf("%d matching varieties", len(varieties)))
	s.varietyTable(varieties)
	return nil
}

// askFilter collects a combined filter. Every question may be skipped.
func (s *Session) askFilter() (repository.VarietyFilter, error) {
	var f repository.VarietyFilter

	h, err := choose(s, "Plant height", models.PlantHeights, "", true)
	if err != nil {
		return f, err
	}
	if h != "" {
		f.PlantHeight = &h
	}
	g, err := choose(s, "Grain size", models.GrainSizes, "", true)
	if err != nil {
		return f, err
	}
	if g != "" {
		f.GrainSize = &g
	}
	y, err := choose(s, "Minimum yield", models.YieldPotentials, "", true)
	if err != nil {
		return f, err
	}
	if y != "" {
		f.YieldMin = &y
	}
	q, err := choose(s, "Minimum grain quality", models.GrainQualities, "", true)
	if err != nil {
		return f, err
	}
	if q != "" {
		f.QualityMin = &q
	}
	if f.AltitudeMin, err = s.askOptionalInt("Minimum altitude (masl)", nil); err != nil {
		return f, err
	}
	if f.AltitudeMax, err = s.askOptionalInt("Maximum altitude (masl)", nil); err != nil {
		return f, err
	}
	if f.GeneticGroup, err = s.ask("Genetic group contains"); err != nil {
		return f, err
	}
	if f.Breeder, err = s.ask("Breeder contains"); err != nil {
		return f, err
	}
	rust, err := choose(s, "Minimum rust resistance", models.ResistanceLevels, "", true)
	if err != nil {
		return f, err
	}
	if rust != "" {
		f.Resistances = map[models.ResistanceType]models.ResistanceLevel{models.ResistanceRust: rust}
	}
	if f.Search, err = s.ask("Text search"); err != nil {
		return f, err
	}
	return f, nil
}

func (s *Session) details() error {
	id, err := s.askID("Variety ID")
	if err != nil {
		return err
	}
	v, err := s.svc.Varieties.GetVariety(id)
	if err != nil {
		return err
	}
	s.printDetails(v)
	return nil
}

func (s *Session) printDetails(v *models.Variety) {
	s.out.Section(fmt.Sprintf("%s (ID %d)", v.CommonName, v.ID))
	s.out.Field("Scientific name", v.ScientificName)
	s.out.Field("Status", models.Label(v.Status))
	s.out.Field("Plant height", models.Label(v.PlantHeight))
	s.out.Field("Grain size", models.Label(v.GrainSize))
	s.out.Field("Optimal altitude", v.AltitudeRange())
	s.out.Field("Yield potential", v.YieldLabel())
	s.out.Field("Grain quality", v.QualityLabel())
	s.out.Field("Genetic group", v.GeneticGroup)
	s.out.Field("Genetic family", v.GeneticFamily)
	s.out.Field("Breeder", v.Breeder)
	s.out.Field("Registered", v.CreatedAt.Format("2006-01-02"))
	s.out.Field("Description", v.Description)
	s.out.Field("History", v.History)

	if len(v.Resistances) > 0 {
		s.out.Println("Resistances:")
		for _, t := range models.ResistanceTypes {
			if level := v.ResistanceLevel(t); level != "" {
				s.out.Printf("  - %s: %s\n", models.Label(t), models.Label(level))
			}
		}
	}
	if len(v.Images) > 0 {
		s.out.Println("Images:")
		for _, img := range v.Images {
			if img.Description != "" {
				s.out.Printf("  - %s (%s)\n", img.ImageURL, img.Description)
			} else {
				s.out.Printf("  - %s\n", img.ImageURL)
			}
		}
	}
}

// askVariety collects every editable field, offering current values as
// defaults.
func (s *Session) askVariety(current services.VarietyInput) (services.VarietyInput, error) {
	in := current
	var err error

	if in.CommonName, err = s.askDefault("Common name", current.CommonName); err != nil {
		return in, err
	}
	if in.ScientificName, err = s.askDefault("Scientific name", current.ScientificName); err != nil {
		return in, err
	}
	if in.Description, err = s.askDefault("Description", current.Description); err != nil {
		return in, err
	}

	h, err := choose(s, "Plant height", models.PlantHeights, models.PlantHeight(current.PlantHeight), false)
	if err != nil {
		return in, err
	}
	in.PlantHeight = string(h)
	g, err := choose(s, "Grain size", models.GrainSizes, models.GrainSize(current.GrainSize), false)
	if err != nil {
		return in, err
	}
	in.GrainSize = string(g)

	if in.AltitudeMin, err = s.askOptionalInt("Minimum altitude (masl)", current.AltitudeMin); err != nil {
		return in, err
	}
	if in.AltitudeMax, err = s.askOptionalInt("Maximum altitude (masl)", current.AltitudeMax); err != nil {
		return in, err
	}

	y, err := choose(s, "Yield potential", models.YieldPotentials, models.YieldPotential(current.YieldPotential), true)
	if err != nil {
		return in, err
	}
	in.YieldPotential = string(y)
	q, err := choose(s, "Grain quality", models.GrainQualities, models.GrainQuality(current.GrainQuality), true)
	if err != nil {
		return in, err
	}
	in.GrainQuality = string(q)

	if in.History, err = s.askDefault("History", current.History); err != nil {
		return in, err
	}
	if in.Breeder, err = s.askDefault("Breeder", current.Breeder); err != nil {
		return in, err
	}
	if in.GeneticFamily, err = s.askDefault("Genetic family", current.GeneticFamily); err != nil {
		return in, err
	}
	if in.GeneticGroup, err = s.askDefault("Genetic group", current.GeneticGroup); err != nil {
		return in, err
	}

	in.Resistances = map[string]string{}
	for _, t := range models.ResistanceTypes {
		level, err := choose(s, "Resistance to "+models.Label(t), models.ResistanceLevels,
			models.ResistanceLevel(current.Resistances[string(t)]), true)
		if err != nil {
			return in, err
		}
		if level != "" {
			in.Resistances[string(t)] = string(level)
		}
	}

	keep := len(current.Images) > 0
	if keep {
		if keep, err = s.confirm(fmt.Sprintf("Keep the %d current images?", len(current.Images))); err != nil {
			return in, err
		}
	}
	if !keep {
		in.Images = nil
	}
	for {
		url, err := s.ask("Image URL (blank to finish)")
		if err != nil {
			return in, err
		}
		if url == "" {
			break
		}
		desc, err := s.ask("Image description")
		if err != nil {
			return in, err
		}
		in.Images = append(in.Images, services.ImageInput{URL: url, Description: desc})
	}

	return in, nil
}

func (s *Session) myVarieties() error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	varieties, err := s.svc.Varieties.GetByCreator(user.ID)
	if err != nil {
		return err
	}
	s.out.Section(fmt.Sprintf("Varieties registered by %s", user.Name))
	s.varietyTable(varieties)
	return nil
}

func (s *Session) createVariety() error {
	s.out.Section("Create variety")
	input, err := s.askVariety(services.VarietyInput{})
	if err != nil {
		return err
	}
	if s.user != nil {
		input.CreatedByID = &s.user.ID
	}

	v, err := s.svc.Varieties.CreateVariety(input)
	if err != nil {
		return err
	}
	s.out.Success("Variety %s created with ID %d", v.CommonName, v.ID)
	return nil
}

func (s *Session) updateVariety() error {
	id, err := s.askID("Variety ID")
	if err != nil {
		return err
	}
	current, err := s.svc.Varieties.GetVariety(id)
	if err != nil {
		return err
	}

	s.out.Section("Update " + current.CommonName)
	s.out.Muted("Press enter to keep the current value, '-' to clear it.")
	input, err := s.askVariety(services.InputFromVariety(current))
	if err != nil {
		return err
	}

	v, err := s.svc.Varieties.UpdateVariety(id, input)
	if err != nil {
		return err
	}
	s.out.Success("Variety %s updated", v.CommonName)
	return nil
}

func (s *Session) changeStatus() error {
	id, err := s.askID("Variety ID")
	if err != nil {
		return err
	}
	choice, err := s.menu("Change status", []string{"Activate", "Deactivate", "Archive"}, "Back")
	if err != nil || choice == 0 {
		return err
	}

	switch choice {
	case 1:
		err = s.svc.Varieties.ActivateVariety(id)
	case 2:
		err = s.svc.Varieties.DeactivateVariety(id)
	case 3:
		err = s.svc.Varieties.ArchiveVariety(id)
	}
	if err != nil {
		return err
	}
	s.out.Success("Status of variety %d updated", id)
	return nil
}

func (s *Session) deleteVariety() error {
	id, err := s.askID("Variety ID")
	if err != nil {
		return err
	}
	v, err := s.svc.Varieties.GetVariety(id)
	if err != nil {
		return err
	}
	ok, err := s.confirm(fmt.Sprintf("Permanently delete %s and its images?", v.CommonName))
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}
	if err := s.svc.Varieties.DeleteVariety(id); err != nil {
		return err
	}
	s.out.Success("Variety %s deleted", v.CommonName)
	return nil
}
