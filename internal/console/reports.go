package console

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"github.com/h4ks-com/coffee-catalog/internal/services"
)

func (s *Session) exportCatalog() error {
	choice, err := s.menu("Export catalog", []string{"Full catalog", "Selected varieties"}, "Back")
	if err != nil || choice == 0 {
		return err
	}

	var ids []uint
	if choice == 2 {
		if ids, err = s.askIDs("Variety IDs in catalog order (comma separated)"); err != nil {
			return err
		}
	}
	format, err := s.ask("Format (pdf/text) [pdf]")
	if err != nil {
		return err
	}
	if format == "" {
		format = "pdf"
	}
	title, err := s.ask("Title (optional)")
	if err != nil {
		return err
	}

	var path string
	if choice == 1 {
		path, err = s.svc.Catalog.ExportAll(title, format)
	} else {
		path, err = s.svc.Catalog.ExportByIDs(ids, title, format)
	}
	if err != nil {
		return err
	}
	s.out.Success("Catalog written to %s", path)

	if s.opts.OpenExports && s.opts.Opener != nil {
		if err := s.opts.Opener(path); err != nil {
			s.out.Warning("Could not open %s: %v", path, err)
		}
	}
	return nil
}

func countRows(counts map[string]int64, label func(string) string) [][]string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{label(k), strconv.FormatInt(counts[k], 10)}
	}
	return rows
}

func plain(s string) string { return s }

func enumLabel(s string) string { return models.Label(s) }

func (s *Session) statistics() error {
	stats, err := s.svc.Statistics.GetStatistics()
	if err != nil {
		return err
	}
	s.out.statistics(stats)
	return nil
}

// WriteStatistics prints the catalog summary and its breakdown tables.
func WriteStatistics(w io.Writer, stats *services.Statistics) {
	newPrinter(w).statistics(stats)
}

func (p *printer) statistics(stats *services.Statistics) {
	p.Section("Catalog statistics")
	p.Field("Total varieties", strconv.FormatInt(stats.Total, 10))
	p.Field("Active", strconv.FormatInt(stats.Active, 10))
	p.Field("Inactive", strconv.FormatInt(stats.Inactive, 10))
	p.Field("Active share", fmt.Sprintf("%.1f%%", stats.ActivePercentage()))

	groups := []struct {
		title  string
		counts map[string]int64
		label  func(string) string
	}{
		{"Plant height", stats.ByPlantHeight, enumLabel},
		{"Grain size", stats.ByGrainSize, enumLabel},
		{"Yield potential", stats.ByYieldPotential, enumLabel},
		{"Genetic family", stats.ByGeneticFamily, plain},
		{"Breeder", stats.ByBreeder, plain},
	}
	for _, g := range groups {
		if len(g.counts) == 0 {
			continue
		}
		p.Println()
		p.Table([]string{g.title, "Varieties"}, countRows(g.counts, g.label))
	}
}

func (s *Session) varietyReport() error {
	rows, err := s.svc.Statistics.GetReport()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		s.out.Warning("No varieties found.")
		return nil
	}

	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.CommonName,
			r.PlantHeight,
			r.GrainSize,
			r.YieldPotential,
			r.AltitudeRange,
			r.GeneticGroup,
			r.Status,
			r.CreatedAt.Format("2006-01-02"),
			strconv.Itoa(r.ResistanceCount),
			strconv.Itoa(r.ImageCount),
		}
	}
	s.out.Section("Variety report")
	s.out.Table([]string{"ID", "Name", "Height", "Grain", "Yield", "Altitude", "Group", "Status", "Created", "Res.", "Img."}, table)
	return nil
}
