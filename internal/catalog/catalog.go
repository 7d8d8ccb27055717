// Package catalog renders variety catalogs to documents.
package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h4ks-com/coffee-catalog/internal/models"
)

// Entry is the printable form of one variety.
type Entry struct {
	CommonName     string
	ScientificName string
	Description    string
	PlantHeight    string
	GrainSize      string
	Altitude       string
	Yield          string
	Quality        string
	History        string
	GeneticGroup   string
	GeneticFamily  string
	Breeder        string
	Resistances    []string
	ImagePath      string
}

type Document struct {
	Title       string
	GeneratedAt time.Time
	Entries     []Entry
}

type Renderer interface {
	Extension() string
	Render(w io.Writer, doc *Document) error
}

// FileName is the export artifact name for a catalog generated at t.
func FileName(t time.Time, ext string) string {
	return fmt.Sprintf("catalogo_cafe_%s.%s", t.Format("20060102_150405"), ext)
}

// ImagePath is where the cover image of a variety is expected.
func ImagePath(imagesDir, commonName string) string {
	return filepath.Join(imagesDir, commonName+".jpg")
}

// NewEntry converts v. ImagePath is set only when the image file exists.
func NewEntry(v *models.Variety, imagesDir string) Entry {
	e := Entry{
		CommonName:     v.CommonName,
		ScientificName: v.ScientificName,
		Description:    v.Description,
		PlantHeight:    models.Label(v.PlantHeight),
		GrainSize:      models.Label(v.GrainSize),
		Altitude:       v.AltitudeRange(),
		Yield:          v.YieldLabel(),
		Quality:        v.QualityLabel(),
		History:        v.History,
		GeneticGroup:   v.GeneticGroup,
		GeneticFamily:  v.GeneticFamily,
		Breeder:        v.Breeder,
	}
	for _, t := range models.ResistanceTypes {
		if level := v.ResistanceLevel(t); level != "" {
			e.Resistances = append(e.Resistances, fmt.Sprintf("%s (%s)", models.Label(t), models.Label(level)))
		}
	}
	if imagesDir != "" {
		path := ImagePath(imagesDir, v.CommonName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			e.ImagePath = path
		}
	}
	return e
}

// NewDocument keeps the order of varieties.
func NewDocument(title string, varieties []models.Variety, imagesDir string, now time.Time) *Document {
	doc := &Document{Title: title, GeneratedAt: now}
	for i := range varieties {
		doc.Entries = append(doc.Entries, NewEntry(&varieties[i], imagesDir))
	}
	return doc
}

type field struct {
	label, value string
}

// fields lists the labelled attributes of e that have a value.
func (e *Entry) fields() []field {
	all := []field{
		{"Plant height", e.PlantHeight},
		{"Grain size", e.GrainSize},
		{"Altitude", e.Altitude},
		{"Yield potential", e.Yield},
		{"Grain quality", e.Quality},
		{"Genetic group", e.GeneticGroup},
		{"Genetic family", e.GeneticFamily},
		{"Breeder", e.Breeder},
		{"Resistances", strings.Join(e.Resistances, ", ")},
	}
	out := all[:0]
	for _, f := range all {
		if f.value != "" {
			out = append(out, f)
		}
	}
	return out
}
