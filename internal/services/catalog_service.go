package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h4ks-com/coffee-catalog/internal/catalog"
	"github.com/h4ks-com/coffee-catalog/internal/models"
)

var ErrNotSupported = errors.New("not supported")

const DefaultCatalogTitle = "Colombian Coffee Variety Catalog"

type CatalogService struct {
	varietyService *VarietyService
	renderers      map[string]catalog.Renderer
	exportDir      string
	imagesDir      string
	now            func() time.Time
}

func NewCatalogService(varietyService *VarietyService, exportDir, imagesDir string) *CatalogService {
	return &CatalogService{
		varietyService: varietyService,
		renderers: map[string]catalog.Renderer{
			"pdf":  catalog.PDFRenderer{},
			"text": catalog.TextRenderer{},
			"txt":  catalog.TextRenderer{},
		},
		exportDir: exportDir,
		imagesDir: imagesDir,
		now:       time.Now,
	}
}

// Formats lists the accepted export formats.
func (s *CatalogService) Formats() []string {
	return []string{"pdf", "text"}
}

// Export renders varieties in the given order and returns the path of the
// written file.
func (s *CatalogService) Export(varieties []models.Variety, title, format string) (string, error) {
	renderer, ok := s.renderers[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return "", fmt.Errorf("%w: export format %q", ErrNotSupported, format)
	}
	if len(varieties) == 0 {
		return "", validationf("no varieties selected for export")
	}
	if strings.TrimSpace(title) == "" {
		title = DefaultCatalogTitle
	}

	now := s.now()
	doc := catalog.NewDocument(title, varieties, s.imagesDir, now)

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(s.exportDir, catalog.FileName(now, renderer.Extension()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := renderer.Render(f, doc); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to render catalog: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	log.Printf("[Catalog] Exported %d varieties to %s", len(varieties), path)
	return path, nil
}

// ExportByIDs keeps the caller's order of ids.
func (s *CatalogService) ExportByIDs(ids []uint, title, format string) (string, error) {
	if len(ids) == 0 {
		return "", validationf("no varieties selected for export")
	}
	varieties, err := s.varietyService.GetVarietiesByIDs(ids)
	if err != nil {
		return "", err
	}
	return s.Export(varieties, title, format)
}

func (s *CatalogService) ExportAll(title, format string) (string, error) {
	varieties, err := s.varietyService.GetAllVarieties()
	if err != nil {
		return "", err
	}
	return s.Export(varieties, title, format)
}
