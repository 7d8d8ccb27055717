package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"gopkg.in/yaml.v3"
)

type ImportOptions struct {
	// Strict aborts on the first record that fails. Otherwise the record
	// is skipped and counted.
	Strict bool
	// Archived imports records whose exported status is deleted instead
	// of skipping them.
	Archived bool
}

type ImportResult struct {
	Imported int
	Skipped  int
	Failures []string
}

// ImportRecord is one decoded variety with the status it should end up in.
type ImportRecord struct {
	input  VarietyInput
	status models.Status
}

type ImportService struct {
	varietyService *VarietyService
	exportService  *ExportService
}

func NewImportService(varietyService *VarietyService, exportService *ExportService) *ImportService {
	return &ImportService{
		varietyService: varietyService,
		exportService:  exportService,
	}
}

// ParseImport decodes a list of varieties. YAML is chosen by the .yaml or
// .yml extension, JSON otherwise. A signed catalog export is accepted in
// either format and its signature must verify.
func (s *ImportService) ParseImport(filename string, data []byte) ([]ImportRecord, error) {
	isYAML := IsYAMLFile(filename)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidExport)
	}

	isList := trimmed[0] == '[' || (isYAML && trimmed[0] == '-')
	if isList {
		var inputs []VarietyInput
		var err error
		if isYAML {
			err = yaml.Unmarshal(trimmed, &inputs)
		} else {
			err = json.Unmarshal(trimmed, &inputs)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
		}
		records := make([]ImportRecord, len(inputs))
		for i, in := range inputs {
			records[i] = ImportRecord{input: in, status: models.StatusActive}
		}
		return records, nil
	}

	export, err := s.exportService.VerifyExport(filename, trimmed)
	if err != nil {
		return nil, err
	}

	records := make([]ImportRecord, len(export.Varieties))
	for i, item := range export.Varieties {
		status := item.Status
		if !status.Valid() {
			status = models.StatusActive
		}
		records[i] = ImportRecord{input: item.VarietyInput, status: status}
	}
	return records, nil
}

func (s *ImportService) Import(records []ImportRecord, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	for _, rec := range records {
		name := rec.input.CommonName
		if rec.status == models.StatusDeleted && !opts.Archived {
			log.Printf("[Import] Skipped %s: archived", name)
			result.Skipped++
			continue
		}

		variety, err := s.varietyService.createWithStatus(rec.input, rec.status)
		if err != nil {
			if opts.Strict {
				return result, fmt.Errorf("import failed for %s: %w", name, err)
			}
			log.Printf("[Import] Skipped %s: %v", name, err)
			result.Skipped++
			result.Failures = append(result.Failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		log.Printf("[Import] Imported %s", variety.CommonName)
		result.Imported++
	}

	return result, nil
}
