package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"github.com/h4ks-com/coffee-catalog/internal/repository"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidExport    = errors.New("invalid export data")
)

// CatalogExport is a signed snapshot of the catalog.
type CatalogExport struct {
	ExportedAt time.Time           `json:"exported_at" yaml:"exported_at"`
	Count      int                 `json:"count" yaml:"count"`
	Varieties  []VarietyExportItem `json:"varieties" yaml:"varieties"`
	Signature  string              `json:"signature" yaml:"signature"`
}

type VarietyExportItem struct {
	ID           uint `json:"id" yaml:"id"`
	VarietyInput `yaml:",inline"`
	Status       models.Status `json:"status" yaml:"status"`
	CreatedAt    time.Time     `json:"created_at" yaml:"created_at"`
}

type ExportService struct {
	varietyRepo *repository.VarietyRepository
	signingKey  string
}

func NewExportService(varietyRepo *repository.VarietyRepository, signingKey string) *ExportService {
	return &ExportService{
		varietyRepo: varietyRepo,
		signingKey:  signingKey,
	}
}

// ExportCatalog snapshots every variety whatever its status, so archived
// varieties survive a backup and restore.
func (s *ExportService) ExportCatalog() (*CatalogExport, error) {
	varieties, err := s.varietyRepo.Find(repository.VarietyFilter{IncludeDeleted: true}, true)
	if err != nil {
		return nil, err
	}

	items := make([]VarietyExportItem, len(varieties))
	for i := range varieties {
		v := &varieties[i]
		items[i] = VarietyExportItem{
			ID:           v.ID,
			VarietyInput: InputFromVariety(v),
			Status:       v.Status,
			CreatedAt:    v.CreatedAt.UTC(),
		}
	}

	export := &CatalogExport{
		ExportedAt: time.Now().UTC(),
		Count:      len(items),
		Varieties:  items,
	}

	signature, err := s.signExport(export)
	if err != nil {
		return nil, err
	}
	export.Signature = signature

	return export, nil
}

// IsYAMLFile reports whether the file name selects YAML over JSON.
func IsYAMLFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

// VerifyExport decodes a backup written in JSON, or YAML when the file name
// says so, and checks its signature.
func (s *ExportService) VerifyExport(filename string, data []byte) (*CatalogExport, error) {
	var export CatalogExport
	var err error
	if IsYAMLFile(filename) {
		err = yaml.Unmarshal(data, &export)
	} else {
		err = json.Unmarshal(data, &export)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}

	valid, err := s.VerifyExportData(&export)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrInvalidSignature
	}
	return &export, nil
}

func (s *ExportService) VerifyExportData(exportData *CatalogExport) (bool, error) {
	if exportData.Signature == "" {
		return false, ErrInvalidExport
	}

	providedSignature := exportData.Signature

	exportCopy := *exportData
	exportCopy.Signature = ""

	computedSignature, err := s.signExport(&exportCopy)
	if err != nil {
		return false, err
	}

	return hmac.Equal([]byte(computedSignature), []byte(providedSignature)), nil
}

func (s *ExportService) signExport(export *CatalogExport) (string, error) {
	exportCopy := *export
	exportCopy.Signature = ""

	data, err := json.Marshal(exportCopy)
	if err != nil {
		return "", err
	}

	h := hmac.New(sha256.New, []byte(s.signingKey))
	h.Write(data)
	signature := hex.EncodeToString(h.Sum(nil))

	return signature, nil
}
