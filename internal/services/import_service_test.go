package services

import (
	"encoding/json"
	"testing"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"github.com/h4ks-com/coffee-catalog/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupImportTestDB(t *testing.T) (*VarietyService, *ExportService, *ImportService) {
	varietyService, exportService := setupExportTestDB(t)
	return varietyService, exportService, NewImportService(varietyService, exportService)
}

const importJSON = `[
  {"common_name": "Tabi", "plant_height": "tall", "grain_size": "large",
   "altitude_min": 1400, "altitude_max": 1900, "resistances": {"rust": "tolerant"}},
  {"common_name": "Geisha", "plant_height": "alto", "grain_size": "medio", "grain_quality": "muy_alta"},
  {"common_name": "", "plant_height": "tall", "grain_size": "large"},
  {"common_name": "Tabi", "plant_height": "tall", "grain_size": "large"}
]`

const importYAML = `
- common_name: Maragogipe
  plant_height: tall
  grain_size: large
  altitude_min: 1100
  images:
    - url: images/Maragogipe.jpg
- common_name: Pacamara
  plant_height: low
  grain_size: large
  yield_potential: high
`

func TestImportService_JSONSkipsInvalid(t *testing.T) {
	varietyService, _, svc := setupImportTestDB(t)

	records, err := svc.ParseImport("varieties.json", []byte(importJSON))
	require.NoError(t, err)
	require.Len(t, records, 4)

	result, err := svc.Import(records, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, result.Failures, 2)

	all, err := varietyService.GetAllVarieties()
	require.NoError(t, err)
	assert.Equal(t, []string{"Geisha", "Tabi"}, varietyNames(all))
	require.NotNil(t, all[0].GrainQuality)
	assert.Equal(t, models.QualityVeryHigh, *all[0].GrainQuality)
}

func TestImportService_StrictStopsAtFirstFailure(t *testing.T) {
	varietyService, _, svc := setupImportTestDB(t)

	records, err := svc.ParseImport("varieties.json", []byte(importJSON))
	require.NoError(t, err)

	result, err := svc.Import(records, ImportOptions{Strict: true})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 2, result.Imported)

	all, err := varietyService.GetAllVarieties()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportService_YAML(t *testing.T) {
	varietyService, _, svc := setupImportTestDB(t)

	records, err := svc.ParseImport("varieties.yaml", []byte(importYAML))
	require.NoError(t, err)

	result, err := svc.Import(records, ImportOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	all, err := varietyService.GetAllVarieties()
	require.NoError(t, err)
	assert.Equal(t, []string{"Maragogipe", "Pacamara"}, varietyNames(all))
	require.Len(t, all[0].Images, 1)
	assert.Equal(t, 1100, *all[0].AltitudeMin)
}

func TestImportService_SignedExportRoundTrip(t *testing.T) {
	sourceService, sourceExport := setupExportTestDB(t)
	ids := seedCatalog(t, sourceService)
	require.NoError(t, sourceService.DeactivateVariety(ids["Typica"]))

	export, err := sourceExport.ExportCatalog()
	require.NoError(t, err)
	data, err := json.MarshalIndent(export, "", "  ")
	require.NoError(t, err)

	targetService, _, svc := setupImportTestDB(t)
	records, err := svc.ParseImport("backup.json", data)
	require.NoError(t, err)

	result, err := svc.Import(records, ImportOptions{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Imported)

	all, err := targetService.GetAllVarieties()
	require.NoError(t, err)
	assert.Equal(t, []string{"Bourbon", "Castillo", "Caturra", "Colombia", "Typica"}, varietyNames(all))
	assert.Equal(t, models.StatusInactive, all[4].Status)
	assert.Equal(t, models.LevelResistant, all[3].ResistanceLevel(models.ResistanceRust))
}

func TestImportService_ArchivedBackupRoundTrip(t *testing.T) {
	sourceService, sourceExport := setupExportTestDB(t)
	ids := seedCatalog(t, sourceService)
	require.NoError(t, sourceService.ArchiveVariety(ids["Typica"]))
	require.NoError(t, sourceService.DeactivateVariety(ids["Bourbon"]))

	export, err := sourceExport.ExportCatalog()
	require.NoError(t, err)
	data, err := json.Marshal(export)
	require.NoError(t, err)

	deleted := models.StatusDeleted
	archived := repository.VarietyFilter{Status: &deleted}

	t.Run("skipped by default", func(t *testing.T) {
		targetService, _, svc := setupImportTestDB(t)
		records, err := svc.ParseImport("backup.json", data)
		require.NoError(t, err)

		result, err := svc.Import(records, ImportOptions{Strict: true})
		require.NoError(t, err)
		assert.Equal(t, 4, result.Imported)
		assert.Equal(t, 1, result.Skipped)

		restored, err := targetService.FilterVarieties(archived)
		require.NoError(t, err)
		assert.Empty(t, restored)
	})

	t.Run("kept with archived option", func(t *testing.T) {
		targetService, _, svc := setupImportTestDB(t)
		records, err := svc.ParseImport("backup.json", data)
		require.NoError(t, err)

		result, err := svc.Import(records, ImportOptions{Strict: true, Archived: true})
		require.NoError(t, err)
		assert.Equal(t, 5, result.Imported)

		restored, err := targetService.FilterVarieties(archived)
		require.NoError(t, err)
		assert.Equal(t, []string{"Typica"}, varietyNames(restored))

		visible, err := targetService.GetAllVarieties()
		require.NoError(t, err)
		assert.Equal(t, []string{"Bourbon", "Castillo", "Caturra", "Colombia"}, varietyNames(visible))
		assert.Equal(t, models.StatusInactive, visible[0].Status)
	})
}

func TestImportService_CreatesInFinalStatus(t *testing.T) {
	varietyService, _, svc := setupImportTestDB(t)

	records := []ImportRecord{
		{input: VarietyInput{CommonName: "Tabi", PlantHeight: "tall", GrainSize: "large"}, status: models.StatusInactive},
		{input: VarietyInput{CommonName: "Geisha", PlantHeight: "tall", GrainSize: "medium"}, status: models.Status("lost")},
	}

	result, err := svc.Import(records, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	all, err := varietyService.GetAllVarieties()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Tabi", all[0].CommonName)
	assert.Equal(t, models.StatusInactive, all[0].Status)
}

func TestImportService_RejectsTamperedExport(t *testing.T) {
	sourceService, sourceExport := setupExportTestDB(t)
	seedCatalog(t, sourceService)

	export, err := sourceExport.ExportCatalog()
	require.NoError(t, err)
	export.Varieties[0].CommonName = "Forged"
	data, err := json.Marshal(export)
	require.NoError(t, err)

	_, _, svc := setupImportTestDB(t)
	_, err = svc.ParseImport("backup.json", data)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestImportService_ParseErrors(t *testing.T) {
	_, _, svc := setupImportTestDB(t)

	_, err := svc.ParseImport("empty.json", []byte("  "))
	assert.ErrorIs(t, err, ErrInvalidExport)

	_, err = svc.ParseImport("broken.json", []byte("[{"))
	assert.ErrorIs(t, err, ErrInvalidExport)

	_, err = svc.ParseImport("unsigned.json", []byte(`{"varieties": []}`))
	assert.ErrorIs(t, err, ErrInvalidExport)
}
