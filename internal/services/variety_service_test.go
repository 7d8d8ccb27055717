package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/h4ks-com/coffee-catalog/internal/database"
	"github.com/h4ks-com/coffee-catalog/internal/models"
	"github.com/h4ks-com/coffee-catalog/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupVarietyTestDB(t *testing.T) (*gorm.DB, *repository.VarietyRepository, *VarietyService) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	err = database.Migrate(db)
	require.NoError(t, err)

	varietyRepo := repository.NewVarietyRepository(db)
	resistanceRepo := repository.NewResistanceRepository(db)
	varietyService := NewVarietyService(varietyRepo, resistanceRepo, db)

	return db, varietyRepo, varietyService
}

func intPtr(n int) *int { return &n }

// seedCatalog creates five varieties and returns their ids by name.
func seedCatalog(t *testing.T, svc *VarietyService) map[string]uint {
	t.Helper()
	inputs := []VarietyInput{
		{
			CommonName: "Typica", ScientificName: "Coffea arabica var. typica",
			PlantHeight: "tall", GrainSize: "large",
			AltitudeMin: intPtr(1200), AltitudeMax: intPtr(1800),
			YieldPotential: "low", GrainQuality: "very_high", GeneticFamily: "Typica",
		},
		{
			CommonName: "Castillo", PlantHeight: "low", GrainSize: "large",
			AltitudeMin: intPtr(1000), AltitudeMax: intPtr(2000),
			YieldPotential: "high", GeneticFamily: "Catimor", Breeder: "Cenicafe",
			Resistances: map[string]string{"rust": "resistant"},
		},
		{
			CommonName: "Bourbon", PlantHeight: "tall", GrainSize: "medium",
			AltitudeMin: intPtr(1400), YieldPotential: "medium", GeneticFamily: "Bourbon",
			Resistances: map[string]string{"rust": "susceptible"},
		},
		{
			CommonName: "Caturra", PlantHeight: "low", GrainSize: "medium",
			AltitudeMin: intPtr(800), AltitudeMax: intPtr(1300),
			YieldPotential: "medium", GeneticFamily: "Bourbon",
			Resistances: map[string]string{"rust": "tolerant", "anthracnose": "resistant"},
		},
		{
			CommonName: "Colombia", PlantHeight: "low", GrainSize: "small",
			AltitudeMin: intPtr(1200), AltitudeMax: intPtr(1900),
			YieldPotential: "exceptional", GeneticFamily: "Catimor", Breeder: "Cenicafe",
			Resistances: map[string]string{"rust": "resistant"},
		},
	}
	ids := make(map[string]uint, len(inputs))
	for _, in := range inputs {
		v, err := svc.CreateVariety(in)
		require.NoError(t, err)
		ids[v.CommonName] = v.ID
	}
	return ids
}

func varietyNames(varieties []models.Variety) []string {
	out := make([]string, len(varieties))
	for i, v := range varieties {
		out[i] = v.CommonName
	}
	return out
}

func TestVarietyService_CreateRoundTrip(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)

	created, err := svc.CreateVariety(VarietyInput{
		CommonName:  "  Tabi ",
		PlantHeight: "alto",
		GrainSize:   "grande",
		AltitudeMin: intPtr(1400),
		AltitudeMax: intPtr(1900),
		Resistances: map[string]string{"rust": "tolerant"},
		Images:      []ImageInput{{URL: "images/tabi.jpg", Description: "Fruit"}},
	})
	require.NoError(t, err)

	found, err := svc.GetVariety(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tabi", found.CommonName)
	assert.Equal(t, models.PlantHeightTall, found.PlantHeight)
	assert.Equal(t, models.GrainSizeLarge, found.GrainSize)
	assert.Equal(t, models.StatusActive, found.Status)
	assert.Nil(t, found.YieldPotential)
	assert.Equal(t, models.LevelTolerant, found.ResistanceLevel(models.ResistanceRust))
	require.Len(t, found.Images, 1)
	assert.Equal(t, "images/tabi.jpg", found.Images[0].ImageURL)

	input := InputFromVariety(found)
	assert.Equal(t, map[string]string{"rust": "tolerant"}, input.Resistances)
}

func TestVarietyService_CreateValidation(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)

	cases := map[string]VarietyInput{
		"missing name":      {PlantHeight: "tall", GrainSize: "large"},
		"bad height":        {CommonName: "A", PlantHeight: "medium", GrainSize: "large"},
		"bad grain":         {CommonName: "A", PlantHeight: "tall", GrainSize: "huge"},
		"bad yield":         {CommonName: "A", PlantHeight: "tall", GrainSize: "large", YieldPotential: "enormous"},
		"negative altitude": {CommonName: "A", PlantHeight: "tall", GrainSize: "large", AltitudeMin: intPtr(-1)},
		"altitude too high": {CommonName: "A", PlantHeight: "tall", GrainSize: "large", AltitudeMax: intPtr(5001)},
		"min equals max":    {CommonName: "A", PlantHeight: "tall", GrainSize: "large", AltitudeMin: intPtr(1500), AltitudeMax: intPtr(1500)},
		"duplicate rust":    {CommonName: "A", PlantHeight: "tall", GrainSize: "large", Resistances: map[string]string{"rust": "tolerant", "roya": "resistant"}},
		"bad resistance":    {CommonName: "A", PlantHeight: "tall", GrainSize: "large", Resistances: map[string]string{"leaf miner": "tolerant"}},
		"empty image":       {CommonName: "A", PlantHeight: "tall", GrainSize: "large", Images: []ImageInput{{URL: " "}}},
		"name too long":     {CommonName: strings.Repeat("a", 101), PlantHeight: "tall", GrainSize: "large"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateVariety(input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	all, err := svc.GetAllVarieties()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestVarietyService_DuplicateNames(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)
	ids := seedCatalog(t, svc)

	_, err := svc.CreateVariety(VarietyInput{CommonName: "CASTILLO", PlantHeight: "low", GrainSize: "large"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrDuplicateCommonName)

	_, err = svc.CreateVariety(VarietyInput{
		CommonName: "Typica Nueva", ScientificName: "coffea arabica var. TYPICA",
		PlantHeight: "tall", GrainSize: "large",
	})
	assert.ErrorIs(t, err, ErrDuplicateScientificName)

	// Keeping its own name is not a conflict.
	updated, err := svc.UpdateVariety(ids["Castillo"], VarietyInput{
		CommonName: "castillo", PlantHeight: "low", GrainSize: "large",
	})
	require.NoError(t, err)
	assert.Equal(t, "castillo", updated.CommonName)

	_, err = svc.UpdateVariety(ids["Castillo"], VarietyInput{
		CommonName: "Typica", PlantHeight: "low", GrainSize: "large",
	})
	assert.ErrorIs(t, err, ErrDuplicateCommonName)

	unique, err := svc.IsCommonNameUnique("typica", 0)
	require.NoError(t, err)
	assert.False(t, unique)
	unique, err = svc.IsCommonNameUnique("typica", ids["Typica"])
	require.NoError(t, err)
	assert.True(t, unique)
}

func TestVarietyService_UpdateOverwrites(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)
	ids := seedCatalog(t, svc)

	require.NoError(t, svc.DeactivateVariety(ids["Caturra"]))

	updated, err := svc.UpdateVariety(ids["Caturra"], VarietyInput{
		CommonName:  "Caturra",
		PlantHeight: "low",
		GrainSize:   "small",
		Resistances: map[string]string{"nematodes": "tolerant"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.GrainSizeSmall, updated.GrainSize)
	assert.Nil(t, updated.AltitudeMin)
	assert.Nil(t, updated.YieldPotential)
	assert.Empty(t, updated.GeneticFamily)
	assert.Equal(t, models.StatusInactive, updated.Status)
	assert.Equal(t, models.LevelTolerant, updated.ResistanceLevel(models.ResistanceNematodes))
	assert.Equal(t, models.ResistanceLevel(""), updated.ResistanceLevel(models.ResistanceRust))
}

func TestVarietyService_UpdateNotFound(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)

	_, err := svc.UpdateVariety(42, VarietyInput{CommonName: "X", PlantHeight: "low", GrainSize: "small"})
	assert.ErrorIs(t, err, ErrVarietyNotFound)
	assert.Contains(t, err.Error(), "id 42")
}

func TestVarietyService_Lifecycle(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)
	ids := seedCatalog(t, svc)

	require.NoError(t, svc.DeactivateVariety(ids["Typica"]))
	v, err := svc.GetVariety(ids["Typica"])
	require.NoError(t, err)
	assert.False(t, v.IsActive())

	require.NoError(t, svc.ActivateVariety(ids["Typica"]))
	v, err = svc.GetVariety(ids["Typica"])
	require.NoError(t, err)
	assert.True(t, v.IsActive())

	require.NoError(t, svc.ArchiveVariety(ids["Typica"]))
	all, err := svc.GetAllVarieties()
	require.NoError(t, err)
	assert.NotContains(t, varietyNames(all), "Typica")

	require.NoError(t, svc.DeleteVariety(ids["Bourbon"]))
	exists, err := svc.VarietyExists(ids["Bourbon"])
	require.NoError(t, err)
	assert.False(t, exists)

	err = svc.DeleteVariety(ids["Bourbon"])
	assert.ErrorIs(t, err, ErrVarietyNotFound)
	err = svc.ActivateVariety(999)
	assert.ErrorIs(t, err, ErrVarietyNotFound)
	_, err = svc.GetVariety(999)
	assert.True(t, errors.Is(err, ErrVarietyNotFound))
}

func TestVarietyService_FilterMatchesGetAll(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)
	seedCatalog(t, svc)

	all, err := svc.GetAllVarieties()
	require.NoError(t, err)
	filtered, err := svc.FilterVarieties(repository.VarietyFilter{})
	require.NoError(t, err)
	assert.Equal(t, varietyNames(all), varietyNames(filtered))
	assert.Equal(t, []string{"Bourbon", "Castillo", "Caturra", "Colombia", "Typica"}, varietyNames(all))
}

func TestVarietyService_FilterTallAboveAltitude(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)
	seedCatalog(t, svc)

	tall := models.PlantHeightTall
	result, err := svc.FilterVarieties(repository.VarietyFilter{PlantHeight: &tall, AltitudeMin: intPtr(1500)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bourbon", "Typica"}, varietyNames(result))

	for _, v := range result {
		if v.AltitudeMax != nil {
			assert.GreaterOrEqual(t, *v.AltitudeMax, 1500)
		}
	}
}

func TestVarietyService_FilterValidation(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)

	_, err := svc.FilterVarieties(repository.VarietyFilter{AltitudeMin: intPtr(2000), AltitudeMax: intPtr(1000)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.GetByAltitudeRange(intPtr(-5), nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.GetByAltitudeRange(nil, intPtr(6000))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.GetByPlantHeight("giant")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVarietyService_FilterRejectsUnknownEnums(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)
	seedCatalog(t, svc)

	height := models.PlantHeight("giant")
	size := models.GrainSize("huge")
	yield := models.YieldPotential("bogus")
	quality := models.GrainQuality("superb")

	tests := []struct {
		name   string
		filter repository.VarietyFilter
	}{
		{"plant height", repository.VarietyFilter{PlantHeight: &height}},
		{"grain size", repository.VarietyFilter{GrainSize: &size}},
		{"minimum yield", repository.VarietyFilter{YieldMin: &yield}},
		{"maximum yield", repository.VarietyFilter{YieldMax: &yield}},
		{"minimum quality", repository.VarietyFilter{QualityMin: &quality}},
		{"maximum quality", repository.VarietyFilter{QualityMax: &quality}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.FilterVarieties(tt.filter)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Nil(t, result)

			_, err = svc.ListVarietiesPaged(tt.filter, 1, 10)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestVarietyService_ConvenienceLookups(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)
	seedCatalog(t, svc)

	result, err := svc.GetByResistance(models.ResistanceRust, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Castillo", "Caturra", "Colombia"}, varietyNames(result))

	result, err = svc.GetByResistance(models.ResistanceRust, models.LevelResistant)
	require.NoError(t, err)
	assert.Equal(t, []string{"Castillo", "Colombia"}, varietyNames(result))

	result, err = svc.GetByResistances(map[models.ResistanceType]models.ResistanceLevel{
		models.ResistanceRust:        models.LevelTolerant,
		models.ResistanceAnthracnose: models.LevelResistant,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Caturra"}, varietyNames(result))

	result, err = svc.GetByGrainSize(models.GrainSizeMedium)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bourbon", "Caturra"}, varietyNames(result))

	result, err = svc.GetByMinimumYield(models.YieldHigh)
	require.NoError(t, err)
	assert.Equal(t, []string{"Castillo", "Colombia"}, varietyNames(result))

	result, err = svc.GetByAltitudeRange(intPtr(1850), intPtr(1950))
	require.NoError(t, err)
	assert.Equal(t, []string{"Bourbon", "Castillo", "Colombia"}, varietyNames(result))

	result, err = svc.SearchVarieties("cenicafe")
	require.NoError(t, err)
	assert.Equal(t, []string{"Castillo", "Colombia"}, varietyNames(result))
}

func TestVarietyService_Paged(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)
	seedCatalog(t, svc)

	page, err := svc.ListVarietiesPaged(repository.VarietyFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasPrevious())
	assert.True(t, page.HasNext())
	assert.Equal(t, "1-2 of 5", page.DisplayRange())

	last, err := svc.ListVarietiesPaged(repository.VarietyFilter{}, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Typica"}, varietyNames(last.Items))
	assert.True(t, last.HasPrevious())
	assert.False(t, last.HasNext())
	assert.Equal(t, "5-5 of 5", last.DisplayRange())

	total := 0
	for p := 1; p <= page.TotalPages; p++ {
		r, err := svc.ListVarietiesPaged(repository.VarietyFilter{}, p, 2)
		require.NoError(t, err)
		total += len(r.Items)
	}
	assert.Equal(t, 5, total)

	beyond, err := svc.ListVarietiesPaged(repository.VarietyFilter{}, 4, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, "0 of 5", beyond.DisplayRange())

	_, err = svc.ListVarietiesPaged(repository.VarietyFilter{}, 0, 2)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.ListVarietiesPaged(repository.VarietyFilter{}, 1, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVarietyService_GetVarietiesByIDsKeepsOrder(t *testing.T) {
	_, _, svc := setupVarietyTestDB(t)
	ids := seedCatalog(t, svc)

	result, err := svc.GetVarietiesByIDs([]uint{ids["Typica"], ids["Bourbon"], ids["Typica"], ids["Castillo"]})
	require.NoError(t, err)
	assert.Equal(t, []string{"Typica", "Bourbon", "Castillo"}, varietyNames(result))

	_, err = svc.GetVarietiesByIDs([]uint{ids["Typica"], 777})
	assert.ErrorIs(t, err, ErrVarietyNotFound)
	assert.Contains(t, err.Error(), "777")
}

func TestVarietyService_GetByCreator(t *testing.T) {
	db, _, svc := setupVarietyTestDB(t)
	seedCatalog(t, svc)

	user := &models.User{Name: "Ana", Email: "ana@example.com", Password: "x"}
	require.NoError(t, repository.NewUserRepository(db).Create(user))

	_, err := svc.CreateVariety(VarietyInput{
		CommonName: "Cenicafe 1", PlantHeight: "low", GrainSize: "large", CreatedByID: &user.ID,
	})
	require.NoError(t, err)

	result, err := svc.GetByCreator(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cenicafe 1"}, varietyNames(result))
}
