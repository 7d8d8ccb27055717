package services

import (
	"testing"

	"github.com/h4ks-com/coffee-catalog/internal/models"
	"github.com/h4ks-com/coffee-catalog/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRecommendationTestDB(t *testing.T) (*VarietyService, *RecommendationService) {
	_, varietyRepo, varietyService := setupVarietyTestDB(t)
	return varietyService, NewRecommendationService(varietyRepo)
}

func recommendationNames(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Variety.CommonName
	}
	return out
}

func TestScore(t *testing.T) {
	tall := models.PlantHeightTall
	large := models.GrainSizeLarge
	medium := models.YieldMedium
	high := models.YieldHigh

	v := &models.Variety{
		PlantHeight:    models.PlantHeightTall,
		GrainSize:      models.GrainSizeLarge,
		AltitudeMin:    intPtr(1200),
		AltitudeMax:    intPtr(1800),
		YieldPotential: &high,
	}

	assert.Equal(t, 0, Score(v, RecommendationRequest{}))
	assert.Equal(t, 50, Score(v, RecommendationRequest{TargetAltitude: intPtr(1200)}))
	assert.Equal(t, 50, Score(v, RecommendationRequest{TargetAltitude: intPtr(1800)}))
	assert.Equal(t, 0, Score(v, RecommendationRequest{TargetAltitude: intPtr(1801)}))
	assert.Equal(t, 30, Score(v, RecommendationRequest{PlantHeight: &tall}))
	assert.Equal(t, 20, Score(v, RecommendationRequest{GrainSize: &large}))
	assert.Equal(t, 40, Score(v, RecommendationRequest{MinYield: &medium}))
	assert.Equal(t, 140, Score(v, RecommendationRequest{
		TargetAltitude: intPtr(1500), PlantHeight: &tall, GrainSize: &large, MinYield: &high,
	}))

	// Without a stored maximum the altitude weight is never earned.
	open := &models.Variety{AltitudeMin: intPtr(1000)}
	assert.Equal(t, 0, Score(open, RecommendationRequest{TargetAltitude: intPtr(1500)}))
}

func TestRecommendationService_RanksByScore(t *testing.T) {
	varietyService, svc := setupRecommendationTestDB(t)
	seedCatalog(t, varietyService)

	recs, err := svc.Recommend(RecommendationRequest{TargetAltitude: intPtr(1500), Region: "Huila"})
	require.NoError(t, err)

	// Caturra tops out at 1300, below the widened window of 1350-1650.
	assert.Equal(t, []string{"Castillo", "Colombia", "Typica", "Bourbon"}, recommendationNames(recs))
	assert.Equal(t, 50, recs[0].Score)
	assert.Equal(t, 0, recs[3].Score)
}

func TestRecommendationService_CombinedPreferences(t *testing.T) {
	varietyService, svc := setupRecommendationTestDB(t)
	seedCatalog(t, varietyService)

	low := models.PlantHeightLow
	high := models.YieldHigh
	recs, err := svc.Recommend(RecommendationRequest{
		TargetAltitude: intPtr(1500), PlantHeight: &low, MinYield: &high,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Castillo", "Colombia"}, recommendationNames(recs))
	for _, r := range recs {
		assert.Equal(t, 120, r.Score)
	}
}

func TestRecommendationService_SmallTargetAltitude(t *testing.T) {
	varietyService, svc := setupRecommendationTestDB(t)
	seedCatalog(t, varietyService)

	// A tolerance of zero makes the window a single point.
	recs, err := svc.Recommend(RecommendationRequest{TargetAltitude: intPtr(5)})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommendationService_Validation(t *testing.T) {
	_, svc := setupRecommendationTestDB(t)

	_, err := svc.Recommend(RecommendationRequest{TargetAltitude: intPtr(-1)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Recommend(RecommendationRequest{TargetAltitude: intPtr(5001)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.HighAltitude(9000)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecommendationService_Categories(t *testing.T) {
	varietyService, svc := setupRecommendationTestDB(t)
	seedCatalog(t, varietyService)

	resistant, err := svc.DiseaseResistant()
	require.NoError(t, err)
	assert.Equal(t, []string{"Castillo", "Caturra", "Colombia"}, varietyNames(resistant))

	highYield, err := svc.HighYield()
	require.NoError(t, err)
	assert.Equal(t, []string{"Colombia", "Castillo"}, varietyNames(highYield))

	beginner, err := svc.BeginnerFriendly()
	require.NoError(t, err)
	assert.Equal(t, []string{"Castillo", "Colombia"}, varietyNames(beginner))

	highAlt, err := svc.HighAltitude(1900)
	require.NoError(t, err)
	assert.Equal(t, []string{"Castillo", "Colombia", "Bourbon"}, varietyNames(highAlt))

	lowAlt, err := svc.LowAltitude(1000)
	require.NoError(t, err)
	assert.Equal(t, []string{"Caturra", "Castillo"}, varietyNames(lowAlt))
}

func TestRecommendationService_SkipsArchived(t *testing.T) {
	varietyService, svc := setupRecommendationTestDB(t)
	ids := seedCatalog(t, varietyService)
	require.NoError(t, varietyService.ArchiveVariety(ids["Colombia"]))

	highYield, err := svc.HighYield()
	require.NoError(t, err)
	assert.Equal(t, []string{"Castillo"}, varietyNames(highYield))

	all, err := varietyService.FilterVarieties(repository.VarietyFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
