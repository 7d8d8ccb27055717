package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Enums persist as their lowercase English names. Ordered enums keep their
// order in the slices below; range filters are built from these slices.

type PlantHeight string

const (
	PlantHeightLow  PlantHeight = "low"
	PlantHeightTall PlantHeight = "tall"
)

var PlantHeights = []PlantHeight{PlantHeightLow, PlantHeightTall}

type GrainSize string

const (
	GrainSizeSmall  GrainSize = "small"
	GrainSizeMedium GrainSize = "medium"
	GrainSizeLarge  GrainSize = "large"
)

var GrainSizes = []GrainSize{GrainSizeSmall, GrainSizeMedium, GrainSizeLarge}

type YieldPotential string

const (
	YieldVeryLow     YieldPotential = "very_low"
	YieldLow         YieldPotential = "low"
	YieldMedium      YieldPotential = "medium"
	YieldHigh        YieldPotential = "high"
	YieldExceptional YieldPotential = "exceptional"
)

var YieldPotentials = []YieldPotential{YieldVeryLow, YieldLow, YieldMedium, YieldHigh, YieldExceptional}

type GrainQuality string

const (
	QualityVeryLow  GrainQuality = "very_low"
	QualityLow      GrainQuality = "low"
	QualityMedium   GrainQuality = "medium"
	QualityHigh     GrainQuality = "high"
	QualityVeryHigh GrainQuality = "very_high"
)

var GrainQualities = []GrainQuality{QualityVeryLow, QualityLow, QualityMedium, QualityHigh, QualityVeryHigh}

type ResistanceType string

const (
	ResistanceRust        ResistanceType = "rust"
	ResistanceAnthracnose ResistanceType = "anthracnose"
	ResistanceNematodes   ResistanceType = "nematodes"
)

var ResistanceTypes = []ResistanceType{ResistanceRust, ResistanceAnthracnose, ResistanceNematodes}

type ResistanceLevel string

const (
	LevelSusceptible ResistanceLevel = "susceptible"
	LevelTolerant    ResistanceLevel = "tolerant"
	LevelResistant   ResistanceLevel = "resistant"
)

var ResistanceLevels = []ResistanceLevel{LevelSusceptible, LevelTolerant, LevelResistant}

// Status is the lifecycle state of a variety. Deleted varieties stay in the
// table but are hidden from every listing.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

var Statuses = []Status{StatusActive, StatusInactive, StatusDeleted}

// Spanish spellings used by the legacy catalog database.
var aliases = map[string]string{
	"bajo":        "low",
	"alto":        "tall",
	"pequeno":     "small",
	"pequeño":     "small",
	"medio":       "medium",
	"mediano":     "medium",
	"grande":      "large",
	"muy_bajo":    "very_low",
	"muy_baja":    "very_low",
	"baja":        "low",
	"media":       "medium",
	"alta":        "high",
	"muy_alta":    "very_high",
	"excepcional": "exceptional",
	"roya":        "rust",
	"antracnosis": "anthracnose",
	"nematodos":   "nematodes",
	"tolerante":   "tolerant",
	"resistente":  "resistant",
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

func parseEnum[T ~string](kind, raw string, values []T) (T, error) {
	key := normalize(raw)
	for _, v := range values {
		if string(v) == key {
			return v, nil
		}
	}
	// "alto" is tall for plant height but high for yield and quality.
	if alias, ok := aliases[key]; ok {
		for _, v := range values {
			if string(v) == alias {
				return v, nil
			}
		}
		if alias == "tall" {
			for _, v := range values {
				if string(v) == "high" {
					return v, nil
				}
			}
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, raw)
}

func ParsePlantHeight(s string) (PlantHeight, error) {
	return parseEnum("plant height", s, PlantHeights)
}

func ParseGrainSize(s string) (GrainSize, error) {
	return parseEnum("grain size", s, GrainSizes)
}

func ParseYieldPotential(s string) (YieldPotential, error) {
	return parseEnum("yield potential", s, YieldPotentials)
}

func ParseGrainQuality(s string) (GrainQuality, error) {
	return parseEnum("grain quality", s, GrainQualities)
}

func ParseResistanceType(s string) (ResistanceType, error) {
	return parseEnum("resistance type", s, ResistanceTypes)
}

func ParseResistanceLevel(s string) (ResistanceLevel, error) {
	return parseEnum("resistance level", s, ResistanceLevels)
}

func ParseStatus(s string) (Status, error) {
	return parseEnum("status", s, Statuses)
}

func rank[T comparable](order []T, v T) int {
	for i, o := range order {
		if o == v {
			return i
		}
	}
	return -1
}

func atLeast[T comparable](order []T, v T) []T {
	i := rank(order, v)
	if i < 0 {
		return nil
	}
	return append([]T(nil), order[i:]...)
}

func atMost[T comparable](order []T, v T) []T {
	i := rank(order, v)
	if i < 0 {
		return nil
	}
	return append([]T(nil), order[:i+1]...)
}

func (p PlantHeight) Valid() bool { return rank(PlantHeights, p) >= 0 }
func (g GrainSize) Valid() bool   { return rank(GrainSizes, g) >= 0 }
func (s Status) Valid() bool      { return rank(Statuses, s) >= 0 }

func (y YieldPotential) Valid() bool               { return rank(YieldPotentials, y) >= 0 }
func (y YieldPotential) Rank() int                 { return rank(YieldPotentials, y) }
func (y YieldPotential) AtLeast() []YieldPotential { return atLeast(YieldPotentials, y) }
func (y YieldPotential) AtMost() []YieldPotential  { return atMost(YieldPotentials, y) }

func (q GrainQuality) Valid() bool             { return rank(GrainQualities, q) >= 0 }
func (q GrainQuality) Rank() int               { return rank(GrainQualities, q) }
func (q GrainQuality) AtLeast() []GrainQuality { return atLeast(GrainQualities, q) }
func (q GrainQuality) AtMost() []GrainQuality  { return atMost(GrainQualities, q) }

func (t ResistanceType) Valid() bool { return rank(ResistanceTypes, t) >= 0 }

func (l ResistanceLevel) Valid() bool                { return rank(ResistanceLevels, l) >= 0 }
func (l ResistanceLevel) Rank() int                  { return rank(ResistanceLevels, l) }
func (l ResistanceLevel) AtLeast() []ResistanceLevel { return atLeast(ResistanceLevels, l) }

var titleCaser = cases.Title(language.English)

// Label turns a stored enum name into display text, "very_low" -> "Very low".
func Label[T ~string](v T) string {
	if v == "" {
		return "N/A"
	}
	words := strings.Split(string(v), "_")
	words[0] = titleCaser.String(words[0])
	return strings.Join(words, " ")
}
