package models

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

const MaxAltitude = 5000

type Variety struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	CommonName        string              `gorm:"size:100;not null" json:"common_name"`
	NameKey           string              `gorm:"size:200;not null;uniqueIndex" json:"-"`
	ScientificName    string              `gorm:"size:150" json:"scientific_name,omitempty"`
	ScientificNameKey *string             `gorm:"size:300;uniqueIndex" json:"-"`
	Description       string              `gorm:"type:text" json:"description,omitempty"`
	PlantHeight       PlantHeight         `gorm:"size:10;not null;index" json:"plant_height"`
	GrainSize         GrainSize           `gorm:"size:10;not null;index" json:"grain_size"`
	AltitudeMin       *int                `json:"altitude_min,omitempty"`
	AltitudeMax       *int                `json:"altitude_max,omitempty"`
	YieldPotential    *YieldPotential     `gorm:"size:20;index" json:"yield_potential,omitempty"`
	GrainQuality      *GrainQuality       `gorm:"size:20" json:"grain_quality,omitempty"`
	History           string              `gorm:"type:text" json:"history,omitempty"`
	Breeder           string              `gorm:"size:150" json:"breeder,omitempty"`
	GeneticFamily     string              `gorm:"size:100" json:"genetic_family,omitempty"`
	GeneticGroup      string              `gorm:"size:100" json:"genetic_group,omitempty"`
	Status            Status              `gorm:"size:10;not null;index" json:"status"`
	CreatedByID       *uint               `gorm:"index" json:"created_by_id,omitempty"`
	CreatedBy         *User               `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	Images            []VarietyImage      `gorm:"foreignKey:VarietyID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Resistances       []VarietyResistance `gorm:"foreignKey:VarietyID;constraint:OnDelete:CASCADE" json:"resistances,omitempty"`
}

type Resistance struct {
	ID   uint           `gorm:"primaryKey" json:"id"`
	Type ResistanceType `gorm:"size:20;not null;uniqueIndex" json:"type"`
}

type VarietyResistance struct {
	VarietyID    uint            `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ResistanceID uint            `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Resistance   *Resistance     `gorm:"foreignKey:ResistanceID" json:"resistance,omitempty"`
	Level        ResistanceLevel `gorm:"size:20;not null" json:"level"`
}

type VarietyImage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	VarietyID   uint   `gorm:"not null;index" json:"-"`
	ImageURL    string `gorm:"size:255;not null" json:"image_url"`
	Description string `gorm:"size:255" json:"description,omitempty"`
}

var folder = cases.Fold()

// FoldKey is the normalized form used by the unique name indexes.
func FoldKey(s string) string {
	return folder.String(strings.TrimSpace(s))
}

func (v *Variety) BeforeSave(tx *gorm.DB) error {
	v.NameKey = FoldKey(v.CommonName)
	if key := FoldKey(v.ScientificName); key != "" {
		v.ScientificNameKey = &key
	} else {
		v.ScientificNameKey = nil
	}
	if v.Status == "" {
		v.Status = StatusActive
	}
	return nil
}

func (v *Variety) IsActive() bool {
	return v.Status == StatusActive
}

// ResistanceLevel returns the stored level for t, or "" when the variety
// has no association of that type. Resistance must be preloaded.
func (v *Variety) ResistanceLevel(t ResistanceType) ResistanceLevel {
	for _, r := range v.Resistances {
		if r.Resistance != nil && r.Resistance.Type == t {
			return r.Level
		}
	}
	return ""
}

// AltitudeRange renders the stored bounds as display text.
func (v *Variety) AltitudeRange() string {
	switch {
	case v.AltitudeMin != nil && v.AltitudeMax != nil:
		return strconv.Itoa(*v.AltitudeMin) + " - " + strconv.Itoa(*v.AltitudeMax) + " masl"
	case v.AltitudeMin != nil:
		return "From " + strconv.Itoa(*v.AltitudeMin) + " masl"
	case v.AltitudeMax != nil:
		return "Up to " + strconv.Itoa(*v.AltitudeMax) + " masl"
	default:
		return "N/A"
	}
}

func (v *Variety) YieldLabel() string {
	if v.YieldPotential == nil {
		return "N/A"
	}
	return Label(*v.YieldPotential)
}

func (v *Variety) QualityLabel() string {
	if v.GrainQuality == nil {
		return "N/A"
	}
	return Label(*v.GrainQuality)
}
