package models

import (
	"time"

	"winecalc/internal/blend"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tank is a vessel in a user's cellar. Its id is a UUID assigned on create.
type Tank struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID uint  `gorm:"not null;index" json:"ownerId"`
	Owner   *User `gorm:"foreignKey:OwnerID" json:"-"`

	Name           string   `gorm:"not null" json:"name"`
	Capacity       float64  `gorm:"not null" json:"capacity"`
	CapacityUnit   string   `gorm:"type:varchar(4);not null;default:L" json:"capacityUnit"`
	Volume         float64  `gorm:"not null" json:"volume"`
	VolumeUnit     string   `gorm:"type:varchar(4);not null;default:L" json:"volumeUnit"`
	AlcoholPercent float64  `gorm:"not null" json:"alcoholPercent"`
	TotalAcidity   *float64 `json:"totalAcidity"`
	VolatileAcid   *float64 `json:"volatileAcidity"`
	PH             *float64 `gorm:"column:ph" json:"pH"`
	ResidualSugars *float64 `json:"residualSugars"`
	FreeSO2        *float64 `gorm:"column:free_so2" json:"freeSO2"`
	TotalSO2       *float64 `gorm:"column:total_so2" json:"totalSO2"`
	Notes          string   `gorm:"type:text" json:"notes"`
}

// BeforeCreate assigns the UUID.
func (t *Tank) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Snapshot converts the row into the read-only value the blend engine works on.
func (t Tank) Snapshot() blend.Tank {
	return blend.Tank{
		ID:             t.ID,
		Name:           t.Name,
		Capacity:       t.Capacity,
		CapacityUnit:   blend.ParseUnit(t.CapacityUnit),
		Volume:         t.Volume,
		VolumeUnit:     blend.ParseUnit(t.VolumeUnit),
		AlcoholPercent: t.AlcoholPercent,
		TotalAcidity:   t.TotalAcidity,
		VolatileAcid:   t.VolatileAcid,
		PH:             t.PH,
		ResidualSugars: t.ResidualSugars,
		FreeSO2:        t.FreeSO2,
		TotalSO2:       t.TotalSO2,
		Notes:          t.Notes,
	}
}

// Snapshots converts a slice of rows.
func Snapshots(tanks []Tank) []blend.Tank {
	out := make([]blend.Tank, len(tanks))
	for i, t := range tanks {
		out[i] = t.Snapshot()
	}
	return out
}
