package models

import (
	"winecalc/internal/blend"

	"gorm.io/gorm"
)

// Blend is a saved blend proposal together with the chemistry computed when
// it was saved.
type Blend struct {
	gorm.Model
	OwnerID uint    `gorm:"not null;index" json:"owner_id"`
	Name    string  `gorm:"not null" json:"name"`
	Source  string  `gorm:"type:varchar(16);not null" json:"source"`
	Score   float64 `json:"score"`
	Notes   string  `gorm:"type:text" json:"notes"`

	TotalVolume    float64  `gorm:"not null" json:"total_volume"`
	AlcoholPercent float64  `gorm:"not null" json:"alcohol_percent"`
	TotalAcidity   *float64 `json:"total_acidity"`
	VolatileAcid   *float64 `json:"volatile_acidity"`
	PH             *float64 `gorm:"column:ph" json:"ph"`
	ResidualSugars *float64 `json:"residual_sugars"`
	FreeSO2        *float64 `gorm:"column:free_so2" json:"free_so2"`
	TotalSO2       *float64 `gorm:"column:total_so2" json:"total_so2"`

	Components []BlendComponent `gorm:"foreignKey:BlendID" json:"components"`
}

// ApplyResult copies computed chemistry onto the row.
func (b *Blend) ApplyResult(r blend.Result) {
	b.TotalVolume = r.TotalVolume
	b.AlcoholPercent = r.AlcoholPercent
	b.TotalAcidity = r.TotalAcidity
	b.VolatileAcid = r.VolatileAcid
	b.PH = r.PH
	b.ResidualSugars = r.ResidualSugars
	b.FreeSO2 = r.FreeSO2
	b.TotalSO2 = r.TotalSO2
}

// Result returns the stored chemistry.
func (b Blend) Result() blend.Result {
	return blend.Result{
		TotalVolume:    b.TotalVolume,
		AlcoholPercent: b.AlcoholPercent,
		TotalAcidity:   b.TotalAcidity,
		VolatileAcid:   b.VolatileAcid,
		PH:             b.PH,
		ResidualSugars: b.ResidualSugars,
		FreeSO2:        b.FreeSO2,
		TotalSO2:       b.TotalSO2,
	}
}

// BlendComponent is the liters of one tank a saved blend draws.
type BlendComponent struct {
	gorm.Model
	BlendID uint    `gorm:"not null;index" json:"blend_id"`
	TankID  string  `gorm:"type:varchar(36);not null" json:"tank_id"`
	Volume  float64 `gorm:"not null" json:"volume"`

	Tank *Tank `gorm:"foreignKey:TankID" json:"tank,omitempty"`
}
