package blend

// Tank is a read-only snapshot of a vessel handed to the engine.
// Optional chemistry readings are nil when unknown.
type Tank struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Capacity       float64  `json:"capacity"`
	CapacityUnit   Unit     `json:"capacityUnit"`
	Volume         float64  `json:"volume"`
	VolumeUnit     Unit     `json:"volumeUnit"`
	AlcoholPercent float64  `json:"alcoholPercent"`
	TotalAcidity   *float64 `json:"totalAcidity"`
	VolatileAcid   *float64 `json:"volatileAcidity"`
	PH             *float64 `json:"pH"`
	ResidualSugars *float64 `json:"residualSugars"`
	FreeSO2        *float64 `json:"freeSO2"`
	TotalSO2       *float64 `json:"totalSO2"`
	Notes          string   `json:"notes,omitempty"`
}

// AvailableLiters is the current liquid volume in liters.
func (t Tank) AvailableLiters() float64 {
	return ToLiters(t.Volume, t.VolumeUnit)
}

// CapacityLiters is the nominal vessel size in liters.
func (t Tank) CapacityLiters() float64 {
	return ToLiters(t.Capacity, t.CapacityUnit)
}

// Field identifies one of the optional chemistry readings.
type Field int

const (
	TotalAcidity Field = iota
	VolatileAcidity
	PH
	ResidualSugars
	FreeSO2
	TotalSO2
)

// Fields lists every optional reading in presentation order.
var Fields = []Field{TotalAcidity, VolatileAcidity, PH, ResidualSugars, FreeSO2, TotalSO2}

func (f Field) String() string {
	switch f {
	case TotalAcidity:
		return "totalAcidity"
	case VolatileAcidity:
		return "volatileAcidity"
	case PH:
		return "pH"
	case ResidualSugars:
		return "residualSugars"
	case FreeSO2:
		return "freeSO2"
	case TotalSO2:
		return "totalSO2"
	default:
		return "unknown"
	}
}

// Reading returns the tank's value for f, or nil when it was never measured.
func (t Tank) Reading(f Field) *float64 {
	switch f {
	case TotalAcidity:
		return t.TotalAcidity
	case VolatileAcidity:
		return t.VolatileAcid
	case PH:
		return t.PH
	case ResidualSugars:
		return t.ResidualSugars
	case FreeSO2:
		return t.FreeSO2
	case TotalSO2:
		return t.TotalSO2
	default:
		return nil
	}
}

// Component is a tank paired with the liters it contributes to a candidate blend.
type Component struct {
	Tank        Tank    `json:"tank"`
	BlendVolume float64 `json:"blendVolume"`
}

// Result is the aggregate chemistry of a blend. A reading is present only
// when every contributing tank carried it.
type Result struct {
	TotalVolume    float64  `json:"totalVolume"`
	AlcoholPercent float64  `json:"alcoholPercent"`
	TotalAcidity   *float64 `json:"totalAcidity"`
	VolatileAcid   *float64 `json:"volatileAcidity"`
	PH             *float64 `json:"pH"`
	ResidualSugars *float64 `json:"residualSugars"`
	FreeSO2        *float64 `json:"freeSO2"`
	TotalSO2       *float64 `json:"totalSO2"`
}

// Reading returns the blended value for f, or nil when it could not be computed.
func (r Result) Reading(f Field) *float64 {
	switch f {
	case TotalAcidity:
		return r.TotalAcidity
	case VolatileAcidity:
		return r.VolatileAcid
	case PH:
		return r.PH
	case ResidualSugars:
		return r.ResidualSugars
	case FreeSO2:
		return r.FreeSO2
	case TotalSO2:
		return r.TotalSO2
	default:
		return nil
	}
}

func (r *Result) set(f Field, v *float64) {
	switch f {
	case TotalAcidity:
		r.TotalAcidity = v
	case VolatileAcidity:
		r.VolatileAcid = v
	case PH:
		r.PH = v
	case ResidualSugars:
		r.ResidualSugars = v
	case FreeSO2:
		r.FreeSO2 = v
	case TotalSO2:
		r.TotalSO2 = v
	}
}

// Float returns a pointer to v, handy for literal optional readings.
func Float(v float64) *float64 {
	return &v
}

// ParseField resolves a reading name as used in JSON payloads.
func ParseField(name string) (Field, bool) {
	for _, f := range Fields {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}

// MarshalText lets fields key JSON objects by name.
func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (f *Field) UnmarshalText(text []byte) error {
	parsed, ok := ParseField(string(text))
	if !ok {
		return invalid("ranges", "has unknown reading %q", string(text))
	}
	*f = parsed
	return nil
}
