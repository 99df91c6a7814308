package recommendation

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Weather is the forecast snapshot recommendations are made for
type Weather struct {
	City          string     `json:"city,omitempty"`
	Temp          float64    `json:"temp"`
	TempMin       float64    `json:"temp_min,omitempty"`
	TempMax       float64    `json:"temp_max,omitempty"`
	Condition     string     `json:"condition"`
	Description   string     `json:"description"`
	Icon          string     `json:"icon"`
	Humidity      float64    `json:"humidity"`
	Wind          float64    `json:"wind"`
	Precipitation float64    `json:"precipitation,omitempty"`
	Sunrise       *time.Time `json:"sunrise,omitempty"`
	Sunset        *time.Time `json:"sunset,omitempty"`
	Fallback      bool       `json:"fallback,omitempty"`
}

// FallbackWeather is used when no forecast could be fetched
func FallbackWeather() Weather {
	return Weather{
		Temp:        20,
		Condition:   "nuageux",
		Description: "Partiellement nuageux",
		Icon:        "partly-sunny",
		Humidity:    50,
		Wind:        10,
		Fallback:    true,
	}
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (w Weather) Value() (driver.Value, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (w *Weather) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to scan Weather: unsupported type")
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, w)
}

const (
	HotThreshold  = 30.0
	MildThreshold = 20.0
)

var (
	warmClothes = []string{
		"pull", "sweat", "veste", "manteau", "doudoune", "cardigan épais",
		"sweater", "hoodie", "jacket", "coat", "puffer",
	}
	warmMaterials = []string{
		"laine", "cachemire", "velours", "polaire",
		"wool", "cashmere", "velvet", "fleece",
	}
	veryWarmClothes = []string{
		"pull épais", "doudoune", "manteau", "parka",
		"heavy sweater", "puffer", "coat",
	}
)

// IsWeatherAppropriate applies the temperature rule to a piece. At 30°C
// and above warm clothes and warm materials are rejected; between 20°C and
// 30°C only very warm clothes are.
func IsWeatherAppropriate(p Piece, temperature float64) bool {
	name := strings.ToLower(p.Name)
	category := strings.ToLower(p.Category + " " + p.PieceType)

	if temperature >= HotThreshold {
		for _, warm := range warmClothes {
			if strings.Contains(name, warm) || strings.Contains(category, warm) {
				return false
			}
		}
		for _, m := range p.Materials {
			m = strings.ToLower(m)
			for _, warm := range warmMaterials {
				if strings.Contains(m, warm) {
					return false
				}
			}
		}
	}

	if temperature >= MildThreshold && temperature < HotThreshold {
		for _, warm := range veryWarmClothes {
			if strings.Contains(name, warm) {
				return false
			}
		}
	}

	return true
}
