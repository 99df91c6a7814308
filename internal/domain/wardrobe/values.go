package wardrobe

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// Season is one of the four seasons used for seasonality tags
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// IsValid checks if the season is valid
func (s Season) IsValid() bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter:
		return true
	default:
		return false
	}
}

// NormalizeSeasonality lower-cases the tags, drops unknown seasons and duplicates
func NormalizeSeasonality(tags []string) StringList {
	out := make(StringList, 0, len(tags))
	seen := make(map[Season]bool, len(tags))
	for _, t := range tags {
		s := Season(strings.ToLower(strings.TrimSpace(t)))
		if s == "autumn" {
			s = SeasonFall
		}
		if !s.IsValid() || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, string(s))
	}
	return out
}

// StringList is a list of tags persisted as a JSON array
type StringList []string

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l, func() { *l = StringList{} })
}

// Contains reports whether the list holds s
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Colors holds the primary and secondary colors of a piece
type Colors struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (c Colors) Value() (driver.Value, error) {
	b, err := json.Marshal(c.normalized())
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (c *Colors) Scan(value interface{}) error {
	return scanJSON(value, c, func() { *c = Colors{} })
}

func (c Colors) normalized() Colors {
	if c.Primary == nil {
		c.Primary = []string{}
	}
	if c.Secondary == nil {
		c.Secondary = []string{}
	}
	return c
}

// ColorPalette holds the global colors of a complete look
type ColorPalette struct {
	Primary []string `json:"primary"`
	Accent  []string `json:"accent"`
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p ColorPalette) Value() (driver.Value, error) {
	if p.Primary == nil {
		p.Primary = []string{}
	}
	if p.Accent == nil {
		p.Accent = []string{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *ColorPalette) Scan(value interface{}) error {
	return scanJSON(value, p, func() { *p = ColorPalette{} })
}

// BoundingBox locates a piece on the analysed photo. Coordinates are
// relative to the image size and lie in [0,1].
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate checks that every coordinate is within [0,1]
func (b BoundingBox) Validate() error {
	for _, v := range []float64{b.X, b.Y, b.Width, b.Height} {
		if v < 0 || v > 1 {
			return errors.New("bounding box coordinates must be within [0,1]")
		}
	}
	return nil
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (b BoundingBox) Value() (driver.Value, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (b *BoundingBox) Scan(value interface{}) error {
	return scanJSON(value, b, func() { *b = BoundingBox{} })
}

func scanJSON(value interface{}, dest interface{}, onNil func()) error {
	if value == nil {
		onNil()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to scan JSON value: unsupported type")
	}

	if len(data) == 0 {
		onNil()
		return nil
	}
	return json.Unmarshal(data, dest)
}
