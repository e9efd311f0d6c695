package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Form field names. They double as feature column names.
const (
	FieldCountry           = "country"
	FieldCategoryLevel1    = "categoryLevel1"
	FieldCategoryLevel2    = "categoryLevel2"
	FieldAlcoholPercentage = "alcoholPercentage"
	FieldVolume            = "volume"
	FieldVintage           = "vintage"
	FieldIsOrganic         = "isOrganic"
)

// CategoricalFields are the fields that may be offered as constrained choices.
var CategoricalFields = []string{FieldCountry, FieldCategoryLevel1, FieldCategoryLevel2}

// Input bounds enforced by the form.
const (
	MinAlcoholPercentage = 0.0
	MaxAlcoholPercentage = 100.0
	MinVolume            = 50
	MaxVolume            = 3000
)

// UserInputRow is one form submission.
type UserInputRow struct {
	Country           string
	CategoryLevel1    string
	CategoryLevel2    string
	AlcoholPercentage float64
	Volume            int
	Vintage           *int
	IsOrganic         int
}

// ParseVintage trims the text and parses it as an integer year. Blank or
// non-integer text yields nil.
func ParseVintage(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// OrganicFlag converts the checkbox state into the 0/1 feature value.
func OrganicFlag(checked bool) int {
	if checked {
		return 1
	}
	return 0
}

// Validate checks the numeric bounds the form enforces.
func (r UserInputRow) Validate() error {
	if math.IsNaN(r.AlcoholPercentage) || math.IsInf(r.AlcoholPercentage, 0) {
		return fmt.Errorf("%w: alcoholPercentage must be a finite number", ErrInvalidInput)
	}
	if r.AlcoholPercentage < MinAlcoholPercentage || r.AlcoholPercentage > MaxAlcoholPercentage {
		return fmt.Errorf("%w: alcoholPercentage must be between %.0f and %.0f", ErrInvalidInput, MinAlcoholPercentage, MaxAlcoholPercentage)
	}
	if r.Volume < MinVolume || r.Volume > MaxVolume {
		return fmt.Errorf("%w: volume must be between %d and %d", ErrInvalidInput, MinVolume, MaxVolume)
	}
	if r.IsOrganic != 0 && r.IsOrganic != 1 {
		return fmt.Errorf("%w: isOrganic must be 0 or 1", ErrInvalidInput)
	}
	return nil
}

// Values returns the submitted fields keyed by column name. A nil vintage stays nil.
func (r UserInputRow) Values() map[string]any {
	var vintage any
	if r.Vintage != nil {
		vintage = *r.Vintage
	}
	return map[string]any{
		FieldCountry:           r.Country,
		FieldCategoryLevel1:    r.CategoryLevel1,
		FieldCategoryLevel2:    r.CategoryLevel2,
		FieldAlcoholPercentage: r.AlcoholPercentage,
		FieldVolume:            r.Volume,
		FieldVintage:           vintage,
		FieldIsOrganic:         r.IsOrganic,
	}
}

// Key is a canonical representation of the row, used for result caching.
func (r UserInputRow) Key() string {
	vintage := "null"
	if r.Vintage != nil {
		vintage = strconv.Itoa(*r.Vintage)
	}
	return strings.Join([]string{
		strconv.Quote(r.Country),
		strconv.Quote(r.CategoryLevel1),
		strconv.Quote(r.CategoryLevel2),
		strconv.FormatFloat(r.AlcoholPercentage, 'g', -1, 64),
		strconv.Itoa(r.Volume),
		vintage,
		strconv.Itoa(r.IsOrganic),
	}, "|")
}
