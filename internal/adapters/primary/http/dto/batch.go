package dto

import (
	"fmt"
	"strconv"
	"strings"

	"wine-tier-service/internal/core/domain"
	"wine-tier-service/internal/core/services"
)

// headerAliases maps normalized header text to a field name.
var headerAliases = map[string]string{
	"country":            domain.FieldCountry,
	"categorylevel1":     domain.FieldCategoryLevel1,
	"category_level1":    domain.FieldCategoryLevel1,
	"category_level_1":   domain.FieldCategoryLevel1,
	"categorylevel2":     domain.FieldCategoryLevel2,
	"category_level2":    domain.FieldCategoryLevel2,
	"category_level_2":   domain.FieldCategoryLevel2,
	"alcoholpercentage":  domain.FieldAlcoholPercentage,
	"alcohol_percentage": domain.FieldAlcoholPercentage,
	"alcohol":            domain.FieldAlcoholPercentage,
	"volume":             domain.FieldVolume,
	"volume_ml":          domain.FieldVolume,
	"vintage":            domain.FieldVintage,
	"isorganic":          domain.FieldIsOrganic,
	"is_organic":         domain.FieldIsOrganic,
	"organic":            domain.FieldIsOrganic,
}

// ParseBatchRows turns spreadsheet records (header first) into batch rows.
// Missing columns take the form defaults; unparsable cells fail only their row.
func ParseBatchRows(records [][]string) ([]services.BatchRow, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: file needs a header row and at least one data row", domain.ErrInvalidInput)
	}

	columns := make(map[string]int)
	for i, h := range records[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if field, ok := headerAliases[key]; ok {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no known columns in header %v", domain.ErrInvalidInput, records[0])
	}

	rows := make([]services.BatchRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		rowNum := i + 1
		input, err := parseBatchRecord(rec, columns)
		if err != nil {
			err = fmt.Errorf("%w: row %d: %v", domain.ErrInvalidInput, rowNum, err)
		}
		rows = append(rows, services.BatchRow{Row: rowNum, Input: input, Err: err})
	}
	if len(rows) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	return rows, nil
}

func parseBatchRecord(rec []string, columns map[string]int) (domain.UserInputRow, error) {
	cell := func(field string) (string, bool) {
		idx, ok := columns[field]
		if !ok || idx >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[idx]), true
	}

	var req PredictRequest
	for _, field := range domain.CategoricalFields {
		if v, ok := cell(field); ok {
			v := v
			switch field {
			case domain.FieldCountry:
				req.Country = &v
			case domain.FieldCategoryLevel1:
				req.CategoryLevel1 = &v
			case domain.FieldCategoryLevel2:
				req.CategoryLevel2 = &v
			}
		}
	}

	if v, ok := cell(domain.FieldAlcoholPercentage); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.UserInputRow{}, fmt.Errorf("alcoholPercentage %q is not a number", v)
		}
		req.AlcoholPercentage = &f
	}
	if v, ok := cell(domain.FieldVolume); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.UserInputRow{}, fmt.Errorf("volume %q is not an integer", v)
		}
		req.Volume = &n
	}
	if v, ok := cell(domain.FieldVintage); ok {
		req.Vintage = VintageText(v)
	}
	if v, ok := cell(domain.FieldIsOrganic); ok && v != "" {
		b, err := parseFlag(v)
		if err != nil {
			return domain.UserInputRow{}, err
		}
		req.IsOrganic = b
	}

	return req.ToInput(), nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("isOrganic %q is not a boolean", s)
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
