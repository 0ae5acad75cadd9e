package holidays

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/afero"

	"github.com/klabast/wb-services/trash-calendar/internal/schedule"
)

// Overrides maps a year to the holiday list that replaces the rule-derived one
type Overrides map[int][]schedule.Holiday

// LoadOverrides reads a JSON file of the form {"2025": [{"name": "...", "month": 5, "day": 26}]}
func LoadOverrides(fs afero.Fs, path string) (Overrides, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holidays file: %w", err)
	}

	var raw map[string][]schedule.Holiday
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse holidays JSON: %w", err)
	}

	overrides := make(Overrides, len(raw))
	for yearStr, list := range raw {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q in holidays file", yearStr)
		}
		overrides[year] = list
	}
	return overrides, nil
}

// Open builds a provider from DefaultRules and the overrides at path, if that file exists
func Open(fs afero.Fs, path string) (*Provider, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return NewProvider(DefaultRules, nil)
	}

	overrides, err := LoadOverrides(fs, path)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded holiday overrides for %d years from %s", len(overrides), path)
	return NewProvider(DefaultRules, overrides)
}
