// Package adapter renders city lists and adapts legacy city data into the
// form the renderer expects.
package adapter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
)

// validatorInstance is a package-level validator instance.
// Using a single instance is more efficient as it caches struct information.
var validatorInstance = validator.New()

// City is one entry of a province map.
type City struct {
	Name string `json:"name" validate:"required"`
	ID   int    `json:"id" validate:"gt=0"`
}

// Validate runs validation checks on the City struct using the defined tags.
func (c City) Validate() error {
	return validatorInstance.Struct(c)
}

// Source produces the cities to render.
type Source func() ([]City, error)

// LegacySource produces cities as a name to ID map.
type LegacySource func() (map[string]int, error)

// Guangdong is the built-in source the renderer was written against.
func Guangdong() ([]City, error) {
	return []City{
		{Name: "shenzhen", ID: 11},
		{Name: "guangzhou", ID: 12},
	}, nil
}

// Render validates the source's cities and writes them to w as a JSON array.
func Render(w io.Writer, source Source) error {
	slog.Info("Rendering city map")

	cities, err := source()
	if err != nil {
		return fmt.Errorf("load cities: %w", err)
	}
	for i, c := range cities {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("city %d: %w", i, err)
		}
	}
	if cities == nil {
		cities = []City{}
	}

	data, err := json.Marshal(cities)
	if err != nil {
		return fmt.Errorf("encode cities: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// AdaptMap turns a legacy source into a Source. Cities are ordered by ID,
// then name.
func AdaptMap(legacy LegacySource) Source {
	return func() ([]City, error) {
		byName, err := legacy()
		if err != nil {
			return nil, err
		}

		cities := make([]City, 0, len(byName))
		for name, id := range byName {
			cities = append(cities, City{Name: name, ID: id})
		}
		sort.Slice(cities, func(i, j int) bool {
			if cities[i].ID != cities[j].ID {
				return cities[i].ID < cities[j].ID
			}
			return cities[i].Name < cities[j].Name
		})
		return cities, nil
	}
}

// FileSource reads a legacy JSON object of name to ID from fs.
func FileSource(fs afero.Fs, path string) LegacySource {
	return func() (map[string]int, error) {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var byName map[string]int
		if err := json.Unmarshal(data, &byName); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return byName, nil
	}
}
