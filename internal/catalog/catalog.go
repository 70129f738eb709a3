// Package catalog serves the static option tables of the registration
// wizard: building types per category, room types, bed types, countries.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

type Option struct {
	Value       string `yaml:"value" json:"value"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type GuestSetupOption struct {
	Value bool   `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// BuildingCategory is a large building type and the building types it offers.
// The first entry of Types is the category's default.
type BuildingCategory struct {
	Large string   `yaml:"large" json:"large"`
	Types []string `yaml:"types" json:"types"`
}

type Catalog struct {
	BuildingCategories []BuildingCategory `yaml:"buildingCategories" json:"buildingCategories"`
	RoomTypes          []Option           `yaml:"roomTypes" json:"roomTypes"`
	GuestSetup         []GuestSetupOption `yaml:"guestSetup" json:"guestSetup"`
	BedTypes           []Option           `yaml:"bedTypes" json:"bedTypes"`
	Countries          []string           `yaml:"countries" json:"countries"`
	Amenities          []string           `yaml:"amenities" json:"amenities"`
	Conveniences       []string           `yaml:"conveniences" json:"conveniences"`
}

// Load decodes and checks a catalog document.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("catalog.Load: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog.Load: %w", err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.BuildingCategories) == 0 {
		return errors.New("no building categories")
	}
	seen := map[string]bool{}
	for _, cat := range c.BuildingCategories {
		if cat.Large == "" {
			return errors.New("building category without a name")
		}
		if seen[cat.Large] {
			return fmt.Errorf("duplicate building category %q", cat.Large)
		}
		seen[cat.Large] = true
		if len(cat.Types) == 0 {
			return fmt.Errorf("building category %q has no types", cat.Large)
		}
	}
	if dup := lo.FindDuplicates(lo.Map(c.BedTypes, func(o Option, _ int) string { return o.Value })); len(dup) > 0 {
		return fmt.Errorf("duplicate bed types %v", dup)
	}
	return nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(bytes.NewReader(embedded))
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LargeBuildingTypes lists the category names in display order.
func (c *Catalog) LargeBuildingTypes() []string {
	return lo.Map(c.BuildingCategories, func(cat BuildingCategory, _ int) string { return cat.Large })
}

// BuildingTypes returns the options of a large building type, or nil when
// large is empty or unknown.
func (c *Catalog) BuildingTypes(large string) []string {
	cat, ok := lo.Find(c.BuildingCategories, func(cat BuildingCategory) bool { return cat.Large == large })
	if !ok {
		return nil
	}
	return slices.Clone(cat.Types)
}

// DefaultBuildingType is the building type selected together with large.
func (c *Catalog) DefaultBuildingType(large string) (string, bool) {
	types := c.BuildingTypes(large)
	if len(types) == 0 {
		return "", false
	}
	return types[0], true
}

func (c *Catalog) IsLargeBuildingType(v string) bool {
	return lo.ContainsBy(c.BuildingCategories, func(cat BuildingCategory) bool { return cat.Large == v })
}

func (c *Catalog) IsBuildingType(large, v string) bool {
	return lo.Contains(c.BuildingTypes(large), v)
}

func (c *Catalog) IsBedType(v string) bool {
	return lo.ContainsBy(c.BedTypes, func(o Option) bool { return o.Value == v })
}

// BedTypeLabel returns the display label of a bed type, or the value itself.
func (c *Catalog) BedTypeLabel(v string) string {
	if o, ok := lo.Find(c.BedTypes, func(o Option) bool { return o.Value == v }); ok {
		return o.Label
	}
	return v
}

func (c *Catalog) IsCountry(v string) bool {
	return lo.Contains(c.Countries, v)
}
