// Package site holds the observatory registry and the observer context
// (location, timezone and atmosphere) derived from it.
package site

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/varghesereji/VOPlanner/internal/coord"
)

var ErrUnknownSite = errors.New("unknown site")

// Definition is a site as written in configuration: geodetic coordinates
// are strings like "-155d28m48.900s".
type Definition struct {
	Name        string  `yaml:"name" json:"name" validate:"required"`
	Longitude   string  `yaml:"long" json:"long" validate:"required"`
	Latitude    string  `yaml:"lat" json:"lat" validate:"required"`
	ElevationM  float64 `yaml:"elev" json:"elev"`
	PressureBar float64 `yaml:"pres" json:"pres" validate:"gte=0"`
	Humidity    float64 `yaml:"hum" json:"hum" validate:"gte=0,lte=1"`
	TempC       float64 `yaml:"temp" json:"temp"`
	Timezone    string  `yaml:"tz" json:"tz" validate:"required"`
	Description string  `yaml:"description" json:"description"`
}

// Site is a resolved observer context.
type Site struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	LonDeg      float64        `json:"lon_deg"`
	LatDeg      float64        `json:"lat_deg"`
	ElevationM  float64        `json:"elevation_m"`
	PressureBar float64        `json:"pressure_bar"`
	Humidity    float64        `json:"relative_humidity"`
	TempC       float64        `json:"temperature_c"`
	Location    *time.Location `json:"-"`
	Description string         `json:"description"`
}

// TimezoneName returns the IANA name of the site's timezone.
func (s Site) TimezoneName() string {
	if s.Location == nil {
		return "UTC"
	}
	return s.Location.String()
}

// Resolve converts a Definition into a Site.
func (d Definition) Resolve(id string) (Site, error) {
	lon, err := coord.ParseAngle(d.Longitude)
	if err != nil {
		return Site{}, fmt.Errorf("site %s longitude: %w", id, err)
	}
	if lon < -180 || lon > 360 {
		return Site{}, fmt.Errorf("site %s longitude %.6f out of range", id, lon)
	}
	if lon > 180 {
		lon -= 360
	}
	lat, err := coord.ParseAngle(d.Latitude)
	if err != nil {
		return Site{}, fmt.Errorf("site %s latitude: %w", id, err)
	}
	if lat < -90 || lat > 90 {
		return Site{}, fmt.Errorf("site %s latitude %.6f out of range", id, lat)
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return Site{}, fmt.Errorf("site %s timezone %q: %w", id, d.Timezone, err)
	}
	return Site{
		ID:          id,
		Name:        d.Name,
		LonDeg:      lon,
		LatDeg:      lat,
		ElevationM:  d.ElevationM,
		PressureBar: d.PressureBar,
		Humidity:    d.Humidity,
		TempC:       d.TempC,
		Location:    loc,
		Description: d.Description,
	}, nil
}

// builtin lists the sites compiled into the binary.
var builtin = map[string]Definition{
	"subaru": {
		Name:        "Subaru Telescope",
		Longitude:   "-155d28m48.900s",
		Latitude:    "+19d49m42.600s",
		ElevationM:  4163,
		PressureBar: 0.615,
		Humidity:    0.11,
		TempC:       0,
		Timezone:    "US/Hawaii",
		Description: "Subaru Telescope on Maunakea, Hawaii",
	},
}

// Registry is an immutable set of sites keyed by lower-case id.
// Safe for concurrent use.
type Registry struct {
	sites map[string]Site
}

// NewRegistry resolves the built-in sites plus extra. Entries in extra
// override built-ins with the same id.
func NewRegistry(extra map[string]Definition) (*Registry, error) {
	defs := make(map[string]Definition, len(builtin)+len(extra))
	for id, d := range builtin {
		defs[id] = d
	}
	for id, d := range extra {
		defs[strings.ToLower(strings.TrimSpace(id))] = d
	}

	sites := make(map[string]Site, len(defs))
	for id, d := range defs {
		s, err := d.Resolve(id)
		if err != nil {
			return nil, err
		}
		sites[id] = s
	}
	return &Registry{sites: sites}, nil
}

// DefaultRegistry returns a registry holding only the built-in sites.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(nil)
	if err != nil {
		panic(fmt.Sprintf("site: built-in registry invalid: %v", err))
	}
	return r
}

// Lookup finds a site by id, ignoring case and surrounding blanks.
func (r *Registry) Lookup(id string) (Site, error) {
	s, ok := r.sites[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Site{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownSite, id, strings.Join(r.IDs(), ", "))
	}
	return s, nil
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.sites))
	for id := range r.sites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every site sorted by id.
func (r *Registry) All() []Site {
	ids := r.IDs()
	out := make([]Site, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.sites[id])
	}
	return out
}
