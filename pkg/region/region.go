// Package region provides the registry of geographic regions processed
// by agrimart. Regions are described in regions.yaml:
//
//	rostov:
//	  area: [47.5, 38.0, 46.0, 41.0] # [N, W, S, E]
//
// A region with the all-zero area is kept in the registry but excluded
// from processing.
package region

import (
	"slices"

	"gopkg.in/yaml.v3"
)

// BBox is a bounding box in degrees.
type BBox struct {
	North, West, South, East float64
}

// IsDegenerate is true for the all-zero box that disables a region.
func (b BBox) IsDegenerate() bool {
	return b == BBox{}
}

// Region is an identified bounding box.
type Region struct {
	ID   string
	Area BBox
}

// Registry is a read-only set of regions sorted by ID.
type Registry struct {
	regions []Region
}

type regionYAML struct {
	Area []float64 `yaml:"area"`
}

// Parse builds a Registry from regions.yaml content.
func Parse(data []byte) (*Registry, error) {
	var raw map[string]regionYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ParseError(err)
	}

	res := &Registry{regions: make([]Region, 0, len(raw))}
	for id, v := range raw {
		if len(v.Area) != 4 {
			return nil, AreaError(id, len(v.Area))
		}
		res.regions = append(res.regions, Region{
			ID: id,
			Area: BBox{
				North: v.Area[0],
				West:  v.Area[1],
				South: v.Area[2],
				East:  v.Area[3],
			},
		})
	}
	slices.SortFunc(res.regions, func(a, b Region) int {
		return compare(a.ID, b.ID)
	})
	return res, nil
}

// Active returns regions with a non-degenerate area.
func (r *Registry) Active() []Region {
	var res []Region
	for _, v := range r.regions {
		if !v.Area.IsDegenerate() {
			res = append(res, v)
		}
	}
	return res
}

// Get returns a region by its ID.
func (r *Registry) Get(id string) (Region, bool) {
	idx, ok := slices.BinarySearchFunc(r.regions, id,
		func(v Region, id string) int {
			return compare(v.ID, id)
		})
	if !ok {
		return Region{}, false
	}
	return r.regions[idx], true
}

// Select returns active regions for the given IDs in registry order.
// Empty ids selects all active regions. Unknown IDs are an error,
// disabled regions are dropped.
func (r *Registry) Select(ids []string) ([]Region, error) {
	if len(ids) == 0 {
		return r.Active(), nil
	}
	for _, id := range ids {
		if _, ok := r.Get(id); !ok {
			return nil, NotFoundError(id, r.IDs())
		}
	}
	var res []Region
	for _, v := range r.Active() {
		if slices.Contains(ids, v.ID) {
			res = append(res, v)
		}
	}
	return res, nil
}

// IDs returns IDs of all regions.
func (r *Registry) IDs() []string {
	res := make([]string, len(r.regions))
	for i, v := range r.regions {
		res[i] = v.ID
	}
	return res
}

func compare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
