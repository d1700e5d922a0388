// Package overlap resolves overlaps between reef classes ahead of the manual
// editing stage. High Intertidal Coral Reef geometries take precedence over
// Platform and Fringing Coral Reef features: the priority area is carved out
// of lower-priority features, features fully consumed by the carve are
// dropped, and every carve site is emitted as a marker point so the result
// can be spot-checked in the desktop GIS tool.
package overlap

import (
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/geometry"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/model"
)

// classField is the attribute holding the classification code.
const classField = "RB_Type_L3"

// Classification codes with a defined precedence relationship.
const (
	ClassHighIntertidal = "High Intertidal Coral Reef"
	ClassPlatform       = "Platform Coral Reef"
	ClassFringing       = "Fringing Coral Reef"
)

// Marker flags one carved overlap for review.
type Marker struct {
	X, Y       float64
	PriorityID int
	TargetID   int
}

// Result is the outcome of an overlap-cleaning pass.
type Result struct {
	Features []model.Feature // surviving features, priority geometries untouched
	Dropped  []int           // feature IDs fully consumed by a priority feature
	Carved   []int           // feature IDs whose geometry lost area to a carve
	Markers  []Marker
}

// Clean carves every High Intertidal Coral Reef geometry out of the Platform
// and Fringing Coral Reef features it overlaps. Overlaps removing less than
// minOverlapArea are ignored as coordinate noise. eps is the boundary
// tolerance below which touching edges are not treated as overlap (adjacent
// reef polygons share edges by construction). Priority geometries are never
// modified.
func Clean(features []model.Feature, minOverlapArea, eps float64) *Result {
	var priority []model.Feature
	for _, f := range features {
		if f.Attrs[classField] == ClassHighIntertidal {
			priority = append(priority, f)
		}
	}

	res := &Result{}
	for _, f := range features {
		cls := f.Attrs[classField]
		if cls != ClassPlatform && cls != ClassFringing {
			res.Features = append(res.Features, f)
			continue
		}

		cur := f.Geom
		consumed := false
		carved := false
		for _, p := range priority {
			x, y, overlaps := geometry.Overlap(cur, p.Geom, eps)
			if !overlaps {
				continue
			}
			if geometry.Within(cur, p.Geom, eps) {
				zap.L().Warn("overlap: feature fully consumed by priority feature",
					zap.Int("feature_id", f.ID),
					zap.Int("priority_id", p.ID),
					zap.String("class", cls),
				)
				res.Dropped = append(res.Dropped, f.ID)
				consumed = true
				break
			}

			next, removed := carve(cur, p.Geom)
			if removed < minOverlapArea {
				continue
			}
			res.Markers = append(res.Markers, Marker{X: x, Y: y, PriorityID: p.ID, TargetID: f.ID})
			carved = true
			if next == nil {
				zap.L().Warn("overlap: feature fully consumed by carve",
					zap.Int("feature_id", f.ID),
					zap.Int("priority_id", p.ID),
					zap.String("class", cls),
				)
				res.Dropped = append(res.Dropped, f.ID)
				consumed = true
				break
			}
			cur = next
		}
		if consumed {
			continue
		}

		if carved {
			res.Carved = append(res.Carved, f.ID)
			if parts := geometry.Polygons(cur); len(parts) > 1 {
				zap.L().Info("overlap: carve split feature into multiple parts",
					zap.Int("feature_id", f.ID),
					zap.Int("parts", len(parts)),
				)
			}
		}
		res.Features = append(res.Features, model.Feature{ID: f.ID, Attrs: f.Attrs, Geom: cur})
	}

	zap.L().Info("overlap: clean complete",
		zap.Int("input", len(features)),
		zap.Int("kept", len(res.Features)),
		zap.Int("carved", len(res.Carved)),
		zap.Int("dropped", len(res.Dropped)),
		zap.Int("markers", len(res.Markers)),
	)
	return res
}

// carve subtracts every part of the priority geometry from every part of g
// and reports the removed area. A nil geometry means nothing survived.
func carve(g, priorityGeom geom.T) (geom.T, float64) {
	parts := geometry.Polygons(g)
	for _, cp := range geometry.Polygons(priorityGeom) {
		var next []*geom.Polygon
		for _, sp := range parts {
			next = append(next, geometry.Difference(sp, cp)...)
		}
		parts = next
	}

	var after float64
	for _, p := range parts {
		after += geometry.Area(p)
	}
	removed := geometry.Area(g) - after

	switch len(parts) {
	case 0:
		return nil, removed
	case 1:
		return parts[0], removed
	default:
		mp := geom.NewMultiPolygon(geom.XY)
		for _, p := range parts {
			_ = mp.Push(p)
		}
		return mp, removed
	}
}
