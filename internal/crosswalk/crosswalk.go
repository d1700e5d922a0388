package crosswalk

import (
	"sort"

	"go.uber.org/zap"

	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/geometry"
	"github.com/eatlas/AU-NESP-MaC-3-17-AIMS-NW-Aus-Features/internal/model"
)

// ClassField is the classification attribute being cross-walked.
const ClassField = "RB_Type_L3"

// AttachmentField is written from the mapping's attachment value.
const AttachmentField = "Attachment"

// Result reports what the cross-walk did.
type Result struct {
	Features     []model.Feature
	WindingFixed []int          // feature IDs whose ring winding was corrected
	Unmapped     map[string]int // old code -> feature count that had no mapping
	CountsBefore map[string]int
	CountsAfter  map[string]int
}

// Apply remaps every feature's classification through the table, corrects
// ring winding, applies the attribute renames, and filters attributes to the
// table's keep list. Unmapped features keep an empty classification and are
// reported, not dropped; the run always completes.
func Apply(table *Table, features []model.Feature) *Result {
	res := &Result{
		Unmapped:     make(map[string]int),
		CountsBefore: make(map[string]int),
		CountsAfter:  make(map[string]int),
	}

	for _, f := range features {
		geomOut, fixed := geometry.FixWinding(f.Geom)
		if fixed || f.Rewound {
			res.WindingFixed = append(res.WindingFixed, f.ID)
		}

		oldCode := f.Attrs[ClassField]
		res.CountsBefore[oldCode]++

		attrs := make(map[string]string, len(f.Attrs))
		for k, v := range f.Attrs {
			if newName, ok := table.Renames[k]; ok {
				k = newName
			}
			attrs[k] = v
		}

		if m, ok := table.Lookup(oldCode); ok {
			attrs[ClassField] = m.To
			attrs[AttachmentField] = m.Attachment
		} else {
			res.Unmapped[oldCode]++
			attrs[ClassField] = ""
		}
		res.CountsAfter[attrs[ClassField]]++

		if len(table.Keep) > 0 {
			kept := make(map[string]string, len(table.Keep))
			for _, k := range table.Keep {
				if v, ok := attrs[k]; ok {
					kept[k] = v
				}
			}
			attrs = kept
		}

		res.Features = append(res.Features, model.Feature{ID: f.ID, Attrs: attrs, Geom: geomOut})
	}

	logCounts("crosswalk: classes before", res.CountsBefore)
	logCounts("crosswalk: classes after", res.CountsAfter)
	if len(res.WindingFixed) > 0 {
		zap.L().Warn("crosswalk: corrected ring winding",
			zap.Ints("feature_ids", res.WindingFixed),
		)
	}
	for code, n := range res.Unmapped {
		zap.L().Warn("crosswalk: unmapped classification",
			zap.String("old_code", code),
			zap.Int("features", n),
		)
	}

	return res
}

func logCounts(msg string, counts map[string]int) {
	codes := make([]string, 0, len(counts))
	for c := range counts {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	for _, c := range codes {
		zap.L().Info(msg, zap.String("class", c), zap.Int("count", counts[c]))
	}
}
