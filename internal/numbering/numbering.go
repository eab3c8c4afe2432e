// Package numbering implements the Numbering Service (spec.md §4.6):
// interning numbering definitions per style signature, allocating concrete
// numbering identifiers, and emitting/merging the numbering part.
//
// Grounded on the teacher's listNumberingIDs/bulletListNumID/
// numberedListNumID fields (paragraph.go), generalized from two hardcoded
// ids to a full style-signature map, and on the id-allocation-by-
// regex-scan idiom shared across both falcomza repos (getNextRevisionID,
// getNextNoteID, getNextCommentID).
package numbering

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/falcomza/reconcile/internal/xmladapter"
)

var numIDPattern = regexp.MustCompile(`w:numId="(\d+)"`)
var abstractIDPattern = regexp.MustCompile(`w:abstractNumId="(\d+)"`)

// Definition is one interned numbering definition: an abstract-definition
// identity (style signature) plus its concrete numbering id.
type Definition struct {
	StyleSignature string
	AbstractNumID  int
	NumID          int
	Levels         []LevelFormat
}

// LevelFormat describes one indentation level's marker format.
type LevelFormat struct {
	ILvl       int
	Format     string // "bullet", "decimal", "lowerLetter", "upperLetter", "lowerRoman", "upperRoman"
	Text       string // level text pattern, e.g. "%1." or ""
	StartAt    int
}

// Service holds the per-reconciliation-run state: the style-signature →
// Definition map. A Service MUST be constructed fresh per call (via New),
// never shared as a package global — spec.md §9's "mutable module-level
// counters → per-reconciliation context" redesign.
type Service struct {
	defs        map[string]*Definition
	order       []string // insertion order, for stable numbering-part emission
	nextNumID   int
	nextAbsID   int
	preferredMax int // preferred upper bound for allocated ids; 0 = no bound
	startOverrides map[int]int // numId -> start-override value for level 0
}

// New constructs a Service seeded from the floor of ids already present in
// an existing numbering part (existingNumberingXML may be empty for a fresh
// document). preferredMax, if > 0, bounds allocation before the service
// reports an inconsistent-numbering-merge condition.
func New(existingNumberingXML string, preferredMax int) *Service {
	return &Service{
		defs:         make(map[string]*Definition),
		nextNumID:    nextID(existingNumberingXML, numIDPattern),
		nextAbsID:    nextID(existingNumberingXML, abstractIDPattern),
		preferredMax: preferredMax,
		startOverrides: make(map[int]int),
	}
}

// SetStartOverride records a level-0 start-override for numID, applied the
// next time EmitPart renders the numbering part — used by the single-line-
// list fallback of spec.md §4.10 to preserve a reused list's continuing
// start value.
func (s *Service) SetStartOverride(numID, startAt int) {
	s.startOverrides[numID] = startAt
}

func nextID(xmlSrc string, pattern *regexp.Regexp) int {
	max := -1
	for _, m := range pattern.FindAllStringSubmatch(xmlSrc, -1) {
		var v int
		fmt.Sscanf(m[1], "%d", &v)
		if v > max {
			max = v
		}
	}
	return max + 1
}

// ObtainForStyle returns the numbering id for styleSignature, allocating a
// new concrete id (and backing abstract definition) on first use within
// this Service's lifetime. Idempotent within a single reconciliation run.
func (s *Service) ObtainForStyle(sig string, levels []LevelFormat) (int, error) {
	if d, ok := s.defs[sig]; ok {
		d.Levels = mergeLevels(d.Levels, levels)
		return d.NumID, nil
	}
	if s.preferredMax > 0 && s.nextNumID > s.preferredMax {
		if reused, ok := s.reuseHole(); ok {
			return s.intern(sig, reused, levels), nil
		}
		return 0, fmt.Errorf("numbering identifier window exhausted (preferred max %d)", s.preferredMax)
	}
	id := s.nextNumID
	s.nextNumID++
	return s.intern(sig, id, levels), nil
}

// Preset forces sig to resolve to an already-allocated numID (e.g. a list
// the new content continues), without consuming the Service's own id
// counter. Subsequent ObtainForStyle(sig, ...) calls return numID.
func (s *Service) Preset(sig string, numID int, levels []LevelFormat) {
	if _, ok := s.defs[sig]; ok {
		return
	}
	s.defs[sig] = &Definition{StyleSignature: sig, AbstractNumID: -1, NumID: numID, Levels: levels}
	s.order = append(s.order, sig)
}

// mergeLevels adds lvl entries from incoming whose ILvl isn't already
// present in existing, keeping existing entries in place and appending new
// ones in ILvl order — a multi-level list sharing one marker family (e.g.
// nested bullets) accumulates one <w:lvl> per depth under a single
// abstractNum, per spec.md §4.6/§4.7.
func mergeLevels(existing, incoming []LevelFormat) []LevelFormat {
	have := make(map[int]bool, len(existing))
	for _, l := range existing {
		have[l.ILvl] = true
	}
	out := existing
	for _, l := range incoming {
		if have[l.ILvl] {
			continue
		}
		out = append(out, l)
		have[l.ILvl] = true
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ILvl < out[j].ILvl })
	return out
}

func (s *Service) intern(sig string, numID int, levels []LevelFormat) int {
	absID := s.nextAbsID
	s.nextAbsID++
	s.defs[sig] = &Definition{StyleSignature: sig, AbstractNumID: absID, NumID: numID, Levels: levels}
	s.order = append(s.order, sig)
	return numID
}

// reuseHole looks for an id from 0 through preferredMax that no interned
// definition of this Service uses (a "hole" left by ids skipped during
// prior merges). Returns ok=false when no hole exists; ObtainForStyle then
// returns a window-exhausted error, which the root package reports as
// ErrCodeInconsistentNumberingMerge.
func (s *Service) reuseHole() (int, bool) {
	used := make(map[int]bool, len(s.defs))
	for _, d := range s.defs {
		used[d.NumID] = true
	}
	for id := 0; id <= s.preferredMax; id++ {
		if !used[id] {
			return id, true
		}
	}
	return 0, false
}

// Definitions returns interned definitions in stable (first-obtained)
// order, for numbering-part emission.
func (s *Service) Definitions() []*Definition {
	out := make([]*Definition, 0, len(s.order))
	for _, sig := range s.order {
		out = append(out, s.defs[sig])
	}
	return out
}

// EmitPart renders the interned definitions as a numbering part rooted at
// a `numbering` element. The elements it creates carry no namespace
// prefix (`<abstractNum>`, `<lvl>`, `<num>`, ...), while their attributes
// carry the `w:` prefix. Abstract definitions precede concrete `num`
// references, as spec.md §4.6's mergeInto ordering invariant requires.
func (s *Service) EmitPart() *xmladapter.Node {
	root := xmladapter.NewElement("numbering")
	defs := s.Definitions()
	for _, d := range defs {
		if d.AbstractNumID < 0 {
			// A Preset definition already exists in the destination
			// numbering part; nothing new to emit for it.
			continue
		}
		abs := xmladapter.NewElement("abstractNum")
		abs.SetAttr("w", "abstractNumId", fmt.Sprint(d.AbstractNumID))
		for _, lvl := range d.Levels {
			lvlNode := xmladapter.NewElement("lvl")
			lvlNode.SetAttr("w", "ilvl", fmt.Sprint(lvl.ILvl))
			start := xmladapter.NewElement("start")
			start.SetAttr("w", "val", fmt.Sprint(lvl.StartAt))
			numFmt := xmladapter.NewElement("numFmt")
			numFmt.SetAttr("w", "val", lvl.Format)
			lvlText := xmladapter.NewElement("lvlText")
			lvlText.SetAttr("w", "val", lvl.Text)
			lvlNode.Children = append(lvlNode.Children, start, numFmt, lvlText)
			abs.Children = append(abs.Children, lvlNode)
		}
		root.Children = append(root.Children, abs)
	}
	for _, d := range defs {
		if d.AbstractNumID < 0 {
			continue
		}
		num := xmladapter.NewElement("num")
		num.SetAttr("w", "numId", fmt.Sprint(d.NumID))
		absRef := xmladapter.NewElement("abstractNumId")
		absRef.SetAttr("w", "val", fmt.Sprint(d.AbstractNumID))
		num.Children = append(num.Children, absRef)
		if startAt, ok := s.startOverrides[d.NumID]; ok {
			num.Children = append(num.Children, lvlOverrideNode(startAt))
		}
		root.Children = append(root.Children, num)
	}
	return root
}

func lvlOverrideNode(startAt int) *xmladapter.Node {
	override := xmladapter.NewElement("lvlOverride")
	override.SetAttr("w", "ilvl", "0")
	startOverride := xmladapter.NewElement("startOverride")
	startOverride.SetAttr("w", "val", fmt.Sprint(startAt))
	override.Children = append(override.Children, startOverride)
	return override
}

// MergeInto re-maps incoming numbering identifiers to free ids in the
// destination service and returns the id remapping (old numId → new numId)
// so the caller can rewrite paragraph numId references via RemapPayload.
func (s *Service) MergeInto(incoming []*Definition) (remap map[int]int, err error) {
	remap = make(map[int]int, len(incoming))
	sorted := append([]*Definition(nil), incoming...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].NumID < sorted[j].NumID })
	for _, d := range sorted {
		newID, obtainErr := s.ObtainForStyle(d.StyleSignature, d.Levels)
		if obtainErr != nil {
			return nil, obtainErr
		}
		remap[d.NumID] = newID
	}
	return remap, nil
}

// RemapPayload rewrites w:numId references in-place on cloned paragraph
// nodes per the supplied remap table.
func RemapPayload(nodes []*xmladapter.Node, remap map[int]int) []*xmladapter.Node {
	out := make([]*xmladapter.Node, len(nodes))
	for i, n := range nodes {
		cp := n.Clone()
		remapNumIDs(cp, remap)
		out[i] = cp
	}
	return out
}

func remapNumIDs(n *xmladapter.Node, remap map[int]int) {
	if n == nil || n.IsText || n.IsRaw {
		return
	}
	if n.Local == "numId" {
		if v, ok := n.Attr("val"); ok {
			var old int
			fmt.Sscanf(v, "%d", &old)
			if nw, ok := remap[old]; ok {
				n.SetAttr("w", "val", fmt.Sprint(nw))
			}
		}
	}
	for _, c := range n.Children {
		remapNumIDs(c, remap)
	}
}

// ParseDefinitions reads a `w:numbering` document back into Definitions, for
// feeding a numbering part that originated outside this Service (e.g. a
// sibling document's numbering.xml) into MergeInto. Each definition's
// StyleSignature is derived from its own numId rather than its marker shape,
// since two lists that merely look alike (same bullet/decimal format) are
// still distinct list instances once they come from different documents and
// must never be silently deduplicated onto the same numId.
func ParseDefinitions(root *xmladapter.Node) []*Definition {
	if root == nil {
		return nil
	}
	levelsByAbs := make(map[string][]LevelFormat)
	for _, abs := range root.ChildrenOf("abstractNum") {
		absID, _ := abs.Attr("abstractNumId")
		var levels []LevelFormat
		for _, lvl := range abs.ChildrenOf("lvl") {
			ilvlStr, _ := lvl.Attr("ilvl")
			var ilvl int
			fmt.Sscanf(ilvlStr, "%d", &ilvl)
			lf := LevelFormat{ILvl: ilvl}
			if numFmt := lvl.Child("numFmt"); numFmt != nil {
				if v, ok := numFmt.Attr("val"); ok {
					lf.Format = v
				}
			}
			if lvlText := lvl.Child("lvlText"); lvlText != nil {
				if v, ok := lvlText.Attr("val"); ok {
					lf.Text = v
				}
			}
			if start := lvl.Child("start"); start != nil {
				if v, ok := start.Attr("val"); ok {
					fmt.Sscanf(v, "%d", &lf.StartAt)
				}
			}
			levels = append(levels, lf)
		}
		levelsByAbs[absID] = levels
	}

	var defs []*Definition
	for _, num := range root.ChildrenOf("num") {
		numIDStr, _ := num.Attr("numId")
		var numID int
		fmt.Sscanf(numIDStr, "%d", &numID)
		absID := ""
		if ref := num.Child("abstractNumId"); ref != nil {
			absID, _ = ref.Attr("val")
		}
		defs = append(defs, &Definition{
			StyleSignature: fmt.Sprintf("imported#%d", numID),
			NumID:          numID,
			Levels:         levelsByAbs[absID],
		})
	}
	return defs
}

// ApplyStartOverride injects a level-override with a start-override for
// level 0 onto the `w:num` element referencing targetNumID, so the first
// item of a reused list preserves the marker's starting number (e.g. a
// single-line "1. X" continuing a prior sequence).
func ApplyStartOverride(numberingRoot *xmladapter.Node, targetNumID, startAt int) error {
	for _, num := range numberingRoot.ChildrenOf("num") {
		v, _ := num.Attr("numId")
		if v != fmt.Sprint(targetNumID) {
			continue
		}
		override := xmladapter.NewElement("lvlOverride")
		override.SetAttr("w", "ilvl", "0")
		startOverride := xmladapter.NewElement("startOverride")
		startOverride.SetAttr("w", "val", fmt.Sprint(startAt))
		override.Children = append(override.Children, startOverride)
		num.Children = append(num.Children, override)
		return nil
	}
	return fmt.Errorf("numbering id %d not found for start override", targetNumID)
}
