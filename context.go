package reconcile

import (
	"io"
	"time"

	"charm.land/log/v2"

	"github.com/falcomza/reconcile/internal/numbering"
	"github.com/falcomza/reconcile/internal/route"
)

// YieldFunc is the injected cooperative-yield callback of spec.md §5: hosts
// that run an event loop can implement it as a real yield; everything else
// (including this module's own CLI) can pass a no-op or a logging probe.
// Called when either the run count or character count for the paragraph
// being processed exceeds the configured thresholds.
type YieldFunc func(runs, chars int)

// Clock supplies the date stamped on revision markers (w:date), per spec.md
// §9's "single injectable clock" decision — never called directly from
// serialize logic; always threaded through Context.
type Clock func() time.Time

// Context carries the per-call state the original implementation kept as
// module-level mutable globals: the Numbering Service instance and the
// revision-id counter. A Context must be constructed fresh per
// reconciliation call via NewContext; it is never a package global, per
// spec.md §9's redesign note.
type Context struct {
	Author         string
	Clock          Clock
	Yield          YieldFunc
	Logger         *log.Logger
	YieldRunThreshold  int
	YieldCharThreshold int

	numbering     *numbering.Service
	nextRevisionID int
	sequences      *route.ExplicitSequenceState
}

// NewContext constructs a Context with the given author and reasonable
// defaults: time.Now for the clock, a no-op yield, a discard logger, and
// the default yield thresholds of spec.md §5 (runs > 50 or chars > 5000).
func NewContext(author string) *Context {
	return &Context{
		Author:             author,
		Clock:              time.Now,
		Yield:              func(runs, chars int) {},
		Logger:             log.New(io.Discard),
		YieldRunThreshold:  50,
		YieldCharThreshold: 5000,
		numbering:          numbering.New("", 0),
		nextRevisionID:     0,
		sequences:          route.NewExplicitSequenceState(),
	}
}

// Sequences returns the Context's explicit-sequence state, carrying
// numbering-key -> {numId, nextStartAt} across single-line-list-fallback
// operations in this reconciliation run, per spec.md §4.10.
func (c *Context) Sequences() *route.ExplicitSequenceState {
	return c.sequences
}

// WithNumberingFromPart seeds the Context's Numbering Service from an
// existing numbering part, so obtained ids never collide with one already
// present in the destination document.
func (c *Context) WithNumberingFromPart(existingNumberingXML string, preferredMax int) *Context {
	c.numbering = numbering.New(existingNumberingXML, preferredMax)
	return c
}

// Numbering returns the Context's Numbering Service.
func (c *Context) Numbering() *numbering.Service {
	return c.numbering
}

// NextRevisionID returns the next monotonically increasing revision
// identifier for this Context, grounded on the teacher's getNextRevisionID
// regex-scan idiom but carried as explicit per-context state instead of a
// package global.
func (c *Context) NextRevisionID() int {
	id := c.nextRevisionID
	c.nextRevisionID++
	return id
}

// SeedRevisionIDFrom raises the Context's counter to one past
// maxExistingID, the highest `w:id` the caller found already present
// (tracked-change or bookmark ids share one numbering space in practice),
// so newly allocated ids never collide with the destination document. It
// never lowers the counter and does not scan any WML itself.
func (c *Context) SeedRevisionIDFrom(maxExistingID int) {
	if maxExistingID+1 > c.nextRevisionID {
		c.nextRevisionID = maxExistingID + 1
	}
}

// MaybeYield invokes the yield callback when either threshold is exceeded.
// Best-effort, ordering-preserving: it never mutates the Run Model being
// processed, it is purely a checkpoint.
func (c *Context) MaybeYield(runs, chars int) {
	if runs > c.YieldRunThreshold || chars > c.YieldCharThreshold {
		c.Yield(runs, chars)
	}
}
