package reconcile

import (
	"regexp"
	"strings"

	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/pkg/frame"
)

var nameSeparator = regexp.MustCompile(`\s*;\s*`)

const (
	tagSeparator       = ","
	componentSeparator = "; "
)

// Normalizer canonicalizes the join keys of both sources.
type Normalizer struct {
	cfg *config.ReportConfig
}

// NewNormalizer creates a normalizer for cfg.
func NewNormalizer(cfg *config.ReportConfig) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Bitrix normalizes the projected task-tracker table: description/name swap,
// prefix stripping, tag explosion, name explosion and empty-name removal.
func (n *Normalizer) Bitrix(f *frame.Frame) *frame.Frame {
	keys := n.cfg.BitrixKeys

	out := f
	if out.Has(keys.Description) {
		out = n.swapTruncatedNames(out)
	}
	out = out.Map(keys.Name, func(r frame.Row) frame.Value {
		v := r.Get(keys.Name)
		if v.IsNull() {
			return v
		}
		return frame.Cell(n.StripPrefix(strings.TrimSpace(v.String())))
	})
	out = out.Explode(keys.Tags, frame.SplitOn(tagSeparator))
	out = out.Explode(keys.Name, frame.SplitPattern(nameSeparator))
	return out.Filter(func(r frame.Row) bool { return !r.Get(keys.Name).IsNull() })
}

// swapTruncatedNames recovers names cut by the tracker's field-length limit: when the
// description starts with the marker it becomes the name and the name moves to the description.
func (n *Normalizer) swapTruncatedNames(f *frame.Frame) *frame.Frame {
	keys := n.cfg.BitrixKeys
	marked := make([]bool, f.Len())
	for _, r := range f.Rows() {
		d := r.Get(keys.Description)
		marked[r.Index()] = !d.IsNull() && strings.HasPrefix(strings.TrimSpace(d.String()), n.cfg.DescriptionMarker)
	}
	swapped := f.Map(keys.Name, func(r frame.Row) frame.Value {
		if !marked[r.Index()] {
			return r.Get(keys.Name)
		}
		return frame.Cell(n.markedName(strings.TrimSpace(r.Get(keys.Description).String())))
	})
	return swapped.Map(keys.Description, func(r frame.Row) frame.Value {
		if !marked[r.Index()] {
			return r.Get(keys.Description)
		}
		return f.Value(r.Index(), keys.Name)
	})
}

// markedName is the name carried by a marked description. A description starting with the
// name prefix is kept whole; the prefix is stripped once, with every other name.
func (n *Normalizer) markedName(s string) string {
	if strings.HasPrefix(s, n.cfg.NamePrefix) {
		return s
	}
	return strings.TrimLeft(strings.TrimPrefix(s, n.cfg.DescriptionMarker), ": ")
}

// StripPrefix removes the configured name prefix when present.
func (n *Normalizer) StripPrefix(name string) string {
	return strings.TrimPrefix(name, n.cfg.NamePrefix)
}

// Web normalizes the projected field-operations table: comment default, component
// explosion, then forward fill of tractor and component.
func (n *Normalizer) Web(f *frame.Frame) *frame.Frame {
	keys := n.cfg.WebKeys
	out := f.FillNull(keys.Comment, frame.String(n.cfg.CommentPlaceholder))
	out = out.Explode(keys.Component, frame.SplitOn(componentSeparator))
	return out.ForwardFill(keys.Tractor, keys.Component)
}
