package reconcile

import (
	"context"
	"fmt"

	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/internal/logger"
	"github.com/locvowork/trial_report/pkg/frame"
)

// Source names used in schema errors.
const (
	SourceNameBitrix = "bitrix"
	SourceNameWeb    = "web"
)

// Result holds the tables produced by one reconciliation.
type Result struct {
	// Bitrix and Web are the normalized inputs.
	Bitrix *frame.Frame
	Web    *frame.Frame
	// Joined is the merged table before remapping.
	Joined *frame.Frame
	// Sides holds the Side of every Joined row.
	Sides []Side
}

// Reconciler runs projection, normalization and the merge.
type Reconciler struct {
	cfg        *config.ReportConfig
	normalizer *Normalizer
}

// NewReconciler creates a reconciler for cfg.
func NewReconciler(cfg *config.ReportConfig) *Reconciler {
	return &Reconciler{cfg: cfg, normalizer: NewNormalizer(cfg)}
}

// Reconcile projects and normalizes both raw tables, then joins them.
func (r *Reconciler) Reconcile(ctx context.Context, bitrixRaw, webRaw *frame.Frame) (*Result, error) {
	bitrix, err := r.PrepareBitrix(bitrixRaw)
	if err != nil {
		return nil, err
	}
	web, err := r.PrepareWeb(webRaw)
	if err != nil {
		return nil, err
	}

	joined, sides, err := MergeSides(bitrix, web, JoinSpecFrom(r.cfg))
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	logger.InfoLog(ctx, "reconciled %d bitrix rows with %d web rows into %d rows (policy %s)",
		bitrix.Len(), web.Len(), joined.Len(), r.cfg.JoinPolicy)
	return &Result{Bitrix: bitrix, Web: web, Joined: joined, Sides: sides}, nil
}

// PrepareBitrix projects and normalizes the task-tracker table.
func (r *Reconciler) PrepareBitrix(raw *frame.Frame) (*frame.Frame, error) {
	projected, err := Project(raw, SourceNameBitrix, r.cfg.BitrixColumns)
	if err != nil {
		return nil, err
	}
	return r.normalizer.Bitrix(projected), nil
}

// PrepareWeb projects and normalizes the field-operations table.
func (r *Reconciler) PrepareWeb(raw *frame.Frame) (*frame.Frame, error) {
	projected, err := Project(raw, SourceNameWeb, r.cfg.WebColumns)
	if err != nil {
		return nil, err
	}
	return r.normalizer.Web(projected), nil
}

// Conflicts compares the remapped report table with the normalized task-tracker table.
// Remap keeps row order, so sides of the joined table apply to report.
func (r *Reconciler) Conflicts(report, bitrix *frame.Frame, sides []Side) *frame.Frame {
	return Conflicts(report, bitrix, sides, ConflictSpec{
		Component: r.cfg.ReportKeys.Component,
		Name:      r.cfg.BitrixKeys.Name,
		Suffix:    r.cfg.CollisionSuffix,
	})
}
