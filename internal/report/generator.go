package report

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/internal/domain"
	"github.com/locvowork/trial_report/internal/logger"
	"github.com/locvowork/trial_report/internal/reconcile"
	"github.com/locvowork/trial_report/internal/registry"
	"github.com/locvowork/trial_report/pkg/frame"
	"github.com/locvowork/trial_report/pkg/sheetwriter"
)

// SourceNameFormat names the single input of the format generator in schema errors.
const SourceNameFormat = "format"

// ReportGenerator produces one report workbook.
type ReportGenerator interface {
	Generate(ctx context.Context) (*domain.ReportResult, error)
}

// Output decides where a report is written and how it is linked.
type Output struct {
	Folder string
	// LinkPrefix is prepended to the file name to form the download link.
	LinkPrefix string
}

// ResultFileName returns a fresh, unique report file name.
func ResultFileName() string {
	return "результат_" + uuid.NewString() + ".xlsx"
}

// MergeReportGenerator reconciles the two exports and writes the full report.
type MergeReportGenerator struct {
	cfg    *config.ReportConfig
	bitrix *frame.Frame
	web    *frame.Frame
	out    Output
}

// NewMergeReportGenerator creates a generator over raw bitrix and web tables.
func NewMergeReportGenerator(cfg *config.ReportConfig, bitrix, web *frame.Frame, out Output) *MergeReportGenerator {
	return &MergeReportGenerator{cfg: cfg, bitrix: bitrix, web: web, out: out}
}

// Generate runs Created → ContentMerged → ColumnsRemapped → WorkbookComposed → Saved.
func (g *MergeReportGenerator) Generate(ctx context.Context) (*domain.ReportResult, error) {
	var t tracker
	rec := reconcile.NewReconciler(g.cfg)

	res, err := rec.Reconcile(ctx, g.bitrix, g.web)
	if err := t.advance(StageContentMerged, err); err != nil {
		return nil, err
	}

	table := reconcile.Remap(res.Joined, g.cfg.ReportColumnMap)
	if err := t.advance(StageColumnsRemapped, nil); err != nil {
		return nil, err
	}

	reg := registry.New()
	registry.Load(ctx, reg, res.Bitrix, res.Web, g.cfg)
	stats := reg.Stats()

	return compose(ctx, &t, g.cfg, g.out, Content{
		Report:    table,
		Conflicts: rec.Conflicts(table, res.Bitrix, res.Sides),
		Programs:  res.Bitrix.NUnique(g.cfg.BitrixKeys.Name),
		Registry:  &stats,
	})
}

// FormatReportGenerator lays out an already reconciled table.
type FormatReportGenerator struct {
	cfg    *config.ReportConfig
	merged *frame.Frame
	out    Output
}

// NewFormatReportGenerator creates a generator over a merged table.
func NewFormatReportGenerator(cfg *config.ReportConfig, merged *frame.Frame, out Output) *FormatReportGenerator {
	return &FormatReportGenerator{cfg: cfg, merged: merged, out: out}
}

// Generate projects and remaps the table through format_column_map; the content is
// already merged, so there is no conflict sheet.
func (g *FormatReportGenerator) Generate(ctx context.Context) (*domain.ReportResult, error) {
	var t tracker

	projected, err := reconcile.Project(g.merged, SourceNameFormat, g.cfg.FormatColumnMap.Sources())
	if err := t.advance(StageContentMerged, err); err != nil {
		return nil, err
	}

	table := reconcile.Remap(projected, g.cfg.FormatColumnMap)
	if err := t.advance(StageColumnsRemapped, nil); err != nil {
		return nil, err
	}

	return compose(ctx, &t, g.cfg, g.out, Content{Report: table, Programs: -1})
}

// compose renders and saves content, removing a partially written file on failure.
func compose(ctx context.Context, t *tracker, cfg *config.ReportConfig, out Output, content Content) (*domain.ReportResult, error) {
	wb := sheetwriter.New()
	defer wb.Close()

	err := NewComposer(cfg).Compose(ctx, wb, content)
	if err := t.advance(StageWorkbookComposed, err); err != nil {
		return nil, err
	}

	name := ResultFileName()
	path := filepath.Join(out.Folder, name)
	if err := wb.SaveAs(path); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.WarnLog(ctx, "failed to remove partial report %s: %v", path, rmErr)
		}
		return nil, t.advance(StageSaved, err)
	}
	_ = t.advance(StageSaved, nil)

	logger.InfoLog(ctx, "report saved to %s", path)
	return &domain.ReportResult{
		Message:      domain.ReportCreatedMessage,
		DownloadLink: out.LinkPrefix + name,
		Path:         path,
	}, nil
}
