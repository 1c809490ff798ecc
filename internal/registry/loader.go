package registry

import (
	"context"

	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/internal/domain"
	"github.com/locvowork/trial_report/internal/logger"
	"github.com/locvowork/trial_report/pkg/frame"
)

// Load fills reg from the normalized task-tracker and field tables:
// programs and their departments from bitrix, tractors and field reports from web.
// A tractor is linked to a program only when the program is known.
func Load(ctx context.Context, reg *Registry, bitrix, web *frame.Frame, cfg *config.ReportConfig) {
	bk, wk := cfg.BitrixKeys, cfg.WebKeys

	for _, r := range bitrix.Rows() {
		name := r.Get(bk.Name)
		if name.IsNull() {
			continue
		}
		reg.AddProgram(name.String(), r.Get(bk.Target).String())
		if tag := r.Get(bk.Tags); !tag.IsNull() {
			reg.AddDepartment(tag.String())
			_ = reg.LinkDepartment(name.String(), tag.String())
		}
	}

	unlinked := 0
	for _, r := range web.Rows() {
		serial, component := r.Get(wk.Tractor), r.Get(wk.Component)
		if serial.IsNull() || component.IsNull() {
			continue
		}
		reg.AddTractor(serial.String(), r.Get(wk.Model).String(), r.Get(wk.Warranty).String())
		if err := reg.LinkTractor(component.String(), serial.String()); err != nil {
			unlinked++
		}
		reg.AddReport(domain.FieldReport{
			Program:        component.String(),
			Tractor:        serial.String(),
			Comment:        r.Get(wk.Comment).String(),
			OperatingHours: r.Get(wk.Hours).String(),
			DefectHours:    r.Get(wk.DefectHours).String(),
			ReportTime:     r.Get(wk.ReportTime).String(),
		})
	}

	s := reg.Stats()
	logger.DebugLog(ctx, "registry: %d programs (%d active), %d tractors (%d linked), %d reports, %d rows without a known program",
		s.Programs, s.ActivePrograms, s.Tractors, s.TractorsWithPrograms, s.Reports, unlinked)
}
