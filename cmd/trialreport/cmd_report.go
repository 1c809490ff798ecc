package main

import (
	"context"
	"fmt"

	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/internal/domain"
	"github.com/locvowork/trial_report/internal/report"
	"github.com/locvowork/trial_report/internal/source"
	"github.com/locvowork/trial_report/pkg/frame"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	webPath    string
	bitrixPath string
	formatPath string
)

// mergeCmd reconciles both exports
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Reconcile the web and bitrix exports into a report",
	RunE:  runMerge,
}

// formatCmd lays out a merged table
var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Build a report from an already reconciled table",
	RunE:  runFormat,
}

func init() {
	mergeCmd.Flags().StringVar(&webPath, "web", "", "web export (.xlsx)")
	mergeCmd.Flags().StringVar(&bitrixPath, "bitrix", "", "bitrix export (.xlsx)")
	_ = mergeCmd.MarkFlagRequired("web")
	_ = mergeCmd.MarkFlagRequired("bitrix")

	formatCmd.Flags().StringVar(&formatPath, "file", "", "reconciled table (.xlsx)")
	_ = formatCmd.MarkFlagRequired("file")
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.LoadReportConfig(configPath)
	if err != nil {
		return err
	}

	web, bitrix, err := readBoth(ctx, webPath, bitrixPath)
	if err != nil {
		return printResult(cmd, nil, err)
	}

	res, err := report.NewMergeReportGenerator(cfg, bitrix, web, report.Output{Folder: outDir}).Generate(ctx)
	return printResult(cmd, res, err)
}

func runFormat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.LoadReportConfig(configPath)
	if err != nil {
		return err
	}

	merged, err := source.NewXLSXReader().ReadFile(ctx, formatPath)
	if err != nil {
		return printResult(cmd, nil, err)
	}

	res, err := report.NewFormatReportGenerator(cfg, merged, report.Output{Folder: outDir}).Generate(ctx)
	return printResult(cmd, res, err)
}

func readBoth(ctx context.Context, webPath, bitrixPath string) (web, bitrix *frame.Frame, err error) {
	reader := source.NewXLSXReader()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		web, err = reader.ReadFile(gctx, webPath)
		return err
	})
	g.Go(func() error {
		var err error
		bitrix, err = reader.ReadFile(gctx, bitrixPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return web, bitrix, nil
}

func printResult(cmd *cobra.Command, res *domain.ReportResult, err error) error {
	if err != nil {
		desc := domain.NewErrorDescriptor(err)
		return fmt.Errorf("[%d] %s", desc.Code, desc.Message)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Message, res.Path)
	return nil
}
