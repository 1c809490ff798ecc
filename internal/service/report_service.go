package service

//go:generate mockgen -destination=mocks/mock_report_service.go -package=mocks -source=report_service.go ReportService

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/locvowork/trial_report/internal/config"
	"github.com/locvowork/trial_report/internal/domain"
	"github.com/locvowork/trial_report/internal/logger"
	"github.com/locvowork/trial_report/internal/report"
	"github.com/locvowork/trial_report/internal/source"
	"github.com/locvowork/trial_report/pkg/frame"
	"golang.org/x/sync/errgroup"
)

const xlsxExt = ".xlsx"

// Upload is one file received from a client.
type Upload struct {
	Name string
	Body io.Reader
}

// ReportService turns uploaded exports into report workbooks.
type ReportService interface {
	Merge(ctx context.Context, web, bitrix Upload) (*domain.ReportResult, error)
	Format(ctx context.Context, merged Upload) (*domain.ReportResult, error)
	// DownloadPath resolves a download link to a file inside the upload folder.
	DownloadPath(link string) (string, error)
}

type reportService struct {
	cfg    *config.ReportConfig
	folder string
	prefix string
	reader *source.XLSXReader
}

// NewReportService stores uploads and results under folder; links are prefix + file name.
func NewReportService(cfg *config.ReportConfig, folder, prefix string) ReportService {
	return &reportService{
		cfg:    cfg,
		folder: folder,
		prefix: prefix,
		reader: source.NewXLSXReader(),
	}
}

func (s *reportService) Merge(ctx context.Context, web, bitrix Upload) (*domain.ReportResult, error) {
	webPath, err := s.save(ctx, web)
	if err != nil {
		return nil, err
	}
	bitrixPath, err := s.save(ctx, bitrix)
	if err != nil {
		return nil, err
	}

	var webFrame, bitrixFrame *frame.Frame
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := s.reader.ReadFile(gctx, webPath)
		webFrame = f
		return err
	})
	g.Go(func() error {
		f, err := s.reader.ReadFile(gctx, bitrixPath)
		bitrixFrame = f
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.DebugLog(ctx, "read %d web rows and %d bitrix rows", webFrame.Len(), bitrixFrame.Len())

	return report.NewMergeReportGenerator(s.cfg, bitrixFrame, webFrame, s.output()).Generate(ctx)
}

func (s *reportService) Format(ctx context.Context, merged Upload) (*domain.ReportResult, error) {
	path, err := s.save(ctx, merged)
	if err != nil {
		return nil, err
	}
	f, err := s.reader.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return report.NewFormatReportGenerator(s.cfg, f, s.output()).Generate(ctx)
}

func (s *reportService) DownloadPath(link string) (string, error) {
	name := filepath.Base(link)
	if link == "" || name != link || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: invalid link %q", domain.ErrInvalidUpload, link)
	}
	path := filepath.Join(s.folder, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return path, nil
}

func (s *reportService) output() report.Output {
	return report.Output{Folder: s.folder, LinkPrefix: s.prefix}
}

// save copies an upload to a uuid-named file, keeping only the extension of the client name.
func (s *reportService) save(ctx context.Context, up Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(up.Name))
	if ext != xlsxExt {
		return "", fmt.Errorf("%w: %q is not an %s file", domain.ErrInvalidUpload, up.Name, xlsxExt)
	}
	if err := os.MkdirAll(s.folder, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	path := filepath.Join(s.folder, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, up.Body); err != nil {
		return "", fmt.Errorf("failed to store upload %q: %w", up.Name, err)
	}
	logger.InfoLog(ctx, "stored upload %s as %s", up.Name, path)
	return path, nil
}
