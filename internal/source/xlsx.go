package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/locvowork/trial_report/internal/domain"
	"github.com/locvowork/trial_report/internal/logger"
	"github.com/locvowork/trial_report/pkg/frame"
	"github.com/xuri/excelize/v2"
)

// XLSXReader loads the first (active) sheet of a workbook into a frame.
// The first row is the header; headers are trimmed, blank headers become "Unnamed: <i>"
// and repeated headers get a ".<n>" suffix.
type XLSXReader struct {
	// SheetName overrides the sheet selection when set.
	SheetName string
}

// NewXLSXReader creates a reader of the active sheet.
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

// ReadFile opens path and reads it. Failures are *domain.SourceReadError.
func (xr *XLSXReader) ReadFile(ctx context.Context, path string) (*frame.Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &domain.SourceReadError{Path: path, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.WarnLog(ctx, "failed to close workbook %s: %v", path, err)
		}
	}()
	out, err := xr.read(ctx, f)
	if err != nil {
		return nil, &domain.SourceReadError{Path: path, Err: err}
	}
	logger.InfoLog(ctx, "loaded %d rows, %d columns from %s", out.Len(), len(out.Columns()), path)
	return out, nil
}

// Read reads a workbook from r; name is used in errors only.
func (xr *XLSXReader) Read(ctx context.Context, name string, r io.Reader) (*frame.Frame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &domain.SourceReadError{Path: name, Err: err}
	}
	defer f.Close()
	out, err := xr.read(ctx, f)
	if err != nil {
		return nil, &domain.SourceReadError{Path: name, Err: err}
	}
	return out, nil
}

func (xr *XLSXReader) read(ctx context.Context, f *excelize.File) (*frame.Frame, error) {
	sheet, err := xr.pickSheet(f)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows of sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		logger.WarnLog(ctx, "sheet %q is empty", sheet)
		return frame.New(), nil
	}
	return frame.FromRecords(Headers(rows[0]), rows[1:]), nil
}

func (xr *XLSXReader) pickSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", errors.New("workbook contains no sheets")
	}
	if xr.SheetName != "" {
		for _, s := range sheets {
			if s == xr.SheetName {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet %q not found", xr.SheetName)
	}
	if name := f.GetSheetName(f.GetActiveSheetIndex()); name != "" {
		return name, nil
	}
	return sheets[0], nil
}

// Headers normalizes a raw header row.
func Headers(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n)
		} else {
			seen[h] = 1
		}
		out[i] = h
	}
	return out
}
