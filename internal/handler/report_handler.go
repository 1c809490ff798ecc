package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/trial_report/internal/domain"
	"github.com/locvowork/trial_report/internal/logger"
	"github.com/locvowork/trial_report/internal/service"
	"github.com/locvowork/trial_report/internal/service/serviceutils"
)

const (
	webFileField    = "web_file"
	bitrixFileField = "bitrix_file"
	formatFileField = "format_file"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) MergeFilesHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger.InfoLog(ctx, "POST /merge-files")

	web, closeWeb, err := openUpload(c, webFileField)
	if err != nil {
		return serviceutils.ResponseError(c, "Invalid web file", err)
	}
	defer closeWeb()

	bitrix, closeBitrix, err := openUpload(c, bitrixFileField)
	if err != nil {
		return serviceutils.ResponseError(c, "Invalid bitrix file", err)
	}
	defer closeBitrix()

	res, err := h.svc.Merge(ctx, web, bitrix)
	if err != nil {
		return serviceutils.ResponseError(c, "Failed to merge files", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, res)
}

func (h *ReportHandler) FormatFileHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger.InfoLog(ctx, "POST /format-file")

	merged, closeFile, err := openUpload(c, formatFileField)
	if err != nil {
		return serviceutils.ResponseError(c, "Invalid file", err)
	}
	defer closeFile()

	res, err := h.svc.Format(ctx, merged)
	if err != nil {
		return serviceutils.ResponseError(c, "Failed to format file", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, res)
}

func (h *ReportHandler) DownloadHandler(c echo.Context) error {
	link := c.QueryParam("link")
	logger.InfoLog(c.Request().Context(), "GET /download?link=%s", link)

	path, err := h.svc.DownloadPath(link)
	if err != nil {
		return serviceutils.ResponseError(c, "Failed to resolve download", err)
	}
	return c.Attachment(path, filepath.Base(path))
}

func (h *ReportHandler) IndexHandler(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/merge-files")
}

func (h *ReportHandler) MergePageHandler(c echo.Context) error {
	return c.HTML(http.StatusOK, mergePage)
}

func (h *ReportHandler) FormatPageHandler(c echo.Context) error {
	return c.HTML(http.StatusOK, formatPage)
}

func (h *ReportHandler) HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// openUpload opens a multipart field; the returned func closes it.
func openUpload(c echo.Context, field string) (service.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return service.Upload{}, nil, fmt.Errorf("%w: missing field %s", domain.ErrInvalidUpload, field)
	}
	return open(fh)
}

func open(fh *multipart.FileHeader) (service.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	return service.Upload{Name: fh.Filename, Body: f}, func() { _ = f.Close() }, nil
}
