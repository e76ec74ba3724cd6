// Package api exposes the conversion service over HTTP: synchronous
// upload/convert, asynchronous job polling, and result download.
package api

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"

	"github.com/docneat/statement-converter/internal/convert"
	"github.com/docneat/statement-converter/internal/jobs"
	"github.com/docneat/statement-converter/internal/models"
	"github.com/docneat/statement-converter/internal/storage"
	"github.com/docneat/statement-converter/internal/writer"
)

const previewRows = 3

// ConvertResponse is the JSON answer to an upload.
type ConvertResponse struct {
	Success       bool                 `json:"success"`
	Error         string               `json:"error,omitempty"`
	TableDetected bool                 `json:"tableDetected"`
	Count         int                  `json:"count"`
	Preview       []models.Transaction `json:"preview,omitempty"`
	CSVURL        string               `json:"csvUrl,omitempty"`
	XLSXURL       string               `json:"xlsxUrl,omitempty"`
	JobID         string               `json:"jobId,omitempty"`
	StatusURL     string               `json:"statusUrl,omitempty"`
	Version       string               `json:"version,omitempty"`
}

// Server wires the HTTP handlers to their collaborators.
type Server struct {
	Store    *storage.Store
	Conv     *convert.Converter
	Queue    *jobs.Queue
	JobStore *jobs.Store
	Log      zerolog.Logger
	Version  string
}

// App builds the fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             32 << 20,
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	app.Get("/api/health", s.handleHealth)
	app.Post("/upload", s.handleUpload)
	app.Get("/api/jobs/:id", s.handleJobStatus)
	app.Get("/download/:name", s.handleDownload)
	return app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": s.Version,
	})
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return s.fail(c, fiber.StatusBadRequest, "no file uploaded; use form field 'file'")
	}

	name := strings.ToLower(fh.Filename)
	if !strings.HasSuffix(name, ".pdf") && !strings.HasSuffix(name, ".json") {
		return s.fail(c, fiber.StatusBadRequest, "only .pdf documents and .json analyze responses are supported")
	}

	id, path, err := s.saveUpload(fh)
	if err != nil {
		s.Log.Error().Err(err).Msg("save upload")
		return s.fail(c, fiber.StatusInternalServerError, "failed to store upload")
	}

	// Clients that already ran detection themselves can attach the raw
	// analyze response and skip the engine round trip.
	pre := c.FormValue("analyzeResponse")

	if c.FormValue("async") == "true" {
		job := &jobs.ConvertJob{ID: id, FileName: fh.Filename, InputPath: path, AnalyzeResponse: pre}
		if err := s.Queue.Publish(c.UserContext(), job); err != nil {
			s.Log.Error().Err(err).Msg("enqueue job")
			return s.fail(c, fiber.StatusServiceUnavailable, "conversion queue unavailable")
		}
		return c.Status(fiber.StatusAccepted).JSON(ConvertResponse{
			Success:   true,
			JobID:     job.ID,
			StatusURL: "/api/jobs/" + job.ID,
			Version:   s.Version,
		})
	}

	res, err := s.runConversion(c.UserContext(), id, fh.Filename, path, pre)
	if err != nil {
		s.Log.Error().Err(err).Str("file", fh.Filename).Msg("conversion failed")
		return s.fail(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	return c.JSON(s.convertResponse(id, res))
}

// runConversion converts one stored upload and writes both output formats.
// It is also the job handler for the async path.
func (s *Server) runConversion(ctx context.Context, id, filename, path, pre string) (models.Result, error) {
	defer s.Store.RemoveUpload(path)

	var res models.Result
	var err error
	if pre != "" {
		res, err = s.Conv.FromAnalyzeResponse([]byte(pre))
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return models.Result{}, fmt.Errorf("read upload: %w", err)
		}
		res, err = s.Conv.Document(ctx, filename, path, data)
	}
	if err != nil {
		return models.Result{}, err
	}

	if err := writeOutputs(s.Store, id, res.Transactions); err != nil {
		return models.Result{}, err
	}
	return res, nil
}

// JobHandler adapts runConversion to the jobs queue.
func (s *Server) JobHandler(ctx context.Context, job *jobs.ConvertJob) error {
	res, err := s.runConversion(ctx, job.ID, job.FileName, job.InputPath, job.AnalyzeResponse)
	if err != nil {
		return err
	}
	job.Result = &res
	job.CSVName = job.ID + ".csv"
	job.XLSXName = job.ID + ".xlsx"
	return nil
}

func (s *Server) handleJobStatus(c *fiber.Ctx) error {
	job, err := s.JobStore.Get(c.Params("id"))
	if err != nil {
		return s.fail(c, fiber.StatusNotFound, "unknown job")
	}
	return c.JSON(job)
}

func (s *Server) handleDownload(c *fiber.Ctx) error {
	name := c.Params("name")
	path, err := s.Store.ResolveOutput(name)
	if err != nil {
		return s.fail(c, fiber.StatusNotFound, "no such output")
	}

	downloadName := "statement-converted.csv"
	if strings.HasSuffix(name, ".xlsx") {
		downloadName = "statement-converted.xlsx"
	}
	return c.Download(path, downloadName)
}

func (s *Server) convertResponse(id string, res models.Result) ConvertResponse {
	preview := res.Transactions
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}
	return ConvertResponse{
		Success:       true,
		TableDetected: res.TableDetected,
		Count:         len(res.Transactions),
		Preview:       preview,
		CSVURL:        "/download/" + id + ".csv",
		XLSXURL:       "/download/" + id + ".xlsx",
		Version:       s.Version,
	}
}

func (s *Server) saveUpload(fh *multipart.FileHeader) (id, path string, err error) {
	f, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return s.Store.SaveUpload(fh.Filename, f)
}

func (s *Server) fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{Success: false, Error: msg, Version: s.Version})
}

// writeOutputs renders both download formats for a finished conversion.
func writeOutputs(store *storage.Store, id string, txns []models.Transaction) error {
	csvw := &writer.CSVWriter{}
	if err := csvw.WriteToFile(store.OutputPath(id, ".csv"), txns); err != nil {
		return err
	}
	xlsxw := &writer.XLSXWriter{}
	return xlsxw.WriteToFile(store.OutputPath(id, ".xlsx"), txns)
}
