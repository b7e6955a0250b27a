package images

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stefanologica/firebear-importexport/api"
	"github.com/stefanologica/firebear-importexport/app"
	jobRepo "github.com/stefanologica/firebear-importexport/model/repository/job"
	"github.com/stefanologica/firebear-importexport/queue"
	"github.com/stefanologica/firebear-importexport/service/media"
)

func init() {
	api.RegisterModule(RegisterImageRoutes)
}

type errorRow struct {
	Row    int                     `json:"row"`
	Errors []media.ProcessingError `json:"errors"`
}

func RegisterImageRoutes(apiGroup *echo.Group, a *app.App) {
	g := apiGroup.Group("/images")

	// POST /api/images/import – process a batch now, or queue it with ?async=1
	g.POST("/import", func(c echo.Context) error {
		start := time.Now()
		ctx := c.Request().Context()

		// Message decodes its config first so list cells use the job separator.
		var msg media.Message
		if err := c.Bind(&msg); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if len(msg.Data) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "data must contain at least one row"})
		}

		if async, _ := strconv.ParseBool(c.QueryParam("async")); async {
			if a.Queue == nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "image queue is not configured"})
			}
			job, err := queue.Enqueue(ctx, a.Queue, a.Jobs, a.Processor.Encryptor(), msg)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusAccepted, echo.Map{"job_id": job.JobID, "status": job.Status, "rows": job.Rows})
		}

		errs := media.NewErrorAggregator()
		res, err := a.Processor.WithErrors(errs).Process(ctx, msg)
		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, media.ErrInvalidMessage) {
				status = http.StatusBadRequest
			}
			return c.JSON(status, echo.Map{"error": err.Error(), "errors": errs.Errors(), "request_duration_ms": duration})
		}

		rows, grouped := errs.ErrorsByRow()
		byRow := make([]errorRow, 0, len(rows))
		for _, r := range rows {
			byRow = append(byRow, errorRow{Row: r, Errors: grouped[r]})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"rows":                res.Rows,
			"gallery_entries":     res.GalleryEntries,
			"config_values":       res.ConfigValues,
			"uploaded":            res.Uploaded,
			"error_count":         errs.Count(),
			"errors_by_level":     errs.CountByLevel(),
			"row_errors":          byRow,
			"request_duration_ms": duration,
		})
	})

	// GET /api/images/jobs/:id – state of a queued batch
	g.GET("/jobs/:id", func(c echo.Context) error {
		job, err := a.Jobs.Find(c.Request().Context(), c.Param("id"))
		if errors.Is(err, jobRepo.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, job)
	})
}
