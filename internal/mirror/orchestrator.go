package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/canvas-mirror/canvas-mirror/internal/canvas"
	"github.com/canvas-mirror/canvas-mirror/internal/config"
	"github.com/canvas-mirror/canvas-mirror/internal/download"
	"github.com/canvas-mirror/canvas-mirror/internal/sanitize"
)

// Run mirrors the configured courses into cfg.OutputDir and returns a
// summary of what was done.
//
// The credential probe and the initial course listing are the only fatal
// failures; every later error is logged, counted in the summary, and the
// run moves on to the next module or course. Cancelling the context stops
// the run between items.
func Run(ctx context.Context, cfg *config.Config, api API, logger *slog.Logger) (*Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}

	summary := &Summary{
		StartedAt: time.Now(),
		OutputDir: cfg.OutputDir,
	}

	user, err := api.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify API credentials: %w", err)
	}
	logger.Info("authenticated", "user", user.Name, "userID", user.ID)

	if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	courses, err := resolveCourses(ctx, cfg, api, logger, summary)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		logger.Warn("no accessible courses to mirror")
		summary.FinishedAt = time.Now()
		return summary, nil
	}

	overrides := cfg.Courses
	if overrides == nil {
		overrides = &config.File{}
	}

	dedup := download.NewDeduplicator(cfg.OutputDir)
	proc := NewProcessor(api, dedup, cfg.OutputDir, logger)

	for _, course := range courses {
		if err := mirrorCourse(ctx, api, proc, course, overrides.CourseConfig(course.ID), logger, summary); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				summary.FinishedAt = time.Now()
				return summary, err
			}
			// Course-level failures are isolated.
			logger.Error("failed to mirror course", "course", course.Name, "courseID", course.ID, "error", err)
			summary.Errors++
		}
	}

	summary.FinishedAt = time.Now()
	logger.Info("mirror complete",
		"courses", summary.Courses,
		"modules", summary.Modules,
		"items", summary.Items,
		"files", summary.FilesDownloaded(),
		"bytes", summary.BytesDownloaded(),
		"errors", summary.Errors,
	)
	return summary, nil
}

// resolveCourses turns the configuration into a concrete course list.
// Explicit IDs are fetched one by one with unknown IDs warned and
// skipped; without explicit IDs every active course the token can see is
// mirrored.
func resolveCourses(ctx context.Context, cfg *config.Config, api API, logger *slog.Logger, summary *Summary) ([]canvas.Course, error) {
	if len(cfg.CourseIDs) == 0 {
		courses, err := api.ListCourses(ctx)
		if err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		return courses, nil
	}

	courses := make([]canvas.Course, 0, len(cfg.CourseIDs))
	for _, id := range cfg.CourseIDs {
		course, err := api.GetCourse(ctx, id)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			logger.Warn("skipping inaccessible course", "courseID", id, "error", err)
			summary.Errors++
			continue
		}
		courses = append(courses, *course)
	}
	return courses, nil
}

// mirrorCourse processes every module of one course.
func mirrorCourse(ctx context.Context, api API, proc *Processor, course canvas.Course, cc config.CourseConfig, logger *slog.Logger, summary *Summary) error {
	courseName := course.Name
	if courseName == "" {
		courseName = fmt.Sprintf("Untitled_Course_%d", course.ID)
	}
	courseDir := sanitize.Name(courseName)

	logger.Info("mirroring course", "course", courseName, "courseID", course.ID)

	modules, err := api.ListModules(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("list modules for course %q: %w", courseName, err)
	}

	summary.Courses++

	for _, module := range modules {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if cc.SkipsModule(module.Name) {
			logger.Debug("skipping module by configuration", "module", module.Name)
			continue
		}

		res, err := proc.ProcessModule(ctx, course, courseDir, module, cc)
		if res != nil {
			summary.Items += res.Items
			summary.Errors += res.Errors
			summary.Downloads = append(summary.Downloads, res.Downloads...)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			// Already counted via res.Errors; keep going. Failed modules
			// are not counted as processed.
			logger.Error("failed to process module", "module", module.Name, "error", err)
			continue
		}
		summary.Modules++
	}

	return nil
}
