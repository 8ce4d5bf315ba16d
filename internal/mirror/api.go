package mirror

import (
	"context"
	"io"

	"github.com/canvas-mirror/canvas-mirror/internal/canvas"
)

// API is the slice of the Canvas client the mirror consumes.
// *canvas.Client satisfies it; tests substitute a fake.
type API interface {
	CurrentUser(ctx context.Context) (*canvas.User, error)
	ListCourses(ctx context.Context) ([]canvas.Course, error)
	GetCourse(ctx context.Context, courseID int64) (*canvas.Course, error)
	ListModules(ctx context.Context, courseID int64) ([]canvas.Module, error)
	ListModuleItems(ctx context.Context, courseID, moduleID int64) ([]canvas.Item, error)
	GetPage(ctx context.Context, courseID int64, slug string) (*canvas.Page, error)
	GetAssignment(ctx context.Context, courseID, assignmentID int64) (*canvas.Assignment, error)
	GetDiscussion(ctx context.Context, courseID, topicID int64) (*canvas.Discussion, error)
	GetQuiz(ctx context.Context, courseID, quizID int64) (*canvas.Quiz, error)
	GetFile(ctx context.Context, fileID int64) (*canvas.File, error)
	DownloadFile(ctx context.Context, f *canvas.File, w io.Writer) (int64, error)
}
