package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/canvas-mirror/canvas-mirror/internal/canvas"
	"github.com/canvas-mirror/canvas-mirror/internal/config"
	"github.com/canvas-mirror/canvas-mirror/internal/convert"
	"github.com/canvas-mirror/canvas-mirror/internal/download"
	"github.com/canvas-mirror/canvas-mirror/internal/sanitize"
)

const (
	// filesDirName is the per-module subdirectory holding downloads.
	filesDirName = "_files"

	// readmeName is the per-module document filename.
	readmeName = "README.md"
)

// Processor turns one module at a time into a Markdown document plus
// downloaded files. The deduplicator is shared across the whole run, so
// a file already fetched for any earlier module is reused.
type Processor struct {
	api    API
	dedup  *download.Deduplicator
	root   string
	logger *slog.Logger
}

// ModuleResult reports what processing one module produced.
type ModuleResult struct {
	// Items counts rendered sections, placeholders included.
	Items int

	// Errors counts non-fatal failures logged while processing.
	Errors int

	// Downloads lists files physically downloaded for this module.
	Downloads []DownloadedFile
}

// NewProcessor creates a Processor writing under root.
func NewProcessor(api API, dedup *download.Deduplicator, root string, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		api:    api,
		dedup:  dedup,
		root:   root,
		logger: logger,
	}
}

// ProcessModule renders the module into <root>/<courseDir>/<module>/README.md
// and downloads the files its items reference.
//
// Items are rendered in the order the API returns them. A failing item
// yields a placeholder section and the module continues; only a failure
// to list the items or write the document is returned as an error.
func (p *Processor) ProcessModule(ctx context.Context, course canvas.Course, courseDir string, module canvas.Module, cc config.CourseConfig) (*ModuleResult, error) {
	moduleName := module.Name
	if moduleName == "" {
		moduleName = fmt.Sprintf("Untitled_Module_%d", module.ID)
	}
	moduleRel := filepath.Join(courseDir, sanitize.Name(moduleName))
	moduleAbs := filepath.Join(p.root, moduleRel)

	res := &ModuleResult{}
	p.logger.Info("processing module", "course", course.Name, "module", moduleName)

	items, err := p.api.ListModuleItems(ctx, course.ID, module.ID)
	if err != nil {
		res.Errors++
		if werr := p.writeDocument(moduleAbs, moduleName, []string{"**ERROR: Could not retrieve items for this module.**"}); werr != nil {
			p.logger.Error("failed to write module document", "module", moduleName, "error", werr)
		}
		return res, fmt.Errorf("list items for module %q: %w", moduleName, err)
	}

	var sections []string
	for _, item := range items {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		if cc.SkipsType(string(item.Type)) {
			p.logger.Debug("skipping item by configuration", "type", string(item.Type), "title", item.Title)
			continue
		}

		sections = append(sections, p.renderItem(ctx, course, moduleRel, item, res))
		res.Items++
	}

	if err := p.writeDocument(moduleAbs, moduleName, sections); err != nil {
		res.Errors++
		return res, err
	}

	p.logger.Info("module written", "module", moduleName, "items", res.Items)
	return res, nil
}

// renderItem dispatches on the item type and always returns a section,
// substituting a placeholder when retrieval fails.
func (p *Processor) renderItem(ctx context.Context, course canvas.Course, moduleRel string, item canvas.Item, res *ModuleResult) string {
	title := itemTitle(item)
	p.logger.Info("processing item", "title", title, "type", string(item.Type))

	var section string
	var err error

	switch item.Type {
	case canvas.ItemTypePage:
		section, err = p.renderPage(ctx, course, moduleRel, item, title, res)
	case canvas.ItemTypeFile:
		section, err = p.renderFileItem(ctx, moduleRel, item, res)
	case canvas.ItemTypeExternalURL:
		section = fmt.Sprintf("* **External URL:** [%s](%s)", title, item.ExternalURL)
	case canvas.ItemTypeAssignment:
		section, err = p.renderAssignment(ctx, course, moduleRel, item, title, res)
	case canvas.ItemTypeDiscussion:
		section, err = p.renderDiscussion(ctx, course, moduleRel, item, title, res)
	case canvas.ItemTypeQuiz:
		section, err = p.renderQuiz(ctx, course, moduleRel, item, title, res)
	case canvas.ItemTypeSubHeader:
		section = "### " + title
	default:
		p.logger.Warn("unsupported item type", "type", string(item.Type), "title", title)
		section = unknownSection(item, title)
	}

	if err != nil {
		res.Errors++
		p.logger.Error("failed to process item", "title", title, "type", string(item.Type), "error", err)
		section = placeholderSection(title, err)
	}
	return section
}

// renderPage fetches a wiki page body and converts it.
func (p *Processor) renderPage(ctx context.Context, course canvas.Course, moduleRel string, item canvas.Item, title string, res *ModuleResult) (string, error) {
	page, err := p.api.GetPage(ctx, course.ID, item.PageURL)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("## " + title + "\n\n")
	if strings.TrimSpace(page.Body) == "" {
		b.WriteString("*(This page has no content)*")
		return b.String(), nil
	}

	body, err := p.renderBody(ctx, moduleRel, page.Body, res)
	if err != nil {
		return "", err
	}
	b.WriteString(body)
	return b.String(), nil
}

// renderAssignment fetches an assignment and converts its description,
// appending due date and points when present.
func (p *Processor) renderAssignment(ctx context.Context, course canvas.Course, moduleRel string, item canvas.Item, title string, res *ModuleResult) (string, error) {
	a, err := p.api.GetAssignment(ctx, course.ID, item.ContentID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("## Assignment: " + title + "\n\n")
	if strings.TrimSpace(a.Description) == "" {
		b.WriteString("*(This assignment has no description)*")
	} else {
		body, err := p.renderBody(ctx, moduleRel, a.Description, res)
		if err != nil {
			return "", err
		}
		b.WriteString(body)
	}

	if a.DueAt != nil {
		b.WriteString(fmt.Sprintf("\n\n*Due: %s*", a.DueAt.Format("2006-01-02 15:04 MST")))
	}
	if a.PointsPossible > 0 {
		b.WriteString(fmt.Sprintf("\n*Points: %g*", a.PointsPossible))
	}
	return b.String(), nil
}

// renderDiscussion fetches a discussion topic's message, falling back to
// a link when the body is empty.
func (p *Processor) renderDiscussion(ctx context.Context, course canvas.Course, moduleRel string, item canvas.Item, title string, res *ModuleResult) (string, error) {
	d, err := p.api.GetDiscussion(ctx, course.ID, item.ContentID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("## Discussion: " + title + "\n\n")
	if strings.TrimSpace(d.Message) == "" {
		b.WriteString(canvasLinkNote("discussion", title, item.HTMLURL))
		return b.String(), nil
	}

	body, err := p.renderBody(ctx, moduleRel, d.Message, res)
	if err != nil {
		return "", err
	}
	b.WriteString(body)
	return b.String(), nil
}

// renderQuiz fetches a quiz description, falling back to a link when it
// is empty.
func (p *Processor) renderQuiz(ctx context.Context, course canvas.Course, moduleRel string, item canvas.Item, title string, res *ModuleResult) (string, error) {
	q, err := p.api.GetQuiz(ctx, course.ID, item.ContentID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("## Quiz: " + title + "\n\n")
	if strings.TrimSpace(q.Description) == "" {
		b.WriteString(canvasLinkNote("quiz", title, item.HTMLURL))
		return b.String(), nil
	}

	body, err := p.renderBody(ctx, moduleRel, q.Description, res)
	if err != nil {
		return "", err
	}
	b.WriteString(body)
	return b.String(), nil
}

// renderFileItem resolves a File module item through the deduplicator
// and renders a link to the local copy.
func (p *Processor) renderFileItem(ctx context.Context, moduleRel string, item canvas.Item, res *ModuleResult) (string, error) {
	f, err := p.api.GetFile(ctx, item.ContentID)
	if err != nil {
		return "", err
	}

	stored, ok := p.dedup.Path(f.ID)
	if !ok {
		stored, err = p.fetchFile(ctx, f, filepath.Join(moduleRel, filesDirName), res)
		if err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("* **File:** [%s](%s)", fileDisplayName(f), relTo(moduleRel, stored)), nil
}

// renderBody resolves embedded file links in an HTML fragment, rewrites
// them to local paths, and converts the result to Markdown. Non-image
// referenced files are additionally listed after the converted text.
func (p *Processor) renderBody(ctx context.Context, moduleRel, html string, res *ModuleResult) (string, error) {
	refs, err := convert.ScanFileLinks(html)
	if err != nil {
		return "", err
	}

	local, bullets := p.resolveRefs(ctx, moduleRel, refs, res)

	rewritten, err := convert.RewriteFileLinks(html, local)
	if err != nil {
		return "", err
	}

	md, err := convert.ToMarkdown(rewritten)
	if err != nil {
		return "", err
	}

	if len(bullets) > 0 {
		md += "\n\n**Referenced Files:**\n" + strings.Join(bullets, "\n")
	}
	return md, nil
}

// resolveRefs downloads (or reuses) each referenced file and returns the
// id → module-relative path map for link rewriting plus the bullet list
// for the "Referenced Files" section. A failing reference is logged and
// left out of the map so its link keeps pointing at Canvas.
func (p *Processor) resolveRefs(ctx context.Context, moduleRel string, refs []convert.FileRef, res *ModuleResult) (map[int64]string, []string) {
	if len(refs) == 0 {
		return nil, nil
	}

	filesRel := filepath.Join(moduleRel, filesDirName)
	local := make(map[int64]string)
	var bullets []string

	for _, ref := range refs {
		stored, ok := p.dedup.Path(ref.ID)
		if !ok {
			f, err := p.api.GetFile(ctx, ref.ID)
			if err != nil {
				p.logger.Warn("embedded file could not be fetched", "fileID", ref.ID, "error", err)
				res.Errors++
				continue
			}
			stored, err = p.fetchFile(ctx, f, filesRel, res)
			if err != nil {
				p.logger.Error("failed to download embedded file", "fileID", ref.ID, "error", err)
				res.Errors++
				continue
			}
		}

		rel := relTo(moduleRel, stored)
		local[ref.ID] = rel

		if !ref.IsImage {
			label := ref.Text
			if label == "" {
				label = filepath.Base(stored)
			}
			bullets = append(bullets, fmt.Sprintf("* [%s](%s)", label, rel))
		}
	}

	return local, bullets
}

// fetchFile streams a file to disk through the deduplicator and records
// the download in the module result when a physical download happened.
func (p *Processor) fetchFile(ctx context.Context, f *canvas.File, destDir string, res *ModuleResult) (string, error) {
	stored, downloaded, err := p.dedup.Resolve(f.ID, fileDisplayName(f), destDir, func(w io.Writer) error {
		_, err := p.api.DownloadFile(ctx, f, w)
		return err
	})
	if err != nil {
		return "", err
	}

	if downloaded {
		size := f.Size
		if info, err := os.Stat(filepath.Join(p.root, stored)); err == nil {
			size = info.Size()
		}
		p.logger.Info("downloaded file", "name", fileDisplayName(f), "path", stored, "bytes", size)
		res.Downloads = append(res.Downloads, DownloadedFile{FileID: f.ID, Path: stored, Size: size})
	} else {
		p.logger.Debug("file already downloaded this run", "fileID", f.ID, "path", stored)
	}
	return stored, nil
}

// writeDocument assembles and writes the module README in one shot.
func (p *Processor) writeDocument(moduleAbs, moduleName string, sections []string) error {
	if err := os.MkdirAll(moduleAbs, 0750); err != nil {
		return fmt.Errorf("create module directory: %w", err)
	}

	f, err := os.Create(filepath.Join(moduleAbs, readmeName))
	if err != nil {
		return fmt.Errorf("create module document: %w", err)
	}

	md := markdown.NewMarkdown(f)
	md.H1("Module: " + moduleName)
	for _, section := range sections {
		md.PlainText("")
		md.PlainText(section)
		md.PlainText("")
		md.PlainText("---")
	}

	if err := md.Build(); err != nil {
		_ = f.Close() //nolint:errcheck // Write already failed
		return fmt.Errorf("write module document: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close module document: %w", err)
	}
	return nil
}

// itemTitle returns the item's title, synthesizing one for unnamed items.
func itemTitle(item canvas.Item) string {
	if item.Title != "" {
		return item.Title
	}
	return fmt.Sprintf("Untitled_%s_%d", item.Type, item.ID)
}

// fileDisplayName prefers the display name over the raw filename.
func fileDisplayName(f *canvas.File) string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Filename
}

// canvasLinkNote renders the fallback note for content whose body is
// empty but which remains viewable on Canvas.
func canvasLinkNote(kind, title, htmlURL string) string {
	if htmlURL != "" {
		return fmt.Sprintf("*Link to %s on Canvas: [%s](%s)*", kind, title, htmlURL)
	}
	return "*(Link not available, access through Canvas module)*"
}

// unknownSection renders the placeholder for unsupported item types.
func unknownSection(item canvas.Item, title string) string {
	s := fmt.Sprintf("* **%s:** %s", item.Type, title)
	if item.HTMLURL != "" {
		s += fmt.Sprintf(" ([View on Canvas](%s))", item.HTMLURL)
	}
	return s
}

// placeholderSection renders the note left in place of an item that
// could not be retrieved.
func placeholderSection(title string, err error) string {
	switch {
	case errors.Is(err, canvas.ErrNotFound):
		return fmt.Sprintf("*Item %q could not be retrieved (resource not found).*", title)
	case errors.Is(err, canvas.ErrForbidden):
		return fmt.Sprintf("*Item %q could not be retrieved (access forbidden).*", title)
	default:
		return fmt.Sprintf("*An error occurred while processing item %q.*", title)
	}
}

// relTo returns target (root-relative) expressed relative to fromDir,
// in slash form for use inside Markdown links.
func relTo(fromDir, target string) string {
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
