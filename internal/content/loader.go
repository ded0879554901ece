package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/config"
	ferrors "git.home.luguber.info/inful/folio/internal/errors"
	"git.home.luguber.info/inful/folio/internal/frontmatter"
	"git.home.luguber.info/inful/folio/internal/logfields"
)

// Loader reads markdown sources from a content root.
type Loader struct {
	fs  afero.Fs
	cfg config.ContentConfig
	now func() time.Time
}

// NewLoader creates a loader over fsys. A nil fsys means the OS filesystem.
func NewLoader(fsys afero.Fs, cfg config.ContentConfig) *Loader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Loader{fs: fsys, cfg: cfg, now: time.Now}
}

// Root is the configured content root.
func (l *Loader) Root() string {
	return l.cfg.Root
}

// WatchDirs lists the directories whose changes require a reload.
func (l *Loader) WatchDirs() []string {
	return []string{
		filepath.Join(l.cfg.Root, l.cfg.DocsDir),
		filepath.Join(l.cfg.Root, l.cfg.BlogDir),
	}
}

// Load reads every documentation page below {root}/{docs_dir}/{section}/ and
// every post directly inside {root}/{blog_dir}/. Hidden files and
// directories are skipped. A missing docs or blog directory yields an empty
// part of the set; unreadable files are collected and returned together
// after the walk.
func (l *Loader) Load(ctx context.Context) (*Set, error) {
	info, err := l.fs.Stat(l.cfg.Root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.ContentLoadFailed(l.cfg.Root, ErrRootNotFound)
		}
		return nil, ferrors.ContentLoadFailed(l.cfg.Root, err)
	}
	if !info.IsDir() {
		return nil, ferrors.ContentLoadFailed(l.cfg.Root, ErrRootNotDirectory)
	}

	start := time.Now()
	set := &Set{LoadedAt: l.now()}
	var result *multierror.Error

	docs, err := l.walkDocs(ctx, &result)
	if err != nil {
		return nil, err
	}
	posts, err := l.readBlog(ctx, &result)
	if err != nil {
		return nil, err
	}
	set.Docs = docs
	set.Posts = posts
	set.Hash = computeHash(append(append([]File(nil), docs...), posts...))

	if err := result.ErrorOrNil(); err != nil {
		return nil, ferrors.ContentLoadFailed(l.cfg.Root, err)
	}

	slog.Info("Content loaded",
		logfields.Path(l.cfg.Root),
		slog.Int("docs", len(docs)),
		slog.Int("posts", len(posts)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return set, nil
}

func (l *Loader) walkDocs(ctx context.Context, result **multierror.Error) ([]File, error) {
	docsRoot := filepath.Join(l.cfg.Root, l.cfg.DocsDir)
	if !l.dirExists(docsRoot) {
		slog.Warn("Documentation directory not found", logfields.Path(docsRoot))
		return []File{}, nil
	}

	files := []File{}
	err := afero.Walk(l.fs, docsRoot, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p != docsRoot && isHidden(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !isMarkdownFile(info.Name()) {
			return nil
		}

		rel, err := filepath.Rel(docsRoot, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.Contains(rel, "/") {
			// Files directly under the docs dir belong to no section.
			slog.Debug("Skipping file outside any section", logfields.File(rel))
			return nil
		}

		f, err := l.readFile(p, KindDoc, DocsPrefix+rel, info)
		if err != nil {
			*result = multierror.Append(*result, err)
			return nil
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, ferrors.ContentLoadFailed(l.cfg.Root, fmt.Errorf("%w: %s: %w", ErrWalkFailed, docsRoot, err))
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (l *Loader) readBlog(ctx context.Context, result **multierror.Error) ([]File, error) {
	blogRoot := filepath.Join(l.cfg.Root, l.cfg.BlogDir)
	if !l.dirExists(blogRoot) {
		slog.Debug("Blog directory not found", logfields.Path(blogRoot))
		return []File{}, nil
	}

	entries, err := afero.ReadDir(l.fs, blogRoot)
	if err != nil {
		return nil, ferrors.ContentLoadFailed(l.cfg.Root, fmt.Errorf("%w: %s: %w", ErrWalkFailed, blogRoot, err))
	}

	files := []File{}
	for _, info := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if info.IsDir() || isHidden(info.Name()) || !isMarkdownFile(info.Name()) {
			continue
		}
		f, err := l.readFile(filepath.Join(blogRoot, info.Name()), KindPost, BlogPrefix+info.Name(), info)
		if err != nil {
			*result = multierror.Append(*result, err)
			continue
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (l *Loader) readFile(fullPath string, kind Kind, canonical string, info fs.FileInfo) (File, error) {
	data, err := afero.ReadFile(l.fs, fullPath)
	if err != nil {
		return File{}, fmt.Errorf("%w: %s: %w", ErrFileReadFailed, fullPath, err)
	}

	doc := frontmatter.Parse(data)
	for _, w := range doc.Warnings {
		slog.Warn("Front matter problem", logfields.File(canonical), slog.String("warning", w))
	}

	fp, err := frontmatter.Fingerprint(doc)
	if err != nil {
		slog.Debug("Fingerprint unavailable", logfields.File(canonical), logfields.Error(err))
	}

	slog.Debug("Loaded file", logfields.File(canonical), slog.String("kind", string(kind)))
	return File{
		Kind:        kind,
		Path:        canonical,
		Document:    doc,
		Fingerprint: fp,
		ModTime:     info.ModTime(),
		Size:        info.Size(),
	}, nil
}

func (l *Loader) dirExists(p string) bool {
	ok, err := afero.DirExists(l.fs, p)
	return err == nil && ok
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func isMarkdownFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
