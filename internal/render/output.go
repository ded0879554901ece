package render

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// NotFoundFile is the file name of the 404 page in the output root.
const NotFoundFile = "404.html"

// OutputPath maps a page URL to its file below the output directory:
// "/" becomes "index.html" and "/a/b" becomes "a/b/index.html".
func OutputPath(urlPath string) string {
	clean := strings.Trim(path.Clean("/"+urlPath), "/")
	if clean == "" {
		return "index.html"
	}
	return clean + "/index.html"
}

func (r *Renderer) prepareOutput() error {
	if r.out.Clean {
		if err := r.fs.RemoveAll(r.out.Directory); err != nil {
			return err
		}
	}
	return r.fs.MkdirAll(r.out.Directory, 0o755)
}

func (r *Renderer) writeFile(rel string, data []byte) error {
	full := filepath.Join(r.out.Directory, filepath.FromSlash(rel))
	if err := r.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(r.fs, full, data, 0o644)
}
