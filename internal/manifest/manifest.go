// Package manifest records what a build consumed and produced so an
// unchanged site can skip rendering.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/render"
	"git.home.luguber.info/inful/folio/internal/site"
	"git.home.luguber.info/inful/folio/internal/version"
)

// FileName is the manifest written to the output root.
const FileName = ".folio-manifest.json"

// Status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// BuildManifest represents a complete record of a build's inputs and outputs.
type BuildManifest struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Inputs    Inputs    `json:"inputs"`
	Outputs   Outputs   `json:"outputs"`
	Status    string    `json:"status"`
	Duration  int64     `json:"duration_ms"`
}

// Inputs captures all inputs to the build.
type Inputs struct {
	ContentHash string         `json:"content_hash"`
	ConfigHash  string         `json:"config_hash"`
	Sections    []SectionInput `json:"sections"`
	Posts       int            `json:"posts"`
}

// SectionInput represents one docs section.
type SectionInput struct {
	Key   string `json:"key"`
	Files int    `json:"files"`
}

// Outputs captures all outputs from the build.
type Outputs struct {
	Pages int `json:"pages"`
	// ArtifactHashes maps output files, relative to the output root, to
	// their sha256.
	ArtifactHashes map[string]string `json:"artifact_hashes,omitempty"`
}

// New records a finished build. Artifact hashes are read back from fsys.
func New(fsys afero.Fs, cfg *config.Config, snap *site.Snapshot, res *render.Result) (*BuildManifest, error) {
	m, err := Planned(cfg, snap)
	if err != nil {
		return nil, err
	}
	m.ID = res.BuildID
	m.Timestamp = time.Now().UTC()
	m.Outputs = Outputs{Pages: res.Pages, ArtifactHashes: make(map[string]string, len(res.Outputs))}
	m.Status = StatusSuccess
	m.Duration = res.Duration.Milliseconds()
	for _, out := range res.Outputs {
		data, err := afero.ReadFile(fsys, filepath.Join(res.OutputDir, filepath.FromSlash(out.File)))
		if err != nil {
			return nil, fmt.Errorf("hash artifact %s: %w", out.File, err)
		}
		sum := sha256.Sum256(data)
		m.Outputs.ArtifactHashes[out.File] = hex.EncodeToString(sum[:])
	}
	return m, nil
}

// ConfigHash hashes the configuration values that affect rendered output.
func ConfigHash(cfg *config.Config) (string, error) {
	data, err := json.Marshal(struct {
		Site     config.SiteConfig      `json:"site"`
		Content  config.ContentConfig   `json:"content"`
		Sections []config.SectionConfig `json:"sections"`
	}{cfg.Site, cfg.Content, cfg.Sections})
	if err != nil {
		return "", fmt.Errorf("marshal config for hash: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the manifest's inputs. Builds with
// equal hashes render identical sites.
func (m *BuildManifest) Hash() (string, error) {
	data, err := json.Marshal(struct {
		Inputs  Inputs `json:"inputs"`
		Version string `json:"version"`
	}{m.Inputs, m.Version})
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Write stores the manifest in dir.
func (m *BuildManifest) Write(fsys afero.Fs, dir string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	return afero.WriteFile(fsys, filepath.Join(dir, FileName), data, 0o644)
}

// Read loads the manifest from dir. It returns nil without error when the
// directory has none.
func Read(fsys afero.Fs, dir string) (*BuildManifest, error) {
	data, err := afero.ReadFile(fsys, filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return FromJSON(data)
}

// UpToDate reports whether dir holds a successful build with the inputs of
// want whose artifacts are all still present and unmodified.
func UpToDate(fsys afero.Fs, dir string, want *BuildManifest) (bool, error) {
	prev, err := Read(fsys, dir)
	if err != nil || prev == nil || prev.Status != StatusSuccess {
		return false, err
	}
	prevHash, err := prev.Hash()
	if err != nil {
		return false, err
	}
	wantHash, err := want.Hash()
	if err != nil {
		return false, err
	}
	if prevHash != wantHash {
		return false, nil
	}
	for file, sum := range prev.Outputs.ArtifactHashes {
		data, err := afero.ReadFile(fsys, filepath.Join(dir, filepath.FromSlash(file)))
		if err != nil {
			return false, nil
		}
		got := sha256.Sum256(data)
		if hex.EncodeToString(got[:]) != sum {
			return false, nil
		}
	}
	return true, nil
}

// Planned describes the inputs of a build that has not run yet, for use
// with UpToDate.
func Planned(cfg *config.Config, snap *site.Snapshot) (*BuildManifest, error) {
	cfgHash, err := ConfigHash(cfg)
	if err != nil {
		return nil, err
	}
	m := &BuildManifest{
		Version: version.Version,
		Inputs:  Inputs{ContentHash: snap.Hash(), ConfigHash: cfgHash, Posts: snap.Blog.Len()},
	}
	for _, sec := range snap.Docs.Sections() {
		m.Inputs.Sections = append(m.Inputs.Sections, SectionInput{Key: sec.Key, Files: sec.Files})
	}
	return m, nil
}
