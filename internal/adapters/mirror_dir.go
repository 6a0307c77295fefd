package adapters

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"upgrade-guard/internal/ports"
	"upgrade-guard/internal/shared"
	"upgrade-guard/internal/types"
)

// MirrorDirAdapter indexes a directory-backed package mirror. Python
// artifacts follow the "<name>-<version>.<ext>" convention, Debian
// packages the "<name>_<version>_<arch>.deb" convention.
type MirrorDirAdapter struct {
	Dir string
}

func NewMirrorDirAdapter(dir string) MirrorDirAdapter {
	return MirrorDirAdapter{Dir: dir}
}

func (a MirrorDirAdapter) Scan() ([]types.MirrorEntry, error) {
	if a.Dir == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("mirror directory is empty")
	}
	entries := make([]types.MirrorEntry, 0)
	err := filepath.WalkDir(a.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name, version, ok := parseArtifactName(d.Name())
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, types.MirrorEntry{
			Package:      name,
			Version:      version,
			Path:         path,
			SizeBytes:    info.Size(),
			LastModified: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to scan mirror directory").
			WithCause(err)
	}
	return entries, nil
}

// TriggerSync drops a sync request file into the mirror directory. The
// external sync job watches for this marker and fetches the listed
// artifacts.
func (a MirrorDirAdapter) TriggerSync(plan types.MirrorPlan) error {
	if a.Dir == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("mirror directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create mirror directory").
			WithCause(err)
	}
	content, err := yaml.Marshal(plan)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to serialize sync request").
			WithCause(err)
	}
	return os.WriteFile(filepath.Join(a.Dir, "sync.request"), content, 0644)
}

// parseArtifactName splits a mirror filename into package name and
// version. Files that do not match a known artifact convention are
// skipped.
func parseArtifactName(filename string) (string, string, bool) {
	switch {
	case strings.HasSuffix(filename, ".deb"):
		// <name>_<version>_<arch>.deb
		parts := strings.Split(strings.TrimSuffix(filename, ".deb"), "_")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", "", false
		}
		return parts[0], parts[1], true
	case strings.HasSuffix(filename, ".whl"):
		// <name>-<version>-<python tag>-<abi tag>-<platform tag>.whl
		parts := strings.Split(strings.TrimSuffix(filename, ".whl"), "-")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", "", false
		}
		return shared.NormalizePipName(parts[0]), parts[1], true
	case strings.HasSuffix(filename, ".tar.gz"):
		// <name>-<version>.tar.gz
		trimmed := strings.TrimSuffix(filename, ".tar.gz")
		idx := strings.LastIndex(trimmed, "-")
		if idx <= 0 || idx == len(trimmed)-1 {
			return "", "", false
		}
		return shared.NormalizePipName(trimmed[:idx]), trimmed[idx+1:], true
	default:
		return "", "", false
	}
}

var _ ports.MirrorIndexPort = MirrorDirAdapter{}
