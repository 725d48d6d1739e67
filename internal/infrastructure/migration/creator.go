package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

var migrationTemplate = template.Must(template.New("migration").Parse(`-- {{.Name}} ({{.Direction}})
-- Created: {{.Created}}
{{if .Description}}-- {{.Description}}
{{end}}
`))

// File describes a created migration pair
type File struct {
	Version  uint
	Name     string
	UpPath   string
	DownPath string
}

// Create writes an empty up/down pair numbered after the highest existing
// version in dir, e.g. 000005_add_price_history.up.sql.
func Create(dir, name, description string) (*File, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := List(dir)
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if len(existing) > 0 {
		next = existing[len(existing)-1].Version + 1
	}

	base := fmt.Sprintf("%06d_%s", next, slug)
	f := &File{
		Version:  next,
		Name:     slug,
		UpPath:   filepath.Join(dir, base+upSuffix),
		DownPath: filepath.Join(dir, base+downSuffix),
	}

	created := time.Now().Format(time.RFC3339)
	if err := writeTemplate(f.UpPath, slug, "up", description, created); err != nil {
		return nil, err
	}
	if err := writeTemplate(f.DownPath, slug, "down", description, created); err != nil {
		_ = os.Remove(f.UpPath)
		return nil, err
	}
	return f, nil
}

func writeTemplate(path, name, direction, description, created string) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	return migrationTemplate.Execute(out, map[string]string{
		"Name":        name,
		"Direction":   direction,
		"Description": description,
		"Created":     created,
	})
}

// List returns the migrations found in dir ordered by version. A migration is
// listed once its up file exists; the down file is reported when present.
func List(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byBase := make(map[string]*File)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		var base string
		var up bool
		switch {
		case strings.HasSuffix(name, upSuffix):
			base, up = strings.TrimSuffix(name, upSuffix), true
		case strings.HasSuffix(name, downSuffix):
			base = strings.TrimSuffix(name, downSuffix)
		default:
			continue
		}

		version, slug, ok := splitBase(base)
		if !ok {
			continue
		}
		f, found := byBase[base]
		if !found {
			f = &File{Version: version, Name: slug}
			byBase[base] = f
		}
		if up {
			f.UpPath = filepath.Join(dir, name)
		} else {
			f.DownPath = filepath.Join(dir, name)
		}
	}

	files := make([]File, 0, len(byBase))
	for _, f := range byBase {
		if f.UpPath != "" {
			files = append(files, *f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

func splitBase(base string) (uint, string, bool) {
	num, slug, found := strings.Cut(base, "_")
	if !found {
		return 0, "", false
	}
	v, err := strconv.ParseUint(num, 10, 32)
	if err != nil {
		return 0, "", false
	}
	return uint(v), slug, true
}

// sanitizeName converts a migration name to a safe file name format
func sanitizeName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			result = append(result, c)
		case c >= 'A' && c <= 'Z':
			result = append(result, c+'a'-'A')
		case c == ' ' || c == '-' || c == '_':
			if len(result) > 0 && result[len(result)-1] != '_' {
				result = append(result, '_')
			}
		}
	}
	return strings.TrimSuffix(string(result), "_")
}
