package pipeline

import (
	"path/filepath"
	"sort"
	"strings"
)

// OutputPath derives the annotated video path from the input path.
func OutputPath(input string, o OutputOptions) string {
	dir, stem, ext := splitInput(input, o)
	return filepath.Join(dir, stem+o.Suffix+ext)
}

// StillPath derives the annotated still image path from the input path.
func StillPath(input string, o OutputOptions) string {
	dir, stem, _ := splitInput(input, o)
	format := strings.ToLower(o.StillFormat)
	if format == "" {
		format = "png"
	}
	return filepath.Join(dir, stem+o.Suffix+"."+format)
}

func splitInput(input string, o OutputOptions) (dir, stem, ext string) {
	base := filepath.Base(input)
	ext = filepath.Ext(base)
	stem = strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".mp4"
	}
	dir = o.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return dir, stem, ext
}

// ExpandInputs resolves glob patterns in order. Literal names are kept even
// when missing so the runner can report them; a pattern that matches nothing
// contributes nothing.
func ExpandInputs(entries []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.ContainsAny(entry, "*?[") {
			add(entry)
			continue
		}
		matches, err := filepath.Glob(entry)
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}
