package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPaths(t *testing.T) {
	o := OutputOptions{Suffix: "-annotated", StillFormat: "tiff"}

	assert.Equal(t, filepath.Join("clips", "tirada_1-annotated.mp4"), OutputPath(filepath.Join("clips", "tirada_1.mp4"), o))
	assert.Equal(t, filepath.Join("clips", "tirada_1-annotated.tiff"), StillPath(filepath.Join("clips", "tirada_1.mp4"), o))
	assert.Equal(t, "throw-annotated.mp4", OutputPath("throw", o))

	o.Dir = "out"
	assert.Equal(t, filepath.Join("out", "tirada_2-annotated.avi"), OutputPath(filepath.Join("clips", "tirada_2.avi"), o))

	o.StillFormat = ""
	assert.Equal(t, filepath.Join("out", "tirada_2-annotated.png"), StillPath("tirada_2.avi", o))
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"tirada_3.mp4", "tirada_1.mp4", "tirada_2.mp4", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	got, err := ExpandInputs([]string{
		filepath.Join(dir, "tirada_*.mp4"),
		filepath.Join(dir, "tirada_1.mp4"),
		"missing.mp4",
		filepath.Join(dir, "none_*.mp4"),
		"  ",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "tirada_1.mp4"),
		filepath.Join(dir, "tirada_2.mp4"),
		filepath.Join(dir, "tirada_3.mp4"),
		"missing.mp4",
	}, got)

	_, err = ExpandInputs([]string{"[bad"})
	assert.Error(t, err)
}
