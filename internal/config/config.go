package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// ProjectFile is the config file name looked up in the working directory.
const ProjectFile = "dice-reader.toml"

// Input lists the videos processed when none are given on the command line.
type Input struct {
	Videos []string `toml:"videos"`
}

// Output controls annotated file naming and encoding.
type Output struct {
	Dir         string `toml:"dir"`
	Suffix      string `toml:"suffix"`
	Codec       string `toml:"codec"`
	Still       bool   `toml:"still"`
	StillFormat string `toml:"still_format"`
}

// Logging configures the slog handler.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// HSVBand is an inclusive OpenCV-scaled HSV range.
type HSVBand struct {
	HueMin float64 `toml:"hue_min"`
	HueMax float64 `toml:"hue_max"`
	SatMin float64 `toml:"sat_min"`
	SatMax float64 `toml:"sat_max"`
	ValMin float64 `toml:"val_min"`
	ValMax float64 `toml:"val_max"`
}

// Segment holds the color thresholds and morphology kernels.
type Segment struct {
	BlurKernel      int     `toml:"blur_kernel"`
	RedLow          HSVBand `toml:"red_low"`
	RedHigh         HSVBand `toml:"red_high"`
	CloseKernel     int     `toml:"close_kernel"`
	OpenKernel      int     `toml:"open_kernel"`
	White           HSVBand `toml:"white"`
	WhiteOpenKernel int     `toml:"white_open_kernel"`
}

// Window configures the sliding-window strategy.
type Window struct {
	Size int `toml:"size"`
}

// Buffer configures the streaming strategy.
type Buffer struct {
	Downscale     int `toml:"downscale"`
	DiffThreshold int `toml:"diff_threshold"`
	MaxSlack      int `toml:"max_slack"`
	SnapshotAt    int `toml:"snapshot_at"`
	MinSettled    int `toml:"min_settled"`
}

// Dice holds the die localization bands.
type Dice struct {
	AreaMin   float64 `toml:"area_min"`
	AreaMax   float64 `toml:"area_max"`
	AspectMin float64 `toml:"aspect_min"`
	AspectMax float64 `toml:"aspect_max"`
	Padding   int     `toml:"padding"`
}

// Pips holds the pip counting mode and area band.
type Pips struct {
	Mode    string `toml:"mode"`
	AreaMin int    `toml:"area_min"`
	AreaMax int    `toml:"area_max"`
}

// Annotate holds overlay sizes. Colors are fixed.
type Annotate struct {
	BoxThickness  int     `toml:"box_thickness"`
	FontScale     float64 `toml:"font_scale"`
	FontThickness int     `toml:"font_thickness"`
	LabelOffset   int     `toml:"label_offset"`
}

// Config is the full set of user-tunable settings.
type Config struct {
	Strategy string   `toml:"strategy"`
	Input    Input    `toml:"input"`
	Output   Output   `toml:"output"`
	Logging  Logging  `toml:"logging"`
	Segment  Segment  `toml:"segment"`
	Window   Window   `toml:"window"`
	Buffer   Buffer   `toml:"buffer"`
	Dice     Dice     `toml:"dice"`
	Pips     Pips     `toml:"pips"`
	Annotate Annotate `toml:"annotate"`
}

// DefaultConfigPath returns the per-user config location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dice-reader/config.toml")
}

// Load locates, parses, normalizes and validates a configuration file. It
// returns the config, the path it resolved and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config %s: %s", resolvedPath, strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs(ProjectFile)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath applies the config path rules (~ expansion, absolute) to a path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
