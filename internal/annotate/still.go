package annotate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
	"golang.org/x/image/tiff"

	"dice-reader/internal/video"
)

// StillFormats lists the file extensions WriteStill accepts.
var StillFormats = []string{"png", "jpg", "jpeg", "tif", "tiff"}

// WriteStill saves a BGR frame. The format follows the file extension:
// PNG and JPEG go through OpenCV, TIFF through golang.org/x/image/tiff.
func WriteStill(path string, frame gocv.Mat) error {
	if frame.Empty() {
		return fmt.Errorf("write still %s: empty frame", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create still directory: %w", err)
	}

	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "png", "jpg", "jpeg":
		if !gocv.IMWrite(path, frame) {
			return fmt.Errorf("write still %s: encoder failed", path)
		}
		return nil
	case "tif", "tiff":
		return writeTIFF(path, frame)
	default:
		return fmt.Errorf("write still %s: unsupported format %q", path, ext)
	}
}

func writeTIFF(path string, frame gocv.Mat) error {
	img, err := video.MatToImage(frame)
	if err != nil {
		return fmt.Errorf("write still %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write still: %w", err)
	}
	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		f.Close()
		return fmt.Errorf("encode tiff %s: %w", path, err)
	}
	return f.Close()
}
