// Command dicetest runs die localization and pip counting on a single still.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	_ "golang.org/x/image/tiff"

	"dice-reader/internal/annotate"
	"dice-reader/internal/dice"
	"dice-reader/internal/segment"
	"dice-reader/internal/video"
)

func main() {
	imagePath := flag.String("image", "", "Path to a frame (TIFF, PNG, or JPEG)")
	pipMode := flag.String("pips", "banded", "Pip counting mode: banded or raw")
	minArea := flag.Float64("min-area", dice.DefaultParams().AreaMin, "Smallest die area in pixels")
	maxArea := flag.Float64("max-area", dice.DefaultParams().AreaMax, "Largest die area in pixels")
	blur := flag.Int("blur", segment.DefaultParams().BlurKernel, "Gaussian pre-blur kernel (odd, 0 disables)")
	closeKernel := flag.Int("close", segment.DefaultParams().CloseKernel, "Mask closing kernel")
	openKernel := flag.Int("open", segment.DefaultParams().OpenKernel, "Mask opening kernel")
	out := flag.String("out", "", "Optional path for an annotated copy (png, jpg or tiff)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: dicetest -image <path> [-pips banded|raw] [-min-area 500] [-max-area 10000] [-blur 7] [-close 11] [-open 5] [-out annotated.png]")
		os.Exit(1)
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}

	bounds := img.Bounds()
	fmt.Printf("Loaded %s image: %dx%d pixels\n", format, bounds.Dx(), bounds.Dy())

	mode, err := dice.ParsePipMode(*pipMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	seg := segment.DefaultParams().WithBlur(*blur).WithMorphology(*closeKernel, *openKernel)
	params := dice.DefaultParams().WithAreaRange(*minArea, *maxArea).WithPipMode(mode)

	fmt.Printf("\nDetection parameters:\n")
	fmt.Printf("  Red low:  H(%.0f-%.0f) S(%.0f-%.0f) V(%.0f-%.0f)\n",
		seg.RedLow.HueMin, seg.RedLow.HueMax, seg.RedLow.SatMin, seg.RedLow.SatMax, seg.RedLow.ValMin, seg.RedLow.ValMax)
	fmt.Printf("  Red high: H(%.0f-%.0f) S(%.0f-%.0f) V(%.0f-%.0f)\n",
		seg.RedHigh.HueMin, seg.RedHigh.HueMax, seg.RedHigh.SatMin, seg.RedHigh.SatMax, seg.RedHigh.ValMin, seg.RedHigh.ValMax)
	fmt.Printf("  Blur %d, close %d, open %d\n", seg.BlurKernel, seg.CloseKernel, seg.OpenKernel)
	fmt.Printf("  Die area: %.0f - %.0f px, aspect %.2f - %.2f\n", params.AreaMin, params.AreaMax, params.AspectMin, params.AspectMax)
	fmt.Printf("  Pips: %s (area %d - %d px)\n", params.PipMode, params.PipAreaMin, params.PipAreaMax)

	frame, err := video.ImageToMat(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to convert image: %v\n", err)
		os.Exit(1)
	}
	defer frame.Close()

	fmt.Printf("\nDetecting dice...\n")
	mask := segment.RedMask(frame, seg)
	boxes := dice.LocateContours(mask, params)
	mask.Close()
	found := dice.Read(frame, boxes, seg, params)

	fmt.Printf("\nDetected %d dice:\n", len(found))
	fmt.Printf("%-6s %8s %8s %8s %8s %8s %6s\n", "Die", "X", "Y", "Width", "Height", "Aspect", "Value")
	fmt.Println(strings.Repeat("-", 60))
	total := 0
	for i, d := range found {
		fmt.Printf("%-6d %8d %8d %8d %8d %8.2f %6d\n",
			i+1, d.Box.X, d.Box.Y, d.Box.Width, d.Box.Height, d.Box.AspectRatio(), d.Value)
		total += d.Value
	}
	fmt.Printf("\nTotal: %d dice, sum %d\n", len(found), total)

	if *out != "" {
		annotated := annotate.Annotated(frame, found, annotate.DefaultStyle())
		defer annotated.Close()
		if err := annotate.WriteStill(*out, annotated); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Printf("Annotated copy written to %s\n", *out)
	}
}
