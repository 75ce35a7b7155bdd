// Command framecheck runs the scanning pipeline on a single image file and
// prints the guidance, quality and optional capture results as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"cardscan"
	"cardscan/internal/logger"
	"cardscan/internal/version"

	"github.com/rs/zerolog"
)

func main() {
	input := flag.String("i", "", "Path to input image")
	output := flag.String("o", "", "Path to write the captured card JPEG (implies -capture)")
	doCapture := flag.Bool("capture", false, "Run the capture pass after guidance")
	doValidate := flag.Bool("validate", false, "Run the aggregate quality check")
	verbose := flag.Bool("v", false, "Verbose logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("framecheck %s (%s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
		return
	}
	if *input == "" {
		fmt.Println("Usage: framecheck -i <image> [-capture] [-validate] [-o <card.jpg>]")
		os.Exit(1)
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := logger.NewConsole(level)

	f, err := os.Open(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}

	session := cardscan.NewSession(cardscan.DefaultConfig(), log)

	out := struct {
		Guidance   cardscan.GuidanceResult `json:"guidance"`
		Validation *cardscan.Validation    `json:"validation,omitempty"`
		Capture    *cardscan.CaptureResult `json:"capture,omitempty"`
	}{
		Guidance: session.ProcessFrame(img, cardscan.ModeManual),
	}

	if *doValidate {
		v := session.Validate(img)
		out.Validation = &v
	}

	if *doCapture || *output != "" {
		capture := session.Capture(img, nil)
		if capture.Success && *output != "" {
			if err := os.WriteFile(*output, capture.WarpedImage, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to write card image: %v\n", err)
				os.Exit(1)
			}
		}
		// Keep the JSON readable; the image bytes go to the file instead.
		capture.WarpedImage = nil
		out.Capture = &capture
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode result: %v\n", err)
		os.Exit(1)
	}
}
