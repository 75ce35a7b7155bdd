// Command cardscan runs live guidance against a webcam and saves the card
// image once auto-capture fires.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"cardscan"
	"cardscan/internal/logger"
	"cardscan/internal/version"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

func main() {
	device := flag.Int("d", 0, "Camera device ID")
	output := flag.String("o", "card.jpg", "Path for the captured card JPEG")
	manual := flag.Bool("manual", false, "Disable auto-capture (press Ctrl-C to stop)")
	verbose := flag.Bool("v", false, "Verbose logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("cardscan %s (%s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
		return
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := logger.NewConsole(level)

	webcam, err := gocv.OpenVideoCapture(*device)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open camera %d: %v\n", *device, err)
		os.Exit(1)
	}
	defer webcam.Close()

	mode := cardscan.ModeAuto
	if *manual {
		mode = cardscan.ModeManual
	}

	session := cardscan.NewSession(cardscan.DefaultConfig(), log)
	worker := cardscan.NewWorker(session)
	defer worker.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	fmt.Println("Scanning... hold the card in front of the camera.")
	lastMessage := ""
	for {
		select {
		case capture := <-worker.Captures():
			if !capture.Success {
				fmt.Printf("Capture failed: %s\n", capture.Message)
				continue
			}
			if err := os.WriteFile(*output, capture.WarpedImage, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *output, err)
				os.Exit(1)
			}
			fmt.Printf("%s -> %s\n", capture.Message, *output)
			return
		default:
		}

		if ok := webcam.Read(&frame); !ok || frame.Empty() {
			time.Sleep(50 * time.Millisecond)
			continue
		}
		img, err := frame.ToImage()
		if err != nil {
			log.Warn("camera", "frame conversion failed", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}

		worker.Feed(img, mode)
		if guidance, ok := worker.Latest(); ok && guidance.Message != lastMessage {
			lastMessage = guidance.Message
			fmt.Println(guidance.Message)
		}
	}
}
