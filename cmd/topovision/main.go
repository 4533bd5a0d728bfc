// Command topovision serves the topographic analysis API: frame
// capture, region analysis (gradient, volume, arc length) and the debug
// chart pages.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/topovision/topovision/internal/analysis"
	"github.com/topovision/topovision/internal/capture"
	"github.com/topovision/topovision/internal/config"
	"github.com/topovision/topovision/internal/field"
	"github.com/topovision/topovision/internal/server"
	"github.com/topovision/topovision/internal/store"
)

var (
	listen     = flag.String("listen", ":8080", "Listen address")
	dbFile     = flag.String("db", "topovision.db", "Run history database file (empty disables history)")
	configFile = flag.String("config", "", "Settings JSON file (defaults apply when empty)")
	sourceName = flag.String("source", "", "Frame source override: synthetic or screen")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	settings := config.EmptySettings()
	if *configFile != "" {
		var err error
		settings, err = config.Load(*configFile)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	srcName := settings.GetFrameSource()
	if *sourceName != "" {
		srcName = *sourceName
	}
	src, err := capture.NewSource(srcName, settings.GetFrameWidth(), settings.GetFrameHeight())
	if err != nil {
		log.Fatalf("failed to create frame source: %v", err)
	}
	if err := src.Start(); err != nil {
		log.Fatalf("failed to start frame source: %v", err)
	}
	defer src.Stop()

	denoiser, err := capture.NewDenoiser(settings.GetDenoiser(), settings.GetDenoiseKernel())
	if err != nil {
		log.Fatalf("failed to create denoiser: %v", err)
	}

	var db *store.DB
	if *dbFile != "" {
		db, err = store.Open(*dbFile)
		if err != nil {
			log.Fatalf("failed to open run store: %v", err)
		}
		defer db.Close()
	}

	worker := analysis.NewWorker(settings.GetQueueDepth())
	svc := analysis.NewService(src, denoiser, worker, db, srcName)

	if ps := settings.Perspective; ps != nil {
		var corners [4]field.Point
		for i, c := range ps.Corners {
			corners[i] = field.Point{X: c[0], Y: c[1]}
		}
		pc, err := field.NewPerspectiveCorrector(corners, ps.RealWidth, ps.RealHeight)
		if err != nil {
			log.Fatalf("invalid perspective calibration: %v", err)
		}
		svc.SetPerspective(pc)
		log.Printf("perspective calibration active (%.0f px/m)", pc.PixelsPerMeter)
	}

	ws := server.NewWebServer(server.Config{
		Address:  *listen,
		Service:  svc,
		DB:       db,
		Settings: settings,
	})

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker.Start(ctx)
	defer worker.Stop()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ws.Start(ctx); err != nil {
			log.Printf("web server exited: %v", err)
		}
	}()

	log.Printf("topovision serving on %s (source=%s)", *listen, srcName)
	<-ctx.Done()
	wg.Wait()
	os.Exit(0)
}
