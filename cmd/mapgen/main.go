package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/lawnchairsociety/mapgen/internal/config"
	"github.com/lawnchairsociety/mapgen/internal/logger"
	"github.com/lawnchairsociety/mapgen/internal/noise"
	"github.com/lawnchairsociety/mapgen/internal/preview"
	"github.com/lawnchairsociety/mapgen/internal/render"
	"github.com/lawnchairsociety/mapgen/internal/store"
	"github.com/lawnchairsociety/mapgen/internal/voronoi"
	"github.com/lawnchairsociety/mapgen/internal/wfc"
)

func main() {
	mode := flag.String("mode", "wfc", "Generator to run: wfc, noise or voronoi")
	configFile := flag.String("config", "data/mapgen.yaml", "Path to generator config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	width := flag.Int("width", 0, "Map width in cells (overrides config)")
	height := flag.Int("height", 0, "Map height in cells (overrides config)")
	seed := flag.Int64("seed", 0, "Generation seed (default: random based on current time)")
	outFile := flag.String("out", "", "Output PNG path (overrides config)")
	scale := flag.Int("scale", 0, "Pixels per cell in the output image (overrides config)")
	saveAs := flag.String("save", "", "Save the generated map to the database under this name")
	livePreview := flag.Bool("preview", false, "Serve live generation progress over WebSocket")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Using default generator config", "path", *configFile, "error", err)
	}

	if *width > 0 {
		cfg.Grid.Width = *width
	}
	if *height > 0 {
		cfg.Grid.Height = *height
	}
	if *seed != 0 {
		cfg.Grid.Seed = *seed
	} else if cfg.Grid.Seed == 0 {
		cfg.Grid.Seed = time.Now().UnixNano()
	}
	if *outFile != "" {
		cfg.Render.Output = *outFile
	}
	if *scale > 0 {
		cfg.Render.Scale = *scale
	}
	if *saveAs != "" {
		cfg.Store.Enabled = true
	}
	if *livePreview {
		cfg.Preview.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting map generation",
		"mode", *mode,
		"width", cfg.Grid.Width,
		"height", cfg.Grid.Height,
		"seed", cfg.Grid.Seed)

	var previewServer *preview.Server
	if cfg.Preview.Enabled {
		previewServer = preview.NewServer(cfg.Preview)
		go func() {
			if err := previewServer.Start(); err != nil {
				logger.Error("Preview server stopped", "error", err)
			}
		}()
		logger.Info("Preview server listening", "addr", cfg.Preview.Addr)
	}

	var (
		img   image.Image
		cells []byte
	)
	switch *mode {
	case "wfc":
		img, cells, err = runWFC(cfg, previewServer)
	case "noise":
		img, cells, err = runNoise(cfg)
	case "voronoi":
		img, cells, err = runVoronoi(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode %q (want wfc, noise or voronoi)\n", *mode)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation failed: %v\n", err)
		os.Exit(1)
	}

	if previewServer != nil {
		previewServer.Broadcast(preview.Frame{
			Event:     "done",
			Committed: cfg.Grid.Width * cfg.Grid.Height,
			Total:     cfg.Grid.Width * cfg.Grid.Height,
		})
	}

	img = render.Scale(img, cfg.Render.Scale)
	if err := render.WritePNG(cfg.Render.Output, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing image: %v\n", err)
		os.Exit(1)
	}
	logger.Info("Map image written", "path", cfg.Render.Output)
	fmt.Printf("Map written to %s\n", cfg.Render.Output)

	if cfg.Store.Enabled && *saveAs != "" {
		if err := saveMap(cfg, *saveAs, *mode, cells); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving map: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map saved as %q\n", *saveAs)
	}
}

// terrainWeights is the default five-terrain weighting rule. Every terrain
// starts equally likely; once a terrain dominates the neighborhood it
// suppresses the terrains it never borders, so compatible terrains end up
// clustered.
func terrainWeights(n *wfc.Neighborhood) []float64 {
	const (
		lava   = wfc.Tile(1)
		desert = wfc.Tile(2)
		plains = wfc.Tile(3)
		forest = wfc.Tile(4)
		water  = wfc.Tile(5)
	)

	ps := []float64{0, 1, 1, 1, 1, 1}
	forbid := func(tiles ...wfc.Tile) {
		for _, t := range tiles {
			ps[t] = 0
		}
	}

	switch {
	case n.Count(lava) > 2:
		forbid(plains, forest, water)
	case n.Count(desert) > 2:
		forbid(forest, water)
	case n.Count(plains) > 2:
		forbid(lava, water)
	case n.Count(forest) > 2:
		forbid(lava, desert)
	case n.Count(water) > 2:
		forbid(lava, desert, plains)
	}
	return ps
}

// terrainPalette colors the five terrains; index 0 stays dark for cells a
// failed solve leaves unset.
func terrainPalette() render.Palette {
	return render.Palette{
		{R: 0x20, G: 0x20, B: 0x20, A: 0xff},
		{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
		{R: 0xff, G: 0x80, B: 0x00, A: 0xff},
		{R: 0xff, G: 0xff, B: 0x00, A: 0xff},
		{R: 0x00, G: 0xff, B: 0x00, A: 0xff},
		{R: 0x00, G: 0x00, B: 0xff, A: 0xff},
	}
}

func runWFC(cfg *config.GeneratorConfig, previewServer *preview.Server) (image.Image, []byte, error) {
	metric, err := wfc.ParseMetric(cfg.WFC.Metric)
	if err != nil {
		return nil, nil, err
	}

	solverCfg := wfc.Config{
		Width:           cfg.Grid.Width,
		Height:          cfg.Grid.Height,
		Seed:            cfg.Grid.Seed,
		TileCount:       cfg.WFC.Tiles,
		Weigh:           terrainWeights,
		Radius:          cfg.WFC.Radius,
		Metric:          metric,
		BacktrackRadius: cfg.WFC.BacktrackRadius,
		MaxBacktracks:   cfg.WFC.MaxBacktracks,
	}
	if previewServer != nil {
		solverCfg.OnCommit = func(p wfc.Position, t wfc.Tile, committed, total int) {
			previewServer.Broadcast(preview.Frame{
				Event:     "commit",
				X:         p.X,
				Y:         p.Y,
				Tile:      int(t),
				Committed: committed,
				Total:     total,
			})
		}
	}

	solver, err := wfc.NewSolver(solverCfg)
	if err != nil {
		return nil, nil, err
	}

	grid, err := solver.Solve()
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Solve finished", "backtracks", solver.Bombings())

	cells, err := store.EncodeTiles(grid.Snapshot())
	if err != nil {
		return nil, nil, err
	}
	return render.TileImage(grid, terrainPalette()), cells, nil
}

func runNoise(cfg *config.GeneratorConfig) (image.Image, []byte, error) {
	gen := &noise.Generator{
		Width:  cfg.Grid.Width,
		Height: cfg.Grid.Height,
		Color:  cfg.Noise.Color,
		Seed:   cfg.Grid.Seed,
	}
	field, err := gen.Generate()
	if err != nil {
		return nil, nil, err
	}

	// Quantized to one byte per cell for storage.
	values := field.Values()
	cells := make([]byte, len(values))
	for i, v := range values {
		cells[i] = byte(v * 256)
	}
	return render.NoiseImage(field), cells, nil
}

func runVoronoi(cfg *config.GeneratorConfig) (image.Image, []byte, error) {
	diagram := &voronoi.Diagram{
		Width:             cfg.Grid.Width,
		Height:            cfg.Grid.Height,
		BorderCoefficient: cfg.Voronoi.BorderCoefficient,
		Relaxations:       cfg.Voronoi.Relaxations,
	}
	centers := voronoi.RandomCenters(cfg.Voronoi.Centers, cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.Seed)
	result, err := diagram.Generate(centers)
	if err != nil {
		return nil, nil, err
	}

	// Shifted by one so border cells store as 0.
	tiles := make([]wfc.Tile, len(result.Assignments))
	for i, a := range result.Assignments {
		tiles[i] = wfc.Tile(a + 1)
	}
	cells, err := store.EncodeTiles(tiles)
	if err != nil {
		return nil, nil, err
	}
	return render.VoronoiImage(result, render.DefaultPalette()), cells, nil
}

func saveMap(cfg *config.GeneratorConfig, name, kind string, cells []byte) error {
	storeCfg := store.Config{
		Driver:     cfg.Store.Driver,
		SQLitePath: cfg.Store.SQLitePath,
		Postgres:   store.DefaultPostgresConfig(),
	}
	storeCfg.Postgres.Host = cfg.Store.Postgres.Host
	storeCfg.Postgres.Port = cfg.Store.Postgres.Port
	storeCfg.Postgres.User = cfg.Store.Postgres.User
	storeCfg.Postgres.Password = cfg.Store.Postgres.Password
	storeCfg.Postgres.Database = cfg.Store.Postgres.Database
	storeCfg.Postgres.SSLMode = cfg.Store.Postgres.SSLMode

	db, err := store.Open(storeCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveMap(&store.Map{
		Name:   name,
		Kind:   kind,
		Seed:   cfg.Grid.Seed,
		Width:  cfg.Grid.Width,
		Height: cfg.Grid.Height,
		Cells:  cells,
	})
	if err != nil {
		return err
	}
	logger.Info("Map saved", "id", id, "name", name, "kind", kind)
	return nil
}
