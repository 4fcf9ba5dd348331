package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/mapgen/internal/wfc"
)

// GeneratorConfig holds the full configuration for a map generation run.
type GeneratorConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	WFC     WFCConfig     `yaml:"wfc"`
	Noise   NoiseConfig   `yaml:"noise"`
	Voronoi VoronoiConfig `yaml:"voronoi"`
	Render  RenderConfig  `yaml:"render"`
	Store   StoreConfig   `yaml:"store"`
	Preview PreviewConfig `yaml:"preview"`
}

// GridConfig holds the output grid dimensions and the random seed shared by
// all generators.
type GridConfig struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`
}

// WFCConfig holds Wave Function Collapse solver settings.
type WFCConfig struct {
	// Tiles is the number of tile indices, including the reserved unset
	// index.
	Tiles int `yaml:"tiles"`

	// Radius is the neighborhood radius the weighting rule sees.
	Radius int `yaml:"radius"`

	// Metric selects the neighborhood shape: chebyshev, manhattan or
	// euclidean.
	Metric string `yaml:"metric"`

	// BacktrackRadius is the base half-width of the area cleared when a
	// contradiction is hit.
	BacktrackRadius int `yaml:"backtrack_radius"`

	// MaxBacktracks bounds area resets before the solve fails.
	MaxBacktracks int `yaml:"max_backtracks"`
}

// NoiseConfig holds colored noise settings.
type NoiseConfig struct {
	// Color is the spectral exponent; -2 gives Brownian noise.
	Color float64 `yaml:"color"`
}

// VoronoiConfig holds Voronoi partition settings.
type VoronoiConfig struct {
	Centers           int     `yaml:"centers"`
	BorderCoefficient float64 `yaml:"border_coefficient"`
	Relaxations       int     `yaml:"relaxations"`
}

// RenderConfig holds image output settings.
type RenderConfig struct {
	// Scale is the integer pixel size of each map cell.
	Scale int `yaml:"scale"`

	// Output is the PNG path maps are written to.
	Output string `yaml:"output"`
}

// StoreConfig holds map persistence settings.
type StoreConfig struct {
	// Enabled turns on saving generated maps to the database.
	Enabled bool `yaml:"enabled"`

	// Driver specifies which database to use: "sqlite" or "postgres"
	Driver string `yaml:"driver"`

	// SQLite configuration
	SQLitePath string `yaml:"sqlite_path"`

	// PostgreSQL configuration
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// PreviewConfig holds settings for the WebSocket preview server.
type PreviewConfig struct {
	// Enabled turns on live progress streaming.
	Enabled bool `yaml:"enabled"`

	// Addr is the listen address for the preview server.
	Addr string `yaml:"addr"`

	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns a GeneratorConfig with working defaults.
func DefaultConfig() *GeneratorConfig {
	return &GeneratorConfig{
		Grid: GridConfig{
			Width:  64,
			Height: 64,
			Seed:   1,
		},
		WFC: WFCConfig{
			Tiles:           6,
			Radius:          wfc.DefaultRadius,
			Metric:          "chebyshev",
			BacktrackRadius: wfc.DefaultBacktrackRadius,
			MaxBacktracks:   wfc.DefaultMaxBacktracks,
		},
		Noise: NoiseConfig{
			Color: -2.0,
		},
		Voronoi: VoronoiConfig{
			Centers:           8,
			BorderCoefficient: 0.01,
			Relaxations:       2,
		},
		Render: RenderConfig{
			Scale:  4,
			Output: "map.png",
		},
		Store: StoreConfig{
			Enabled:    false,
			Driver:     "sqlite",
			SQLitePath: "data/maps.db",
		},
		Preview: PreviewConfig{
			Enabled:        false,
			Addr:           "localhost:8080",
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
		},
	}
}

// LoadConfig loads generator configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*GeneratorConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// Validate checks the configuration for values the generators would reject.
func (c *GeneratorConfig) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("grid size %dx%d is not positive", c.Grid.Width, c.Grid.Height)
	}
	if c.WFC.Tiles < 2 {
		return fmt.Errorf("wfc needs at least 2 tiles, got %d", c.WFC.Tiles)
	}
	if _, err := wfc.ParseMetric(c.WFC.Metric); err != nil {
		return err
	}
	if c.Voronoi.Centers < 3 {
		return fmt.Errorf("voronoi needs at least 3 centers, got %d", c.Voronoi.Centers)
	}
	if c.Render.Scale < 1 {
		return fmt.Errorf("render scale %d is not positive", c.Render.Scale)
	}
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *PreviewConfig) IsOriginAllowed(origin, requestHost string) bool {
	// If no origins configured, enforce same-origin policy
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		// Wildcard allows all origins
		if allowed == "*" {
			return true
		}
		// Exact match
		if allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// Extract host from origin URL (e.g., "http://localhost:3000" -> "localhost:3000")
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	// Remove trailing slash if present
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
