package spatialindex

import (
	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Metric names accepted in Config.
const (
	// MetricPlanar selects PlanarMetric, for which query pruning is exact.
	MetricPlanar = "planar"
	// MetricGreatCircle selects GreatCircleMetric. Pruning clamps to region
	// edges in latitude/longitude, which can slightly overestimate the
	// spherical distance near the east and west edges of wide regions at high
	// latitude, so a query may miss an entity lying just inside its radius.
	MetricGreatCircle = "great_circle"
)

// Config describes an Index in a form that can be decoded from attribute maps
// such as parsed JSON or YAML.
type Config struct {
	Name     string  `mapstructure:"name"`
	MinLat   float64 `mapstructure:"min_lat"`
	MaxLat   float64 `mapstructure:"max_lat"`
	MinLon   float64 `mapstructure:"min_lon"`
	MaxLon   float64 `mapstructure:"max_lon"`
	Capacity int     `mapstructure:"capacity"`
	MaxDepth int     `mapstructure:"max_depth"`
	Metric   string  `mapstructure:"metric"`
}

// DecodeConfig decodes attrs into a validated Config. Capacity, max depth
// and metric default to DefaultCapacity, DefaultMaxDepth and MetricPlanar.
// Unknown keys are an error.
func DecodeConfig(attrs map[string]interface{}) (Config, error) {
	c := Config{
		Capacity: DefaultCapacity,
		MaxDepth: DefaultMaxDepth,
		Metric:   MetricPlanar,
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Config{}, wrapErr(err, "creating config decoder")
	}
	if err := dec.Decode(attrs); err != nil {
		return Config{}, wrapErr(err, "decoding config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Bounds returns the configured extent.
func (c Config) Bounds() (Bounds, error) {
	return NewBounds(c.MinLat, c.MaxLat, c.MinLon, c.MaxLon)
}

// Validate reports every problem with c.
func (c Config) Validate() error {
	var err error
	if _, bErr := c.Bounds(); bErr != nil {
		err = multierr.Append(err, bErr)
	}
	if c.Capacity < 1 {
		err = multierr.Append(err, fmtErr("capacity must be at least 1, got %d", c.Capacity))
	}
	if c.MaxDepth < 0 {
		err = multierr.Append(err, fmtErr("max depth must not be negative, got %d", c.MaxDepth))
	}
	switch c.Metric {
	case "", MetricPlanar, MetricGreatCircle:
	default:
		err = multierr.Append(err, fmtErr("unknown metric %q", c.Metric))
	}
	return err
}

// NewFromConfig validates c and builds an Index from it.
func NewFromConfig(c Config, logger *zap.Logger) (*Index, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	b, err := c.Bounds()
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithName(c.Name),
		WithCapacity(c.Capacity),
		WithMaxDepth(c.MaxDepth),
		WithLogger(logger),
	}
	if c.Metric == MetricGreatCircle {
		opts = append(opts, WithMetric(GreatCircleMetric{}))
	}
	return New(b, opts...), nil
}
