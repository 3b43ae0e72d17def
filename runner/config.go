package runner

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every error Validate returns.
var ErrInvalidConfig = errors.New("invalid config")

// CollisionMode selects how player/enemy contact is tested.
type CollisionMode string

const (
	// CollisionCenter treats two cubes as touching when their centers are
	// closer than the threshold on every axis.
	CollisionCenter CollisionMode = "center"
	// CollisionAABB compares center distance against the combined half-extents.
	CollisionAABB CollisionMode = "aabb"
)

func (m *CollisionMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch mode := CollisionMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case CollisionCenter, CollisionAABB:
		*m = mode
		return nil
	default:
		return fmt.Errorf("%w: unknown collision mode %q (line %d)", ErrInvalidConfig, s, value.Line)
	}
}

// Config holds every tuning value of a session. All speeds and
// accelerations are per tick.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Player    PlayerConfig    `yaml:"player"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Collision CollisionConfig `yaml:"collision"`
	Colors    ColorConfig     `yaml:"colors"`
}

type WorldConfig struct {
	Gravity     float64 `yaml:"gravity"`
	GroundLevel float64 `yaml:"ground_level"`
	HalfExtent  float64 `yaml:"half_extent"`
	LaneWidth   float64 `yaml:"lane_width"`
	LaneLength  float64 `yaml:"lane_length"`
}

type PlayerConfig struct {
	JumpImpulse   float64 `yaml:"jump_impulse"`
	JumpTolerance float64 `yaml:"jump_tolerance"`
	MoveSpeed     float64 `yaml:"move_speed"`
}

type SpawnConfig struct {
	InitialInterval int     `yaml:"initial_interval"`
	IntervalStep    int     `yaml:"interval_step"`
	MinInterval     int     `yaml:"min_interval"`
	Depth           float64 `yaml:"depth"`
	EnemySpeed      float64 `yaml:"enemy_speed"`
}

type CollisionConfig struct {
	Mode         CollisionMode `yaml:"mode"`
	Threshold    float64       `yaml:"threshold"`
	RemovalDepth float64       `yaml:"removal_depth"`
}

// ColorConfig takes CSS color names ("red") or hex values ("#ae00ff").
type ColorConfig struct {
	Player string `yaml:"player"`
	Enemy  string `yaml:"enemy"`
	Lane   string `yaml:"lane"`
}

// DefaultConfig returns the tuning of the classic game.
func DefaultConfig() Config {
	return Config{
		World: WorldConfig{
			Gravity:     -0.01,
			GroundLevel: -2,
			HalfExtent:  0.5,
			LaneWidth:   10,
			LaneLength:  50,
		},
		Player: PlayerConfig{
			JumpImpulse:   0.2,
			JumpTolerance: 0.01,
			MoveSpeed:     0.1,
		},
		Spawn: SpawnConfig{
			InitialInterval: 200,
			IntervalStep:    20,
			MinInterval:     20,
			Depth:           -15,
			EnemySpeed:      0.05,
		},
		Collision: CollisionConfig{
			Mode:         CollisionCenter,
			Threshold:    1,
			RemovalDepth: 10,
		},
		Colors: ColorConfig{
			Player: "#ae00ff",
			Enemy:  "red",
			Lane:   "#17ffff",
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the result.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := ParseConfig(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML into cfg and validates it.
func ParseConfig(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.World.Gravity < 0, "world.gravity must be negative, got %v", c.World.Gravity)
	check(c.World.HalfExtent > 0, "world.half_extent must be positive, got %v", c.World.HalfExtent)
	check(c.World.LaneWidth > 0, "world.lane_width must be positive, got %v", c.World.LaneWidth)
	check(c.World.LaneLength > 0, "world.lane_length must be positive, got %v", c.World.LaneLength)
	check(c.Player.JumpImpulse > 0, "player.jump_impulse must be positive, got %v", c.Player.JumpImpulse)
	check(c.Player.JumpTolerance >= 0, "player.jump_tolerance must not be negative, got %v", c.Player.JumpTolerance)
	check(c.Player.MoveSpeed >= 0, "player.move_speed must not be negative, got %v", c.Player.MoveSpeed)
	check(c.Spawn.MinInterval > 0, "spawn.min_interval must be positive, got %d", c.Spawn.MinInterval)
	check(c.Spawn.InitialInterval >= c.Spawn.MinInterval,
		"spawn.initial_interval (%d) must be at least spawn.min_interval (%d)", c.Spawn.InitialInterval, c.Spawn.MinInterval)
	check(c.Spawn.IntervalStep >= 0, "spawn.interval_step must not be negative, got %d", c.Spawn.IntervalStep)
	check(c.Spawn.EnemySpeed > 0, "spawn.enemy_speed must be positive, got %v", c.Spawn.EnemySpeed)
	check(c.Collision.Mode == CollisionCenter || c.Collision.Mode == CollisionAABB,
		"collision.mode must be %q or %q, got %q", CollisionCenter, CollisionAABB, c.Collision.Mode)
	check(c.Collision.Threshold > 0, "collision.threshold must be positive, got %v", c.Collision.Threshold)
	check(c.Collision.RemovalDepth > c.Spawn.Depth,
		"collision.removal_depth (%v) must be past spawn.depth (%v)", c.Collision.RemovalDepth, c.Spawn.Depth)

	for _, field := range []struct{ name, value string }{
		{"colors.player", c.Colors.Player},
		{"colors.enemy", c.Colors.Enemy},
		{"colors.lane", c.Colors.Lane},
	} {
		if _, err := ParseColor(field.value); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, field.name, err))
		}
	}

	return errors.Join(errs...)
}

// ParseColor resolves a CSS color name or a #rrggbb / #rgb hex string.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("malformed hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("malformed hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
