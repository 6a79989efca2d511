// Package config loads board settings from defaults, an optional YAML
// file and LOADBOARD_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/domain"
	"gopkg.in/yaml.v3"
)

// Dir is the per-user directory holding the default database.
const Dir = ".loadboard"

// CalcRule derives an hour hint from a role's target:
// hours = round(Base + PerUnit*target).
type CalcRule struct {
	Base    float64 `yaml:"base"`
	PerUnit float64 `yaml:"per_unit"`
}

// Hours applies the rule to a target value.
func (c CalcRule) Hours(target float64) int {
	return int(math.Floor(c.Base + c.PerUnit*target + 0.5))
}

// S3Config configures the S3 export destination.
type S3Config struct {
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// Config holds all board settings.
type Config struct {
	FileName          string              `yaml:"file_name"`
	UnknownPeriodName string              `yaml:"unknown_period_name"`
	NewRoleValue      map[string]float64  `yaml:"new_role_value"`
	NewTaskValue      map[string]float64  `yaml:"new_task_value"`
	ValueToWidth      domain.Sizing       `yaml:"value_to_width"`
	ResizeDebounce    time.Duration       `yaml:"resize_debounce"`
	RoleTypes         []string            `yaml:"role_types"`
	Calculation       map[string]CalcRule `yaml:"calculation"`

	DBDriver    string     `yaml:"db_driver"`
	DBPath      string     `yaml:"db_path"`
	DBDSN       string     `yaml:"db_dsn"`
	LogLevel    slog.Level `yaml:"log_level"`
	LogUseCases bool       `yaml:"log_use_cases"`
	MetricsFile string     `yaml:"metrics_file"`
	S3          S3Config   `yaml:"s3"`
}

// DefaultConfig returns the stock settings for a department board with
// senior staff, junior staff and courses.
func DefaultConfig() Config {
	return Config{
		FileName:          "schedule.json",
		UnknownPeriodName: "Unnamed period",
		NewRoleValue: map[string]float64{
			"senior":     100,
			"junior":     100,
			"faculty":    850,
			"postdoc":    340,
			"phdstudent": 340,
			"amanuens":   80,
			"course":     500,
		},
		NewTaskValue: map[string]float64{
			"senior":     20,
			"junior":     20,
			"faculty":    340,
			"postdoc":    100,
			"phdstudent": 100,
			"amanuens":   80,
			"course":     80,
		},
		ValueToWidth:   domain.DefaultSizing(),
		ResizeDebounce: 20 * time.Millisecond,
		RoleTypes:      []string{"senior", "junior", "course"},
		Calculation: map[string]CalcRule{
			"senior": {PerUnit: 17},
			"junior": {PerUnit: 17},
			"course": {Base: 160, PerUnit: 6},
		},
		DBDriver: db.DriverSQLite,
		DBPath:   defaultDBPath(),
		LogLevel: slog.LevelInfo,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(Dir, "loadboard.db")
	}
	return filepath.Join(home, Dir, "loadboard.db")
}

// Load builds the effective configuration. path names an optional YAML
// file; when empty, LOADBOARD_CONFIG is consulted. A missing file given
// only through the environment is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("LOADBOARD_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOADBOARD_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("LOADBOARD_DB_DRIVER"); v != "" {
		c.DBDriver = v
	}
	if v := os.Getenv("LOADBOARD_DB_DSN"); v != "" {
		c.DBDSN = v
	}
	if v := os.Getenv("LOADBOARD_LOG_LEVEL"); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err == nil {
			c.LogLevel = level
		}
	}
	if v := os.Getenv("LOADBOARD_LOG_USE_CASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.LogUseCases = b
		}
	}
	if v := os.Getenv("LOADBOARD_METRICS_FILE"); v != "" {
		c.MetricsFile = v
	}
	if v := os.Getenv("LOADBOARD_RESIZE_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.ResizeDebounce = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("LOADBOARD_BLOB_S3_REGION"); v != "" {
		c.S3.Region = v
	}
	if v := os.Getenv("LOADBOARD_BLOB_S3_ENDPOINT"); v != "" {
		c.S3.Endpoint = v
	}
	if v := os.Getenv("LOADBOARD_BLOB_S3_PATH_STYLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.S3.UsePathStyle = b
		}
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	s := c.ValueToWidth
	if !(s.Factor > 0) {
		errs = append(errs, fmt.Errorf("value_to_width.factor must be positive"))
	}
	if !(s.Exponent > 0) {
		errs = append(errs, fmt.Errorf("value_to_width.exponent must be positive"))
	}
	if !(s.SnapDelta > 0) {
		errs = append(errs, fmt.Errorf("value_to_width.snap_delta must be positive"))
	}
	if s.MinValue < 0 {
		errs = append(errs, fmt.Errorf("value_to_width.min_value must not be negative"))
	}
	if c.ResizeDebounce < 0 {
		errs = append(errs, fmt.Errorf("resize_debounce must not be negative"))
	}
	if len(c.RoleTypes) < domain.MinTaskRoles {
		errs = append(errs, fmt.Errorf("role_types needs at least %d entries", domain.MinTaskRoles))
	}
	seen := make(map[string]bool, len(c.RoleTypes))
	for _, typ := range c.RoleTypes {
		if strings.TrimSpace(typ) == "" {
			errs = append(errs, fmt.Errorf("role_types: empty entry"))
		} else if seen[typ] {
			errs = append(errs, fmt.Errorf("role_types: duplicate %q", typ))
		}
		seen[typ] = true
	}
	switch c.DBDriver {
	case db.DriverSQLite:
	case db.DriverPostgres:
		if c.DBDSN == "" {
			errs = append(errs, fmt.Errorf("db_dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("db_driver: invalid value %q", c.DBDriver))
	}
	return errors.Join(errs...)
}

// DBTarget returns the path or DSN for the configured driver.
func (c Config) DBTarget() string {
	if c.DBDriver == db.DriverPostgres {
		return c.DBDSN
	}
	return c.DBPath
}

// DefaultRoleTarget is the initial capacity of a new role, looked up by
// group first and then by type. Unknown keys give zero.
func (c Config) DefaultRoleTarget(roleType string, group *string) float64 {
	return lookupDefault(c.NewRoleValue, roleType, group)
}

// DefaultTaskValue is the initial value of a new task, keyed by the group
// and type of the role on the other side of the task.
func (c Config) DefaultTaskValue(otherType string, otherGroup *string) float64 {
	return lookupDefault(c.NewTaskValue, otherType, otherGroup)
}

func lookupDefault(values map[string]float64, roleType string, group *string) float64 {
	if group != nil {
		if v, ok := values[*group]; ok {
			return v
		}
	}
	return values[roleType]
}

// CalculationHint renders the derived hours for a role target, or "" when
// the type has no rule or the target is zero.
func (c Config) CalculationHint(roleType string, target float64) string {
	rule, ok := c.Calculation[roleType]
	if !ok || target == 0 {
		return ""
	}
	return fmt.Sprintf("→ %d h", rule.Hours(target))
}
