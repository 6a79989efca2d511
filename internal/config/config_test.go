package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loadboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "schedule.json", cfg.FileName)
	assert.Equal(t, "Unnamed period", cfg.UnknownPeriodName)
	assert.Equal(t, domain.DefaultSizing(), cfg.ValueToWidth)
	assert.Equal(t, 20*time.Millisecond, cfg.ResizeDebounce)
}

func TestLoad_NoFileNoEnv(t *testing.T) {
	t.Setenv("LOADBOARD_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, db.DriverSQLite, cfg.DBDriver)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
file_name: plan.json
resize_debounce: 50ms
log_level: debug
value_to_width:
  base: 4
  factor: 3
  exponent: 0.5
  min_value: 5
  snap_delta: 5
new_task_value:
  lecturer: 120
role_types: [lecturer, course]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "plan.json", cfg.FileName)
	assert.Equal(t, 50*time.Millisecond, cfg.ResizeDebounce)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, domain.Sizing{Base: 4, Factor: 3, Exponent: 0.5, MinValue: 5, SnapDelta: 5}, cfg.ValueToWidth)
	assert.Equal(t, []string{"lecturer", "course"}, cfg.RoleTypes)
	assert.Equal(t, 120.0, cfg.NewTaskValue["lecturer"])
	assert.Equal(t, 80.0, cfg.NewTaskValue["course"], "defaults not named in the file survive")
	assert.Equal(t, "Unnamed period", cfg.UnknownPeriodName)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := writeConfig(t, "db_path: /from/file.db\n")
	t.Setenv("LOADBOARD_DB", "/from/env.db")
	t.Setenv("LOADBOARD_LOG_USE_CASES", "true")
	t.Setenv("LOADBOARD_RESIZE_DEBOUNCE_MS", "35")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.DBPath)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, 35*time.Millisecond, cfg.ResizeDebounce)
}

func TestLoad_InvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("LOADBOARD_CONFIG", "")
	t.Setenv("LOADBOARD_LOG_LEVEL", "loud")
	t.Setenv("LOADBOARD_LOG_USE_CASES", "maybe")
	t.Setenv("LOADBOARD_RESIZE_DEBOUNCE_MS", "-3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.LogUseCases)
	assert.Equal(t, 20*time.Millisecond, cfg.ResizeDebounce)
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(missing)
	require.Error(t, err, "an explicit path must exist")

	t.Setenv("LOADBOARD_CONFIG", missing)
	_, err = Load("")
	require.NoError(t, err, "a configured but absent file falls back to defaults")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "value_to_width: [1, 2\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ValueToWidth.Factor = 0
	cfg.ValueToWidth.SnapDelta = -1
	cfg.RoleTypes = []string{"senior"}
	cfg.DBDriver = "mysql"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "factor must be positive")
	assert.Contains(t, err.Error(), "snap_delta must be positive")
	assert.Contains(t, err.Error(), "role_types needs at least 2")
	assert.Contains(t, err.Error(), `db_driver: invalid value "mysql"`)
}

func TestValidate_PostgresNeedsDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DBDriver = db.DriverPostgres
	require.Error(t, cfg.Validate())

	cfg.DBDSN = "postgres://localhost/loadboard"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "postgres://localhost/loadboard", cfg.DBTarget())
}

func TestDefaults_GroupBeforeType(t *testing.T) {
	cfg := DefaultConfig()
	postdoc := "postdoc"
	unknown := "visiting"

	assert.Equal(t, 340.0, cfg.DefaultRoleTarget("senior", &postdoc))
	assert.Equal(t, 500.0, cfg.DefaultRoleTarget("course", nil))
	assert.Equal(t, 80.0, cfg.DefaultTaskValue("course", &unknown), "unknown group falls back to type")
	assert.Equal(t, 20.0, cfg.DefaultTaskValue("senior", nil))
}

func TestDefaults_CoverEveryRoleType(t *testing.T) {
	cfg := DefaultConfig()
	for _, typ := range cfg.RoleTypes {
		assert.Positive(t, cfg.DefaultRoleTarget(typ, nil), "role target for %s", typ)
		assert.Positive(t, cfg.DefaultTaskValue(typ, nil), "task value for %s", typ)
	}
	assert.Equal(t, 100.0, cfg.DefaultRoleTarget("junior", nil))
}

func TestCalculationHint(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "→ 850 h", cfg.CalculationHint("senior", 50))
	assert.Equal(t, "→ 400 h", cfg.CalculationHint("course", 40))
	assert.Equal(t, "", cfg.CalculationHint("course", 0))
	assert.Equal(t, "", cfg.CalculationHint("room", 10))
}
