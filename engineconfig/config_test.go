package engineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterFire41604/Spreadsheet-Program/namepolicy"
)

func TestLoad_FallsBackToDefaultWhenFileMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ReadsOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("workbook:\n  defaultVersion: \"v2\"\nnotify:\n  enabled: true\n  queueSize: 50\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.yaml"), content, 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "v2", cfg.Workbook.DefaultVersion)
	assert.True(t, cfg.Notify.Enabled)
	assert.Equal(t, 50, cfg.Notify.QueueSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_PartialOverrideKeepsOtherDefaults(t *testing.T) {
	dir := t.TempDir()
	content := []byte("logging:\n  level: warn\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.yaml"), content, 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "default", cfg.Workbook.DefaultVersion)
	assert.Equal(t, 20, cfg.Notify.QueueSize)
	assert.Equal(t, 5, cfg.Notify.WorkerCount)
	assert.Equal(t, "workbook.db", cfg.Persistence.Path)
	assert.Equal(t, "", cfg.NamePolicy.Pattern)
}

func TestLoad_ReadsNamePolicyPersistenceAndWorkerCountOverrides(t *testing.T) {
	dir := t.TempDir()
	content := []byte("namePolicy:\n  pattern: \"^[A-Z][A-Z0-9]*$\"\npersistence:\n  path: \"/var/lib/sheet/workbook.db\"\nnotify:\n  workerCount: 8\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.yaml"), content, 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "^[A-Z][A-Z0-9]*$", cfg.NamePolicy.Pattern)
	assert.Equal(t, "/var/lib/sheet/workbook.db", cfg.Persistence.Path)
	assert.Equal(t, 8, cfg.Notify.WorkerCount)
}

func TestApplyNamePolicy_EmptyPatternIsNoOp(t *testing.T) {
	before := namepolicy.BasePattern
	cfg := Default()
	require.NoError(t, cfg.ApplyNamePolicy())
	assert.Same(t, before, namepolicy.BasePattern)
}

func TestApplyNamePolicy_InstallsOverride(t *testing.T) {
	original := namepolicy.BasePattern
	defer func() { namepolicy.BasePattern = original }()

	cfg := Default()
	cfg.NamePolicy.Pattern = `^[A-Z]+\d+$`
	require.NoError(t, cfg.ApplyNamePolicy())

	assert.True(t, namepolicy.BasePattern.MatchString("AB12"))
	assert.False(t, namepolicy.BasePattern.MatchString("ab12"))
}
