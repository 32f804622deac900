package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, filename string, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	tempFilePath := filepath.Join(dir, filename)
	require.NoError(t, os.WriteFile(tempFilePath, []byte(content), 0644))
	return tempFilePath
}

func mockConfigPaths(t *testing.T, user, project string) {
	t.Helper()
	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	})
	getUserConfigPath = func() (string, error) { return user, nil }
	getProjectConfigPath = func() (string, error) { return project, nil }
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t,
		filepath.Join(tempDir, "non-existent-user-config.yaml"),
		filepath.Join(tempDir, "non-existent-project-config.yaml"))

	loadedConfig, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), loadedConfig)
	assert.Equal(t, 200*time.Millisecond, loadedConfig.Logs.FlushInterval)
	assert.Empty(t, loadedConfig.Scope.Namespaces)
}

func TestLoadConfig_UserOverride(t *testing.T) {
	tempDir := t.TempDir()
	userDir := filepath.Join(tempDir, userConfigDir)
	userPath := createTempConfigFile(t, userDir, configFileName, `
globalSettings:
  logLevel: debug
scope:
  context: kind-dev
  namespaces: [default, kube-system]
intervals:
  pod: 3s
`)
	mockConfigPaths(t, userPath, filepath.Join(tempDir, "missing.yaml"))

	loadedConfig, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", loadedConfig.GlobalSettings.LogLevel)
	assert.Equal(t, "kind-dev", loadedConfig.Scope.Context)
	assert.Equal(t, []string{"default", "kube-system"}, loadedConfig.Scope.Namespaces)
	assert.Equal(t, 3*time.Second, loadedConfig.Intervals.Pod)
	// Untouched values keep their defaults
	assert.Equal(t, 10*time.Second, loadedConfig.GlobalSettings.RequestTimeout)
	assert.Equal(t, 2*time.Second, loadedConfig.Intervals.Event)
}

func TestLoadConfig_ProjectOverridesUser(t *testing.T) {
	tempDir := t.TempDir()
	userPath := createTempConfigFile(t, filepath.Join(tempDir, "user"), configFileName, `
scope:
  context: kind-dev
  apiResources: [deployments.apps]
`)
	projectPath := createTempConfigFile(t, filepath.Join(tempDir, "project"), configFileName, `
scope:
  context: prod
  apiResources: [configmaps, services]
`)
	mockConfigPaths(t, userPath, projectPath)

	loadedConfig, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "prod", loadedConfig.Scope.Context)
	assert.Equal(t, []string{"configmaps", "services"}, loadedConfig.Scope.APIResources)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	userPath := createTempConfigFile(t, tempDir, configFileName, "scope: [this is: not valid")
	mockConfigPaths(t, userPath, filepath.Join(tempDir, "missing.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading user config")
}

func TestLoadConfig_HomeDirUnavailable(t *testing.T) {
	tempDir := t.TempDir()
	originalHome := osUserHomeDir
	originalGetProjectConfigPath := getProjectConfigPath
	defer func() {
		osUserHomeDir = originalHome
		getProjectConfigPath = originalGetProjectConfigPath
	}()
	osUserHomeDir = func() (string, error) { return "", errors.New("no home") }
	getProjectConfigPath = func() (string, error) { return filepath.Join(tempDir, "missing.yaml"), nil }

	loadedConfig, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), loadedConfig)

	_, err = GetUserConfigDir()
	assert.Error(t, err)
}

func TestLoadConfigFromPath(t *testing.T) {
	tempDir := t.TempDir()
	path := createTempConfigFile(t, tempDir, "custom.yaml", `
logs:
  flushInterval: 50ms
  tailLines: 10
`)

	loadedConfig, err := LoadConfigFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, loadedConfig.Logs.FlushInterval)
	assert.Equal(t, int64(10), loadedConfig.Logs.TailLines)
	assert.Equal(t, 5000, loadedConfig.Logs.MaxViewLines)

	_, err = LoadConfigFromPath(filepath.Join(tempDir, "nope.yaml"))
	assert.Error(t, err)
}

func TestMergeConfigs_EmptyListClearsNamespaces(t *testing.T) {
	base := GetDefaultConfig()
	base.Scope.Namespaces = []string{"a"}

	var overlay KubepaneConfig
	require.NoError(t, yaml.Unmarshal([]byte("scope:\n  namespaces: []\n"), &overlay))

	merged := mergeConfigs(base, overlay)
	assert.Empty(t, merged.Scope.Namespaces)
}
