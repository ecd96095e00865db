package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func writeConfigFile(t *testing.T, values map[string]any) string {
	t.Helper()

	data, err := yaml.Marshal(values)
	assert.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	InitConfig()

	assert.Equal(t, "https://www.googleapis.com/books/v1", GoogleBooksBaseURL)
	assert.Equal(t, "https://openlibrary.org", OpenLibraryBaseURL)
	assert.Equal(t, 10, PageSize)
	assert.Equal(t, 300*time.Millisecond, DebounceWindow)
	assert.Equal(t, "", GoogleBooksAPIKey)
}

func TestInitConfigFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := writeConfigFile(t, map[string]any{
		"googlebooks": map[string]any{
			"apikey":  "secret",
			"baseurl": "http://localhost:9999/books",
		},
		"search": map[string]any{
			"pagesize": 25,
			"debounce": "150ms",
		},
		"shelf": map[string]any{
			"userid": "1112223334445556677",
		},
	})

	viper.SetConfigFile(path)
	assert.NoError(t, viper.ReadInConfig())

	InitConfig()

	assert.Equal(t, "secret", GoogleBooksAPIKey)
	assert.Equal(t, "http://localhost:9999/books", GoogleBooksBaseURL)
	assert.Equal(t, 25, PageSize)
	assert.Equal(t, 150*time.Millisecond, DebounceWindow)
	assert.Equal(t, "1112223334445556677", ShelfUserID)
}

func TestInitConfigRejectsNonPositiveValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("search.pagesize", -1)
	viper.Set("search.debounce", "0s")

	InitConfig()

	assert.Equal(t, 10, PageSize)
	assert.Equal(t, 300*time.Millisecond, DebounceWindow)
}
