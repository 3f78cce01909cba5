package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SWF_MODE", "")
	t.Setenv("BATCH_SIZE", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()
	assert.Equal(t, "heuristic", cfg.Mode)
	assert.Equal(t, "swf-translator-all-strings.json", cfg.CorpusPath)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, "ja", cfg.SourceLanguage)
	assert.Equal(t, "en", cfg.TargetLanguage)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SWF_MODE", "strict")
	t.Setenv("WORKER_COUNT", "3")
	t.Setenv("BATCH_SIZE", "not-a-number")
	t.Setenv("AZURE_SUBSCRIPTION_REGION", "westeurope")

	cfg := Load()
	assert.Equal(t, "strict", cfg.Mode)
	assert.Equal(t, 3, cfg.WorkerCount)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, "westeurope", cfg.AzureSubscriptionRegion)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
