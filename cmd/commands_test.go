package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/shubhamjakhete/spotify-agent/internal/archive"
	"github.com/shubhamjakhete/spotify-agent/internal/store"
)

func writeExportDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		archive.StreamingHistoryFile: `[
			{"endTime":"2024-01-15 09:30","artistName":"Daft Punk","trackName":"One More Time","msPlayed":320000},
			{"endTime":"2024-02-10 21:30","artistName":"SZA","trackName":"Kill Bill","msPlayed":185000}
		]`,
		archive.SoundCapsuleFile: `{
			"stats": [
				{"date":"2024-01","streamCount":100,"secondsPlayed":9000,
				 "topArtists":[{"name":"Daft Punk","streamCount":20,"secondsPlayed":4000}],
				 "topGenres":[{"name":"French House","streamCount":5,"secondsPlayed":900}]}
			]
		}`,
		archive.LibraryFile: `{
			"tracks": [{"artist":"SZA","album":"SOS","track":"Kill Bill","uri":"spotify:track:abc"}]
		}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}
	return dir
}

func TestProcessCommand(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "dataset.json")

	rootCmd.SetArgs([]string{
		"process",
		"--data", writeExportDir(t),
		"--output", outPath,
		"--format", "json",
		"--logs", filepath.Join(tmpDir, "logs"),
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	var ds map[string]any
	if err := json.Unmarshal(raw, &ds); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"streaming_history", "sound_capsule", "library", "analysis", "duplicates", "summary"} {
		if _, ok := ds[key]; !ok {
			t.Errorf("output missing %q", key)
		}
	}
}

func TestProcessCommandYAML(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "dataset.yaml")

	rootCmd.SetArgs([]string{
		"process",
		"--data", writeExportDir(t),
		"--output", outPath,
		"--format", "yaml",
		"--logs", filepath.Join(tmpDir, "logs"),
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(raw), "streaming_history:") {
		t.Errorf("expected YAML output, got:\n%s", raw)
	}
}

func TestImportThenTopN(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "spotify.db")

	rootCmd.SetArgs([]string{
		"import",
		"--data", writeExportDir(t),
		"--database", dbPath,
		"--logs", filepath.Join(tmpDir, "logs"),
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	var out bytes.Buffer
	if err := printTopN(&out, dbPath, []string{"2024"}); err != nil {
		t.Fatalf("top-n failed: %v", err)
	}
	if !strings.Contains(out.String(), "Daft Punk") {
		t.Errorf("expected Daft Punk in output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Kill Bill") {
		t.Errorf("expected Kill Bill in output:\n%s", out.String())
	}
}

func TestImportIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "spotify.db")
	dataDir := writeExportDir(t)

	viper.Set("data", dataDir)
	viper.Set("database", dbPath)
	viper.Set("logs", filepath.Join(tmpDir, "logs"))
	defer viper.Reset()

	var out bytes.Buffer
	if err := runImport(&out); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	if err := runImport(&out); err != nil {
		t.Fatalf("second import failed: %v", err)
	}

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer s.Close()

	count, err := s.CountListens()
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 listens after double import, got %d", count)
	}
}

func TestChunkCommand(t *testing.T) {
	tmpDir := t.TempDir()

	viper.Set("data", writeExportDir(t))
	viper.Set("logs", filepath.Join(tmpDir, "logs"))
	defer viper.Reset()

	var out bytes.Buffer
	if err := runChunk(&out, "2024"); err != nil {
		t.Fatalf("chunk failed: %v", err)
	}
	if !strings.Contains(out.String(), "One More Time by Daft Punk") {
		t.Errorf("expected recent track in output:\n%s", out.String())
	}

	if err := runChunk(&out, "twenty24"); err == nil {
		t.Error("expected error for invalid year")
	}
}

func TestViewLogsSummary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spotify_agent_20240601.log")
	content := `{"time":"2024-06-01T12:00:00Z","level":"INFO","msg":"processing started"}
{"time":"2024-06-01T12:00:01Z","level":"WARN","msg":"source file missing"}
{"time":"2024-06-01T12:00:02Z","level":"INFO","msg":"processing finished"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	viper.Set("logs", dir)
	defer viper.Reset()

	viewLogsSummary = true
	defer func() { viewLogsSummary = false }()

	var out bytes.Buffer
	if err := runViewLogs(&out); err != nil {
		t.Fatalf("view-logs failed: %v", err)
	}
	if !strings.Contains(out.String(), "INFO") || !strings.Contains(out.String(), "3 entries") {
		t.Errorf("unexpected summary output:\n%s", out.String())
	}
}

func TestViewLogsTail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spotify_agent_20240601.log")
	var content strings.Builder
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		content.WriteString(`{"time":"` + base.Add(time.Duration(i)*time.Second).Format(time.RFC3339) +
			`","level":"INFO","msg":"entry ` + string(rune('a'+i)) + `"}` + "\n")
	}
	if err := os.WriteFile(path, []byte(content.String()), 0644); err != nil {
		t.Fatal(err)
	}

	viper.Set("logs", dir)
	defer viper.Reset()

	viewLogsTail = 2
	defer func() { viewLogsTail = 0 }()

	var out bytes.Buffer
	if err := runViewLogs(&out); err != nil {
		t.Fatalf("view-logs failed: %v", err)
	}
	if strings.Contains(out.String(), "entry a") {
		t.Errorf("expected oldest entries to be dropped:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "entry e") {
		t.Errorf("expected newest entry in output:\n%s", out.String())
	}
}
