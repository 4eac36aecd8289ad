package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/movie-recommender/internal/config"
	"github.com/khanglvm/movie-recommender/internal/storage"
)

const testCSV = `movie_title,comb
Titanic,romance drama ship cameron
Avatar,cameron sci-fi action
Alien,sci-fi horror space
The Dark Knight,action crime nolan
`

// isolate points config loading at a temp catalog with history disabled.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main_data.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	t.Setenv(config.ConfigPathEnvVar, "")
	os.Unsetenv(config.ConfigPathEnvVar)
	t.Setenv("CATALOG_PATH", path)
	t.Setenv("BUILD_DIR", filepath.Join(dir, "build"))
	t.Setenv("INDEX_PATH", "")
	t.Setenv("HISTORY_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCommandsConstruct(t *testing.T) {
	tests := []struct {
		name  string
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{"serve", NewServeCmd(), "serve", []string{"port", "host", "build-dir", "index-path", "catalog", "policy", "tokenizer", "no-history"}},
		{"recommend", NewRecommendCmd(), "recommend <title>", []string{"json", "limit", "catalog", "policy", "tokenizer"}},
		{"list", NewListCmd(), "list", []string{"json", "limit", "catalog"}},
		{"search", NewSearchCmd(), "search <query>", []string{"json", "limit", "catalog", "index-path"}},
		{"history", NewHistoryCmd(), "history", []string{"json", "limit", "since", "title", "db"}},
		{"verify", NewVerifyCmd(), "verify", []string{"catalog", "build-dir"}},
		{"bench", NewBenchmarkCmd(), "bench", []string{"json", "queries", "title", "iterations"}},
		{"version", NewVersionCmd(), "version", []string{"json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cmd == nil {
				t.Fatal("constructor returned nil")
			}
			if tt.cmd.Use != tt.use {
				t.Errorf("Use = %q, want %q", tt.cmd.Use, tt.use)
			}
			if tt.cmd.Short == "" {
				t.Error("missing short description")
			}
			for _, f := range tt.flags {
				if tt.cmd.Flags().Lookup(f) == nil {
					t.Errorf("flag %q not registered", f)
				}
			}
		})
	}
}

func TestServeCommandHelp(t *testing.T) {
	out, err := execute(t, NewServeCmd(), "--help")
	if err != nil {
		t.Fatalf("Execute() with --help failed: %v", err)
	}

	for _, expected := range []string{"serve", "HTTP server", "/api/similarity/{name}", "5000"} {
		if !strings.Contains(out, expected) {
			t.Errorf("Help output missing %q", expected)
		}
	}
}

func TestListCommandAliases(t *testing.T) {
	if aliases := NewListCmd().Aliases; len(aliases) == 0 || aliases[0] != "ls" {
		t.Errorf("Expected alias 'ls', got %v", aliases)
	}
	if aliases := NewBenchmarkCmd().Aliases; len(aliases) == 0 || aliases[0] != "benchmark" {
		t.Errorf("Expected alias 'benchmark', got %v", aliases)
	}
}

func TestRecommendCmd(t *testing.T) {
	isolate(t)

	out, err := execute(t, NewRecommendCmd(), "TITANIC")
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}

	for _, want := range []string{"1. Avatar", "2. Alien", "3. The dark knight"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, ". Titanic") {
		t.Errorf("query title listed in its own recommendations:\n%s", out)
	}
}

func TestRecommendCmdMultiWordJSON(t *testing.T) {
	isolate(t)

	out, err := execute(t, NewRecommendCmd(), "the", "dark", "knight", "--json", "--limit", "2")
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}

	var got recommendOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if got.Query != "the dark knight" || got.Outcome != "ok" {
		t.Errorf("unexpected output: %+v", got)
	}
	if strings.Join(got.Movies, ",") != "Avatar,Titanic" {
		t.Errorf("Movies = %v, want [Avatar Titanic]", got.Movies)
	}
}

func TestRecommendCmdUnknownTitle(t *testing.T) {
	isolate(t)

	out, err := execute(t, NewRecommendCmd(), "jaws")
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if !strings.Contains(out, `No movie titled "jaws"`) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRecommendCmdRejectsBadPolicy(t *testing.T) {
	isolate(t)

	if _, err := execute(t, NewRecommendCmd(), "avatar", "--policy", "sometimes"); err == nil {
		t.Error("expected validation error for unknown policy")
	}
}

func TestListCmd(t *testing.T) {
	isolate(t)

	out, err := execute(t, NewListCmd())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "(4 of 4)") || !strings.Contains(out, "The dark knight") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = execute(t, NewListCmd(), "--json", "--limit", "2")
	if err != nil {
		t.Fatalf("list --json failed: %v", err)
	}
	var got map[string][]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if strings.Join(got["arr"], ",") != "Titanic,Avatar" {
		t.Errorf("arr = %v", got["arr"])
	}
}

func TestListCmdEmptyCatalog(t *testing.T) {
	isolate(t)
	t.Setenv("CATALOG_PATH", filepath.Join(t.TempDir(), "missing.csv"))

	out, err := execute(t, NewListCmd(), "--json")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.TrimSpace(out) != `{
  "arr": []
}` {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSearchCmd(t *testing.T) {
	isolate(t)

	out, err := execute(t, NewSearchCmd(), "titanc")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(out, "Titanic") {
		t.Errorf("expected fuzzy match for Titanic:\n%s", out)
	}
}

func TestSearchCmdPersistentIndex(t *testing.T) {
	isolate(t)
	indexPath := filepath.Join(t.TempDir(), "index", "titles.bleve")

	for i := 0; i < 2; i++ {
		out, err := execute(t, NewSearchCmd(), "--index-path", indexPath, "dark kni")
		if err != nil {
			t.Fatalf("search run %d failed: %v", i, err)
		}
		if !strings.Contains(out, "The dark knight") {
			t.Errorf("run %d: expected The dark knight:\n%s", i, out)
		}
	}

	if _, err := os.Stat(indexPath); err != nil {
		t.Errorf("expected index on disk at %s: %v", indexPath, err)
	}
}

func TestHistoryCmd(t *testing.T) {
	isolate(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store := storage.NewStorage(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	now := time.Now()
	err := store.RecordRecommendations([]storage.RecommendationRecord{
		{RequestID: "a", Query: "avatar", Outcome: "ok", ResultsCount: 3, Timestamp: now},
		{RequestID: "b", Query: "avatar", Outcome: "ok", ResultsCount: 3, Timestamp: now},
		{RequestID: "c", Query: "jaws", Outcome: "not_found", Timestamp: now},
	})
	if err != nil {
		t.Fatalf("RecordRecommendations failed: %v", err)
	}
	store.Close()

	out, err := execute(t, NewHistoryCmd(), "--db", dbPath)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, " 1. Avatar") || !strings.Contains(out, " 2. Jaws") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = execute(t, NewHistoryCmd(), "--db", dbPath, "--title", "JAWS", "--json")
	if err != nil {
		t.Fatalf("history --title failed: %v", err)
	}
	var records []storage.RecommendationRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(records) != 1 || records[0].Outcome != "not_found" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestVerifyCmd(t *testing.T) {
	isolate(t)

	out, err := execute(t, NewVerifyCmd())
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	for _, want := range []string{"✓ Catalog", "(4 movies)", "✓ Features", "✗ Web client", "- History: disabled"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVerifyCmdMissingCatalog(t *testing.T) {
	isolate(t)

	out, err := execute(t, NewVerifyCmd(), "--catalog", filepath.Join(t.TempDir(), "none.csv"))
	if err == nil {
		t.Fatal("expected error for missing catalog")
	}
	if !strings.Contains(out, "✗ Catalog") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestBenchmarkCmdJSON(t *testing.T) {
	isolate(t)

	out, err := execute(t, NewBenchmarkCmd(), "--title", "Avatar", "-i", "2", "--json")
	if err != nil {
		t.Fatalf("bench failed: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["movies"].(float64) != 4 {
		t.Errorf("movies = %v, want 4", got["movies"])
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, NewVersionCmd())
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, want := range []string{"Version:", "Commit:", "Built:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunServeStopsOnCancel(t *testing.T) {
	isolate(t)

	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Data.CatalogPath = os.Getenv("CATALOG_PATH")
	cfg.Recommend.Policy = "cached"
	cfg.History.Enabled = false

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runServe returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not stop")
	}
}

func TestOpenTrackerRecordsAndCloses(t *testing.T) {
	cfg := config.Default()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	tracker, closeHistory := openTracker(cfg)
	if !tracker.IsEnabled() {
		t.Fatal("expected enabled tracker")
	}
	closeHistory()

	cfg.History.Enabled = false
	tracker, closeHistory = openTracker(cfg)
	if tracker.IsEnabled() {
		t.Error("expected disabled tracker")
	}
	closeHistory()
}
