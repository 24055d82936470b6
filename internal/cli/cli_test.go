package cli

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/sdejongh/stall/pkg/config"
	"github.com/sdejongh/stall/pkg/models"
	"github.com/sdejongh/stall/pkg/stall"
	"github.com/spf13/afero"
)

// TestHelper provides a stall directory and a fake home for end-to-end runs
type TestHelper struct {
	t          *testing.T
	root       string
	stallDir   string
	homeDir    string
	configPath string
}

func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	root := t.TempDir()
	h := &TestHelper{
		t:          t,
		root:       root,
		stallDir:   filepath.Join(root, "stall"),
		homeDir:    filepath.Join(root, "home"),
		configPath: filepath.Join(root, "config.yaml"),
	}
	for _, dir := range []string{h.stallDir, h.homeDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	if err := config.SaveToFile(config.Default(), h.configPath); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return h
}

// Run executes the command line against the helper's stall
func (h *TestHelper) Run(args ...string) (string, string, error) {
	h.t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--config", h.configPath, "--stall", h.stallDir, "--color", "never"))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// MustRun executes the command line and fails the test on error
func (h *TestHelper) MustRun(args ...string) string {
	h.t.Helper()
	stdout, stderr, err := h.Run(args...)
	if err != nil {
		h.t.Fatalf("%v failed: %v\nstdout:\n%s\nstderr:\n%s", args, err, stdout, stderr)
	}
	return stdout
}

// Init creates the store file
func (h *TestHelper) Init() {
	h.t.Helper()
	h.MustRun("init")
}

// WriteFile writes content and sets the modification time
func (h *TestHelper) WriteFile(path, content string, mtime time.Time) {
	h.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		h.t.Fatalf("failed to write %s: %v", path, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		h.t.Fatalf("failed to set mtime on %s: %v", path, err)
	}
}

// ReadFile returns the content of path, or "" if it does not exist
func (h *TestHelper) ReadFile(path string) string {
	h.t.Helper()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ""
	}
	if err != nil {
		h.t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// Home returns a path inside the fake home directory
func (h *TestHelper) Home(name string) string {
	return filepath.Join(h.homeDir, name)
}

// Stalled returns a path inside the stall directory
func (h *TestHelper) Stalled(name string) string {
	return filepath.Join(h.stallDir, name)
}

// Store loads the store file
func (h *TestHelper) Store() *stall.Store {
	h.t.Helper()
	store, err := stall.ReadFromPath(afero.NewOsFs(), filepath.Join(h.stallDir, stall.DefaultFileName))
	if err != nil {
		h.t.Fatalf("failed to load store: %v", err)
	}
	return store
}

// UpdateConfig rewrites the config file
func (h *TestHelper) UpdateConfig(mutate func(*config.Config)) {
	h.t.Helper()
	cfg := config.Default()
	mutate(cfg)
	if err := config.SaveToFile(cfg, h.configPath); err != nil {
		h.t.Fatalf("failed to write config: %v", err)
	}
}

var (
	older = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	newer = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
)

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want ExitError", err)
	}
	if exitErr.Code != code {
		t.Errorf("exit code = %d, want %d", exitErr.Code, code)
	}
}

func TestInit(t *testing.T) {
	h := NewTestHelper(t)

	out := h.MustRun("init")
	if !strings.Contains(out, "Created new stall file at") {
		t.Errorf("output = %q", out)
	}
	if h.Store().Len() != 0 {
		t.Error("new store should be empty")
	}

	out = h.MustRun("init")
	if !strings.Contains(out, "Stall file already exists at") {
		t.Errorf("second init output = %q", out)
	}
}

func TestInit_Directory(t *testing.T) {
	h := NewTestHelper(t)
	dir := filepath.Join(h.root, "other", "stall")

	h.MustRun("init", "--dry-run", dir)
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("dry run should not create the stall directory")
	}

	out := h.MustRun("init", dir)
	if !strings.Contains(out, filepath.Join(dir, ".stall")) {
		t.Errorf("output = %q, want stall file path", out)
	}
	if _, err := os.Stat(filepath.Join(dir, ".stall")); err != nil {
		t.Errorf("stall file not created: %v", err)
	}
}

func TestMissingStore(t *testing.T) {
	h := NewTestHelper(t)

	_, _, err := h.Run("status")
	if err == nil || !strings.Contains(err.Error(), "no stall file found") {
		t.Errorf("error = %v, want missing stall file", err)
	}
}

func TestEmptyStall(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()

	for _, command := range []string{"status", "collect", "distribute"} {
		out := h.MustRun(command)
		if !strings.Contains(out, "No files in stall") {
			t.Errorf("%s output = %q, want empty stall message", command, out)
		}
	}
}

func TestCollectAndDistribute(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()
	h.WriteFile(h.Home(".bashrc"), "remote v1", older)

	h.MustRun("add", h.Home(".bashrc"))
	entry, ok := h.Store().EntryLocal(".bashrc")
	if !ok || entry.Remote != h.Home(".bashrc") {
		t.Fatalf("entry = %+v, %v", entry, ok)
	}

	out := h.MustRun("status")
	if !strings.Contains(out, "absent exists "+h.Home(".bashrc")) {
		t.Errorf("status output = %q", out)
	}

	out = h.MustRun("collect")
	if !strings.Contains(out, "copy") || !strings.Contains(out, "Summary: 1 copied") {
		t.Errorf("collect output = %q", out)
	}
	if got := h.ReadFile(h.Stalled(".bashrc")); got != "remote v1" {
		t.Errorf("stall copy = %q, want remote v1", got)
	}

	out = h.MustRun("collect")
	if !strings.Contains(out, "same   same   skip") {
		t.Errorf("second collect should skip, output = %q", out)
	}

	h.WriteFile(h.Stalled(".bashrc"), "stall v2", newer)
	out = h.MustRun("distribute")
	if !strings.Contains(out, "newer  older  copy") {
		t.Errorf("distribute output = %q", out)
	}
	if got := h.ReadFile(h.Home(".bashrc")); got != "stall v2" {
		t.Errorf("remote = %q, want stall v2", got)
	}

	// A newer stall copy is never overwritten by collect without force
	h.WriteFile(h.Stalled(".bashrc"), "stall v3", newer.Add(time.Hour))
	h.MustRun("collect")
	if got := h.ReadFile(h.Stalled(".bashrc")); got != "stall v3" {
		t.Errorf("stall copy = %q, want stall v3", got)
	}

	out = h.MustRun("collect", "--force")
	if !strings.Contains(out, "1 copied (1 forced)") {
		t.Errorf("forced collect output = %q", out)
	}
	if got := h.ReadFile(h.Stalled(".bashrc")); got != "stall v2" {
		t.Errorf("stall copy = %q, want stall v2", got)
	}
}

func TestCollect_DryRun(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()
	h.WriteFile(h.Home("app.conf"), "conf", older)
	h.MustRun("add", h.Home("app.conf"))

	out := h.MustRun("collect", "--dry-run")
	if !strings.Contains(out, "Dry run") || !strings.Contains(out, "1 to copy") {
		t.Errorf("output = %q", out)
	}
	if got := h.ReadFile(h.Stalled("app.conf")); got != "" {
		t.Errorf("dry run copied the file: %q", got)
	}
}

func TestCollect_Selectors(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()
	h.WriteFile(h.Home("a.txt"), "a", older)
	h.WriteFile(h.Home("b.conf"), "b", older)
	h.MustRun("add", h.Home("a.txt"), h.Home("b.conf"))

	h.MustRun("collect", "*.conf")
	if h.ReadFile(h.Stalled("b.conf")) != "b" {
		t.Error("selected entry was not collected")
	}
	if h.ReadFile(h.Stalled("a.txt")) != "" {
		t.Error("unselected entry was collected")
	}

	_, stderr, err := h.Run("collect", "missing.txt", "a.txt")
	requireExitCode(t, err, 1)
	if !errors.Is(err, models.ErrUnknownEntry) {
		t.Errorf("error = %v, want ErrUnknownEntry", err)
	}
	if !strings.Contains(stderr, "missing.txt") {
		t.Errorf("stderr = %q, want the unknown path", stderr)
	}
	if h.ReadFile(h.Stalled("a.txt")) != "" {
		t.Error("no entry should be processed after an unknown selector")
	}
}

func TestCollect_UnreadableRemote(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()
	// A directory cannot be compared as a file
	if err := os.MkdirAll(h.Home("configdir"), 0755); err != nil {
		t.Fatal(err)
	}
	h.MustRun("add", h.Home("configdir"))

	out, stderr, err := h.Run("collect")
	if err != nil {
		t.Fatalf("a stop should only warn, got %v", err)
	}
	if !strings.Contains(out, "stop") || !strings.Contains(out, "Status: warning") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(stderr, "Entry is missing or unreadable") {
		t.Errorf("stderr = %q, want a warning", stderr)
	}

	_, _, err = h.Run("collect", "-e")
	requireExitCode(t, err, 1)
	if !errors.Is(err, models.ErrMissingOrUnreadableFile) {
		t.Errorf("error = %v, want ErrMissingOrUnreadableFile", err)
	}
}

func TestAdd_RenameIntoCollect(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()
	h.WriteFile(h.Home(".zshrc"), "zsh", older)

	h.MustRun("add", "--rename", "zshrc", "--into", "shell", "--collect", h.Home(".zshrc"))

	entry, ok := h.Store().EntryLocal(filepath.Join("shell", "zshrc"))
	if !ok || entry.Remote != h.Home(".zshrc") {
		t.Fatalf("entry = %+v, %v", entry, ok)
	}
	if got := h.ReadFile(h.Stalled(filepath.Join("shell", "zshrc"))); got != "zsh" {
		t.Errorf("collected copy = %q, want zsh", got)
	}
}

func TestAdd_DryRun(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()

	out := h.MustRun("add", "--dry-run", h.Home("x.conf"))
	if !strings.Contains(out, "add stall entry x.conf") {
		t.Errorf("output = %q", out)
	}
	if h.Store().Len() != 0 {
		t.Error("dry run should not add entries")
	}
}

func TestAdd_InvalidRemote(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()

	out := h.MustRun("add", "/", h.Home("ok.conf"))
	if !strings.Contains(out, "Invalid remote file name: /") {
		t.Errorf("output = %q", out)
	}
	if h.Store().Len() != 1 {
		t.Errorf("store has %d entries, want 1", h.Store().Len())
	}

	_, _, err := h.Run("add", "-e", "/")
	if !errors.Is(err, models.ErrInvalidEntryPath) {
		t.Errorf("error = %v, want ErrInvalidEntryPath", err)
	}
}

func TestAdd_Overwrite(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()

	h.MustRun("add", h.Home("a.conf"))
	_, stderr, err := h.Run("add", "--rename", "a.conf", h.Home("b.conf"))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(stderr, "Overwriting stall entry") {
		t.Errorf("stderr = %q, want overwrite log", stderr)
	}

	store := h.Store()
	if store.Len() != 1 {
		t.Fatalf("store has %d entries, want 1", store.Len())
	}
	if entry, _ := store.EntryLocal("a.conf"); entry.Remote != h.Home("b.conf") {
		t.Errorf("remote = %s, want b.conf", entry.Remote)
	}
}

func TestRemove(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()
	h.WriteFile(h.Home("a.conf"), "a", older)
	h.WriteFile(h.Home("b.conf"), "b", older)
	h.MustRun("add", "--collect", h.Home("a.conf"), h.Home("b.conf"))

	h.MustRun("remove", "--dry-run", "a.conf")
	if h.Store().Len() != 2 {
		t.Fatal("dry run should not remove entries")
	}

	h.MustRun("remove", "a.conf")
	if _, ok := h.Store().EntryLocal("a.conf"); ok {
		t.Error("a.conf should be removed")
	}
	if h.ReadFile(h.Stalled("a.conf")) != "a" {
		t.Error("remove without --delete should keep the stall copy")
	}

	h.MustRun("remove", "--remote", "--delete", h.Home("b.conf"))
	if h.Store().Len() != 0 {
		t.Error("b.conf should be removed by remote path")
	}
	if h.ReadFile(h.Stalled("b.conf")) != "" {
		t.Error("--delete should delete the stall copy")
	}
	if h.ReadFile(h.Home("b.conf")) != "b" {
		t.Error("remote files must never be deleted")
	}

	h.MustRun("remove", "missing.conf")
	_, _, err := h.Run("remove", "-e", "missing.conf")
	if !errors.Is(err, models.ErrUnknownEntry) {
		t.Errorf("error = %v, want ErrUnknownEntry", err)
	}
}

func TestRename(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()
	h.WriteFile(h.Home("a.conf"), "a", older)
	h.WriteFile(h.Home("b.conf"), "b", older)
	h.MustRun("add", "--collect", h.Home("a.conf"), h.Home("b.conf"))

	_, _, err := h.Run("rename", "a.conf", "b.conf")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error = %v, want existing entry refusal", err)
	}

	_, _, err = h.Run("rename", "missing.conf", "c.conf")
	if !errors.Is(err, models.ErrUnknownEntry) {
		t.Errorf("error = %v, want ErrUnknownEntry", err)
	}

	h.MustRun("rename", "--dry-run", "a.conf", "c.conf")
	if _, ok := h.Store().EntryLocal("a.conf"); !ok {
		t.Error("dry run should not rename")
	}

	h.MustRun("rename", "--move", "a.conf", filepath.Join("etc", "c.conf"))
	store := h.Store()
	entry, ok := store.EntryLocal(filepath.Join("etc", "c.conf"))
	if !ok || entry.Remote != h.Home("a.conf") {
		t.Errorf("entry = %+v, %v", entry, ok)
	}
	if _, ok := store.EntryLocal("a.conf"); ok {
		t.Error("old local path should be gone")
	}
	if h.ReadFile(h.Stalled(filepath.Join("etc", "c.conf"))) != "a" {
		t.Error("--move should move the stall copy")
	}

	h.MustRun("rename", "--force", "b.conf", filepath.Join("etc", "c.conf"))
	store = h.Store()
	if store.Len() != 1 {
		t.Fatalf("store has %d entries, want 1", store.Len())
	}
	if entry, _ := store.EntryLocal(filepath.Join("etc", "c.conf")); entry.Remote != h.Home("b.conf") {
		t.Errorf("remote = %s, want b.conf", entry.Remote)
	}
}

func TestJSONOutput(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()
	h.WriteFile(h.Home("a.conf"), "a", older)
	h.MustRun("add", h.Home("a.conf"))

	out := h.MustRun("collect", "--output", "json")

	var types []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var event struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("invalid event %q: %v", scanner.Text(), err)
		}
		types = append(types, event.Type)
	}

	want := []string{"start", "entry", "summary"}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", types, want)
	}
}

func TestReport(t *testing.T) {
	h := NewTestHelper(t)
	h.Init()
	h.WriteFile(h.Home("a.conf"), "a", older)
	h.MustRun("add", h.Home("a.conf"))

	path := filepath.Join(h.root, "report.json")
	h.MustRun("collect", "--quiet", "--report", path, "--report-format", "json")

	var report struct {
		Direction string `json:"direction"`
		Status    string `json:"status"`
		Stats     struct {
			FilesCopied int `json:"files_copied"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(h.ReadFile(path)), &report); err != nil {
		t.Fatalf("invalid report: %v", err)
	}
	if report.Direction != "collect" || report.Status != "success" || report.Stats.FilesCopied != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestSubprocessCopy(t *testing.T) {
	h := NewTestHelper(t)
	h.UpdateConfig(func(cfg *config.Config) {
		cfg.Stall.CopyMethod = models.CopySubprocess
	})
	if _, err := os.Stat("/bin/cp"); err != nil {
		t.Skip("cp not available")
	}
	h.Init()
	h.WriteFile(h.Home("a.conf"), "a", older)
	h.MustRun("add", "--collect", h.Home("a.conf"))

	if h.ReadFile(h.Stalled("a.conf")) != "a" {
		t.Error("subprocess copy did not copy the file")
	}
}

func TestConfigCommands(t *testing.T) {
	h := NewTestHelper(t)
	h.UpdateConfig(func(cfg *config.Config) {
		cfg.Performance.BandwidthLimit = "1MiB"
	})

	out := h.MustRun("config", "show")
	for _, want := range []string{"Copy Method: internal", "Bandwidth Limit: 1.0 MiB/s", "Output Format: human"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output missing %q:\n%s", want, out)
		}
	}

	_, _, err := h.Run("config", "init")
	if err == nil {
		t.Error("config init should refuse to overwrite")
	}
	out = h.MustRun("config", "init", "--force")
	if !strings.Contains(out, "Configuration file created at") {
		t.Errorf("output = %q", out)
	}
}

func TestVersion(t *testing.T) {
	h := NewTestHelper(t)

	out := h.MustRun("version", "--short")
	if strings.TrimSpace(out) != Version {
		t.Errorf("version = %q, want %q", out, Version)
	}
}
