package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

// tempConfigPath returns a path to a config file inside a temp directory.
func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

// --- Defaults ---

func TestDefaults(t *testing.T) {
	d := Defaults()

	if d.Method == nil || *d.Method != -1 {
		t.Errorf("Defaults().Method = %v, want -1", d.Method)
	}
	if d.School == nil || *d.School != -1 {
		t.Errorf("Defaults().School = %v, want -1", d.School)
	}
	if d.TimeFormat != "24h" {
		t.Errorf("Defaults().TimeFormat = %q, want %q", d.TimeFormat, "24h")
	}
	if d.TickInterval != "100ms" {
		t.Errorf("Defaults().TickInterval = %q, want %q", d.TickInterval, "100ms")
	}

	// Everything else should be zero.
	if d.City != "" || d.Country != "" || d.Events != "" || d.DataDir != "" {
		t.Errorf("Defaults() has unexpected values: %+v", d)
	}
}

// --- Dir and Path with XDG ---

func TestDir_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	want := filepath.Join("/tmp/xdg-test", "ramadan-dashboard")
	if dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestDir_FallbackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", "ramadan-dashboard")
	if dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestPath_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	p, err := Path()
	if err != nil {
		t.Fatalf("Path() error: %v", err)
	}

	want := filepath.Join("/tmp/xdg-test", "ramadan-dashboard", "config.json")
	if p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}

// --- LoadFrom ---

func TestLoadFrom_NonExistentFile(t *testing.T) {
	cfg, err := LoadFrom("/no/such/file.json")
	if err != nil {
		t.Fatalf("LoadFrom non-existent should not error, got: %v", err)
	}
	if cfg.City != "" || cfg.Country != "" || cfg.Method != nil {
		t.Error("LoadFrom non-existent should return empty config")
	}
}

func TestLoadFrom_ValidJSON(t *testing.T) {
	path := tempConfigPath(t)

	method := 20
	data := Config{
		City:       "Jakarta",
		Country:    "ID",
		Method:     &method,
		TimeFormat: "12h",
	}
	raw, _ := json.MarshalIndent(data, "", "  ")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}

	if cfg.City != "Jakarta" || cfg.Country != "ID" {
		t.Errorf("location = %q/%q, want Jakarta/ID", cfg.City, cfg.Country)
	}
	if cfg.Method == nil || *cfg.Method != 20 {
		t.Errorf("Method = %v, want 20", cfg.Method)
	}
	if cfg.TimeFormat != "12h" {
		t.Errorf("TimeFormat = %q, want %q", cfg.TimeFormat, "12h")
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte("{bad json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom with invalid JSON should error")
	}
}

func TestLoadFrom_MethodZero(t *testing.T) {
	// Method 0 (Jafari) is valid and must differ from "not set".
	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte(`{"method": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if cfg.Method == nil || *cfg.Method != 0 {
		t.Errorf("Method = %v, want 0", cfg.Method)
	}
}

// --- SaveTo ---

func TestSaveTo_CreatesDirectoryAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "config.json")

	method := 2
	cfg := &Config{City: "Jakarta", Method: &method}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if data[len(data)-1] != '\n' {
		t.Error("saved file should end with a newline")
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("saved file has invalid JSON: %v", err)
	}
	if loaded.City != "Jakarta" || loaded.Method == nil || *loaded.Method != 2 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := tempConfigPath(t)

	method := 0
	school := 1
	original := &Config{
		City:         "Jakarta",
		Country:      "ID",
		Method:       &method,
		School:       &school,
		TimeFormat:   "12h",
		Events:       "Sahur,Iftar",
		DataDir:      "/tmp/ramadan",
		TickInterval: "250ms",
	}
	if err := original.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	for _, key := range ValidKeys {
		want, _ := original.Get(key)
		got, _ := loaded.Get(key)
		if got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

// --- ResetAt ---

func TestResetAt_DeletesFile(t *testing.T) {
	path := tempConfigPath(t)
	cfg := &Config{City: "Jakarta"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	if err := ResetAt(path); err != nil {
		t.Fatalf("ResetAt error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("ResetAt should have deleted the file")
	}
}

func TestResetAt_NonExistentFile(t *testing.T) {
	if err := ResetAt("/no/such/file.json"); err != nil {
		t.Errorf("ResetAt on non-existent file should not error, got: %v", err)
	}
}

// --- Set ---

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"city", "Jakarta", false},
		{"country", "ID", false},
		{"method", "0", false},
		{"method", "23", false},
		{"method", "24", true},
		{"method", "-1", true},
		{"method", "abc", true},
		{"school", "0", false},
		{"school", "1", false},
		{"school", "2", true},
		{"school", "hanafi", true},
		{"time_format", "12h", false},
		{"time_format", "24h", false},
		{"time_format", "am/pm", true},
		{"events", "Sahur,Iftar, Maghrib", false},
		{"events", "Sahur,Brunch", true},
		{"events", "Lastthird", true},
		{"data_dir", "/var/lib/ramadan", false},
		{"tick_interval", "100ms", false},
		{"tick_interval", "1s", false},
		{"tick_interval", "1ms", true},
		{"tick_interval", "1m", true},
		{"tick_interval", "fast", true},
		{"latitude", "24.7", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.value {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.value)
			}
		})
	}
}

func TestSet_UnknownKeyListsValidKeys(t *testing.T) {
	cfg := &Config{}
	err := cfg.Set("prayers", "Fajr")
	if err == nil {
		t.Fatal("Set with unknown key should error")
	}
	if !strings.Contains(err.Error(), "tick_interval") {
		t.Errorf("error should list valid keys, got: %v", err)
	}
}

func TestSet_FailureKeepsOldValue(t *testing.T) {
	cfg := &Config{TimeFormat: "12h"}
	_ = cfg.Set("time_format", "bogus")
	if cfg.TimeFormat != "12h" {
		t.Errorf("TimeFormat = %q after failed Set, want 12h", cfg.TimeFormat)
	}
}

// --- Get ---

func TestGet_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	for _, key := range ValidKeys {
		got, err := cfg.Get(key)
		if err != nil {
			t.Errorf("Get(%q) error: %v", key, err)
		}
		if got != "" {
			t.Errorf("Get(%q) = %q on empty config, want empty", key, got)
		}
	}
}

func TestGet_UnknownKey(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.Get("latitude"); err == nil {
		t.Error("Get with unknown key should error")
	}
}

// --- Helpers ---

func TestMethodOrDefault(t *testing.T) {
	zero := 0
	if got := (&Config{Method: &zero}).MethodOrDefault(-1); got != 0 {
		t.Errorf("MethodOrDefault with 0 = %d, want 0", got)
	}
	if got := (&Config{}).MethodOrDefault(-1); got != -1 {
		t.Errorf("MethodOrDefault nil = %d, want -1", got)
	}
}

func TestSchoolOrDefault(t *testing.T) {
	one := 1
	if got := (&Config{School: &one}).SchoolOrDefault(-1); got != 1 {
		t.Errorf("SchoolOrDefault with 1 = %d, want 1", got)
	}
	if got := (&Config{}).SchoolOrDefault(-1); got != -1 {
		t.Errorf("SchoolOrDefault nil = %d, want -1", got)
	}
}

func TestTickIntervalOrDefault(t *testing.T) {
	def := 100 * time.Millisecond
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", def},
		{"250ms", 250 * time.Millisecond},
		{"garbage", def},
		{"1h", def},
	}
	for _, tt := range tests {
		cfg := &Config{TickInterval: tt.value}
		if got := cfg.TickIntervalOrDefault(def); got != tt.want {
			t.Errorf("TickIntervalOrDefault(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestGoTimeLayout(t *testing.T) {
	if got := (&Config{TimeFormat: "12h"}).GoTimeLayout(); got != "3:04 PM" {
		t.Errorf("12h layout = %q", got)
	}
	if got := (&Config{}).GoTimeLayout(); got != "15:04" {
		t.Errorf("default layout = %q", got)
	}
}

func TestParseEvents(t *testing.T) {
	got, err := ParseEvents(" Sahur , Iftar ")
	if err != nil {
		t.Fatalf("ParseEvents error: %v", err)
	}
	if len(got) != 2 || got[0] != prayer.Sahur || got[1] != prayer.Iftar {
		t.Errorf("ParseEvents = %v", got)
	}
	if got, _ := ParseEvents(""); got != nil {
		t.Errorf("ParseEvents(\"\") = %v, want nil", got)
	}
}

func TestEventList_InvalidIsNil(t *testing.T) {
	cfg := &Config{Events: "Brunch"}
	if got := cfg.EventList(); got != nil {
		t.Errorf("EventList = %v, want nil", got)
	}
}

func TestConfig_OmitEmpty_JSON(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("empty Config JSON = %s, want {}", data)
	}
}

func TestSetSaveLoadGet_Integration(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{}
	for key, value := range map[string]string{
		"city":          "Jakarta",
		"country":       "ID",
		"method":        "20",
		"tick_interval": "200ms",
	} {
		if err := cfg.Set(key, value); err != nil {
			t.Fatalf("Set(%q): %v", key, err)
		}
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := loaded.Get("method"); v != "20" {
		t.Errorf("method = %q, want 20", v)
	}
	if got := loaded.TickIntervalOrDefault(time.Second); got != 200*time.Millisecond {
		t.Errorf("tick interval = %v, want 200ms", got)
	}
}
