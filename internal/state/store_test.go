package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meteolink/meteolink-core/internal/weather"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store := NewStore(path)

	ts := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	saved := Snapshot{
		WeatherHistory: []weather.Record{
			{Temperature: 20, Humidity: 50, Pressure: 1010},
			{Temperature: 21, Humidity: 48, Pressure: 1012, Timestamp: &ts},
		},
		Users: []int64{100, 200},
	}

	if err := store.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(loaded.WeatherHistory) != 2 {
		t.Fatalf("loaded %d records, want 2", len(loaded.WeatherHistory))
	}
	for i, rec := range saved.WeatherHistory {
		got := loaded.WeatherHistory[i]
		if got.Temperature != rec.Temperature || got.Humidity != rec.Humidity || got.Pressure != rec.Pressure {
			t.Errorf("record %d = %+v, want %+v", i, got, rec)
		}
	}
	if loaded.WeatherHistory[1].Timestamp == nil || !loaded.WeatherHistory[1].Timestamp.Equal(ts) {
		t.Errorf("record 1 timestamp = %v, want %v", loaded.WeatherHistory[1].Timestamp, ts)
	}

	if len(loaded.Users) != 2 || loaded.Users[0] != 100 || loaded.Users[1] != 200 {
		t.Errorf("loaded users = %v, want [100 200]", loaded.Users)
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"))

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on missing file error = %v, want nil", err)
	}
	if len(snap.WeatherHistory) != 0 || len(snap.Users) != 0 {
		t.Errorf("Load() on missing file = %+v, want empty snapshot", snap)
	}
}

func TestStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStore(path).Load(); err == nil {
		t.Error("Load() on corrupt file error = nil, want error")
	}
}

func TestStore_BlobKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store := NewStore(path)

	if err := store.Save(Snapshot{Users: []int64{1}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// The on-disk keys are a compatibility contract.
	var blob map[string]json.RawMessage
	if err := json.Unmarshal(data, &blob); err != nil {
		t.Fatalf("blob is not valid JSON: %v", err)
	}
	for _, key := range []string{"WeatherHistory", "Users"} {
		if _, ok := blob[key]; !ok {
			t.Errorf("blob missing key %q", key)
		}
	}
}

func TestStore_SaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "data.json")
	store := NewStore(path)

	if err := store.Save(Snapshot{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("state file not created: %v", err)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store := NewStore(path)

	if err := store.Save(Snapshot{Users: []int64{1, 2, 3}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(Snapshot{Users: []int64{9}}); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Users) != 1 || loaded.Users[0] != 9 {
		t.Errorf("loaded users = %v, want [9]", loaded.Users)
	}
}
