package main

import (
	"path/filepath"
	"testing"

	"github.com/nathoo/timeward/config"
	"github.com/nathoo/timeward/engine/save"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     options
		wantExit int
	}{
		{"none", nil, options{}, -1},
		{"world dir", []string{"worlds/demo"}, options{worldDir: "worlds/demo"}, -1},
		{"flags", []string{"--plain", "--trace", "w"}, options{plain: true, trace: true, worldDir: "w"}, -1},
		{"script", []string{"--script", "walk.txt"}, options{scriptFile: "walk.txt"}, -1},
		{"script without file", []string{"--script"}, options{}, 1},
		{"two dirs", []string{"a", "b"}, options{worldDir: "a"}, 1},
		{"version", []string{"--version"}, options{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, exit := parseArgs(tt.args)
			if exit != tt.wantExit {
				t.Errorf("exit = %d, want %d", exit, tt.wantExit)
			}
			if got != tt.want {
				t.Errorf("options = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	s, closer, err := openStore(config.Config{SaveBackend: config.BackendFile, SavePath: filepath.Join(dir, "save.json")})
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	if _, ok := s.(*save.FileStore); !ok || closer != nil {
		t.Errorf("expected a file store without closer, got %T %v", s, closer)
	}

	s, closer, err = openStore(config.Config{
		SaveBackend: config.BackendSQLite,
		SavePath:    filepath.Join(dir, "saves.db"),
		SaveSlot:    "quicksave",
	})
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	defer closer.Close()
	if _, ok := s.(*save.SQLiteStore); !ok {
		t.Errorf("expected a sqlite store, got %T", s)
	}
}
