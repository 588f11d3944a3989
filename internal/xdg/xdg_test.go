package xdg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDirHonorsEnv(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(base, AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Error("ConfigDir() did not create a directory")
	}
}
