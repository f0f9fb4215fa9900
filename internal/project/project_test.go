package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func TestNewScaffoldsProject(t *testing.T) {
	dir := t.TempDir()

	proj, err := New(dir, "hello")
	be.Err(t, err, nil)

	be.Equal(t, proj.Dir, filepath.Join(dir, "hello"))
	be.Equal(t, proj.Config.Name, "hello")
	be.Equal(t, proj.Config.Stdlib, DefaultStdlib())

	src, err := os.ReadFile(proj.MainFile())
	be.Err(t, err, nil)
	be.Equal(t, string(src), mainTemplate)

	_, err = New(dir, "hello")
	be.Err(t, err, "already exists")
}

func TestNewRequiresName(t *testing.T) {
	_, err := New(t.TempDir(), "")
	be.Err(t, err, "project name is required")
}

func TestFindReadsConfig(t *testing.T) {
	dir := t.TempDir()
	config := `name: app
stdlib: /opt/walter/libstd.a
target:
  triple: x86_64-unknown-linux-gnu
  cpu: x86-64
  features: "+avx2"
  reloc: static
  code_model: small
`
	be.Err(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(config), 0o644), nil)

	proj, err := Find(dir)
	be.Err(t, err, nil)
	be.Equal(t, proj.Config.Name, "app")
	be.Equal(t, proj.Config.Stdlib, "/opt/walter/libstd.a")
	be.Equal(t, proj.Config.Target, TargetConfig{
		Triple:    "x86_64-unknown-linux-gnu",
		CPU:       "x86-64",
		Features:  "+avx2",
		Reloc:     "static",
		CodeModel: "small",
	})

	tc := proj.TargetConfig(true)
	be.Equal(t, tc.Triple, "x86_64-unknown-linux-gnu")
	be.Equal(t, tc.Reloc, "static")
	be.True(t, tc.Release)

	be.Equal(t, proj.ObjectPath(false), filepath.Join(dir, "build", "debug", "app.redd.it.o"))
	be.Equal(t, proj.ExecutablePath(true), filepath.Join(dir, "build", "release", "app"))
}

func TestFindErrors(t *testing.T) {
	_, err := Find(t.TempDir())
	be.True(t, errors.Is(err, ErrNoConfig))
	be.Err(t, err, "no walter.yml found")

	dir := t.TempDir()
	be.Err(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("stdlib: x\n"), 0o644), nil)
	_, err = Find(dir)
	be.Err(t, err, "name is required")

	dir = t.TempDir()
	be.Err(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("name: [unclosed\n"), 0o644), nil)
	_, err = Find(dir)
	be.True(t, err != nil)
}
