package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kievzenit/rlang/internal/target"
	"gopkg.in/yaml.v3"
)

const (
	ConfigFile = "walter.yml"
	SourceDir  = "src"
	MainFile   = "main.rl"
)

type TargetConfig struct {
	Triple    string `yaml:"triple,omitempty"`
	CPU       string `yaml:"cpu,omitempty"`
	Features  string `yaml:"features,omitempty"`
	Reloc     string `yaml:"reloc,omitempty"`
	CodeModel string `yaml:"code_model,omitempty"`
}

type Config struct {
	Name   string       `yaml:"name"`
	Stdlib string       `yaml:"stdlib,omitempty"`
	Target TargetConfig `yaml:"target,omitempty"`
}

type Project struct {
	Dir    string
	Config Config
}

var ErrNoConfig = errors.New("no " + ConfigFile + " found")

// DefaultStdlib is where the prebuilt standard library archive lives.
func DefaultStdlib() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".walter", "stdlib", "libstd.a")
	}
	return filepath.Join(home, ".walter", "stdlib", "libstd.a")
}

// Find loads the project rooted at dir.
func Find(dir string) (*Project, error) {
	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoConfig)
	}
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if config.Name == "" {
		return nil, fmt.Errorf("%s: name is required", path)
	}
	if config.Stdlib == "" {
		config.Stdlib = DefaultStdlib()
	}

	return &Project{Dir: dir, Config: config}, nil
}

func (p *Project) MainFile() string {
	return filepath.Join(p.Dir, SourceDir, MainFile)
}

func (p *Project) TargetConfig(release bool) target.Config {
	return target.Config{
		Triple:    p.Config.Target.Triple,
		CPU:       p.Config.Target.CPU,
		Features:  p.Config.Target.Features,
		Reloc:     p.Config.Target.Reloc,
		CodeModel: p.Config.Target.CodeModel,
		Release:   release,
	}
}

func (p *Project) ObjectPath(release bool) string {
	return target.ObjectPath(p.Dir, p.Config.Name, release)
}

func (p *Project) ExecutablePath(release bool) string {
	return filepath.Join(target.BuildDir(p.Dir, release), p.Config.Name)
}

const mainTemplate = `coitusinterruptus("Hello, world!\n");
`

// New creates a project called name in dir/name and returns it.
func New(dir, name string) (*Project, error) {
	if name == "" {
		return nil, errors.New("project name is required")
	}

	root := filepath.Join(dir, name)
	if _, err := os.Stat(root); err == nil {
		return nil, fmt.Errorf("%s already exists", root)
	}

	if err := os.MkdirAll(filepath.Join(root, SourceDir), 0o755); err != nil {
		return nil, err
	}

	config := Config{Name: name}
	data, err := yaml.Marshal(&config)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFile), data, 0o644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(root, SourceDir, MainFile), []byte(mainTemplate), 0o644); err != nil {
		return nil, err
	}

	return Find(root)
}
