// Package settings works out where the saves are and how the tool should
// behave. Highest priority first:
//
//   - the --dir flag
//   - STEAMIDEDIT_* environment variables (a .env file in the working directory counts)
//   - steamidedit.ini, in the working directory or the user config directory
//   - the game's default save location, if it exists
//   - the working directory
package settings

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"steamidedit/savefolder"
)

const (
	IniName   = "steamidedit.ini"
	EnvPrefix = "steamidedit"
)

// Where Dir came from.
const (
	FromFlag    = "flag"
	FromEnv     = "environment"
	FromIni     = "ini"
	FromDefault = "default save location"
	FromWorkdir = "working directory"
)

type Settings struct {
	Dir        string        `split_words:"true"`
	LogLevel   string        `split_words:"true"`
	LogFile    bool          `split_words:"true"`
	Stash      string        `split_words:"true"`
	WatchDelay time.Duration `split_words:"true"`

	DirSource string `ignored:"true"`
}

func defaults() Settings {
	return Settings{
		LogLevel:   "info",
		Stash:      filepath.Join(xdg.CacheHome, "steamidedit", "session.tmp"),
		WatchDelay: 2 * time.Second,
	}
}

// IniPaths are the places an ini file is looked for. Later ones win.
func IniPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "steamidedit", IniName),
		IniName,
	}
}

// Load resolves the settings. flag_dir is the --dir flag, empty if unset.
func Load(flag_dir string) (*Settings, error) {
	return load(flag_dir, ".env", IniPaths()...)
}

func load(flag_dir string, env_file string, ini_paths ...string) (*Settings, error) {
	s := defaults()

	if err := s.read_ini(ini_paths...); err != nil {
		return nil, err
	}

	// A missing .env is normal
	_ = godotenv.Load(env_file)

	before := s.Dir
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}
	if s.Dir != before {
		s.DirSource = FromEnv
	}

	if flag_dir != "" {
		s.Dir = flag_dir
		s.DirSource = FromFlag
	}

	if s.Dir == "" {
		if info, err := os.Stat(savefolder.DefaultRoot()); err == nil && info.IsDir() {
			s.Dir = savefolder.DefaultRoot()
			s.DirSource = FromDefault
		} else {
			wd, err := os.Getwd()
			if err != nil {
				return nil, errors.Wrap(err, "failed to get working directory")
			}
			s.Dir = wd
			s.DirSource = FromWorkdir
		}
	}

	return &s, nil
}

func (s *Settings) read_ini(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	sources := make([]interface{}, 0, len(paths)-1)
	for _, p := range paths[1:] {
		sources = append(sources, p)
	}
	cfg, err := ini.LoadSources(ini.LoadOptions{Loose: true, Insensitive: true}, paths[0], sources...)
	if err != nil {
		return errors.Wrap(err, "failed to read "+IniName)
	}

	// Classic read of values, default section can be represented as empty string
	sec := cfg.Section("")
	if dir := sec.Key("dir").String(); dir != "" {
		s.Dir = dir
		s.DirSource = FromIni
	}
	if level := sec.Key("log_level").String(); level != "" {
		s.LogLevel = level
	}
	if stash := sec.Key("stash").String(); stash != "" {
		s.Stash = stash
	}
	s.LogFile = sec.Key("log_file").MustBool(s.LogFile)
	s.WatchDelay = sec.Key("watch_delay").MustDuration(s.WatchDelay)
	return nil
}
