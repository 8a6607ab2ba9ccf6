package editor

import (
	"bufio"
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"steamidedit/logger"
	"steamidedit/readers"
	"steamidedit/types"
)

// Load reads the save at path and records it, and the id found in it, in the
// session. When no id is found the session still remembers the file, the id
// is cleared, and ErrNotFound is returned with it.
func Load(s types.Session, path string) (types.Session, []types.Identifier, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	data, err := readers.ReadSave(path)
	if err != nil {
		return s, nil, err
	}

	s.FilePath = path
	s.CurrentID = ""

	id, err := readers.FindIdentifier(data)
	if err != nil {
		logger.Logger.Warn().Str("file", path).Msg("no steam id in save")
		return s, nil, errors.Wrapf(err, "%s", filepath.Base(path))
	}
	s.CurrentID = id

	candidates := readers.FindIdentifiers(data)
	if len(candidates) > 1 {
		logger.Logger.Warn().Str("file", path).Int("candidates", len(candidates)).
			Str("using", id.String()).Msg("save holds more than one steam id")
	}
	logger.Logger.Info().Str("file", path).Str("id", id.String()).Msg("save loaded")
	return s, candidates, nil
}

// UseConfig takes the new id from an emulator config file.
func UseConfig(s types.Session, path string) (types.Session, error) {
	id, err := readers.ReadConfigFile(path)
	if err != nil {
		return s, err
	}
	s.NewID = id
	s.ConfigPath = path
	logger.Logger.Info().Str("config", path).Str("id", id.String()).Msg("config loaded")
	return s, nil
}

// SetNewID takes the new id from user input. Anything that isn't a digit is
// ignored.
func SetNewID(s types.Session, input string) (types.Session, error) {
	id, err := types.ParseInput(input)
	if err != nil {
		return s, err
	}
	s.NewID = id
	return s, nil
}

// Apply runs ReplaceAndRelocate for a ready session. Once the save has been
// rewritten the returned session points at its new home, carries the new id
// as the current one and has no pending new id.
func Apply(s types.Session) (types.Session, *types.Report, error) {
	if err := s.Ready(); err != nil {
		return s, nil, err
	}

	report, err := ReplaceAndRelocate(s.FilePath, s.CurrentID, s.NewID)
	if err != nil {
		return s, report, err
	}

	if report.Replaced > 0 {
		s.FilePath = report.FilePath
		s.CurrentID = s.NewID
		s.NewID = ""
	}
	return s, report, nil
}

// Stash saves the session for the next run of the tool.
func Stash(path string, s types.Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create stash directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create stash")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := gob.NewEncoder(w).Encode(s); err != nil {
		return errors.Wrap(err, "failed to encode session")
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "failed to write stash")
	}
	return nil
}

// Retrieve loads the stashed session. No stash is an empty session, not an error.
func Retrieve(path string) (types.Session, error) {
	s := types.Session{}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, errors.Wrap(err, "failed to open stash")
	}
	defer f.Close()

	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&s); err != nil {
		return types.Session{}, errors.Wrapf(err, "stash %s is corrupt, run reset", path)
	}
	return s, nil
}

// Forget removes the stash.
func Forget(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove stash")
	}
	return nil
}
