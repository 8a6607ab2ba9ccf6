// Package savefolder knows how the game lays out its saves on disk: one
// folder per steam account, named after the account id, under a common root.
//
//	%LOCALAPPDATA%\SB\Saved\SaveGames\
//		76561190000000001\
//			StellarBladeSave00.sav
//
// Nothing in the save format enforces the folder name, the game just looks
// for it.
package savefolder

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"

	"steamidedit/logger"
	"steamidedit/readers"
	"steamidedit/types"
)

// DefaultRoot is where the game keeps its save folders. xdg.DataHome is
// %LOCALAPPDATA% on windows.
func DefaultRoot() string {
	return filepath.Join(xdg.DataHome, "SB", "Saved", "SaveGames")
}

// Account is one per-account save folder.
type Account struct {
	ID   types.Identifier `yaml:"id"`
	Dir  string           `yaml:"dir"`
	Save string           `yaml:"save,omitempty"` // empty if the folder has no .sav
}

// List returns the account folders directly under root, sorted by name.
func List(root string) ([]Account, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read save root %s", root)
	}

	accounts := []Account{}
	for _, e := range entries {
		if !e.IsDir() || !types.IsIdentifier(e.Name()) {
			continue
		}
		dir := filepath.Join(root, e.Name())
		save, err := FindSave(dir)
		if err != nil && !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		accounts = append(accounts, Account{types.Identifier(e.Name()), dir, save})
	}
	return accounts, nil
}

func is_save(name string) bool {
	return strings.EqualFold(filepath.Ext(name), types.SaveExt)
}

// FindSave returns the first .sav file in dir, by name.
func FindSave(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", dir)
	}
	names := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() && is_save(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", errors.Wrapf(types.ErrNotFound, "no %s file in %s", types.SaveExt, dir)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}

// FindDefaultSave picks the save in the first account folder under root.
func FindDefaultSave(root string) (string, error) {
	accounts, err := List(root)
	if err != nil {
		return "", err
	}
	for _, a := range accounts {
		if a.Save != "" {
			return a.Save, nil
		}
	}
	return "", errors.Wrapf(types.ErrNotFound, "no account folder with a save under %s", root)
}

// Relocate renames the folder holding path from old_id to new_id, if it is
// named old_id, and returns where path lives afterwards. It never fails
// outright: problems come back in the Relocation and path stays put.
func Relocate(path string, old_id, new_id types.Identifier) (string, types.Relocation) {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	name := filepath.Base(dir)

	if name != old_id.String() {
		return path, types.Relocation{
			Outcome: types.Skipped,
			From:    dir,
			Reason:  "no folder to rename: " + name + " is not named after " + old_id.String(),
		}
	}
	if old_id == new_id {
		return path, types.Relocation{
			Outcome: types.Skipped,
			From:    dir,
			Reason:  "folder already named after " + new_id.String(),
		}
	}

	target := filepath.Join(filepath.Dir(dir), new_id.String())
	rel := types.Relocation{From: dir, To: target}

	if _, err := os.Lstat(target); err == nil {
		rel.Outcome = types.Conflict
		rel.Err = errors.Wrapf(types.ErrAlreadyExists, "%s", target)
		rel.Reason = "folder already exists: " + new_id.String()
		return path, rel
	} else if !os.IsNotExist(err) {
		rel.Outcome = types.Failed
		rel.Err = errors.Wrapf(err, "failed to check %s", target)
		rel.Reason = rel.Err.Error()
		return path, rel
	}

	if err := os.Rename(dir, target); err != nil {
		rel.Outcome = types.Failed
		rel.Err = errors.Wrapf(err, "failed to rename folder")
		rel.Reason = rel.Err.Error()
		return path, rel
	}

	rel.Outcome = types.Renamed
	rel.Reason = "folder renamed to: " + new_id.String()
	return filepath.Join(target, filepath.Base(path)), rel
}

// Status is the audit result for one folder.
type Status struct {
	Account    `yaml:",inline"`
	Embedded   types.Identifier   `yaml:"embedded,omitempty"`
	Candidates []types.Identifier `yaml:"candidates,omitempty"`
	Consistent bool               `yaml:"consistent"`
	Err        error              `yaml:"-"`
}

// Audit checks every 17-digit folder under root against the id embedded in
// its save. Folders with ids the tool would refuse are reported too, with
// ErrInvalidFormat, since they are usually a botched manual rename.
func Audit(root string) ([]Status, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read save root %s", root)
	}

	statuses := []Status{}
	for _, e := range entries {
		if !e.IsDir() || !types.IsDigits(e.Name()) {
			continue
		}
		st := Status{Account: Account{ID: types.Identifier(e.Name()), Dir: filepath.Join(root, e.Name())}}

		if _, err := types.ParseIdentifier(e.Name()); err != nil {
			st.Err = err
			statuses = append(statuses, st)
			continue
		}

		st.Save, st.Err = FindSave(st.Dir)
		if st.Err == nil {
			st.Embedded, st.Candidates, st.Err = scan(st.Save)
			st.Consistent = st.Err == nil && st.Embedded == st.ID
		}
		if !st.Consistent {
			logger.Logger.Debug().Str("folder", st.Dir).AnErr("error", st.Err).
				Str("embedded", st.Embedded.String()).Msg("folder does not match its save")
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func scan(path string) (types.Identifier, []types.Identifier, error) {
	data, err := readers.ReadSave(path)
	if err != nil {
		return "", nil, err
	}
	id, err := readers.FindIdentifier(data)
	if err != nil {
		return "", nil, errors.Wrapf(err, "%s", path)
	}
	return id, readers.FindIdentifiers(data), nil
}
