// Package editor moves a save from one steam account to another.
//
// The steps always run in this order, and each one finishes before the next
// starts:
//
//  1. back up the save to <save>.bak (failure here stops everything)
//  2. swap every copy of the old id in the save for the new one
//  3. rename the save's folder from the old id to the new one
//
// Step 3 going wrong does not undo step 2. The backup is how a user gets back.
package editor

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"

	"steamidedit/logger"
	"steamidedit/readers"
	"steamidedit/savefolder"
	"steamidedit/types"
	"steamidedit/writers"
)

// read_save is swapped out by tests that need a read to fail after the backup.
var read_save = readers.ReadSave

// ReplaceAndRelocate replaces old_id with new_id in the save at path and
// moves the save's folder to match. The report is returned even alongside an
// error and shows how far things got.
func ReplaceAndRelocate(path string, old_id, new_id types.Identifier) (*types.Report, error) {
	report := &types.Report{
		OriginalPath: path,
		FilePath:     path,
		OldID:        old_id,
		NewID:        new_id,
	}

	if _, err := types.ParseIdentifier(old_id.String()); err != nil {
		return report, errors.Wrap(err, "old id")
	}
	if _, err := types.ParseIdentifier(new_id.String()); err != nil {
		return report, errors.Wrap(err, "new id")
	}

	log := logger.Logger.With().Str("file", path).Str("old_id", old_id.String()).Str("new_id", new_id.String()).Logger()

	// 1. Backup. Nothing has been touched if this fails.
	backup, err := writers.Backup(path)
	if err != nil {
		log.Error().Err(err).Msg("backup failed, save left alone")
		return report, fmt.Errorf("%w: %w", types.ErrBackupFailed, err)
	}
	report.BackupPath = backup
	report.BackedUp = true
	log.Info().Str("backup", backup).Msg("backup written")

	// 2. Substitution
	data, err := read_save(path)
	if err != nil {
		log.Error().Err(err).Msg("failed to read save after backup")
		return report, errors.Wrap(err, "failed to read save after backup")
	}
	report.Replaced = writers.ReplaceIdentifier(data, old_id, new_id)

	// Nothing to write when nothing changed
	if report.Replaced > 0 && old_id != new_id {
		if err := writers.WriteSave(path, data); err != nil {
			log.Error().Err(err).Msg("failed to write save, restore it from the backup")
			return report, fmt.Errorf("%w: %w", types.ErrWriteFailed, err)
		}
		report.Written = true
	}
	log.Info().Int("replaced", report.Replaced).Bool("written", report.Written).Msg("ids replaced")

	// 3. Relocation
	if report.Replaced == 0 {
		report.Relocation = types.Relocation{
			Outcome: types.Skipped,
			From:    filepath.Dir(path),
			Reason:  "no occurrences of " + old_id.String() + " replaced, folder left alone",
		}
		log.Warn().Msg("old id not found in save")
		return report, nil
	}

	report.FilePath, report.Relocation = savefolder.Relocate(path, old_id, new_id)
	switch report.Relocation.Outcome {
	case types.Renamed:
		// the backup went along with the folder
		report.BackupPath = writers.BackupPath(report.FilePath)
		log.Info().Str("folder", report.Relocation.To).Msg("folder renamed")
	case types.Skipped:
		log.Info().Msg(report.Relocation.Reason)
	default:
		log.Warn().Err(report.Relocation.Err).Msg("save edited but folder not renamed, rename it by hand")
	}

	return report, nil
}
