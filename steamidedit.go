package main

// steam id editor for Stellar Blade saves
//
// Moves a save from one steam account to another: the account id embedded in
// the save is replaced and the save's folder renamed to match.
//
// example usage:
//
// steamidedit load
// steamidedit config "C:\Games\SB\Engine\Binaries\ThirdParty\Steamworks\Steamv159\Win64\steam_settings\configs.user.ini"
// steamidedit set 76561199999999999
// steamidedit status
// steamidedit apply
//
// or, without the session:
//
// steamidedit scan StellarBladeSave00.sav
// steamidedit list
// steamidedit check

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"steamidedit/logger"
	"steamidedit/settings"
	"steamidedit/types"
)

const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitIdentifier = 2 // id not found or malformed
	ExitBackup     = 3 // nothing was changed
	ExitRelocation = 4 // save edited, folder not renamed
	ExitPanic      = 5
)

// errRelocation is returned by apply when the save was edited but the folder
// could not follow.
var errRelocation = errors.New("save edited but folder not renamed")

func exit_code(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errRelocation):
		return ExitRelocation
	case errors.Is(err, types.ErrBackupFailed):
		return ExitBackup
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidFormat),
		errors.Is(err, types.ErrNoCurrentID),
		errors.Is(err, types.ErrNoNewID):
		return ExitIdentifier
	}
	return ExitError
}

// app is what every command gets to work with.
type app struct {
	out io.Writer
	in  io.Reader

	// interactive says whether in is a person who can answer a question
	interactive func() bool

	settings *settings.Settings
}

func new_app() *app {
	return &app{
		out: os.Stdout,
		in:  os.Stdin,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

func new_root_cmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "steamidedit",
		Short: "Move Stellar Blade saves between steam accounts",
		Long: `steamidedit replaces the steam id embedded in a Stellar Blade save and
renames the save's folder to match, so the save loads under another account.

The usual sequence is load, config (or set), apply. Those commands share a
session that is kept between runs; status shows it and reset clears it.
The save is always backed up to <save>.bak before it is changed.

Exit Codes:
  0 - Success
  1 - General error
  2 - Steam id not found or invalid
  3 - Backup failed, nothing was changed
  4 - Save edited but its folder could not be renamed
  5 - Panic`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.out)
	root.SetIn(a.in)
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().String("dir", "", "save root (the folder holding the per-account folders)")
	root.PersistentFlags().String("stash", "", "where the session is kept between runs")
	root.PersistentFlags().String("log-level", "", "trace, debug, info, warn or error")
	root.PersistentFlags().Bool("log-file", false, "also log to a file next to the stash")

	root.AddCommand(
		scan_cmd(a),
		config_cmd(a),
		load_cmd(a),
		set_cmd(a),
		status_cmd(a),
		apply_cmd(a),
		list_cmd(a),
		check_cmd(a),
		watch_cmd(a),
		reset_cmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	dir, _ := flags.GetString("dir")

	s, err := settings.Load(dir)
	if err != nil {
		return err
	}
	if stash, _ := flags.GetString("stash"); stash != "" {
		s.Stash = stash
	}
	if level, _ := flags.GetString("log-level"); level != "" {
		s.LogLevel = level
	}
	if flags.Changed("log-file") {
		s.LogFile, _ = flags.GetBool("log-file")
	}
	a.settings = s

	logger.Init(s.LogLevel)
	if s.LogFile {
		if err := logger.AddFileLogger(stash_dir(s.Stash)); err != nil {
			return errors.Wrap(err, "failed to set up log file")
		}
	}
	logger.Logger.Debug().Str("dir", s.Dir).Str("from", s.DirSource).Str("stash", s.Stash).Msg("settings loaded")
	return nil
}

// execute runs one command line. The log file is released whether or not the
// command succeeded; cobra skips post-run hooks on error.
func execute(a *app, args []string) error {
	defer logger.Close()

	root := new_root_cmd(a)
	root.SetArgs(args)
	return root.Execute()
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(ExitPanic)
		}
	}()

	a := new_app()
	if err := execute(a, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, error_style.Render("Error: "+err.Error()))
		os.Exit(exit_code(err))
	}
}
