package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"steamidedit/editor"
	"steamidedit/readers"
	"steamidedit/savefolder"
	"steamidedit/types"
)

func stash_dir(stash string) string {
	return filepath.Dir(stash)
}

func (a *app) session() (types.Session, error) {
	return editor.Retrieve(a.settings.Stash)
}

func (a *app) keep(s types.Session) error {
	return editor.Stash(a.settings.Stash, s)
}

func scan_cmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <save>",
		Short: "Show the steam id embedded in a save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readers.ReadSave(args[0])
			if err != nil {
				return err
			}
			id, err := readers.FindIdentifier(data)
			if err != nil {
				return errors.Wrapf(err, "%s", args[0])
			}
			fmt.Fprintln(a.out, id)

			if ids := readers.FindIdentifiers(data); len(ids) > 1 {
				fmt.Fprintln(a.out, warn_style.Render(fmt.Sprintf("Warning: %d different steam ids in this save, the first one is used:", len(ids))))
				for _, other := range ids {
					fmt.Fprintln(a.out, "   "+other.String())
				}
			}
			return nil
		},
	}
}

func config_cmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config <configs.user.ini>",
		Short: "Take the new steam id from an emulator config file",
		Long: `Reads account_steamid from a config file, usually
Engine\Binaries\ThirdParty\Steamworks\Steamv159\Win64\steam_settings\configs.user.ini
and uses it as the new steam id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			s, err = editor.UseConfig(s, args[0])
			if errors.Is(err, types.ErrNotFound) {
				return errors.Wrapf(err, "%s", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, ok_style.Render("SteamID loaded from config: "+s.NewID.String()))
			return a.keep(s)
		},
	}
}

func load_cmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load [save]",
		Short: "Load a save into the session",
		Long: `Loads a save and finds the steam id in it. Without an argument the save in
the first account folder under the save root is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				found, err := savefolder.FindDefaultSave(a.settings.Dir)
				if err != nil {
					return err
				}
				path = found
			}

			s, err := a.session()
			if err != nil {
				return err
			}
			s, candidates, load_err := editor.Load(s, path)
			if s.FilePath == "" || (load_err != nil && !errors.Is(load_err, types.ErrNotFound)) {
				return load_err
			}
			if err := a.keep(s); err != nil {
				return err
			}

			fmt.Fprintln(a.out, "Save file loaded: "+s.FilePath)
			if load_err != nil {
				fmt.Fprintln(a.out, error_style.Render("Current SteamID in file: [Not found in file]"))
				return load_err
			}
			fmt.Fprintln(a.out, "Current SteamID in file: "+ok_style.Render(s.CurrentID.String()))
			fmt.Fprintln(a.out, "Current save folder: "+folder_label(s))
			if len(candidates) > 1 {
				fmt.Fprintln(a.out, warn_style.Render(fmt.Sprintf("Warning: %d different steam ids in this save, using the first", len(candidates))))
			}
			return nil
		},
	}
}

func set_cmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <steamid>",
		Short: "Set the new steam id by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			s, err = editor.SetNewID(s, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "New SteamID: "+ok_style.Render(s.NewID.String()))
			return a.keep(s)
		},
	}
}

func status_cmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the session and whether it is ready to apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			if as_yaml, _ := cmd.Flags().GetBool("yaml"); as_yaml {
				return write_yaml(a.out, status_doc{s, s.IsReady(), reason(s.Ready())})
			}
			render_session(a.out, s)
			return nil
		},
	}
	cmd.Flags().Bool("yaml", false, "print as yaml")
	return cmd
}

func apply_cmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Back up the save, replace the steam id and rename the folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			if err := s.Ready(); err != nil {
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				if !a.interactive() {
					return errors.New("not asking for confirmation on a non-interactive input, use --yes")
				}
				if !a.confirm(s) {
					fmt.Fprintln(a.out, "Cancelled")
					return nil
				}
			}

			s, report, err := editor.Apply(s)
			if report != nil && report.BackedUp {
				// Whatever happened after the backup, the session must follow the file
				if keep_err := a.keep(s); keep_err != nil && err == nil {
					err = keep_err
				}
			}
			if err != nil {
				if report != nil && report.BackedUp {
					fmt.Fprintln(a.out, warn_style.Render("Backup kept at: "+report.BackupPath))
				}
				return err
			}

			if as_yaml, _ := cmd.Flags().GetBool("yaml"); as_yaml {
				if err := write_yaml(a.out, report); err != nil {
					return err
				}
			} else {
				render_report(a.out, report)
			}

			if report.Replaced == 0 {
				return errors.Wrapf(types.ErrNotFound, "failed to find %s in file for replacement", report.OldID)
			}
			if report.Warning() {
				return errors.Wrap(errRelocation, report.Relocation.Reason)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	cmd.Flags().Bool("yaml", false, "print the report as yaml")
	return cmd
}

func (a *app) confirm(s types.Session) bool {
	fmt.Fprintln(a.out, "Confirm replacement:")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Current SteamID: "+s.CurrentID.String())
	fmt.Fprintln(a.out, "New SteamID: "+s.NewID.String())
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "This will:")
	fmt.Fprintln(a.out, "1. Create a backup of the save file")
	fmt.Fprintln(a.out, "2. Replace the SteamID in the save file")
	fmt.Fprintln(a.out, "3. Rename the save folder")
	fmt.Fprint(a.out, "Continue? [y/N] ")

	answer, _ := bufio.NewReader(a.in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func list_cmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the account folders under the save root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := savefolder.List(a.settings.Dir)
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Fprintln(a.out, "(no account folders in "+a.settings.Dir+")")
				return nil
			}
			for _, acc := range accounts {
				save := "(no save)"
				if acc.Save != "" {
					save = filepath.Base(acc.Save)
				}
				fmt.Fprintln(a.out, acc.ID.String()+"  "+save)
			}
			return nil
		},
	}
}

func check_cmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that every account folder matches the id in its save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.out, "Target dir is: "+a.settings.Dir+" (from "+a.settings.DirSource+")")

			statuses, err := savefolder.Audit(a.settings.Dir)
			if err != nil {
				return err
			}
			bad := 0
			for _, st := range statuses {
				if !st.Consistent {
					bad++
				}
				render_status(a.out, st)
			}
			if bad > 0 {
				return errors.Errorf("%d of %d folders do not match their save", bad, len(statuses))
			}
			return nil
		},
	}
}

func watch_cmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Report the steam id of every save as the game writes it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.watch(ctx)
		},
	}
}

func (a *app) watch(ctx context.Context) error {
	events := make(chan savefolder.Event)
	watcher := savefolder.NewWatcher(a.settings.Dir, a.settings.WatchDelay)
	if err := watcher.Start(events); err != nil {
		return errors.Wrapf(err, "failed to watch %s", a.settings.Dir)
	}
	defer watcher.Stop()

	fmt.Fprintln(a.out, "Watching...", a.settings.Dir)
	for {
		select {
		case ev := <-events:
			render_event(a.out, ev)
		case <-ctx.Done():
			return nil
		}
	}
}

func reset_cmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := editor.Forget(a.settings.Stash); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Session cleared")
			return nil
		},
	}
}
