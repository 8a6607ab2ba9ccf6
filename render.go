package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"steamidedit/savefolder"
	"steamidedit/types"
)

var (
	ok_style    = lipgloss.NewStyle().Foreground(lipgloss.Color("#388e3c"))
	warn_style  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f39c12"))
	error_style = lipgloss.NewStyle().Foreground(lipgloss.Color("#d32f2f")).Bold(true)
	label_style = lipgloss.NewStyle().Bold(true)
)

func write_yaml(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode yaml")
	}
	return enc.Close()
}

type status_doc struct {
	types.Session `yaml:",inline"`
	Ready         bool   `yaml:"ready"`
	Missing       string `yaml:"missing,omitempty"`
}

func reason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// folder_label is the name of the folder holding the loaded save.
func folder_label(s types.Session) string {
	if s.FilePath == "" {
		return ""
	}
	name := filepath.Base(filepath.Dir(s.FilePath))
	if s.CurrentID != "" && name != s.CurrentID.String() {
		return warn_style.Render(name + " (not named after the id in the save)")
	}
	return name
}

func or_none(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func render_session(w io.Writer, s types.Session) {
	fmt.Fprintln(w, label_style.Render("Save file:      ")+or_none(s.FilePath))
	fmt.Fprintln(w, label_style.Render("Save folder:    ")+or_none(folder_label(s)))
	fmt.Fprintln(w, label_style.Render("Current SteamID:")+" "+or_none(s.CurrentID.String()))
	fmt.Fprintln(w, label_style.Render("New SteamID:    ")+or_none(s.NewID.String()))
	if s.ConfigPath != "" {
		fmt.Fprintln(w, label_style.Render("Config file:    ")+s.ConfigPath)
	}
	fmt.Fprintln(w)
	if err := s.Ready(); err != nil {
		fmt.Fprintln(w, warn_style.Render("Not ready: "+err.Error()))
		return
	}
	fmt.Fprintln(w, ok_style.Render("Ready to apply"))
}

func render_report(w io.Writer, r *types.Report) {
	if r.Replaced == 0 {
		fmt.Fprintln(w, error_style.Render("Failed to find "+r.OldID.String()+" in file for replacement"))
		fmt.Fprintln(w, "Backup: "+filepath.Base(r.BackupPath))
		return
	}

	fmt.Fprintln(w, ok_style.Render(fmt.Sprintf("Successfully replaced %d occurrences.", r.Replaced)))
	fmt.Fprintln(w, "Backup created: "+filepath.Base(r.BackupPath))

	switch r.Relocation.Outcome {
	case types.Renamed:
		fmt.Fprintln(w, ok_style.Render("Folder renamed to: "+r.NewID.String()))
	case types.Skipped:
		fmt.Fprintln(w, "Folder left alone: "+r.Relocation.Reason)
	case types.Conflict:
		fmt.Fprintln(w, warn_style.Render("Warning: Folder "+r.NewID.String()+" already exists. Folder not renamed."))
	case types.Failed:
		fmt.Fprintln(w, warn_style.Render("Warning: Failed to rename folder: "+r.Relocation.Reason))
	}
	fmt.Fprintln(w, "Save file: "+r.FilePath)
}

func render_status(w io.Writer, st savefolder.Status) {
	switch {
	case st.Consistent:
		fmt.Fprintln(w, ok_style.Render("ok      ")+st.ID.String())
	case st.Err != nil:
		fmt.Fprintln(w, error_style.Render("error   ")+st.ID.String()+": "+st.Err.Error())
	default:
		fmt.Fprintln(w, warn_style.Render("differs ")+st.ID.String()+": save holds "+st.Embedded.String())
	}
	if len(st.Candidates) > 1 {
		fmt.Fprintln(w, warn_style.Render(fmt.Sprintf("        %d different steam ids in the save", len(st.Candidates))))
	}
}

func render_event(w io.Writer, ev savefolder.Event) {
	name := filepath.Join(ev.Folder, filepath.Base(ev.Path))
	switch {
	case ev.Err != nil:
		fmt.Fprintln(w, error_style.Render(name+": "+ev.Err.Error()))
	case ev.Consistent:
		fmt.Fprintln(w, name+": "+ok_style.Render(ev.Identifier.String()))
	default:
		fmt.Fprintln(w, name+": "+warn_style.Render(ev.Identifier.String()+" (folder does not match)"))
	}
}
