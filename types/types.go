package types

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	// IdentifierLength is the number of decimal digits in a Steam account id.
	IdentifierLength = 17
	// IdentifierPrefix is the fixed start of every id we are willing to touch.
	IdentifierPrefix = "7656"

	// BackupSuffix is appended to a save's path to name its backup.
	BackupSuffix = ".bak"
	// SaveExt is the extension of the files of interest inside a save folder.
	SaveExt = ".sav"
)

// Identifier is a 17-digit, "7656"-prefixed Steam account id.
// The zero value means "unknown".
type Identifier string

// ParseIdentifier accepts exactly the canonical form and nothing else.
func ParseIdentifier(s string) (Identifier, error) {
	if !IsIdentifier(s) {
		return "", &InvalidFormatError{Value: s}
	}
	return Identifier(s), nil
}

// ParseInput is the forgiving version of ParseIdentifier, for ids typed or
// pasted by a human: whitespace, separators and other junk are dropped before
// the strict check.
func ParseInput(s string) (Identifier, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, strings.TrimSpace(s))
	if !IsIdentifier(digits) {
		return "", &InvalidFormatError{Value: strings.TrimSpace(s)}
	}
	return Identifier(digits), nil
}

// IsIdentifier reports whether s matches ^7656\d{13}$.
func IsIdentifier(s string) bool {
	if len(s) != IdentifierLength || !strings.HasPrefix(s, IdentifierPrefix) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsDigits is the looser check applied to folder names: the right length,
// all digits, no opinion on the prefix.
func IsDigits(s string) bool {
	if len(s) != IdentifierLength {
		return false
	}
	for _, c := range s {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

func (id Identifier) Valid() bool {
	return IsIdentifier(string(id))
}

func (id Identifier) String() string {
	return string(id)
}

// Bytes is the ASCII form of the id, as it appears inside a save file.
func (id Identifier) Bytes() []byte {
	return []byte(id)
}

// Uint64 is the numeric form. The fixed prefix rules out leading zeros, so
// the two forms are interchangeable.
func (id Identifier) Uint64() (uint64, error) {
	return strconv.ParseUint(string(id), 10, 64)
}

// Outcome is what happened to the save folder during a replacement.
type Outcome string

const (
	Renamed  Outcome = "renamed"
	Skipped  Outcome = "skipped"
	Conflict Outcome = "conflict"
	Failed   Outcome = "failed"
)

// Relocation describes the folder step of a replacement.
type Relocation struct {
	Outcome Outcome `yaml:"outcome"`
	From    string  `yaml:"from,omitempty"`
	To      string  `yaml:"to,omitempty"`
	Reason  string  `yaml:"reason,omitempty"`

	Err error `yaml:"-"`
}

// Report is the result of a replacement. Every field is filled in as the
// corresponding step completes, so a report handed back with an error still
// says exactly how far things got.
type Report struct {
	OriginalPath string     `yaml:"original_path"`
	FilePath     string     `yaml:"file_path"`
	BackupPath   string     `yaml:"backup_path,omitempty"`
	BackedUp     bool       `yaml:"backed_up"`
	OldID        Identifier `yaml:"old_id"`
	NewID        Identifier `yaml:"new_id"`
	Replaced     int        `yaml:"replaced"`
	Written      bool       `yaml:"written"`
	Relocation   Relocation `yaml:"relocation"`
}

// Warning is true when the file edit went through but the folder could not
// be brought in line with it.
func (r *Report) Warning() bool {
	return r.Relocation.Outcome == Conflict || r.Relocation.Outcome == Failed
}

// Session is everything the front end knows between calls. Operations take
// one by value and hand back an updated copy; nothing is shared.
type Session struct {
	FilePath   string     `yaml:"file_path,omitempty"`
	CurrentID  Identifier `yaml:"current_id,omitempty"`
	NewID      Identifier `yaml:"new_id,omitempty"`
	ConfigPath string     `yaml:"config_path,omitempty"`
}

// Ready returns nil once a save is loaded, its id is known and a valid new
// id has been supplied. Otherwise the error names the first missing piece.
func (s Session) Ready() error {
	switch {
	case s.FilePath == "":
		return ErrNoFile
	case !s.CurrentID.Valid():
		return ErrNoCurrentID
	case !s.NewID.Valid():
		return ErrNoNewID
	}
	return nil
}

func (s Session) IsReady() bool {
	return s.Ready() == nil
}
