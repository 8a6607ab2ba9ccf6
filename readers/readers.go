package readers

// Functions for getting steam ids out of things.
//
// Save files are binary with bits of ASCII scattered through them, so they are
// scanned byte by byte and never decoded. The emulator's config file is real
// text and gets a regexp.

import (
	"bytes"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"steamidedit/types"
)

var prefix = []byte(types.IdentifierPrefix)

func is_digit(b byte) bool {
	return b >= '0' && b <= '9'
}

// digit_runs calls fn with every maximal run of ASCII digits in buf, in order,
// until fn returns false.
func digit_runs(buf []byte, fn func(run []byte) bool) {
	start := -1
	for i := 0; i <= len(buf); i++ {
		if i < len(buf) && is_digit(buf[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if !fn(buf[start:i]) {
				return
			}
			start = -1
		}
	}
}

// candidates calls fn with every "7656" followed by 13 more digits, left to
// right and without overlap, until fn returns false. A match can sit inside a
// longer digit run but never spans a non-digit byte.
func candidates(buf []byte, fn func(id []byte) bool) {
	digit_runs(buf, func(run []byte) bool {
		for i := 0; i+types.IdentifierLength <= len(run); {
			if !bytes.HasPrefix(run[i:], prefix) {
				i++
				continue
			}
			if !fn(run[i : i+types.IdentifierLength]) {
				return false
			}
			i += types.IdentifierLength
		}
		return true
	})
}

// FindIdentifier returns the first "7656" followed by 13 digits, wherever it
// is, so it agrees with what a replacement would touch.
func FindIdentifier(buf []byte) (types.Identifier, error) {
	var found types.Identifier
	candidates(buf, func(id []byte) bool {
		found = types.Identifier(id)
		return false
	})
	if found == "" {
		return "", types.ErrNotFound
	}
	return found, nil
}

// FindIdentifiers returns every distinct candidate, in the order first seen.
// More than one means FindIdentifier's answer is a guess.
func FindIdentifiers(buf []byte) []types.Identifier {
	seen := map[types.Identifier]bool{}
	ids := []types.Identifier{}
	candidates(buf, func(b []byte) bool {
		id := types.Identifier(b)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// Count returns the number of non-overlapping occurrences of id in buf, which
// is what a replacement would touch. Unlike FindIdentifier this does not care
// about the surrounding bytes.
func Count(buf []byte, id types.Identifier) int {
	return bytes.Count(buf, id.Bytes())
}

var config_key = regexp.MustCompile(`account_steamid\s*=\s*(\d+)`)

// FindConfigIdentifier pulls account_steamid out of config text.
// A missing key is ErrNotFound; a key with a bad value is ErrInvalidFormat.
func FindConfigIdentifier(text string) (types.Identifier, error) {
	m := config_key.FindStringSubmatch(text)
	if m == nil {
		return "", errors.Wrap(types.ErrNotFound, "account_steamid not found in config")
	}
	return types.ParseIdentifier(m[1])
}

// decode turns raw config bytes into text. A UTF-8 or UTF-16 byte order mark
// is honoured, anything undecodable is dropped.
func decode(raw []byte) string {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		out = raw
	}
	text := strings.ToValidUTF8(string(out), "")
	return strings.ReplaceAll(text, "\uFFFD", "")
}

// ReadConfigFile reads a configs.user.ini (or anything else with an
// account_steamid line) and returns the id in it.
func ReadConfigFile(path string) (types.Identifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read config file %s", path)
	}
	return FindConfigIdentifier(decode(raw))
}

// ReadSave reads a save file whole.
func ReadSave(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open save file %s", path)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Errorf("%s is not a regular file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read save file %s", path)
	}
	return data, nil
}
