// Package naming derives archive file names from classification metadata.
package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Veraticus/docket/internal/lines"
	"github.com/Veraticus/docket/internal/model"
)

// DateLayout prefixes every name so files sort chronologically.
const DateLayout = "2006.01.02"

var (
	// ErrUnclassified is returned when asked to rename an unrecognised document.
	ErrUnclassified = errors.New("document is unclassified")
	// ErrTargetExists is returned instead of overwriting an existing file.
	ErrTargetExists = errors.New("target file already exists")
)

var transliterations = strings.NewReplacer(
	"’", "'", "‘", "'", "´", "'", "`", "'",
	"−", "-", "–", "-", "—", "-",
	"ß", "ss", "æ", "ae", "Æ", "AE", "ø", "o", "Ø", "O",
	"€", "EUR", "£", "GBP", "º", "o", "ª", "a",
)

var separators = strings.NewReplacer("/", ".", ":", " ", "(", " ", ")", " ", ",", " ")

// FileName returns "<date> <bank> <class>[ <entity>][ <extra>].pdf" folded
// to ASCII. Extra info is lowercased.
func FileName(md model.DocumentMetadata) string {
	return FileNameExt(md, ".pdf")
}

// FileNameExt is FileName with a different extension.
func FileNameExt(md model.DocumentMetadata, ext string) string {
	var b strings.Builder
	b.WriteString(md.PeriodStart.Format(DateLayout))
	b.WriteString(" " + string(md.Bank))
	b.WriteString(" " + string(md.Classification))
	if md.Entity != "" {
		b.WriteString(" " + md.Entity)
	}
	if md.ExtraInfo != "" {
		b.WriteString(" " + strings.ToLower(ASCII(md.ExtraInfo)))
	}
	b.WriteString(ext)

	name := separators.Replace(ASCII(b.String()))
	name = strings.ReplaceAll(name, "..", ".")
	return strings.Join(strings.Fields(name), " ")
}

// ASCII transliterates s: diacritics are stripped, typographic punctuation
// is mapped to its ASCII form, and anything left outside ASCII is dropped.
func ASCII(s string) string {
	s = transliterations.Replace(lines.StripMarks(s))
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
}

// Target returns the path path would be renamed to, in the same directory
// and keeping its extension.
func Target(path string, md model.DocumentMetadata) (string, error) {
	if md.IsUnclassified() {
		return "", ErrUnclassified
	}
	ext := strings.ToLower(filepath.Ext(path))
	return filepath.Join(filepath.Dir(path), FileNameExt(md, ext)), nil
}

// Rename moves path to its Target and returns the new path. Existing files
// are never overwritten. With dryRun only the target is computed.
func Rename(path string, md model.DocumentMetadata, dryRun bool) (string, error) {
	target, err := Target(path, md)
	if err != nil {
		return "", err
	}
	if filepath.Clean(target) == filepath.Clean(path) || dryRun {
		return target, nil
	}
	if _, err := os.Stat(target); err == nil {
		return target, fmt.Errorf("%w: %s", ErrTargetExists, target)
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return target, nil
}
