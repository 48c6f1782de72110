// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source loads transcript files. A transcript must be UTF-8; a
// leading byte order mark is dropped and CRLF or CR line endings become LF.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pdiddy/qaextract/pkg/types"
)

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Read loads the transcript at path. A missing file yields an error
// wrapping types.ErrInputNotFound; every other failure wraps
// types.ErrInputRead.
func Read(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", types.ErrInputNotFound, path)
		}
		return "", fmt.Errorf("%w %s: %v", types.ErrInputRead, path, err)
	}

	text, err := Decode(raw)
	if err != nil {
		return "", fmt.Errorf("%w %s: %v", types.ErrInputRead, path, err)
	}
	return text, nil
}

// Decode validates raw as UTF-8, strips a byte order mark and normalizes
// line endings.
func Decode(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", errors.New("file is not valid UTF-8")
	}
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-8: %w", err)
	}
	return newlines.Replace(string(out)), nil
}
