package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/colorprofile"
)

// writeJSON writes v as indented JSON, syntax highlighted when w is a
// terminal that supports at least 256 colors.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	out := highlightJSON(string(data), colorprofile.Detect(w, os.Environ()))
	_, err = io.WriteString(w, out+"\n")
	return err
}

// highlightJSON colors source for profile, returning it unchanged when the
// profile has too few colors or highlighting fails.
func highlightJSON(source string, profile colorprofile.Profile) string {
	var formatterName string
	switch profile {
	case colorprofile.TrueColor:
		formatterName = "terminal16m"
	case colorprofile.ANSI256:
		formatterName = "terminal256"
	default:
		return source
	}

	formatter := formatters.Get(formatterName)
	style := styles.Get("catppuccin-mocha")
	if style == nil {
		style = styles.Fallback
	}
	iterator, err := lexers.Get("json").Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
