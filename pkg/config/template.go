package config

import (
	"bytes"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value. If false, a
	// commented minimal template is generated.
	Full bool
}

const templateHeader = `# kbdfmt configuration
# See: https://github.com/yaklabco/kbdfmt`

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		out, err := NewConfig().ToYAMLWithHeader(templateHeader)
		if err != nil {
			return nil, fmt.Errorf("render defaults: %w", err)
		}
		return out, nil
	}

	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	buf.WriteString(`

format:
  # Turn the formatter off entirely
  # enable: true

  # Align deflayer blocks to the defsrc layout
  align_layers: true

  # Column width of a tab inside defsrc
  # tab_width: 4

  # Collapse runs of blank lines
  collapse_newlines: true
  max_newlines: 2

  # Line ending written between aligned rows: lf or crlf
  # line_ending: lf

# Where the defsrc block lives: single (each file) or workspace
# (main_file and the files it includes)
workspace:
  mode: single
  # main_file: main.kbd
  # root: .

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"

# Keep a .kbdfmt.bak copy when writing files
# backups:
#   enabled: false
#   mode: sidecar
`)
	return buf.Bytes(), nil
}
