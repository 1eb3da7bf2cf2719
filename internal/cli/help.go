package cli

import (
	"cmp"
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"

	"github.com/yaklabco/kbdfmt/internal/ui/pretty"
)

// Command groups listed in help output.
const (
	groupFormat  = "format"
	groupInspect = "inspect"
)

// installHelp replaces cobra's help and usage templates on root with styled
// output. Commands without a group are listed as additional commands.
func installHelp(root *cobra.Command) {
	root.AddGroup(
		&cobra.Group{ID: groupFormat, Title: "Formatting Commands:"},
		&cobra.Group{ID: groupInspect, Title: "Inspection Commands:"},
	)

	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if err := newHelpWriter(cmd).help(cmd); err != nil {
			cmd.PrintErrln(err)
		}
	})
	root.SetUsageFunc(func(cmd *cobra.Command) error {
		return newHelpWriter(cmd).usage(cmd)
	})
}

type helpWriter struct {
	styles *pretty.Styles
	out    io.Writer
}

// newHelpWriter resolves --color when help is rendered, after flags are
// parsed.
func newHelpWriter(cmd *cobra.Command) *helpWriter {
	mode := pretty.ColorAuto
	if f := cmd.Flag("color"); f != nil {
		mode = f.Value.String()
	}
	out := cmd.OutOrStdout()
	return &helpWriter{
		styles: pretty.NewStyles(pretty.IsColorEnabled(mode, out)),
		out:    out,
	}
}

func (h *helpWriter) help(cmd *cobra.Command) error {
	var b strings.Builder

	b.WriteString(h.styles.Command.Render(cmd.CommandPath()))
	if cmd.Version != "" {
		b.WriteString(" " + h.styles.Dim.Render(cmd.Version))
	}
	b.WriteString("\n\n")

	if desc := trimLines(cmp.Or(cmd.Long, cmd.Short)); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n\n")
	}

	h.writeUsage(&b, cmd)
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *helpWriter) usage(cmd *cobra.Command) error {
	var b strings.Builder
	h.writeUsage(&b, cmd)
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *helpWriter) writeUsage(b *strings.Builder, cmd *cobra.Command) {
	b.WriteString(h.styles.Heading.Render("Usage:") + "\n")
	if cmd.Runnable() {
		fmt.Fprintf(b, "  %s\n", h.styles.Command.Render(cmd.UseLine()))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(b, "  %s [command]\n", h.styles.Command.Render(cmd.CommandPath()))
	}

	if len(cmd.Aliases) > 0 {
		h.section(b, "Aliases:", "  "+h.styles.Dim.Render(strings.Join(cmd.Aliases, ", ")))
	}
	if cmd.HasExample() {
		h.section(b, "Examples:", h.styles.Dim.Render(strings.TrimRight(cmd.Example, "\n")))
	}
	if cmd.HasAvailableSubCommands() {
		h.writeCommands(b, cmd)
	}
	if cmd.HasAvailableLocalFlags() {
		h.section(b, "Flags:", h.styleFlags(cmd.LocalFlags().FlagUsages()))
	}
	if cmd.HasAvailableInheritedFlags() {
		h.section(b, "Global Flags:", h.styleFlags(cmd.InheritedFlags().FlagUsages()))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(b, "\nUse %q for more information about a command.\n", cmd.CommandPath()+" [command] --help")
	}
}

func (h *helpWriter) section(b *strings.Builder, title, body string) {
	b.WriteString("\n" + h.styles.Heading.Render(title) + "\n")
	b.WriteString(body)
	b.WriteString("\n")
}

// writeCommands lists subcommands by group, in the order the groups were
// added, then the ungrouped ones.
func (h *helpWriter) writeCommands(b *strings.Builder, cmd *cobra.Command) {
	var visible []*cobra.Command
	width := 0
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() || sub.Name() == "help" {
			visible = append(visible, sub)
			width = max(width, uniseg.StringWidth(sub.Name()))
		}
	}

	list := func(title, groupID string) {
		var rows []string
		for _, sub := range visible {
			if sub.GroupID != groupID {
				continue
			}
			rows = append(rows, fmt.Sprintf("  %s  %s",
				h.styles.Flag.Render(padName(sub.Name(), width)), sub.Short))
		}
		if len(rows) > 0 {
			h.section(b, title, strings.Join(rows, "\n"))
		}
	}

	for _, g := range cmd.Groups() {
		list(g.Title, g.ID)
	}
	title := "Available Commands:"
	if len(cmd.Groups()) > 0 {
		title = "Additional Commands:"
	}
	list(title, "")
}

// styleFlags colors the names in pflag usage text. pflag separates names
// from descriptions with at least two spaces; that gap is kept so the
// description column stays aligned.
func (h *helpWriter) styleFlags(usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (h *helpWriter) styleFlagLine(line string) string {
	body := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(body)]

	gap := strings.Index(body, "  ")
	if body == "" || gap < 0 {
		return line
	}
	names, desc := body[:gap], body[gap:]

	tokens := strings.Split(names, " ")
	for i, tok := range tokens {
		if name, ok := strings.CutPrefix(tok, "-"); ok {
			comma := strings.HasSuffix(name, ",")
			tokens[i] = h.styles.Flag.Render("-" + strings.TrimSuffix(name, ","))
			if comma {
				tokens[i] += ","
			}
			continue
		}
		tokens[i] = h.styles.Dim.Render(tok)
	}
	return indent + strings.Join(tokens, " ") + desc
}

// padName pads name with spaces to width display columns.
func padName(name string, width int) string {
	if w := uniseg.StringWidth(name); w < width {
		return name + strings.Repeat(" ", width-w)
	}
	return name
}

func trimLines(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
