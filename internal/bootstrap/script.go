package bootstrap

import (
	"encoding/base64"
	"fmt"
	"path"
	"strings"
)

// Script renders the program as a POSIX shell script. Each command runs in
// its own `sh -e` and a non-zero exit stops the script with that status, so
// a failure inside an and-or list or a pipeline still ends the program. File
// content is base64 encoded so payloads never interact with shell quoting.
func (p *Program) Script() string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "# bootstrap program for %s (%d directives, digest %s)\n", p.NodeID, p.Len(), p.Digest())
	b.WriteString("set -e\n")

	for _, d := range p.Directives {
		b.WriteString("\n")
		switch d.Kind {
		case ShellCommand:
			fmt.Fprintf(&b, "# [%d] command\n", d.Order)
			fmt.Fprintf(&b, "sh -ec %s || exit $?\n", shellQuote(pipefail+d.Payload))
		case InlineFile:
			fmt.Fprintf(&b, "# [%d] file %s\n", d.Order, d.TargetPath)
			fmt.Fprintf(&b, "mkdir -p %s\n", shellQuote(path.Dir(d.TargetPath)))
			fmt.Fprintf(&b, "base64 -d > %s <<'STACKPLAN_EOF'\n", shellQuote(d.TargetPath))
			b.WriteString(wrap(base64.StdEncoding.EncodeToString([]byte(d.Payload)), 76))
			b.WriteString("STACKPLAN_EOF\n")
		}
	}
	return b.String()
}

// pipefail is enabled where the shell supports it. `command` keeps an
// unsupported option from aborting the shell.
const pipefail = "command set -o pipefail 2>/dev/null || :\n"

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func wrap(s string, width int) string {
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteString("\n")
		s = s[width:]
	}
	if s != "" {
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}
