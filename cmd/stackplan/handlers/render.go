package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/stackplan/internal/plan"
	"github.com/imamik/stackplan/internal/resource"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorAmber = lipgloss.Color("#f59e0b")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	createStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	updateStyle = lipgloss.NewStyle().
			Foreground(colorAmber)
)

// isInteractive reports whether styled output should be used.
var isInteractive = isInteractiveTTY

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// renderPlanSummary produces a lipgloss-styled plan summary string.
func renderPlanSummary(stack string, p *plan.Plan) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  stackplan: %s", stack)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("  Operations"))
	b.WriteString("\n")
	for i, op := range p.Operations {
		marker := createStyle.Render("+")
		if op.Action == plan.ActionUpdate {
			marker = updateStyle.Render("~")
		}
		fmt.Fprintf(&b, "  %3d  %s %-32s %s\n", i+1, marker, op.NodeID, dimStyle.Render(string(op.Kind)))
	}

	if len(p.Outputs) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("  Outputs"))
		b.WriteString("\n")
		for _, o := range p.Outputs {
			fmt.Fprintf(&b, "  %-28s %s\n", o.Name, outputValue(o, true))
		}
	}

	s := p.Summary()
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s  %s  %s\n",
		createStyle.Render(fmt.Sprintf("%d to create", s.Creates)),
		updateStyle.Render(fmt.Sprintf("%d to update", s.Updates)),
		dimStyle.Render(fmt.Sprintf("%d grants", s.Grants)))
	b.WriteString(dimStyle.Render("  plan " + p.ID))
	b.WriteString("\n")
	return b.String()
}

// plainPlanSummary is the non-interactive summary.
func plainPlanSummary(stack string, p *plan.Plan) string {
	s := p.Summary()
	return fmt.Sprintf("Plan %s for stack %s: %d to create, %d to update, %d grants, %d pending outputs\n",
		p.ID, stack, s.Creates, s.Updates, s.Grants, s.PendingOutputs)
}

func outputValue(o plan.OutputBinding, styled bool) string {
	if !o.Pending {
		return o.Value
	}
	pending := fmt.Sprintf("(pending %s)", resource.RefTo(o.SourceNodeID, o.SourceAttribute))
	if styled {
		return dimStyle.Render(pending)
	}
	return pending
}
