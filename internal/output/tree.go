package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jacobarthurs/pgpev/internal/analyzer"
	"github.com/jacobarthurs/pgpev/internal/plan"
)

const DefaultWidth = 60

type TreeOptions struct {
	// Width is the column budget for wrapped text; <= 0 means DefaultWidth.
	Width  int
	Styler *Styler
}

type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

type treeRenderer struct {
	textWriter
	doc   *analyzer.Annotated
	width int
	style *Styler
}

// RenderTree writes the annotated plan as a box-drawn tree, root first.
func RenderTree(w io.Writer, a *analyzer.Annotated, opts TreeOptions) error {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Styler == nil {
		opts.Styler = NewStyler(ColorAuto)
	}
	r := &treeRenderer{textWriter: textWriter{w: w}, doc: a, width: opts.Width, style: opts.Styler}

	r.printf("○ Total Cost %s\n", formatNumber(a.TotalCost))
	r.printf("○ Planning Time: %s\n", r.duration(a.Explain.PlanningTime))
	r.printf("○ Execution Time: %s\n", r.duration(a.Explain.ExecutionTime))
	r.printf("%s\n", r.style.Colorize("┬", Output))

	root := a.Root()
	r.writeNode(root, "", len(root.Plans) == 1)
	return r.err
}

func (r *treeRenderer) duration(ms float64) string {
	text, style := formatDuration(ms)
	return r.style.Colorize(text, style)
}

func (r *treeRenderer) writeNode(node *plan.PlanNode, prefix string, lastChild bool) {
	c := r.style.Colorize

	joint, childPrefix := "├", prefix+"│ "
	if len(node.Plans) > 1 || lastChild {
		joint, childPrefix = "└", prefix+"  "
	}

	r.printf("%s%s\n", c(prefix, Prefix), c("│", Prefix))
	r.printf("%s%s %s\n", c(prefix, Prefix), c(joint+"─⌠", Prefix), r.header(node))

	current := childPrefix + "│ "
	cols := r.width - utf8.RuneCountInString(current)
	for _, line := range Wrap(plan.Describe(node.NodeType), cols) {
		r.printf("%s%s\n", c(current, Prefix), c(line, Muted))
	}

	r.printf("%s○ Duration: %s %s\n", c(current, Prefix),
		r.duration(node.ExclusiveDuration), formatPercent(node.ExclusiveDuration, r.doc.Explain.ExecutionTime))
	r.printf("%s○ Cost: %s %s\n", c(current, Prefix),
		formatNumber(node.ExclusiveCost), formatPercent(node.ExclusiveCost, r.doc.TotalCost))
	r.printf("%s○ Rows: %d\n", c(current, Prefix), node.ActualRows)

	r.writeDetails(node, current+"  ")

	if len(node.Output) > 0 {
		hasChildren := len(node.Plans) > 0
		for i, line := range Wrap(strings.Join(node.Output, " + "), cols) {
			r.printf("%s%s\n", c(childPrefix, Prefix), c(terminator(i, hasChildren)+line, Output))
		}
	}

	for i := range node.Plans {
		r.writeNode(&node.Plans[i], childPrefix, i == len(node.Plans)-1)
	}
}

func (r *treeRenderer) header(node *plan.PlanNode) string {
	c := r.style.Colorize
	header := c(node.NodeType, Bold)
	if details := formatDetails(node); details != "" {
		header += " " + c(details, Muted)
	}
	if tags := formatTags(node); tags != "" {
		header += " " + c(tags, Tag)
	}
	return header
}

func (r *treeRenderer) writeDetails(node *plan.PlanNode, indent string) {
	c := r.style.Colorize
	line := func(label, value string) {
		r.printf("%s%s %s\n", c(indent, Prefix), c(label, Muted), value)
	}

	if node.JoinType != "" {
		line("join", c(node.JoinType, Muted))
	}
	if node.RelationName != "" {
		relation := node.RelationName
		if node.Schema != "" {
			relation = node.Schema + " " + relation
		}
		line("on", relation)
	}
	if node.IndexName != "" {
		line("using", node.IndexName)
	}
	if node.IndexCond != "" {
		line("condition", node.IndexCond)
	}
	if node.Filter != "" {
		line("filter", fmt.Sprintf("%s %s", node.Filter, c(fmt.Sprintf("[-%d rows]", node.RowsRemovedByFilter), Muted)))
	}
	if node.HashCond != "" {
		line("on", node.HashCond)
	}
	if node.CTEName != "" {
		line("CTE", node.CTEName)
	}
	if node.EstimateFactor != 0 {
		line("rows", fmt.Sprintf("%s %s %.2fx", node.EstimateDirection+"-estimated", c("by", Muted), node.EstimateFactor))
	}
}
