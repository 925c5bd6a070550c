package output

import (
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jacobarthurs/pgpev/internal/analyzer"
)

const blockSize = 8192

// RenderStats writes the timing, buffer and plan-shape report.
func RenderStats(w io.Writer, stats analyzer.Stats, styler *Styler) error {
	if styler == nil {
		styler = NewStyler(ColorAuto)
	}
	r := &treeRenderer{textWriter: textWriter{w: w}, style: styler}
	c := styler.Colorize

	r.printf("%s %s\n", c("○", Output), c("Time: ", Bold)+r.duration(stats.TotalTime))
	r.printf("  - planning: %s\n", r.duration(stats.PlanningTime))
	r.printf("  - execution: %s\n", r.duration(stats.ExecutionTime))
	r.printf("    - I/O read: %s\n", r.duration(stats.IOReadTime))
	r.printf("    - I/O write: %s\n", r.duration(stats.IOWriteTime))

	r.printf("\n%s %s\n", c("○", Output), c("Shared buffers:", Bold))
	r.writeBlocks("hits", stats.Shared.Hit, "from the buffer pool")
	r.writeBlocks("reads", stats.Shared.Read, "from the OS file cache, including disk I/O")
	r.writeBlocks("dirtied", stats.Shared.Dirtied, "")
	r.writeBlocks("writes", stats.Shared.Written, "")

	if stats.Local.Any() {
		r.printf("\n%s %s\n", c("○", Output), c("Local buffers:", Bold))
		r.writeNonzeroBlocks(stats.Local)
	}
	if stats.Temp.Any() {
		r.printf("\n%s %s\n", c("○", Output), c("Temp buffers:", Bold))
		r.writeNonzeroBlocks(stats.Temp)
	}

	r.printf("\n%s %s\n", c("○", Output), c("Plan:", Bold))
	r.printf("  - nodes: %d\n", stats.NodeCount)
	r.printf("  - depth: %d\n", stats.MaxDepth)
	r.printf("  - seq scans: %d\n", stats.SeqScans)
	r.printf("  - total cost: %s\n", formatNumber(stats.TotalCost))
	r.writeLabels("slowest", stats.Slowest)
	r.writeLabels("costliest", stats.Costliest)
	r.writeLabels("largest", stats.Largest)

	return r.err
}

func (r *treeRenderer) writeNonzeroBlocks(b analyzer.Buffers) {
	if b.Hit > 0 {
		r.writeBlocks("hits", b.Hit, "")
	}
	if b.Read > 0 {
		r.writeBlocks("reads", b.Read, "")
	}
	if b.Dirtied > 0 {
		r.writeBlocks("dirtied", b.Dirtied, "")
	}
	if b.Written > 0 {
		r.writeBlocks("writes", b.Written, "")
	}
}

func (r *treeRenderer) writeBlocks(name string, blocks int64, comment string) {
	if comment != "" {
		comment = " " + comment
	}
	if blocks <= 0 {
		r.printf("  - %s: 0%s\n", name, comment)
		return
	}
	r.printf("  - %s: %d (~%s)%s\n", name, blocks, humanize.IBytes(uint64(blocks)*blockSize), comment)
}

func (r *treeRenderer) writeLabels(name string, labels []string) {
	if len(labels) == 0 {
		return
	}
	r.printf("  - %s: %s\n", name, r.style.Colorize(strings.Join(labels, ", "), Tag))
}
