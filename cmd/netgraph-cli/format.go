package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/persistorai/netgraph/client"
)

// tableFunc renders a result as headers and rows.
type tableFunc func() ([]string, [][]string)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && visibleLen(cell) > widths[i] {
				widths[i] = visibleLen(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = cell + strings.Repeat(" ", max(0, w-visibleLen(cell)))
		}
		fmt.Println(strings.Join(parts, "  "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

// visibleLen is the printed width of s, ignoring ANSI color sequences.
func visibleLen(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			n++
		}
	}
	return n
}

func formatQuiet(v string) {
	fmt.Println(v)
}

func output(v any, quietVal string, table tableFunc) {
	switch flagFmt {
	case "quiet":
		formatQuiet(quietVal)
	case "table":
		if table == nil {
			formatJSON(v)
			return
		}
		formatTable(table())
	default:
		formatJSON(v)
	}
}

// swatch renders a hex color as a colored block followed by the hex code.
// Without a color terminal only the code is printed.
func swatch(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok || color.NoColor {
		return hex
	}
	return color.RGB(r, g, b).Sprint("██") + " " + hex
}

func parseHex(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}

func metricGraphTable(g *client.MetricGraph) tableFunc {
	return func() ([]string, [][]string) {
		rows := make([][]string, 0, len(g.Nodes))
		for _, n := range g.Nodes {
			rows = append(rows, []string{itoa(n.ID), n.Username, ftoa(n.Value), ftoa(n.Size), swatch(n.Color)})
		}
		return []string{"ID", "USERNAME", strings.ToUpper(g.Metric), "SIZE", "COLOR"}, rows
	}
}

func rankingTable(top []client.RankedUser) tableFunc {
	return func() ([]string, [][]string) {
		rows := make([][]string, 0, len(top))
		for i, u := range top {
			rows = append(rows, []string{strconv.Itoa(i + 1), itoa(u.ID), u.Username, ftoa(u.Score)})
		}
		return []string{"RANK", "ID", "USERNAME", "SCORE"}, rows
	}
}

func hitsTable(g *client.HITSGraph) tableFunc {
	return func() ([]string, [][]string) {
		rows := make([][]string, 0, len(g.Nodes))
		for _, n := range g.Nodes {
			rows = append(rows, []string{
				itoa(n.ID), n.Username, ftoa(n.Hub), ftoa(n.Authority),
				strconv.Itoa(n.CommunityID), swatch(n.Color),
			})
		}
		return []string{"ID", "USERNAME", "HUB", "AUTHORITY", "COMPONENT", "COLOR"}, rows
	}
}

func communityTable(g *client.CommunityGraph) tableFunc {
	return func() ([]string, [][]string) {
		rows := make([][]string, 0, len(g.Nodes))
		for _, n := range g.Nodes {
			rows = append(rows, []string{itoa(n.ID), n.Username, strconv.Itoa(n.Community), swatch(n.Color)})
		}
		return []string{"ID", "USERNAME", "COMMUNITY", "COLOR"}, rows
	}
}

func pathTable(p *client.PathResult) tableFunc {
	return func() ([]string, [][]string) {
		rows := make([][]string, 0, len(p.Path))
		for i, id := range p.Path {
			name := ""
			if i < len(p.Usernames) {
				name = p.Usernames[i]
			}
			rows = append(rows, []string{strconv.Itoa(i), itoa(id), name})
		}
		return []string{"STEP", "ID", "USERNAME"}, rows
	}
}

func timeSeriesTable(ts *client.TimeSeries) tableFunc {
	return func() ([]string, [][]string) {
		rows := make([][]string, 0, len(ts.TimeSeries))
		for _, p := range ts.TimeSeries {
			rows = append(rows, []string{p.Timestamp, strconv.Itoa(p.RawCount), ftoa(p.Count)})
		}
		return []string{"HOUR", "MESSAGES", "SMOOTHED"}, rows
	}
}

func behaviorTable(r *client.UserBehaviorReport) tableFunc {
	return func() ([]string, [][]string) {
		rows := make([][]string, 0, len(r.UserBehavior))
		for _, u := range r.UserBehavior {
			rows = append(rows, []string{itoa(u.UserID), u.Username, strconv.Itoa(u.MessageCount), u.ActivePeriod})
		}
		return []string{"ID", "USERNAME", "MESSAGES", "ACTIVE PERIOD"}, rows
	}
}

func distributionTable(d *client.FriendDistribution) tableFunc {
	return func() ([]string, [][]string) {
		rows := make([][]string, 0, len(d.Users))
		for _, u := range d.Users {
			rows = append(rows, []string{itoa(u.UserID), u.Username, strconv.Itoa(u.FriendCount), swatch(u.Color)})
		}
		return []string{"ID", "USERNAME", "FRIENDS", "COLOR"}, rows
	}
}
