package scoring

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const maxBarWidth = 50

// PlotScoresTerminal draws one horizontal bar per alternative, best first.
func PlotScoresTerminal(w io.Writer, ids []string, scores []float64, title string) {
	type altScore struct {
		ID    string
		Score float64
	}

	if len(scores) == 0 {
		return
	}

	alts := make([]altScore, len(scores))
	for i := range scores {
		id := fmt.Sprint(i + 1)
		if i < len(ids) {
			id = ids[i]
		}
		alts[i] = altScore{ID: id, Score: scores[i]}
	}

	// Sort by score in descending order
	sort.SliceStable(alts, func(i, j int) bool {
		return alts[i].Score > alts[j].Score
	})

	maxScore := alts[0].Score
	minScore := alts[len(alts)-1].Score

	idWidth := len("Alternative")
	for _, a := range alts {
		idWidth = max(idWidth, len(a.ID))
	}

	fmt.Fprintf(w, "\n%s (Terminal Plot - Descending Order):\n", title)
	fmt.Fprintf(w, "%-*s | Score    | Bar Chart\n", idWidth, "Alternative")
	fmt.Fprintln(w, strings.Repeat("-", idWidth+1)+"|----------|"+strings.Repeat("-", maxBarWidth))

	for _, a := range alts {
		var barWidth int
		if maxScore != minScore {
			barWidth = int((a.Score - minScore) / (maxScore - minScore) * float64(maxBarWidth))
		} else {
			barWidth = maxBarWidth / 2
		}

		bar := strings.Repeat("█", barWidth)
		if barWidth == 0 {
			bar = "▏"
		}

		fmt.Fprintf(w, "%-*s | %.6f | %s (%.4f)\n", idWidth, a.ID, a.Score, bar, a.Score)
	}

	fmt.Fprintf(w, "\nScale: Min=%.6f, Max=%.6f\n", minScore, maxScore)
	fmt.Fprintf(w, "Bar width represents relative score (0 to %d chars)\n", maxBarWidth)
}
