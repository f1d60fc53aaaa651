package tally

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/casualjim/tally/pkg/ledger"
)

// Mode selects which ledger a summary reports on.
type Mode string

const (
	// ModeActual reports completions that invoked the underlying model.
	ModeActual Mode = "actual"
	// ModeTotal reports every completion, cache hits included.
	ModeTotal Mode = "total"
)

// ErrUnknownMode is returned when a summary is requested for a mode other
// than ModeActual or ModeTotal.
var ErrUnknownMode = errors.New("unknown summary mode")

const summaryRule = "----------------------------------------------------------------------------------------------------"

// FormatSummary renders the usage report for the requested modes. With no
// modes it reports both ledgers. When both are requested and numerically
// identical, the report prints one breakdown and notes that no completion was
// served from cache rather than repeating the same numbers.
func (m *Meter) FormatSummary(modes ...Mode) (string, error) {
	var buf strings.Builder
	if err := m.FprintSummary(&buf, modes...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FprintSummary writes the usage report for the requested modes to w.
// See FormatSummary for the reporting rules.
func (m *Meter) FprintSummary(w io.Writer, modes ...Mode) error {
	wantActual, wantTotal, err := resolveModes(modes)
	if err != nil {
		return err
	}

	actual, total := m.Snapshot()

	fmt.Fprintln(w, summaryRule)

	switch {
	case total.Empty():
		fmt.Fprintln(w, "No usage summary to show: no completion has been observed yet.")

	case wantActual && wantTotal && actual.Equal(total):
		printSection(w, "Usage summary, actual and total (identical)", total)
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.YellowString("All completions are non-cached: the total includes no cached savings."))

	case wantActual && wantTotal && actual.Empty():
		printSection(w, "Usage summary including cached completions", total)
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.YellowString("No actual cost incurred: all completions were served from cache."))

	default:
		printed := false
		if wantActual {
			if actual.Empty() {
				fmt.Fprintln(w, color.YellowString("No actual cost incurred: all completions were served from cache."))
			} else {
				printSection(w, "Usage summary excluding cached completions", actual)
			}
			printed = true
		}
		if wantTotal {
			if printed {
				fmt.Fprintln(w)
			}
			printSection(w, "Usage summary including cached completions", total)
		}
	}

	fmt.Fprintln(w, summaryRule)
	return nil
}

func resolveModes(modes []Mode) (wantActual, wantTotal bool, err error) {
	if len(modes) == 0 {
		return true, true, nil
	}
	for _, mode := range modes {
		switch mode {
		case ModeActual:
			wantActual = true
		case ModeTotal:
			wantTotal = true
		default:
			return false, false, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
		}
	}
	return wantActual, wantTotal, nil
}

func printSection(w io.Writer, heading string, l *ledger.Ledger) {
	fmt.Fprintln(w, color.CyanString(heading+":"))
	fmt.Fprintf(w, "Total cost: %s\n", formatAmount(l.TotalCost()))
	for _, model := range l.Models() {
		usage, _ := l.Get(model)
		fmt.Fprintf(w, "* %s: cost %s, prompt_tokens %d, completion_tokens %d, total_tokens %d\n",
			model, formatAmount(usage.Cost), usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
