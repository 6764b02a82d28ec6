package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError("marshal output: %s", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// formatResponse renders a controller response on one line, followed by one
// indented line per directive.
func formatResponse(resp types.Response) string {
	var b strings.Builder
	if !resp.Handled {
		b.WriteString("unhandled")
	} else {
		b.WriteString("handled")
	}
	if resp.Menu != types.MenuUnhandled {
		fmt.Fprintf(&b, " menu=%s", resp.Menu)
	}
	if resp.StartTimer != types.ActionIrrelevant {
		fmt.Fprintf(&b, " start_timer=%s", resp.StartTimer)
	}
	if resp.StopTimer != types.ActionIrrelevant {
		fmt.Fprintf(&b, " stop_timer=%s", resp.StopTimer)
	}
	for _, d := range resp.Directives {
		fmt.Fprintf(&b, "\n    %s %s %s (%s)", d.Kind, d.Slot, d.Entry.Name, d.Entry.ID)
	}
	return b.String()
}

func formatLoadout(l types.Loadout) string {
	parts := make([]string, 0, types.NumCycleSlots)
	for _, s := range types.CycleSlots() {
		id := l.Get(s)
		if id == "" {
			id = "-"
		}
		parts = append(parts, fmt.Sprintf("%s=%s", s, id))
	}
	return strings.Join(parts, " ")
}
