package cli

import (
	"fmt"
	"os"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cyclehud/internal/control"
	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

type replayOptions struct {
	save   string
	dryRun bool
}

func newReplayCmd() *cobra.Command {
	var opts replayOptions
	cmd := &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Feed a YAML event script through the controller",
		Long: `Replay loads the named save (or starts empty), sends every event in the
script to the controller, prints each response, and stores the resulting
state back under the same save name.

Script format:
  inventory:
    - {kind: sword_one_handed, id: "0x0001", name: Iron Sword}
  events:
    - {type: menu, key: 5, entry: {kind: sword_one_handed, id: "0x0001", name: Iron Sword}}
    - {type: key, key: 5, down: true}
    - {type: timer_expired, slot: left}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.save, "save", "", "save name to load and store (required)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "do not store the resulting state")
	_ = cmd.MarkFlagRequired("save")
	return cmd
}

// replayStep is one event and the controller's answer, as printed in JSON
// mode.
type replayStep struct {
	Step     int            `json:"step"`
	Event    string         `json:"event"`
	Response types.Response `json:"response"`
}

type replayResult struct {
	Save   string       `json:"save"`
	Loaded bool         `json:"loaded"`
	Steps  []replayStep `json:"steps"`
	Stored bool         `json:"stored"`
	SaveID string       `json:"save_id,omitempty"`
	Bytes  int          `json:"bytes"`
}

func runReplay(cmd *cobra.Command, path string, opts replayOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return userError("open script: %s", err)
	}
	sc, err := parseScript(f)
	f.Close()
	if err != nil {
		return userError("parse script %s: %s", path, err)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	loaded, err := s.load(opts.save)
	if err != nil {
		return err
	}
	for _, e := range sc.Inventory {
		s.inventory.add(e)
	}

	result := replayResult{Save: opts.save, Loaded: loaded}
	out := cmd.OutOrStdout()
	if !flags.jsonMode {
		if loaded {
			fmt.Fprintf(out, "loaded save %q\n", opts.save)
		} else {
			fmt.Fprintf(out, "save %q not found, starting empty\n", opts.save)
		}
	}

	for i, se := range sc.Events {
		s.observe(se.Event)
		resp := s.ctrl.Handle(se.Event)
		step := replayStep{Step: i + 1, Event: control.EventName(se.Event), Response: resp}
		result.Steps = append(result.Steps, step)
		if !flags.jsonMode {
			fmt.Fprintf(out, "%3d %-17s %s\n", step.Step, step.Event, formatResponse(resp))
		}
	}

	if !opts.dryRun {
		rec, err := s.store(opts.save)
		if err != nil {
			return err
		}
		result.Stored = true
		result.SaveID = rec.SaveID
		result.Bytes = len(rec.Payload)
	}
	s.logMetrics()
	level.Info(s.logger).Log("msg", "replay finished", "script", path, "events", len(sc.Events), "stored", result.Stored)

	if flags.jsonMode {
		return writeJSON(out, result)
	}
	if result.Stored {
		fmt.Fprintf(out, "stored save %q (%s, %d bytes)\n", opts.save, result.SaveID, result.Bytes)
	}
	return nil
}

// observe applies the host-side effect of an event to the stand-in inventory
// before the controller sees it: counts change, menus and favorites name items
// the player holds.
func (s *session) observe(ev control.Event) {
	switch e := ev.(type) {
	case control.InventoryChanged:
		s.inventory.setCount(e.ID, e.Count)
	case control.MenuEvent:
		s.inventory.add(e.Entry)
	case control.FavoriteToggled:
		s.inventory.add(e.Entry)
	}
}
