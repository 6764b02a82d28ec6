package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cyclehud/internal/control"
	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Decode a save and print its cycles and presets",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

// presetView is a preset as printed by show and preset list.
type presetView struct {
	Index    int      `json:"index"`
	ID       uint32   `json:"id"`
	Name     string   `json:"name"`
	Items    []string `json:"items"`
	IconFile string   `json:"icon_file"`
}

type showView struct {
	Name     string           `json:"name"`
	Snapshot control.Snapshot `json:"state"`
	Presets  []presetView     `json:"presets"`
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.mustLoad(args[0]); err != nil {
		return err
	}
	view := showView{Name: args[0], Snapshot: s.ctrl.Snapshot(), Presets: s.presetViews()}

	out := cmd.OutOrStdout()
	if flags.jsonMode {
		return writeJSON(out, view)
	}

	fmt.Fprintf(out, "save: %s\nhud visible: %t\n", view.Name, view.Snapshot.HUDVisible)
	for _, slot := range view.Snapshot.Slots {
		names := make([]string, len(slot.Entries))
		for i, e := range slot.Entries {
			names[i] = e.Name
			if i == slot.Current {
				names[i] = "*" + names[i]
			}
		}
		list := strings.Join(names, ", ")
		if list == "" {
			list = "(empty)"
		}
		fmt.Fprintf(out, "%-8s %s\n", slot.Slot, list)
	}
	fmt.Fprintf(out, "presets: %d\n", len(view.Presets))
	for _, p := range view.Presets {
		fmt.Fprintf(out, "  [%d] #%d %s: %s (%s)\n", p.Index, p.ID, p.Name, strings.Join(p.Items, ", "), p.IconFile)
	}
	return nil
}

func (s *session) presetViews() []presetView {
	var views []presetView
	for i, id := range s.ctrl.PresetIDs() {
		set, ok := s.ctrl.Preset(id)
		if !ok {
			continue
		}
		items, _ := s.ctrl.PresetItemNames(id)
		icon, _ := s.ctrl.PresetIconFile(id)
		views = append(views, presetView{Index: i, ID: id, Name: set.Name, Items: items, IconFile: icon})
	}
	return views
}

func newSavesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saves",
		Short: "List archived saves",
		Args:  cobra.NoArgs,
		RunE:  runSaves,
	}
}

type saveView struct {
	ID        string    `json:"save_id"`
	Name      string    `json:"name"`
	Version   uint32    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func runSaves(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	recs, err := s.archive.List()
	if err != nil {
		return sysError("list saves: %s", err)
	}
	views := make([]saveView, 0, len(recs))
	for _, r := range recs {
		views = append(views, saveView{ID: r.SaveID, Name: r.Name, Version: r.Version, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt})
	}

	out := cmd.OutOrStdout()
	if flags.jsonMode {
		return writeJSON(out, views)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFORMAT\tUPDATED\tID")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", v.Name, v.Version, v.UpdatedAt.Format(time.RFC3339), v.ID)
	}
	return tw.Flush()
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an archived save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			err = s.archive.Delete(args[0])
			if errors.Is(err, types.ErrNotFound) {
				return userError("save %q not found", args[0])
			}
			if err != nil {
				return sysError("delete save: %s", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted save %q\n", args[0])
			return nil
		},
	}
}
