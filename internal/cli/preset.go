package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cyclehud/internal/control"
)

func newPresetCmd() *cobra.Command {
	var save string
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage the equipment presets of a save",
		Long: `Preset commands load a save, act on its equipment presets, and store the
save again when something changed.

A preset is named by REF: its numeric ID, "#INDEX" for its position in
"preset list", or its name (first match).`,
	}
	cmd.PersistentFlags().StringVar(&save, "save", "", "save name (required)")
	_ = cmd.MarkPersistentFlagRequired("save")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List presets",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSave(cmd, save, false, func(s *session) error {
					views := s.presetViews()
					out := cmd.OutOrStdout()
					if flags.jsonMode {
						return writeJSON(out, views)
					}
					for _, p := range views {
						fmt.Fprintf(out, "[%d] #%d %s: %s (%s)\n", p.Index, p.ID, p.Name, strings.Join(p.Items, ", "), p.IconFile)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "create NAME",
			Short: "Capture the current cycle entries as a new preset",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSave(cmd, save, true, func(s *session) error {
					loadout := s.ctrl.CurrentLoadout()
					id := s.ctrl.CreatePreset(args[0], loadout)
					if id == 0 {
						return userError("preset %q could not be created", args[0])
					}
					fmt.Fprintf(cmd.OutOrStdout(), "created preset #%d %s: %s\n", id, args[0], formatLoadout(loadout))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "update REF",
			Short: "Replace a preset's loadout with the current cycle entries",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSave(cmd, save, true, func(s *session) error {
					id, err := s.presetRef(args[0])
					if err != nil {
						return err
					}
					loadout := s.ctrl.CurrentLoadout()
					s.ctrl.UpdatePreset(id, loadout)
					fmt.Fprintf(cmd.OutOrStdout(), "updated preset #%d: %s\n", id, formatLoadout(loadout))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rename REF NAME",
			Short: "Rename a preset",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSave(cmd, save, true, func(s *session) error {
					id, err := s.presetRef(args[0])
					if err != nil {
						return err
					}
					s.ctrl.RenamePreset(id, args[1])
					fmt.Fprintf(cmd.OutOrStdout(), "renamed preset #%d to %s\n", id, args[1])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove REF",
			Short: "Remove a preset",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSave(cmd, save, true, func(s *session) error {
					id, err := s.presetRef(args[0])
					if err != nil {
						return err
					}
					s.ctrl.RemovePreset(id)
					fmt.Fprintf(cmd.OutOrStdout(), "removed preset #%d\n", id)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "icon REF [ITEM]",
			Short: "Set a preset's icon from an item, or clear it",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSave(cmd, save, true, func(s *session) error {
					id, err := s.presetRef(args[0])
					if err != nil {
						return err
					}
					item := ""
					if len(args) == 2 {
						item = args[1]
					}
					if !s.ctrl.SetPresetIcon(id, item) {
						return userError("item %q is not known to this save", item)
					}
					icon, _ := s.ctrl.PresetIconFile(id)
					fmt.Fprintf(cmd.OutOrStdout(), "preset #%d icon: %s\n", id, icon)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "apply REF",
			Short: "Print the directives that equip a preset",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSave(cmd, save, true, func(s *session) error {
					id, err := s.presetRef(args[0])
					if err != nil {
						return err
					}
					resp, _ := s.ctrl.ApplyPreset(id)
					if flags.jsonMode {
						return writeJSON(cmd.OutOrStdout(), resp)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "preset #%d %s\n", id, formatResponse(resp))
					return nil
				})
			},
		},
	)
	return cmd
}

// withSave opens a session, loads the save, runs fn, and stores the save
// again when store is set and fn succeeded.
func withSave(cmd *cobra.Command, name string, store bool, fn func(*session) error) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.mustLoad(name); err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	if store {
		_, err = s.store(name)
	}
	return err
}

// presetRef resolves a preset reference to an ID.
func (s *session) presetRef(ref string) (uint32, error) {
	if rest, ok := strings.CutPrefix(ref, "#"); ok {
		if id, found := s.ctrl.PresetIndexToID(control.ParseIndex(rest)); found {
			return id, nil
		}
		return 0, userError("no preset at index %s", rest)
	}
	if n, err := strconv.ParseUint(ref, 10, 32); err == nil {
		if _, found := s.ctrl.Preset(uint32(n)); found {
			return uint32(n), nil
		}
		return 0, userError("no preset with ID %d", n)
	}
	if id, found := s.ctrl.PresetByName(ref); found {
		return id, nil
	}
	return 0, userError("no preset named %q", ref)
}
