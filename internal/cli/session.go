package cli

import (
	"errors"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cyclehud/internal/archive"
	"github.com/mesh-intelligence/cyclehud/internal/control"
	"github.com/mesh-intelligence/cyclehud/internal/layout"
	"github.com/mesh-intelligence/cyclehud/internal/paths"
	"github.com/mesh-intelligence/cyclehud/internal/settings"
	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

func archiveConfig(dirs paths.Dirs) types.Config {
	return types.Config{
		Backend:     types.BackendSQLite,
		DataDir:     dirs.Data,
		Compression: types.CompressionDefault,
	}
}

// session is one command's view of the host: settings, layout, an inventory,
// the archive, and a controller wired to all of them.
type session struct {
	dirs      paths.Dirs
	logger    log.Logger
	registry  *prometheus.Registry
	inventory *inventory
	archive   *archive.Archive
	ctrl      *control.Controller
}

// openSession resolves directories, reads settings and layout, attaches the
// archive, and builds a controller. The caller must call close.
func openSession(cmd *cobra.Command) (*session, error) {
	logger, err := newLogger(cmd.ErrOrStderr(), flags.logLevel)
	if err != nil {
		return nil, err
	}
	dirs, err := paths.Resolve(flags.configDir, flags.dataDir)
	if err != nil {
		return nil, sysError("resolve directories: %s", err)
	}
	if err := dirs.Ensure(); err != nil {
		return nil, sysError("create directories: %s", err)
	}

	sp, err := settings.Load(dirs.Config)
	if err != nil {
		return nil, userError("load settings: %s", err)
	}
	lp := layout.New(dirs.LayoutPath(), logger)
	if err := lp.Refresh(); err != nil {
		return nil, sysError("load layout: %s", err)
	}

	arc := archive.New()
	if err := arc.Attach(archiveConfig(dirs)); err != nil {
		return nil, sysError("attach archive: %s", err)
	}

	reg := prometheus.NewRegistry()
	inv := newInventory()
	ctrl, err := control.New(control.Options{
		Settings:  sp,
		Layout:    lp,
		Inventory: inv,
		Logger:    logger,
		Metrics:   control.NewMetrics(reg),
	})
	if err != nil {
		_ = arc.Detach()
		return nil, userError("create controller: %s", err)
	}

	return &session{
		dirs:      dirs,
		logger:    logger,
		registry:  reg,
		inventory: inv,
		archive:   arc,
		ctrl:      ctrl,
	}, nil
}

func (s *session) close() {
	if err := s.archive.Detach(); err != nil {
		level.Error(s.logger).Log("msg", "detach archive", "err", err)
	}
}

// load restores the named save into the controller. It returns false when no
// save by that name exists, leaving the controller empty.
func (s *session) load(name string) (bool, error) {
	rec, err := s.archive.Get(name)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, sysError("read save %q: %s", name, err)
	}
	if !s.ctrl.Load(rec.Payload, rec.Version) {
		return false, userError("save %q (format %d) could not be decoded", name, rec.Version)
	}
	s.inventory.absorb(s.ctrl.Snapshot())
	level.Debug(s.logger).Log("msg", "loaded save", "name", name, "id", rec.SaveID, "version", rec.Version)
	return true, nil
}

// mustLoad is load for commands that need an existing save.
func (s *session) mustLoad(name string) error {
	found, err := s.load(name)
	if err != nil {
		return err
	}
	if !found {
		return userError("save %q not found", name)
	}
	return nil
}

// store encodes the controller state and writes it to the archive.
func (s *session) store(name string) (types.SaveRecord, error) {
	payload, version := s.ctrl.Save()
	id, err := s.archive.Put(name, version, payload)
	if err != nil {
		return types.SaveRecord{}, sysError("write save %q: %s", name, err)
	}
	level.Debug(s.logger).Log("msg", "stored save", "name", name, "id", id, "bytes", len(payload))
	return types.SaveRecord{SaveID: id, Name: name, Version: version, Payload: payload}, nil
}

// logMetrics writes the controller counters at debug level.
func (s *session) logMetrics() {
	families, err := s.registry.Gather()
	if err != nil {
		level.Warn(s.logger).Log("msg", "gather metrics", "err", err)
		return
	}
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		level.Debug(s.logger).Log("msg", "metric", "name", mf.GetName(), "total", total)
	}
}

// inventory stands in for the player's items. It holds every entry a script
// or a save has mentioned.
type inventory struct {
	mu    sync.RWMutex
	items map[string]types.Entry
}

func newInventory() *inventory {
	return &inventory{items: make(map[string]types.Entry)}
}

// Lookup implements control.Inventory.
func (inv *inventory) Lookup(id string) (types.Entry, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	e, ok := inv.items[id]
	return e, ok
}

// Extra implements control.Inventory.
func (inv *inventory) Extra(id string) types.ExtraData {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.items[id].Extra
}

func (inv *inventory) add(e types.Entry) {
	if e.ID == "" {
		return
	}
	inv.mu.Lock()
	inv.items[e.ID] = e
	inv.mu.Unlock()
}

// setCount records a new stack count. Zero removes the item.
func (inv *inventory) setCount(id string, count uint32) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if count == 0 {
		delete(inv.items, id)
		return
	}
	if e, ok := inv.items[id]; ok {
		inv.items[id] = e.WithCount(count)
	}
}

// absorb adds every cycle entry of a snapshot that is not already known.
func (inv *inventory) absorb(snap control.Snapshot) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for _, slot := range snap.Slots {
		for _, e := range slot.Entries {
			if _, ok := inv.items[e.ID]; !ok && e.ID != types.UnarmedID {
				inv.items[e.ID] = e
			}
		}
	}
}
