package presets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

var melee = types.NewLoadout("", "sword", "shield", "")

func TestMeleePresetLifecycle(t *testing.T) {
	p := New()

	id := p.Create("Melee", melee)
	require.Equal(t, uint32(1), id)

	assert.True(t, p.Rename(1, "Melee Build"))
	assert.Equal(t, []string{"Melee Build"}, p.Names())

	assert.True(t, p.Remove(1))
	_, ok := p.ByName("Melee Build")
	assert.False(t, ok)
}

func TestIDsAreNeverReused(t *testing.T) {
	p := New()
	a := p.Create("a", melee)
	b := p.Create("b", melee)
	require.True(t, p.Remove(b))
	c := p.Create("c", melee)

	assert.Equal(t, uint32(1), a)
	assert.Equal(t, uint32(2), b)
	assert.Equal(t, uint32(3), c)
	assert.Equal(t, []uint32{1, 3}, p.IDs())
	assert.Equal(t, []string{"a", "c"}, p.Names())
	assert.Equal(t, uint32(4), p.NextID())
}

func TestByNameReturnsFirstMatch(t *testing.T) {
	p := New()
	p.Create("Archer", melee)
	first := p.Create("Mage", melee)
	p.Create("Mage", types.Loadout{})

	got, ok := p.ByName("Mage")
	require.True(t, ok)
	assert.Equal(t, first, got)

	_, ok = p.ByName("mage")
	assert.False(t, ok, "names match exactly")
}

func TestFailedPreconditionsAreNoOps(t *testing.T) {
	p := New()
	p.Create("one", melee)
	before := p.Clone()

	assert.False(t, p.Update(9, types.Loadout{}))
	assert.False(t, p.Rename(9, "nine"))
	assert.False(t, p.Remove(9))
	assert.False(t, p.SetIcon(9, "sword"))

	assert.Equal(t, before.All(), p.All())
	assert.Equal(t, before.NextID(), p.NextID())
}

func TestUpdateKeepsNameAndIcon(t *testing.T) {
	p := New()
	id := p.Create("Tank", melee)
	require.True(t, p.SetIcon(id, "shield"))

	next := types.NewLoadout("fus", "", "greatsword", "potion")
	require.True(t, p.Update(id, next))

	got, ok := p.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Tank", got.Name)
	assert.Equal(t, "shield", got.Icon)
	assert.Equal(t, next, got.Loadout)
}

func TestSetIconClears(t *testing.T) {
	p := New()
	id := p.Create("Tank", melee)
	require.True(t, p.SetIcon(id, "shield"))
	require.True(t, p.SetIcon(id, ""))
	got, _ := p.Get(id)
	assert.False(t, got.HasIcon())
}

func TestIndexToID(t *testing.T) {
	p := New()
	p.Create("a", melee)
	p.Create("b", melee)
	p.Remove(1)
	p.Create("c", melee)

	id, ok := p.IndexToID(0)
	require.True(t, ok)
	assert.Equal(t, uint32(2), id)
	id, ok = p.IndexToID(1)
	require.True(t, ok)
	assert.Equal(t, uint32(3), id)
	_, ok = p.IndexToID(2)
	assert.False(t, ok)
	_, ok = p.IndexToID(-1)
	assert.False(t, ok)
}

func TestRestore(t *testing.T) {
	sets := []types.Preset{{ID: 2, Name: "b"}, {ID: 5, Name: "e", Icon: "sword"}}

	p, ok := Restore(6, sets)
	require.True(t, ok)
	assert.Equal(t, []uint32{2, 5}, p.IDs())
	assert.Equal(t, uint32(6), p.Create("f", melee))

	_, ok = Restore(5, sets)
	assert.False(t, ok, "ID at or above nextID")
	_, ok = Restore(6, []types.Preset{{ID: 2}, {ID: 2}})
	assert.False(t, ok, "duplicate ID")
	_, ok = Restore(6, []types.Preset{{ID: 0}})
	assert.False(t, ok, "zero ID")
	_, ok = Restore(0, nil)
	assert.False(t, ok)
}

func TestRejectsValuesSavesCannotHold(t *testing.T) {
	long := strings.Repeat("x", types.MaxTextLen+1)
	badLoadout := types.NewLoadout("", "a\xff", "", "")

	p := New()
	assert.Zero(t, p.Create(long, melee))
	assert.Zero(t, p.Create("bad", badLoadout))
	assert.Zero(t, p.Len())
	assert.Equal(t, uint32(1), p.NextID(), "rejected creates do not consume IDs")

	id := p.Create("ok", melee)
	assert.False(t, p.Rename(id, long))
	assert.False(t, p.Update(id, badLoadout))
	assert.False(t, p.SetIcon(id, "a\xfe"))
	got, _ := p.Get(id)
	assert.Equal(t, types.Preset{ID: id, Name: "ok", Loadout: melee}, got)

	_, ok := Restore(2, []types.Preset{{ID: 1, Loadout: badLoadout}})
	assert.False(t, ok)
	_, ok = Restore(2, []types.Preset{{ID: 1, Icon: "a\xff"}})
	assert.False(t, ok)
}

func TestCreateStopsAtMaxPresets(t *testing.T) {
	sets := make([]types.Preset, MaxPresets)
	for i := range sets {
		sets[i] = types.Preset{ID: uint32(i + 1), Name: "p"}
	}
	p, ok := Restore(MaxPresets+1, sets)
	require.True(t, ok)
	assert.Zero(t, p.Create("one more", melee))
	assert.Equal(t, MaxPresets, p.Len())

	require.True(t, p.Remove(1))
	assert.Equal(t, uint32(MaxPresets+1), p.Create("fits", melee))
}
