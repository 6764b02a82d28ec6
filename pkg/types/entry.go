package types

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// EntryKind is the visual and behavioral category of an entry. Knowing the
// kind tells us almost everything we need to know about how to use it.
//
// The numeric values are written to save payloads, so new kinds must be
// appended at the end.
type EntryKind uint8

// Entry kinds.
const (
	KindAlteration EntryKind = iota
	KindArmorClothing
	KindArmorHeavy
	KindArmorLight
	KindArrow
	KindAxeOneHanded
	KindAxeTwoHanded
	KindBow
	KindClaw
	KindConjuration
	KindCrossbow
	KindDagger
	KindDefaultPotion
	KindDestructionFire
	KindDestructionFrost
	KindDestructionShock
	KindDestruction
	KindFood
	KindHalberd
	KindHandToHand
	KindIconDefault
	KindIllusion
	KindKatana
	KindMace
	KindPike
	KindPoisonDefault
	KindPotionFireResist
	KindPotionFrostResist
	KindPotionHealth
	KindPotionMagicka
	KindPotionShockResist
	KindPotionStamina
	KindPower
	KindQuarterStaff
	KindRapier
	KindRestoration
	KindScroll
	KindShield
	KindShout
	KindSpellDefault
	KindStaff
	KindSwordOneHanded
	KindSwordTwoHanded
	KindTorch
	KindWhip

	numKinds
)

// Category groups entry kinds by how they are used.
type Category uint8

// Entry categories.
const (
	CategoryMisc Category = iota
	CategoryWeapon
	CategoryRanged
	CategoryMagic
	CategoryPower
	CategoryConsumable
	CategoryScroll
	CategoryArmor
	CategoryOffhand
	CategoryAmmo
)

type kindInfo struct {
	name      string
	category  Category
	twoHanded bool
}

var kinds = [numKinds]kindInfo{
	KindAlteration:        {"alteration", CategoryMagic, false},
	KindArmorClothing:     {"armor_clothing", CategoryArmor, false},
	KindArmorHeavy:        {"armor_heavy", CategoryArmor, false},
	KindArmorLight:        {"armor_light", CategoryArmor, false},
	KindArrow:             {"arrow", CategoryAmmo, false},
	KindAxeOneHanded:      {"axe_one_handed", CategoryWeapon, false},
	KindAxeTwoHanded:      {"axe_two_handed", CategoryWeapon, true},
	KindBow:               {"bow", CategoryRanged, true},
	KindClaw:              {"claw", CategoryWeapon, false},
	KindConjuration:       {"conjuration", CategoryMagic, false},
	KindCrossbow:          {"crossbow", CategoryRanged, true},
	KindDagger:            {"dagger", CategoryWeapon, false},
	KindDefaultPotion:     {"default_potion", CategoryConsumable, false},
	KindDestructionFire:   {"destruction_fire", CategoryMagic, false},
	KindDestructionFrost:  {"destruction_frost", CategoryMagic, false},
	KindDestructionShock:  {"destruction_shock", CategoryMagic, false},
	KindDestruction:       {"destruction", CategoryMagic, false},
	KindFood:              {"food", CategoryConsumable, false},
	KindHalberd:           {"halberd", CategoryWeapon, true},
	KindHandToHand:        {"hand_to_hand", CategoryWeapon, false},
	KindIconDefault:       {"icon_default", CategoryMisc, false},
	KindIllusion:          {"illusion", CategoryMagic, false},
	KindKatana:            {"katana", CategoryWeapon, false},
	KindMace:              {"mace", CategoryWeapon, false},
	KindPike:              {"pike", CategoryWeapon, true},
	KindPoisonDefault:     {"poison_default", CategoryConsumable, false},
	KindPotionFireResist:  {"potion_fire_resist", CategoryConsumable, false},
	KindPotionFrostResist: {"potion_frost_resist", CategoryConsumable, false},
	KindPotionHealth:      {"potion_health", CategoryConsumable, false},
	KindPotionMagicka:     {"potion_magicka", CategoryConsumable, false},
	KindPotionShockResist: {"potion_shock_resist", CategoryConsumable, false},
	KindPotionStamina:     {"potion_stamina", CategoryConsumable, false},
	KindPower:             {"power", CategoryPower, false},
	KindQuarterStaff:      {"quarter_staff", CategoryWeapon, true},
	KindRapier:            {"rapier", CategoryWeapon, false},
	KindRestoration:       {"restoration", CategoryMagic, false},
	KindScroll:            {"scroll", CategoryScroll, false},
	KindShield:            {"shield", CategoryOffhand, false},
	KindShout:             {"shout", CategoryPower, false},
	KindSpellDefault:      {"spell_default", CategoryMagic, false},
	KindStaff:             {"staff", CategoryWeapon, false},
	KindSwordOneHanded:    {"sword_one_handed", CategoryWeapon, false},
	KindSwordTwoHanded:    {"sword_two_handed", CategoryWeapon, true},
	KindTorch:             {"torch", CategoryOffhand, false},
	KindWhip:              {"whip", CategoryWeapon, false},
}

// kindsByName is the reverse of kinds, built once for ParseKind.
var kindsByName = func() map[string]EntryKind {
	m := make(map[string]EntryKind, numKinds)
	for k, info := range kinds {
		m[info.name] = EntryKind(k)
	}
	return m
}()

// Valid reports whether k is one of the defined kinds.
func (k EntryKind) Valid() bool {
	return k < numKinds
}

// String returns the snake_case name of the kind.
func (k EntryKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kinds[k].name
}

// Category returns the usage category of the kind.
func (k EntryKind) Category() Category {
	if !k.Valid() {
		return CategoryMisc
	}
	return kinds[k].category
}

// TwoHandedByDefault reports whether items of this kind occupy both hands
// unless the item says otherwise.
func (k EntryKind) TwoHandedByDefault() bool {
	return k.Valid() && kinds[k].twoHanded
}

// IconFile returns the icon file name used to draw entries of this kind.
func (k EntryKind) IconFile() string {
	if !k.Valid() {
		return kinds[KindIconDefault].name + ".svg"
	}
	return kinds[k].name + ".svg"
}

// MarshalText implements encoding.TextMarshaler.
func (k EntryKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, ErrInvalidKind
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EntryKind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind returns the kind with the given snake_case name.
func ParseKind(name string) (EntryKind, error) {
	k, ok := kindsByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, name)
	}
	return k, nil
}

// UnarmedID is the stable identifier the host reports for an empty hand.
const UnarmedID = "unarmed_proxy"

// MissingName is shown in place of an entry whose identifier no longer
// resolves.
const MissingName = "missing"

// ExtraData is per-query state of an entry: charge, poison, and time left.
// It is attached when an entry is looked up for display and is never stored
// in cycles, presets, or save payloads.
type ExtraData struct {
	HasCharge   bool
	MaxCharge   float32
	Charge      float32
	IsPoisoned  bool
	HasTimeLeft bool
	MaxTime     float32
	TimeLeft    float32
}

// ChargePercent returns the remaining charge in [0, 1], or 0 without charge.
func (x ExtraData) ChargePercent() float32 {
	if !x.HasCharge || x.MaxCharge <= 0 {
		return 0
	}
	return clampUnit(x.Charge / x.MaxCharge)
}

// TimePercent returns the remaining time in [0, 1], or 0 without a timer.
func (x ExtraData) TimePercent() float32 {
	if !x.HasTimeLeft || x.MaxTime <= 0 {
		return 0
	}
	return clampUnit(x.TimeLeft / x.MaxTime)
}

func clampUnit(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Entry is one selectable resource: a weapon, spell, power, potion, and so on.
// Entries are values; two entries are the same resource when their IDs match,
// whatever their names say.
type Entry struct {
	Kind      EntryKind `json:"kind" yaml:"kind"`
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Count     uint32    `json:"count,omitempty" yaml:"count,omitempty"`
	HasCount  bool      `json:"has_count,omitempty" yaml:"has_count,omitempty"`
	TwoHanded bool      `json:"two_handed,omitempty" yaml:"two_handed,omitempty"`

	// Extra is attached at query time and is never persisted.
	Extra ExtraData `json:"-" yaml:"-"`
}

// NewEntry returns an entry whose two-handedness defaults from its kind.
func NewEntry(kind EntryKind, id, name string) Entry {
	return Entry{
		Kind:      kind,
		ID:        id,
		Name:      name,
		TwoHanded: kind.TwoHandedByDefault(),
	}
}

// Unarmed returns the entry that stands for an empty hand.
func Unarmed() Entry {
	return Entry{Kind: KindHandToHand, ID: UnarmedID, Name: "Unarmed"}
}

// IconFile returns the icon file for this entry's kind.
func (e Entry) IconFile() string {
	return e.Kind.IconFile()
}

// SameAs reports whether e and other refer to the same resource.
func (e Entry) SameAs(other Entry) bool {
	return e.ID == other.ID
}

// WithCount returns a copy of e carrying the given stack count.
func (e Entry) WithCount(n uint32) Entry {
	e.Count = n
	e.HasCount = true
	return e
}

// WithExtra returns a copy of e carrying query-time extra data.
func (e Entry) WithExtra(x ExtraData) Entry {
	e.Extra = x
	return e
}

// MaxTextLen is the longest identifier or name, in bytes, a save payload can
// hold.
const MaxTextLen = math.MaxUint16

// ValidID reports whether id can identify an entry in a save: non-empty,
// valid UTF-8, and at most MaxTextLen bytes.
func ValidID(id string) bool {
	return id != "" && len(id) <= MaxTextLen && utf8.ValidString(id)
}

// Validate reports whether the entry can be placed in a cycle and written to
// a save unchanged, apart from invalid UTF-8 in the display name.
func (e Entry) Validate() error {
	if !ValidID(e.ID) {
		return ErrInvalidID
	}
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	if len(e.Name) > MaxTextLen {
		return ErrInvalidName
	}
	return nil
}
