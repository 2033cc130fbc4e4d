package expedition

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// EventType tags log entries generated in the wasteland.
type EventType string

const (
	EventCombat         EventType = "combat"
	EventLootDiscovery  EventType = "loot_discovery"
	EventJunkScavenging EventType = "junk_scavenging"
	EventCapsFound      EventType = "caps_found"
	EventLocationFound  EventType = "location_found"
	EventNPCEncounter   EventType = "npc_encounter"
	EventRadiationZone  EventType = "radiation_zone"
	EventRecipeFound    EventType = "recipe_found"
	EventLevelUp        EventType = "level_up"
	EventStimpakUsed    EventType = "stimpak_used"
	EventRadawayUsed    EventType = "radaway_used"
	EventDeath          EventType = "death"
)

func ParseEventType(s string) (EventType, bool) {
	switch EventType(s) {
	case EventCombat, EventLootDiscovery, EventJunkScavenging, EventCapsFound,
		EventLocationFound, EventNPCEncounter, EventRadiationZone,
		EventRecipeFound, EventLevelUp, EventStimpakUsed, EventRadawayUsed,
		EventDeath:
		return EventType(s), true
	}
	return "", false
}

// Event is one append-only expedition log entry. Minute is relative to
// departure.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Type        EventType `json:"type"`
	Minute      int       `json:"minute"`
	Description string    `json:"description"`
	CapsGained  int       `json:"caps_gained,omitempty"`
	Damage      float64   `json:"damage,omitempty"`
	Rads        float64   `json:"rads,omitempty"`
	XPGained    int       `json:"xp_gained,omitempty"`
	ItemFound   string    `json:"item_found,omitempty"`
	Enemy       string    `json:"enemy,omitempty"`
	Location    string    `json:"location,omitempty"`
}

// Enemy describes a wasteland encounter opponent.
type Enemy struct {
	Name      string
	DamageMin int
	DamageMax int
	XPReward  int
	Radiates  bool
}

var (
	enemyRadroach    = Enemy{Name: "Radroach", DamageMin: 2, DamageMax: 4, XPReward: 5}
	enemyBloatfly    = Enemy{Name: "Bloatfly", DamageMin: 2, DamageMax: 5, XPReward: 8}
	enemyMoleRat     = Enemy{Name: "Mole Rat", DamageMin: 4, DamageMax: 8, XPReward: 15}
	enemyFeralGhoul  = Enemy{Name: "Feral Ghoul", DamageMin: 8, DamageMax: 12, XPReward: 25, Radiates: true}
	enemyRaider      = Enemy{Name: "Raider", DamageMin: 6, DamageMax: 15, XPReward: 30}
	enemyWildDog     = Enemy{Name: "Wild Dog", DamageMin: 5, DamageMax: 10, XPReward: 20}
	enemyRadscorpion = Enemy{Name: "Radscorpion", DamageMin: 10, DamageMax: 18, XPReward: 40, Radiates: true}
	enemySupermutant = Enemy{Name: "Super Mutant", DamageMin: 12, DamageMax: 20, XPReward: 50}
	enemyDeathclaw   = Enemy{Name: "Deathclaw", DamageMin: 20, DamageMax: 35, XPReward: 100}
)

// enemyPool gates the roster by hours in the field; tougher enemies appear
// the longer the trip runs.
func enemyPool(minute int) []Enemy {
	hours := float64(minute) / 60.0
	switch {
	case hours < 1:
		return []Enemy{enemyRadroach, enemyBloatfly, enemyMoleRat}
	case hours < 3:
		return []Enemy{enemyRadroach, enemyMoleRat, enemyFeralGhoul, enemyRaider, enemyWildDog}
	case hours < 6:
		return []Enemy{enemyFeralGhoul, enemyRaider, enemyRadscorpion, enemySupermutant}
	default:
		return []Enemy{
			enemyRadroach, enemyBloatfly, enemyMoleRat, enemyFeralGhoul,
			enemyRaider, enemyWildDog, enemyRadscorpion, enemySupermutant,
			enemyDeathclaw,
		}
	}
}

// RandomEnemy picks from the time-gated pool.
func RandomEnemy(minute int) Enemy {
	pool := enemyPool(minute)
	return pool[rand.IntN(len(pool))]
}

var locations = []string{
	"Abandoned Factory", "Old Hospital", "Military Bunker",
	"Ruined School", "Collapsed Subway", "Forgotten Vault",
	"Raider Camp", "Trading Post", "Research Facility",
}

var recipeKinds = []string{"weapon", "outfit", "theme"}

var lootKinds = []string{"weapon", "outfit"}

// RollEventType draws the next random event category. Luck skews the roll
// toward loot discoveries.
func RollEventType(luck int) EventType {
	roll := 1 + rand.IntN(100)
	switch {
	case roll <= 25:
		return EventCombat
	case roll <= 40:
		return EventCapsFound
	case roll <= 55:
		return EventJunkScavenging
	case roll <= 70+luck:
		return EventLootDiscovery
	case roll <= 80:
		return EventNPCEncounter
	case roll <= 88:
		return EventRadiationZone
	case roll <= 95:
		return EventLocationFound
	default:
		return EventRecipeFound
	}
}

// GenerateEvent rolls one random event and resolves it against the
// expedition. Only exploring trips generate events.
func GenerateEvent(e *Expedition, minute int) (Event, bool) {
	if e.Status != StatusExploring {
		return Event{}, false
	}
	return resolveEvent(e, RollEventType(e.Luck), minute)
}

// GenerateForcedEvent resolves a specific event type, used for the scripted
// minute-60 loot beat.
func GenerateForcedEvent(e *Expedition, t EventType, minute int) (Event, bool) {
	if e.Status != StatusExploring {
		return Event{}, false
	}
	return resolveEvent(e, t, minute)
}

func resolveEvent(e *Expedition, t EventType, minute int) (Event, bool) {
	switch t {
	case EventCombat:
		return combatEvent(e, minute), true
	case EventLootDiscovery:
		return lootEvent(e, minute), true
	case EventJunkScavenging:
		return junkEvent(e, minute), true
	case EventCapsFound:
		return capsEvent(e, minute), true
	case EventNPCEncounter:
		return npcEvent(e, minute), true
	case EventRadiationZone:
		return radiationEvent(e, minute), true
	case EventLocationFound:
		return locationEvent(e, minute), true
	case EventRecipeFound:
		return recipeEvent(e, minute), true
	}
	return Event{}, false
}

func combatEvent(e *Expedition, minute int) Event {
	enemy := RandomEnemy(minute)
	damage := float64(enemy.DamageMin + rand.IntN(enemy.DamageMax-enemy.DamageMin+1))
	caps := 5 + rand.IntN(21)

	e.TakeDamage(damage, minute)
	if enemy.Radiates {
		e.TakeRadiation(float64(2+rand.IntN(7)), minute)
	}
	e.AddXP(enemy.XPReward, minute)
	e.AddCaps(caps)

	ev := Event{
		Type:        EventCombat,
		Minute:      minute,
		Description: fmt.Sprintf("Encountered a %s. Defeated it and found %d caps.", enemy.Name, caps),
		CapsGained:  caps,
		Damage:      damage,
		XPGained:    enemy.XPReward,
		Enemy:       enemy.Name,
	}
	e.log(ev)
	return ev
}

func lootEvent(e *Expedition, minute int) Event {
	if e.InventoryFull() {
		return capsEvent(e, minute)
	}
	quality := 1 + rand.IntN(100) + e.Luck*2
	rarity := "common"
	switch {
	case quality >= 95:
		rarity = "legendary"
	case quality >= 75:
		rarity = "rare"
	}
	kind := lootKinds[rand.IntN(len(lootKinds))]
	e.AddItem()

	ev := Event{
		Type:        EventLootDiscovery,
		Minute:      minute,
		Description: fmt.Sprintf("Found a %s %s in an abandoned building!", rarity, kind),
		ItemFound:   rarity + " " + kind,
	}
	e.log(ev)
	return ev
}

func junkEvent(e *Expedition, minute int) Event {
	if e.InventoryFull() {
		return capsEvent(e, minute)
	}
	count := 1 + rand.IntN(3)
	for i := 0; i < count && !e.InventoryFull(); i++ {
		e.AddItem()
	}
	ev := Event{
		Type:        EventJunkScavenging,
		Minute:      minute,
		Description: fmt.Sprintf("Scavenged %d pieces of junk from the ruins.", count),
	}
	e.log(ev)
	return ev
}

func capsEvent(e *Expedition, minute int) Event {
	caps := 10 + rand.IntN(41) + e.Luck*3
	e.AddCaps(caps)
	ev := Event{
		Type:        EventCapsFound,
		Minute:      minute,
		Description: fmt.Sprintf("Found %d caps in an old cash register.", caps),
		CapsGained:  caps,
	}
	e.log(ev)
	return ev
}

func npcEvent(e *Expedition, minute int) Event {
	outcome := 1 + rand.IntN(100) + e.Charisma*3
	ev := Event{Type: EventNPCEncounter, Minute: minute}
	switch {
	case outcome >= 80:
		caps := 20 + rand.IntN(31)
		e.AddCaps(caps)
		ev.CapsGained = caps
		ev.Description = fmt.Sprintf("Met a friendly trader. Traded some goods for %d caps.", caps)
	case outcome >= 50:
		ev.Description = "Met a wastelander who shared some survival tips."
	default:
		ev.Description = "Spotted a suspicious group and avoided them."
	}
	e.log(ev)
	return ev
}

func radiationEvent(e *Expedition, minute int) Event {
	if e.RadImmune {
		ev := Event{
			Type:        EventRadiationZone,
			Minute:      minute,
			Description: "Passed through a radiation zone unaffected.",
		}
		e.log(ev)
		return ev
	}
	rads := float64(5 + rand.IntN(11))
	e.TakeRadiation(rads, minute)
	ev := Event{
		Type:        EventRadiationZone,
		Minute:      minute,
		Description: fmt.Sprintf("Entered a radiation zone and took %d rads.", int(rads)),
		Rads:        rads,
	}
	e.log(ev)
	return ev
}

func locationEvent(e *Expedition, minute int) Event {
	loc := locations[rand.IntN(len(locations))]
	ev := Event{
		Type:        EventLocationFound,
		Minute:      minute,
		Description: "Discovered a new location: " + loc,
		Location:    loc,
	}
	e.log(ev)
	return ev
}

func recipeEvent(e *Expedition, minute int) Event {
	kind := recipeKinds[rand.IntN(len(recipeKinds))]
	ev := Event{
		Type:        EventRecipeFound,
		Minute:      minute,
		Description: fmt.Sprintf("Found a %s crafting recipe!", kind),
		ItemFound:   kind + " recipe",
	}
	e.log(ev)
	return ev
}
