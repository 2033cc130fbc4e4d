package vault

import "vaultown/internal/domain/dweller"

// RoomCategory groups room types by what they do.
type RoomCategory string

const (
	CategoryProduction     RoomCategory = "production"
	CategoryTraining       RoomCategory = "training"
	CategoryMedical        RoomCategory = "medical"
	CategoryCrafting       RoomCategory = "crafting"
	CategorySpecial        RoomCategory = "special"
	CategoryInfrastructure RoomCategory = "infrastructure"
)

// RoomType identifies a buildable (or built-in) room.
type RoomType string

const (
	RoomVaultDoor RoomType = "vault_door"
	RoomElevator  RoomType = "elevator"

	RoomPowerGenerator    RoomType = "power_generator"
	RoomNuclearReactor    RoomType = "nuclear_reactor"
	RoomDiner             RoomType = "diner"
	RoomGarden            RoomType = "garden"
	RoomWaterTreatment    RoomType = "water_treatment"
	RoomWaterPurification RoomType = "water_purification"
	RoomNukaCola          RoomType = "nuka_cola"

	RoomWeightRoom    RoomType = "weight_room"
	RoomArmory        RoomType = "armory"
	RoomFitnessRoom   RoomType = "fitness_room"
	RoomLounge        RoomType = "lounge"
	RoomClassroom     RoomType = "classroom"
	RoomAthleticsRoom RoomType = "athletics_room"
	RoomGameRoom      RoomType = "game_room"

	RoomMedbay     RoomType = "medbay"
	RoomScienceLab RoomType = "science_lab"

	RoomLivingQuarters  RoomType = "living_quarters"
	RoomStorageRoom     RoomType = "storage_room"
	RoomRadioStudio     RoomType = "radio_studio"
	RoomOverseersOffice RoomType = "overseers_office"
	RoomBarbershop      RoomType = "barbershop"

	RoomWeaponWorkshop RoomType = "weapon_workshop"
	RoomOutfitWorkshop RoomType = "outfit_workshop"
	RoomThemeWorkshop  RoomType = "theme_workshop"
)

type roomTypeDef struct {
	name        string
	category    RoomCategory
	primaryStat dweller.Stat // empty when no stat drives the room
	produces    Resource     // empty for non-production rooms
	foodAndWater bool
	unlockPop   int
	baseCost    int
}

var roomTypeDefs = map[RoomType]roomTypeDef{
	RoomVaultDoor: {name: "Vault Door", category: CategoryInfrastructure},
	RoomElevator:  {name: "Elevator", category: CategoryInfrastructure, baseCost: 100},

	RoomPowerGenerator:    {name: "Power Generator", category: CategoryProduction, primaryStat: dweller.Strength, produces: ResourcePower, baseCost: 100},
	RoomNuclearReactor:    {name: "Nuclear Reactor", category: CategoryProduction, primaryStat: dweller.Strength, produces: ResourcePower, unlockPop: 60, baseCost: 1200},
	RoomDiner:             {name: "Diner", category: CategoryProduction, primaryStat: dweller.Agility, produces: ResourceFood, baseCost: 100},
	RoomGarden:            {name: "Garden", category: CategoryProduction, primaryStat: dweller.Agility, produces: ResourceFood, unlockPop: 70, baseCost: 300},
	RoomWaterTreatment:    {name: "Water Treatment", category: CategoryProduction, primaryStat: dweller.Perception, produces: ResourceWater, baseCost: 100},
	RoomWaterPurification: {name: "Water Purification", category: CategoryProduction, primaryStat: dweller.Perception, produces: ResourceWater, unlockPop: 80, baseCost: 400},
	RoomNukaCola:          {name: "Nuka-Cola Bottler", category: CategoryProduction, primaryStat: dweller.Endurance, foodAndWater: true, unlockPop: 100, baseCost: 3000},

	RoomWeightRoom:    {name: "Weight Room", category: CategoryTraining, primaryStat: dweller.Strength, unlockPop: 24, baseCost: 400},
	RoomArmory:        {name: "Armory", category: CategoryTraining, primaryStat: dweller.Perception, unlockPop: 35, baseCost: 500},
	RoomFitnessRoom:   {name: "Fitness Room", category: CategoryTraining, primaryStat: dweller.Endurance, unlockPop: 35, baseCost: 500},
	RoomLounge:        {name: "Lounge", category: CategoryTraining, primaryStat: dweller.Charisma, unlockPop: 30, baseCost: 450},
	RoomClassroom:     {name: "Classroom", category: CategoryTraining, primaryStat: dweller.Intelligence, unlockPop: 24, baseCost: 400},
	RoomAthleticsRoom: {name: "Athletics Room", category: CategoryTraining, primaryStat: dweller.Agility, unlockPop: 35, baseCost: 500},
	RoomGameRoom:      {name: "Game Room", category: CategoryTraining, primaryStat: dweller.Luck, unlockPop: 40, baseCost: 600},

	RoomMedbay:     {name: "Medbay", category: CategoryMedical, primaryStat: dweller.Intelligence, unlockPop: 14, baseCost: 400},
	RoomScienceLab: {name: "Science Lab", category: CategoryMedical, primaryStat: dweller.Intelligence, unlockPop: 16, baseCost: 400},

	RoomLivingQuarters:  {name: "Living Quarters", category: CategorySpecial, primaryStat: dweller.Charisma, baseCost: 100},
	RoomStorageRoom:     {name: "Storage Room", category: CategorySpecial, unlockPop: 12, baseCost: 150},
	RoomRadioStudio:     {name: "Radio Studio", category: CategorySpecial, primaryStat: dweller.Charisma, unlockPop: 20, baseCost: 600},
	RoomOverseersOffice: {name: "Overseer's Office", category: CategorySpecial, unlockPop: 18, baseCost: 1000},
	RoomBarbershop:      {name: "Barbershop", category: CategorySpecial, unlockPop: 50, baseCost: 300},

	RoomWeaponWorkshop: {name: "Weapon Workshop", category: CategoryCrafting, unlockPop: 22, baseCost: 800},
	RoomOutfitWorkshop: {name: "Outfit Workshop", category: CategoryCrafting, unlockPop: 32, baseCost: 800},
	RoomThemeWorkshop:  {name: "Theme Workshop", category: CategoryCrafting, unlockPop: 42, baseCost: 500},
}

// ParseRoomType validates a stored type string. ok is false for unknown
// values; callers skip the record and log instead of failing the batch.
func ParseRoomType(s string) (RoomType, bool) {
	if _, ok := roomTypeDefs[RoomType(s)]; !ok {
		return "", false
	}
	return RoomType(s), true
}

// Name is the display name.
func (t RoomType) Name() string { return roomTypeDefs[t].name }

// Category of the room type.
func (t RoomType) Category() RoomCategory { return roomTypeDefs[t].category }

// PrimaryStat driving this room's efficiency; ok is false when none does.
func (t RoomType) PrimaryStat() (dweller.Stat, bool) {
	def := roomTypeDefs[t]
	return def.primaryStat, def.primaryStat != ""
}

// Produces returns the resource a production room generates; ok is false
// for non-production rooms and the Nuka-Cola bottler.
func (t RoomType) Produces() (Resource, bool) {
	def := roomTypeDefs[t]
	return def.produces, def.produces != ""
}

// ProducesFoodAndWater reports whether the room splits output between food
// and water.
func (t RoomType) ProducesFoodAndWater() bool { return roomTypeDefs[t].foodAndWater }

// IsProduction reports whether the room generates resources.
func (t RoomType) IsProduction() bool { return t.Category() == CategoryProduction }

// IsInfrastructure reports whether the room is the door or an elevator.
func (t RoomType) IsInfrastructure() bool { return t.Category() == CategoryInfrastructure }

// UnlockPopulation is the minimum vault population to build this type.
func (t RoomType) UnlockPopulation() int { return roomTypeDefs[t].unlockPop }

// BaseBuildCost in caps for a single-width, level-1 room.
func (t RoomType) BaseBuildCost() int { return roomTypeDefs[t].baseCost }

// Buildable reports whether players can construct this type. The vault door
// comes pre-built and can only be upgraded.
func (t RoomType) Buildable() bool { return t != RoomVaultDoor }

// CanMerge reports whether adjacent same-type rooms combine into one.
func (t RoomType) CanMerge() bool {
	return t != RoomVaultDoor && t != RoomOverseersOffice
}

// Capacity is the dweller capacity at the given width.
func (t RoomType) Capacity(width int) int {
	switch t {
	case RoomVaultDoor:
		return 2
	case RoomOverseersOffice:
		return 3
	case RoomLivingQuarters:
		return width * 8
	default:
		return width * 2
	}
}

// PowerConsumption per minute. Elevators draw nothing.
func (t RoomType) PowerConsumption(width, level int) int {
	if t == RoomElevator {
		return 0
	}
	return width * level
}

// AvailableRoomTypes lists everything buildable at the given population.
func AvailableRoomTypes(population int) []RoomType {
	out := make([]RoomType, 0, len(roomTypeDefs))
	for t, def := range roomTypeDefs {
		if t.Buildable() && def.unlockPop <= population {
			out = append(out, t)
		}
	}
	return out
}
