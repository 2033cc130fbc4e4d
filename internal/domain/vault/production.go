package vault

import (
	"sort"

	"vaultown/internal/domain/dweller"
)

// Crew is the set of dwellers working one room.
type Crew []dweller.Dweller

// TotalStat sums a stat over the crew.
func (c Crew) TotalStat(stat dweller.Stat) int {
	total := 0
	for i := range c {
		total += c[i].Stats.Get(stat)
	}
	return total
}

// AvgHappiness over the crew; zero for an empty crew.
func (c Crew) AvgHappiness() float64 {
	if len(c) == 0 {
		return 0
	}
	sum := 0.0
	for i := range c {
		sum += c[i].Happiness
	}
	return sum / float64(len(c))
}

// PowerBalanceResult reports what a power settlement did.
type PowerBalanceResult struct {
	ProductionPerMinute  float64
	ConsumptionPerMinute float64
	NetChange            float64
	// RoomsChanged lists indices into the rooms slice whose HasPower
	// flag flipped and must be persisted.
	RoomsChanged []int
}

// SettlePowerBalance applies one power tick: production from powered,
// crewed power rooms minus consumption from every non-elevator room, scaled
// by elapsed minutes, clamped into the vault's buffer. When the buffer is
// empty the deepest half of non-infrastructure rooms browns out; while it
// holds any charge every room is powered.
func SettlePowerBalance(v *Vault, rooms []Room, crews map[int]Crew, elapsedMinutes float64) PowerBalanceResult {
	if elapsedMinutes < 0 {
		elapsedMinutes = 0
	}

	var res PowerBalanceResult
	for i := range rooms {
		res.ConsumptionPerMinute += float64(rooms[i].PowerConsumption())
	}

	for i := range rooms {
		room := &rooms[i]
		produces, ok := room.Type.Produces()
		if !ok || produces != ResourcePower || !room.HasPower {
			continue
		}
		crew := crews[i]
		if len(crew) == 0 {
			continue
		}
		base := baseProductionPerCycle[room.Level] * float64(room.Width)
		dwellerBonus := float64(len(crew)) * 5.0
		strengthBonus := float64(crew.TotalStat(dweller.Strength)) / 5.0
		happinessBonus := crew.AvgHappiness() / 100.0 * 2.0
		res.ProductionPerMinute += base + dwellerBonus + strengthBonus + happinessBonus
	}

	res.NetChange = (res.ProductionPerMinute - res.ConsumptionPerMinute) * elapsedMinutes
	v.Power = max(0, min(v.MaxPower, v.Power+res.NetChange))

	if v.Power > 0 {
		for i := range rooms {
			if !rooms[i].HasPower {
				rooms[i].HasPower = true
				res.RoomsChanged = append(res.RoomsChanged, i)
			}
		}
		return res
	}

	// Brownout: cut the deepest half first, infrastructure stays lit.
	order := make([]int, 0, len(rooms))
	for i := range rooms {
		if !rooms[i].Type.IsInfrastructure() {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool { return rooms[order[a]].Y > rooms[order[b]].Y })
	toCut := len(rooms) / 2
	for _, i := range order {
		if toCut <= 0 {
			break
		}
		if rooms[i].HasPower {
			rooms[i].HasPower = false
			res.RoomsChanged = append(res.RoomsChanged, i)
		}
		toCut--
	}
	return res
}

// ProductionYield is what one room credited during a settlement.
type ProductionYield struct {
	Resource     Resource
	Amount       float64
	FoodAndWater bool
	Cycles       int
}

// SettleProduction advances one production room by elapsedMinutes and
// credits completed cycles into the vault. Rooms without crew or power fall
// idle and lose partial progress. Multiple cycles can complete at once when
// catching up after downtime.
func SettleProduction(v *Vault, room *Room, crew Crew, elapsedMinutes float64) (ProductionYield, bool) {
	if !room.Type.IsProduction() {
		return ProductionYield{}, false
	}
	if elapsedMinutes < 0 {
		elapsedMinutes = 0
	}

	if len(crew) == 0 || !room.HasPower {
		if room.State != StateIdle {
			room.State = StateIdle
			room.Progress = 0
		}
		return ProductionYield{}, false
	}

	if room.State == StateIdle {
		room.State = StateProducing
		room.Progress = 0
	}

	totalStat := 0
	if stat, ok := room.Type.PrimaryStat(); ok {
		totalStat = crew.TotalStat(stat)
	}
	cycleMinutes := room.CycleTime(totalStat, crew.AvgHappiness()) / 60.0
	room.Progress += elapsedMinutes / cycleMinutes

	if room.Progress < 1.0 {
		return ProductionYield{}, false
	}

	cycles := int(room.Progress)
	room.Progress -= float64(cycles)
	amount := room.BaseProductionPerCycle() * float64(cycles)

	yield := ProductionYield{Amount: amount, Cycles: cycles}
	if room.Type.ProducesFoodAndWater() {
		yield.FoodAndWater = true
		v.Add(ResourceFood, amount/2)
		v.Add(ResourceWater, amount/2)
		return yield, true
	}
	res, ok := room.Type.Produces()
	if !ok {
		return ProductionYield{}, false
	}
	yield.Resource = res
	v.Add(res, amount)
	return yield, true
}

// ConsumptionResult reports stockpile depletion consequences.
type ConsumptionResult struct {
	FoodDepleted  bool
	WaterDepleted bool
	// HPDamage and Rads apply to every dweller in the vault this tick.
	HPDamage float64
	Rads     float64
}

// SettleConsumption drains food and water for the population and reports
// the vault-wide starvation penalties for this tick. Penalties apply on the
// tick a stockpile crosses zero and on every later tick it stays empty.
func SettleConsumption(v *Vault, population int, elapsedMinutes float64) ConsumptionResult {
	if elapsedMinutes < 0 {
		elapsedMinutes = 0
	}
	if population <= 0 {
		return ConsumptionResult{}
	}

	drain := ConsumptionPerDwellerPerMinute * float64(population) * elapsedMinutes
	v.Food = max(0, v.Food-drain)
	v.Water = max(0, v.Water-drain)

	var res ConsumptionResult
	if v.Food <= 0 {
		res.FoodDepleted = true
		res.HPDamage = StarvationHPPerMinute * elapsedMinutes
	}
	if v.Water <= 0 {
		res.WaterDepleted = true
		res.Rads = DehydrationRadsPerMinute * elapsedMinutes
	}
	return res
}
