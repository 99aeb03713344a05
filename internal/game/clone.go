package game

import "maps"

// Clone returns a deep copy of the snapshot. The command processor
// mutates a clone and the coordinator swaps it in on success, which
// keeps failed commands from leaving a half-applied snapshot behind.
func (p *Player) Clone() *Player {
	cp := *p

	if p.Inventory != nil {
		inv := &Inventory{
			Items: append([]ItemStack(nil), p.Inventory.Items...),
		}
		if p.Inventory.Equipment != nil {
			inv.Equipment = maps.Clone(p.Inventory.Equipment)
		}
		cp.Inventory = inv
	}

	if p.Pet != nil {
		pet := *p.Pet
		cp.Pet = &pet
	}
	if p.Wife != nil {
		wife := *p.Wife
		cp.Wife = &wife
	}
	if p.Guild != nil {
		guild := *p.Guild
		cp.Guild = &guild
	}

	cp.ActiveQuests = append([]ActiveQuest(nil), p.ActiveQuests...)
	if p.Arena.LastMatchTime != nil {
		cp.Arena.LastMatchTime = maps.Clone(p.Arena.LastMatchTime)
	}

	return &cp
}
