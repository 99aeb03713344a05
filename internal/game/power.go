package game

// Companion contribution weights. Power is computed in exactly one place
// so every surface (summaries, leaderboards, ops) reports the same value.
const (
	petPowerWeight       = 0.3
	wifePowerWeight      = 0.2
	affinityLevelPowerUp = 10
)

// Power returns the player's derived total power: base stats plus a
// fraction of each companion's stats plus the wife affinity bonus.
func (p *Player) Power() int {
	power := p.Stats.Sum()

	if p.Pet != nil {
		power += int(float64(p.Pet.Stats.Sum()) * petPowerWeight)
	}
	if p.Wife != nil {
		power += int(float64(p.Wife.Stats.Sum()) * wifePowerWeight)
		power += p.Wife.Affinity.Level * affinityLevelPowerUp
	}

	return power
}

// Summary is the lightweight state broadcast to a room after every
// successful command.
type Summary struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Level     int    `json:"level"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"maxHealth"`
	Power     int    `json:"power"`
}

// Summary returns the player's broadcastable state summary.
func (p *Player) Summary() Summary {
	return Summary{
		Id:        p.Id,
		Name:      p.Name,
		Level:     p.Level,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Power:     p.Power(),
	}
}
