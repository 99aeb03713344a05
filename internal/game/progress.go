package game

// Level-up and breakthrough growth factors.
const (
	expGrowthFactor         = 1.2
	cultivationGrowthFactor = 1.5

	levelUpHealthGain = 20
	levelUpManaGain   = 10
	levelUpStatGain   = 2
)

// LevelUpResult reports the outcome of one or more level ups.
type LevelUpResult struct {
	NewLevel     int `json:"newLevel"`
	HealthGain   int `json:"healthIncrease"`
	ManaGain     int `json:"manaIncrease"`
	StatIncrease int `json:"statIncrease"`
}

// BreakthroughResult reports a cultivation stage advance.
type BreakthroughResult struct {
	NewStage     int `json:"newStage"`
	StatIncrease int `json:"statIncrease"`
}

// Heal raises current health by amount, clamped to max.
func (p *Player) Heal(amount int) {
	p.Health = min(p.MaxHealth, p.Health+amount)
}

// RestoreMana raises current mana by amount, clamped to max.
func (p *Player) RestoreMana(amount int) {
	p.Mana = min(p.MaxMana, p.Mana+amount)
}

// AddExperience grants experience and resolves any level ups, carrying
// surplus experience into the next level. Leveling restores health and
// mana to full. Returns nil if no level was gained.
func (p *Player) AddExperience(amount int) *LevelUpResult {
	p.Experience += amount

	var res *LevelUpResult
	for p.Experience >= p.ExperienceToNext {
		p.Experience -= p.ExperienceToNext
		p.Level++
		p.ExperienceToNext = int(float64(p.ExperienceToNext) * expGrowthFactor)

		p.Stats.Add(levelUpStatGain)
		p.MaxHealth += levelUpHealthGain
		p.Health = p.MaxHealth
		p.MaxMana += levelUpManaGain
		p.Mana = p.MaxMana

		if res == nil {
			res = &LevelUpResult{
				HealthGain:   levelUpHealthGain,
				ManaGain:     levelUpManaGain,
				StatIncrease: levelUpStatGain,
			}
		} else {
			res.HealthGain += levelUpHealthGain
			res.ManaGain += levelUpManaGain
			res.StatIncrease += levelUpStatGain
		}
		res.NewLevel = p.Level
	}
	return res
}

// AddCultivation grants cultivation progress and resolves a breakthrough
// when the stage requirement is met. A breakthrough resets progress,
// raises every stat by 2 per new stage, and scales the next requirement.
// Returns nil if no breakthrough occurred.
func (p *Player) AddCultivation(amount int) *BreakthroughResult {
	p.Cultivation.Progress += amount
	if p.Cultivation.Progress < p.Cultivation.ProgressToNext {
		return nil
	}

	p.Cultivation.Stage++
	p.Cultivation.Progress = 0
	p.Cultivation.ProgressToNext = int(float64(p.Cultivation.ProgressToNext) * cultivationGrowthFactor)

	gain := p.Cultivation.Stage * 2
	p.Stats.Add(gain)

	return &BreakthroughResult{
		NewStage:     p.Cultivation.Stage,
		StatIncrease: gain,
	}
}
