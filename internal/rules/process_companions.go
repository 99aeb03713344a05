package rules

import (
	"encoding/json"
	"fmt"

	"github.com/tutien/tutien-server/internal/game"
)

const (
	maxHappiness = 100
	maxMood      = 100

	petExpGrowthFactor = 1.2
	petStatGainFactor  = 0.1
)

// defaultGift applies when an unknown gift id is given; the original
// accepts any token as a minor gift rather than rejecting it.
var defaultGift = GiftEffect{Affinity: 20, Mood: 10}

type feedPetPayload struct {
	FoodType string `json:"foodType"`
}

func (pr *Processor) feedPet(p *game.Player, payload json.RawMessage) (*Result, error) {
	var req feedPetPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	if p.Pet == nil {
		return nil, NewError(ReasonPrerequisiteNotMet, "no pet to feed")
	}

	effect, ok := pr.catalog.Foods[req.FoodType]
	if !ok {
		effect = pr.catalog.Foods["basic_food"]
	}

	p.Pet.Happiness = min(maxHappiness, p.Pet.Happiness+effect.Happiness)
	p.Pet.Experience += effect.Exp
	p.Pet.LastFed = pr.now().UnixMilli()

	for p.Pet.Experience >= p.Pet.ExperienceToNext {
		p.Pet.Experience -= p.Pet.ExperienceToNext
		p.Pet.Level++
		p.Pet.ExperienceToNext = int(float64(p.Pet.ExperienceToNext) * petExpGrowthFactor)

		// Stat growth scales off the species base stats.
		if def, ok := pr.catalog.Pets[p.Pet.PetId]; ok {
			p.Pet.Stats.Attack += int(float64(def.BaseStats.Attack) * petStatGainFactor)
			p.Pet.Stats.Defense += int(float64(def.BaseStats.Defense) * petStatGainFactor)
			p.Pet.Stats.Speed += int(float64(def.BaseStats.Speed) * petStatGainFactor)
			p.Pet.Stats.Intelligence += int(float64(def.BaseStats.Intelligence) * petStatGainFactor)
			p.Pet.Stats.Luck += int(float64(def.BaseStats.Luck) * petStatGainFactor)
		}
	}

	pet := *p.Pet
	return &Result{
		Message:   fmt.Sprintf("Pet fed with %s", req.FoodType),
		PetUpdate: &pet,
	}, nil
}

type giveGiftPayload struct {
	GiftId string `json:"giftId"`
}

func (pr *Processor) giveGift(p *game.Player, payload json.RawMessage) (*Result, error) {
	var req giveGiftPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	if p.Wife == nil {
		return nil, NewError(ReasonPrerequisiteNotMet, "no wife to give a gift to")
	}

	effect, ok := pr.catalog.Gifts[req.GiftId]
	if !ok {
		effect = defaultGift
	}

	p.Wife.Affinity.Current = min(p.Wife.Affinity.Max, p.Wife.Affinity.Current+effect.Affinity)
	p.Wife.Mood = min(maxMood, p.Wife.Mood+effect.Mood)
	p.Wife.LastGift = pr.now().UnixMilli()

	wife := *p.Wife
	return &Result{
		Message:    fmt.Sprintf("Gift given: %s", req.GiftId),
		WifeUpdate: &wife,
	}, nil
}

type obtainPetPayload struct {
	PetId string `json:"petId"`
}

func (pr *Processor) obtainPet(p *game.Player, payload json.RawMessage) (*Result, error) {
	var req obtainPetPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	def, ok := pr.catalog.Pets[req.PetId]
	if !ok {
		return nil, NewError(ReasonItemNotFound, fmt.Sprintf("pet %s not found", req.PetId))
	}
	if p.Pet != nil {
		return nil, NewError(ReasonAlreadyPresent, "already has a pet")
	}

	p.Pet = &game.Pet{
		PetId:            def.Id,
		Name:             def.Name,
		Level:            1,
		ExperienceToNext: def.ExpToNext,
		Stats:            def.BaseStats,
		Happiness:        maxHappiness,
	}

	pet := *p.Pet
	return &Result{
		Message:   fmt.Sprintf("Obtained %s!", def.Name),
		PetUpdate: &pet,
	}, nil
}

type obtainWifePayload struct {
	WifeId string `json:"wifeId"`
}

func (pr *Processor) obtainWife(p *game.Player, payload json.RawMessage) (*Result, error) {
	var req obtainWifePayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	def, ok := pr.catalog.Wives[req.WifeId]
	if !ok {
		return nil, NewError(ReasonItemNotFound, fmt.Sprintf("wife %s not found", req.WifeId))
	}
	if p.Wife != nil {
		return nil, NewError(ReasonAlreadyPresent, "already has a wife")
	}

	p.Wife = &game.Wife{
		WifeId:           def.Id,
		Name:             def.Name,
		Level:            1,
		ExperienceToNext: def.ExpToNext,
		Stats:            def.BaseStats,
		Affinity:         game.Affinity{Max: def.AffinityMax},
		Mood:             maxMood,
	}

	wife := *p.Wife
	return &Result{
		Message:    fmt.Sprintf("Married %s!", def.Name),
		WifeUpdate: &wife,
	}, nil
}
