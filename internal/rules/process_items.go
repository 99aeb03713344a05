package rules

import (
	"encoding/json"
	"fmt"

	"github.com/tutien/tutien-server/internal/game"
)

type useItemPayload struct {
	ItemId string `json:"itemId"`
}

func (pr *Processor) useItem(p *game.Player, payload json.RawMessage) (*Result, error) {
	var req useItemPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	item, ok := pr.catalog.Items[req.ItemId]
	if !ok {
		return nil, NewError(ReasonItemNotFound, fmt.Sprintf("item %s not found", req.ItemId))
	}
	if p.Inventory.Quantity(req.ItemId) < 1 {
		return nil, NewError(ReasonItemNotOwned, fmt.Sprintf("%s is not in your inventory", item.Name))
	}

	res := &Result{Message: fmt.Sprintf("Used %s", item.Name)}

	switch item.Effect {
	case EffectHeal:
		p.Heal(item.Amount)
		res.HealthUpdate = &PoolUpdate{Current: p.Health, Max: p.MaxHealth}

	case EffectRestoreMana:
		p.RestoreMana(item.Amount)
		res.ManaUpdate = &PoolUpdate{Current: p.Mana, Max: p.MaxMana}

	case EffectAddGold:
		p.Resources.Gold += item.Amount
		resources := p.Resources
		res.ResourceUpdate = &resources

	case EffectAddExp:
		gain := p.Level * item.Multiplier
		res.LevelUp = p.AddExperience(gain)
		res.ExpUpdate = &ExpUpdate{Current: p.Experience, Gain: gain}

	case EffectAddCultivation:
		res.Breakthrough = p.AddCultivation(item.Amount)
		cultivation := p.Cultivation
		res.CultivationUpdate = &cultivation

	default:
		return nil, NewError(ReasonBadPayload, fmt.Sprintf("item %s has no usable effect", item.Id))
	}

	p.Inventory.Remove(req.ItemId, 1)
	return res, nil
}

type cultivatePayload struct {
	// Duration is the cultivation session length in seconds.
	Duration int `json:"duration"`
}

func (pr *Processor) cultivate(p *game.Player, payload json.RawMessage) (*Result, error) {
	var req cultivatePayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	if req.Duration <= 0 {
		return nil, NewError(ReasonBadPayload, "duration must be positive")
	}

	now := pr.now()
	if p.LastCultivation > 0 {
		elapsed := now.UnixMilli() - p.LastCultivation
		if elapsed < pr.cultivateCooldown.Milliseconds() {
			return nil, NewError(ReasonCooldownActive, "cultivation cooldown active")
		}
	}
	p.LastCultivation = now.UnixMilli()

	// One progress point per ten seconds spent cultivating.
	progress := req.Duration / 10
	if progress < 1 {
		progress = 1
	}

	res := &Result{Message: "Cultivation progress updated"}
	res.Breakthrough = p.AddCultivation(progress)
	cultivation := p.Cultivation
	res.CultivationUpdate = &cultivation
	if res.Breakthrough != nil {
		res.Message = fmt.Sprintf("Cultivation breakthrough! Reached stage %d", res.Breakthrough.NewStage)
	}
	return res, nil
}
