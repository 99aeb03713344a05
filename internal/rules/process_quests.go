package rules

import (
	"encoding/json"
	"fmt"

	"github.com/tutien/tutien-server/internal/game"
)

// questComplete is the progress value at which a quest may be turned in.
const questComplete = 100

type questPayload struct {
	QuestId string `json:"questId"`
}

func (pr *Processor) acceptQuest(p *game.Player, payload json.RawMessage) (*Result, error) {
	var req questPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	quest, ok := pr.catalog.Quests[req.QuestId]
	if !ok {
		return nil, NewError(ReasonItemNotFound, fmt.Sprintf("quest %s not found", req.QuestId))
	}
	for _, aq := range p.ActiveQuests {
		if aq.QuestId == req.QuestId {
			return nil, NewError(ReasonAlreadyPresent, "quest already active")
		}
	}
	if p.Level < quest.RequiredLevel {
		return nil, NewError(ReasonPrerequisiteNotMet, fmt.Sprintf("requires level %d", quest.RequiredLevel))
	}

	p.ActiveQuests = append(p.ActiveQuests, game.ActiveQuest{
		QuestId:    req.QuestId,
		AcceptedAt: pr.now().UnixMilli(),
	})

	return &Result{
		Message: fmt.Sprintf("Quest accepted: %s", quest.Title),
		QuestUpdate: &QuestUpdate{
			QuestId: quest.Id,
			Title:   quest.Title,
		},
	}, nil
}

func (pr *Processor) completeQuest(p *game.Player, payload json.RawMessage) (*Result, error) {
	var req questPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	quest, ok := pr.catalog.Quests[req.QuestId]
	if !ok {
		return nil, NewError(ReasonItemNotFound, fmt.Sprintf("quest %s not found", req.QuestId))
	}

	idx := -1
	for i, aq := range p.ActiveQuests {
		if aq.QuestId == req.QuestId {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, NewError(ReasonQuestNotActive, "quest not active")
	}
	if p.ActiveQuests[idx].Progress < questComplete {
		return nil, NewError(ReasonQuestIncomplete, "quest not completed yet")
	}

	res := &Result{
		Message: fmt.Sprintf("Quest completed: %s", quest.Title),
		QuestUpdate: &QuestUpdate{
			QuestId:    quest.Id,
			Title:      quest.Title,
			Completed:  true,
			RewardExp:  quest.RewardExp,
			RewardGold: quest.RewardGold,
			Items:      quest.RewardItems,
		},
	}

	if quest.RewardExp > 0 {
		res.LevelUp = p.AddExperience(quest.RewardExp)
	}
	p.Resources.Gold += quest.RewardGold
	for _, stack := range quest.RewardItems {
		if !p.Inventory.Add(stack.ItemId, stack.Quantity, pr.inventoryCapacity) {
			return nil, NewError(ReasonCapacityExceeded, "inventory is full")
		}
	}

	p.ActiveQuests = append(p.ActiveQuests[:idx], p.ActiveQuests[idx+1:]...)
	return res, nil
}
