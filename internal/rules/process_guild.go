package rules

import (
	"encoding/json"
	"fmt"

	"github.com/tutien/tutien-server/internal/game"
)

// spiritStoneContributionWeight converts contributed spirit stones into
// contribution points.
const spiritStoneContributionWeight = 10

type joinGuildPayload struct {
	GuildId string `json:"guildId"`
}

func (pr *Processor) joinGuild(p *game.Player, payload json.RawMessage) (*Result, error) {
	var req joinGuildPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	if req.GuildId == "" {
		return nil, NewError(ReasonBadPayload, "guildId is required")
	}
	if p.Guild != nil {
		return nil, NewError(ReasonAlreadyPresent, "already in a guild")
	}

	p.Guild = &game.GuildRef{
		GuildId:  req.GuildId,
		Rank:     "Member",
		JoinDate: pr.now().UnixMilli(),
	}

	guild := *p.Guild
	return &Result{
		Message:     "Joined guild successfully",
		GuildUpdate: &guild,
	}, nil
}

type contributeGuildPayload struct {
	GoldAmount         int `json:"goldAmount"`
	SpiritStonesAmount int `json:"spiritStonesAmount"`
}

func (pr *Processor) contributeGuild(p *game.Player, payload json.RawMessage) (*Result, error) {
	var req contributeGuildPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	if req.GoldAmount < 0 || req.SpiritStonesAmount < 0 {
		return nil, NewError(ReasonBadPayload, "contribution amounts must not be negative")
	}
	if p.Guild == nil {
		return nil, NewError(ReasonNotInGuild, "not in a guild")
	}
	if p.Resources.Gold < req.GoldAmount || p.Resources.SpiritStones < req.SpiritStonesAmount {
		return nil, NewError(ReasonInsufficientResources, "insufficient resources")
	}

	p.Resources.Gold -= req.GoldAmount
	p.Resources.SpiritStones -= req.SpiritStonesAmount
	p.Guild.Contribution += req.GoldAmount + req.SpiritStonesAmount*spiritStoneContributionWeight
	p.Guild.LastContribution = pr.now().UnixMilli()

	guild := *p.Guild
	return &Result{
		Message:     "Guild contribution successful",
		GuildUpdate: &guild,
	}, nil
}

type purchasePremiumPayload struct {
	ItemId string `json:"itemId"`
}

func (pr *Processor) purchasePremium(p *game.Player, payload json.RawMessage) (*Result, error) {
	var req purchasePremiumPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	item, ok := pr.catalog.PremiumItems[req.ItemId]
	if !ok {
		return nil, NewError(ReasonItemNotFound, fmt.Sprintf("premium item %s not found", req.ItemId))
	}
	if p.Resources.KimNguyenBao < item.Price {
		return nil, NewError(ReasonInsufficientResources, "insufficient kim nguyên bảo")
	}

	p.Resources.KimNguyenBao -= item.Price

	balance := p.Resources.KimNguyenBao
	return &Result{
		Message: fmt.Sprintf("Purchased %s", item.Name),
		Balance: &balance,
	}, nil
}

type adminAddCurrencyPayload struct {
	Amount int `json:"amount"`
}

func (pr *Processor) adminAddCurrency(p *game.Player, payload json.RawMessage) (*Result, error) {
	var req adminAddCurrencyPayload
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, NewError(ReasonBadPayload, "amount must be positive")
	}

	p.Resources.KimNguyenBao += req.Amount

	balance := p.Resources.KimNguyenBao
	return &Result{
		Message: fmt.Sprintf("Added %d kim nguyên bảo", req.Amount),
		Balance: &balance,
	}, nil
}
