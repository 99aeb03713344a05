package rules

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/tutien/tutien-server/internal/game"
)

func newTestProcessor(opts ...ProcessorOpt) *Processor {
	return NewProcessor(DefaultCatalog(), opts...)
}

func assertRuleError(t *testing.T, err error, reason Reason) {
	t.Helper()
	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Fatalf("expected rule error, got %v", err)
	}
	testutil.AssertEqual(t, "reason", rerr.Reason, reason)
}

func TestProcess_UseItem(t *testing.T) {
	tests := map[string]struct {
		setup     func(*game.Player)
		payload   string
		expReason Reason
		check     func(*testing.T, *game.Player, *Result)
	}{
		"heal potion raises health": {
			setup: func(p *game.Player) {
				p.Health = 10
				p.Inventory.Add("hp_potion_small", 1, 10)
			},
			payload: `{"itemId":"hp_potion_small"}`,
			check: func(t *testing.T, p *game.Player, res *Result) {
				testutil.AssertEqual(t, "health", p.Health, 60)
				testutil.AssertEqual(t, "update current", res.HealthUpdate.Current, 60)
				testutil.AssertEqual(t, "consumed", p.Inventory.Quantity("hp_potion_small"), 0)
			},
		},
		"gold pouch adds gold": {
			setup: func(p *game.Player) {
				p.Inventory.Add("gold_pouch", 2, 10)
			},
			payload: `{"itemId":"gold_pouch"}`,
			check: func(t *testing.T, p *game.Player, res *Result) {
				testutil.AssertEqual(t, "gold", p.Resources.Gold, game.StartingGold+100)
				testutil.AssertEqual(t, "update gold", res.ResourceUpdate.Gold, p.Resources.Gold)
				testutil.AssertEqual(t, "one consumed", p.Inventory.Quantity("gold_pouch"), 1)
			},
		},
		"experience pill scales with level": {
			setup: func(p *game.Player) {
				p.Level = 2
				p.ExperienceToNext = 1000
				p.Inventory.Add("experience_pill", 1, 10)
			},
			payload: `{"itemId":"experience_pill"}`,
			check: func(t *testing.T, p *game.Player, res *Result) {
				testutil.AssertEqual(t, "gain", res.ExpUpdate.Gain, 200)
				testutil.AssertEqual(t, "experience", p.Experience, 200)
			},
		},
		"unknown item": {
			setup:     func(p *game.Player) {},
			payload:   `{"itemId":"no_such_item"}`,
			expReason: ReasonItemNotFound,
		},
		"item not owned": {
			setup:     func(p *game.Player) {},
			payload:   `{"itemId":"hp_potion_small"}`,
			expReason: ReasonItemNotOwned,
		},
		"malformed payload": {
			setup:     func(p *game.Player) {},
			payload:   `{"itemId":`,
			expReason: ReasonBadPayload,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			pr := newTestProcessor()
			p := game.NewPlayer("p1", "Tester")
			tt.setup(p)

			res, err := pr.Process(p, CmdUseItem, json.RawMessage(tt.payload))

			if tt.expReason != "" {
				assertRuleError(t, err, tt.expReason)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, p, res)
		})
	}
}

func TestProcess_CultivateCooldown(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	pr := newTestProcessor(
		WithCultivateCooldown(10*time.Second),
		WithClock(func() time.Time { return now }),
	)
	p := game.NewPlayer("p1", "Tester")

	res, err := pr.Process(p, CmdCultivate, json.RawMessage(`{"duration":60}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "progress", res.CultivationUpdate.Progress, 6)

	// Second attempt inside the cooldown window.
	now = now.Add(5 * time.Second)
	_, err = pr.Process(p, CmdCultivate, json.RawMessage(`{"duration":60}`))
	assertRuleError(t, err, ReasonCooldownActive)

	// After the window it succeeds again.
	now = now.Add(6 * time.Second)
	if _, err := pr.Process(p, CmdCultivate, json.RawMessage(`{"duration":10}`)); err != nil {
		t.Fatalf("unexpected error after cooldown: %v", err)
	}
	testutil.AssertEqual(t, "accumulated progress", p.Cultivation.Progress, 7)
}

func TestProcess_Companions(t *testing.T) {
	pr := newTestProcessor()
	p := game.NewPlayer("p1", "Tester")

	// No pet yet.
	_, err := pr.Process(p, CmdFeedPet, json.RawMessage(`{"foodType":"basic_food"}`))
	assertRuleError(t, err, ReasonPrerequisiteNotMet)

	res, err := pr.Process(p, CmdObtainPet, json.RawMessage(`{"petId":"fire_fox"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "pet name", res.PetUpdate.Name, "Hồ Ly Lửa")
	testutil.AssertEqual(t, "pet happiness", p.Pet.Happiness, 100)

	_, err = pr.Process(p, CmdObtainPet, json.RawMessage(`{"petId":"ice_wolf"}`))
	assertRuleError(t, err, ReasonAlreadyPresent)

	// Feeding grants experience; spirit food levels the pet up.
	p.Pet.Happiness = 0
	p.Pet.Experience = 900
	res, err = pr.Process(p, CmdFeedPet, json.RawMessage(`{"foodType":"spirit_food"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "pet level", res.PetUpdate.Level, 2)
	testutil.AssertEqual(t, "pet exp carried", res.PetUpdate.Experience, 200)
	testutil.AssertEqual(t, "happiness", res.PetUpdate.Happiness, 100)

	// Wife track.
	res, err = pr.Process(p, CmdObtainWife, json.RawMessage(`{"wifeId":"ice_fairy"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "wife name", res.WifeUpdate.Name, "Băng Tiên Tử")

	p.Wife.Mood = 0
	res, err = pr.Process(p, CmdGiveGift, json.RawMessage(`{"giftId":"frozen_tear"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "affinity", res.WifeUpdate.Affinity.Current, 200)
	testutil.AssertEqual(t, "mood", res.WifeUpdate.Mood, 100)

	// Unknown gifts fall back to a minor effect.
	res, err = pr.Process(p, CmdGiveGift, json.RawMessage(`{"giftId":"mystery_box"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "fallback affinity", res.WifeUpdate.Affinity.Current, 220)
}

func TestProcess_Quests(t *testing.T) {
	pr := newTestProcessor()
	p := game.NewPlayer("p1", "Tester")

	_, err := pr.Process(p, CmdCompleteQuest, json.RawMessage(`{"questId":"first_cultivation"}`))
	assertRuleError(t, err, ReasonQuestNotActive)

	res, err := pr.Process(p, CmdAcceptQuest, json.RawMessage(`{"questId":"first_cultivation"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "quest title", res.QuestUpdate.Title, "Tu Luyện Đầu Tiên")

	_, err = pr.Process(p, CmdAcceptQuest, json.RawMessage(`{"questId":"first_cultivation"}`))
	assertRuleError(t, err, ReasonAlreadyPresent)

	_, err = pr.Process(p, CmdCompleteQuest, json.RawMessage(`{"questId":"first_cultivation"}`))
	assertRuleError(t, err, ReasonQuestIncomplete)

	p.ActiveQuests[0].Progress = 100
	res, err = pr.Process(p, CmdCompleteQuest, json.RawMessage(`{"questId":"first_cultivation"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "completed", res.QuestUpdate.Completed, true)
	testutil.AssertEqual(t, "gold reward", p.Resources.Gold, game.StartingGold+50)
	testutil.AssertEqual(t, "item reward", p.Inventory.Quantity("cultivation_pill"), 2)
	testutil.AssertEqual(t, "experience carried", p.Experience, 100)
	testutil.AssertEqual(t, "level from reward", p.Level, 2)
	testutil.AssertEqual(t, "quest removed", len(p.ActiveQuests), 0)
}

func TestProcess_Guild(t *testing.T) {
	pr := newTestProcessor()
	p := game.NewPlayer("p1", "Tester")

	_, err := pr.Process(p, CmdContributeGuild, json.RawMessage(`{"goldAmount":10}`))
	assertRuleError(t, err, ReasonNotInGuild)

	res, err := pr.Process(p, CmdJoinGuild, json.RawMessage(`{"guildId":"dragon_sect"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "guild rank", res.GuildUpdate.Rank, "Member")

	_, err = pr.Process(p, CmdJoinGuild, json.RawMessage(`{"guildId":"other_sect"}`))
	assertRuleError(t, err, ReasonAlreadyPresent)

	_, err = pr.Process(p, CmdContributeGuild, json.RawMessage(`{"goldAmount":9999}`))
	assertRuleError(t, err, ReasonInsufficientResources)

	p.Resources.SpiritStones = 5
	res, err = pr.Process(p, CmdContributeGuild, json.RawMessage(`{"goldAmount":50,"spiritStonesAmount":5}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "gold deducted", p.Resources.Gold, game.StartingGold-50)
	testutil.AssertEqual(t, "stones deducted", p.Resources.SpiritStones, 0)
	testutil.AssertEqual(t, "contribution", res.GuildUpdate.Contribution, 100)
}

func TestProcess_PremiumAndAdmin(t *testing.T) {
	pr := newTestProcessor()
	p := game.NewPlayer("p1", "Tester")

	_, err := pr.Process(p, CmdPurchasePremium, json.RawMessage(`{"itemId":"monthly_card"}`))
	assertRuleError(t, err, ReasonInsufficientResources)

	res, err := pr.Process(p, CmdAdminAddCurrency, json.RawMessage(`{"amount":600}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "balance", *res.Balance, 600)

	_, err = pr.Process(p, CmdAdminAddCurrency, json.RawMessage(`{"amount":-5}`))
	assertRuleError(t, err, ReasonBadPayload)

	res, err = pr.Process(p, CmdPurchasePremium, json.RawMessage(`{"itemId":"monthly_card"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "balance after purchase", *res.Balance, 100)
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand("use_item")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "command", cmd, CmdUseItem)

	_, err = ParseCommand("fly_to_moon")
	assertRuleError(t, err, ReasonUnknownCommand)
}

func TestCommandCategories(t *testing.T) {
	tests := map[Command]Category{
		CmdUseItem:       CategoryPersonal,
		CmdCultivate:     CategoryPersonal,
		CmdFeedPet:       CategoryCompanion,
		CmdObtainWife:    CategoryCompanion,
		CmdAcceptQuest:   CategoryQuest,
		CmdCompleteQuest: CategoryQuest,
		CmdJoinGuild:     CategoryGuild,
	}

	for cmd, exp := range tests {
		testutil.AssertEqual(t, string(cmd), cmd.Category(), exp)
	}
}
