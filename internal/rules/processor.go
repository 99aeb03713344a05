package rules

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tutien/tutien-server/internal/game"
)

const (
	DefaultInventoryCapacity = 50
	DefaultCultivateCooldown = 10 * time.Second
)

// Processor evaluates game commands against a player snapshot. It holds
// only static catalog data and tunables, never player state: the same
// instance serves every player concurrently.
//
// Process mutates the snapshot it is given. Callers are expected to pass
// a disposable clone and commit it only on success, which is what makes
// command application all-or-nothing.
type Processor struct {
	catalog *Catalog

	inventoryCapacity int
	cultivateCooldown time.Duration

	now func() time.Time
}

type ProcessorOpt func(*Processor)

// WithInventoryCapacity bounds the number of distinct item stacks.
func WithInventoryCapacity(n int) ProcessorOpt {
	return func(p *Processor) {
		p.inventoryCapacity = n
	}
}

// WithCultivateCooldown sets the minimum interval between cultivate
// commands from the same player.
func WithCultivateCooldown(d time.Duration) ProcessorOpt {
	return func(p *Processor) {
		p.cultivateCooldown = d
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ProcessorOpt {
	return func(p *Processor) {
		p.now = now
	}
}

// NewProcessor creates a processor over the given catalog.
func NewProcessor(catalog *Catalog, opts ...ProcessorOpt) *Processor {
	p := &Processor{
		catalog:           catalog,
		inventoryCapacity: DefaultInventoryCapacity,
		cultivateCooldown: DefaultCultivateCooldown,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the success outcome of one command. Only the fields relevant
// to the executed command are populated; the whole struct is unicast to
// the acting player.
type Result struct {
	Message string `json:"message"`

	HealthUpdate      *PoolUpdate              `json:"healthUpdate,omitempty"`
	ManaUpdate        *PoolUpdate              `json:"manaUpdate,omitempty"`
	ResourceUpdate    *game.Resources          `json:"resourceUpdate,omitempty"`
	ExpUpdate         *ExpUpdate               `json:"expUpdate,omitempty"`
	LevelUp           *game.LevelUpResult      `json:"levelUp,omitempty"`
	CultivationUpdate *game.Cultivation        `json:"cultivationUpdate,omitempty"`
	Breakthrough      *game.BreakthroughResult `json:"breakthrough,omitempty"`
	PetUpdate         *game.Pet                `json:"petUpdate,omitempty"`
	WifeUpdate        *game.Wife               `json:"wifeUpdate,omitempty"`
	QuestUpdate       *QuestUpdate             `json:"questUpdate,omitempty"`
	GuildUpdate       *game.GuildRef           `json:"guildUpdate,omitempty"`
	Balance           *int                     `json:"newBalance,omitempty"`
}

// PoolUpdate reports a current/max pair after a change.
type PoolUpdate struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// ExpUpdate reports an experience gain.
type ExpUpdate struct {
	Current int `json:"current"`
	Gain    int `json:"gain"`
}

// QuestUpdate reports a quest acceptance or completion.
type QuestUpdate struct {
	QuestId    string           `json:"questId"`
	Title      string           `json:"title"`
	Completed  bool             `json:"completed"`
	RewardExp  int              `json:"rewardExp,omitempty"`
	RewardGold int              `json:"rewardGold,omitempty"`
	Items      []game.ItemStack `json:"items,omitempty"`
}

// Process evaluates one command against the snapshot. On failure it
// returns a *Error from the closed taxonomy and the snapshot must be
// discarded by the caller.
func (pr *Processor) Process(p *game.Player, cmd Command, payload json.RawMessage) (*Result, error) {
	switch cmd {
	case CmdUseItem:
		return pr.useItem(p, payload)
	case CmdCultivate:
		return pr.cultivate(p, payload)
	case CmdFeedPet:
		return pr.feedPet(p, payload)
	case CmdGiveGift:
		return pr.giveGift(p, payload)
	case CmdObtainPet:
		return pr.obtainPet(p, payload)
	case CmdObtainWife:
		return pr.obtainWife(p, payload)
	case CmdAcceptQuest:
		return pr.acceptQuest(p, payload)
	case CmdCompleteQuest:
		return pr.completeQuest(p, payload)
	case CmdJoinGuild:
		return pr.joinGuild(p, payload)
	case CmdContributeGuild:
		return pr.contributeGuild(p, payload)
	case CmdPurchasePremium:
		return pr.purchasePremium(p, payload)
	case CmdAdminAddCurrency:
		return pr.adminAddCurrency(p, payload)
	default:
		return nil, NewError(ReasonUnknownCommand, fmt.Sprintf("unknown command: %s", cmd))
	}
}

// decode unmarshals a command payload, mapping malformed input onto the
// BadPayload reason so it stays inside the closed taxonomy.
func decode[T any](payload json.RawMessage, dst *T) error {
	if len(payload) == 0 {
		return NewError(ReasonBadPayload, "missing command payload")
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return NewError(ReasonBadPayload, fmt.Sprintf("malformed command payload: %v", err))
	}
	return nil
}
