package game

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-errors"
)

// Player is the authoritative in-memory copy of one player's persisted
// state. While the player is online this struct is the source of truth;
// the stored record is an eventually-consistent copy of it.
type Player struct {
	// Id is the stable player identifier, independent of any connection.
	Id string `json:"playerId"`

	// Name is the display name shown to other players.
	Name string `json:"name"`

	Level            int `json:"level"`
	Experience       int `json:"experience"`
	ExperienceToNext int `json:"experienceToNext"`

	Health    int `json:"health"`
	MaxHealth int `json:"maxHealth"`
	Mana      int `json:"mana"`
	MaxMana   int `json:"maxMana"`

	Cultivation Cultivation `json:"cultivation"`
	Stats       Stats       `json:"stats"`
	Resources   Resources   `json:"resources"`
	Inventory   *Inventory  `json:"inventory"`

	// Companions. A nil pointer means the player has none.
	Pet  *Pet  `json:"pet,omitempty"`
	Wife *Wife `json:"wife,omitempty"`

	Arena        ArenaRecord   `json:"arenaStats"`
	ActiveQuests []ActiveQuest `json:"activeQuests,omitempty"`
	Guild        *GuildRef     `json:"guild,omitempty"`

	// Session state, persisted for the ops surface and reload.
	Online      bool     `json:"isOnline"`
	CurrentRoom string   `json:"currentRoom"`
	Position    Position `json:"position"`

	// LastCultivation is a unix-milli timestamp used for the cultivate
	// cooldown window.
	LastCultivation int64 `json:"lastCultivation,omitempty"`
}

func (p *Player) UnmarshalJSON(b []byte) error {
	type Alias Player
	if err := json.Unmarshal(b, (*Alias)(p)); err != nil {
		return err
	}
	if p.Inventory == nil {
		p.Inventory = NewInventory()
	}
	return nil
}

// Cultivation tracks progress through the cultivation realms.
type Cultivation struct {
	Realm          string `json:"realm"`
	Stage          int    `json:"stage"`
	Progress       int    `json:"progress"`
	ProgressToNext int    `json:"progressToNext"`
}

// Stats is the base attribute bag shared by players and companions.
type Stats struct {
	Attack       int `json:"attack"`
	Defense      int `json:"defense"`
	Speed        int `json:"speed"`
	Intelligence int `json:"intelligence"`
	Luck         int `json:"luck"`
}

// Sum returns the total of all attributes.
func (s Stats) Sum() int {
	return s.Attack + s.Defense + s.Speed + s.Intelligence + s.Luck
}

// Add increases every attribute by n.
func (s *Stats) Add(n int) {
	s.Attack += n
	s.Defense += n
	s.Speed += n
	s.Intelligence += n
	s.Luck += n
}

// Resources holds the player's currencies.
type Resources struct {
	Gold            int `json:"gold"`
	SpiritStones    int `json:"spirit_stones"`
	KimNguyenBao    int `json:"kim_nguyen_bao"`
	CultivationPill int `json:"cultivation_pills"`
}

// Pet is an optional combat companion.
type Pet struct {
	PetId            string `json:"petId"`
	Name             string `json:"name"`
	Level            int    `json:"level"`
	Experience       int    `json:"experience"`
	ExperienceToNext int    `json:"experienceToNext"`
	Stats            Stats  `json:"stats"`
	Happiness        int    `json:"happiness"`
	LastFed          int64  `json:"lastFed,omitempty"`
}

// Wife is an optional companion with an affinity track.
type Wife struct {
	WifeId           string   `json:"wifeId"`
	Name             string   `json:"name"`
	Level            int      `json:"level"`
	Experience       int      `json:"experience"`
	ExperienceToNext int      `json:"experienceToNext"`
	Stats            Stats    `json:"stats"`
	Affinity         Affinity `json:"affinity"`
	Mood             int      `json:"mood"`
	LastGift         int64    `json:"lastGift,omitempty"`
}

// Affinity tracks the relationship level with a wife companion.
type Affinity struct {
	Current int `json:"current"`
	Max     int `json:"max"`
	Level   int `json:"level"`
}

// ArenaRecord holds PvP standing. Matchmaking itself happens elsewhere;
// the record travels with the snapshot so it survives reconnects.
type ArenaRecord struct {
	Rank          string           `json:"rank"`
	Points        int              `json:"points"`
	Wins          int              `json:"wins"`
	Losses        int              `json:"losses"`
	WinStreak     int              `json:"winStreak"`
	LastMatchTime map[string]int64 `json:"lastMatchTime,omitempty"`
}

// ActiveQuest is a quest the player has accepted but not completed.
type ActiveQuest struct {
	QuestId    string `json:"questId"`
	Progress   int    `json:"progress"`
	AcceptedAt int64  `json:"acceptedAt"`
}

// GuildRef is the player's side of a guild membership.
type GuildRef struct {
	GuildId          string `json:"guildId"`
	Rank             string `json:"rank"`
	JoinDate         int64  `json:"joinDate"`
	Contribution     int    `json:"contribution"`
	LastContribution int64  `json:"lastContributionTime,omitempty"`
}

// Position is the player's location within a room.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Defaults carries client-supplied starting values, used only when no
// persisted record exists for the joining player.
type Defaults struct {
	Name string `json:"name"`
}

// Starting values for a brand-new player.
const (
	StartingGold           = 100
	StartingHealth         = 100
	StartingMana           = 50
	StartingExpToNext      = 100
	StartingProgressToNext = 1000
	StartingRealm          = "Phàm Nhân"
	StartingArenaPoints    = 1000
	StartingArenaRank      = "Chưa xếp hạng"
)

// NewPlayer constructs a fresh snapshot with starting values.
func NewPlayer(id, name string) *Player {
	return &Player{
		Id:               id,
		Name:             name,
		Level:            1,
		ExperienceToNext: StartingExpToNext,
		Health:           StartingHealth,
		MaxHealth:        StartingHealth,
		Mana:             StartingMana,
		MaxMana:          StartingMana,
		Cultivation: Cultivation{
			Realm:          StartingRealm,
			Stage:          1,
			ProgressToNext: StartingProgressToNext,
		},
		Stats: Stats{
			Attack:       10,
			Defense:      5,
			Speed:        8,
			Intelligence: 5,
			Luck:         5,
		},
		Resources: Resources{Gold: StartingGold},
		Inventory: NewInventory(),
		Arena: ArenaRecord{
			Rank:   StartingArenaRank,
			Points: StartingArenaPoints,
		},
	}
}

// Validate satisfies storage.ValidatingSpec.
func (p *Player) Validate() error {
	el := errors.NewErrorList()

	if p.Id == "" {
		el.Add(fmt.Errorf("playerId is required"))
	}
	if p.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if p.MaxHealth < 1 {
		el.Add(fmt.Errorf("maxHealth must be at least 1"))
	}
	if p.MaxMana < 1 {
		el.Add(fmt.Errorf("maxMana must be at least 1"))
	}
	if p.Health > p.MaxHealth {
		el.Add(fmt.Errorf("health %d exceeds maxHealth %d", p.Health, p.MaxHealth))
	}
	if p.Mana > p.MaxMana {
		el.Add(fmt.Errorf("mana %d exceeds maxMana %d", p.Mana, p.MaxMana))
	}

	return el.Err()
}
