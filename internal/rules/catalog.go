package rules

import "github.com/tutien/tutien-server/internal/game"

// ItemEffectType enumerates what a consumable does when used.
type ItemEffectType string

const (
	EffectHeal           ItemEffectType = "HEAL"
	EffectRestoreMana    ItemEffectType = "RESTORE_MANA"
	EffectAddGold        ItemEffectType = "ADD_GOLD"
	EffectAddExp         ItemEffectType = "ADD_EXP"
	EffectAddCultivation ItemEffectType = "ADD_CULTIVATION"
)

// Item is a consumable definition.
type Item struct {
	Id     string
	Name   string
	Effect ItemEffectType

	// Amount is the flat effect size; Multiplier scales with player
	// level instead (used by experience pills).
	Amount     int
	Multiplier int

	Value int
}

// PetDef is a pet species definition.
type PetDef struct {
	Id        string
	Name      string
	Element   string
	BaseStats game.Stats
	ExpToNext int
}

// WifeDef is a wife companion definition.
type WifeDef struct {
	Id          string
	Name        string
	Element     string
	BaseStats   game.Stats
	AffinityMax int
	ExpToNext   int
}

// QuestDef is a quest definition with acceptance requirements and
// completion rewards.
type QuestDef struct {
	Id            string
	Title         string
	RequiredLevel int
	RewardExp     int
	RewardGold    int
	RewardItems   []game.ItemStack
}

// GiftEffect is what a gift does to wife affinity and mood.
type GiftEffect struct {
	Affinity int
	Mood     int
}

// FoodEffect is what a pet food does to happiness and experience.
type FoodEffect struct {
	Happiness int
	Exp       int
}

// PremiumItem is purchasable with kim nguyên bảo only.
type PremiumItem struct {
	Id    string
	Name  string
	Price int
}

// Catalog bundles the static game data the processor evaluates against.
type Catalog struct {
	Items        map[string]Item
	Pets         map[string]PetDef
	Wives        map[string]WifeDef
	Quests       map[string]QuestDef
	Gifts        map[string]GiftEffect
	Foods        map[string]FoodEffect
	PremiumItems map[string]PremiumItem
}

// DefaultCatalog returns the built-in game data.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Items: map[string]Item{
			"hp_potion_small":   {Id: "hp_potion_small", Name: "Bình Máu Nhỏ", Effect: EffectHeal, Amount: 50, Value: 10},
			"mana_potion_small": {Id: "mana_potion_small", Name: "Bình Mana Nhỏ", Effect: EffectRestoreMana, Amount: 30, Value: 8},
			"gold_pouch":        {Id: "gold_pouch", Name: "Túi Vàng", Effect: EffectAddGold, Amount: 100, Value: 50},
			"experience_pill":   {Id: "experience_pill", Name: "Kinh Nghiệm Đan", Effect: EffectAddExp, Multiplier: 100, Value: 200},
			"cultivation_pill":  {Id: "cultivation_pill", Name: "Tu Luyện Đan", Effect: EffectAddCultivation, Amount: 500, Value: 150},
		},
		Pets: map[string]PetDef{
			"fire_fox": {
				Id: "fire_fox", Name: "Hồ Ly Lửa", Element: "fire",
				BaseStats: game.Stats{Attack: 50, Defense: 30, Speed: 80, Intelligence: 60, Luck: 40},
				ExpToNext: 1000,
			},
			"ice_wolf": {
				Id: "ice_wolf", Name: "Sói Băng", Element: "ice",
				BaseStats: game.Stats{Attack: 45, Defense: 60, Speed: 70, Intelligence: 80, Luck: 35},
				ExpToNext: 1200,
			},
		},
		Wives: map[string]WifeDef{
			"ice_fairy": {
				Id: "ice_fairy", Name: "Băng Tiên Tử", Element: "ice",
				BaseStats:   game.Stats{Attack: 60, Defense: 80, Speed: 70, Intelligence: 120, Luck: 90},
				AffinityMax: 1000,
				ExpToNext:   2000,
			},
		},
		Quests: map[string]QuestDef{
			"first_cultivation": {
				Id: "first_cultivation", Title: "Tu Luyện Đầu Tiên",
				RequiredLevel: 1, RewardExp: 200, RewardGold: 50,
				RewardItems: []game.ItemStack{{ItemId: "cultivation_pill", Quantity: 2}},
			},
			"level_up_quest": {
				Id: "level_up_quest", Title: "Lên Cấp",
				RequiredLevel: 1, RewardExp: 500, RewardGold: 100,
				RewardItems: []game.ItemStack{{ItemId: "experience_pill", Quantity: 1}},
			},
		},
		Gifts: map[string]GiftEffect{
			"ice_flower":       {Affinity: 50, Mood: 30},
			"crystal_necklace": {Affinity: 100, Mood: 50},
			"frozen_tear":      {Affinity: 200, Mood: 100},
		},
		Foods: map[string]FoodEffect{
			"basic_food":   {Happiness: 20, Exp: 50},
			"premium_food": {Happiness: 50, Exp: 150},
			"spirit_food":  {Happiness: 100, Exp: 300},
		},
		PremiumItems: map[string]PremiumItem{
			"monthly_card": {Id: "monthly_card", Name: "Thẻ Tháng", Price: 500},
			"rare_mount":   {Id: "rare_mount", Name: "Thú Cưỡi Hiếm", Price: 2500},
		},
	}
}
