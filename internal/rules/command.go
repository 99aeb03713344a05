package rules

import "fmt"

// Command names form a closed set. Unknown names are rejected at the
// boundary rather than silently ignored.
type Command string

const (
	CmdUseItem          Command = "use_item"
	CmdCultivate        Command = "cultivate"
	CmdFeedPet          Command = "feed_pet"
	CmdGiveGift         Command = "give_gift"
	CmdObtainPet        Command = "obtain_pet"
	CmdObtainWife       Command = "obtain_wife"
	CmdAcceptQuest      Command = "accept_quest"
	CmdCompleteQuest    Command = "complete_quest"
	CmdJoinGuild        Command = "join_guild"
	CmdContributeGuild  Command = "contribute_guild"
	CmdPurchasePremium  Command = "purchase_premium_item"
	CmdAdminAddCurrency Command = "admin_add_currency"
)

// Category decides what, beyond the universal state summary, gets
// broadcast to the room after a successful command.
type Category int

const (
	CategoryPersonal Category = iota
	CategoryCompanion
	CategoryQuest
	CategoryGuild
)

var commandCategories = map[Command]Category{
	CmdUseItem:          CategoryPersonal,
	CmdCultivate:        CategoryPersonal,
	CmdFeedPet:          CategoryCompanion,
	CmdGiveGift:         CategoryCompanion,
	CmdObtainPet:        CategoryCompanion,
	CmdObtainWife:       CategoryCompanion,
	CmdAcceptQuest:      CategoryQuest,
	CmdCompleteQuest:    CategoryQuest,
	CmdJoinGuild:        CategoryGuild,
	CmdContributeGuild:  CategoryGuild,
	CmdPurchasePremium:  CategoryPersonal,
	CmdAdminAddCurrency: CategoryPersonal,
}

// ParseCommand validates a wire-level command name.
func ParseCommand(name string) (Command, error) {
	cmd := Command(name)
	if _, ok := commandCategories[cmd]; !ok {
		return "", NewError(ReasonUnknownCommand, fmt.Sprintf("unknown command: %s", name))
	}
	return cmd, nil
}

// Category returns the broadcast category for the command.
func (c Command) Category() Category {
	return commandCategories[c]
}
