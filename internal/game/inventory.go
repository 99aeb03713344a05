package game

// ItemStack is a quantity of one item in an inventory.
type ItemStack struct {
	ItemId   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Inventory holds item stacks plus equipped items by slot.
type Inventory struct {
	Items     []ItemStack       `json:"items"`
	Equipment map[string]string `json:"equipment,omitempty"`
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		Items:     []ItemStack{},
		Equipment: make(map[string]string),
	}
}

// Quantity returns how many of the given item the inventory holds.
func (inv *Inventory) Quantity(itemId string) int {
	for _, s := range inv.Items {
		if s.ItemId == itemId {
			return s.Quantity
		}
	}
	return 0
}

// Add merges quantity into an existing stack or appends a new one.
// Returns false without modifying anything if adding a new stack would
// exceed capacity (merging into an existing stack is always allowed).
func (inv *Inventory) Add(itemId string, quantity, capacity int) bool {
	for i := range inv.Items {
		if inv.Items[i].ItemId == itemId {
			inv.Items[i].Quantity += quantity
			return true
		}
	}
	if capacity > 0 && len(inv.Items) >= capacity {
		return false
	}
	inv.Items = append(inv.Items, ItemStack{ItemId: itemId, Quantity: quantity})
	return true
}

// Remove decrements a stack, deleting it when it reaches zero.
// Returns false if the inventory holds fewer than quantity of the item.
func (inv *Inventory) Remove(itemId string, quantity int) bool {
	for i := range inv.Items {
		if inv.Items[i].ItemId != itemId {
			continue
		}
		if inv.Items[i].Quantity < quantity {
			return false
		}
		inv.Items[i].Quantity -= quantity
		if inv.Items[i].Quantity <= 0 {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
		}
		return true
	}
	return false
}
