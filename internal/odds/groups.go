package odds

// Group is one logical bucket of fixtures with its own current/previous slot
// pair in the odds cache.
type Group struct {
	Name         string
	CurrentSlot  int
	PreviousSlot int
}

var (
	GroupMain       = Group{Name: "main", CurrentSlot: 1, PreviousSlot: 2}
	GroupSelections = Group{Name: "selections", CurrentSlot: 3, PreviousSlot: 4}
	GroupCup        = Group{Name: "cup", CurrentSlot: 5, PreviousSlot: 6}
	GroupLive       = Group{Name: "live", CurrentSlot: 9, PreviousSlot: 10}
)

// LookupPrecedence is the order in which diff lookups scan the pre-match
// groups. Lookups stop at the first group that contains the fixture at all,
// so a fixture id present in the cup never falls through to a same-numbered
// fixture in another competition. Assumes upstream ids do not collide across
// these competitions.
var LookupPrecedence = []Group{GroupCup, GroupSelections, GroupMain}

// PrematchGroups are the groups refreshed on the slow pre-match cycle
var PrematchGroups = []Group{GroupMain, GroupSelections, GroupCup}

// GroupByName resolves a group from its name, used by HTTP handlers
func GroupByName(name string) (Group, bool) {
	for _, g := range []Group{GroupMain, GroupSelections, GroupCup, GroupLive} {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}
