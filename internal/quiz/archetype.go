package quiz

// Tie-break priority order of the two axes. Cells are enumerated
// attachment-major, communication-minor in this order, giving priorities
// 0 (secure x assertive) through 15 (disorganized x passive_aggressive).
var (
	attachmentPriority    = [4]AttachmentDimension{Secure, Anxious, Avoidant, Disorganized}
	communicationPriority = [4]CommunicationStyle{Assertive, Passive, Aggressive, PassiveAggressive}
)

// ArchetypeGrid maps (attachment, communication) priority positions to
// archetype IDs.
type ArchetypeGrid [4][4]string

// Lookup returns the archetype ID for a cell.
func (g ArchetypeGrid) Lookup(a AttachmentDimension, c CommunicationStyle) string {
	ai, ci := attachmentIndex(a), communicationIndex(c)
	if ai < 0 || ci < 0 {
		return ""
	}
	return g[ai][ci]
}

func attachmentIndex(a AttachmentDimension) int {
	for i, d := range attachmentPriority {
		if d == a {
			return i
		}
	}
	return -1
}

func communicationIndex(c CommunicationStyle) int {
	for i, s := range communicationPriority {
		if s == c {
			return i
		}
	}
	return -1
}

var defaultGrid = ArchetypeGrid{
	// secure
	{"golden-partner", "gentle-peacekeeper", "direct-director", "playful-tease"},
	// anxious
	{"open-book", "selfless-giver", "fiery-pursuer", "mind-reader"},
	// avoidant
	{"solo-voyager", "quiet-ghost", "iron-fortress", "cool-mystery"},
	// disorganized
	{"self-aware-alchemist", "chameleon", "wild-storm", "labyrinth"},
}

// Grid returns the static archetype grid.
func Grid() ArchetypeGrid { return defaultGrid }

// GridCell is one populated grid position.
type GridCell struct {
	Attachment    AttachmentDimension `json:"attachment"`
	Communication CommunicationStyle  `json:"communication"`
	ArchetypeID   string              `json:"archetypeId"`
	Priority      int                 `json:"priority"`
}

// Cells lists the grid in priority order.
func (g ArchetypeGrid) Cells() []GridCell {
	cells := make([]GridCell, 0, 16)
	for ai, a := range attachmentPriority {
		for ci, c := range communicationPriority {
			cells = append(cells, GridCell{
				Attachment:    a,
				Communication: c,
				ArchetypeID:   g[ai][ci],
				Priority:      len(cells),
			})
		}
	}
	return cells
}

// ArchetypePublic is the client-safe part of an archetype. Narrative copy
// lives with the presentation layer.
type ArchetypePublic struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Emoji                 string `json:"emoji"`
	Image                 string `json:"image"`
	DatingCycleTotalCount int    `json:"datingCycleTotalCount"`
	RedFlagsTotalCount    int    `json:"redFlagsTotalCount"`
}

var publicArchetypes = []ArchetypePublic{
	{ID: "golden-partner", Name: "The Golden Partner", Emoji: "🐕", Image: "/archetypes/golden-partner-goldenRetriever.png", DatingCycleTotalCount: 5, RedFlagsTotalCount: 5},
	{ID: "gentle-peacekeeper", Name: "The Gentle Peacekeeper", Emoji: "🕊️", Image: "/archetypes/gentle-peacekeeper-dove.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "direct-director", Name: "The Direct Director", Emoji: "🦍", Image: "/archetypes/direct-director-gorilla.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 6},
	{ID: "playful-tease", Name: "The Playful Tease", Emoji: "🦊", Image: "/archetypes/playful-tease-fox.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "open-book", Name: "The Open Book", Emoji: "🐕‍🦺", Image: "/archetypes/open-book-puppy.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "selfless-giver", Name: "The Selfless Giver", Emoji: "🐨", Image: "/archetypes/selfless-giver-koala.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "fiery-pursuer", Name: "The Fiery Pursuer", Emoji: "🐆", Image: "/archetypes/fiery-pursuer-cheetah.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "mind-reader", Name: "The Mind Reader", Emoji: "🦉", Image: "/archetypes/mind-reader-owl.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "solo-voyager", Name: "The Solo Voyager", Emoji: "🦅", Image: "/archetypes/solo-voyager-eagle.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "quiet-ghost", Name: "The Quiet Ghost", Emoji: "🐢", Image: "/archetypes/quiet-ghost-turtle.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "iron-fortress", Name: "The Iron Fortress", Emoji: "🦔", Image: "/archetypes/iron-fortress-armadillo.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "cool-mystery", Name: "The Cool Mystery", Emoji: "🐈", Image: "/archetypes/cool-mystery-cat.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "self-aware-alchemist", Name: "The Self-Aware Alchemist", Emoji: "🐙", Image: "/archetypes/self-aware-alchemist-octopus.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "chameleon", Name: "The Chameleon", Emoji: "🦎", Image: "/archetypes/chameleon-chameleon.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "wild-storm", Name: "The Wild Storm", Emoji: "🐂", Image: "/archetypes/wild-storm-bull.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
	{ID: "labyrinth", Name: "The Labyrinth", Emoji: "🐍", Image: "/archetypes/labyrinth-snake.png", DatingCycleTotalCount: 6, RedFlagsTotalCount: 5},
}

// PublicArchetypes returns a copy of the public archetype table.
func PublicArchetypes() []ArchetypePublic {
	out := make([]ArchetypePublic, len(publicArchetypes))
	copy(out, publicArchetypes)
	return out
}

// ArchetypeByID looks up a public archetype.
func ArchetypeByID(id string) (ArchetypePublic, bool) {
	return findArchetype(publicArchetypes, id)
}

func findArchetype(table []ArchetypePublic, id string) (ArchetypePublic, bool) {
	for _, a := range table {
		if a.ID == id {
			return a, true
		}
	}
	return ArchetypePublic{}, false
}
