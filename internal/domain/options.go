package domain

// Option is a value/label pair offered by a select input.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// QueryExample is a ready-made custom query fragment.
type QueryExample struct {
	Label string `json:"label"`
	Query string `json:"query"`
}

var Colors = []Option{
	{Value: string(ColorAll), Label: "All Colors"},
	{Value: string(ColorWhite), Label: "White"},
	{Value: string(ColorBlue), Label: "Blue"},
	{Value: string(ColorBlack), Label: "Black"},
	{Value: string(ColorRed), Label: "Red"},
	{Value: string(ColorGreen), Label: "Green"},
	{Value: string(ColorColorless), Label: "Colorless"},
	{Value: string(ColorMulticolor), Label: "Multicolor"},
}

var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityMythic}

var CardTypes = []string{"creature", "instant", "sorcery", "enchantment", "artifact", "planeswalker", "land"}

var CMCOptions = []Option{
	{Value: CMCAll, Label: "Any Cost"},
	{Value: "0", Label: "0"},
	{Value: "1", Label: "1"},
	{Value: "2", Label: "2"},
	{Value: "3", Label: "3"},
	{Value: "4", Label: "4"},
	{Value: "5", Label: "5"},
	{Value: CMCOpenEnded, Label: "6+"},
}

var Formats = []string{
	"standard",
	"pioneer",
	"modern",
	"legacy",
	"vintage",
	"commander",
	"pauper",
	"historic",
	"alchemy",
	"brawl",
}

var CommonKeywords = []string{
	"Flying", "Trample", "Haste", "Vigilance", "Deathtouch", "Lifelink",
	"First Strike", "Double Strike", "Hexproof", "Indestructible", "Flash",
	"Reach", "Defender", "Menace", "Prowess", "Scry", "Surveil", "Convoke",
	"Delve", "Flashback", "Kicker", "Morph", "Cycling", "Echo", "Buyback",
	"Storm", "Cascade", "Suspend", "Madness", "Threshold", "Landfall",
	"Metalcraft", "Morbid", "Bloodthirst", "Undying", "Persist", "Wither",
	"Infect", "Annihilator", "Exalted", "Shroud", "Protection", "Regenerate",
	"Banding",
}

var Operators = []Option{
	{Value: "=", Label: "Equal to"},
	{Value: ">", Label: "Greater than"},
	{Value: ">=", Label: "Greater than or equal"},
	{Value: "<", Label: "Less than"},
	{Value: "<=", Label: "Less than or equal"},
}

var PopularSearches = []string{"Lightning Bolt", "Counterspell", "Sol Ring", "Planeswalker", "Dragon", "Artifact Creature"}

var QueryExamples = []QueryExample{
	{Label: "Cheap Commanders", Query: "is:commander cmc<=3"},
	{Label: "Expensive Cards", Query: "usd>50"},
	{Label: "Recent Reprints", Query: "is:reprint year>=2023"},
	{Label: "Full Art Lands", Query: "is:fullart type:land"},
	{Label: "Reserved List", Query: "is:reserved"},
}
