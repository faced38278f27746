package kingdoms

// Traits describes every trait for display.
var Traits = map[Trait]string{
	TraitValor:       "Unparalleled: attack power bonus.",
	TraitMastermind:  "Mastermind: stratagems are more effective.",
	TraitIronWill:    "Iron Will: loyalty decays very slowly (-0.5) when captured.",
	TraitGodspeed:    "Godspeed: travels to any connected city instantly.",
	TraitWealthy:     "Wealthy: passively generates extra gold.",
	TraitCharismatic: "Charismatic: higher success rate when recruiting prisoners.",
}

// Catalog is the market's item list.
var Catalog = []Item{
	{ID: "item_sword1", Name: "Iron Sword", Kind: "Weapon", Price: 500, Description: "A standard issue sword.", Stats: Stats{War: 5}},
	{ID: "item_sword2", Name: "General Sword", Kind: "Weapon", Price: 1500, Description: "Finely crafted steel.", Stats: Stats{War: 10}},
	{ID: "item_spear1", Name: "Serpent Spear", Kind: "Weapon", Price: 4000, Description: "Legendary spear. Strikes fear into enemies.", Stats: Stats{War: 18}},
	{ID: "item_blade1", Name: "G. Dragon Blade", Kind: "Weapon", Price: 5000, Description: "Heavy glaive weighing 82 catties.", Stats: Stats{War: 20}},
	{ID: "item_horse1", Name: "Battle Horse", Kind: "Mount", Price: 800, Description: "Reliable steed.", Stats: Stats{War: 2}},
	{ID: "item_horse2", Name: "Red Hare", Kind: "Mount", Price: 6000, Description: "Fastest horse in the realm.", Stats: Stats{War: 5}, Grants: TraitGodspeed},
	{ID: "item_book1", Name: "Art of War", Kind: "Manual", Price: 2000, Description: "Sun Tzu's strategies.", Stats: Stats{Intel: 10}},
	{ID: "item_book2", Name: "Spring & Autumn", Kind: "Manual", Price: 1200, Description: "Historical annals.", Stats: Stats{Pol: 10}},
	{ID: "item_jade", Name: "Imperial Jade", Kind: "Accessory", Price: 3000, Description: "Symbol of nobility.", Stats: Stats{Chr: 15}},
}

// CatalogItem returns the catalogue entry with the given ID.
func CatalogItem(id string) (Item, bool) {
	for _, it := range Catalog {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// HistoricalEvents are the scripted events of the calendar.
var HistoricalEvents = []ScriptedEvent{
	{
		ID:           "evt_190",
		Year:         190,
		Title:        "Coalition against Dong Zhuo",
		Description:  "Warlords from across the realm have formed a coalition to remove the tyrant Dong Zhuo from the capital!",
		Announcement: "Coalition against Dong Zhuo! The warlords rise against the tyrant.",
	},
	{
		ID:            "evt_200",
		Year:          200,
		Title:         "Conflict at Guandu",
		Description:   "The alliance between Cao Cao and Yuan Shao has crumbled! Ambition drives the two most powerful warlords of the north to war. Yuan Shao marches south to destroy Cao Cao.",
		Announcement:  "The Yuan-Cao Alliance has collapsed!",
		BreakAlliance: [2]string{"f2", "f6"},
		DeclareWar:    true,
	},
	{
		ID:           "evt_208",
		Year:         208,
		Title:        "Battle of Red Cliffs",
		Description:  "Cao Cao's massive fleet approaches the Yangtze. Sun Quan and Liu Bei must unite or perish!",
		Announcement: "Cao Cao's fleet gathers at Red Cliffs!",
	},
}

type factionSeed struct {
	Faction
	allies, enemies []string
}

var factionSeeds = []factionSeed{
	{Faction{ID: "f1", Name: "Liu Bei", Leader: "Liu Bei", Color: "green", Culture: "Han", Difficulty: Hard,
		Description: "Benevolent ruler seeking to restore the Han Dynasty. Starts small but has capable generals.",
		Treasury:    Resources{Gold: 1000, Food: 2000, Wood: 500, Stone: 200, Influence: 100}},
		[]string{"f10"}, []string{"f4"}},
	{Faction{ID: "f2", Name: "Cao Cao", Leader: "Cao Cao", Color: "blue", Culture: "Han", Difficulty: Easy,
		Description: "Ambitious hero of chaos controlling the Emperor and the central plains.",
		Treasury:    Resources{Gold: 5000, Food: 8000, Wood: 2000, Stone: 1000, Influence: 500}},
		[]string{"f6"}, []string{"f4"}},
	{Faction{ID: "f3", Name: "Sun Quan", Leader: "Sun Quan", Color: "red", Culture: "Han", Difficulty: Medium,
		Description: "Defenders of the Southlands, protected by the Yangtze River.",
		Treasury:    Resources{Gold: 3000, Food: 4000, Wood: 1000, Stone: 800, Influence: 300}},
		nil, []string{"f4"}},
	{Faction{ID: "f4", Name: "Dong Zhuo", Leader: "Dong Zhuo", Color: "grey", Culture: "Han", Difficulty: Easy,
		Description: "Tyrant controlling the capital. Powerful army but hated by all.",
		Treasury:    Resources{Gold: 8000, Food: 6000, Wood: 1500, Stone: 1500, Influence: 800}},
		nil, []string{"f1", "f2", "f3", "f6", "f8", "f10"}},
	{Faction{ID: "f5", Name: "Yellow Turbans", Leader: "Zhang Jiao", Color: "yellow", Culture: "Han", Difficulty: Hard,
		Description: "Peasant rebellion. Numerous but poorly equipped.",
		Treasury:    Resources{Gold: 500, Food: 1000, Wood: 200, Stone: 100, Influence: 50}},
		nil, []string{"f1", "f2", "f3", "f4", "f6", "f7", "f8"}},
	{Faction{ID: "f6", Name: "Yuan Shao", Leader: "Yuan Shao", Color: "orange", Culture: "Han", Difficulty: Medium,
		Description: "Noble leader of the North with vast resources.",
		Treasury:    Resources{Gold: 4000, Food: 6000, Wood: 1200, Stone: 1000, Influence: 600}},
		[]string{"f2"}, []string{"f4"}},
	{Faction{ID: "f7", Name: "Ma Teng", Leader: "Ma Teng", Color: "teal", Culture: "Han", Difficulty: Hard,
		Description: "Warlords of the West, specializing in cavalry.",
		Treasury:    Resources{Gold: 1500, Food: 2000, Wood: 600, Stone: 400, Influence: 200}},
		nil, nil},
	{Faction{ID: "f8", Name: "Liu Biao", Leader: "Liu Biao", Color: "purple", Culture: "Han", Difficulty: Medium,
		Description: "Governor of Jing Province, preserving peace in turmoil.",
		Treasury:    Resources{Gold: 2500, Food: 4500, Wood: 900, Stone: 600, Influence: 300}},
		nil, []string{"f4"}},
	{Faction{ID: "f9", Name: "Xiongnu", Leader: "Yufuluo", Color: "brown", Culture: "Nomad", Difficulty: Medium,
		Description: "Fierce nomads of the North. Masters of cavalry and raiding.",
		Treasury:    Resources{Gold: 1000, Food: 5000, Wood: 300, Stone: 100, Influence: 50}},
		nil, nil},
	{Faction{ID: "f10", Name: "Kong Rong", Leader: "Kong Rong", Color: "cyan", Culture: "Han", Difficulty: Medium,
		Description: "Famous scholar and descendant of Confucius. Governs the North Sea.",
		Treasury:    Resources{Gold: 2000, Food: 3000, Wood: 600, Stone: 400, Influence: 400}},
		[]string{"f1"}, []string{"f4"}},
}

type citySeed struct {
	id, name    string
	x, y        int
	faction     string
	capital     bool
	connections []string
}

var citySeeds = []citySeed{
	{"c42", "Dai Jun", 60, 5, "f9", false, []string{"c2", "c5", "c43"}},
	{"c43", "Yun Zhong", 45, 8, "f9", true, []string{"c5", "c42", "c20"}},
	{"c45", "Wu Yuan", 35, 12, "f9", false, []string{"c43", "c22", "c20"}},
	{"c1", "Xiang Ping", 85, 5, "f6", false, []string{"c2"}},
	{"c2", "Bei Ping", 75, 10, "f6", false, []string{"c1", "c3", "c4", "c42"}},
	{"c3", "Ji", 70, 15, "f6", false, []string{"c2", "c4", "c5"}},
	{"c4", "Nan Pi", 72, 22, "f6", false, []string{"c2", "c3", "c5", "c6"}},
	{"c5", "Jin Yang", 60, 20, "f6", false, []string{"c3", "c4", "c7", "c42", "c43"}},
	{"c6", "Ping Yuan", 75, 28, "f6", false, []string{"c4", "c8", "c13"}},
	{"c7", "Ye", 62, 28, "f6", true, []string{"c5", "c8", "c9"}},
	{"c8", "Pu Yang", 65, 35, "f2", false, []string{"c6", "c7", "c10", "c13"}},
	{"c9", "He Nei", 55, 32, "f2", false, []string{"c7", "c10", "c11"}},
	{"c10", "Chen Liu", 62, 40, "f2", false, []string{"c8", "c9", "c11", "c12", "c14"}},
	{"c11", "Luo Yang", 50, 40, "f4", false, []string{"c9", "c10", "c16", "c17"}},
	{"c12", "Xu Chang", 58, 48, "f2", true, []string{"c10", "c14", "c15", "c18"}},
	{"c13", "Bei Hai", 82, 32, "f10", true, []string{"c6", "c8", "c14"}},
	{"c14", "Xia Pi", 78, 42, "f10", false, []string{"c10", "c12", "c13", "c25"}},
	{"c15", "Ru Nan", 55, 55, "f2", false, []string{"c12", "c18", "c19"}},
	{"c25", "Xiao Pei", 75, 45, "f1", false, []string{"c14", "c26"}},
	{"c16", "Chang An", 35, 42, "f4", true, []string{"c11", "c17", "c20", "c21", "c37"}},
	{"c17", "Wan", 50, 50, "f2", false, []string{"c11", "c16", "c18", "c44"}},
	{"c20", "An Ding", 30, 35, "f4", false, []string{"c16", "c21", "c22", "c43", "c45"}},
	{"c21", "Tian Shui", 25, 40, "f7", false, []string{"c16", "c20", "c22", "c23"}},
	{"c22", "Wu Wei", 15, 30, "f7", true, []string{"c20", "c21", "c23", "c45"}},
	{"c23", "Xi Ping", 10, 40, "f7", false, []string{"c21", "c22"}},
	{"c18", "Xin Ye", 52, 58, "f1", false, []string{"c12", "c17", "c19"}},
	{"c19", "Xiang Yang", 48, 62, "f8", true, []string{"c15", "c18", "c24", "c30", "c44"}},
	{"c24", "Jiang Ling", 45, 68, "f8", false, []string{"c19", "c30", "c31", "c34", "c40"}},
	{"c30", "Jiang Xia", 55, 65, "f8", false, []string{"c19", "c24", "c27", "c29", "c31"}},
	{"c31", "Chang Sha", 50, 75, "f8", false, []string{"c24", "c30", "c32", "c33"}},
	{"c32", "Ling Ling", 45, 82, "f8", false, []string{"c31", "c33"}},
	{"c33", "Gui Yang", 52, 85, "f8", false, []string{"c31", "c32"}},
	{"c34", "Wu Ling", 40, 72, "f8", false, []string{"c24", "c38", "c40"}},
	{"c26", "Shou Chun", 70, 52, "f2", false, []string{"c14", "c25", "c27"}},
	{"c27", "Lu Jiang", 65, 60, "f3", false, []string{"c26", "c28", "c30"}},
	{"c28", "Jian Ye", 75, 62, "f3", true, []string{"c26", "c27", "c29", "c35"}},
	{"c29", "Wu", 80, 65, "f3", false, []string{"c28", "c30", "c35"}},
	{"c35", "Hui Ji", 82, 72, "f3", false, []string{"c28", "c29", "c36"}},
	{"c36", "Jian An", 78, 80, "f3", false, []string{"c35"}},
	{"c29b", "Chai Sang", 60, 70, "f3", false, []string{"c27", "c30", "c31"}},
	{"c37", "Han Zhong", 32, 55, "f5", false, []string{"c16", "c38", "c39", "c44"}},
	{"c38", "Zi Tong", 28, 60, "f5", false, []string{"c34", "c37", "c39"}},
	{"c39", "Cheng Du", 22, 65, "f5", true, []string{"c37", "c38", "c40", "c41"}},
	{"c40", "Jiang Zhou", 28, 70, "f5", false, []string{"c24", "c34", "c39", "c41"}},
	{"c41", "Yong An", 35, 65, "f5", false, []string{"c39", "c40"}},
	{"c44", "Shang Yong", 42, 52, "f2", false, []string{"c17", "c19", "c37"}},
}

type generalSeed struct {
	id, name, faction, city string
	stats                   Stats
	loyalty                 float64
	traits                  []Trait
	items                   []string
}

var generalSeeds = []generalSeed{
	{"g1", "Guan Yu", "f1", "c18", Stats{97, 75, 62, 93}, 100, []Trait{TraitValor, TraitIronWill}, []string{"item_blade1"}},
	{"g2", "Zhang Fei", "f1", "c18", Stats{98, 30, 22, 45}, 100, []Trait{TraitValor}, []string{"item_spear1"}},
	{"g3", "Zhuge Liang", "f1", "c18", Stats{38, 100, 95, 92}, 100, []Trait{TraitMastermind, TraitWealthy}, nil},
	{"g4", "Zhao Yun", "f1", "c25", Stats{96, 76, 65, 81}, 100, []Trait{TraitGodspeed, TraitValor}, nil},
	{"g5", "Cao Cao", "f2", "c12", Stats{72, 91, 94, 96}, 100, []Trait{TraitMastermind, TraitCharismatic}, []string{"item_book1"}},
	{"g6", "Xiahou Dun", "f2", "c12", Stats{90, 58, 70, 81}, 95, []Trait{TraitValor}, nil},
	{"g7", "Guo Jia", "f2", "c12", Stats{15, 98, 84, 78}, 95, []Trait{TraitMastermind}, nil},
	{"g8", "Zhou Yu", "f3", "c28", Stats{71, 96, 86, 93}, 100, []Trait{TraitMastermind, TraitCharismatic}, nil},
	{"g9", "Lu Bu", "f4", "c16", Stats{100, 26, 13, 15}, 50, []Trait{TraitValor, TraitGodspeed}, []string{"item_horse2"}},
	{"g10", "Diao Chan", "f4", "c16", Stats{10, 81, 65, 100}, 90, []Trait{TraitCharismatic}, []string{"item_jade"}},
	{"gX1", "Yufuluo", "f9", "c43", Stats{88, 40, 30, 70}, 90, []Trait{TraitGodspeed}, nil},
	{"gX2", "Hu Chuquan", "f9", "c43", Stats{82, 45, 35, 60}, 90, nil, nil},
	{"gK1", "Kong Rong", "f10", "c13", Stats{30, 88, 92, 95}, 100, []Trait{TraitWealthy}, nil},
	{"gK2", "Taishi Ci", "f10", "c13", Stats{93, 66, 58, 79}, 92, []Trait{TraitValor, TraitIronWill}, nil},
}

// HistoricalRoster lists the named generals that can be found or hired.
var HistoricalRoster = []struct {
	Name  string
	Stats Stats
}{
	{"Pang Tong", Stats{34, 97, 85, 69}},
	{"Sima Yi", Stats{63, 98, 93, 87}},
	{"Jiang Wei", Stats{89, 90, 67, 80}},
	{"Huang Zhong", Stats{93, 60, 52, 75}},
	{"Wei Yan", Stats{92, 69, 45, 34}},
	{"Lu Xun", Stats{69, 95, 87, 90}},
	{"Gan Ning", Stats{94, 76, 18, 55}},
	{"Zhang Liao", Stats{93, 78, 72, 84}},
	{"Xu Huang", Stats{91, 74, 48, 71}},
	{"Dian Wei", Stats{95, 29, 22, 56}},
	{"Xu Chu", Stats{96, 36, 20, 59}},
	{"Xun Yu", Stats{14, 95, 99, 92}},
	{"Sun Ce", Stats{92, 72, 70, 92}},
	{"Yan Liang", Stats{89, 42, 31, 50}},
	{"Wen Chou", Stats{88, 25, 24, 45}},
}

var (
	surnames = []string{"Li", "Wang", "Zhang", "Liu", "Chen", "Yang", "Zhao", "Huang", "Zhou", "Wu",
		"Xu", "Sun", "Ma", "Zhu", "Hu", "Guo", "He", "Gao", "Lin", "Luo"}
	givenNames = []string{"Wei", "Fang", "Yuan", "Ming", "Lei", "Feng", "Long", "Hu", "Jun", "Yi",
		"Tian", "Hua", "Gang", "Jian", "Ping", "Cheng", "Xin", "Bo", "Kai", "Sheng"}
	titles = []string{"Captain", "Scholar", "Merchant", "Swordsman", "Strategist", "Official", "Bandit", "Guard"}
)
