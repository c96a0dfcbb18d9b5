package game

import (
	"github.com/wfunc/hell-game/internal/catalog"
	"go.uber.org/zap"
)

// testCatalog 构造覆盖全部稀有度与门控分支的测试内容目录
func testCatalog() *catalog.Catalog {
	origins := []catalog.Origin{
		{
			ID:   "gutter-born",
			Name: "Gutter-Born",
			StartingStats: catalog.StatBlock{
				Power: 5, Control: 3, Influence: 2, Corruption: 4, Empathy: 6, Health: 80,
			},
			TraitPoints: 5,
		},
		{
			ID:   "fallen-noble",
			Name: "Fallen Noble",
			StartingStats: catalog.StatBlock{
				Power: 3, Control: 6, Influence: 8, Corruption: 2, Empathy: 3, Health: 70,
			},
			TraitPoints: 3,
		},
	}

	powers := []catalog.Power{
		{ID: "ember-touch", Name: "Ember Touch", Rarity: catalog.RarityCommon, BasePower: 4},
		{ID: "ash-veil", Name: "Ash Veil", Rarity: catalog.RarityCommon, BasePower: 3},
		{ID: "shadow-step", Name: "Shadow Step", Rarity: catalog.RarityUncommon, BasePower: 6},
		{ID: "soul-brand", Name: "Soul Brand", Rarity: catalog.RarityRare, BasePower: 8},
		{ID: "crown-of-ash", Name: "Crown of Ash", Rarity: catalog.RarityLegendary, BasePower: 12},
		{ID: "leviathan-pact", Name: "Leviathan Pact", Rarity: catalog.RarityMythical, BasePower: 20},
	}

	traits := []catalog.Trait{
		{ID: "silver-tongue", Name: "Silver Tongue", Cost: 3},
		{ID: "iron-will", Name: "Iron Will", Cost: 2},
		{ID: "hunted", Name: "Hunted", Cost: -2},
	}

	npcs := []catalog.NPC{
		{ID: "vex", Name: "Vex", Faction: "smugglers", BasePower: 8, Romanceable: true},
		{ID: "warden-kross", Name: "Warden Kross", Faction: "wardens", BasePower: 15, Romanceable: false},
	}

	districts := []catalog.District{
		{ID: "ashen-market", Name: "Ashen Market", DangerLevel: 2},
		{ID: "obsidian-spire", Name: "Obsidian Spire", DangerLevel: 6},
	}

	events := []catalog.Event{
		{
			ID:          "debt-collector",
			Title:       "The Debt Collector",
			Description: "A horned collector blocks your path, ledger in claw.",
			OnlyOnce:    true,
			Choices: []catalog.EventChoice{
				{
					ID:   "pay",
					Text: "Pay what you owe",
					Outcomes: catalog.EventOutcome{
						StatChanges:   map[string]int{"wealth": -100, "influence": 1},
						NarrativeText: "The collector bows and melts into the crowd.",
					},
				},
				{
					ID:   "fight",
					Text: "Break his horns",
					Outcomes: catalog.EventOutcome{
						StatChanges:   map[string]int{"power": 2, "health": -10, "corruption": 3},
						NarrativeText: "The market learns your name tonight.",
					},
				},
			},
		},
		{
			ID:          "street-sermon",
			Title:       "Street Sermon",
			Description: "A mad prophet preaches on a corner of the Ashen Market.",
			Choices: []catalog.EventChoice{
				{
					ID:   "listen",
					Text: "Listen",
					Outcomes: catalog.EventOutcome{
						StatChanges:   map[string]int{"empathy": 1},
						NarrativeText: "His words linger longer than you would like.",
					},
				},
			},
		},
	}

	return catalog.NewCatalog(origins, powers, traits, npcs, districts, events)
}

// testCharacter 基准角色
func testCharacter() Character {
	return Character{
		ID:              "ch-test",
		FirstName:       "Morgan",
		LastName:        "Vael",
		OriginID:        "gutter-born",
		Power:           30,
		Control:         10,
		Influence:       5,
		Corruption:      8,
		Empathy:         6,
		Health:          100,
		Wealth:          500,
		Soulcoins:       50,
		CurrentLocation: "ashen-market",
	}
}

// testState 基准快照
func testState() *GameState {
	return NewGameState("state-test", testCharacter())
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
