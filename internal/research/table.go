package research

import "github.com/napolitain/kingdom-core/internal/models"

// DefaultTable returns the built-in research table, used when the content pack has none
func DefaultTable() map[string]*models.ResearchDefinition {
	return map[string]*models.ResearchDefinition{
		"masonry": {
			ID: "masonry", Name: "Masonry", Category: "defense",
			GoldCost: 40, WavesRequired: 2,
			Effects: map[string]float64{"wall_hp_bonus": 2},
		},
		"reinforced_walls": {
			ID: "reinforced_walls", Name: "Reinforced Walls", Category: "defense",
			GoldCost: 90, WavesRequired: 3, Prerequisite: "masonry",
			Effects: map[string]float64{"wall_hp_bonus": 3, "castle_hp_bonus": 2},
		},
		"crop_rotation": {
			ID: "crop_rotation", Name: "Crop Rotation", Category: "economy",
			GoldCost: 50, WavesRequired: 3,
			Effects: map[string]float64{"food_multiplier": 0.10},
		},
		"irrigation": {
			ID: "irrigation", Name: "Irrigation", Category: "economy",
			GoldCost: 100, WavesRequired: 4, Prerequisite: "crop_rotation",
			Effects: map[string]float64{"food_multiplier": 0.15},
		},
		"trade_routes": {
			ID: "trade_routes", Name: "Trade Routes", Category: "economy",
			GoldCost: 80, WavesRequired: 3,
			Effects: map[string]float64{"gold_multiplier": 0.10},
		},
		"fletching": {
			ID: "fletching", Name: "Fletching", Category: "military",
			GoldCost: 60, WavesRequired: 2,
			Effects: map[string]float64{"tower_damage_bonus": 1},
		},
		"ballistics": {
			ID: "ballistics", Name: "Ballistics", Category: "military",
			GoldCost: 120, WavesRequired: 4, Prerequisite: "fletching",
			Effects: map[string]float64{"tower_damage_bonus": 2, "tower_range_bonus": 1},
		},
		"scribes": {
			ID: "scribes", Name: "Scribes", Category: "typing",
			GoldCost: 30, WavesRequired: 1,
			Effects: map[string]float64{"combo_bonus": 0.05},
		},
		"calligraphy": {
			ID: "calligraphy", Name: "Calligraphy", Category: "typing",
			GoldCost: 70, WavesRequired: 2, Prerequisite: "scribes",
			Effects: map[string]float64{"combo_bonus": 0.10, "accuracy_bonus": 0.05},
		},
	}
}
