package loader

import (
	"fmt"

	"github.com/napolitain/kingdom-core/internal/models"
)

// BuildingJSON represents one entry of the "buildings" collection
type BuildingJSON struct {
	Name        string         `json:"name" yaml:"name" jsonschema:"title=Display name"`
	Description string         `json:"description,omitempty" yaml:"description"`
	Cost        map[string]int `json:"cost,omitempty" yaml:"cost" jsonschema:"description=Resource kind to amount paid once on construction"`
	Production  map[string]int `json:"production,omitempty" yaml:"production" jsonschema:"description=Resource kind to amount produced per day"`
	Defense     int            `json:"defense,omitempty" yaml:"defense" jsonschema:"minimum=0"`
	WorkerSlots int            `json:"worker_slots,omitempty" yaml:"worker_slots" jsonschema:"minimum=0"`
	Category    string         `json:"category,omitempty" yaml:"category"`
	Tier        int            `json:"tier,omitempty" yaml:"tier" jsonschema:"minimum=0"`
}

// FactionJSON represents one entry of the "factions" collection
type FactionJSON struct {
	Name        string `json:"name" yaml:"name" jsonschema:"title=Display name"`
	Personality string `json:"personality,omitempty" yaml:"personality"`
	Baseline    int    `json:"baseline" yaml:"baseline" jsonschema:"minimum=-100,maximum=100,description=Relation value the faction decays toward"`
}

// ResearchJSON represents one entry of the "research" collection
type ResearchJSON struct {
	Name          string             `json:"name" yaml:"name"`
	Category      string             `json:"category,omitempty" yaml:"category"`
	Cost          int                `json:"cost" yaml:"cost" jsonschema:"minimum=0,description=Gold debited when research starts"`
	WavesRequired int                `json:"waves_required" yaml:"waves_required" jsonschema:"minimum=1"`
	Requires      string             `json:"requires,omitempty" yaml:"requires" jsonschema:"description=Identifier of the single prerequisite node"`
	Effects       map[string]float64 `json:"effects,omitempty" yaml:"effects"`
}

// ContentFile is the union of every collection a content document may carry
type ContentFile struct {
	Buildings map[string]BuildingJSON `json:"buildings,omitempty" yaml:"buildings"`
	Factions  map[string]FactionJSON  `json:"factions,omitempty" yaml:"factions"`
	Research  map[string]ResearchJSON `json:"research,omitempty" yaml:"research"`
}

// LoadBuildings loads building definitions from <dataDir>/buildings.{json,yaml,yml}
func LoadBuildings(dataDir string) (map[models.BuildingType]*models.BuildingDefinition, error) {
	path := FindContentFile(dataDir, BuildingsFile)
	if path == "" {
		return map[models.BuildingType]*models.BuildingDefinition{}, nil
	}
	return LoadBuildingsFile(path)
}

// LoadBuildingsFile loads the "buildings" collection of one content document
func LoadBuildingsFile(path string) (map[models.BuildingType]*models.BuildingDefinition, error) {
	entries, err := readCollection(path, "buildings")
	if err != nil {
		return nil, err
	}

	buildings := make(map[models.BuildingType]*models.BuildingDefinition, len(entries))
	for id, decode := range entries {
		var raw BuildingJSON
		if err := decode(&raw); err != nil {
			skipEntry(path, "building", id, err)
			continue
		}
		if err := validateAmounts(raw.Cost, raw.Production); err != nil {
			skipEntry(path, "building", id, err)
			continue
		}
		if raw.Defense < 0 || raw.WorkerSlots < 0 {
			skipEntry(path, "building", id, fmt.Errorf("negative defense or worker slots"))
			continue
		}

		bt := models.BuildingType(id)
		name := raw.Name
		if name == "" {
			name = id
		}
		buildings[bt] = &models.BuildingDefinition{
			ID:          bt,
			Name:        name,
			Description: raw.Description,
			Cost:        toCosts(raw.Cost),
			Production:  toCosts(raw.Production),
			Defense:     raw.Defense,
			WorkerSlots: raw.WorkerSlots,
			Category:    raw.Category,
			Tier:        raw.Tier,
		}
	}

	return buildings, nil
}

// LoadFactions loads faction definitions from <dataDir>/factions.{json,yaml,yml}
func LoadFactions(dataDir string) (map[string]*models.FactionDefinition, error) {
	path := FindContentFile(dataDir, FactionsFile)
	if path == "" {
		return map[string]*models.FactionDefinition{}, nil
	}
	return LoadFactionsFile(path)
}

// LoadFactionsFile loads the "factions" collection of one content document
func LoadFactionsFile(path string) (map[string]*models.FactionDefinition, error) {
	entries, err := readCollection(path, "factions")
	if err != nil {
		return nil, err
	}

	factions := make(map[string]*models.FactionDefinition, len(entries))
	for id, decode := range entries {
		var raw FactionJSON
		if err := decode(&raw); err != nil {
			skipEntry(path, "faction", id, err)
			continue
		}
		if raw.Baseline < -100 || raw.Baseline > 100 {
			skipEntry(path, "faction", id, fmt.Errorf("baseline %d outside [-100, 100]", raw.Baseline))
			continue
		}

		name := raw.Name
		if name == "" {
			name = id
		}
		factions[id] = &models.FactionDefinition{
			ID:          id,
			Name:        name,
			Personality: raw.Personality,
			Baseline:    raw.Baseline,
		}
	}

	return factions, nil
}

// LoadResearch loads research definitions from <dataDir>/research.{json,yaml,yml}.
// An empty result means the caller should use the built-in table.
func LoadResearch(dataDir string) (map[string]*models.ResearchDefinition, error) {
	path := FindContentFile(dataDir, ResearchFile)
	if path == "" {
		return map[string]*models.ResearchDefinition{}, nil
	}
	return LoadResearchFile(path)
}

// LoadResearchFile loads the "research" collection of one content document
func LoadResearchFile(path string) (map[string]*models.ResearchDefinition, error) {
	entries, err := readCollection(path, "research")
	if err != nil {
		return nil, err
	}

	research := make(map[string]*models.ResearchDefinition, len(entries))
	skipped := make(map[string]bool)
	for id, decode := range entries {
		var raw ResearchJSON
		if err := decode(&raw); err != nil {
			skipEntry(path, "research", id, err)
			skipped[id] = true
			continue
		}
		if raw.Cost < 0 || raw.WavesRequired < 1 {
			skipEntry(path, "research", id, fmt.Errorf("cost %d / waves %d out of range", raw.Cost, raw.WavesRequired))
			skipped[id] = true
			continue
		}

		effects := make(map[string]float64, len(raw.Effects))
		for k, v := range raw.Effects {
			effects[k] = v
		}
		research[id] = &models.ResearchDefinition{
			ID:            id,
			Name:          raw.Name,
			Category:      raw.Category,
			GoldCost:      raw.Cost,
			WavesRequired: raw.WavesRequired,
			Prerequisite:  raw.Requires,
			Effects:       effects,
		}
	}

	dropOrphans(path, research, skipped)
	return research, nil
}

// dropOrphans removes nodes whose prerequisite chain leads to a skipped entry.
// Prerequisites that were never defined are left for tree validation to report.
func dropOrphans(path string, research map[string]*models.ResearchDefinition, skipped map[string]bool) {
	for changed := len(skipped) > 0; changed; {
		changed = false
		for id, def := range research {
			if def.Prerequisite != "" && skipped[def.Prerequisite] {
				skipEntry(path, "research", id, fmt.Errorf("prerequisite %q was skipped", def.Prerequisite))
				delete(research, id)
				skipped[id] = true
				changed = true
			}
		}
	}
}

func validateAmounts(maps ...map[string]int) error {
	for _, m := range maps {
		for res, amount := range m {
			if !models.IsResourceType(models.ResourceType(res)) {
				return fmt.Errorf("unknown resource kind %q", res)
			}
			if amount < 0 {
				return fmt.Errorf("negative amount %d for %s", amount, res)
			}
		}
	}
	return nil
}

func toCosts(m map[string]int) models.Costs {
	costs := make(models.Costs, len(m))
	for res, amount := range m {
		costs[models.ResourceType(res)] = amount
	}
	return costs
}
