package models

// ResourceType represents the different resource types in the kingdom
type ResourceType string

const (
	Wood  ResourceType = "wood"
	Stone ResourceType = "stone"
	Food  ResourceType = "food"
	Iron  ResourceType = "iron"
)

// AllResourceTypes returns all recognized resource types in deterministic order
func AllResourceTypes() []ResourceType {
	return []ResourceType{Wood, Stone, Food, Iron}
}

// IsResourceType reports whether rt is a recognized resource kind
func IsResourceType(rt ResourceType) bool {
	for _, known := range AllResourceTypes() {
		if rt == known {
			return true
		}
	}
	return false
}

// BuildingType identifies a building definition in the catalog
type BuildingType string

// Costs maps a resource kind to an amount
type Costs map[ResourceType]int

// BuildingDefinition is the static description of one building type
type BuildingDefinition struct {
	ID          BuildingType
	Name        string
	Description string
	Cost        Costs
	Production  Costs // per day
	Defense     int
	WorkerSlots int
	Category    string
	Tier        int
}

// FactionDefinition is the static description of one faction
type FactionDefinition struct {
	ID          string
	Name        string
	Personality string
	Baseline    int // [-100, 100]
}

// ResearchDefinition is one node of the research tree
type ResearchDefinition struct {
	ID            string
	Name          string
	Category      string
	GoldCost      int
	WavesRequired int
	Prerequisite  string // empty when the node has none
	Effects       map[string]float64
}
