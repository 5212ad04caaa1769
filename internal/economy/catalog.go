// Package economy holds the building catalog and daily production aggregation
package economy

import (
	"sort"

	"github.com/napolitain/kingdom-core/internal/models"
)

// Catalog is an immutable registry of building definitions
type Catalog struct {
	defs map[models.BuildingType]*models.BuildingDefinition
	ids  []models.BuildingType
}

// NewCatalog builds a catalog from loaded definitions. Nil entries are ignored.
func NewCatalog(defs map[models.BuildingType]*models.BuildingDefinition) *Catalog {
	c := &Catalog{defs: make(map[models.BuildingType]*models.BuildingDefinition, len(defs))}
	for id, def := range defs {
		if def == nil {
			continue
		}
		c.defs[id] = def
		c.ids = append(c.ids, id)
	}
	sort.Slice(c.ids, func(i, j int) bool { return c.ids[i] < c.ids[j] })
	return c
}

// Get returns the definition for id, or false when unknown
func (c *Catalog) Get(id models.BuildingType) (*models.BuildingDefinition, bool) {
	def, ok := c.defs[id]
	return def, ok
}

// IDs returns all building identifiers in ascending order
func (c *Catalog) IDs() []models.BuildingType {
	out := make([]models.BuildingType, len(c.ids))
	copy(out, c.ids)
	return out
}

// Len returns the number of definitions
func (c *Catalog) Len() int {
	return len(c.defs)
}

// TotalDefense sums the defense of every owned building.
// Unknown identifiers and non-positive counts contribute nothing.
func (c *Catalog) TotalDefense(counts map[models.BuildingType]int) int {
	total := 0
	for id, count := range counts {
		if count <= 0 {
			continue
		}
		if def, ok := c.defs[id]; ok {
			total += def.Defense * count
		}
	}
	return total
}

// TotalWorkerSlots sums the worker slots of every owned building
func (c *Catalog) TotalWorkerSlots(counts map[models.BuildingType]int) int {
	total := 0
	for id, count := range counts {
		if count <= 0 {
			continue
		}
		if def, ok := c.defs[id]; ok {
			total += def.WorkerSlots * count
		}
	}
	return total
}

// DailyProduction returns the resources produced per day by the owned buildings.
// Every recognized resource kind is present in the result, zero when nothing produces it.
func (c *Catalog) DailyProduction(counts map[models.BuildingType]int) map[models.ResourceType]int {
	out := make(map[models.ResourceType]int, len(models.AllResourceTypes()))
	for _, rt := range models.AllResourceTypes() {
		out[rt] = 0
	}

	for id, count := range counts {
		if count <= 0 {
			continue
		}
		def, ok := c.defs[id]
		if !ok {
			continue
		}
		for rt, amount := range def.Production {
			out[rt] += amount * count
		}
	}
	return out
}

// CanAfford reports whether resources cover the cost of building id
func (c *Catalog) CanAfford(resources map[models.ResourceType]int, id models.BuildingType) bool {
	def, ok := c.defs[id]
	if !ok {
		return false
	}
	for rt, amount := range def.Cost {
		if resources[rt] < amount {
			return false
		}
	}
	return true
}

// Build pays for one building of type id and adds it to the state.
// It returns false without touching the state when id is unknown or unaffordable.
func (c *Catalog) Build(state *models.GameState, id models.BuildingType) bool {
	if !c.CanAfford(state.Resources, id) {
		return false
	}
	for rt, amount := range c.defs[id].Cost {
		state.Resources[rt] -= amount
	}
	state.Buildings[id]++
	return true
}

// ApplyDailyProduction credits one day of production to the state's resources
func (c *Catalog) ApplyDailyProduction(state *models.GameState) map[models.ResourceType]int {
	produced := c.DailyProduction(state.Buildings)
	for rt, amount := range produced {
		state.Resources[rt] += amount
	}
	return produced
}
