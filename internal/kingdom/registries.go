// Package kingdom drives a game session over the static content registries
package kingdom

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/napolitain/kingdom-core/internal/diplomacy"
	"github.com/napolitain/kingdom-core/internal/economy"
	"github.com/napolitain/kingdom-core/internal/loader"
	"github.com/napolitain/kingdom-core/internal/logger"
	"github.com/napolitain/kingdom-core/internal/research"
)

// Registries holds the immutable content tables. Build once and share.
type Registries struct {
	Buildings *economy.Catalog
	Factions  *diplomacy.Registry
	Research  *research.Tree
}

// LoadRegistries reads the content pack in dataDir. Research falls back to the
// built-in table when the pack defines none.
func LoadRegistries(dataDir string) (*Registries, error) {
	buildings, err := loader.LoadBuildings(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load buildings: %w", err)
	}

	factions, err := loader.LoadFactions(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load factions: %w", err)
	}

	defs, err := loader.LoadResearch(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load research: %w", err)
	}
	if len(defs) == 0 {
		defs = research.DefaultTable()
	}
	tree, err := research.NewTree(defs)
	if err != nil {
		return nil, fmt.Errorf("invalid research table: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"data":      dataDir,
		"buildings": len(buildings),
		"factions":  len(factions),
		"research":  len(tree.IDs()),
	}).Debug("content loaded")

	return &Registries{
		Buildings: economy.NewCatalog(buildings),
		Factions:  diplomacy.NewRegistry(factions),
		Research:  tree,
	}, nil
}
