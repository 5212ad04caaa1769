package savegame

import "github.com/napolitain/kingdom-core/internal/document"

// Version 1 kept research progress in flat top-level keys
const (
	v1ActiveResearch    = "active_research"
	v1ResearchProgress  = "research_progress"
	v1CompletedResearch = "completed_research"
)

// migrate upgrades doc from version to the current layout. The input is not modified.
func migrate(doc document.Map, version int64) document.Map {
	if version >= Version {
		return doc
	}
	out := make(document.Map, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	if version < 2 {
		migrateV1Research(out)
	}
	return out
}

func migrateV1Research(doc document.Map) {
	defer func() {
		delete(doc, v1ActiveResearch)
		delete(doc, v1ResearchProgress)
		delete(doc, v1CompletedResearch)
	}()

	if _, ok := doc.Map(keyResearch); ok {
		return
	}
	if !doc.Has(v1ActiveResearch) && !doc.Has(v1ResearchProgress) && !doc.Has(v1CompletedResearch) {
		return
	}

	research := document.Map{
		"active":   document.String(doc.String(v1ActiveResearch, "")),
		"progress": document.Int(doc.Int64(v1ResearchProgress, 0)),
	}
	switch c := doc[v1CompletedResearch].(type) {
	case document.List:
		research["completed"] = c
	case document.Map:
		// {"id": true} form
		completed := document.List{}
		for _, id := range c.Keys() {
			if on, ok := document.ToBool(c[id]); ok && on {
				completed = append(completed, document.String(id))
			}
		}
		research["completed"] = completed
	}
	doc[keyResearch] = research
}
