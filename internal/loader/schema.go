package loader

import (
	"github.com/invopop/jsonschema"
)

// ContentSchema returns the JSON schema of a content document, for editor tooling
// and validation of designer-authored packs.
func ContentSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&ContentFile{})
	schema.Title = "Kingdom content pack"
	schema.Description = "Buildings, factions and research definitions keyed by identifier"
	return schema
}
