package config

import (
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Schemas reflects JSON schemas for the config documents, keyed by file name.
func Schemas() (map[string]*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	docs := []struct {
		file  string
		typ   reflect.Type
		title string
		desc  string
	}{
		{ArenaFile, reflect.TypeOf(Config{}), "Arena", "Arena geometry, timing, player and leveling settings."},
		{ClassesFile, reflect.TypeOf(ClassesConfig{}), "Classes", "Per-class stat profiles applied at spawn."},
	}

	out := make(map[string]*jsonschema.Schema, len(docs))
	for _, doc := range docs {
		s := reflector.ReflectFromType(doc.typ)
		if s == nil {
			return nil, fmt.Errorf("reflect schema for %s", doc.file)
		}
		s.Version = ""
		s.Title = doc.title
		s.Description = doc.desc
		out[doc.file] = s
	}
	return out, nil
}
