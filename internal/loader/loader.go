package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/kingdom-core/internal/logger"
)

// Content file base names inside the data directory
const (
	BuildingsFile = "buildings"
	FactionsFile  = "factions"
	ResearchFile  = "research"
)

var contentExtensions = []string{".json", ".yaml", ".yml"}

// entry decodes one collection member into v
type entry func(v any) error

// FindContentFile returns the first existing <dataDir>/<base>.{json,yaml,yml}, or "" if none exists
func FindContentFile(dataDir, base string) string {
	for _, ext := range contentExtensions {
		path := filepath.Join(dataDir, base+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// readCollection reads the named top-level collection of a content document.
// A missing file or collection yields an empty result and no error: partial
// content packs are allowed. Only a file that exists but cannot be parsed errors.
func readCollection(path, collection string) (map[string]entry, error) {
	log := logger.Log.WithFields(logrus.Fields{"file": path, "collection": collection})

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("content file not found, using empty registry")
			return map[string]entry{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return readYAMLCollection(data, path, collection, log)
	}
	return readJSONCollection(data, path, collection, log)
}

func readJSONCollection(data []byte, path, collection string, log *logrus.Entry) (map[string]entry, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	raw, ok := top[collection]
	if !ok {
		log.Debug("collection missing, using empty registry")
		return map[string]entry{}, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		log.WithError(err).Warn("collection is not an object, using empty registry")
		return map[string]entry{}, nil
	}

	out := make(map[string]entry, len(members))
	for id, msg := range members {
		msg := msg
		out[id] = func(v any) error { return json.Unmarshal(msg, v) }
	}
	return out, nil
}

func readYAMLCollection(data []byte, path, collection string, log *logrus.Entry) (map[string]entry, error) {
	var top map[string]yaml.Node
	if err := yaml.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	node, ok := top[collection]
	if !ok {
		log.Debug("collection missing, using empty registry")
		return map[string]entry{}, nil
	}

	var members map[string]yaml.Node
	if err := node.Decode(&members); err != nil {
		log.WithError(err).Warn("collection is not a mapping, using empty registry")
		return map[string]entry{}, nil
	}

	out := make(map[string]entry, len(members))
	for id, n := range members {
		n := n
		out[id] = func(v any) error { return n.Decode(v) }
	}
	return out, nil
}

func skipEntry(path, kind, id string, err error) {
	logger.Log.WithFields(logrus.Fields{"file": path, "id": id}).
		WithError(err).Warnf("skipping malformed %s entry", kind)
}
