package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AngelCh415/channel-roi/internal/models"
)

// ParseTable decodes a channel table document. The document is a mapping
// with a "channels" key whose value maps channel id to parameters. JSON is
// accepted too since it is valid YAML. Absent fields take their defaults
// and the document order is kept.
func ParseTable(b []byte) (models.ChannelTable, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, fmt.Errorf("decode channel table: %w", err)
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil, errors.New("channel table: expected a mapping")
	}

	var channels *yaml.Node
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "channels" {
			channels = doc.Content[i+1]
		}
	}
	if channels == nil || channels.Kind != yaml.MappingNode {
		return nil, errors.New("channel table: missing channels mapping")
	}

	table := make(models.ChannelTable, 0, len(channels.Content)/2)
	seen := map[string]struct{}{}
	for i := 0; i+1 < len(channels.Content); i += 2 {
		id := norm(channels.Content[i].Value)
		if id == "" {
			return nil, fmt.Errorf("channel table: empty id at line %d", channels.Content[i].Line)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("channel table: duplicate id %q", id)
		}
		seen[id] = struct{}{}

		p := models.DefaultChannelParameters()
		if err := channels.Content[i+1].Decode(&p); err != nil {
			return nil, fmt.Errorf("channel %s: %w", id, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("channel %s: %w", id, err)
		}
		table = append(table, models.Channel{ID: id, Params: p})
	}
	return table, nil
}

func LoadFile(path string) (models.ChannelTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channel table: %w", err)
	}
	return ParseTable(b)
}

// ApplyOverrides decodes each partial record on top of the matching table
// entry (or the defaults for a new id). Existing ids keep their position;
// new ids are appended sorted by id.
func ApplyOverrides(table models.ChannelTable, overrides map[string]json.RawMessage) (models.ChannelTable, error) {
	out := make(models.ChannelTable, len(table))
	copy(out, table)
	if len(overrides) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, rawID := range ids {
		id := norm(rawID)
		if id == "" {
			return nil, errors.New("override with empty channel id")
		}
		idx := -1
		p := models.DefaultChannelParameters()
		for i, c := range out {
			if c.ID == id {
				idx, p = i, c.Params
				break
			}
		}
		if err := json.Unmarshal(overrides[rawID], &p); err != nil {
			return nil, fmt.Errorf("channel %s: %w", id, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("channel %s: %w", id, err)
		}
		if idx >= 0 {
			out[idx].Params = p
		} else {
			out = append(out, models.Channel{ID: id, Params: p})
		}
	}
	return out, nil
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
