package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

// record is one sample in a YAML file, keyed by field key (sample_number,
// client, ...) or by sheet header.
type record map[string]string

// readRecords loads a YAML file holding either one record or a list of them.
func readRecords(path string) ([]record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return decodeRecords(data)
}

func decodeRecords(data []byte) ([]record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		var r record
		if err := root.Decode(&r); err != nil {
			return nil, fmt.Errorf("invalid record: %w", err)
		}
		return []record{r}, nil
	case yaml.SequenceNode:
		var rs []record
		if err := root.Decode(&rs); err != nil {
			return nil, fmt.Errorf("invalid records: %w", err)
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("expected a record or a list of records")
	}
}

// changes resolves the record into a partial form keyed by field key.
// Unknown keys are an error so typos do not silently drop data.
func (r record) changes() (domain.Form, error) {
	form := make(domain.Form, len(r))
	var unknown []string
	for k, v := range r {
		key := fieldKey(k)
		if key == "" {
			unknown = append(unknown, k)
			continue
		}
		form.Set(key, v)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown fields: %s", strings.Join(unknown, ", "))
	}
	return form, nil
}

func fieldKey(name string) string {
	name = strings.TrimSpace(name)
	if _, ok := domain.FieldByKey(name); ok {
		return name
	}
	for _, f := range domain.Fields() {
		if strings.EqualFold(f.Header, name) {
			return f.Key
		}
	}
	return ""
}
