package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Join policies accepted by the merge engine.
const (
	JoinRight = "right"
	JoinLeft  = "left"
	JoinInner = "inner"
	JoinOuter = "outer"
)

// ColumnMapping places the source column Source at Position under the name Name.
type ColumnMapping struct {
	Name     string
	Position int
	Source   string
}

// ColumnMap is an output schema ordered by position.
// In YAML it is written as {output_name: [position, source_name]}.
type ColumnMap []ColumnMapping

// UnmarshalYAML decodes the mapping form and sorts the result by position.
func (m *ColumnMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: column map must be a mapping", node.Line)
	}
	out := make(ColumnMap, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var pair []yaml.Node
		if err := val.Decode(&pair); err != nil || len(pair) != 2 {
			return fmt.Errorf("line %d: %q must be [position, source_column]", val.Line, key.Value)
		}
		var mc ColumnMapping
		mc.Name = key.Value
		if err := pair[0].Decode(&mc.Position); err != nil {
			return fmt.Errorf("line %d: position of %q: %w", val.Line, key.Value, err)
		}
		if err := pair[1].Decode(&mc.Source); err != nil {
			return fmt.Errorf("line %d: source of %q: %w", val.Line, key.Value, err)
		}
		out = append(out, mc)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	*m = out
	return nil
}

// Names returns the output column names in position order.
func (m ColumnMap) Names() []string {
	names := make([]string, len(m))
	for i, mc := range m {
		names[i] = mc.Name
	}
	return names
}

// Sources returns the source column names in position order.
func (m ColumnMap) Sources() []string {
	srcs := make([]string, len(m))
	for i, mc := range m {
		srcs[i] = mc.Source
	}
	return srcs
}

// Identity maps every output name onto itself at the same position.
func (m ColumnMap) Identity() ColumnMap {
	out := make(ColumnMap, len(m))
	for i, mc := range m {
		out[i] = ColumnMapping{Name: mc.Name, Position: mc.Position, Source: mc.Name}
	}
	return out
}

// Lookup returns the mapping producing output column name.
func (m ColumnMap) Lookup(name string) (ColumnMapping, bool) {
	for _, mc := range m {
		if mc.Name == name {
			return mc, true
		}
	}
	return ColumnMapping{}, false
}

// BitrixKeys names the task-tracker columns the normalizer works on.
type BitrixKeys struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tags        string `yaml:"tags"`
	Target      string `yaml:"target"`
}

// WebKeys names the field-operations columns the normalizer works on.
type WebKeys struct {
	Tractor   string `yaml:"tractor"`
	Component string `yaml:"component"`
	Bureau    string `yaml:"bureau"`
	Hours     string `yaml:"hours"`
	Comment   string `yaml:"comment"`
	// registry-only columns
	Model       string `yaml:"model"`
	Warranty    string `yaml:"warranty"`
	DefectHours string `yaml:"defect_hours"`
	ReportTime  string `yaml:"report_time"`
}

// ReportKeys names the output columns the composer aggregates on.
type ReportKeys struct {
	Bureau    string `yaml:"bureau"`
	Component string `yaml:"component"`
	Tractor   string `yaml:"tractor"`
	Hours     string `yaml:"hours"`
	Target    string `yaml:"target"`
}

// ReportConfig is the immutable report configuration.
type ReportConfig struct {
	BitrixColumns   []string   `yaml:"bitrix_columns"`
	WebColumns      []string   `yaml:"web_columns"`
	ReportColumnMap ColumnMap  `yaml:"report_column_map"`
	FormatColumnMap ColumnMap  `yaml:"format_column_map"`
	JoinPolicy      string     `yaml:"join_policy"`
	GapFill         *bool      `yaml:"gap_fill"`
	BitrixKeys      BitrixKeys `yaml:"bitrix_keys"`
	WebKeys         WebKeys    `yaml:"web_keys"`
	ReportKeys      ReportKeys `yaml:"report_keys"`

	NamePrefix         string `yaml:"name_prefix"`
	DescriptionMarker  string `yaml:"description_marker"`
	CommentPlaceholder string `yaml:"comment_placeholder"`
	CollisionSuffix    string `yaml:"collision_suffix"`
}

// LoadReportConfig reads and validates the configuration at path.
func LoadReportConfig(path string) (*ReportConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report config: %w", err)
	}
	return ParseReportConfig(raw)
}

// ParseReportConfig decodes a YAML (or JSON) document.
func ParseReportConfig(raw []byte) (*ReportConfig, error) {
	var cfg ReportConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse report config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ReportConfig) applyDefaults() {
	if c.JoinPolicy == "" {
		c.JoinPolicy = JoinRight
	}
	if c.GapFill == nil {
		on := true
		c.GapFill = &on
	}
	if len(c.FormatColumnMap) == 0 {
		c.FormatColumnMap = c.ReportColumnMap.Identity()
	}
	if c.NamePrefix == "" {
		c.NamePrefix = "ПЭ: "
	}
	if c.DescriptionMarker == "" {
		c.DescriptionMarker = "ПЭ"
	}
	if c.CommentPlaceholder == "" {
		c.CommentPlaceholder = "-"
	}
	if c.CollisionSuffix == "" {
		c.CollisionSuffix = "_bitrix"
	}
	setDefault(&c.BitrixKeys.Name, "Название")
	setDefault(&c.BitrixKeys.Description, "Описание")
	setDefault(&c.BitrixKeys.Tags, "Теги")
	setDefault(&c.BitrixKeys.Target, "Примечание")
	setDefault(&c.WebKeys.Tractor, "№ трактора")
	setDefault(&c.WebKeys.Component, "Опытный узел")
	setDefault(&c.WebKeys.Bureau, "Бюро")
	setDefault(&c.WebKeys.Hours, "Наработка, м/ч")
	setDefault(&c.WebKeys.Comment, "ПЭ: Комментарий")
	setDefault(&c.WebKeys.Model, "Модель трактора")
	setDefault(&c.WebKeys.Warranty, "Граничная дата гарантии")
	setDefault(&c.WebKeys.DefectHours, "ПЭ: наработка м/ч")
	setDefault(&c.WebKeys.ReportTime, "ПЭ: дата время")
	setDefault(&c.ReportKeys.Bureau, "Бюро")
	setDefault(&c.ReportKeys.Component, "Опытный узел")
	setDefault(&c.ReportKeys.Tractor, "№ трактора")
	setDefault(&c.ReportKeys.Hours, "Наработка, м/ч")
	setDefault(&c.ReportKeys.Target, "Продолжительность контроля, м/ч")
}

func setDefault(field *string, v string) {
	if *field == "" {
		*field = v
	}
}

// Validate checks the invariants the pipeline relies on.
func (c *ReportConfig) Validate() error {
	var errs []error
	if len(c.BitrixColumns) == 0 {
		errs = append(errs, errors.New("bitrix_columns is empty"))
	}
	if len(c.WebColumns) == 0 {
		errs = append(errs, errors.New("web_columns is empty"))
	}
	if len(c.ReportColumnMap) == 0 {
		errs = append(errs, errors.New("report_column_map is empty"))
	}
	switch c.JoinPolicy {
	case JoinRight, JoinLeft, JoinInner, JoinOuter:
	default:
		errs = append(errs, fmt.Errorf("unknown join_policy %q", c.JoinPolicy))
	}
	for _, m := range []struct {
		name string
		cm   ColumnMap
	}{{"report_column_map", c.ReportColumnMap}, {"format_column_map", c.FormatColumnMap}} {
		seen := map[int]string{}
		for _, mc := range m.cm {
			if prev, ok := seen[mc.Position]; ok {
				errs = append(errs, fmt.Errorf("%s: %q and %q share position %d", m.name, prev, mc.Name, mc.Position))
			}
			seen[mc.Position] = mc.Name
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid report config: %w", errors.Join(errs...))
	}
	return nil
}

// FillGaps reports whether the merged table is forward/backward filled.
func (c *ReportConfig) FillGaps() bool { return c.GapFill == nil || *c.GapFill }
