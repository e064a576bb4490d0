package patterns

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleFile is the on-disk format for custom field definitions
type RuleFile struct {
	Version string        `yaml:"version"`
	Fields  []FieldConfig `yaml:"fields"`
}

// FieldConfig is the YAML form of a FieldSpec
type FieldConfig struct {
	Key        string       `yaml:"key"`
	Label      string       `yaml:"label"`
	Group      string       `yaml:"group"`
	Type       string       `yaml:"type"`
	Required   bool         `yaml:"required"`
	Range      *Range       `yaml:"range,omitempty"`
	Percent    string       `yaml:"percent,omitempty"`
	Identifier string       `yaml:"identifier,omitempty"`
	Vocabulary []EnumValue  `yaml:"vocabulary,omitempty"`
	Rules      []RuleConfig `yaml:"rules"`
}

// RuleConfig is the YAML form of a PatternRule
type RuleConfig struct {
	ID            string `yaml:"id"`
	Anchor        string `yaml:"anchor"`
	Separator     string `yaml:"separator,omitempty"`
	Value         string `yaml:"value,omitempty"`
	Priority      int    `yaml:"priority"`
	Range         *Range `yaml:"range,omitempty"`
	AllowNextLine bool   `yaml:"allow_next_line"`
	LineStart     bool   `yaml:"line_start"`
}

// LoadFile reads custom field definitions and appends them to base
func LoadFile(path string, base *Library) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	lib, err := Load(data, base)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules file %s: %w", path, err)
	}
	return lib, nil
}

// Load parses YAML field definitions and appends them to base
func Load(data []byte, base *Library) (*Library, error) {
	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid rules YAML: %w", err)
	}

	specs := make([]FieldSpec, 0, len(file.Fields))
	for _, fc := range file.Fields {
		spec, err := fc.toSpec()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fc.Key, err)
		}
		specs = append(specs, spec)
	}

	if base == nil {
		version := file.Version
		if version == "" {
			version = "custom"
		}
		return New(version, specs)
	}

	version := base.Version()
	if file.Version != "" {
		version = base.Version() + "+" + file.Version
	}
	return base.Extend(version, specs)
}

func (fc FieldConfig) toSpec() (FieldSpec, error) {
	fieldType, err := ParseFieldType(fc.Type)
	if err != nil {
		return FieldSpec{}, err
	}
	group, err := ParseGroup(fc.Group)
	if err != nil {
		return FieldSpec{}, err
	}

	label := fc.Label
	if label == "" {
		label = fc.Key
	}

	spec := FieldSpec{
		Key:        fc.Key,
		Label:      label,
		Group:      group,
		Type:       fieldType,
		Required:   fc.Required,
		Range:      fc.Range,
		Percent:    PercentConvention(fc.Percent),
		Identifier: IdentifierKind(fc.Identifier),
		Vocabulary: fc.Vocabulary,
	}
	if spec.Type == FieldTypePercent && spec.Percent == "" {
		spec.Percent = PercentPoints
	}

	for _, rc := range fc.Rules {
		spec.Rules = append(spec.Rules, PatternRule{
			ID:            rc.ID,
			Anchor:        rc.Anchor,
			Separator:     rc.Separator,
			Value:         rc.Value,
			Priority:      rc.Priority,
			Range:         rc.Range,
			AllowNextLine: rc.AllowNextLine,
			LineStart:     rc.LineStart,
		})
	}
	return spec, nil
}
