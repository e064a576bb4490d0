package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrDuplicateField is returned when two field specs share a key
var ErrDuplicateField = errors.New("duplicate field key")

// Match is one value occurrence found by a rule
type Match struct {
	Value  string
	Column int // byte offset of the value within the line
}

// Library is an immutable, ordered collection of field specs. A built library
// is safe for concurrent use.
type Library struct {
	version string
	fields  []FieldSpec
	index   map[string]int
}

// New compiles the given specs into a library. Field order is preserved.
func New(version string, specs []FieldSpec) (*Library, error) {
	lib := &Library{
		version: version,
		fields:  make([]FieldSpec, 0, len(specs)),
		index:   make(map[string]int, len(specs)),
	}

	for _, spec := range specs {
		if err := lib.add(spec); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// Extend returns a new library holding the receiver's fields followed by specs
func (l *Library) Extend(version string, specs []FieldSpec) (*Library, error) {
	all := make([]FieldSpec, 0, len(l.fields)+len(specs))
	all = append(all, l.fields...)
	all = append(all, specs...)
	if version == "" {
		version = l.version
	}
	return New(version, all)
}

func (l *Library) add(spec FieldSpec) error {
	if spec.Key == "" {
		return errors.New("field key is required")
	}
	if _, exists := l.index[spec.Key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateField, spec.Key)
	}
	if err := validateSpec(spec); err != nil {
		return fmt.Errorf("field %s: %w", spec.Key, err)
	}

	compiled := spec
	compiled.Rules = make([]PatternRule, len(spec.Rules))
	seen := make(map[string]bool, len(spec.Rules))
	for i, rule := range spec.Rules {
		if rule.ID == "" {
			rule.ID = fmt.Sprintf("%s.%d", spec.Key, i+1)
		}
		if seen[rule.ID] {
			return fmt.Errorf("field %s: duplicate rule id %s", spec.Key, rule.ID)
		}
		seen[rule.ID] = true

		if err := rule.compile(spec.Type); err != nil {
			return fmt.Errorf("field %s rule %s: %w", spec.Key, rule.ID, err)
		}
		compiled.Rules[i] = rule
	}
	sort.SliceStable(compiled.Rules, func(a, b int) bool {
		return compiled.Rules[a].Priority < compiled.Rules[b].Priority
	})

	l.index[spec.Key] = len(l.fields)
	l.fields = append(l.fields, compiled)
	return nil
}

func validateSpec(spec FieldSpec) error {
	if _, err := ParseFieldType(string(spec.Type)); err != nil {
		return err
	}
	if _, err := ParseGroup(string(spec.Group)); err != nil {
		return err
	}
	if len(spec.Rules) == 0 {
		return errors.New("at least one pattern rule is required")
	}
	if !spec.Type.IsNumeric() {
		if spec.Range != nil {
			return fmt.Errorf("range needs a numeric field, not %s", spec.Type)
		}
		for _, rule := range spec.Rules {
			if rule.Range != nil {
				return fmt.Errorf("rule %s: range needs a numeric field, not %s", rule.ID, spec.Type)
			}
		}
	}

	switch spec.Type {
	case FieldTypePercent:
		if spec.Percent != PercentPoints && spec.Percent != PercentFraction {
			return fmt.Errorf("percent convention must be %q or %q", PercentPoints, PercentFraction)
		}
	case FieldTypeIdentifier:
		switch spec.Identifier {
		case IdentifierLEI, IdentifierDUNS, IdentifierRegistration:
		default:
			return fmt.Errorf("unknown identifier kind %q", spec.Identifier)
		}
	case FieldTypeEnum:
		if len(spec.Vocabulary) == 0 {
			return errors.New("enum fields need a vocabulary")
		}
	}
	return nil
}

func (r *PatternRule) compile(ft FieldType) error {
	if strings.TrimSpace(r.Anchor) == "" {
		return errors.New("anchor is required")
	}
	if r.Separator == "" {
		r.Separator = DefaultSeparator
	}
	if r.Value == "" {
		r.Value = DefaultValuePattern(ft)
	}
	if r.Priority <= 0 {
		r.Priority = 1
	}

	anchor := `(?i:\b(?:` + r.Anchor + `))`
	value := `(?P<value>` + r.Value + `)`

	lead := ""
	if r.LineStart {
		lead = `^[\s\-•*]*`
	}

	var err error
	if r.inline, err = regexp.Compile(lead + anchor + r.Separator + value); err != nil {
		return err
	}
	if r.AllowNextLine {
		if r.labelOnly, err = regexp.Compile(`^[\s\-•*]*` + anchor + r.Separator + `$`); err != nil {
			return err
		}
		if r.valueOnly, err = regexp.Compile(`^\s*` + value); err != nil {
			return err
		}
	}
	return nil
}

// FindAll returns every value the rule captures on a single line
func (r PatternRule) FindAll(line string) []Match {
	if r.inline == nil {
		return nil
	}
	idx := r.inline.SubexpIndex("value")
	var matches []Match
	for _, loc := range r.inline.FindAllStringSubmatchIndex(line, -1) {
		start, end := loc[2*idx], loc[2*idx+1]
		if start < 0 || cutsDigitRun(line, end) {
			continue
		}
		matches = append(matches, Match{Value: line[start:end], Column: start})
	}
	return matches
}

// FindWrapped matches a label that ends its line with the value at the start
// of the following line. Only rules with AllowNextLine take part.
func (r PatternRule) FindWrapped(label, next string) (Match, bool) {
	if r.labelOnly == nil || r.valueOnly == nil {
		return Match{}, false
	}
	if !r.labelOnly.MatchString(label) {
		return Match{}, false
	}
	loc := r.valueOnly.FindStringSubmatchIndex(next)
	if loc == nil {
		return Match{}, false
	}
	idx := r.valueOnly.SubexpIndex("value")
	start, end := loc[2*idx], loc[2*idx+1]
	if start < 0 || cutsDigitRun(next, end) {
		return Match{}, false
	}
	return Match{Value: next[start:end], Column: start}, true
}

// cutsDigitRun reports whether a capture ending at end stops inside a longer
// run of digits, as in "1,450,0002"
func cutsDigitRun(line string, end int) bool {
	return end > 0 && end < len(line) && isASCIIDigit(line[end-1]) && isASCIIDigit(line[end])
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Version identifies the library revision
func (l *Library) Version() string {
	return l.version
}

// Len returns the number of fields
func (l *Library) Len() int {
	return len(l.fields)
}

// Fields returns the field specs in library order
func (l *Library) Fields() []FieldSpec {
	out := make([]FieldSpec, len(l.fields))
	copy(out, l.fields)
	return out
}

// Field looks up a spec by key
func (l *Library) Field(key string) (FieldSpec, bool) {
	i, ok := l.index[key]
	if !ok {
		return FieldSpec{}, false
	}
	return l.fields[i], true
}

// Keys returns the field keys in library order
func (l *Library) Keys() []string {
	keys := make([]string, len(l.fields))
	for i, f := range l.fields {
		keys[i] = f.Key
	}
	return keys
}

// FieldsInGroup returns the specs of one output group in library order
func (l *Library) FieldsInGroup(group Group) []FieldSpec {
	var out []FieldSpec
	for _, f := range l.fields {
		if f.Group == group {
			out = append(out, f)
		}
	}
	return out
}
