// Package harness implements the conformance-corpus directive grammar (spec
// §6 "Test harness directive grammar"): each fixture file carries its own
// compiler-option overrides as leading `// @key: value` comments, which this
// package parses and translates into a checkeropts.Options plus the
// file-layout metadata the conformance runner itself needs (expected
// filename, baseline path, skip marker).
package harness

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tscorelang/tscheck/internal/checkeropts"
)

// Directive is one `// @key: value` annotation found in a fixture's leading
// comment block, in source order.
type Directive struct {
	Key   string
	Value string
}

var directiveLine = regexp.MustCompile(`^\s*//+\s*@([A-Za-z][A-Za-z0-9_.]*)\s*:\s*(.*?)\s*$`)

// ParseDirectives scans src's leading comment block — the run of blank and
// `//`-prefixed lines at the top of the file — for `@key: value` directives.
// Scanning stops at the first line that is neither blank nor a line comment,
// matching the reference harness's "directives precede any code" rule.
func ParseDirectives(src string) []Directive {
	var out []Directive
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "//") {
			break
		}
		if m := directiveLine.FindStringSubmatch(line); m != nil {
			out = append(out, Directive{Key: m[1], Value: m[2]})
		}
	}
	return out
}

// harnessOnlyKeys describe the conformance runner's own file layout and
// expectations; they never become a compiler option (spec §6).
var harnessOnlyKeys = map[string]bool{
	"filename":           true,
	"symlink":            true,
	"currentdirectory":   true,
	"baselinefile":       true,
	"noerrortruncation":  true,
	"capturesuggestions": true,
	"skip":               true,
}

// listValuedKeys are split on commas rather than parsed as a single scalar
// (spec §6).
var listValuedKeys = map[string]bool{
	"lib":              true,
	"types":            true,
	"typeroots":        true,
	"rootdirs":         true,
	"modulesuffixes":   true,
	"customconditions": true,
}

// FileConfig is the result of translating one fixture's directives: the
// checkeropts.Options the checker should run with, plus every harness-only
// and list-valued directive the runner needs but checkeropts does not model
// (module resolution, lib/type roots are config surfaces this checker
// observes but does not itself interpret — spec §6's `target`/`module`/
// `lib` keys select prelude libs the harness binds in before checking, not
// a behavior of the checker itself).
type FileConfig struct {
	Options checkeropts.Options

	Skip               bool
	Filename           string
	Symlink            string
	CurrentDirectory   string
	BaselineFile       string
	NoErrorTruncation  bool
	CaptureSuggestions bool

	Target             string
	Module             string
	ModuleResolution   string
	JSX                string
	AllowJS            bool
	NoLib              bool
	PreserveConstEnums bool

	Lib              []string
	Types            []string
	TypeRoots        []string
	RootDirs         []string
	ModuleSuffixes   []string
	CustomConditions []string
}

// TranslateDirectives filters harness-only directives out of directives,
// splits list-valued ones, and folds the remainder into a FileConfig's
// checkeropts.Options. An unrecognized key is rejected rather than silently
// ignored (spec §9 "unknown option keys are rejected at config load").
func TranslateDirectives(directives []Directive) (FileConfig, error) {
	cfg := FileConfig{Options: checkeropts.Default()}
	for _, d := range directives {
		key := strings.ToLower(d.Key)
		switch {
		case harnessOnlyKeys[key]:
			if err := applyHarnessOnly(&cfg, key, d.Value); err != nil {
				return cfg, err
			}
		case listValuedKeys[key]:
			if err := applyListValued(&cfg, key, splitList(d.Value)); err != nil {
				return cfg, err
			}
		default:
			if err := applyCompilerOption(&cfg, key, d.Value); err != nil {
				return cfg, err
			}
		}
	}
	cfg.Options.Apply()
	return cfg, nil
}

func applyHarnessOnly(cfg *FileConfig, key, value string) error {
	switch key {
	case "filename":
		cfg.Filename = value
	case "symlink":
		cfg.Symlink = value
	case "currentdirectory":
		cfg.CurrentDirectory = value
	case "baselinefile":
		cfg.BaselineFile = value
	case "noerrortruncation":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		cfg.NoErrorTruncation = b
	case "capturesuggestions":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		cfg.CaptureSuggestions = b
	case "skip":
		cfg.Skip = true
	}
	return nil
}

func applyListValued(cfg *FileConfig, key string, values []string) error {
	switch key {
	case "lib":
		cfg.Lib = values
	case "types":
		cfg.Types = values
	case "typeroots":
		cfg.TypeRoots = values
	case "rootdirs":
		cfg.RootDirs = values
	case "modulesuffixes":
		cfg.ModuleSuffixes = values
	case "customconditions":
		cfg.CustomConditions = values
	}
	return nil
}

func applyCompilerOption(cfg *FileConfig, key, value string) error {
	o := &cfg.Options
	switch key {
	case "strict":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		o.Strict = b
	case "strictnullchecks":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		o.StrictNullChecks = b
	case "strictfunctiontypes":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		o.StrictFunctionTypes = b
	case "strictbindcallapply":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		o.StrictBindCallApply = b
	case "noimplicitany":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		o.NoImplicitAny = b
	case "exactoptionalpropertytypes":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		o.ExactOptionalPropertyTypes = b
	case "nouncheckedindexedaccess":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		o.NoUncheckedIndexedAccess = b
	case "target":
		cfg.Target = value
	case "module":
		cfg.Module = value
	case "moduleresolution":
		cfg.ModuleResolution = value
	case "jsx":
		cfg.JSX = value
	case "allowjs":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		cfg.AllowJS = b
	case "nolib":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		cfg.NoLib = b
	case "preserveconstenums":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		cfg.PreserveConstEnums = b
	default:
		return fmt.Errorf("harness: unrecognized directive key %q", key)
	}
	return nil
}

// parseBool treats a bare directive (empty value, as in `// @strict`) as
// true, matching the reference harness's shorthand.
func parseBool(value string) (bool, error) {
	if value == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("harness: invalid boolean value %q: %w", value, err)
	}
	return b, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
