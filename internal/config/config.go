// Package config loads and validates the halp configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kailayerhq/halp/internal/category"
	"github.com/kailayerhq/halp/internal/parser"
)

// ErrNotFound reports a missing configuration file.
var ErrNotFound = errors.New("config file not found")

// DefaultUncategorizedName is the fallback category assigned to commands
// no rule matches.
const DefaultUncategorizedName = "uncategorized"

// CategoryRule is one category definition from the config file.
type CategoryRule struct {
	Description      string `yaml:"description"`
	CodeRegex        string `yaml:"code_regex"`
	CommentRegex     string `yaml:"comment_regex"`
	CommandNameRegex string `yaml:"command_name_regex"`
	PathRegex        string `yaml:"path_regex"`
}

// Config is the halp configuration.
type Config struct {
	FileGlobs              []string                `yaml:"file_globs"`
	FileExcludeRegex       string                  `yaml:"file_exclude_regex"`
	CaseSensitive          bool                    `yaml:"case_sensitive"`
	CommentPlacement       string                  `yaml:"comment_placement"`
	CommandNameIgnoreRegex string                  `yaml:"command_name_ignore_regex"`
	UncategorizedName      string                  `yaml:"uncategorized_name"`
	MergeMatchFile         bool                    `yaml:"merge_match_file"`
	Categories             map[string]CategoryRule `yaml:"categories"`

	exclude *regexp.Regexp
	ignore  *regexp.Regexp
}

// Dir returns the halp data directory (~/.halp).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".halp"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultDBPath returns the default database location.
func DefaultDBPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "halp.sqlite"), nil
}

// Load reads, parses, and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fills in defaults and rejects malformed settings. Every regex
// in the configuration is compiled here so a bad pattern fails the run
// before any indexing starts.
func (c *Config) Validate() error {
	if c.CommentPlacement == "" {
		c.CommentPlacement = string(parser.PlacementBest)
	}
	switch parser.Placement(c.CommentPlacement) {
	case parser.PlacementAbove, parser.PlacementInline, parser.PlacementBest:
	default:
		return fmt.Errorf("invalid comment_placement %q (want above, inline, or best)", c.CommentPlacement)
	}

	if c.UncategorizedName == "" {
		c.UncategorizedName = DefaultUncategorizedName
	}

	flags := ""
	if !c.CaseSensitive {
		flags = "(?i)"
	}

	if c.FileExcludeRegex != "" {
		re, err := regexp.Compile(flags + c.FileExcludeRegex)
		if err != nil {
			return fmt.Errorf("compiling file_exclude_regex: %w", err)
		}
		c.exclude = re
	}
	if c.CommandNameIgnoreRegex != "" {
		re, err := regexp.Compile(flags + c.CommandNameIgnoreRegex)
		if err != nil {
			return fmt.Errorf("compiling command_name_ignore_regex: %w", err)
		}
		c.ignore = re
	}

	// Category patterns are compiled by the matcher; building one here
	// surfaces bad patterns at load time.
	if _, err := category.NewMatcher(c.Rules(), c.UncategorizedName, c.CaseSensitive); err != nil {
		return err
	}

	return nil
}

// Placement returns the configured comment placement mode.
func (c *Config) Placement() parser.Placement {
	return parser.Placement(c.CommentPlacement)
}

// ExcludeRegexp returns the compiled file exclusion pattern, or nil.
func (c *Config) ExcludeRegexp() *regexp.Regexp {
	return c.exclude
}

// IgnoreRegexp returns the compiled command-name ignore pattern, or nil.
func (c *Config) IgnoreRegexp() *regexp.Regexp {
	return c.ignore
}

// Rules converts the configured category map to matcher rules, sorted by
// name for a stable evaluation order.
func (c *Config) Rules() []category.Rule {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	rules := make([]category.Rule, 0, len(names))
	for _, name := range names {
		cr := c.Categories[name]
		rules = append(rules, category.Rule{
			Name:             name,
			Description:      cr.Description,
			CodeRegex:        cr.CodeRegex,
			CommentRegex:     cr.CommentRegex,
			CommandNameRegex: cr.CommandNameRegex,
			PathRegex:        cr.PathRegex,
		})
	}
	return rules
}

const defaultConfig = `# halp configuration
#
# Globs of shell config files to index. "~" expands to your home
# directory and "**" matches nested directories.
file_globs:
  - "~/.bashrc"
  - "~/.bash_profile"
  - "~/.zshrc"
  - "~/.aliases"

# Files whose path matches this regex are not indexed.
file_exclude_regex: ""

# Apply all regexes case-sensitively.
case_sensitive: false

# Where a command's description comes from: "above" (comment on the
# previous line), "inline" (trailing comment on the same line), or
# "best" (inline when present, otherwise above).
comment_placement: best

# Commands whose name matches this regex are dropped during indexing.
command_name_ignore_regex: ""

# Name of the fallback category for unmatched commands.
uncategorized_name: uncategorized

# Also require the source file to match when carrying user edits
# forward across a re-index.
merge_match_file: false

# Categories. A command joins a category when any one regex matches
# the corresponding field.
categories:
  example:
    description: "An example category"
    code_regex: ""
    comment_regex: ""
    command_name_regex: ""
    path_regex: ""
`

// WriteDefault writes a commented default config to path, creating parent
// directories. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
