// Package main provides the halp CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailayerhq/halp/internal/checksum"
	"github.com/kailayerhq/halp/internal/config"
	"github.com/kailayerhq/halp/internal/indexer"
	"github.com/kailayerhq/halp/internal/store"
	"github.com/kailayerhq/halp/internal/view"
)

// Version is the current halp CLI version
var Version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:     "halp",
	Short:   "Halp - index and search your shell aliases, exports, and functions",
	Long:    `Halp scans your shell configuration files, extracts aliases, exported variables, and functions together with their comments, organizes them into categories, and makes the result searchable.`,
	Version: Version,
}

var (
	configPath string
	dbPath     string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Scan configured files and rebuild the command index",
	Long: `Scan the files matched by the configured globs and rebuild the index.

By default the pass is incremental: commands you hid, descriptions you
edited, and categories you assigned are carried forward to matching
commands in the new index. With --rebuild everything is reset to what the
files say.`,
	RunE: runIndex,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed commands grouped by category",
	RunE:  runList,
}

var searchCmd = &cobra.Command{
	Use:   "search <regex>",
	Short: "Search commands by name (or code with --code)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show every command with the given name",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var hideCmd = &cobra.Command{
	Use:   "hide <id>...",
	Short: "Hide commands from listings and search",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHide,
}

var unhideCmd = &cobra.Command{
	Use:   "unhide <id>...",
	Short: "Unhide previously hidden commands",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUnhide,
}

var describeCmd = &cobra.Command{
	Use:   "describe <id> [description]",
	Short: "Set a custom description for a command",
	Long: `Set a custom description for a command. Custom descriptions survive
re-indexing. With --reset the custom flag is cleared and the description
parsed from the file returns on the next index.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDescribe,
}

var categorizeCmd = &cobra.Command{
	Use:   "categorize <id> <category>",
	Short: "Assign a command to a category",
	Long: `Assign a command to one of the configured categories. The assignment
replaces the automatic ones and survives re-indexing.`,
	Args: cobra.ExactArgs(2),
	RunE: runCategorize,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report indexed files that changed on disk",
	RunE:  runStatus,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runConfigInit,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the configuration file",
	RunE:  runConfigView,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	RunE:  runConfigPath,
}

var (
	indexRebuild bool
	indexVerbose bool

	listCategory      string
	listHidden        bool
	listExports       bool
	listUncategorized bool
	listNamesOnly     bool

	searchCode   bool
	searchHidden bool

	showHidden bool

	describeReset bool
)

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrNotFound) {
		return nil, fmt.Errorf("no config found at %s (run 'halp config init' to create one)", path)
	}
	return cfg, err
}

func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		var err error
		path, err = config.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	return store.Open(path)
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid command ID %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := indexer.New(st, cfg).Run(!indexRebuild)
	if errors.Is(err, indexer.ErrNoFilesFound) {
		return fmt.Errorf("no files matched the globs in your configuration; check file_globs in %s", mustConfigPath())
	}
	if err != nil {
		return err
	}

	fmt.Print(view.Summary(summary, indexVerbose))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	filter := store.ListFilter{
		Category:          listCategory,
		HiddenOnly:        listHidden,
		UncategorizedOnly: listUncategorized,
		Uncategorized:     cfg.UncategorizedName,
	}
	if listExports {
		filter.Type = "EXPORT"
	}

	commands, err := st.ListCommands(filter)
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		return errors.New("no commands indexed (run 'halp index' first)")
	}

	fmt.Print(view.List(commands, listNamesOnly))
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	pattern := args[0]
	if !cfg.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("compiling search pattern: %w", err)
	}

	commands, err := st.ListCommands(store.ListFilter{HiddenOnly: searchHidden})
	if err != nil {
		return err
	}

	var matched []store.Command
	for _, c := range commands {
		text := c.Name
		if searchCode {
			text = c.Code
		}
		if re.MatchString(text) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return fmt.Errorf("no command found matching: %s", args[0])
	}

	for _, c := range matched {
		fmt.Print(view.Detail(&c))
		fmt.Println()
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	commands, err := st.CommandsByName(args[0], showHidden)
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		return fmt.Errorf("no command found matching: %s", args[0])
	}

	for _, c := range commands {
		fmt.Print(view.Detail(&c))
		fmt.Println()
	}
	return nil
}

func setHidden(args []string, hidden bool) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	verb := "Hid"
	if !hidden {
		verb = "Unhid"
	}
	for _, id := range ids {
		if err := st.SetHidden(id, hidden); err != nil {
			return err
		}
		cmd, err := st.GetCommand(id)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s (#%d)\n", verb, cmd.Name, id)
	}
	return nil
}

func runHide(cmd *cobra.Command, args []string) error {
	return setHidden(args, true)
}

func runUnhide(cmd *cobra.Command, args []string) error {
	return setHidden(args, false)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[:1])
	if err != nil {
		return err
	}
	id := ids[0]

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if describeReset {
		if err := st.ResetDescription(id); err != nil {
			return err
		}
		fmt.Printf("Reset description for command #%d; re-run 'halp index' to restore the parsed one\n", id)
		return nil
	}

	if len(args) < 2 {
		return errors.New("a description is required unless --reset is given")
	}
	if err := st.SetDescription(id, args[1]); err != nil {
		return err
	}

	c, err := st.GetCommand(id)
	if err != nil {
		return err
	}
	fmt.Printf("Updated description for %s (#%d)\n", c.Name, id)
	return nil
}

func runCategorize(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[:1])
	if err != nil {
		return err
	}
	id := ids[0]

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.AssignCategory(id, args[1]); err != nil {
		return err
	}

	c, err := st.GetCommand(id)
	if err != nil {
		return err
	}
	fmt.Printf("Categorized %s (#%d) as %s\n", c.Name, id, args[1])
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	files, err := st.Files()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no files indexed (run 'halp index' first)")
	}

	stale := 0
	for _, f := range files {
		digest, err := checksum.File(f.Path)
		switch {
		case err != nil:
			fmt.Printf("  missing  %s\n", f.Path)
			stale++
		case digest != f.Digest:
			fmt.Printf("  changed  %s\n", f.Path)
			stale++
		}
	}

	if stale == 0 {
		fmt.Printf("Index is up to date (%d files)\n", len(files))
		return nil
	}
	fmt.Printf("%d of %d indexed files changed; run 'halp index' to refresh\n", stale, len(files))
	return nil
}

func mustConfigPath() string {
	path, err := resolveConfigPath()
	if err != nil {
		return "the config file"
	}
	return path
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("Wrote default config to %s\n", path)
	fmt.Println("Edit file_globs and categories, then run 'halp index'.")
	return nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no config found at %s (run 'halp config init' to create one)", path)
		}
		return fmt.Errorf("reading config: %w", err)
	}
	fmt.Print(string(data))
	if !strings.HasSuffix(string(data), "\n") {
		fmt.Println()
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default ~/.halp/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the index database (default ~/.halp/halp.sqlite)")

	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "Rebuild from scratch, discarding hidden flags, custom descriptions, and custom categories")
	indexCmd.Flags().BoolVarP(&indexVerbose, "verbose", "v", false, "Show per-file command counts")

	listCmd.Flags().StringVar(&listCategory, "category", "", "Only show commands in this category")
	listCmd.Flags().BoolVar(&listHidden, "hidden", false, "Only show hidden commands")
	listCmd.Flags().BoolVar(&listExports, "exports", false, "Only show exported variables")
	listCmd.Flags().BoolVar(&listUncategorized, "uncategorized", false, "Only show uncategorized commands")
	listCmd.Flags().BoolVar(&listNamesOnly, "names-only", false, "Print command names only")

	searchCmd.Flags().BoolVar(&searchCode, "code", false, "Match the regex against command code instead of names")
	searchCmd.Flags().BoolVar(&searchHidden, "hidden", false, "Search hidden commands")

	showCmd.Flags().BoolVar(&showHidden, "hidden", false, "Include hidden commands")

	describeCmd.Flags().BoolVar(&describeReset, "reset", false, "Drop the custom description")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(unhideCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(categorizeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
