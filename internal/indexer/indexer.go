// Package indexer rebuilds the command index from the configured files
// and carries user edits forward across passes.
package indexer

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kailayerhq/halp/internal/category"
	"github.com/kailayerhq/halp/internal/checksum"
	"github.com/kailayerhq/halp/internal/config"
	"github.com/kailayerhq/halp/internal/parser"
	"github.com/kailayerhq/halp/internal/store"
)

// ErrNoFilesFound reports that glob expansion produced no indexable files.
// The live tables are left empty when this is returned.
var ErrNoFilesFound = errors.New("no files matched any configured glob")

// GlobCount is the number of files one glob pattern matched.
type GlobCount struct {
	Pattern string
	Files   int
}

// FileCount is the number of commands extracted from one file.
type FileCount struct {
	Path     string
	Commands int
}

// Summary reports what an indexing pass did.
type Summary struct {
	Globs         []GlobCount
	Files         []FileCount
	Categories    []string
	TotalCommands int
	Rebuild       bool
}

// Indexer runs indexing passes against one store. Passes are serialized;
// the store transaction keeps concurrent processes out as well.
type Indexer struct {
	mu  sync.Mutex
	st  *store.Store
	cfg *config.Config
}

// New returns an indexer for the given store and configuration.
func New(st *store.Store, cfg *config.Config) *Indexer {
	return &Indexer{st: st, cfg: cfg}
}

// Run executes one indexing pass. When incremental, the previous state is
// snapshotted first and user edits (hidden flags, custom descriptions,
// custom category assignments) are merged onto the rebuilt rows; matching
// is by (name, code), widened with the source file when configured. A
// non-incremental run is a factory reset: everything is rebuilt from the
// files and all customizations are discarded.
//
// An incremental run against an empty store is promoted to a full rebuild.
func (ix *Indexer) Run(incremental bool) (*Summary, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	matcher, err := category.NewMatcher(ix.cfg.Rules(), ix.cfg.UncategorizedName, ix.cfg.CaseSensitive)
	if err != nil {
		return nil, err
	}

	if incremental {
		has, err := ix.st.HasCommands()
		if err != nil {
			return nil, err
		}
		if !has {
			incremental = false
		}
	}

	summary := &Summary{Rebuild: !incremental}
	files, err := ix.discoverFiles(summary)
	if err != nil {
		return nil, err
	}

	tx, err := ix.st.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if incremental {
		if err := ix.st.SnapshotLive(tx); err != nil {
			return nil, err
		}
	}
	if err := ix.st.ClearLive(tx); err != nil {
		return nil, err
	}

	if len(files) == 0 {
		// Commit the clear so the distinguished failure leaves the
		// live tables empty; a stale snapshot is cleared with them.
		if err := ix.st.ClearSnapshot(tx); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing transaction: %w", err)
		}
		return nil, ErrNoFilesFound
	}

	categoryIDs, err := ix.insertCategories(tx, matcher, summary)
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		count, err := ix.indexFile(tx, path, matcher, categoryIDs)
		if err != nil {
			return nil, err
		}
		summary.Files = append(summary.Files, FileCount{Path: path, Commands: count})
		summary.TotalCommands += count
	}

	if incremental {
		if err := ix.merge(tx); err != nil {
			return nil, err
		}
		if err := ix.st.ClearSnapshot(tx); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return summary, nil
}

// discoverFiles expands the configured globs, recording per-glob counts,
// then drops non-regular files and excluded paths.
func (ix *Indexer) discoverFiles(summary *Summary) ([]string, error) {
	exclude := ix.cfg.ExcludeRegexp()

	var files []string
	seen := make(map[string]bool)

	for _, g := range ix.cfg.FileGlobs {
		matches, err := doublestar.FilepathGlob(expandHome(g))
		if err != nil {
			return nil, fmt.Errorf("expanding glob %q: %w", g, err)
		}
		summary.Globs = append(summary.Globs, GlobCount{Pattern: g, Files: len(matches)})

		for _, m := range matches {
			path, err := filepath.Abs(m)
			if err != nil {
				return nil, fmt.Errorf("resolving %s: %w", m, err)
			}
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			if exclude != nil && exclude.MatchString(path) {
				continue
			}
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
		}
	}
	return files, nil
}

// insertCategories writes the configured categories plus the fallback and
// returns their IDs by name.
func (ix *Indexer) insertCategories(tx *sql.Tx, matcher *category.Matcher, summary *Summary) (map[string]int64, error) {
	ids := make(map[string]int64)

	rules := matcher.Rules()
	haveFallback := false
	for _, r := range rules {
		if r.Name == matcher.Fallback() {
			haveFallback = true
		}
		if err := ix.st.InsertCategory(tx, &store.Category{
			Name:             r.Name,
			Description:      r.Description,
			CodeRegex:        r.CodeRegex,
			CommentRegex:     r.CommentRegex,
			CommandNameRegex: r.CommandNameRegex,
			PathRegex:        r.PathRegex,
		}); err != nil {
			return nil, err
		}
		summary.Categories = append(summary.Categories, r.Name)
	}
	if !haveFallback {
		if err := ix.st.InsertCategory(tx, &store.Category{
			Name:        matcher.Fallback(),
			Description: "Uncategorized commands",
		}); err != nil {
			return nil, err
		}
	}

	for _, r := range rules {
		id, err := ix.st.CategoryIDByName(tx, r.Name)
		if err != nil {
			return nil, err
		}
		ids[r.Name] = id
	}
	id, err := ix.st.CategoryIDByName(tx, matcher.Fallback())
	if err != nil {
		return nil, err
	}
	ids[matcher.Fallback()] = id

	return ids, nil
}

// indexFile parses one file and inserts its commands with their category
// links. A file with no recognizable constructs contributes zero rows.
func (ix *Indexer) indexFile(tx *sql.Tx, path string, matcher *category.Matcher, categoryIDs map[string]int64) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	fileID, err := ix.st.InsertFile(tx, &store.File{
		Name:   filepath.Base(path),
		Path:   path,
		Digest: checksum.Sum(data),
	})
	if err != nil {
		return 0, err
	}

	records := parser.ParseFile(string(data), parser.Options{Placement: ix.cfg.Placement()})
	ignore := ix.cfg.IgnoreRegexp()

	count := 0
	for _, rec := range records {
		if ignore != nil && ignore.MatchString(rec.Name) {
			continue
		}

		cmd := &store.Command{
			Name:        rec.Name,
			Code:        rec.Code,
			Type:        string(rec.Kind),
			Description: rec.Description,
			Args:        rec.Args,
		}
		cmd.FileID.Int64 = fileID
		cmd.FileID.Valid = true

		cmdID, err := ix.st.InsertCommand(tx, cmd)
		if err != nil {
			return 0, err
		}
		for _, name := range matcher.Categorize(rec, path) {
			if err := ix.st.LinkCategory(tx, cmdID, categoryIDs[name], false); err != nil {
				return 0, err
			}
		}
		count++
	}
	return count, nil
}

// merge copies user edits from the snapshot onto same-identity rebuilt
// commands. Snapshot rows with no match are discarded: a construct that
// disappeared from the files loses its customizations.
func (ix *Indexer) merge(tx *sql.Tx) error {
	matchFile := ix.cfg.MergeMatchFile

	commands, err := ix.st.SnapshotUserCommands(tx)
	if err != nil {
		return err
	}
	for _, sc := range commands {
		if err := ix.st.CarryUserState(tx, sc, matchFile); err != nil {
			return err
		}
	}

	links, err := ix.st.SnapshotCustomLinks(tx)
	if err != nil {
		return err
	}
	for _, l := range links {
		catID, err := ix.st.CategoryIDByName(tx, l.CategoryName)
		if errors.Is(err, store.ErrNotFound) {
			// Category no longer configured.
			continue
		}
		if err != nil {
			return err
		}

		ids, err := ix.st.CommandIDsByIdentity(tx, l.CommandName, l.CommandCode, l.FilePath, matchFile)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := ix.st.ReplaceLinksWithCustom(tx, id, catID); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandHome replaces a leading "~" in a glob with the home directory.
func expandHome(pattern string) string {
	if !strings.HasPrefix(pattern, "~") {
		return pattern
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return pattern
	}
	return home + pattern[1:]
}
