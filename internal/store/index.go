package store

import (
	"database/sql"
	"fmt"
)

// Transaction-scoped operations used by the indexer. The whole
// snapshot/clear/rebuild/merge pass runs inside one transaction so a
// failed pass rolls back and no second writer can interleave.

// SnapshotLive copies every live row into the snapshot tables, preserving
// row IDs so snapshot associations keep pointing at snapshot rows.
func (s *Store) SnapshotLive(tx *sql.Tx) error {
	stmts := []string{
		`INSERT INTO snapshot_files SELECT id, name, path, digest FROM files`,
		`INSERT INTO snapshot_categories
			SELECT id, name, description, code_regex, comment_regex, command_name_regex, path_regex
			FROM categories`,
		`INSERT INTO snapshot_commands
			SELECT id, name, code, command_type, description, args, hidden, has_custom_description, file_id
			FROM commands`,
		`INSERT INTO snapshot_command_categories
			SELECT id, command_id, category_id, is_custom FROM command_categories`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("snapshotting state: %w", err)
		}
	}
	return nil
}

// ClearLive deletes all rows from the live tables. The snapshot tables
// are untouched.
func (s *Store) ClearLive(tx *sql.Tx) error {
	for _, table := range []string{"command_categories", "commands", "files", "categories"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// ClearSnapshot discards the snapshot tables' contents.
func (s *Store) ClearSnapshot(tx *sql.Tx) error {
	for _, table := range []string{
		"snapshot_command_categories", "snapshot_commands", "snapshot_files", "snapshot_categories",
	} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// InsertFile inserts a file row and returns its ID.
func (s *Store) InsertFile(tx *sql.Tx, f *File) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO files (name, path, digest) VALUES (?, ?, ?)`,
		f.Name, f.Path, f.Digest,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting file %s: %w", f.Path, err)
	}
	return res.LastInsertId()
}

// InsertCategory inserts a category row.
func (s *Store) InsertCategory(tx *sql.Tx, c *Category) error {
	_, err := tx.Exec(
		`INSERT INTO categories (name, description, code_regex, comment_regex, command_name_regex, path_regex)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.Description, c.CodeRegex, c.CommentRegex, c.CommandNameRegex, c.PathRegex,
	)
	if err != nil {
		return fmt.Errorf("inserting category %s: %w", c.Name, err)
	}
	return nil
}

// InsertCommand inserts a command row and returns its ID.
func (s *Store) InsertCommand(tx *sql.Tx, c *Command) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO commands (name, code, command_type, description, args, hidden, has_custom_description, file_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Code, c.Type, c.Description, c.Args, c.Hidden, c.HasCustomDescription, c.FileID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting command %s: %w", c.Name, err)
	}
	return res.LastInsertId()
}

// LinkCategory associates a command with a category.
func (s *Store) LinkCategory(tx *sql.Tx, commandID, categoryID int64, isCustom bool) error {
	_, err := tx.Exec(
		`INSERT INTO command_categories (command_id, category_id, is_custom) VALUES (?, ?, ?)`,
		commandID, categoryID, isCustom,
	)
	if err != nil {
		return fmt.Errorf("linking command %d to category %d: %w", commandID, categoryID, err)
	}
	return nil
}

// CategoryIDByName resolves a live category by name within a transaction.
func (s *Store) CategoryIDByName(tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM categories WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("category %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("looking up category %q: %w", name, err)
	}
	return id, nil
}

// SnapshotCommand is a previous-state command carrying user edits.
type SnapshotCommand struct {
	Name                 string
	Code                 string
	Description          string
	Hidden               bool
	HasCustomDescription bool
	FilePath             string
}

// SnapshotUserCommands returns every snapshot command with user state to
// carry forward: a hidden flag, a custom description, or both.
func (s *Store) SnapshotUserCommands(tx *sql.Tx) ([]SnapshotCommand, error) {
	rows, err := tx.Query(`
		SELECT sc.name, sc.code, sc.description, sc.hidden, sc.has_custom_description,
		       COALESCE(sf.path, '')
		FROM snapshot_commands sc
		LEFT JOIN snapshot_files sf ON sf.id = sc.file_id
		WHERE sc.hidden = 1 OR sc.has_custom_description = 1`)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot commands: %w", err)
	}
	defer rows.Close()

	var out []SnapshotCommand
	for rows.Next() {
		var c SnapshotCommand
		if err := rows.Scan(&c.Name, &c.Code, &c.Description, &c.Hidden, &c.HasCustomDescription, &c.FilePath); err != nil {
			return nil, fmt.Errorf("scanning snapshot command: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SnapshotCustomLink is a previous-state custom category assignment.
type SnapshotCustomLink struct {
	CommandName  string
	CommandCode  string
	FilePath     string
	CategoryName string
}

// SnapshotCustomLinks returns every snapshot association a user assigned
// explicitly.
func (s *Store) SnapshotCustomLinks(tx *sql.Tx) ([]SnapshotCustomLink, error) {
	rows, err := tx.Query(`
		SELECT sc.name, sc.code, COALESCE(sf.path, ''), scat.name
		FROM snapshot_command_categories scc
		JOIN snapshot_commands sc ON sc.id = scc.command_id
		JOIN snapshot_categories scat ON scat.id = scc.category_id
		LEFT JOIN snapshot_files sf ON sf.id = sc.file_id
		WHERE scc.is_custom = 1`)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot custom categories: %w", err)
	}
	defer rows.Close()

	var out []SnapshotCustomLink
	for rows.Next() {
		var l SnapshotCustomLink
		if err := rows.Scan(&l.CommandName, &l.CommandCode, &l.FilePath, &l.CategoryName); err != nil {
			return nil, fmt.Errorf("scanning snapshot custom category: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CarryUserState copies a snapshot command's hidden flag, and its custom
// description when it has one, onto every fresh command with the same
// identity. Identity is (name, code), widened to include the source file
// path when matchFile is set.
func (s *Store) CarryUserState(tx *sql.Tx, sc SnapshotCommand, matchFile bool) error {
	set := `hidden = ?`
	args := []any{sc.Hidden}
	if sc.HasCustomDescription {
		set += `, description = ?, has_custom_description = 1`
		args = append(args, sc.Description)
	}

	where := `name = ? AND code = ?`
	args = append(args, sc.Name, sc.Code)
	if matchFile {
		where += ` AND file_id IN (SELECT id FROM files WHERE path = ?)`
		args = append(args, sc.FilePath)
	}

	if _, err := tx.Exec(`UPDATE commands SET `+set+` WHERE `+where, args...); err != nil {
		return fmt.Errorf("carrying user state for %s: %w", sc.Name, err)
	}
	return nil
}

// CommandIDsByIdentity returns the IDs of fresh commands matching a
// snapshot identity.
func (s *Store) CommandIDsByIdentity(tx *sql.Tx, name, code, filePath string, matchFile bool) ([]int64, error) {
	query := `SELECT c.id FROM commands c WHERE c.name = ? AND c.code = ?`
	args := []any{name, code}
	if matchFile {
		query += ` AND c.file_id IN (SELECT id FROM files WHERE path = ?)`
		args = append(args, filePath)
	}

	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("matching command %s: %w", name, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning command id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReplaceLinksWithCustom removes a command's automatic category
// associations and records the single custom one in their place.
func (s *Store) ReplaceLinksWithCustom(tx *sql.Tx, commandID, categoryID int64) error {
	if _, err := tx.Exec(
		`DELETE FROM command_categories WHERE command_id = ? AND is_custom = 0`, commandID,
	); err != nil {
		return fmt.Errorf("removing automatic categories for command %d: %w", commandID, err)
	}
	return s.LinkCategory(tx, commandID, categoryID, true)
}
