package store

import (
	"database/sql"
	"fmt"
)

// Read and update operations backing the CLI subcommands. These run
// outside the indexing transaction.

const commandColumns = `
	c.id, c.name, c.code, c.command_type, c.description, c.args,
	c.hidden, c.has_custom_description, c.file_id, COALESCE(f.path, '')`

func scanCommand(scan func(...any) error) (Command, error) {
	var c Command
	err := scan(
		&c.ID, &c.Name, &c.Code, &c.Type, &c.Description, &c.Args,
		&c.Hidden, &c.HasCustomDescription, &c.FileID, &c.FilePath,
	)
	return c, err
}

// ListFilter narrows ListCommands output. Zero value lists every visible
// command.
type ListFilter struct {
	Category          string // only commands in this category
	Type              string // only this command type (e.g. "EXPORT")
	HiddenOnly        bool   // only hidden commands
	UncategorizedOnly bool   // only commands in the fallback category
	Uncategorized     string // fallback category name, with UncategorizedOnly
}

// ListCommands returns commands ordered by name, with file paths and
// category names attached. Hidden commands are excluded unless HiddenOnly
// is set.
func (s *Store) ListCommands(f ListFilter) ([]Command, error) {
	query := `SELECT ` + commandColumns + `
		FROM commands c LEFT JOIN files f ON f.id = c.file_id WHERE 1=1`
	var args []any

	if f.HiddenOnly {
		query += ` AND c.hidden = 1`
	} else {
		query += ` AND c.hidden = 0`
	}
	if f.Type != "" {
		query += ` AND c.command_type = ?`
		args = append(args, f.Type)
	}
	category := f.Category
	if f.UncategorizedOnly {
		category = f.Uncategorized
	}
	if category != "" {
		query += ` AND c.id IN (
			SELECT cc.command_id FROM command_categories cc
			JOIN categories cat ON cat.id = cc.category_id
			WHERE cat.name = ?)`
		args = append(args, category)
	}
	query += ` ORDER BY c.name, c.id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing commands: %w", err)
	}
	defer rows.Close()

	var out []Command
	for rows.Next() {
		c, err := scanCommand(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning command: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachCategories(out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachCategories fills the Categories field on each command.
func (s *Store) attachCategories(commands []Command) error {
	rows, err := s.db.Query(`
		SELECT cc.command_id, cat.name
		FROM command_categories cc
		JOIN categories cat ON cat.id = cc.category_id
		ORDER BY cat.name`)
	if err != nil {
		return fmt.Errorf("reading command categories: %w", err)
	}
	defer rows.Close()

	names := make(map[int64][]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scanning command category: %w", err)
		}
		names[id] = append(names[id], name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range commands {
		commands[i].Categories = names[commands[i].ID]
	}
	return nil
}

// GetCommand returns one command by ID.
func (s *Store) GetCommand(id int64) (*Command, error) {
	row := s.db.QueryRow(`SELECT `+commandColumns+`
		FROM commands c LEFT JOIN files f ON f.id = c.file_id
		WHERE c.id = ?`, id)
	c, err := scanCommand(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("command %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading command %d: %w", id, err)
	}

	cmds := []Command{c}
	if err := s.attachCategories(cmds); err != nil {
		return nil, err
	}
	return &cmds[0], nil
}

// CommandsByName returns commands with exactly the given name.
func (s *Store) CommandsByName(name string, includeHidden bool) ([]Command, error) {
	query := `SELECT ` + commandColumns + `
		FROM commands c LEFT JOIN files f ON f.id = c.file_id
		WHERE c.name = ?`
	if !includeHidden {
		query += ` AND c.hidden = 0`
	}
	query += ` ORDER BY c.id`

	rows, err := s.db.Query(query, name)
	if err != nil {
		return nil, fmt.Errorf("finding command %s: %w", name, err)
	}
	defer rows.Close()

	var out []Command
	for rows.Next() {
		c, err := scanCommand(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning command: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachCategories(out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetHidden updates a command's hidden flag.
func (s *Store) SetHidden(id int64, hidden bool) error {
	res, err := s.db.Exec(`UPDATE commands SET hidden = ? WHERE id = ?`, hidden, id)
	if err != nil {
		return fmt.Errorf("updating command %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("command %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetDescription records a user-authored description. It survives
// re-indexing until reset.
func (s *Store) SetDescription(id int64, text string) error {
	res, err := s.db.Exec(
		`UPDATE commands SET description = ?, has_custom_description = 1 WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("updating command %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("command %d: %w", id, ErrNotFound)
	}
	return nil
}

// ResetDescription clears the custom flag; the parsed description returns
// on the next index.
func (s *Store) ResetDescription(id int64) error {
	res, err := s.db.Exec(
		`UPDATE commands SET has_custom_description = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("updating command %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("command %d: %w", id, ErrNotFound)
	}
	return nil
}

// AssignCategory replaces a command's category associations with a single
// user-chosen one, marked custom so re-indexing preserves it.
func (s *Store) AssignCategory(commandID int64, categoryName string) error {
	var catID int64
	err := s.db.QueryRow(`SELECT id FROM categories WHERE name = ?`, categoryName).Scan(&catID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("category %q: %w", categoryName, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("looking up category %q: %w", categoryName, err)
	}

	var cmdID int64
	err = s.db.QueryRow(`SELECT id FROM commands WHERE id = ?`, commandID).Scan(&cmdID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("command %d: %w", commandID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("looking up command %d: %w", commandID, err)
	}

	if _, err := s.db.Exec(
		`DELETE FROM command_categories WHERE command_id = ?`, commandID); err != nil {
		return fmt.Errorf("removing categories for command %d: %w", commandID, err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO command_categories (command_id, category_id, is_custom) VALUES (?, ?, 1)`,
		commandID, catID); err != nil {
		return fmt.Errorf("assigning category to command %d: %w", commandID, err)
	}
	return nil
}

// Categories returns all live categories ordered by name.
func (s *Store) Categories() ([]Category, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, code_regex, comment_regex, command_name_regex, path_regex
		FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description,
			&c.CodeRegex, &c.CommentRegex, &c.CommandNameRegex, &c.PathRegex); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Files returns all scanned files ordered by path.
func (s *Store) Files() ([]File, error) {
	rows, err := s.db.Query(`SELECT id, name, path, digest FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	var out []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.Name, &f.Path, &f.Digest); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
