package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Point is a stored stroke coordinate.
type Point struct {
	X float64
	Y float64
}

// Template represents a raw template stroke stored in the database.
type Template struct {
	ID        string
	Name      string
	Points    []Point
	CreatedAt time.Time
}

// TemplateRepository provides CRUD operations for templates.
type TemplateRepository struct {
	db *sql.DB
}

// Templates returns the template repository for this store.
func (s *Store) Templates() *TemplateRepository {
	return &TemplateRepository{db: s.db}
}

// Create inserts a template and its points in a single transaction.
func (r *TemplateRepository) Create(t *Template) error {
	t.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO templates (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.CreatedAt,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO template_points (template_id, sequence, x, y) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range t.Points {
		if _, err := stmt.Exec(t.ID, i, p.X, p.Y); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a template and its points by ID.
func (r *TemplateRepository) GetByID(id string) (*Template, error) {
	t := &Template{}
	err := r.db.QueryRow(
		`SELECT id, name, created_at FROM templates WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	t.Points, err = r.points(id)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// points loads the stroke of a single template in drawing order.
func (r *TemplateRepository) points(templateID string) ([]Point, error) {
	rows, err := r.db.Query(
		`SELECT x, y FROM template_points WHERE template_id = ? ORDER BY sequence`,
		templateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// List retrieves all templates with their points, in insertion order.
func (r *TemplateRepository) List() ([]*Template, error) {
	rows, err := r.db.Query(
		`SELECT id, name, created_at FROM templates ORDER BY rowid`,
	)
	if err != nil {
		return nil, err
	}

	var templates []*Template
	byID := make(map[string]*Template)
	for rows.Next() {
		t := &Template{}
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		templates = append(templates, t)
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	pointRows, err := r.db.Query(
		`SELECT template_id, x, y FROM template_points ORDER BY template_id, sequence`,
	)
	if err != nil {
		return nil, err
	}
	defer pointRows.Close()

	for pointRows.Next() {
		var id string
		var p Point
		if err := pointRows.Scan(&id, &p.X, &p.Y); err != nil {
			return nil, err
		}
		if t, ok := byID[id]; ok {
			t.Points = append(t.Points, p)
		}
	}
	if err := pointRows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

// Count returns the number of stored templates.
func (r *TemplateRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&n)
	return n, err
}

// Delete removes a template and its points by ID.
func (r *TemplateRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
