// Package pgcatalog serves the activity catalog from PostgreSQL. Play
// attribute vectors live in pgvector columns so the same tables can
// back similarity queries.
//
// Expected schema:
//
//	CREATE EXTENSION IF NOT EXISTS vector;
//	CREATE TABLE categories (
//	    id                 TEXT PRIMARY KEY,
//	    name               TEXT UNIQUE NOT NULL,
//	    type               TEXT NOT NULL,
//	    parent_category_id TEXT,
//	    play_attributes    vector(6)
//	);
//	CREATE TABLE activities (
//	    id              TEXT PRIMARY KEY,
//	    name            TEXT NOT NULL,
//	    type            TEXT NOT NULL,
//	    category_id     TEXT NOT NULL REFERENCES categories(id),
//	    lon             DOUBLE PRECISION,
//	    lat             DOUBLE PRECISION,
//	    photo_key       TEXT NOT NULL DEFAULT '',
//	    food_attributes JSONB,
//	    play_attributes vector(6)
//	);
package pgcatalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/domain/prefs"
)

// ActivityRepository implements catalog.ActivityRepository using pgx.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

const activityColumns = `id, name, type, category_id, lon, lat, photo_key, food_attributes, play_attributes`

// FindByCategory fetches every activity filed under categoryID.
func (r *ActivityRepository) FindByCategory(ctx context.Context, categoryID string) ([]catalog.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE category_id = $1
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// FindByID fetches a single activity.
func (r *ActivityRepository) FindByID(ctx context.Context, id string) (catalog.Activity, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return catalog.Activity{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return catalog.Activity{}, false, rows.Err()
	}
	a, err := scanActivity(rows)
	if err != nil {
		return catalog.Activity{}, false, err
	}
	return a, true, rows.Err()
}

// SetPhotoKey records the object-storage key of an activity photo.
func (r *ActivityRepository) SetPhotoKey(ctx context.Context, id, key string) error {
	_, err := r.pool.Exec(ctx, `UPDATE activities SET photo_key = $2 WHERE id = $1`, id, key)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (catalog.Activity, error) {
	var (
		a        catalog.Activity
		lon, lat sql.NullFloat64
		foodJSON []byte
		play     *pgvector.Vector
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Type, &a.CategoryID, &lon, &lat, &a.PhotoKey, &foodJSON, &play); err != nil {
		return catalog.Activity{}, err
	}
	if lon.Valid && lat.Valid {
		a.Location = &catalog.GeoPoint{Type: "Point", Coordinates: [2]float64{lon.Float64, lat.Float64}}
	}
	if len(foodJSON) > 0 {
		var attrs prefs.FoodAttributes
		if err := json.Unmarshal(foodJSON, &attrs); err != nil {
			return catalog.Activity{}, fmt.Errorf("decode food attributes for %s: %w", a.ID, err)
		}
		a.FoodAttributes = &attrs
	}
	if play != nil {
		v := vectorToPlay(*play)
		a.PlayAttributes = &v
	}
	return a, nil
}

// CategoryRepository implements catalog.CategoryRepository using pgx.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository constructs the repository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, name, type, parent_category_id, play_attributes`

// FindByID fetches a single category.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (catalog.Category, bool, error) {
	return r.findOne(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = $1
		LIMIT 1
	`, id)
}

// FindByName fetches a category by its unique name.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (catalog.Category, bool, error) {
	return r.findOne(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE name = $1
		LIMIT 1
	`, name)
}

// List returns every category ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) findOne(ctx context.Context, query string, arg any) (catalog.Category, bool, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return catalog.Category{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return catalog.Category{}, false, rows.Err()
	}
	c, err := scanCategory(rows)
	if err != nil {
		return catalog.Category{}, false, err
	}
	return c, true, rows.Err()
}

func scanCategory(row rowScanner) (catalog.Category, error) {
	var (
		c      catalog.Category
		parent sql.NullString
		play   *pgvector.Vector
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Type, &parent, &play); err != nil {
		return catalog.Category{}, err
	}
	if parent.Valid {
		c.ParentID = parent.String
	}
	if play != nil {
		v := vectorToPlay(*play)
		c.PlayAttributes = &v
	}
	return c, nil
}

func vectorToPlay(v pgvector.Vector) prefs.PlayVector {
	var axes [prefs.NumPlayAxes]float64
	for i, f := range v.Slice() {
		if i >= prefs.NumPlayAxes {
			break
		}
		axes[i] = float64(f)
	}
	return prefs.FromAxes(axes)
}

var (
	_ catalog.ActivityRepository = (*ActivityRepository)(nil)
	_ catalog.CategoryRepository = (*CategoryRepository)(nil)
)
