package catalog

import "context"

// ActivityRepository reads immutable activity reference data.
type ActivityRepository interface {
	FindByCategory(ctx context.Context, categoryID string) ([]Activity, error)
	FindByID(ctx context.Context, id string) (Activity, bool, error)
	SetPhotoKey(ctx context.Context, id, key string) error
}

// CategoryRepository reads the category tree.
type CategoryRepository interface {
	FindByID(ctx context.Context, id string) (Category, bool, error)
	FindByName(ctx context.Context, name string) (Category, bool, error)
	List(ctx context.Context) ([]Category, error)
}
