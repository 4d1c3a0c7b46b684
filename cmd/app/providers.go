package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/playfriends/playfriends/internal/domain/auth"
	"github.com/playfriends/playfriends/internal/domain/catalog"
	"github.com/playfriends/playfriends/internal/domain/group"
	"github.com/playfriends/playfriends/internal/domain/planner"
	"github.com/playfriends/playfriends/internal/infra/config"
	"github.com/playfriends/playfriends/internal/infra/llm/chatgpt"
	"github.com/playfriends/playfriends/internal/infra/memstore"
	"github.com/playfriends/playfriends/internal/infra/mongostore"
	"github.com/playfriends/playfriends/internal/infra/pgcatalog"
	"github.com/playfriends/playfriends/internal/infra/photostore"
	"github.com/playfriends/playfriends/internal/infra/prefcache"
)

// repositories bundles the persistence backends selected at startup. A
// configured MongoDB URI enables the document store, a catalog Postgres
// DSN moves the catalog to PostgreSQL, and everything else falls back to
// the in-memory implementations.
type repositories struct {
	users      auth.Repository
	groups     group.Repository
	activities catalog.ActivityRepository
	categories catalog.CategoryRepository
}

func provideRepositories(cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	repos := &repositories{}

	uri := strings.TrimSpace(cfg.Mongo.URI)
	if uri == "" {
		logger.Info("mongo uri not set, using memory repositories")
		repos.users = memstore.NewUserRepository()
		repos.groups = memstore.NewGroupRepository()
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		db, err := mongostore.Connect(ctx, uri, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		users, err := mongostore.NewUserRepository(ctx, db)
		if err != nil {
			return nil, err
		}
		groups, err := mongostore.NewGroupRepository(ctx, db)
		if err != nil {
			return nil, err
		}
		repos.users = users
		repos.groups = groups
		logger.Info("mongo repositories enabled", "database", cfg.Mongo.Database)

		activities, err := mongostore.NewActivityRepository(ctx, db)
		if err != nil {
			return nil, err
		}
		categories, err := mongostore.NewCategoryRepository(ctx, db)
		if err != nil {
			return nil, err
		}
		repos.activities = activities
		repos.categories = categories
	}

	if dsn := strings.TrimSpace(cfg.Catalog.Postgres.DSN); dsn != "" {
		pool, err := newPostgresPool(cfg, dsn)
		if err != nil {
			return nil, err
		}
		repos.activities = pgcatalog.NewActivityRepository(pool)
		repos.categories = pgcatalog.NewCategoryRepository(pool)
		logger.Info("postgres catalog enabled")
	}

	if repos.activities == nil || repos.categories == nil {
		mem := memstore.NewCatalogRepository()
		repos.activities = mem
		repos.categories = mem.Categories()
		logger.Info("memory catalog enabled")
	}

	return repos, nil
}

func newPostgresPool(cfg *config.Config, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Catalog.Postgres.MaxConns
	}
	if cfg.Catalog.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Catalog.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func provideUserRepository(repos *repositories) auth.Repository { return repos.users }

func provideGroupRepository(repos *repositories) group.Repository { return repos.groups }

func provideActivityRepository(repos *repositories) catalog.ActivityRepository {
	return repos.activities
}

func provideCategoryRepository(repos *repositories) catalog.CategoryRepository {
	return repos.categories
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:       cfg.Auth.Secret,
		TokenTTL:     cfg.Auth.TokenTTL,
		AutoLoginTTL: cfg.Auth.AutoLoginTTL,
		Google: auth.GoogleConfig{
			ClientID:     cfg.Auth.Google.ClientID,
			ClientSecret: cfg.Auth.Google.ClientSecret,
			RedirectURL:  cfg.Auth.Google.RedirectURL,
		},
	}
}

func providePlannerConfig(cfg *config.Config) planner.Config {
	out := planner.DefaultConfig()
	p := cfg.Planner
	if p.CandidateWindow > 0 {
		out.CandidateWindow = p.CandidateWindow
	}
	if p.PoolSize > 0 {
		out.PoolSize = p.PoolSize
	}
	if p.MaxCategories > 0 {
		out.MaxCategories = p.MaxCategories
	}
	if p.TopN > 0 {
		out.TopN = p.TopN
	}
	if p.HarmonyWeight > 0 {
		out.HarmonyWeight = p.HarmonyWeight
	}
	if p.DiversityWeight > 0 {
		out.DiversityWeight = p.DiversityWeight
	}
	if p.CrossTypeCost > 0 {
		out.CrossTypeCost = p.CrossTypeCost
	}
	if p.NoveltyWeight > 0 {
		out.NoveltyWeight = p.NoveltyWeight
	}
	if p.MealCategory != "" {
		out.MealCategory = p.MealCategory
	}
	if p.BarCategory != "" {
		out.BarCategory = p.BarCategory
	}
	if p.RefineTimeout > 0 {
		out.RefineTimeout = p.RefineTimeout
	}
	if p.PromptTokenLimit > 0 {
		out.PromptTokenLimit = p.PromptTokenLimit
	}
	if cfg.LLM.Model != "" {
		out.Model = cfg.LLM.Model
	}
	if cfg.LLM.Temperature > 0 {
		out.Temperature = cfg.LLM.Temperature
	}
	return out
}

// provideChatClient returns nil when no API key is configured; the
// planner then uses its deterministic time allocation for every plan.
func provideChatClient(cfg *config.Config, logger *slog.Logger) planner.ChatClient {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Info("llm api key not set, schedule refinement disabled")
		return nil
	}
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	if err != nil {
		logger.Error("failed to initialize chat client, schedule refinement disabled", "error", err)
		return nil
	}
	return client
}

// prefStore is either preference cache backend: trending counters plus the
// group snapshot cache.
type prefStore interface {
	planner.TrendingStore
	group.SnapshotCache
}

func providePrefStore(cfg *config.Config, logger *slog.Logger) prefStore {
	if cfg.Cache.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return prefcache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return prefcache.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		} else {
			logger.Info("valkey cache enabled", "addr", cfg.Cache.Addr)
			return prefcache.NewValkeyStore(client, cfg.Cache.Prefix)
		}
	}
	return prefcache.NewMemoryStore()
}

func provideTrendingStore(store prefStore) planner.TrendingStore { return store }

func provideSnapshotCache(store prefStore) group.SnapshotCache { return store }

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

// providePhotoStorage returns nil when no object storage endpoint is
// configured; photo endpoints then answer invalid_state.
func providePhotoStorage(cfg *config.Config, logger *slog.Logger) catalog.PhotoStorage {
	if strings.TrimSpace(cfg.Photos.Endpoint) == "" {
		logger.Info("photo storage endpoint not set, photo uploads disabled")
		return nil
	}
	store, err := photostore.NewMinioStore(cfg.Photos.Endpoint, cfg.Photos.AccessKey, cfg.Photos.SecretKey, cfg.Photos.Bucket, cfg.Photos.Region, logger)
	if err != nil {
		logger.Error("failed to initialize photo storage, photo uploads disabled", "error", err)
		return nil
	}
	return store
}

func provideMemberDirectory(repo auth.Repository) group.MemberDirectory {
	return auth.NewDirectory(repo)
}

func provideGroupService(repo group.Repository, members group.MemberDirectory, snapshots group.SnapshotCache, logger *slog.Logger) group.Service {
	return group.NewService(repo, members, snapshots, logger)
}

func provideAuthService(cfg auth.Config, repo auth.Repository, groups group.Service, logger *slog.Logger) auth.Service {
	return auth.NewService(cfg, repo, groups, logger)
}

func providePlannerService(cfg planner.Config, groups group.Service, activities catalog.ActivityRepository, categories catalog.CategoryRepository, chat planner.ChatClient, trending planner.TrendingStore, logger *slog.Logger) planner.Service {
	return planner.NewService(cfg, groups, activities, categories, chat, trending, logger)
}

func provideCatalogService(activities catalog.ActivityRepository, categories catalog.CategoryRepository, photos catalog.PhotoStorage, logger *slog.Logger) catalog.Service {
	return catalog.NewService(activities, categories, photos, logger)
}
