//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/playfriends/playfriends/internal/bootstrap"
	"github.com/playfriends/playfriends/internal/infra/config"
	httpiface "github.com/playfriends/playfriends/internal/interface/http"
	"github.com/playfriends/playfriends/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRepositories,
		provideUserRepository,
		provideGroupRepository,
		provideActivityRepository,
		provideCategoryRepository,
		provideAuthConfig,
		providePlannerConfig,
		provideChatClient,
		providePrefStore,
		provideTrendingStore,
		provideSnapshotCache,
		providePhotoStorage,
		provideMemberDirectory,
		provideGroupService,
		provideAuthService,
		providePlannerService,
		provideCatalogService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
