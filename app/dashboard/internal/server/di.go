package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/topic_radar/app/dashboard/internal/data"
	"github.com/iWorld-y/topic_radar/app/dashboard/internal/service"
	"github.com/iWorld-y/topic_radar/app/dashboard/internal/usecase"
)

// ProviderSet 是看板服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewSearchEngine,

	// Data providers
	data.NewData,
	data.NewHistoryRepo,

	// UseCase providers
	usecase.NewAutoSaver,
	usecase.NewHistoryUseCase,
	usecase.NewAnalysisUseCase,

	// Service providers
	service.NewAnalysisService,
)
