package internal

import (
	"net/http"
	"reviewguard/internal/controllers"
	"reviewguard/internal/providers"
	"reviewguard/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/check", http.HandlerFunc(apiController.Check))
	routers.Post("/reset", http.HandlerFunc(apiController.Reset))
	return routers
}
