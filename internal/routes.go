package internal

import (
	"net/http"

	"ndexplorer/internal/controllers"
	"ndexplorer/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/logs", http.HandlerFunc(apiController.GetLogs))
	routers.Get("/api/devices", http.HandlerFunc(apiController.GetDevices))
	return routers
}
