package internal

import (
	"net/http"

	"chronorise/internal/controllers"
	"chronorise/internal/providers"
	"chronorise/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/list", http.HandlerFunc(apiController.ListAlarms))
	routers.Post("/create", http.HandlerFunc(apiController.CreateAlarm))
	routers.Post("/update", http.HandlerFunc(apiController.UpdateAlarm))
	routers.Post("/toggle", http.HandlerFunc(apiController.ToggleAlarm))
	routers.Delete("/delete", http.HandlerFunc(apiController.DeleteAlarm))
	routers.Get("/ringing", http.HandlerFunc(apiController.GetRinging))
	routers.Post("/snooze", http.HandlerFunc(apiController.Snooze))
	routers.Post("/dismiss", http.HandlerFunc(apiController.Dismiss))
	routers.Post("/unlock", http.HandlerFunc(apiController.Unlock))
	return routers
}
