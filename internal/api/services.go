package api

import (
	"github.com/mymedialist/medialist-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth    *service.AuthService
	List    *service.ListService
	Stats   *service.StatsService
	Profile *service.ProfileService
	Session *service.SessionService
}
