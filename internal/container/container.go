package container

import (
	"log/slog"

	"github.com/joshua-takyi/bashbay-events/internal/config"
	"github.com/joshua-takyi/bashbay-events/internal/helpers"
	"github.com/joshua-takyi/bashbay-events/internal/jointab"
	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/joshua-takyi/bashbay-events/internal/services"
	"github.com/joshua-takyi/bashbay-events/internal/store"
	"github.com/joshua-takyi/bashbay-events/internal/uploader"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	Tokens helpers.TokenValidator

	EventService      *services.EventService
	BookingService    *services.BookingService
	SavedEventService *services.SavedEventService
	ViewService       *services.EventViewService
	AuthService       *services.AuthService

	JoinTabFilter jointab.Filter
}

// Deps are the connected clients the container is built from.
type Deps struct {
	Store   store.Store
	Auth    models.AuthRepo
	Saved   models.SavedEventsRepo
	Views   models.EventViewsRepo
	Images  uploader.ImageUploader
	Tokens  helpers.TokenValidator
	Policy  services.ErrorPolicy
	Options []services.Option
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger, deps Deps) *Container {
	policy := deps.Policy
	if policy == nil {
		policy = services.DefaultErrorPolicy()
	}
	opts := append([]services.Option{
		services.WithLogger(logger),
		services.WithErrorPolicy(policy),
	}, deps.Options...)

	supa := models.SupabaseNewRepo(deps.Store)

	return &Container{
		Config:            cfg,
		Logger:            logger,
		Tokens:            deps.Tokens,
		EventService:      services.NewEventService(supa, supa, deps.Images, opts...),
		BookingService:    services.NewBookingService(supa, opts...),
		SavedEventService: services.NewSavedEventService(deps.Saved, opts...),
		ViewService:       services.NewEventViewService(deps.Views, opts...),
		AuthService:       services.NewAuthService(deps.Auth, supa, opts...),
		JoinTabFilter:     jointab.NewFilter(cfg.JoinTabGrace, cfg.Location()),
	}
}
