package cli

import (
	"context"
	"fmt"

	"blogreader/app/actions"
	"blogreader/app/config"
	"blogreader/app/controllers"
	"blogreader/app/dispatch"
	"blogreader/app/repositories"
	"blogreader/app/rest"
	"blogreader/app/routes"
	"blogreader/app/services"
	"blogreader/app/themes"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// app holds the wired reader stack for one command invocation.
type app struct {
	cfg     *config.Config
	repo    *repositories.Repository
	loop    *dispatch.Loop
	actions *actions.Actions
	service *services.ReaderService
	themes  *themes.Browser
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	repo, err := repositories.NewRepository(cfg.DBPath, cfg.CurrentUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", cfg.DBPath, err)
	}

	httpClient := rest.NewAuthenticatedHTTPClient(ctx, cfg.AccessToken, cfg.HTTPTimeout)
	loop := dispatch.NewLoop()
	a := actions.New(actions.Deps{
		Posts:      repo.Posts,
		Likes:      repo.Likes,
		Users:      repo.Users,
		Admins:     repo.Admins,
		ReadClient: rest.NewClient(httpClient, cfg.APIBaseURL, rest.VersionV1_2),
		LikeClient: rest.NewClient(httpClient, cfg.APIBaseURL, rest.VersionV1_1),
		Loop:       loop,
	}, actions.WithPixelURL(cfg.PixelURL))

	return &app{
		cfg:     cfg,
		repo:    repo,
		loop:    loop,
		actions: a,
		service: services.NewReaderService(a, repo.Posts, repo.Likes, repo.Users, repo.Admins),
		themes:  themes.NewBrowser(repo.Themes, themes.NewBinder(cfg.ThemeWidth)),
	}, nil
}

func (a *app) router() *mux.Router {
	return routes.SetupRoutes(controllers.NewReaderController(a.service, a.themes))
}

// Close waits for background requests, then stops the loop and the database.
func (a *app) Close() {
	a.actions.Wait()
	a.loop.Close()
	if err := a.repo.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}
}
