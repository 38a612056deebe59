// Package cli implements the blogreader command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"blogreader/app/config"
	"blogreader/app/models"
	"blogreader/app/routes"

	"github.com/rs/zerolog/log"
)

const (
	Version = "1.0.0"

	shutdownTimeout = 5 * time.Second
)

// Runner executes one command line.
type Runner struct {
	In  io.Reader
	Out io.Writer

	// Signals stops serve when it receives; nil listens for SIGINT and SIGTERM.
	Signals <-chan os.Signal
}

// Run dispatches args (without the program name) and returns the exit code.
func (r *Runner) Run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		r.printHelp()
		return 1
	}

	cmd := strings.ToLower(args[0])
	switch cmd {
	case "help":
		r.printHelp()
		return 0
	case "version":
		fmt.Fprintf(r.Out, "blogreader version %s\n", Version)
		return 0
	case "db":
		return r.withConfig(func(cfg *config.Config) error { return r.handleDB(cfg, args[1:]) })
	}

	handler, known := r.appCommands()[cmd]
	if !known {
		fmt.Fprintf(r.Out, "Unknown command: %s\n\n", args[0])
		r.printHelp()
		return 1
	}
	return r.withConfig(func(cfg *config.Config) error {
		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		return handler(ctx, a, args[1:])
	})
}

type appCommand func(ctx context.Context, a *app, args []string) error

func (r *Runner) appCommands() map[string]appCommand {
	return map[string]appCommand{
		"serve":   r.serve,
		"posts":   r.posts,
		"fetch":   r.fetch,
		"refresh": r.refresh,
		"like":    func(ctx context.Context, a *app, args []string) error { return r.like(ctx, a, args, true) },
		"unlike":  func(ctx context.Context, a *app, args []string) error { return r.like(ctx, a, args, false) },
		"view":    r.view,
		"likes":   r.likes,
		"admin":   r.admin,
		"themes":  r.themes,
	}
}

func (r *Runner) withConfig(fn func(cfg *config.Config) error) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(r.Out, "Error: %v\n", err)
		return 1
	}
	cfg.SetupLogging(nil)

	if err := fn(cfg); err != nil {
		var usage usageError
		if errors.As(err, &usage) {
			fmt.Fprintf(r.Out, "Error: %s\n\n", usage.msg)
			r.printHelp()
			return 2
		}
		fmt.Fprintf(r.Out, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (r *Runner) printHelp() {
	helpText := `Usage: blogreader <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve [--port <port>]          Run the reader HTTP API.
  posts [page]                   List cached posts, newest first.
  fetch <blog_id> <post_id>      Fetch a post from the server and cache it.
  refresh <blog_id> <post_id>    Update a cached post from the server.
  like <blog_id> <post_id>       Like a cached post.
  unlike <blog_id> <post_id>     Unlike a cached post.
  view <blog_id> <post_id>       Report a page view of a cached post.
  likes <blog_id> <post_id>      List the users who like a cached post.
  admin <blog_id> on|off         Mark the current user as admin of a blog.
  themes list|import <file>      List or import theme browser themes.
  db init|clean|backup|restore   Manage the local database.
`
	fmt.Fprintln(r.Out, helpText)
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func parsePostIDs(args []string) (int64, int64, error) {
	if len(args) < 2 {
		return 0, 0, usagef("blog_id and post_id are required")
	}
	blogID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || blogID <= 0 {
		return 0, 0, usagef("invalid blog_id %q", args[0])
	}
	postID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || postID <= 0 {
		return 0, 0, usagef("invalid post_id %q", args[1])
	}
	return blogID, postID, nil
}

func (r *Runner) printJSON(v interface{}) error {
	enc := json.NewEncoder(r.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// serve runs the HTTP API until a signal arrives, then shuts down gracefully.
func (r *Runner) serve(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(r.Out)
	port := fs.String("port", a.cfg.ServerPort, "port to listen on")
	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}

	srv := routes.NewServer(":"+*port, a.router())
	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting reader API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	quit := r.Signals
	if quit == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(ch)
		quit = ch
	}

	select {
	case err, ok := <-errs:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down reader API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (r *Runner) posts(ctx context.Context, a *app, args []string) error {
	page := 1
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 1 {
			return usagef("invalid page %q", args[0])
		}
		page = p
	}
	posts, err := a.service.ListPosts(page, 20)
	if err != nil {
		return err
	}
	for _, p := range posts {
		fmt.Fprintf(r.Out, "%d/%d\t%d likes\t%s\n", p.BlogID, p.PostID, p.NumLikes, p.Title)
	}
	return nil
}

func (r *Runner) fetch(ctx context.Context, a *app, args []string) error {
	blogID, postID, err := parsePostIDs(args)
	if err != nil {
		return err
	}
	post, err := a.service.Fetch(ctx, blogID, postID)
	if err != nil {
		return err
	}
	return r.printJSON(post)
}

func (r *Runner) refresh(ctx context.Context, a *app, args []string) error {
	blogID, postID, err := parsePostIDs(args)
	if err != nil {
		return err
	}
	result, err := a.service.Refresh(ctx, blogID, postID)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.Out, result)
	if result == models.Failed {
		return fmt.Errorf("refresh of %d/%d failed", blogID, postID)
	}
	return nil
}

// like waits for the server request so a failed toggle is rolled back
// before the command reports the stored state.
func (r *Runner) like(ctx context.Context, a *app, args []string, like bool) error {
	blogID, postID, err := parsePostIDs(args)
	if err != nil {
		return err
	}
	_, changed, err := a.service.SetLiked(ctx, blogID, postID, like)
	if err != nil {
		return err
	}
	a.service.Wait()

	post, err := a.service.GetPost(blogID, postID)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(r.Out, "unchanged")
	}
	fmt.Fprintf(r.Out, "likes=%d liked=%t\n", post.NumLikes, post.IsLikedByCurrentUser)
	if changed && post.IsLikedByCurrentUser != like {
		return fmt.Errorf("server rejected the request, like rolled back")
	}
	return nil
}

func (r *Runner) view(ctx context.Context, a *app, args []string) error {
	blogID, postID, err := parsePostIDs(args)
	if err != nil {
		return err
	}
	if err := a.service.View(ctx, blogID, postID); err != nil {
		return err
	}
	a.service.Wait()
	fmt.Fprintln(r.Out, "view reported")
	return nil
}

func (r *Runner) likes(ctx context.Context, a *app, args []string) error {
	blogID, postID, err := parsePostIDs(args)
	if err != nil {
		return err
	}
	users, err := a.service.Likers(blogID, postID)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Fprintf(r.Out, "%d\t%s\t%s\n", u.UserID, u.UserName, u.DisplayName)
	}
	return nil
}

func (r *Runner) admin(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return usagef("blog_id and on|off are required")
	}
	blogID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return usagef("invalid blog_id %q", args[0])
	}

	var isAdmin bool
	switch strings.ToLower(args[1]) {
	case "on", "true", "yes":
		isAdmin = true
	case "off", "false", "no":
		isAdmin = false
	default:
		return usagef("expected on or off, got %q", args[1])
	}
	if err := a.service.SetAdmin(blogID, isAdmin); err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "admin of %d: %t\n", blogID, isAdmin)
	return nil
}

func (r *Runner) themes(ctx context.Context, a *app, args []string) error {
	if len(args) < 1 {
		return usagef("themes requires list or import")
	}
	switch args[0] {
	case "list":
		rows, err := a.themes.Rows()
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Fprintf(r.Out, "%s\t%s\t%s\n", row.Name, row.Price, row.ImageURL)
		}
		return nil
	case "import":
		if len(args) < 2 {
			return usagef("themes import requires a file")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read themes: %w", err)
		}
		var list []*models.Theme
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("failed to decode themes: %w", err)
		}
		if err := a.themes.Import(list); err != nil {
			return err
		}
		fmt.Fprintf(r.Out, "imported %d themes\n", len(list))
		return nil
	default:
		return usagef("unknown themes command %q", args[0])
	}
}
