package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sqliteadapter "github.com/atvirokodosprendimai/retailadmin/internal/adapters/db/sqlite"
	"github.com/atvirokodosprendimai/retailadmin/internal/adapters/generator"
	httpadapter "github.com/atvirokodosprendimai/retailadmin/internal/adapters/http"
	"github.com/atvirokodosprendimai/retailadmin/internal/adapters/proxy"
	rpcadapter "github.com/atvirokodosprendimai/retailadmin/internal/adapters/rpcjson"
	"github.com/atvirokodosprendimai/retailadmin/internal/adapters/session"
	"github.com/atvirokodosprendimai/retailadmin/internal/adapters/supabase"
	"github.com/atvirokodosprendimai/retailadmin/internal/application"
	"github.com/atvirokodosprendimai/retailadmin/internal/config"
	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "retailadmin",
		Usage: "Retail demo admin gateway and operator CLI",
		Commands: []*cli.Command{
			serverCommand(),
			authCommand(),
			seedCommand(),
			auditCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run the HTTP gateway and the local JSON-RPC socket",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address (overrides ADDR)"},
			&cli.StringFlag{Name: "rpc-socket", Usage: "JSON-RPC unix socket path (overrides RPC_SOCKET)"},
			&cli.StringFlag{Name: "db-path", Usage: "SQLite journal path (overrides DB_PATH)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if c.IsSet("addr") {
				cfg.Addr = c.String("addr")
			}
			if c.IsSet("rpc-socket") {
				cfg.RPCSocket = c.String("rpc-socket")
			}
			if c.IsSet("db-path") {
				cfg.DBPath = c.String("db-path")
			}
			return runServer(ctx, cfg)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config) error {
	db, err := sqliteadapter.OpenJournal(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	journalRepo := sqliteadapter.NewJournalRepository(db)

	upstream := supabase.NewClient(cfg.SupabaseURL, cfg.ServiceRoleKey, cfg.UpstreamTimeout)
	authService := application.NewAuthService(upstream, session.NewCodec(cfg.SessionSecret), journalRepo)

	genOpts := generator.DefaultOptions()
	genOpts.Seed = cfg.SeedRandomSeed
	seedService := application.NewSeedService(upstream, upstream, generator.NewRetail(genOpts), journalRepo, application.SeedOptions{
		DefaultUser:      domain.Credentials{Email: cfg.DefaultUserEmail, Password: cfg.DefaultUserPass},
		CustomerPassword: cfg.CustomerPassword,
		Concurrency:      cfg.SeedConcurrency,
	})
	journalService := application.NewJournalService(journalRepo)

	router := httpadapter.NewRouter(authService, seedService, journalService, proxy.New(cfg.SupabaseURL, cfg.ServiceRoleKey, cfg.UpstreamTimeout), httpadapter.Options{
		SecureCookies:    cfg.Production(),
		SessionMaxAge:    cfg.SessionMaxAge,
		SeedRouteEnabled: cfg.SeedRouteEnabled,
	})
	srv := &http.Server{Addr: cfg.Addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	rpcSrv, err := rpcadapter.Start(cfg.RPCSocket, seedService, journalService)
	if err != nil {
		return err
	}

	defer func() {
		_ = rpcSrv.Close()
	}()
	log.Printf("json-rpc listening on unix://%s", cfg.RPCSocket)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s (upstream %s, %s)", srv.Addr, cfg.SupabaseURL, cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func transportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "transport", Usage: "uds or http"},
		&cli.StringFlag{Name: "server", Usage: "gateway base URL for the http transport"},
		&cli.StringFlag{Name: "socket", Usage: "JSON-RPC unix socket path"},
	}
}

// clientConfig loads the saved CLI config and applies any transport flags.
func clientConfig(c *cli.Command) (cliConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cliConfig{}, err
	}
	if c.IsSet("transport") {
		cfg.Transport = c.String("transport")
	}
	if c.IsSet("server") {
		cfg.Server = c.String("server")
	}
	if c.IsSet("socket") {
		cfg.Socket = c.String("socket")
	}
	if cfg.Transport != "uds" && cfg.Transport != "http" {
		return cliConfig{}, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
	return cfg, nil
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Admin session commands (http transport)",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in through the gateway and store the session cookie",
				Flags: append(transportFlags(),
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := clientConfig(c)
					if err != nil {
						return err
					}
					var out struct {
						Email string `json:"email"`
					}
					cookie, err := doLogin(ctx, cfg, c.String("email"), c.String("password"), &out)
					if err != nil {
						return err
					}
					cfg.Session = cookie
					if err := saveConfig(cfg); err != nil {
						return err
					}
					fmt.Printf("logged in as %s\n", out.Email)
					return nil
				},
			},
			{
				Name:  "whoami",
				Usage: "Show the admin behind the stored session",
				Flags: append(transportFlags(), &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := clientConfig(c)
					if err != nil {
						return err
					}
					var out struct {
						ID        string    `json:"id"`
						Email     string    `json:"email"`
						Strategy  string    `json:"strategy"`
						ExpiresAt time.Time `json:"expires_at"`
					}
					if err := doWhoAmI(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printKV([][2]string{{"id", out.ID}, {"email", out.Email}, {"strategy", out.Strategy}, {"expires_at", formatTime(out.ExpiresAt)}})
					return nil
				},
			},
			{
				Name:  "logout",
				Usage: "Expire the session and forget the stored cookie",
				Flags: transportFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := clientConfig(c)
					if err != nil {
						return err
					}
					_ = doLogout(ctx, cfg)
					cfg.Session = ""
					if err := saveConfig(cfg); err != nil {
						return err
					}
					fmt.Println("logged out")
					return nil
				},
			},
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Demo dataset commands",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Wipe and regenerate the demo dataset",
				Flags: append(transportFlags(), &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := clientConfig(c)
					if err != nil {
						return err
					}
					var out domain.SeedRun
					if err := doSeedRun(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					if out.ID == 0 {
						fmt.Println("ok")
						return nil
					}
					printSeedRuns([]domain.SeedRun{out})
					return nil
				},
			},
			{
				Name:  "runs",
				Usage: "List recent seed runs",
				Flags: append(transportFlags(),
					&cli.IntFlag{Name: "limit", Value: 20},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := clientConfig(c)
					if err != nil {
						return err
					}
					var out []domain.SeedRun
					if err := doSeedRuns(ctx, cfg, c.Int("limit"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printSeedRuns(out)
					return nil
				},
			},
		},
	}
}

func auditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Audit log commands",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List audit entries",
				Flags: append(transportFlags(),
					&cli.IntFlag{Name: "limit", Value: 100},
					&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
				),
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := clientConfig(c)
					if err != nil {
						return err
					}
					var out []domain.AuditEntry
					if err := doAuditList(ctx, cfg, c.Int("limit"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printAuditEntries(out)
					return nil
				},
			},
		},
	}
}

func jsonMarshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
