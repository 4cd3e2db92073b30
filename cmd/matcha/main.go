package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matcha-app/matcha-tui/internal/api"
	"github.com/matcha-app/matcha-tui/internal/auth"
	"github.com/matcha-app/matcha-tui/internal/config"
	"github.com/matcha-app/matcha-tui/internal/logging"
	"github.com/matcha-app/matcha-tui/internal/poll"
	"github.com/matcha-app/matcha-tui/internal/session"
	"github.com/matcha-app/matcha-tui/internal/ui"
)

func main() {
	root := &cobra.Command{
		Use:   "matcha",
		Short: "Terminal client for the Matcha dating site",
		// Flags are handled by the config package so env and .env stay in
		// one place; cobra only provides the command surface.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args)
		},
	}
	root.AddCommand(logoutCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := auth.NewStore(os.Getenv("MATCHA_TOKEN_PATH"))
			if err != nil {
				return err
			}
			return store.Clear()
		},
	}
}

func run(args []string) error {
	cfg, err := config.ParseFlags(args)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Debug, cfg.LogPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := auth.NewStore(cfg.TokenPath)
	if err != nil {
		return err
	}
	if err := store.Load(); err != nil {
		return err
	}
	if store.Expired(time.Now()) {
		fmt.Fprintln(os.Stderr, "stored session token has expired; the server will answer 401")
	}

	client := api.New(cfg.BaseURL, cfg.RequestTimeout, store, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := session.New(ctx, client, cfg.RequestTimeout, log)
	defer func() { sess.Inbox() <- session.Shutdown{} }()

	var activePeer atomic.Int64

	polls := &poll.Set{}
	model := ui.New(client, sess, polls, &activePeer, cfg.RequestTimeout)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())

	client.Offline().OnChange(func(down bool) {
		program.Send(ui.OfflineMsg{Down: down})
	})

	polls.Add(poll.New("notifications", cfg.NotificationPollEvery, func(ctx context.Context) error {
		items, err := client.Notifications(ctx)
		if err != nil {
			return err
		}
		program.Send(ui.NotificationsMsg{Items: items})
		return nil
	}, log))

	polls.Add(poll.New("messages", cfg.MessagePollEvery, func(ctx context.Context) error {
		peer := int(activePeer.Load())
		if peer == 0 {
			return nil
		}
		items, err := client.Messages(ctx, peer)
		if err != nil {
			return err
		}
		program.Send(ui.MessagesMsg{PeerID: peer, Items: items})
		return nil
	}, log))

	polls.Add(poll.New("location", cfg.LocationPollEvery, func(ctx context.Context) error {
		profile, err := client.Profile(ctx)
		if err != nil {
			return err
		}
		program.Send(ui.ProfileRefreshMsg{Profile: profile})
		return nil
	}, log))

	polls.Start(ctx)
	defer polls.Stop()

	log.Info("starting",
		zap.String("api", cfg.BaseURL),
		zap.Bool("authenticated", store.Token() != ""))

	_, err = program.Run()
	return err
}
