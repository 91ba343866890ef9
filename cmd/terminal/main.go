package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Abinaav-K876/market-crash/internal/api"
	"github.com/Abinaav-K876/market-crash/internal/audio"
	"github.com/Abinaav-K876/market-crash/internal/config"
	"github.com/Abinaav-K876/market-crash/internal/particles"
	"github.com/Abinaav-K876/market-crash/internal/poll"
	"github.com/Abinaav-K876/market-crash/internal/state"
	"github.com/Abinaav-K876/market-crash/tui"
)

const lobbyTimeout = 30 * time.Second

func main() {
	// A .env next to the binary is a convenience, absence is fine.
	_ = godotenv.Load()

	cfg := config.LoadFromEnv()

	var cfgFile string

	root := &cobra.Command{
		Use:          "market-crash",
		Short:        "Market Crash multiplayer trading terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				var err error
				cfg, err = config.LoadFile(cfgFile, cfg)
				if err != nil {
					return err
				}
			}
			return cfg.Validate()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "game server base URL")
	root.PersistentFlags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file")
	root.PersistentFlags().BoolVar(&cfg.Muted, "muted", cfg.Muted, "start with sound off")

	root.AddCommand(
		newCreateCmd(&cfg),
		newJoinCmd(&cfg),
		newPlayCmd(&cfg),
		newLeaveCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCreateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new room and enter it",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := playerNameOrPrompt(cfg)
			if err != nil {
				return err
			}

			client := api.NewClient(cfg.ServerURL, api.WithLogger(newLogger(cfg)))
			ctx, cancel := context.WithTimeout(cmd.Context(), lobbyTimeout)
			defer cancel()

			roomID, err := client.CreateRoom(ctx, name)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Room %s created.", roomID))

			if err := saveSession(client, roomID, name); err != nil {
				return err
			}
			return runTerminal(cmd.Context(), cfg, client, roomID, name)
		},
	}
}

func newJoinCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "join [room_id]",
		Short: "Join an existing room",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID := cfg.RoomID
			if len(args) > 0 {
				roomID = strings.ToUpper(strings.TrimSpace(args[0]))
			}
			if roomID == "" {
				var err error
				roomID, err = promptRequired("Room code")
				if err != nil {
					return err
				}
				roomID = strings.ToUpper(roomID)
			}

			name, err := playerNameOrPrompt(cfg)
			if err != nil {
				return err
			}

			client := api.NewClient(cfg.ServerURL, api.WithLogger(newLogger(cfg)))
			ctx, cancel := context.WithTimeout(cmd.Context(), lobbyTimeout)
			defer cancel()

			joined, err := client.JoinRoom(ctx, roomID, name)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Joined room %s as %s.", joined, name))

			if err := saveSession(client, joined, name); err != nil {
				return err
			}
			return runTerminal(cmd.Context(), cfg, client, joined, name)
		},
	}
}

func newPlayCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Re-enter the room from the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := api.LoadSession()
			if err != nil {
				return fmt.Errorf("no saved session, run `market-crash join` first: %w", err)
			}

			client := api.NewClient(cfg.ServerURL, api.WithLogger(newLogger(cfg)))
			client.RestoreCookies(sess.Cookies)

			printInfo(fmt.Sprintf("Resuming room %s as %s.", sess.RoomID, sess.PlayerName))
			return runTerminal(cmd.Context(), cfg, client, sess.RoomID, sess.PlayerName)
		},
	}
}

func newLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api.ClearSession(); err != nil {
				return err
			}
			printSuccess("Session cleared.")
			return nil
		},
	}
}

// runTerminal wires the store, sync loop, audio engine and particle
// field into the bubbletea program and blocks until the player quits.
func runTerminal(ctx context.Context, cfg *config.Config, client *api.Client, roomID, playerName string) error {
	logger := newLogger(cfg)

	store := state.NewStore(state.Snapshot{
		Price:     cfg.InitialPrice,
		LastPrice: cfg.InitialPrice,
		Cash:      cfg.InitialCash,
		Shares:    cfg.InitialShares,
		MaxRounds: cfg.MaxRounds,
		Active:    true,
	})

	sound := newSoundEngine(cfg, logger)
	field := particles.NewField(rand.New(rand.NewSource(time.Now().UnixNano())))

	model := tui.NewModel(client, nil, sound, field, roomID, playerName, cfg.PollInterval,
		tui.WithLogger(logger))

	program := tea.NewProgram(model, tea.WithAltScreen())

	loop := poll.New(
		poll.Config{Interval: cfg.PollInterval},
		client, roomID, store,
		func() { program.Send(tui.SessionExpiredMsg{}) },
		logger,
	)
	model.SetLoop(loop)

	store.Subscribe(func(snap state.Snapshot, changes state.Changes) {
		program.Send(tui.SnapshotMsg{Snap: snap, Changes: changes})
	})

	loop.Start(ctx)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := loop.Stop(stopCtx); err != nil {
			logger.Warn("sync loop did not stop cleanly", "error", err)
		}
	}()

	finished, err := program.Run()
	if err != nil {
		return fmt.Errorf("run terminal: %w", err)
	}

	if m, ok := finished.(*tui.Model); ok && m.Fatal() != "" {
		printError(m.Fatal())
	}
	return nil
}

func newSoundEngine(cfg *config.Config, logger *slog.Logger) *audio.Engine {
	var sink audio.Sink
	sink, err := audio.NewSpeakerSink(audio.DefaultSampleRate)
	if err != nil {
		logger.Warn("audio device unavailable, playing silently", "error", err)
		sink = audio.NullSink{}
	}

	engine := audio.NewEngine(audio.DefaultSampleRate, sink, audio.WithLogger(logger))
	if cfg.Muted {
		engine.SetEnabled(false)
	}
	return engine
}

// newLogger writes to the configured log file. With no file the logs
// are discarded, the terminal owns stdout.
func newLogger(cfg *config.Config) *slog.Logger {
	var w io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			w = f
		}
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

func saveSession(client *api.Client, roomID, playerName string) error {
	return api.SaveSession(api.Session{
		RoomID:     roomID,
		PlayerName: playerName,
		Cookies:    client.ExportCookies(),
	})
}
