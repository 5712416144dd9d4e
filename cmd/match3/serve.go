package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/platform/tui"
)

var flagIdleTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the match3 SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the mode menu. Scores are
stored per server under the SSH user name, so all users share the same
leaderboard.

The host key is generated at --host-key on first start.

Examples:
  match3 serve                            # Listen on :23234
  match3 serve --ssh :2222                # Listen on port 2222
  match3 serve --host-key ./my_host_key   # Use specific host key
  MATCH3_SSH_ADDR=:2222 match3 serve      # Address from the environment

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().String("host-key", ".ssh/match3_ed25519", "Path to host key file")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 30*time.Minute, "Disconnect idle sessions after this long")
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     app.viper.GetString(config.KeySSHAddr),
		HostKeyPath: app.viper.GetString(config.KeySSHHostKey),
		Store:       store,
		TickRate:    app.settings.FPS,
		IdleTimeout: flagIdleTimeout,
		Logger:      app.log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.log.Info("press Ctrl+C to stop", "connect", "ssh localhost -p <port>")
	return server.ListenAndServe(ctx)
}

