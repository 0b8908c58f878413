package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/padship/internal/adapters/fs"
	"github.com/bft-labs/padship/internal/adapters/stdio"
	"github.com/bft-labs/padship/internal/cliconfig"
	"github.com/bft-labs/padship/pkg/log"
	"github.com/bft-labs/padship/pkg/padship"
	"github.com/bft-labs/padship/plugins/configwatcher"
	"github.com/bft-labs/padship/plugins/statusserver"
)

const longHelp = `Stream gamepad and mouse input from one machine to another over TCP.

The server samples local input and streams changes to a single client. The
client replays them on a virtual device and reconnects whenever the link drops.

Input and output are JSON lines so any device backend can be piped in:
  {"gamepad":{"buttons":4096,"thumb_lx":100},"mouse":{"x":3,"y":-2,"buttons":1}}`

var exampleUsage = strings.TrimSpace(`
  input-reader | padship serve --addr :7777
  padship connect steamdeck | virtual-pad
  padship status --state-dir ~/.padship
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "padship",
		Short:         "Stream gamepad and mouse input over TCP",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.padship/config.toml)")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for status.json (default: $HOME/.padship)")
	root.PersistentFlags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve /healthz, /status and /metrics on this address")
	root.PersistentFlags().IntVar(&cfg.QueueCapacity, "queue-capacity", cfg.QueueCapacity, "events buffered between sampling and the socket")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Sample local input and stream it to one client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Role = cliconfig.RoleServer
			return run(cmd, &cfg, cfgPath)
		},
	}
	serve.Flags().StringVar(&cfg.Addr, "addr", "", "listen address (default :7777)")
	serve.Flags().StringVar(&cfg.Input, "input", cfg.Input, "JSON lines input file, - for stdin")
	serve.Flags().DurationVar(&cfg.SampleInterval, "sample-interval", cfg.SampleInterval, "how often input is sampled")
	serve.Flags().DurationVar(&cfg.HeartbeatInterval, "heartbeat", cfg.HeartbeatInterval, "send a timestamp event at this interval (0 disables)")

	connect := &cobra.Command{
		Use:   "connect [host[:port]]",
		Short: "Receive input from a server and replay it locally",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Role = cliconfig.RoleClient
			if len(args) == 1 {
				cfg.Addr = args[0]
			}
			return run(cmd, &cfg, cfgPath)
		},
	}
	connect.Flags().StringVar(&cfg.Addr, "addr", "", "server address, port defaults to 7777")
	connect.Flags().StringVar(&cfg.Output, "output", cfg.Output, "JSON lines output file, - for stdout")
	connect.Flags().DurationVar(&cfg.RetryInterval, "retry-interval", cfg.RetryInterval, "delay between connection attempts")
	connect.Flags().DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "timeout for a single connection attempt")
	connect.Flags().DurationVar(&cfg.SlowReplayThreshold, "slow-replay", cfg.SlowReplayThreshold, "warn when replaying an event takes longer")

	status := &cobra.Command{
		Use:   "status",
		Short: "Print the last recorded session status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			return printStatus(cmd.Context(), cmd.OutOrStdout(), stateDir(cfg))
		},
	}

	root.AddCommand(serve, connect, status)

	if err := root.ExecuteContext(context.Background()); err != nil {
		logger := newLogger(cfg.LogLevel)
		logger.Error().Err(err).Msg("padship")
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	return log.NewZerologAdapter(log.ParseLevel(level)).Logger()
}

func configFile(path string) string {
	if path != "" {
		return path
	}
	return cliconfig.DefaultConfigPath()
}

// loadConfig applies the config file and then PADSHIP_* variables, each
// only where no flag was given on the command line.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	if cfg.Addr != "" {
		changed["addr"] = true
	}

	if path := configFile(cfgPath); path != "" && cliconfig.FileExists(path) {
		fc, err := cliconfig.LoadFileConfig(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	return cliconfig.ApplyEnvConfig(cfg, changed)
}

func run(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	if err := loadConfig(cmd, cfg, cfgPath); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info().Interface("config", cfg).Msg("configuration")

	opts := []padship.Option{
		padship.WithLogger(log.NewZerologAdapterWithLogger(logger)),
		configwatcher.WithConfigWatcher(configwatcher.Config{Path: configFile(cfgPath)}),
	}
	if cfg.MetricsAddr != "" {
		opts = append(opts, statusserver.WithStatusServer(cfg.MetricsAddr))
	}

	switch cfg.Role {
	case cliconfig.RoleServer:
		in, err := openInput(cfg.Input)
		if err != nil {
			return err
		}
		defer in.Close()
		opts = append(opts, padship.WithSampler(stdio.NewSampler(in, log.NewZerologAdapterWithLogger(logger))))
	case cliconfig.RoleClient:
		out, err := openOutput(cfg.Output)
		if err != nil {
			return err
		}
		defer out.Close()
		opts = append(opts, padship.WithSink(stdio.NewSink(out)))
	}

	p, err := padship.New(libConfig(*cfg), opts...)
	if err != nil {
		return fmt.Errorf("create padship: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("start padship: %w", err)
	}

	select {
	case <-sigCh:
		logger.Info().Msg("received signal, stopping...")
	case <-p.Done():
		if p.Status() == padship.StateCrashed {
			logger.Error().Msg("padship crashed")
		}
	}

	if err := p.Stop(); err != nil && !errors.Is(err, padship.ErrNotRunning) {
		return fmt.Errorf("stop padship: %w", err)
	}
	return p.Err()
}

// libConfig converts CLI configuration to the library's Config.
func libConfig(cfg cliconfig.Config) padship.Config {
	return padship.Config{
		Role:                padship.Role(cfg.Role),
		Addr:                cfg.Addr,
		SampleInterval:      cfg.SampleInterval,
		QueueCapacity:       cfg.QueueCapacity,
		RetryInterval:       cfg.RetryInterval,
		DialTimeout:         cfg.DialTimeout,
		HeartbeatInterval:   cfg.HeartbeatInterval,
		SlowReplayThreshold: cfg.SlowReplayThreshold,
		StateDir:            stateDir(cfg),
	}
}

func stateDir(cfg cliconfig.Config) string {
	if cfg.StateDir != "" {
		return cfg.StateDir
	}
	return cliconfig.DefaultStateDir()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func openInput(name string) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func openOutput(name string) (io.WriteCloser, error) {
	if name == "" || name == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return f, nil
}

func printStatus(ctx context.Context, w io.Writer, dir string) error {
	if dir == "" {
		return errors.New("no state directory")
	}
	st, err := fs.NewStatusFileRepository(dir).Load(ctx)
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}
	if st.Role == "" {
		_, err := fmt.Fprintln(w, "no session recorded")
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}
