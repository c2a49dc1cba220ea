// Command agentd runs the agent execution runtime: terminal manager,
// permission engine, workflow action engine, and the in-process agent
// executor, fronted by nothing more than this process's lifecycle.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/swissarmyhammer/agent-runtime/internal/agentexec"
	"github.com/swissarmyhammer/agent-runtime/internal/config"
	"github.com/swissarmyhammer/agent-runtime/internal/event"
	"github.com/swissarmyhammer/agent-runtime/internal/logging"
	"github.com/swissarmyhammer/agent-runtime/internal/permission"
	"github.com/swissarmyhammer/agent-runtime/internal/provider"
	"github.com/swissarmyhammer/agent-runtime/internal/terminal"
)

const Version = "0.1.0"

// runtime bundles the long-lived collaborators a transport layer would
// dispatch requests into; wiring a transport on top of these is the
// next layer up and out of scope here.
type runtime struct {
	terminals   *terminal.Manager
	permissions *permission.Checker
	executor    *agentexec.Executor
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var pretty bool
	var logLevel string

	cmd := &cobra.Command{
		Use:     "agentd",
		Short:   "Agent execution runtime daemon",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.Config{
				Level:  logging.ParseLevel(logLevel),
				Output: os.Stderr,
				Pretty: pretty,
			})
		},
	}

	cmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Human-readable console log output")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	var mcpPort int
	var mcpTimeout int
	var hfRepo string
	var modelRef string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the terminal manager, permission engine, and agent executor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), hfRepo, modelRef, mcpPort, mcpTimeout)
		},
	}

	cmd.Flags().IntVar(&mcpPort, "mcp-port", 0, "Port for the in-process MCP server (0 = OS-assigned)")
	cmd.Flags().IntVar(&mcpTimeout, "mcp-timeout", 30, "MCP tool-call timeout in seconds")
	cmd.Flags().StringVar(&hfRepo, "model-repo", envOr("AGENTD_MODEL_REPO", "swissarmyhammer/agent-runtime-default"), "HuggingFace repo for the model source")
	cmd.Flags().StringVar(&modelRef, "model", "", "provider/model reference for the default LLM engine (e.g. anthropic/claude-sonnet-4-20250514); defaults to the loaded config's model")

	return cmd
}

func envOr(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func envIntOr(name string, fallback int) int {
	if v, ok := os.LookupEnv(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func serve(ctx context.Context, hfRepo, modelRef string, mcpPort, mcpTimeout int) error {
	bus := event.NewBus()
	defer bus.Close()

	rateLimiter := terminal.NewRateLimiter(envIntOr("AGENTD_TERMINAL_RATE_LIMIT", 60), time.Minute)
	termManager := terminal.NewManager(rateLimiter)

	checker := permission.NewChecker()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	loadedConfig, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if modelRef == "" {
		modelRef = loadedConfig.Model
	}

	agentConfig := agentexec.Config{
		Model: agentexec.ModelConfig{
			Source: agentexec.ModelSource{Kind: agentexec.ModelSourceHuggingFace, Repo: hfRepo},
		},
		MCPServer: agentexec.MCPServerConfig{Port: mcpPort, TimeoutSeconds: mcpTimeout},
	}

	var engine agentexec.LLMEngine
	if modelRef != "" {
		reg := provider.NewRegistry(loadedConfig)
		builtEngine, err := agentexec.BuildDefaultEngine(ctx, reg, modelRef)
		if err != nil {
			logging.Error().Err(err).Str("model", modelRef).Msg("failed to build LLM engine, falling back to no default engine")
		} else {
			engine = builtEngine
		}
	}

	executor, err := agentexec.GetGlobalExecutor(ctx, agentConfig, engine)
	if err != nil {
		logging.Error().Err(err).Msg("failed to initialize agent executor")
		return err
	}

	rt := &runtime{terminals: termManager, permissions: checker, executor: executor}

	logging.Info().
		Str("mcp_url", rt.executor.MCPServerURL()).
		Int("terminal_rate_limit_per_min", envIntOr("AGENTD_TERMINAL_RATE_LIMIT", 60)).
		Msg("agentd ready")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := executor.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("agent executor shutdown error")
		return fmt.Errorf("shutdown: %w", err)
	}

	logging.Info().Msg("agentd stopped")
	return nil
}
