package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kingbootoshi/feather/internal/config"
	"github.com/kingbootoshi/feather/internal/logger"
	"github.com/kingbootoshi/feather/pkg/agent"
	"github.com/kingbootoshi/feather/pkg/debug"
	"github.com/kingbootoshi/feather/pkg/llm"
	"github.com/kingbootoshi/feather/pkg/tool"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.NewLoader(*configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer lg.Close()
	zl := lg.GetZerolog()

	client, err := llm.NewClient(llm.Options{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
	})
	if err != nil {
		zl.Fatal().Err(err).Msg("Failed to create model client")
	}

	var sink agent.Sink = agent.NopSink{}
	if cfg.Debug.Enabled {
		server := debug.NewServer(cfg.Debug.Addr, zl)
		if err := server.Start(); err != nil {
			zl.Fatal().Err(err).Msg("Failed to start debug server")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			server.Stop(shutdownCtx)
		}()
		sink = server
	}

	a, err := agent.New(agent.Config{
		Model:        cfg.Model,
		SystemPrompt: "You are a helpful assistant. The current time is {{current_time}}.",
		DynamicVariables: map[string]func() string{
			"current_time": func() string { return time.Now().Format(time.RFC1123) },
		},
		Tools:  []tool.Tool{currentTimezoneTool()},
		Client: client,
		Sink:   sink,
		Logger: zl,
	})
	if err != nil {
		zl.Fatal().Err(err).Msg("Failed to create agent")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	fmt.Println("feather chat (Ctrl-C to quit)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		result, err := a.Run(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("%v\n", result.Output)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}

func currentTimezoneTool() tool.Tool {
	return tool.Tool{
		Name:        "current_time",
		Description: "Returns the current time in a given IANA timezone.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"timezone": map[string]interface{}{
					"type":        "string",
					"description": "IANA timezone name, e.g. Europe/Lisbon",
				},
			},
			"required": []string{"timezone"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			var params struct {
				Timezone string `json:"timezone"`
			}
			if err := tool.DecodeArgs(args, &params); err != nil {
				return nil, err
			}
			loc, err := time.LoadLocation(params.Timezone)
			if err != nil {
				return nil, fmt.Errorf("unknown timezone %q: %w", params.Timezone, err)
			}
			return time.Now().In(loc).Format(time.RFC1123), nil
		},
	}
}
