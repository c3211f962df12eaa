package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"resume-rag/internal/config"
	"resume-rag/internal/helper"
	"resume-rag/internal/jobsearch"
	"resume-rag/internal/pipeline"
	"resume-rag/internal/web"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	filePath := flag.String("file", "", "Path to the resume file (PDF, DOCX or TXT)")
	apiKey := flag.String("key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	serve := flag.Bool("serve", false, "Start the web server")
	asJSON := flag.Bool("json", false, "Print the result as JSON")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	setLogLevel(cfg.Log.Level)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	p := pipeline.New(cfg, pipeline.NewGeminiBackend(cfg), jobsearch.NewClient(&cfg.Search, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		if err := web.NewServer(cfg, p).ListenAndServe(ctx); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
		return
	}

	if *filePath == "" {
		log.Fatal().Msg("Please provide a resume using the -file flag or start the server with -serve")
	}

	key := *apiKey
	if key == "" {
		key = cfg.LLM.Key
	}
	analyzeFile(ctx, p, *filePath, key, *asJSON)
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("Unknown log level, using debug")
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func analyzeFile(ctx context.Context, p *pipeline.Pipeline, filePath, apiKey string, asJSON bool) {
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening resume")
	}
	defer f.Close()

	result, err := p.Run(ctx, pipeline.Request{
		APIKey:   apiKey,
		Filename: filepath.Base(filePath),
		Document: f,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error analyzing resume")
	}

	if asJSON {
		helper.PrettyPrint(os.Stdout, result)
		return
	}

	log.Info().Msg("Suggested roles: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", result.Answer)

	log.Info().Msg("Apply links: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	for _, jobs := range result.Jobs {
		switch {
		case jobs.Err != nil:
			fmt.Printf("%s\n  Failed to fetch jobs: %v\n", jobs.Role, jobs.Err)
		case len(jobs.Links) == 0:
			fmt.Printf("No jobs found for: %s\n", jobs.Role)
		default:
			fmt.Println(jobs.Role)
			for _, link := range jobs.Links {
				fmt.Printf("  - %s\n    %s\n", helper.Truncate(link.Title, 80), link.URL)
			}
		}
	}
}
