package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/gitscribe/internal/config"
	"github.com/gitscribe/internal/gitutil"
	"github.com/gitscribe/internal/llm"
	"github.com/gitscribe/internal/logging"
	"github.com/gitscribe/internal/presets"
	"github.com/gitscribe/internal/prompt"
	"github.com/gitscribe/internal/provider"
	"github.com/gitscribe/internal/session"
	"github.com/gitscribe/internal/tokens"
	"github.com/gitscribe/internal/tui"
	"github.com/gitscribe/pkg/models"
)

func main() {
	app := &cli.App{
		Name:  "gitscribe",
		Usage: "generate commit messages for staged changes with an LLM",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			generateCommand(),
			initCommand(),
			listPresetsCommand(),
		},
		DefaultCommand: "generate",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "generate a commit message and review it interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "provider",
				Usage: "override the configured provider (openai, anthropic, ollama)",
			},
			&cli.BoolFlag{
				Name:  "gitmoji",
				Usage: "prefix the message with a fitting emoji",
			},
			&cli.StringFlag{
				Name:    "instructions",
				Aliases: []string{"i"},
				Usage:   "free-text instructions for the generation",
			},
			&cli.StringFlag{
				Name:  "preset",
				Usage: "named instruction preset (see list-presets)",
			},
			&cli.StringFlag{
				Name:  "detail-level",
				Usage: "context verbosity: minimal, standard, or detailed",
				Value: "standard",
			},
			&cli.BoolFlag{
				Name:  "print",
				Usage: "print the first candidate to stdout and exit",
			},
			&cli.BoolFlag{
				Name:  "auto-commit",
				Usage: "commit the first candidate without review",
			},
			&cli.BoolFlag{
				Name:  "no-verify",
				Usage: "skip commit hooks",
			},
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	providerName := c.String("provider")
	if providerName == "" {
		providerName = cfg.General.DefaultProvider
	}
	if err := config.Validate(cfg, providerName); err != nil {
		return err
	}

	pc := cfg.ProviderOptions(providerName)
	backend, err := provider.New(providerName, provider.Options{
		APIKey:  pc.APIKey,
		Model:   pc.Model,
		BaseURL: pc.BaseURL,
	})
	if err != nil {
		return err
	}

	detailLevel, err := prompt.ParseDetailLevel(c.String("detail-level"))
	if err != nil {
		return err
	}

	presetName := cfg.General.InstructionPreset
	if c.IsSet("preset") {
		presetName = c.String("preset")
	}
	if !presets.Valid(presetName) {
		return fmt.Errorf("unknown preset %q (see gitscribe list-presets)", presetName)
	}

	useGitmoji := cfg.General.UseGitmoji
	if c.IsSet("gitmoji") {
		useGitmoji = c.Bool("gitmoji")
	}

	instructions := cfg.General.Instructions
	if c.IsSet("instructions") {
		instructions = c.String("instructions")
	}

	logger := logging.StartSessionLogging(uuid.NewString())
	defer logger.Close()

	repo, err := gitutil.Open(".")
	if err != nil {
		return err
	}

	optimizer, err := tokens.NewOptimizer()
	if err != nil {
		return err
	}

	svc := session.NewService(repo, llm.NewPipeline(backend), optimizer, session.Options{
		UseGitmoji:  useGitmoji,
		Preset:      presetName,
		DetailLevel: detailLevel,
		TokenLimit:  pc.TokenLimit,
		NoVerify:    c.Bool("no-verify"),
	})

	ctx := context.Background()
	seed, err := svc.GenerateMessage(ctx, instructions)
	if err != nil {
		if errors.Is(err, gitutil.ErrNoStagedChanges) {
			return fmt.Errorf("nothing to describe: %w", err)
		}
		return err
	}

	if c.Bool("print") {
		fmt.Println(models.FormatCommitMessage(seed))
		return nil
	}
	if c.Bool("auto-commit") {
		if err := svc.PerformCommit(ctx, seed); err != nil {
			return err
		}
		fmt.Println("Committed:")
		fmt.Println(models.FormatCommitMessage(seed))
		return nil
	}

	commitCtx, err := svc.Context(ctx)
	if err != nil {
		return err
	}
	committed, err := tui.Run(svc, seed, instructions, commitCtx.UserName, commitCtx.UserEmail)
	if err != nil {
		return err
	}
	if committed {
		fmt.Println("Committed.")
	} else {
		fmt.Println("Cancelled, nothing committed.")
	}
	return nil
}

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "write a sample configuration file",
		Action: func(c *cli.Context) error {
			path := c.String("config")
			if err := config.Init(path); err != nil {
				return err
			}
			if path == "" {
				path = config.DefaultPath()
			}
			fmt.Println("Wrote", path)
			return nil
		},
	}
}

func listPresetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "list-presets",
		Usage: "list the available instruction presets",
		Action: func(c *cli.Context) error {
			fmt.Print(presets.ListFormatted())
			return nil
		},
	}
}
