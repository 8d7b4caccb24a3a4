package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/piivault/cmd/app/commands"
	"github.com/allisson/piivault/internal/app"
	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	"github.com/allisson/piivault/internal/config"
)

func getVaultCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-secret",
			Usage: "Generate a new master secret, optionally sealed with a KMS key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "gocloud.dev secrets URI (base64key://, gcpkms://, awskms://, azurekeyvault://, hashivault://)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateMasterSecret(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "process-deletions",
			Usage: "Process one batch of pending deletion requests and exit",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "actor",
					Aliases: []string{"a"},
					Value:   auditDomain.SystemActor,
					Usage:   "Actor recorded in the audit trail",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.DeletionUseCase()
				if err != nil {
					return fmt.Errorf("failed to initialize deletion use case: %w", err)
				}

				return commands.RunProcessDeletions(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("actor"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "verify-audit-events",
			Usage: "Verify audit event signatures within a time range",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "start-date",
					Aliases: []string{"s"},
					Usage:   "Start date (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS), open when omitted",
				},
				&cli.StringFlag{
					Name:    "end-date",
					Aliases: []string{"e"},
					Usage:   "End date (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS), open when omitted",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.AuditUseCase()
				if err != nil {
					return fmt.Errorf("failed to initialize audit use case: %w", err)
				}

				return commands.RunVerifyAuditEvents(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("start-date"),
					cmd.String("end-date"),
					cmd.String("format"),
				)
			},
		},
	}
}
