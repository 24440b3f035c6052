// Command netquery-ask asks a running netquery server a question about a company network.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/netquery/internal/transport/api"
	"github.com/kailas-cloud/netquery/internal/version"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "netquery-ask",
		Usage:     "Ask who in a company's LinkedIn network can help",
		UsageText: `netquery-ask --company "Acme Corp" [--crm --user ID] "who knows fintech CTOs?"`,
		Version:   version.String(),
		Writer:    out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "netquery base URL",
				Value:   "http://localhost:3000",
				EnvVars: []string{"NETQUERY_URL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Bearer API key",
				EnvVars: []string{"NETQUERY_API_KEY"},
			},
			&cli.StringFlag{
				Name:     "company",
				Aliases:  []string{"c"},
				Usage:    "Company whose network is searched",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "requester",
				Usage: "Requester ID recorded in the audit log",
			},
			&cli.BoolFlag{
				Name:  "crm",
				Usage: "Use the CRM integration endpoint and print its envelope",
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "External CRM user ID (required with --crm)",
			},
			&cli.StringFlag{
				Name:  "org",
				Usage: "External CRM organization ID",
			},
			&cli.StringFlag{
				Name:  "record",
				Usage: "External CRM record ID",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the raw JSON response",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: 30 * time.Second,
			},
		},
		Action: askCommand,
	}
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	cl := newClient(c.String("server"), c.String("api-key"), c.Duration("timeout"))

	if c.Bool("crm") {
		if c.String("user") == "" {
			return fmt.Errorf("--user is required with --crm")
		}
		resp, raw, err := cl.crmQuery(c.Context, api.CRMQueryRequest{
			Query:            question,
			CompanyName:      c.String("company"),
			ExternalUserID:   c.String("user"),
			ExternalOrgID:    c.String("org"),
			ExternalRecordID: c.String("record"),
		})
		if err != nil {
			return err
		}
		if c.Bool("json") {
			return printRaw(c.App.Writer, raw)
		}
		printEnvelope(c.App.Writer, resp)
		return nil
	}

	resp, raw, err := cl.query(c.Context, api.QueryRequest{
		Query:       question,
		CompanyName: c.String("company"),
		RequesterID: c.String("requester"),
	})
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printRaw(c.App.Writer, raw)
	}
	printAnswer(c.App.Writer, resp)
	return nil
}
