package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/datatonic/weatherops/internal/agentspace"
	"github.com/datatonic/weatherops/internal/gcloud"
	"github.com/datatonic/weatherops/internal/pkg/config"
	"github.com/datatonic/weatherops/internal/pkg/genericclioptions"
	"github.com/datatonic/weatherops/internal/pkg/log"
	"github.com/datatonic/weatherops/pkg/utils/json"
	"github.com/datatonic/weatherops/pkg/version"
)

const (
	useCaseName     = "weather-agent-1"
	toolDescription = "This agent provides weather information for a given location."
)

var example = heredoc.Doc(`
	# Link a deployed reasoning engine into the Agentspace app
	asctl --link --resource_id 1234567890123456789

	# List all agents linked into the Agentspace app
	asctl --list

	# Unlink an agent by its directory-assigned ID
	asctl --delete --as_agent_id 9876543210987654321`)

// Options holds the configuration of one asctl invocation, resolved once
// in Complete and passed explicitly to each action.
type Options struct {
	ASProjectID string
	AEProjectID string
	Location    string
	CompanyName string

	List   bool
	Link   bool
	Delete bool

	ResourceID string
	ASAgentID  string

	// Agentspace app identity, environment-only.
	AppID      string
	ASLocation string

	logger      *logrus.Logger
	tokenSource func(context.Context) (oauth2.TokenSource, error)
	genericclioptions.IOStreams
}

// NewOptions returns Options with flag defaults applied.
func NewOptions(streams genericclioptions.IOStreams) *Options {
	return &Options{
		CompanyName: "Datatonic",
		logger:      log.New(streams.ErrOut),
		tokenSource: gcloud.TokenSource,
		IOStreams:   streams,
	}
}

// NewDefaultASCtlCommand creates the `asctl` command bound to the
// process streams.
func NewDefaultASCtlCommand() *cobra.Command {
	return NewASCtlCommand(genericclioptions.IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr})
}

// NewASCtlCommand creates the `asctl` command.
func NewASCtlCommand(streams genericclioptions.IOStreams) *cobra.Command {
	o := NewOptions(streams)

	cmd := &cobra.Command{
		Use:   "asctl",
		Short: "Manage the weather agent's Agentspace directory entries",
		Long: heredoc.Doc(`
			asctl links deployed weather-agent reasoning engines into an
			Agentspace application, lists the linked agents, and unlinks them
			again.

			Project, app and location identifiers come from flags, falling back
			to environment variables (optionally seeded from a local .env file).
			Exactly one of --link, --list or --delete must be chosen per
			invocation.`),
		Example:      example,
		Version:      version.Get(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Complete()
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.ASProjectID, "as_project_id", "", "Agentspace GCP project ID (default: $AS_GOOGLE_CLOUD_PROJECT)")
	flags.StringVar(&o.AEProjectID, "ae_project_id", "", "Agent Engine GCP project ID (default: $GOOGLE_CLOUD_PROJECT)")
	flags.StringVar(&o.Location, "location", "", "GCP location of the reasoning engine (default: $GOOGLE_CLOUD_LOCATION)")
	flags.StringVar(&o.CompanyName, "company_name", o.CompanyName, "Company named in the weather agent description")
	flags.BoolVar(&o.List, "list", false, "List all agents linked into the Agentspace app")
	flags.BoolVar(&o.Link, "link", false, "Link a reasoning engine into the Agentspace app")
	flags.BoolVar(&o.Delete, "delete", false, "Delete an existing Agentspace agent")
	flags.StringVarP(&o.ResourceID, "resource_id", "r", "", "Resource ID of the reasoning engine to link")
	flags.StringVarP(&o.ASAgentID, "as_agent_id", "a", "", "Resource ID of the Agentspace agent to delete")

	return cmd
}

// Complete layers environment configuration under the explicit flags.
func (o *Options) Complete() {
	config.Bootstrap()
	o.ASProjectID = config.Resolve(o.ASProjectID, config.EnvASProject)
	o.AEProjectID = config.Resolve(o.AEProjectID, config.EnvAEProject)
	o.Location = config.Resolve(o.Location, config.EnvAELocation)
	o.AppID = config.Env(config.EnvAgentSpaceAppID)
	o.ASLocation = config.Env(config.EnvAgentSpaceLocation)
}

// Validate enforces the action matrix before any network I/O happens.
func (o *Options) Validate() error {
	modes := 0
	for _, set := range []bool{o.Link, o.List, o.Delete} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		return fmt.Errorf("exactly one of --link, --list or --delete must be set")
	}
	if o.Link && o.ResourceID == "" {
		return fmt.Errorf("--link requires --resource_id")
	}
	if o.Delete && o.ASAgentID == "" {
		return fmt.Errorf("--delete requires --as_agent_id")
	}
	return nil
}

// Run resolves credentials and executes the selected directory action.
func (o *Options) Run(ctx context.Context) error {
	tokens, err := o.tokenSource(ctx)
	if err != nil {
		o.logger.Errorf("Error getting access token: %v", err)
		fmt.Fprintln(o.ErrOut, gcloud.LoginHint)
		return err
	}

	client := agentspace.NewClient(agentspace.Config{
		ProjectID: o.ASProjectID,
		AppID:     o.AppID,
		Location:  o.ASLocation,
	}, tokens, nil)

	switch {
	case o.Link:
		return o.runLink(ctx, client)
	case o.List:
		return o.runList(ctx, client)
	default:
		return o.runDelete(ctx, client)
	}
}

func (o *Options) runLink(ctx context.Context, client *agentspace.Client) error {
	engine := agentspace.ReasoningEngine{
		ProjectID: o.AEProjectID,
		Location:  o.Location,
		EngineID:  o.ResourceID,
	}
	description := fmt.Sprintf("Weather agent that provides weather information for %s.", o.CompanyName)

	result, err := client.Link(ctx, engine, useCaseName, description, toolDescription)
	if err != nil {
		return o.reportFailure("link", err)
	}
	o.printResponse(result.Raw)
	color.New(color.FgGreen).Fprintf(o.Out, "\nSuccessfully created agent: %s\n", result.Agent.Name)
	return nil
}

func (o *Options) runList(ctx context.Context, client *agentspace.Client) error {
	result, err := client.List(ctx)
	if err != nil {
		return o.reportFailure("list", err)
	}
	o.printResponse(result.Raw)

	if len(result.Agents) > 0 {
		table := uitable.New()
		table.MaxColWidth = 80
		table.AddRow("ID", "DISPLAY NAME", "DESCRIPTION")
		for _, agent := range result.Agents {
			table.AddRow(path.Base(agent.Name), agent.DisplayName, agent.Description)
		}
		fmt.Fprintf(o.Out, "\n%s\n", table)
	}
	return nil
}

func (o *Options) runDelete(ctx context.Context, client *agentspace.Client) error {
	result, err := client.Delete(ctx, o.ASAgentID)
	if err != nil {
		return o.reportFailure("delete", err)
	}
	o.printResponse(result.Raw)
	color.New(color.FgGreen).Fprintf(o.Out, "\nSuccessfully deleted agent: %s\n", result.AgentID)
	return nil
}

// reportFailure logs the categorized failure and returns a terse error
// for the non-zero exit. HTTP failures additionally surface the raw
// response body.
func (o *Options) reportFailure(action string, err error) error {
	switch agentspace.Categorize(err) {
	case agentspace.CategoryHTTP:
		var status *agentspace.StatusError
		errors.As(err, &status)
		o.logger.Errorf("HTTP error occurred: %s", status.Status)
		fmt.Fprintf(o.ErrOut, "Response Content: %s\n", status.Body)
	case agentspace.CategoryTimeout:
		o.logger.Errorf("Timeout error occurred: %v", err)
	case agentspace.CategoryConnection:
		o.logger.Errorf("Connection error occurred: %v", err)
	default:
		o.logger.Errorf("An error occurred: %v", err)
	}
	return fmt.Errorf("%s failed", action)
}

func (o *Options) printResponse(raw []byte) {
	fmt.Fprintln(o.Out, "\nAPI Response:")
	fmt.Fprintln(o.Out, json.Pretty(raw))
}
