package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/datatonic/weatherops/internal/agentengine"
	"github.com/datatonic/weatherops/internal/gcloud"
	"github.com/datatonic/weatherops/internal/pkg/config"
	"github.com/datatonic/weatherops/internal/pkg/genericclioptions"
	"github.com/datatonic/weatherops/internal/pkg/log"
	"github.com/datatonic/weatherops/pkg/version"
)

// Execution modes of the tester.
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// quitSentinel ends the interactive loop.
const quitSentinel = "quit"

// engineClient is the slice of the Agent Engine client the session
// driver needs. Tests substitute a fake.
type engineClient interface {
	Get(ctx context.Context) (*agentengine.Engine, error)
	CreateSession(ctx context.Context, userID string) (*agentengine.Session, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
	StreamQuery(ctx context.Context, userID, sessionID, message string, fn func(agentengine.Event)) error
}

// Options holds the configuration of one aectl invocation.
type Options struct {
	Mode       string
	ResourceID string
	UserID     string

	logger      *logrus.Logger
	tokenSource func(context.Context) (oauth2.TokenSource, error)
	genericclioptions.IOStreams
}

// NewOptions returns Options with flag defaults applied.
func NewOptions(streams genericclioptions.IOStreams) *Options {
	return &Options{
		Mode:        ModeRemote,
		UserID:      "test_user",
		logger:      log.New(streams.ErrOut),
		tokenSource: gcloud.TokenSource,
		IOStreams:   streams,
	}
}

// NewDefaultAECtlCommand creates the `aectl` command bound to the
// process streams.
func NewDefaultAECtlCommand() *cobra.Command {
	return NewAECtlCommand(genericclioptions.IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr})
}

// NewAECtlCommand creates the `aectl` command.
func NewAECtlCommand(streams genericclioptions.IOStreams) *cobra.Command {
	o := NewOptions(streams)

	cmd := &cobra.Command{
		Use:   "aectl",
		Short: "Open an interactive console session against the weather agent",
		Long: heredoc.Doc(`
			aectl opens an interactive console session for manual testing of the
			weather agent.

			In remote mode it connects to the deployed reasoning engine, creates
			a session for the given user, relays console input as queries and
			prints the streamed response events. The session is deleted when the
			loop ends, however it ends. In local mode the weather agent runs
			in-process against Vertex Gemini without any deployed backend.

			Type 'quit' at the prompt to exit.`),
		Example: heredoc.Doc(`
			# Chat with the deployed reasoning engine
			aectl --mode remote --resource_id 1234567890123456789

			# Run the weather agent in-process, no deployment required
			aectl --mode local`),
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
	flags.StringVarP(&o.Mode, "mode", "m", o.Mode, "Execution mode, remote or local")
	flags.StringVarP(&o.ResourceID, "resource_id", "r", "", "Resource ID of the deployed reasoning engine (remote mode)")
	flags.StringVarP(&o.UserID, "user_id", "u", o.UserID, "User identifier the session is created for")

	return cmd
}

// Complete loads environment configuration.
func (o *Options) Complete() {
	config.Bootstrap()
}

// Validate rejects bad mode/argument combinations before any network
// call.
func (o *Options) Validate() error {
	switch o.Mode {
	case ModeRemote:
		if o.ResourceID == "" {
			return fmt.Errorf("--resource_id must be set when --mode=remote")
		}
	case ModeLocal:
	default:
		return fmt.Errorf("execution mode must be local or remote")
	}
	return nil
}

// Run dispatches to the selected mode.
func (o *Options) Run(ctx context.Context) error {
	if o.Mode == ModeLocal {
		return o.runLocal(ctx)
	}
	return o.runRemote(ctx)
}

func (o *Options) runRemote(ctx context.Context) error {
	tokens, err := o.tokenSource(ctx)
	if err != nil {
		o.logger.Errorf("Error getting access token: %v", err)
		fmt.Fprintln(o.ErrOut, gcloud.LoginHint)
		return err
	}

	client := agentengine.NewClient(agentengine.Config{
		ProjectID:     config.Env(config.EnvAEProject),
		Location:      config.Env(config.EnvAELocation),
		EngineID:      o.ResourceID,
		StagingBucket: agentengine.DefaultStagingBucket,
	}, tokens, nil)

	return o.runSession(ctx, client)
}

// runSession drives one interactive remote session: fetch the engine,
// open a session, relay console queries, and delete the session on every
// exit path.
func (o *Options) runSession(ctx context.Context, client engineClient) error {
	if _, err := client.Get(ctx); err != nil {
		return fmt.Errorf("fetch agent %s: %w", o.ResourceID, err)
	}
	fmt.Fprintf(o.Out, "Found agent with resource ID: %s\n", o.ResourceID)

	session, err := client.CreateSession(ctx, o.UserID)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	fmt.Fprintf(o.Out, "Created session for user ID: %s\n", o.UserID)
	fmt.Fprintf(o.Out, "Session state: %v\n", session.State)

	defer func() {
		// Teardown must survive a cancelled loop context.
		if err := client.DeleteSession(context.WithoutCancel(ctx), o.UserID, session.ID); err != nil {
			o.logger.Errorf("delete session: %v", err)
			return
		}
		fmt.Fprintf(o.Out, "Deleted session for user ID: %s\n", o.UserID)
	}()

	return o.repl(func(input string) error {
		return client.StreamQuery(ctx, o.UserID, session.ID, input, o.printEvent)
	})
}

// repl blocks on console input until the operator types the quit
// sentinel or input is exhausted. Errors from send propagate untouched,
// ending the loop.
func (o *Options) repl(send func(string) error) error {
	fmt.Fprintln(o.Out, "Type 'quit' to exit.")
	scanner := bufio.NewScanner(o.In)
	for {
		fmt.Fprint(o.Out, "Input: ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		if input == quitSentinel {
			break
		}
		if err := send(input); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// printEvent prints the raw event followed by the extracted text
// fragments and tool invocations.
func (o *Options) printEvent(event agentengine.Event) {
	fmt.Fprintln(o.Out, string(event.Raw))
	for _, text := range event.Texts() {
		fmt.Fprintf(o.Out, "Response: %s\n", text)
	}
	for _, call := range event.FunctionCalls() {
		fmt.Fprintf(o.Out, "Called function %s with args %v\n", call.Name, call.Args)
	}
}
