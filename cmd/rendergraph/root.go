package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nical/rendergraph/session"
	"github.com/spf13/cobra"
)

var (
	sessionPath    string
	remoteKey      string
	remoteConfig   string
	traceEndpoint  string
	tracerShutdown func()
)

// exitError carries the exit code spec.md §6's CLI contract assigns
// to a failure: 1 for a parse/validation problem, 2 for an I/O or
// remote-store failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func failValidation(err error) error { return &exitError{code: 1, err: err} }
func failIO(err error) error         { return &exitError{code: 2, err: err} }

var rootCmd = &cobra.Command{
	Use:   "rendergraph",
	Short: "Edit and build render-task graphs from the command line",
	Long: `rendergraph loads a session file, lets you add nodes and roots to its
graph by name, runs the four-stage builder pipeline against it, and can
dump the result as an SVG diagram.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if traceEndpoint == "" {
			return nil
		}
		shutdown, err := setupTracing(traceEndpoint)
		if err != nil {
			return failIO(fmt.Errorf("configuring tracing: %w", err))
		}
		tracerShutdown = shutdown
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if tracerShutdown != nil {
			tracerShutdown()
		}
		return nil
	},
}

// Execute runs the root command and exits the process with the exit
// code spec.md §6 assigns to the failure, if any.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "rendergraph:", ee.err)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "rendergraph:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "rendergraph.toml", "path to the session file")
	rootCmd.PersistentFlags().StringVar(&remoteKey, "remote", "", "object key to read/write the session from instead of --session")
	rootCmd.PersistentFlags().StringVar(&remoteConfig, "remote-config", "", "path to the remote store config file (defaults to ./rendergraph.yaml)")
	rootCmd.PersistentFlags().StringVar(&traceEndpoint, "trace-endpoint", "", "OTLP/HTTP endpoint to export build traces to; tracing stays a no-op if left empty")
}

// loadSession loads the session from --remote if set, otherwise from
// --session.
func loadSession() (*session.Session, error) {
	if remoteKey != "" {
		store, err := remoteStore()
		if err != nil {
			return nil, failIO(err)
		}
		data, err := store.Get(context.Background(), remoteKey)
		if err != nil {
			return nil, failIO(fmt.Errorf("fetching session %q from remote store: %w", remoteKey, err))
		}
		s, err := session.Parse(data)
		if err != nil {
			return nil, failValidation(err)
		}
		return s, nil
	}

	data, err := os.ReadFile(sessionPath)
	if err != nil {
		return nil, failIO(fmt.Errorf("session: reading %s: %w", sessionPath, err))
	}
	s, err := session.Parse(data)
	if err != nil {
		return nil, failValidation(err)
	}
	return s, nil
}

// saveSession writes the session to --remote if set, otherwise to
// --session.
func saveSession(s *session.Session) error {
	if remoteKey != "" {
		store, err := remoteStore()
		if err != nil {
			return failIO(err)
		}
		data, err := s.Encode()
		if err != nil {
			return failValidation(err)
		}
		if err := store.Put(context.Background(), remoteKey, data); err != nil {
			return failIO(fmt.Errorf("writing session %q to remote store: %w", remoteKey, err))
		}
		return nil
	}

	if err := s.Save(sessionPath); err != nil {
		return failIO(err)
	}
	return nil
}

func remoteStore() (session.RemoteStore, error) {
	cfg, err := session.LoadRemoteConfig(remoteConfig)
	if err != nil {
		return nil, err
	}
	store, err := session.NewCOSStore(session.COSConfig{
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		SecretID:  cfg.SecretID,
		SecretKey: cfg.SecretKey,
		Domain:    cfg.Domain,
		Scheme:    cfg.Scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("building remote store: %w", err)
	}
	return store, nil
}
