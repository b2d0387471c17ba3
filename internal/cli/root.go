// Package cli wires the command surface around the client core. It owns
// flag/env configuration and output formatting; all call semantics live
// in the internal packages it delegates to.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/searchads/searchads/internal/auth"
	"github.com/searchads/searchads/internal/client"
	"github.com/searchads/searchads/internal/logging"
	"github.com/searchads/searchads/internal/registry"
	"github.com/searchads/searchads/internal/value"
)

const defaultEndpoint = "https://googleads.googleapis.com"

// New builds the root command over an already loaded descriptor pool.
// Every flag has a GOOGLE_ADS_* environment fallback via viper.
func New(pool *registry.Pool) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "searchads",
		Short:         "Google Ads API CLI (gRPC, dynamic)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.Bool("pretty", false, "pretty-print JSON output")
	pf.Bool("jsonl", false, "emit JSON lines for streaming responses")
	pf.Bool("raw", false, "return raw response payloads")
	pf.String("developer-token", "", "developer token (env: GOOGLE_ADS_DEVELOPER_TOKEN)")
	pf.String("access-token", "", "access token (env: GOOGLE_ADS_ACCESS_TOKEN)")
	pf.String("client-id", "", "OAuth client id (env: GOOGLE_ADS_CLIENT_ID)")
	pf.String("client-secret", "", "OAuth client secret (env: GOOGLE_ADS_CLIENT_SECRET)")
	pf.String("refresh-token", "", "OAuth refresh token (env: GOOGLE_ADS_REFRESH_TOKEN)")
	pf.String("login-customer-id", "", "manager account id (env: GOOGLE_ADS_LOGIN_CUSTOMER_ID)")
	pf.String("endpoint", defaultEndpoint, "API endpoint (env: GOOGLE_ADS_ENDPOINT)")
	pf.Uint64("timeout", 0, "request timeout in seconds")
	pf.Bool("debug", false, "enable debug logging")

	// Bind whatever command actually runs, so subcommand-local flags get
	// the same env fallback as the persistent ones.
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		v.SetEnvPrefix("GOOGLE_ADS")
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
		return v.BindPFlags(cmd.Flags())
	}

	root.AddCommand(
		newListCmd(pool),
		newDescribeCmd(pool),
		newTreeCmd(pool),
		newGaqlCmd(pool, v),
		newMutateCmd(pool, v),
		newRawCmd(pool, v),
	)
	return root
}

// callConfig is the resolved configuration for one networked command.
type callConfig struct {
	endpoint        string
	developerToken  string
	loginCustomerID string
	timeout         time.Duration
	pretty          bool
	jsonl           bool
	raw             bool
	auth            auth.Config
}

func loadCallConfig(v *viper.Viper) (callConfig, error) {
	cfg := callConfig{
		endpoint:        v.GetString("endpoint"),
		developerToken:  v.GetString("developer-token"),
		loginCustomerID: auth.NormalizeCustomerID(v.GetString("login-customer-id")),
		timeout:         time.Duration(v.GetUint64("timeout")) * time.Second,
		pretty:          v.GetBool("pretty"),
		jsonl:           v.GetBool("jsonl"),
		raw:             v.GetBool("raw"),
		auth: auth.Config{
			AccessToken:  v.GetString("access-token"),
			ClientID:     v.GetString("client-id"),
			ClientSecret: v.GetString("client-secret"),
			RefreshToken: v.GetString("refresh-token"),
		},
	}
	if cfg.endpoint == "" {
		cfg.endpoint = defaultEndpoint
	}
	if cfg.developerToken == "" {
		return callConfig{}, fmt.Errorf("--developer-token or GOOGLE_ADS_DEVELOPER_TOKEN required")
	}
	return cfg, nil
}

// dial resolves configuration and credentials, then connects.
func dial(ctx context.Context, v *viper.Viper) (*client.Client, callConfig, error) {
	cfg, err := loadCallConfig(v)
	if err != nil {
		return nil, callConfig{}, err
	}
	logger := logging.New(v.GetBool("debug"))

	token, err := auth.ResolveAccessToken(ctx, cfg.auth)
	if err != nil {
		return nil, callConfig{}, err
	}

	c, err := client.Connect(ctx, client.Options{
		Endpoint:        cfg.endpoint,
		DeveloperToken:  cfg.developerToken,
		LoginCustomerID: cfg.loginCustomerID,
		AccessToken:     token,
		Timeout:         cfg.timeout,
	}, logger)
	if err != nil {
		return nil, callConfig{}, err
	}
	return c, cfg, nil
}

func customerID(v *viper.Viper) (string, error) {
	id := v.GetString("customer-id")
	if id == "" {
		return "", fmt.Errorf("--customer-id or GOOGLE_ADS_CUSTOMER_ID required")
	}
	return auth.NormalizeCustomerID(id), nil
}

func printValue(w io.Writer, val value.Value, pretty bool) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printStruct(w io.Writer, val any) error {
	data, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
