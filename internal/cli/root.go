// Package cli implements the pgdesk command-line client. Commands talk to
// a running server over its JSON API.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	client := &apiClient{
		http: &http.Client{Timeout: 30 * time.Second},
	}

	rootCmd := &cobra.Command{
		Use:           "pgdesk",
		Short:         "PostgreSQL console CLI",
		Long:          "Command-line client for the pgdesk server API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("PGDESK_HOST"); v != "" {
					client.host = v
				}
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&client.host, "host", "http://localhost:8080", "server base URL")

	rootCmd.AddCommand(
		newConnectionsCmd(client),
		newQueryCmd(client),
		newActivityCmd(client),
	)
	return rootCmd
}

// apiClient is a thin JSON client for the server API.
type apiClient struct {
	host string
	http *http.Client
}

// do performs a JSON request and decodes the response into out (when
// non-nil). Non-2xx responses surface the server's message field.
func (c *apiClient) do(method, path string, body interface{}, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, c.host+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s (HTTP %d)", apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
