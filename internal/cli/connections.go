package cli

import (
	"fmt"
	"net/http"
	"os"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pgdesk/pgdesk/internal/domain"
)

func newConnectionsCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connections",
		Aliases: []string{"conn"},
		Short:   "Manage registered connections",
	}
	cmd.AddCommand(
		newConnectionsListCmd(client),
		newConnectionsAddCmd(client),
		newConnectionsActivateCmd(client),
		newConnectionsRemoveCmd(client),
	)
	return cmd
}

func newConnectionsListCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var conns []domain.Connection
			if err := client.do(http.MethodGet, "/api/connections", nil, &conns); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tHOST\tDATABASE\tACTIVE")
			for _, c := range conns {
				active := ""
				if c.IsActive {
					active = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s:%d\t%s\t%s\n", c.ID, c.Name, c.Host, c.Port, c.Database, active)
			}
			return w.Flush()
		},
	}
}

func newConnectionsAddCmd(client *apiClient) *cobra.Command {
	var (
		host     string
		port     int
		database string
		username string
		secure   bool
		activate bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a connection (prompts for the password)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}

			payload := map[string]interface{}{
				"name":     args[0],
				"host":     host,
				"port":     port,
				"database": database,
				"username": username,
				"password": password,
				"secure":   secure,
			}

			path := "/api/connections"
			if activate {
				path = "/api/setup/save-connection"
			}
			var created domain.Connection
			if err := client.do(http.MethodPost, path, payload, &created); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered connection %q (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host-name", "localhost", "database host")
	cmd.Flags().IntVar(&port, "port", 5432, "database port")
	cmd.Flags().StringVar(&database, "database", "", "database name")
	cmd.Flags().StringVar(&username, "username", "", "database user")
	cmd.Flags().BoolVar(&secure, "secure", false, "require TLS (sslmode=require)")
	cmd.Flags().BoolVar(&activate, "activate", false, "activate after saving")
	_ = cmd.MarkFlagRequired("database")
	return cmd
}

func newConnectionsActivateCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Make a connection the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var activated domain.Connection
			if err := client.do(http.MethodPost, "/api/connections/"+args[0]+"/activate", nil, &activated); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connection %q is now active\n", activated.Name)
			return nil
		},
	}
}

func newConnectionsRemoveCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a registered connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.do(http.MethodDelete, "/api/connections/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Connection removed")
			return nil
		},
	}
}

// promptPassword reads the password without echo when stdin is a terminal,
// and falls back to a plain line read otherwise (pipes, CI).
func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	var password string
	if _, err := fmt.Fscanln(os.Stdin, &password); err != nil {
		return "", err
	}
	return password, nil
}
