package cli

import (
	"fmt"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pgdesk/pgdesk/internal/domain"
)

func newActivityCmd(client *apiClient) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity <connection-id>",
		Short: "Show the newest audit entries for a connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/connections/%s/activity?limit=%d", args[0], limit)

			var entries []domain.ActivityEntry
			if err := client.do(http.MethodGet, path, nil, &entries); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tOPERATION\tSTATUS\tDETAILS")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					e.CreatedAt.Format(time.RFC3339), e.Operation, e.Status, e.Details)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", domain.DefaultActivityLimit, "number of entries")
	return cmd
}
