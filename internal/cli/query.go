package cli

import (
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pgdesk/pgdesk/internal/domain"
)

func newQueryCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run SQL against the active connection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlText := strings.Join(args, " ")

			var result domain.QueryResult
			if err := client.do(http.MethodPost, "/api/query",
				map[string]string{"sql": sqlText}, &result); err != nil {
				return err
			}

			if len(result.Columns) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", result.RowCount)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join(result.Columns, "\t"))
			for _, row := range result.Rows {
				cells := make([]string, len(row))
				for i, v := range row {
					if v == nil {
						cells[i] = "NULL"
						continue
					}
					cells[i] = fmt.Sprintf("%v", v)
				}
				fmt.Fprintln(w, strings.Join(cells, "\t"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "(%d rows)\n", result.RowCount)
			return nil
		},
	}
}
