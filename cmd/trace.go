package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sarchlab/jbodsim/datarecording"
	"github.com/sarchlab/jbodsim/tracing"
)

var (
	traceTable  string
	traceWhere  string
	traceOrder  string
	traceLimit  int
	traceOffset int
)

var traceCmd = &cobra.Command{
	Use:   "trace <db.sqlite3>",
	Short: "List the rows of a database recorded with --trace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listTrace(cmd.Context(), cmd.OutOrStdout(), args[0], traceTable,
			datarecording.QueryParams{
				Where:   traceWhere,
				OrderBy: traceOrder,
				Limit:   traceLimit,
				Offset:  traceOffset,
			})
	},
}

func listTrace(
	ctx context.Context,
	out io.Writer,
	path, table string,
	params datarecording.QueryParams,
) error {
	if !slices.Contains(tracing.Tables, table) {
		return fmt.Errorf("unknown table %q, want one of %v",
			table, tracing.Tables)
	}

	reader, err := tracing.OpenTrace(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	rows, total, err := reader.Query(ctx, table, params)
	if err != nil {
		return err
	}

	for _, row := range rows {
		fmt.Fprintln(out, row)
	}

	fmt.Fprintf(out, "%d of %d rows\n", len(rows), total)

	return nil
}

func init() {
	traceCmd.Flags().StringVar(&traceTable, "table", tracing.OpTable,
		"table to list: jbod_op, mdadm_transfer or mdadm_session")
	traceCmd.Flags().StringVar(&traceWhere, "where", "",
		"SQL condition on the rows, such as \"Status != 'no error'\"")
	traceCmd.Flags().StringVar(&traceOrder, "order", "Seq",
		"SQL sort clause")
	traceCmd.Flags().IntVar(&traceLimit, "limit", 0,
		"maximum number of rows, 0 for all")
	traceCmd.Flags().IntVar(&traceOffset, "offset", 0,
		"rows to skip, used with --limit")
	rootCmd.AddCommand(traceCmd)
}
