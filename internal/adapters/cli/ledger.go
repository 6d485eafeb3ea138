package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/searoutes-go/internal/app"
	"github.com/andrescamacho/searoutes-go/internal/application/ledger/queries"
)

// NewLedgerCommand creates the ledger command with subcommands
func NewLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Financial ledger operations",
		Long: `View the coin movements of a player.

Every debit and credit (vessel purchases, cargo trades, refuels, repairs,
tows and refunds) is recorded with the balance before and after.

Examples:
  searoutes ledger list --player <player-id>
  searoutes ledger list --category TRADING_REVENUE --limit 20
  searoutes ledger list --start-date 2026-01-15 --end-date 2026-01-22`,
	}

	cmd.AddCommand(newLedgerListCommand())

	return cmd
}

func newLedgerListCommand() *cobra.Command {
	var (
		startDate string
		endDate   string
		category  string
		txType    string
		vesselID  string
		limit     int
		offset    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long: `List transactions with optional filtering, newest first.

Categories:
  FLEET_INVESTMENTS  - Vessel purchases
  TRADING_COSTS      - Cargo purchases
  TRADING_REVENUE    - Cargo sales
  FUEL_COSTS         - Refuels
  MAINTENANCE_COSTS  - Repairs and tows
  ADJUSTMENTS        - Refunds of reversed debits`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePlayerID()
			if err != nil {
				return err
			}

			query := &queries.GetTransactionsQuery{PlayerID: id, Limit: limit, Offset: offset}
			if startDate != "" {
				parsed, err := time.Parse("2006-01-02", startDate)
				if err != nil {
					return fmt.Errorf("invalid start date format: %w", err)
				}
				query.StartDate = &parsed
			}
			if endDate != "" {
				parsed, err := time.Parse("2006-01-02", endDate)
				if err != nil {
					return fmt.Errorf("invalid end date format: %w", err)
				}
				// Set to end of day
				endOfDay := parsed.Add(24*time.Hour - time.Second)
				query.EndDate = &endOfDay
			}
			if category != "" {
				query.Category = &category
			}
			if txType != "" {
				query.TransactionType = &txType
			}
			if vesselID != "" {
				query.VesselID = &vesselID
			}

			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, query)
				if err != nil {
					return fmt.Errorf("failed to query transactions: %w", err)
				}
				displayTransactionList(resp.(*queries.GetTransactionsResponse))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&startDate, "start-date", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&txType, "type", "", "Filter by transaction type")
	cmd.Flags().StringVar(&vesselID, "vessel", "", "Filter by vessel ID")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of transactions to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of transactions to skip")

	return cmd
}

func displayTransactionList(resp *queries.GetTransactionsResponse) {
	if len(resp.Transactions) == 0 {
		fmt.Println("No transactions found.")
		return
	}

	w := newTable()
	fmt.Fprintln(w, "TIMESTAMP\tTYPE\tAMOUNT\tBALANCE\tDESCRIPTION")
	fmt.Fprintln(w, "---------\t----\t------\t-------\t-----------")
	for _, tx := range resp.Transactions {
		fmt.Fprintf(w, "%s\t%s\t%+d\t%d\t%s\n",
			tx.Timestamp.Format("2006-01-02 15:04:05"),
			tx.Type,
			tx.Amount,
			tx.BalanceAfter,
			tx.Description,
		)
	}
	w.Flush()

	fmt.Printf("\nShowing %d of %d transactions\n", len(resp.Transactions), resp.Total)
}
