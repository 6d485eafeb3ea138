package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/searoutes-go/internal/app"
	portQueries "github.com/andrescamacho/searoutes-go/internal/application/port/queries"
)

// NewPortsCommand creates the ports command with subcommands
func NewPortsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "Inspect ports, stock and prices",
		Long: `Inspect the ports of the world.

Examples:
  searoutes ports list
  searoutes ports get <port-id>
  searoutes ports distance Rotterdam Singapore
  searoutes ports rules`,
	}

	cmd.AddCommand(newPortsListCommand())
	cmd.AddCommand(newPortsGetCommand())
	cmd.AddCommand(newPortsDistanceCommand())
	cmd.AddCommand(newPortsRulesCommand())

	return cmd
}

func newPortsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ports with their stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &portQueries.ListPortsQuery{})
				if err != nil {
					return err
				}
				ports := resp.(*portQueries.ListPortsResponse).Ports
				if len(ports) == 0 {
					fmt.Println("No ports. Create them with: searoutes seed")
					return nil
				}

				w := newTable()
				fmt.Fprintln(w, "NAME\tID\tSTOCK")
				fmt.Fprintln(w, "----\t--\t-----")
				for _, p := range ports {
					fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.ID, formatStock(p.Stock))
				}
				return w.Flush()
			})
		},
	}
}

func newPortsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <port-id>",
		Short: "Show one port",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &portQueries.GetPortQuery{PortID: args[0]})
				if err != nil {
					return err
				}
				p := resp.(*portQueries.PortDTO)

				fmt.Printf("%s (%s)\n", p.Name, p.ID)
				fmt.Printf("  Position: %.4f, %.4f\n", p.Lat, p.Lon)

				w := newTable()
				fmt.Fprintln(w, "  COMMODITY\tAMOUNT\tPRICE")
				for _, s := range p.Stock {
					fmt.Fprintf(w, "  %s\t%d\t%d\n", s.Commodity, s.Amount, s.Price)
				}
				return w.Flush()
			})
		},
	}
}

func newPortsDistanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "distance <from> <to>",
		Short: "Distance between two ports in nautical miles",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &portQueries.PortDistanceQuery{From: args[0], To: args[1]})
				if err != nil {
					return err
				}
				d := resp.(*portQueries.PortDistanceResponse)
				fmt.Printf("%s → %s: %.1f nm\n", d.From, d.To, d.Distance)
				return nil
			})
		},
	}
}

func newPortsRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show what each port produces from deliveries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &portQueries.GenerationRulesQuery{})
				if err != nil {
					return err
				}

				w := newTable()
				fmt.Fprintln(w, "PORT\tGENERATES\tREQUIRES\tOUTPUT")
				fmt.Fprintln(w, "----\t---------\t--------\t------")
				for _, r := range resp.(*portQueries.GenerationRulesResponse).Rules {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.Port, r.Generates, formatRequires(r.Requires), r.Output)
				}
				return w.Flush()
			})
		},
	}
}

func formatStock(stock []*portQueries.StockDTO) string {
	parts := make([]string, 0, len(stock))
	for _, s := range stock {
		parts = append(parts, fmt.Sprintf("%s %d@%d", s.Commodity, s.Amount, s.Price))
	}
	return strings.Join(parts, ", ")
}

func formatRequires(requires map[string]int) string {
	names := make([]string, 0, len(requires))
	for name := range requires {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%d %s", requires[name], name))
	}
	return strings.Join(parts, " + ")
}
