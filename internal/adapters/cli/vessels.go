package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/searoutes-go/internal/app"
	"github.com/andrescamacho/searoutes-go/internal/application/common"
	appVessel "github.com/andrescamacho/searoutes-go/internal/application/vessel"
	vesselCommands "github.com/andrescamacho/searoutes-go/internal/application/vessel/commands"
	vesselQueries "github.com/andrescamacho/searoutes-go/internal/application/vessel/queries"
)

// NewVesselsCommand creates the vessels command with subcommands
func NewVesselsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vessels",
		Short: "Inspect and operate vessels",
		Long: `Inspect a player's fleet and run vessel operations directly
against the database, bypassing the HTTP API.

Examples:
  searoutes vessels list --player <player-id>
  searoutes vessels show <vessel-id>
  searoutes vessels price --type tanker
  searoutes vessels buy --type cargo --name "Sea Lark"
  searoutes vessels preview <vessel-id> <port-id>
  searoutes vessels send <vessel-id> <port-id>
  searoutes vessels load <vessel-id> oil 50
  searoutes vessels unload <vessel-id>
  searoutes vessels tow <vessel-id> materials
  searoutes vessels upgrade <vessel-id>`,
	}

	cmd.AddCommand(newVesselsListCommand())
	cmd.AddCommand(newVesselsShowCommand())
	cmd.AddCommand(newVesselsPriceCommand())
	cmd.AddCommand(newVesselsBuyCommand())
	cmd.AddCommand(newVesselsPreviewCommand())
	cmd.AddCommand(newVesselOperation("send <vessel-id> <port-id>", "Send a docked vessel to another port", cobra.ExactArgs(2),
		func(args []string) (common.Request, error) {
			return &vesselCommands.SendVesselCommand{VesselID: args[0], DestinationPortID: args[1]}, nil
		}))
	cmd.AddCommand(newVesselOperation("load <vessel-id> <commodity> <amount>", "Buy cargo at the current port", cobra.ExactArgs(3),
		func(args []string) (common.Request, error) {
			amount, err := parseAmount(args[2])
			if err != nil {
				return nil, err
			}
			return &vesselCommands.LoadCargoCommand{VesselID: args[0], Commodity: args[1], Amount: amount}, nil
		}))
	cmd.AddCommand(newVesselOperation("unload <vessel-id>", "Sell the cargo at the current port", cobra.ExactArgs(1),
		func(args []string) (common.Request, error) {
			return &vesselCommands.UnloadCargoCommand{VesselID: args[0]}, nil
		}))
	cmd.AddCommand(newVesselOperation("refuel <vessel-id> [amount]", "Buy fuel, a full tank when amount is omitted", cobra.RangeArgs(1, 2),
		func(args []string) (common.Request, error) {
			c := &vesselCommands.RefuelVesselCommand{VesselID: args[0]}
			if len(args) > 1 {
				amount, err := parseAmount(args[1])
				if err != nil {
					return nil, err
				}
				c.Amount = amount
			}
			return c, nil
		}))
	cmd.AddCommand(newVesselOperation("repair <vessel-id> [amount]", "Repair hull, fully when amount is omitted", cobra.RangeArgs(1, 2),
		func(args []string) (common.Request, error) {
			c := &vesselCommands.RepairVesselCommand{VesselID: args[0]}
			if len(args) > 1 {
				amount, err := parseAmount(args[1])
				if err != nil {
					return nil, err
				}
				c.Amount = &amount
			}
			return c, nil
		}))
	cmd.AddCommand(newVesselOperation("tow <vessel-id> [fuel|materials]", "Tow a vessel to the fuel port, or to the materials port for repairs", cobra.RangeArgs(1, 2),
		func(args []string) (common.Request, error) {
			target := ""
			if len(args) == 2 {
				target = args[1]
			}
			t, err := appVessel.ParseTowTarget(target)
			if err != nil {
				return nil, err
			}
			return &vesselCommands.TowVesselCommand{VesselID: args[0], Target: t}, nil
		}))
	cmd.AddCommand(newVesselOperation("upgrade <vessel-id>", "Train the crew one level up", cobra.ExactArgs(1),
		func(args []string) (common.Request, error) {
			return &vesselCommands.UpgradeVesselCommand{VesselID: args[0]}, nil
		}))

	return cmd
}

func newVesselsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List a player's fleet",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePlayerID()
			if err != nil {
				return err
			}

			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &vesselQueries.ListVesselsQuery{PlayerID: id})
				if err != nil {
					return err
				}
				vessels := resp.(*vesselQueries.ListVesselsResponse).Vessels
				if len(vessels) == 0 {
					fmt.Println("No vessels. Buy one with: searoutes vessels buy --type cargo")
					return nil
				}

				w := newTable()
				fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tFUEL\tHEALTH\tCARGO")
				fmt.Fprintln(w, "--\t----\t----\t------\t----\t------\t-----")
				for _, v := range vessels {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%d/%d\t%s\n",
						v.ID, v.Name, v.Type, vesselStatus(v),
						v.Fuel, v.MaxFuel, v.Health, v.MaxHealth, formatCargo(v.Cargo))
				}
				return w.Flush()
			})
		},
	}
}

func newVesselsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <vessel-id>",
		Short: "Show one vessel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &vesselQueries.GetVesselQuery{VesselID: args[0]})
				if err != nil {
					return err
				}
				fmt.Println(prettyPrint(resp))
				return nil
			})
		},
	}
}

func newVesselsPriceCommand() *cobra.Command {
	var vesselType string

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Quote the next vessel of a type",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePlayerID()
			if err != nil {
				return err
			}

			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &vesselQueries.VesselPriceQuery{PlayerID: id, VesselType: vesselType})
				if err != nil {
					return err
				}
				q := resp.(*vesselQueries.VesselPriceResponse)
				fmt.Printf("%s: %d coins (base %d, %d owned)\n", q.Type, q.Price, q.BasePrice, q.Owned)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&vesselType, "type", "", "Vessel type (required)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newVesselsBuyCommand() *cobra.Command {
	var (
		vesselType string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Buy a vessel for the player",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePlayerID()
			if err != nil {
				return err
			}

			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &vesselCommands.PurchaseVesselCommand{PlayerID: id, VesselType: vesselType, Name: name})
				if err != nil {
					return err
				}
				fmt.Println(prettyPrint(resp))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&vesselType, "type", "", "Vessel type (required)")
	cmd.Flags().StringVar(&name, "name", "", "Vessel name (generated when empty)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newVesselsPreviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <vessel-id> <port-id>",
		Short: "Quote a voyage without starting it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, &vesselQueries.TripPreviewQuery{VesselID: args[0], DestinationPortID: args[1]})
				if err != nil {
					return err
				}
				p := resp.(*vesselQueries.TripPreviewResponse)
				fmt.Printf("Distance:   %.1f nm\n", p.Distance)
				fmt.Printf("Fuel:       %d of %d\n", p.FuelCost, p.CurrentFuel)
				fmt.Printf("Affordable: %t\n", p.CanAfford)
				fmt.Printf("Arrival:    %s (%ds)\n", p.EstimatedArrival.Format("2006-01-02 15:04:05"), p.TravelTimeSeconds)
				return nil
			})
		},
	}
}

// newVesselOperation builds a subcommand that sends one vessel command and
// prints the result
func newVesselOperation(use, short string, accept cobra.PositionalArgs, build func(args []string) (common.Request, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  accept,
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := build(args)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) error {
				resp, err := a.Mediator.Send(ctx, request)
				if err != nil {
					return err
				}
				fmt.Println(prettyPrint(resp))
				return nil
			})
		},
	}
}

func vesselStatus(v *vesselQueries.VesselDTO) string {
	if v.IsTraveling {
		return "→ " + v.DestinationPortID
	}
	return "docked " + v.CurrentPortID
}

func formatCargo(c *vesselQueries.CargoDTO) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%d %s", c.Amount, c.Commodity)
}

func parseAmount(raw string) (int, error) {
	amount, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}
