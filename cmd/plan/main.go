package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"tripcanvas/cmd/fx/catalog_fx"
	"tripcanvas/cmd/fx/config_fx"
	"tripcanvas/cmd/fx/geo_fx"
	"tripcanvas/cmd/fx/logger_fx"
	"tripcanvas/cmd/fx/plan_fx"
	"tripcanvas/cmd/fx/prompt_fx"
	"tripcanvas/internal/config"
	"tripcanvas/internal/models/request_models"
	"tripcanvas/internal/services"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tripcanvas",
		Short:         "TripCanvas itinerary planner",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newPlanCmd(), newImportPlacesCmd())
	return root
}

type planFlags struct {
	req    request_models.ItineraryRequest
	policy string
	schema string
	report bool
}

func newPlanCmd() *cobra.Command {
	var f planFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate one geocoded itinerary and print it as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPlan(ctx, cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.req.Destination, "destination", "", "trip destination")
	flags.StringVar(&f.req.StartDate, "start", "", "start date (YYYY-MM-DD)")
	flags.StringVar(&f.req.EndDate, "end", "", "end date (YYYY-MM-DD)")
	flags.IntVar(&f.req.Days, "days", 0, "trip length in days when no dates are given")
	flags.Int64Var(&f.req.Budget, "budget", 0, "total budget")
	flags.IntVar(&f.req.People, "people", 1, "party size")
	flags.StringVar(&f.req.Interests, "interests", "", "comma-separated interests")
	flags.StringVar(&f.policy, "policy", "", "override VALIDATION_POLICY (strict|permissive)")
	flags.StringVar(&f.schema, "schema", "", "override ITINERARY_SCHEMA (simple|rich)")
	flags.BoolVar(&f.report, "report", false, "print the validation report with the itinerary")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("budget")

	return cmd
}

func runPlan(ctx context.Context, cmd *cobra.Command, f planFlags) error {
	if _, err := f.req.Validate(); err != nil {
		return err
	}

	var planService services.PlanServiceInterface
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		prompt_fx.Module,
		geo_fx.Module,
		plan_fx.Module,
		fx.Decorate(func(cfg *config.Config) (*config.Config, error) {
			return overrideConfig(cfg, f.policy, f.schema)
		}),
		fx.NopLogger,
		fx.Populate(&planService),
	)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(context.Background()) }()

	result, err := planService.GeneratePlan(ctx, f.req)
	if err != nil {
		return err
	}

	var out any = result.Itinerary
	if f.report {
		out = result
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write itinerary: %w", err)
	}
	if len(result.Itinerary.Days) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no days survived validation")
	}
	return nil
}

func overrideConfig(cfg *config.Config, policy, schema string) (*config.Config, error) {
	out := *cfg
	if policy != "" {
		out.Geo.Policy = config.ValidationPolicy(policy)
	}
	if schema != "" {
		out.Generator.Schema = config.SchemaVersion(schema)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func newImportPlacesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import-places",
		Short: "Load a CSV place export into the mongo place catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runImportPlaces(ctx, cmd, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "CSV file with contentid,title,cat,addr,area,detail_addr,x,y columns")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImportPlaces(ctx context.Context, cmd *cobra.Command, file string) error {
	in, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open place file: %w", err)
	}
	defer in.Close()

	var importer services.PlaceImportServiceInterface
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		catalog_fx.Module,
		fx.NopLogger,
		fx.Populate(&importer),
	)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(context.Background()) }()

	report, err := importer.Import(ctx, in)
	if report != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows, %d inserted, %d updated, %d skipped\n",
			file, report.Rows, report.Inserted, report.Updated, report.Skipped)
	}
	return err
}
