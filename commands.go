package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sonnenglas/dhl-parcel-de-sdk/internal/manifest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var createCmd = &cobra.Command{
	Use:   "create <manifest>",
	Short: "Create the shipments listed in a YAML or JSON manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <shipment-number>...",
	Short: "Cancel shipments that have not been manifested yet",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() {
	createCmd.Flags().StringP("out", "o", ".", "directory the labels are written to")
	createCmd.Flags().Bool("validate", false, "only validate the shipments, do not create them")
	deleteCmd.Flags().Int("concurrency", 0, "parallel deletions (default DELETE_CONCURRENCY)")

	rootCmd.AddCommand(createCmd, deleteCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	outDir, _ := cmd.Flags().GetString("out")
	validateOnly, _ := cmd.Flags().GetBool("validate")

	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	shipments, err := m.Build()
	if err != nil {
		return err
	}

	app, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.close(ctx)

	opts := m.ServiceOptions(app.serviceOptions())
	opts.ValidateOnly = validateOnly
	svc := app.client.ShipmentService(opts)

	resp, err := svc.CreateShipment(ctx, shipments...)
	if err != nil {
		if body := svc.LastErrorResponse(); body != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), body)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d)\n", resp.StatusTitle, resp.StatusCode)
	for _, item := range resp.Items {
		line := item.ShipmentNo
		if len(item.Label) > 0 {
			path := labelPath(outDir, item.ShipmentNo, item.LabelFormat)
			if err := os.WriteFile(path, item.Label, 0o644); err != nil {
				return fmt.Errorf("writing label of %s: %w", item.ShipmentNo, err)
			}
			line += "\t" + path
		} else if item.LabelURL != "" {
			line += "\t" + item.LabelURL
		}
		fmt.Fprintln(out, line)

		for _, msg := range item.ValidationMessages {
			fmt.Fprintf(out, "  %s %s: %s\n", msg.State, msg.Property, msg.Message)
		}
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.close(ctx)

	limit, _ := cmd.Flags().GetInt("concurrency")
	if limit < 1 {
		limit = app.cfg.DeleteConcurrency
	}

	deleted := make([]bool, len(args))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, number := range args {
		g.Go(func() error {
			// ShipmentService keeps per-call state, so each deletion gets its own.
			svc := app.client.ShipmentService(app.serviceOptions())
			deleted[i] = svc.DeleteShipment(gctx, number)
			if !deleted[i] {
				app.logger.Warn("Shipment not deleted",
					zap.String("shipment_no", number),
					zap.String("carrier_response", svc.LastErrorResponse()),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed []string
	out := cmd.OutOrStdout()
	for i, number := range args {
		status := "deleted"
		if !deleted[i] {
			status = "not deleted"
			failed = append(failed, number)
		}
		fmt.Fprintf(out, "%s\t%s\n", number, status)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d shipment(s) not deleted: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

// labelPath returns the file a label is written to. The shipment number
// comes from the carrier and is reduced to a base name inside outDir.
func labelPath(outDir, shipmentNo, fileFormat string) string {
	return filepath.Join(outDir, filepath.Base(shipmentNo)+labelExtension(fileFormat))
}

func labelExtension(fileFormat string) string {
	switch fileFormat {
	case "PDF":
		return ".pdf"
	case "ZPL2":
		return ".zpl"
	default:
		return ".bin"
	}
}
