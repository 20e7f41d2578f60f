package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/partstash/partstash/internal/utils"
	"github.com/partstash/partstash/pkg/api"
	"github.com/partstash/partstash/pkg/reports"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate compliance reports",
}

var reportECCNCmd = &cobra.Command{
	Use:   "eccn",
	Short: "Request an ECCN determination for a part",
	RunE: func(cmd *cobra.Command, args []string) error {
		mpn, _ := cmd.Flags().GetString("mpn")
		manufacturer, _ := cmd.Flags().GetString("manufacturer")
		if mpn == "" {
			utils.Log.Fatal("Please provide the part number (--mpn flag)")
		}

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}

		// The determination flow is keyed by the opaque token the
		// submission returns.
		poller := &reports.Poller{
			Submit: func(ctx context.Context) (string, error) {
				return client.SubmitECCNReport(ctx, mpn, manufacturer)
			},
			Check: func(ctx context.Context, reportID string) (string, bool, error) {
				return client.ReportStatus(ctx, reportID, api.ReportTypeECCN)
			},
			MaxAttempts: reports.ECCNMaxAttempts,
			Log:         utils.Log,
		}
		return runReport(cmd, poller)
	},
}

var reportLicenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Request a licensing lookup for an ECCN and destination country",
	RunE: func(cmd *cobra.Command, args []string) error {
		eccn, _ := cmd.Flags().GetString("eccn")
		country, _ := cmd.Flags().GetString("country")
		if eccn == "" || country == "" {
			utils.Log.Fatal("Please provide --eccn and --country")
		}

		client, _, err := newAPIClient()
		if err != nil {
			return err
		}

		// The licensing flow is keyed by an id derived from its inputs.
		poller := &reports.Poller{
			Submit: func(ctx context.Context) (string, error) {
				return client.SubmitLicensingReport(ctx, eccn, country)
			},
			Check: func(ctx context.Context, reportID string) (string, bool, error) {
				return client.ReportStatus(ctx, reportID, api.ReportTypeLicensing)
			},
			MaxAttempts: reports.LicensingMaxAttempts,
			Log:         utils.Log,
		}
		return runReport(cmd, poller)
	},
}

func runReport(cmd *cobra.Command, poller *reports.Poller) error {
	asHTML, _ := cmd.Flags().GetBool("html")
	timeoutFlag, _ := cmd.Flags().GetInt("interval")
	if timeoutFlag > 0 {
		poller.Interval = time.Duration(timeoutFlag) * time.Second
	}

	fmt.Println("Report requested, waiting for generation...")
	body, err := poller.Run(cmd.Context())
	if err != nil {
		if errors.Is(err, reports.ErrTimedOut) {
			return fmt.Errorf("report generation timed out, try again later")
		}
		return err
	}

	if asHTML {
		fmt.Println(reports.RenderHTML(body))
	} else {
		fmt.Println(reports.RenderText(body))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportECCNCmd)
	reportCmd.AddCommand(reportLicenseCmd)

	reportCmd.PersistentFlags().BoolP("html", "", false, "Print the report as HTML instead of terminal text")
	reportCmd.PersistentFlags().IntP("interval", "", 0, "Override the poll interval in seconds (default 5)")

	reportECCNCmd.Flags().StringP("mpn", "m", "", "Manufacturer part number")
	reportECCNCmd.Flags().StringP("manufacturer", "", "", "Manufacturer name")

	reportLicenseCmd.Flags().StringP("eccn", "e", "", "Export Control Classification Number")
	reportLicenseCmd.Flags().StringP("country", "c", "", "Destination country")
}
