package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/polaron/polaron/internal/booking"
	"github.com/polaron/polaron/internal/money"
)

var depositFlags booking.AddOns

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Print the booking deposit for a set of add-ons",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeDeposit(cmd.OutOrStdout(), depositFlags)
	},
}

func init() {
	depositCmd.Flags().BoolVar(&depositFlags.Enclosed, "enclosed", false, "Enclosed transport")
	depositCmd.Flags().BoolVar(&depositFlags.Expedited, "expedited", false, "Expedited delivery")
	depositCmd.Flags().BoolVar(&depositFlags.ExtraInsurance, "insurance", false, "Extra insurance coverage")
	depositCmd.Flags().BoolVar(&depositFlags.TopLoad, "top-load", false, "Top load priority")
}

func writeDeposit(w io.Writer, a booking.AddOns) error {
	labels := "no add-ons"
	if l := a.Labels(); len(l) > 0 {
		labels = strings.Join(l, ", ")
	}
	_, err := fmt.Fprintf(w, "Deposit %s (×%.1f, %s)\n", money.USD(booking.Deposit(a)), a.Multiplier(), labels)
	return err
}
