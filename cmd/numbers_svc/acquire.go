// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/numbersmith/number-inventory-service/cmd/service"
	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
)

func newAcquireCmd(a *app) *cobra.Command {
	var (
		country    string
		numberType string
	)

	cmd := &cobra.Command{
		Use:   "acquire <number>...",
		Short: "Purchase one or more numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.AcquisitionRequest{Country: strings.ToUpper(country)}
			if numberType != "" {
				t, ok := model.ParseNumberType(numberType)
				if !ok {
					return errors.NewValidation(fmt.Sprintf("unknown number type %q", numberType))
				}
				req.Type = t
			}
			for _, n := range args {
				req.Candidates = append(req.Candidates, model.Candidate{PhoneNumber: strings.TrimSpace(n)})
			}

			deps, err := service.NewDependencies(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer deps.Close(cmd.Context())

			batch, err := deps.Acquisition.Acquire(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := printBatch(cmd.OutOrStdout(), batch); err != nil {
				return err
			}
			if batch.Acquired() == 0 {
				return fmt.Errorf("no number was acquired")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "country recorded in the inventory")
	cmd.Flags().StringVar(&numberType, "type", "", "number type recorded in the inventory")
	return cmd
}

// printBatch renders one line per outcome followed by the totals
func printBatch(w io.Writer, batch *model.AcquisitionBatch) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tSTATUS\tDETAIL")
	for _, o := range batch.Outcomes {
		detail := o.ExternalID
		if o.Status == model.AcquisitionStatusFailed {
			detail = o.Reason
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", o.PhoneNumber, o.Status, detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "batch %s: %d acquired, %d failed\n", batch.ID, batch.Acquired(), batch.Failed())
	return err
}
