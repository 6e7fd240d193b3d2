// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/numbersmith/number-inventory-service/cmd/service"
	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/internal/export"
	"github.com/numbersmith/number-inventory-service/internal/usecase"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
)

type searchFlags struct {
	country      string
	numberType   string
	capabilities []string
	pattern      string
	locality     string
	areaCodes    []string
	output       string
	format       string
	buy          bool
}

func newSearchCmd(a *app) *cobra.Command {
	f := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the provider for available numbers",
		Example: `  numbers_svc search --country US --type local --pattern 555
  numbers_svc search --country US --type local --locality CA --format json -o ca.json
  numbers_svc search --country GB --type mobile --capabilities sms --buy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, a, f)
		},
	}

	cmd.Flags().StringVar(&f.country, "country", "US", "ISO 3166-1 alpha-2 country code")
	cmd.Flags().StringVar(&f.numberType, "type", "local", "number type: local, mobile or tollfree")
	cmd.Flags().StringSliceVar(&f.capabilities, "capabilities", nil, "required capabilities (voice, sms, mms)")
	cmd.Flags().StringVar(&f.pattern, "pattern", "", "digits the number must contain, '*' matches any digit")
	cmd.Flags().StringVar(&f.locality, "locality", "", "locality or region code (e.g. CA expands to its area codes)")
	cmd.Flags().StringSliceVar(&f.areaCodes, "area-codes", nil, "area codes to search one after another")
	cmd.Flags().StringVarP(&f.output, "output", "o", "-", "output file, '-' for stdout")
	cmd.Flags().StringVar(&f.format, "format", "csv", "output format: csv or json")
	cmd.Flags().BoolVar(&f.buy, "buy", false, "acquire every number found")
	return cmd
}

func runSearch(cmd *cobra.Command, a *app, f *searchFlags) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}
	req, err := f.request()
	if err != nil {
		return err
	}

	deps, err := service.NewDependencies(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer deps.Close(ctx)

	progress := usecase.ProgressFunc(func(total, batches int) {
		fmt.Fprintf(stderr, "\rfound %d numbers in %d batches", total, batches)
	})

	result, err := deps.Search.Search(ctx, req, progress)
	fmt.Fprintln(stderr)
	if err != nil {
		var failed *usecase.SearchFailed
		if stderrors.As(err, &failed) && len(failed.Partial) > 0 {
			fmt.Fprintf(stderr, "search failed, writing %d numbers found before the failure\n", len(failed.Partial))
			if errWrite := writeCandidates(cmd.OutOrStdout(), f.output, format, failed.Partial); errWrite != nil {
				return stderrors.Join(err, errWrite)
			}
		}
		return err
	}

	fmt.Fprintf(stderr, "%d numbers, stopped: %s, %s\n", len(result.Candidates), result.StopReason, result.Duration.Round(time.Millisecond))
	if err := writeCandidates(cmd.OutOrStdout(), f.output, format, result.Candidates); err != nil {
		return err
	}

	if !f.buy || len(result.Candidates) == 0 {
		return nil
	}
	batch, err := deps.Acquisition.Acquire(ctx, model.AcquisitionRequest{
		Candidates: result.Candidates,
		Country:    req.Criteria.Country,
		Type:       req.Criteria.Type,
	})
	if err != nil {
		return err
	}
	return printBatch(stderr, batch)
}

func (f *searchFlags) request() (model.SearchRequest, error) {
	numberType, ok := model.ParseNumberType(f.numberType)
	if !ok {
		return model.SearchRequest{}, errors.NewValidation(fmt.Sprintf("unknown number type %q", f.numberType))
	}

	var caps model.Capabilities
	for _, name := range f.capabilities {
		flag, ok := model.ParseCapability(name)
		if !ok {
			return model.SearchRequest{}, errors.NewValidation(fmt.Sprintf("unknown capability %q", name))
		}
		caps = caps.With(flag)
	}

	areaCodes := make([]string, 0, len(f.areaCodes))
	for _, code := range f.areaCodes {
		if code = strings.TrimSpace(code); code != "" {
			areaCodes = append(areaCodes, code)
		}
	}

	return model.SearchRequest{
		Criteria: model.SearchCriteria{
			Country:      f.country,
			Type:         numberType,
			Capabilities: caps,
			Pattern:      f.pattern,
			Locality:     f.locality,
		},
		SubKeys: areaCodes,
	}, nil
}

// writeCandidates writes to stdout when path is "-" or empty, otherwise to the file
func writeCandidates(stdout io.Writer, path string, format export.Format, candidates []model.Candidate) error {
	if path == "" || path == "-" {
		return export.Write(stdout, format, candidates)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := export.Write(file, format, candidates); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
