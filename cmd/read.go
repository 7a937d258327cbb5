package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	app "palm-bot/internal/application"
	"palm-bot/internal/domain/entity"
	"palm-bot/internal/infrastructure/palmistry"
)

type readOptions struct {
	info entity.UserInfo
	seed uint64
	date string
}

func readCmd() *cobra.Command {
	var opts readOptions

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Print a palm reading for the given details as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printReading(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.info.Name, "name", "", "full name")
	f.StringVar(&opts.info.Age, "age", "", "age in years")
	f.StringVar(&opts.info.DOB, "dob", "", "date of birth")
	f.StringVar(&opts.info.Country, "country", "", "country")
	f.StringVar(&opts.info.City, "city", "", "city")
	f.StringVar(&opts.info.Religion, "religion", "", "religion (optional)")
	f.StringVar((*string)(&opts.info.Gender), "gender", "", "male, female or other")
	f.StringVar(&opts.info.Phone, "phone", "", "phone number (optional)")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed, 0 picks one")
	f.StringVar(&opts.date, "date", "", "reading date YYYY-MM-DD, default today")

	return cmd
}

func printReading(w io.Writer, opts readOptions) error {
	if err := app.ValidateRequired(opts.info); err != nil {
		return errors.New(entity.UserMessage(err))
	}

	now := time.Now()
	if opts.date != "" {
		d, err := time.Parse(time.DateOnly, opts.date)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		now = d
	}

	seed := opts.seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	reading := palmistry.Generate(opts.info, now, rand.New(rand.NewPCG(seed, seed)))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reading)
}
