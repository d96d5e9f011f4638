package main

import (
	"context"

	"github.com/spf13/cobra"
)

func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:   "horoscope",
		Short: "Fetch daily horoscope predictions from the Prokerala API",
	}
	root.AddCommand(dailyCmd())
	return root.ExecuteContext(ctx)
}
