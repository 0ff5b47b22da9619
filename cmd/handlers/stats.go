package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"newslens/internal/config"
	"newslens/internal/core"
)

// pressCounter is implemented by stores that can count articles per press.
type pressCounter interface {
	GetStats(ctx context.Context) ([]core.PressCount, error)
}

// NewStatsCmd creates the article database statistics command
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show stored article counts per press",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository(config.Get().Database)
			if err != nil {
				return err
			}
			defer func() { _ = repo.Close() }()

			counter, ok := repo.(pressCounter)
			if !ok {
				return fmt.Errorf("statistics are only available for the sqlite store")
			}
			counts, err := counter.GetStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get stats: %w", err)
			}

			total := 0
			w := cmd.OutOrStdout()
			for _, pc := range counts {
				fmt.Fprintf(w, "%-20s %d\n", pc.Press, pc.Count)
				total += pc.Count
			}
			fmt.Fprintf(w, "%-20s %d\n", "total", total)
			return nil
		},
	}
}
