package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

func NewTestCmd(c *Context) *cobra.Command {
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "test",
		Short: "Test webdav connection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunTest(ctx, c)
		},
	}
	return subc
}

func onRunTest(ctx context.Context, c *Context) error {
	start := time.Now()
	ents, err := c.Cli.List(ctx, c.remotePath(""))
	if err != nil {
		return fmt.Errorf("test connection failed, err:%w", err)
	}
	logutil.GetLogger(ctx).Info("test connection succ",
		zap.Int("entry_count", len(ents)), zap.Duration("cost", time.Since(start)))
	return nil
}

func init() {
	register(NewTestCmd)
}
