package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xxxsen/wordparadise/backup"
	"github.com/xxxsen/wordparadise/davclient"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type delArgs struct {
	name string
	yes  bool
}

func NewDelCmd(c *Context) *cobra.Command {
	args := &delArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "del",
		Short: "Delete a remote backup",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunDel(ctx, c, args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.name, "name", "n", "", "backup file name")
	subc.PersistentFlags().BoolVarP(&args.yes, "yes", "y", false, "skip confirmation")
	return subc
}

func onRunDel(ctx context.Context, c *Context, args *delArgs) error {
	if len(args.name) == 0 {
		return fmt.Errorf("no backup name found")
	}
	if !backup.MatchBackupName(args.name) {
		return fmt.Errorf("not a backup file, name:%s", args.name)
	}
	if !args.yes {
		return fmt.Errorf("delete is irreversible, rerun with --yes to confirm")
	}
	if err := c.Cli.Remove(ctx, c.remotePath(args.name)); err != nil {
		if !davclient.IsStatus(err, http.StatusNotFound) {
			return fmt.Errorf("delete backup failed, name:%s, err:%w", args.name, err)
		}
		logutil.GetLogger(ctx).Warn("backup already gone", zap.String("name", args.name))
		return nil
	}
	logutil.GetLogger(ctx).Info("delete backup succ", zap.String("name", args.name))
	return nil
}

func init() {
	register(NewDelCmd)
}
