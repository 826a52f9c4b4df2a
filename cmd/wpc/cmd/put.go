package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xxxsen/wordparadise/backup"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type putArgs struct {
	file string
}

func NewPutCmd(c *Context) *cobra.Command {
	args := &putArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "put",
		Short: "Upload a local progress export as a new backup",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunPut(ctx, c, args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.file, "file", "f", "", "local progress json file")
	return subc
}

func onRunPut(ctx context.Context, c *Context, args *putArgs) error {
	if len(args.file) == 0 {
		return fmt.Errorf("no upload file found")
	}
	raw, err := os.ReadFile(args.file)
	if err != nil {
		return fmt.Errorf("read file failed, file:%s, err:%w", args.file, err)
	}
	// 上传前先校验内容, 避免把非进度文件推到远端
	if _, err := backup.DecodePayload(raw); err != nil {
		return fmt.Errorf("not a valid progress file, file:%s, err:%w", args.file, err)
	}
	if err := c.Cli.EnsureDir(ctx, c.Config.RemoteBasePath); err != nil {
		return fmt.Errorf("ensure remote dir failed, err:%w", err)
	}
	name := backup.BuildBackupName(time.Now())
	start := time.Now()
	if err := c.Cli.Upload(ctx, c.remotePath(name), raw, "application/json"); err != nil {
		return fmt.Errorf("upload backup failed, name:%s, err:%w", name, err)
	}
	logutil.GetLogger(ctx).Info("upload backup succ", zap.String("name", name),
		zap.String("size", humanize.IBytes(uint64(len(raw)))), zap.Duration("cost", time.Since(start)))
	return nil
}

func init() {
	register(NewPutCmd)
}
