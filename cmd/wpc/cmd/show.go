package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/xxxsen/wordparadise/backup"

	"github.com/spf13/cobra"
)

type showArgs struct {
	name string
	out  string
}

func NewShowCmd(c *Context) *cobra.Command {
	args := &showArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "show",
		Short: "Download a backup and show its summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunShow(ctx, c, args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.name, "name", "n", "", "backup file name, default latest")
	subc.PersistentFlags().StringVarP(&args.out, "out", "o", "", "also save raw payload to local file")
	return subc
}

func resolveBackupName(ctx context.Context, c *Context, name string) (string, error) {
	if len(name) > 0 {
		if !backup.MatchBackupName(name) {
			return "", fmt.Errorf("not a backup file, name:%s", name)
		}
		return name, nil
	}
	ents, err := listBackups(ctx, c)
	if err != nil {
		return "", err
	}
	if len(ents) == 0 {
		return "", fmt.Errorf("no backup found on remote")
	}
	return ents[0].Name, nil
}

func onRunShow(ctx context.Context, c *Context, args *showArgs) error {
	name, err := resolveBackupName(ctx, c, args.name)
	if err != nil {
		return err
	}
	raw, err := c.Cli.Download(ctx, c.remotePath(name))
	if err != nil {
		return fmt.Errorf("download backup failed, name:%s, err:%w", name, err)
	}
	payload, err := backup.DecodePayload(raw)
	if err != nil {
		return fmt.Errorf("parse backup failed, name:%s, err:%w", name, err)
	}
	fmt.Printf("name:%s\n", name)
	fmt.Printf("synced_at:%s\n", payload.SyncedAt)
	fmt.Printf("mistake_book_synced:%v, words:%d\n", payload.Options.MistakeBookSynced, len(payload.MistakeBook))
	fmt.Printf("user_words_synced:%v, words:%d\n", payload.Options.UserWordsSynced, len(payload.UserWords))
	if len(args.out) > 0 {
		if err := os.WriteFile(args.out, raw, 0644); err != nil {
			return fmt.Errorf("save payload failed, file:%s, err:%w", args.out, err)
		}
		fmt.Printf("saved:%s\n", args.out)
	}
	return nil
}

func init() {
	register(NewShowCmd)
}
