package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/xxxsen/wordparadise/backup"
	"github.com/xxxsen/wordparadise/davclient"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func NewListCmd(c *Context) *cobra.Command {
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "list",
		Short: "List remote backups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunList(ctx, c)
		},
	}
	return subc
}

func listBackups(ctx context.Context, c *Context) ([]*davclient.RemoteEntry, error) {
	ents, err := c.Cli.List(ctx, c.remotePath(""))
	if err != nil {
		return nil, fmt.Errorf("list remote dir failed, err:%w", err)
	}
	rs := make([]*davclient.RemoteEntry, 0, len(ents))
	for _, ent := range ents {
		if ent.IsDir || !backup.MatchBackupName(ent.Name) {
			continue
		}
		rs = append(rs, ent)
	}
	sort.Slice(rs, func(i, j int) bool {
		return rs[i].Name > rs[j].Name
	})
	return rs, nil
}

func onRunList(ctx context.Context, c *Context) error {
	ents, err := listBackups(ctx, c)
	if err != nil {
		return err
	}
	for i, ent := range ents {
		fmt.Printf("%3d %-56s %10s %s\n", i+1, ent.Name, humanize.IBytes(uint64(ent.SizeBytes)), ent.LastModified)
	}
	fmt.Printf("total:%d\n", len(ents))
	return nil
}

func init() {
	register(NewListCmd)
}
