package cmd

import (
	"fmt"
	"os"

	"github.com/xxxsen/wordparadise/cmd/wpc/config"
	"github.com/xxxsen/wordparadise/davclient"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
)

const (
	defaultConfigFileEnv = "WPC_CONFIG"
)

var cmds []CreateFunc

type Context struct {
	Cli    davclient.IClient
	Config *config.Config
}

type CreateFunc func(ctx *Context) *cobra.Command

func register(cr CreateFunc) {
	cmds = append(cmds, cr)
}

// remotePath 拼接远端目录下的文件路径
func (c *Context) remotePath(name string) string {
	if len(c.Config.RemoteBasePath) == 0 {
		return name
	}
	if len(name) == 0 {
		return c.Config.RemoteBasePath
	}
	return c.Config.RemoteBasePath + "/" + name
}

func initContext(ctx *Context, cfgs []string) error {
	var c *config.Config
	var err error
	for _, cfg := range cfgs {
		c, err = config.Parse(cfg)
		if err != nil {
			continue
		}
	}
	if err != nil {
		return fmt.Errorf("no valid config file found, last err:%w", err)
	}
	ctx.Config = c
	logger.Init("", c.LogLevel, 0, 0, 0, true)
	cli, err := davclient.New(
		davclient.WithBaseURL(c.BaseURL),
		davclient.WithAuth(c.Username, c.Password),
	)
	if err != nil {
		return err
	}
	ctx.Cli = cli
	return nil
}

func NewRoot() *cobra.Command {
	var configFile string
	ctx := &Context{}
	var rootCmd = &cobra.Command{
		Use:   "wpc",
		Short: "Word paradise backup CLI tool",
	}
	for _, cr := range cmds {
		rootCmd.AddCommand(cr(ctx))
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		envConfigFile, _ := os.LookupEnv(defaultConfigFileEnv)
		return initContext(ctx, []string{configFile, "/etc/wpc/wpc_config.json", "C:/wpc/wpc_config.json", envConfigFile})
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file")
	return rootCmd
}
