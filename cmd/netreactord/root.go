/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "NETREACTOR"

var (
	cfgFile  string
	logLevel string
	vpr      = viper.New()
	log      = logrus.StandardLogger()
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "netreactord",
		Short: "Single-threaded readiness-driven TCP reactor daemon",
		Long: "netreactord runs the netreactor reactor as a standalone process, " +
			"serving either a trivial echo pipeline or an RFC 5424 syslog pipeline.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml); overrides flags when keys overlap")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logrus level: trace, debug, info, warn, error")

	root.AddCommand(newServeCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func initConfig() error {
	vpr.SetEnvPrefix(envPrefix)
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vpr.AutomaticEnv()

	if cfgFile != "" {
		vpr.SetConfigFile(cfgFile)
		if err := vpr.ReadInConfig(); err != nil {
			return err
		}
	}

	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	return nil
}
