// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/go-arcade/activation/internal/bootstrap"
	"github.com/go-arcade/activation/pkg/version"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "activation",
		Short: "tenant invitation activation service",
		Long:  "activation hosts the invitation API and the activation console API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.AddCommand(
		newServeCmd(),
		newResolveCmd(),
		newGraphCmd(),
		version.VersionCmd,
	)
	return rootCmd
}

func newServeCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bootstrap 初始化应用
			app, cleanup, err := bootstrap.Bootstrap(configFile, initApp)
			if err != nil {
				return err
			}

			// 启动应用并等待退出信号
			bootstrap.Run(app, cleanup)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "conf file path, e.g. --conf ./conf.d/config.toml")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
