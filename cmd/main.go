/*
Copyright 2025 Nordgeld Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nordgeld/nordgeld"
	"github.com/nordgeld/nordgeld/config"
	"github.com/nordgeld/nordgeld/database"
	"github.com/nordgeld/nordgeld/internal/notification"
)

// Nordgeld represents the CLI application, encapsulating the root Cobra command.
type Nordgeld struct {
	cmd *cobra.Command
}

// nordgeldInstance holds the runtime service instance and its configuration,
// shared by all subcommands.
type nordgeldInstance struct {
	nordgeld *nordgeld.Nordgeld
	cnf      *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the service instance before
// any command runs.
func preRun(app *nordgeldInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("nordgeld.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newNordgeld, err := setupNordgeld(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.nordgeld = newNordgeld
		app.cnf = cnf

		return nil
	}
}

// setupNordgeld connects the data source and builds the service instance.
func setupNordgeld(cfg *config.Configuration) (*nordgeld.Nordgeld, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return &nordgeld.Nordgeld{}, fmt.Errorf("error getting datasource: %v", err)
	}

	newNordgeld, err := nordgeld.NewNordgeld(db)
	if err != nil {
		return &nordgeld.Nordgeld{}, fmt.Errorf("error creating nordgeld: %v", err)
	}
	return newNordgeld, nil
}

// NewCLI creates the command-line interface for the Nordgeld application.
func NewCLI() *Nordgeld {
	var configFile string
	n := &nordgeldInstance{}

	var rootCmd = &cobra.Command{
		Use:   "nordgeld",
		Short: "Banking demo backend",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./nordgeld.json", "Configuration file for nordgeld")

	rootCmd.PersistentPreRunE = preRun(n)

	rootCmd.AddCommand(serverCommands(n))
	rootCmd.AddCommand(workerCommands(n))
	rootCmd.AddCommand(migrateCommands(n))

	return &Nordgeld{cmd: rootCmd}
}

func (w Nordgeld) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
