// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	json "github.com/goccy/go-json"

	"github.com/opengeos/go-ee-catalog-server/catalog"
	"github.com/opengeos/go-ee-catalog-server/common"
	"github.com/opengeos/go-ee-catalog-server/middleware"
	"github.com/opengeos/go-ee-catalog-server/router"
	"github.com/opengeos/go-ee-catalog-server/store"
)

var cfgFile string

// default catalog feed locations; override with CATALOG_OFFICIAL_URL and
// CATALOG_COMMUNITY_URL
const (
	defaultOfficialURL  = "https://raw.githubusercontent.com/samapriya/Earth-Engine-Datasets-List/master/gee_catalog.json"
	defaultCommunityURL = "https://raw.githubusercontent.com/samapriya/awesome-gee-community-datasets/master/community_datasets.json"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "go-ee-catalog-server",
	Short: "Serve the Earth Engine dataset catalog and tile endpoint proxy",
	Long: `go-ee-catalog-server merges the official and community Earth Engine dataset
catalogs into a searchable API and delegates tile, inspect, export, and
time-series operations to a user-configured analysis endpoint`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		common.SetupLogging()
		log.Info().Msg("initialized logging")

		// load the catalog feeds early so we fail fast if either feed is
		// unreachable or unparseable
		if err := store.GetInstance().Load(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to load dataset catalog feeds")
		}
		log.Info().Msg("successfully loaded dataset catalog")

		// Create new Fiber instance
		app := fiber.New(fiber.Config{
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				// handlers shape their own error envelopes; only errors that
				// reach here without a written body get the generic one
				if len(c.Response().Body()) > 0 {
					return nil
				}
				c.Status(fiber.StatusInternalServerError)
				return c.JSON(catalog.Message{
					Code:        catalog.ServerError,
					Description: err.Error(),
				})
			},
		})

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			err := app.ShutdownWithTimeout(time.Second * 5)
			if err != nil {
				log.Fatal().Err(err).Msg("app shutdown failed")
			}
		}()

		// Configure CORS
		app.Use(cors.New(cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "Accept, Accept-Encoding, Accept-Language, Authorization, Cache-Control, Content-Type, Origin, X-Requested-With",
			AllowMethods: "GET,POST,HEAD,OPTIONS",
		}))

		// configure caching
		app.Use(cache.New(cache.Config{
			Next: func(c *fiber.Ctx) bool {
				return c.Query("refresh") == "true" || c.Method() != fiber.MethodGet
			},
			Expiration:   30 * time.Minute,
			CacheControl: true,
		}))

		// compression
		app.Use(compress.New(compress.Config{
			Level: compress.LevelBestSpeed, // 1
		}))

		// Setup logging middleware
		app.Use(middleware.NewLogger())

		// Add timing headers
		app.Use(middleware.Timer())

		prometheus := fiberprometheus.New("go-ee-catalog-server")
		prometheus.RegisterAt(app, "/metrics")
		app.Use(prometheus.Middleware)

		// Setup routes
		router.SetupRoutes(app)

		err := app.Listen(":" + viper.GetString("server.port"))
		if err != nil {
			log.Fatal().Err(err).Msg("app.Listen returned an error")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.go-ee-catalog-server.toml)")

	// server flags

	if err := viper.BindEnv("server.port", "PORT"); err != nil {
		log.Panic().Err(err).Msg("could not bind PORT")
	}
	rootCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	if err := viper.BindPFlag("server.port", rootCmd.Flags().Lookup("port")); err != nil {
		log.Panic().Err(err).Msg("could not bind port")
	}

	// Logging configuration
	if err := viper.BindEnv("log.level", "LOG_LEVEL"); err != nil {
		log.Panic().Err(err).Msg("could not bind LOG_LEVEL")
	}
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level")
	if err := viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		log.Panic().Err(err).Msg("could not bind log-level")
	}

	if err := viper.BindEnv("log.report_caller", "LOG_REPORT_CALLER"); err != nil {
		log.Panic().Err(err).Msg("could not bind LOG_REPORT_CALLER")
	}
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	if err := viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller")); err != nil {
		log.Panic().Err(err).Msg("could not bind log-report-caller")
	}

	if err := viper.BindEnv("log.output", "LOG_OUTPUT"); err != nil {
		log.Panic().Err(err).Msg("could not bind LOG_OUTPUT")
	}
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	if err := viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output")); err != nil {
		log.Panic().Err(err).Msg("could not bind log-output")
	}

	// catalog feeds
	if err := viper.BindEnv("catalog.official_url", "CATALOG_OFFICIAL_URL"); err != nil {
		log.Panic().Err(err).Msg("could not bind CATALOG_OFFICIAL_URL")
	}
	rootCmd.PersistentFlags().String("official-catalog", defaultOfficialURL, "URL of the official dataset catalog feed")
	if err := viper.BindPFlag("catalog.official_url", rootCmd.PersistentFlags().Lookup("official-catalog")); err != nil {
		log.Panic().Err(err).Msg("could not bind catalog.official_url")
	}

	if err := viper.BindEnv("catalog.community_url", "CATALOG_COMMUNITY_URL"); err != nil {
		log.Panic().Err(err).Msg("could not bind CATALOG_COMMUNITY_URL")
	}
	rootCmd.PersistentFlags().String("community-catalog", defaultCommunityURL, "URL of the community dataset catalog feed")
	if err := viper.BindPFlag("catalog.community_url", rootCmd.PersistentFlags().Lookup("community-catalog")); err != nil {
		log.Panic().Err(err).Msg("could not bind catalog.community_url")
	}

	// analysis endpoint
	if err := viper.BindEnv("endpoint.url", "EE_ENDPOINT"); err != nil {
		log.Panic().Err(err).Msg("could not bind EE_ENDPOINT")
	}
	rootCmd.PersistentFlags().String("endpoint", "", "Base URL of the analysis endpoint (Hugging Face space URLs are rewritten)")
	if err := viper.BindPFlag("endpoint.url", rootCmd.PersistentFlags().Lookup("endpoint")); err != nil {
		log.Panic().Err(err).Msg("could not bind endpoint.url")
	}

	if err := viper.BindEnv("endpoint.token", "EE_ENDPOINT_TOKEN"); err != nil {
		log.Panic().Err(err).Msg("could not bind EE_ENDPOINT_TOKEN")
	}
	rootCmd.PersistentFlags().String("endpoint-token", "", "Bearer token sent with endpoint requests")
	if err := viper.BindPFlag("endpoint.token", rootCmd.PersistentFlags().Lookup("endpoint-token")); err != nil {
		log.Panic().Err(err).Msg("could not bind endpoint.token")
	}

	if err := viper.BindEnv("endpoint.tile_defaults", "EE_TILE_DEFAULTS"); err != nil {
		log.Panic().Err(err).Msg("could not bind EE_TILE_DEFAULTS")
	}
	rootCmd.PersistentFlags().String("tile-defaults", "", "JSON object of default tile request parameters")
	if err := viper.BindPFlag("endpoint.tile_defaults", rootCmd.PersistentFlags().Lookup("tile-defaults")); err != nil {
		log.Panic().Err(err).Msg("could not bind endpoint.tile_defaults")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name "go-ee-catalog-server.toml"
		viper.AddConfigPath("/etc/")
		viper.AddConfigPath(fmt.Sprintf("%s/.config", home))
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName("go-ee-catalog-server.toml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in. The server runs fine on
	// defaults and environment variables alone.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFile", viper.ConfigFileUsed()).Msg("Loaded config file")
	} else {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Error().Stack().Err(err).Msg("error reading config file")
			os.Exit(1)
		}
	}
}
