package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"posterforge/internal/config"
	"posterforge/internal/extract"
	"posterforge/internal/model"
	"posterforge/internal/pipeline"
	"posterforge/internal/poster"
	"posterforge/internal/render"
	"posterforge/internal/server"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "posterforge",
		Short: "Turn a document and a style prompt into a structured academic poster",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	}
	return cfg, nil
}

func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	key := poster.MergeByTitle
	if cfg.MergeKeyName() == "title-content" {
		key = poster.MergeByTitleContent
	}
	return pipeline.New(pipeline.WithMergeKey(key))
}

func newGenerator(ctx context.Context, cfg *config.Config) (model.Generator, error) {
	return model.NewGenerator(ctx, model.GeneratorOptions{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
	})
}

var generateCmd = func() *cobra.Command {
	var stylePrompt, outPath, htmlPath string

	cmd := &cobra.Command{
		Use:   "generate <source-file>",
		Short: "Generate a poster document from a source text or markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			source, err := extract.ReadSource(args[0])
			if err != nil {
				return err
			}
			source = extract.Truncate(source, extract.DefaultCharBudget)

			gen, err := newGenerator(ctx, cfg)
			if err != nil {
				return err
			}

			logrus.WithField("provider", cfg.AI.Provider).Info("requesting poster from model")
			raw, err := gen.GeneratePoster(ctx, source, stylePrompt)
			if err != nil {
				return fmt.Errorf("model call failed: %w", err)
			}

			doc, err := newPipeline(cfg).Parse(raw)
			if err != nil {
				var perr *pipeline.ParseError
				if errors.As(err, &perr) {
					return errors.New(perr.UserMessage())
				}
				return err
			}

			if err := poster.SaveDocument(outPath, doc); err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"out": outPath, "sections": len(doc.Sections)}).Info("poster written")

			if htmlPath != "" {
				return writeHTML(doc, htmlPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&stylePrompt, "style", "s", "", "Free-form style guidance for the model")
	cmd.Flags().StringVarP(&outPath, "out", "o", "poster.json", "Where to write the poster document")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Also write an HTML preview to this path")
	return cmd
}()

var parseCmd = func() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "parse <reply-file>",
		Short: "Run the ingestion pipeline over a saved model reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			doc, err := newPipeline(cfg).Parse(string(raw))
			if err != nil {
				return err
			}
			return poster.SaveDocument(outPath, doc)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "poster.json", "Where to write the poster document")
	return cmd
}()

var previewCmd = func() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "preview <poster.json>",
		Short: "Render a poster document to a standalone HTML page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := poster.LoadDocument(args[0])
			if err != nil {
				return err
			}
			return writeHTML(doc, outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "poster.html", "Where to write the HTML preview")
	return cmd
}()

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the poster generation API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gen, err := newGenerator(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		srv := server.New(gen, newPipeline(cfg), logrus.StandardLogger())
		logrus.WithField("addr", cfg.Server.Addr).Info("serving poster API")
		return srv.Router().Run(cfg.Server.Addr)
	},
}

func writeHTML(doc *poster.Document, path string) error {
	page, err := render.HTML(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return err
	}
	logrus.WithField("out", path).Info("HTML preview written")
	return nil
}
