package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/clauselens/clauselens/internal/progress"
	"github.com/clauselens/clauselens/internal/upload"
)

var uploadRecursive bool

var uploadCmd = &cobra.Command{
	Use:   "upload [path...]",
	Short: "Upload documents for analysis from the command line",
	Long: `Validates and uploads one or more documents to the analysis backend.
With --recursive, directories are walked and every matching document
(per the include/exclude globs in the config) is uploaded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		client, err := buildClient(cmd.Context(), cfg, database)
		if err != nil {
			return err
		}
		if client.Token() == "" {
			return fmt.Errorf("no stored session; run `clauselens login` first")
		}

		var paths []string
		finder := upload.NewFinder(cfg.Include, cfg.Exclude)
		for _, arg := range args {
			info, err := os.Stat(arg)
			if err != nil {
				return fmt.Errorf("checking %s: %w", arg, err)
			}
			if info.IsDir() {
				if !uploadRecursive {
					return fmt.Errorf("%s is a directory; use --recursive to upload its documents", arg)
				}
				found, err := finder.Find(arg)
				if err != nil {
					return fmt.Errorf("scanning %s: %w", arg, err)
				}
				paths = append(paths, found...)
			} else {
				paths = append(paths, arg)
			}
		}
		if len(paths) == 0 {
			return fmt.Errorf("no matching documents found")
		}

		validator := upload.NewValidator(cfg.Upload.MaxSizeMB, cfg.Upload.WarnScans)
		reporter := progress.NewReporter()
		reporter.Start(len(paths))

		var failed int
		for i, path := range paths {
			reporter.Update(i, filepath.Base(path))

			file, err := os.Open(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "\n%s: %v\n", path, err)
				failed++
				continue
			}

			res, err := validator.Validate(filepath.Base(path), file)
			if err != nil {
				file.Close()
				fmt.Fprintf(os.Stderr, "\n%s: %v\n", path, err)
				failed++
				continue
			}
			if res.ScannedWarning {
				fmt.Fprintf(os.Stderr, "\n%s: looks like a scanned PDF; analysis quality may suffer\n", path)
			}

			if _, err := file.Seek(0, 0); err != nil {
				file.Close()
				fmt.Fprintf(os.Stderr, "\n%s: %v\n", path, err)
				failed++
				continue
			}
			log.Debugf("upload: sending %s (%d pages)", path, res.PageCount)
			analysis, err := client.Analyze(cmd.Context(), filepath.Base(path), file)
			file.Close()
			if err != nil {
				fmt.Fprintf(os.Stderr, "\n%s: %v\n", path, err)
				failed++
				continue
			}
			reporter.Update(i+1, fmt.Sprintf("%s (analysis %d)", filepath.Base(path), analysis.ID))
		}
		reporter.Finish()

		fmt.Printf("Uploaded %d of %d documents.\n", len(paths)-failed, len(paths))
		if failed > 0 {
			return fmt.Errorf("%d uploads failed", failed)
		}
		return nil
	},
}

func init() {
	uploadCmd.Flags().BoolVarP(&uploadRecursive, "recursive", "r", false, "walk directories for matching documents")
	rootCmd.AddCommand(uploadCmd)
}
