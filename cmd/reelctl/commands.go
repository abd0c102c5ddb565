// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/reelrank/internal/artifact"
	"github.com/tomtom215/reelrank/internal/logging"
	"github.com/tomtom215/reelrank/internal/recommend"
	"github.com/tomtom215/reelrank/internal/recommend/storage"
	"github.com/tomtom215/reelrank/internal/store"
)

const defaultArtifactName = "similarity"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reelctl",
		Short:         "Maintain reelrank catalogs and user data",
		SilenceUsage:  true,
	}
	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		level, _ := cmd.Flags().GetString("log-level") //nolint:errcheck // flag is registered above
		logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
	}

	root.AddCommand(
		newVersionCmd(),
		newImportCmd(),
		newFetchCmd(),
		newInspectCmd(),
		newValuesCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reelctl %s (%s)\n", version, commit)
		},
	}
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Build a catalog snapshot from movies.json and similarity.json",
		RunE:  runImport,
	}
	cmd.Flags().String("movies", "movies.json", `Movie list: [{"movie_id": 1, "title": "..."}]`)
	cmd.Flags().String("matrix", "similarity.json", "Square similarity matrix in movie order")
	addSnapshotFlags(cmd)
	cmd.Flags().Int("version", 0, "Snapshot version (0 = next)")
	return cmd
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a catalog snapshot and verify it",
		RunE:  runFetch,
	}
	cmd.Flags().String("url", "", "Snapshot URL")
	cmd.Flags().Duration("timeout", 2*time.Minute, "Per attempt timeout")
	cmd.Flags().Int("retries", 3, "Download attempts")
	addSnapshotFlags(cmd)
	_ = cmd.MarkFlagRequired("url") //nolint:errcheck // flag is registered above
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print snapshot metadata as YAML",
		Long:  "Print the metadata of one snapshot file, or of every snapshot in --dir when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInspect,
	}
	cmd.Flags().String("dir", "./data/catalog", "Snapshot directory")
	return cmd
}

func newValuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "values <username>",
		Short: "Print a user's liked titles and value table as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  runValues,
	}
	cmd.Flags().String("store-path", "./data/store", "Badger store directory")
	return cmd
}

func addSnapshotFlags(cmd *cobra.Command) {
	cmd.Flags().String("dir", "./data/catalog", "Snapshot directory")
	cmd.Flags().String("name", defaultArtifactName, "Snapshot name")
}

func runImport(cmd *cobra.Command, _ []string) error {
	moviesPath, _ := cmd.Flags().GetString("movies") //nolint:errcheck
	matrixPath, _ := cmd.Flags().GetString("matrix") //nolint:errcheck
	dir, _ := cmd.Flags().GetString("dir")           //nolint:errcheck
	name, _ := cmd.Flags().GetString("name")         //nolint:errcheck
	ver, _ := cmd.Flags().GetInt("version")          //nolint:errcheck

	a, err := artifact.Import(cmd.Context(), moviesPath, matrixPath)
	if err != nil {
		return err
	}
	snapshots, err := storage.NewStore(dir)
	if err != nil {
		return err
	}
	meta, err := snapshots.Save(cmd.Context(), name, ver, a, storage.Metadata{
		Source:  moviesPath,
		BuiltAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return writeYAML(cmd.OutOrStdout(), meta)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	url, _ := cmd.Flags().GetString("url")           //nolint:errcheck
	timeout, _ := cmd.Flags().GetDuration("timeout") //nolint:errcheck
	retries, _ := cmd.Flags().GetInt("retries")      //nolint:errcheck
	dir, _ := cmd.Flags().GetString("dir")           //nolint:errcheck
	name, _ := cmd.Flags().GetString("name")         //nolint:errcheck

	snapshots, err := storage.NewStore(dir)
	if err != nil {
		return err
	}
	fetcher, err := artifact.NewFetcher(artifact.FetcherConfig{
		URL:      url,
		Timeout:  timeout,
		Attempts: retries,
	}, nil, logging.WithComponent("artifact"))
	if err != nil {
		return err
	}

	next := 1
	if latest, ok := snapshots.LatestVersion(name); ok {
		next = latest + 1
	}
	dest := snapshots.Path(name, next)
	if _, err := fetcher.Fetch(cmd.Context(), dest); err != nil {
		return err
	}
	if err := snapshots.Rescan(); err != nil {
		return err
	}
	_, meta, err := snapshots.Load(cmd.Context(), name, next)
	if err != nil {
		if rmErr := os.Remove(dest); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logging.Warn().Err(rmErr).Str("path", dest).Msg("could not remove rejected download")
		}
		_ = snapshots.Rescan() //nolint:errcheck // verification error is reported
		return fmt.Errorf("verify downloaded snapshot: %w", err)
	}
	return writeYAML(cmd.OutOrStdout(), meta)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		meta, err := storage.Inspect(args[0])
		if err != nil {
			return err
		}
		return writeYAML(cmd.OutOrStdout(), meta)
	}

	dir, _ := cmd.Flags().GetString("dir") //nolint:errcheck
	snapshots, err := storage.NewStore(dir)
	if err != nil {
		return err
	}
	list, err := snapshots.List(cmd.Context())
	if err != nil {
		return err
	}
	return writeYAML(cmd.OutOrStdout(), list)
}

// userDump is the values command output.
type userDump struct {
	Username string               `yaml:"username"`
	Liked    []string             `yaml:"liked"`
	Pairs    int                  `yaml:"pairs"`
	Values   recommend.ValueTable `yaml:"values"`
}

func runValues(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("store-path") //nolint:errcheck
	username := args[0]

	st, err := store.OpenBadger(store.BadgerOptions{Path: path}, zerolog.Nop())
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck // read-only use

	profile, err := st.GetProfile(cmd.Context(), username)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("user %q not found", username)
	}
	if err != nil {
		return err
	}
	table, err := st.GetValueTable(cmd.Context(), username)
	if err != nil {
		return err
	}
	return writeYAML(cmd.OutOrStdout(), userDump{
		Username: username,
		Liked:    profile.Liked,
		Pairs:    table.Len(),
		Values:   table,
	})
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
