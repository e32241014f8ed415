package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tuannm99/novarow/internal"
	"github.com/tuannm99/novarow/internal/catalog"
	"github.com/tuannm99/novarow/internal/record"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "novarow",
		Short:         "Inspect, parse, compare and sort rows of a novarow catalog.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(GetFlag(cmd, "verbose"))
			return nil
		},
	}
	root.PersistentFlags().String("config", "novarow.yaml", "catalog config file (yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	root.AddCommand(
		newInspectCmd(),
		newParseCmd(),
		newCompareCmd(),
		newSortCmd(),
		newDedupCmd(),
	)
	return root
}

func configureLogging(verbose bool) {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetOutput(os.Stderr)
	if verbose {
		setLevel(log.DebugLevel)
	} else {
		setLevel(log.InfoLevel)
	}
}

// setLevel keeps the library slog output in step with logrus.
func setLevel(lvl log.Level) {
	log.SetLevel(lvl)
	switch {
	case lvl >= log.DebugLevel:
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case lvl == log.InfoLevel:
		slog.SetLogLoggerLevel(slog.LevelInfo)
	case lvl == log.WarnLevel:
		slog.SetLogLoggerLevel(slog.LevelWarn)
	default:
		slog.SetLogLoggerLevel(slog.LevelError)
	}
}

// GetFlag gets an expected bool flag, or panics if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		panic(err)
	}
	return r
}

// GetString gets an expected string flag, or panics if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		panic(err)
	}
	return r
}

func openCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	path := GetString(cmd, "config")
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if !GetFlag(cmd, "verbose") {
		lvl, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		setLevel(lvl)
	}
	cat, err := cfg.OpenCatalog()
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded %d tables from %s", len(cat.Names()), path)
	return cat, nil
}

func openIndex(cmd *cobra.Command, table, index string) (*record.Schema, error) {
	cat, err := openCatalog(cmd)
	if err != nil {
		return nil, err
	}
	tbl, err := cat.Table(table)
	if err != nil {
		return nil, err
	}
	if index == "-" {
		return tbl.Row, nil
	}
	return tbl.Index(index)
}

func decodeHex(arg string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(arg))
	if err != nil {
		return nil, fmt.Errorf("row %q: %w", arg, err)
	}
	return b, nil
}

// readHexRows reads one hex encoded row per non-blank line.
func readHexRows(r io.Reader) ([][]byte, error) {
	var rows [][]byte
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		row, err := decodeHex(line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, sc.Err()
}
