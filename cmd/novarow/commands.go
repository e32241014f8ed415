package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tuannm99/novarow/internal/record"
	"github.com/tuannm99/novarow/internal/rowsort"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [table]...",
		Short: "print the row and index schemas of tables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = cat.Names()
			}
			out := cmd.OutOrStdout()
			for _, name := range args {
				tbl, err := cat.Table(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "table %s %s %s\n", name, tbl.Row, rowLen(tbl.Row))
				for i, ix := range tbl.Def.Indexes {
					fmt.Fprintf(out, "  index %s %s %s\n", ix.Name, tbl.Indexes[i], rowLen(tbl.Indexes[i]))
				}
			}
			return nil
		},
	}
}

func rowLen(s *record.Schema) string {
	if n, ok := s.FixedRowLen(); ok {
		return fmt.Sprintf("fixed=%d", n)
	}
	return "variable"
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse table index hexrow",
		Short: "split a row into its columns. Use index '-' for the table row.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openIndex(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			row, err := decodeHex(args[2])
			if err != nil {
				return err
			}
			cols, err := s.Parse(row, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, c := range cols {
				name, _ := s.ColumnName(i)
				v, err := c.Value()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s pre=%d n=%d post=%d %s\n",
					name, c.Type, c.PreLen, c.Len(), c.PostLen, formatValue(v))
			}
			return nil
		},
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case string:
		return fmt.Sprintf("%q", x)
	}
	return fmt.Sprint(v)
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare table index hexA hexB",
		Short: "print -1, 0 or 1 as row A sorts before, with or after row B.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openIndex(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			a, err := decodeHex(args[2])
			if err != nil {
				return err
			}
			b, err := decodeHex(args[3])
			if err != nil {
				return err
			}
			c, err := s.Compare(a, b)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func newSortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort table index file",
		Short: "sort a file of hex rows, one per line ('-' reads stdin).",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openIndex(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			if args[2] != "-" {
				f, err := os.Open(args[2])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			rows, err := readHexRows(in)
			if err != nil {
				return err
			}

			var tbl rowsort.EntryTable
			for _, r := range rows {
				tbl.Add(r)
			}
			if err := tbl.Sort(s); err != nil {
				return err
			}
			log.Debugf("sorted %d rows by %s", tbl.Len(), s.JoinColumnNames(','))

			out := cmd.OutOrStdout()
			for i := range tbl.Len() {
				row, err := tbl.Row(i)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, hex.EncodeToString(row))
			}
			return nil
		},
	}
}

func newDedupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dedup table",
		Short: "print which index columns are kept when index rows are concatenated.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			tbl, err := cat.Table(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			bit := 0
			for i := range tbl.Set.Len() {
				s := tbl.Set.Schema(i)
				var cols []string
				for j := range s.ColumnNum() {
					name, _ := s.ColumnName(j)
					if !tbl.Set.KeepColumn(bit) {
						name = "-" + name
					}
					cols = append(cols, name)
					bit++
				}
				fmt.Fprintf(out, "%s %s keep=%t [%s]\n", tbl.Def.Indexes[i].Name,
					s.JoinColumnNames(','), tbl.Set.KeepSchema(i), strings.Join(cols, " "))
			}
			return nil
		},
	}
}
