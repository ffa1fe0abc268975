// Package cmd_dict holds offline dictionary commands: build, search,
// convert, inspect and an interactive shell.
package cmd_dict

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rskv-p/minitrie/pkg/x_log"
	"github.com/rskv-p/minitrie/pkg/x_tree"
	"github.com/spf13/cobra"
)

// NewCmd builds the dict command tree.
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Build and query dictionary files",
	}
	cmd.AddCommand(newBuildCmd(), newSearchCmd(), newConvertCmd(), newInspectCmd(), newShellCmd())
	return cmd
}

// readWords returns one word per line. Trailing CR is dropped; empty
// lines are skipped unless keepEmpty is set.
func readWords(r io.Reader, keepEmpty bool, fn func(string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		w := strings.TrimSuffix(sc.Text(), "\r")
		if w == "" && !keepEmpty {
			continue
		}
		fn(w)
	}
	return sc.Err()
}

func newBuildCmd() *cobra.Command {
	var (
		tf        trieFlags
		out       string
		keepEmpty bool
	)
	cmd := &cobra.Command{
		Use:   "build <words.txt|->",
		Short: "Build a dictionary file from a word list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.empty()
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			if err := readWords(in, keepEmpty, func(w string) { t.Insert(x_tree.Units(w)) }); err != nil {
				return fmt.Errorf("read words: %w", err)
			}
			if err := t.Save(out); err != nil {
				return err
			}
			x_log.Info().Str("path", out).Int("words", t.Len()).Int("nodes", t.NodeCount()).Msg("dictionary built")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d words, %d nodes\n", out, t.Len(), t.NodeCount())
			return nil
		},
	}
	tf.register(cmd.Flags(), "")
	cmd.Flags().StringVarP(&out, "output", "o", "dict.bin", "output file")
	cmd.Flags().BoolVar(&keepEmpty, "keep-empty", false, "insert empty lines as the empty word")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var (
		tf    trieFlags
		limit int
	)
	cmd := &cobra.Command{
		Use:   "search <dict.bin> <prefix>",
		Short: "List words starting with prefix",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.load(args[0])
			if err != nil {
				return err
			}
			for _, w := range t.SearchPrefix(x_tree.Units(args[1]), limit) {
				fmt.Fprintln(cmd.OutOrStdout(), x_tree.String(w))
			}
			return nil
		},
	}
	tf.register(cmd.Flags(), "")
	cmd.Flags().IntVarP(&limit, "limit", "n", x_tree.Unbounded, "maximum results, negative for all")
	return cmd
}

func newConvertCmd() *cobra.Command {
	var from, to trieFlags
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite a dictionary in another layout or format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := from.load(args[0])
			if err != nil {
				return err
			}
			dst, err := to.empty()
			if err != nil {
				return err
			}
			for _, w := range src.SearchPrefix(nil, x_tree.Unbounded) {
				dst.Insert(w)
			}
			if err := dst.Save(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d words\n", args[1], dst.Len())
			return nil
		},
	}
	from.register(cmd.Flags(), "from-")
	to.register(cmd.Flags(), "to-")
	return cmd
}

type dumper interface {
	Dump(io.Writer)
}

func newInspectCmd() *cobra.Command {
	var (
		tf   trieFlags
		dump bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <dict.bin>",
		Short: "Print dictionary statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.load(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(t.Stat()); err != nil {
				return err
			}
			if d, ok := t.(dumper); ok && dump {
				d.Dump(cmd.OutOrStdout())
			}
			return nil
		},
	}
	tf.register(cmd.Flags(), "")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the node tree")
	return cmd
}
