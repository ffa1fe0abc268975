package cmd_dict

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/rskv-p/minitrie/pkg/x_tree"
	"github.com/spf13/cobra"
)

const shellHelp = `commands:
  insert <word>...        add words
  search <prefix> [n]     list words, n bounds the result
  contains <word>         report membership
  save [path]             write the dictionary
  load [path]             replace the dictionary
  stats                   print counters
  help                    this text
  quit                    leave
`

func newShellCmd() *cobra.Command {
	var tf trieFlags
	cmd := &cobra.Command{
		Use:   "shell [dict.bin]",
		Short: "Interactive dictionary session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.empty()
			if err != nil {
				return err
			}
			sh := &shell{trie: t, out: cmd.OutOrStdout()}
			if len(args) == 1 {
				sh.path = args[0]
				if err := t.Load(sh.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}
			return sh.run(cmd.InOrStdin())
		},
	}
	tf.register(cmd.Flags(), "")
	return cmd
}

// shell is a line-oriented REPL over one trie. Arguments are split with
// shell quoting, so words may contain spaces.
type shell struct {
	trie x_tree.Trie
	path string
	out  io.Writer
}

func (s *shell) run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(s.out)
			return sc.Err()
		}
		args, err := shlex.Split(sc.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return nil
		}
		if err := s.exec(args[0], args[1:]); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *shell) exec(name string, args []string) error {
	switch name {
	case "insert":
		before := s.trie.Len()
		for _, w := range args {
			s.trie.Insert(x_tree.Units(w))
		}
		fmt.Fprintf(s.out, "added %d\n", s.trie.Len()-before)
	case "search":
		if len(args) == 0 || len(args) > 2 {
			return errors.New("usage: search <prefix> [n]")
		}
		limit := x_tree.Unbounded
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("bad limit %q", args[1])
			}
			limit = n
		}
		words := x_tree.Strings(s.trie.SearchPrefix(x_tree.Units(args[0]), limit))
		if len(words) == 0 {
			fmt.Fprintln(s.out, "(none)")
			return nil
		}
		fmt.Fprintln(s.out, strings.Join(words, "\n"))
	case "contains":
		if len(args) != 1 {
			return errors.New("usage: contains <word>")
		}
		c, ok := s.trie.(interface{ Contains([]uint16) bool })
		if !ok {
			return errors.New("contains not supported")
		}
		fmt.Fprintln(s.out, c.Contains(x_tree.Units(args[0])))
	case "save", "load":
		path := s.path
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no file given")
		}
		op := s.trie.Save
		if name == "load" {
			op = s.trie.Load
		}
		if err := op(path); err != nil {
			return err
		}
		s.path = path
		fmt.Fprintf(s.out, "%s %s: %d words\n", name, path, s.trie.Len())
	case "stats":
		st := s.trie.Stat()
		fmt.Fprintf(s.out, "words=%d nodes=%d edges=%d depth=%d\n", st.Words, st.Nodes, st.Edges, st.MaxDepth)
	case "help":
		fmt.Fprint(s.out, shellHelp)
	default:
		return fmt.Errorf("unknown command %q, try help", name)
	}
	return nil
}
