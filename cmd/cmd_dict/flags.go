package cmd_dict

import (
	"github.com/rskv-p/minitrie/pkg/x_tree"
	"github.com/spf13/pflag"
)

// trieFlags selects a layout and its graph options.
type trieFlags struct {
	kind   string
	format string
	order  string
}

func (f *trieFlags) register(fs *pflag.FlagSet, prefix string) {
	fs.StringVar(&f.kind, prefix+"kind", "compact", "trie layout: graph or compact")
	fs.StringVar(&f.format, prefix+"format", "preorder", "graph file format: preorder or levelorder")
	fs.StringVar(&f.order, prefix+"order", "dfs", "graph search order: dfs or bfs")
}

func (f *trieFlags) parse() (x_tree.Kind, []x_tree.Option, error) {
	kind, err := x_tree.ParseKind(f.kind)
	if err != nil {
		return "", nil, err
	}
	format, err := x_tree.ParseFormat(f.format)
	if err != nil {
		return "", nil, err
	}
	order, err := x_tree.ParseOrder(f.order)
	if err != nil {
		return "", nil, err
	}
	return kind, []x_tree.Option{x_tree.WithFormat(format), x_tree.WithOrder(order)}, nil
}

func (f *trieFlags) empty() (x_tree.Trie, error) {
	kind, opts, err := f.parse()
	if err != nil {
		return nil, err
	}
	return x_tree.New(kind, opts...)
}

func (f *trieFlags) load(path string) (x_tree.Trie, error) {
	kind, opts, err := f.parse()
	if err != nil {
		return nil, err
	}
	return x_tree.LoadFile(kind, path, opts...)
}
