package cmd_serv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/rskv-p/minitrie/config"
	"github.com/rskv-p/minitrie/pkg/x_tree"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_client"
	"github.com/spf13/cobra"
)

type remote struct {
	cfgPath string
	url     string
	prefix  string
}

// connect resolves settings, dials NATS and runs fn with a client.
func (r *remote) connect(ctx context.Context, fn func(*trie_client.Client) error) error {
	cfg, err := config.Resolve(r.cfgPath)
	if err != nil {
		return err
	}
	if r.url != "" {
		cfg.NATS.URL = r.url
	}
	if r.prefix != "" {
		cfg.NATS.Prefix = r.prefix
	}
	nc, err := nats.Connect(cfg.NATS.URL, nats.Name("minitrie-cli"))
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.NATS.URL, err)
	}
	defer nc.Close()
	return fn(trie_client.New(nc, cfg.NATS.Prefix).WithTimeout(cfg.NATS.Timeout))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewQueryCmd builds the query command group.
func NewQueryCmd() *cobra.Command {
	r := &remote{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Call a running dictionary service",
	}
	cmd.PersistentFlags().StringVarP(&r.cfgPath, "config", "c", "", "config file (JSON or YAML)")
	cmd.PersistentFlags().StringVar(&r.url, "url", "", "NATS URL, overrides nats.url")
	cmd.PersistentFlags().StringVar(&r.prefix, "prefix", "", "subject prefix, overrides nats.prefix")

	var limit int
	search := &cobra.Command{
		Use:   "search <prefix>",
		Short: "List words starting with prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.connect(cmd.Context(), func(c *trie_client.Client) error {
				words, err := c.Search(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				for _, w := range words {
					fmt.Fprintln(cmd.OutOrStdout(), w)
				}
				return nil
			})
		},
	}
	search.Flags().IntVarP(&limit, "limit", "n", x_tree.Unbounded, "maximum results, negative for all")

	insert := &cobra.Command{
		Use:   "insert <word>...",
		Short: "Add words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.connect(cmd.Context(), func(c *trie_client.Client) error {
				res, err := c.Insert(cmd.Context(), args...)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	save := &cobra.Command{
		Use:   "save [path]",
		Short: "Write the service dictionary to disk",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.connect(cmd.Context(), func(c *trie_client.Client) error {
				res, err := c.Save(cmd.Context(), optional(args))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	load := &cobra.Command{
		Use:   "load [path]",
		Short: "Replace the service dictionary from disk",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.connect(cmd.Context(), func(c *trie_client.Client) error {
				res, err := c.Load(cmd.Context(), optional(args))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print dictionary statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.connect(cmd.Context(), func(c *trie_client.Client) error {
				res, err := c.Stats(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.AddCommand(search, insert, save, load, stats)
	return cmd
}

func optional(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
