// Package cmd_db moves words between SQL dictionaries and trie files and
// manages API users.
package cmd_db

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rskv-p/minitrie/config"
	"github.com/rskv-p/minitrie/pkg/x_db"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_serv"
	"github.com/spf13/cobra"
)

type dbFlags struct {
	cfgPath    string
	dictionary string
	file       string
}

// open resolves settings and the SQL connection.
func (f *dbFlags) open() (*config.Config, *x_db.DAO, error) {
	cfg, err := config.Resolve(f.cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if f.dictionary != "" {
		cfg.DB.Dictionary = f.dictionary
	}
	if f.file != "" {
		cfg.Trie.Path = f.file
	}
	dao, err := x_db.Open(cfg.Database())
	if err != nil {
		return nil, nil, err
	}
	return cfg, dao, nil
}

// store opens the trie file named by cfg. A missing file starts empty.
func store(cfg *config.Config) (*trie_serv.Store, error) {
	kind, opts, err := cfg.TrieOptions()
	if err != nil {
		return nil, err
	}
	s, err := trie_serv.NewStore(kind, cfg.Trie.Path, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := s.Open(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewCmd builds the db command group.
func NewCmd() *cobra.Command {
	f := &dbFlags{}
	cmd := &cobra.Command{
		Use:   "db",
		Short: "SQL dictionaries and users",
	}
	cmd.PersistentFlags().StringVarP(&f.cfgPath, "config", "c", "", "config file (JSON or YAML)")
	cmd.PersistentFlags().StringVarP(&f.dictionary, "dictionary", "d", "", "dictionary name, overrides db.dictionary")
	cmd.PersistentFlags().StringVarP(&f.file, "file", "f", "", "trie file, overrides trie.path")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "import",
			Short: "Insert a SQL dictionary into the trie file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return f.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, dao *x_db.DAO, s *trie_serv.Store) error {
					added, err := s.Import(ctx, dao, cfg.DB.Dictionary)
					if err != nil {
						return err
					}
					path, err := s.Save("")
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d new, %d total\n", path, added, s.Len())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "export",
			Short: "Copy the trie file into a SQL dictionary",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return f.withStore(cmd.Context(), func(ctx context.Context, cfg *config.Config, dao *x_db.DAO, s *trie_serv.Store) error {
					added, err := s.Export(ctx, dao, cfg.DB.Dictionary)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d new rows\n", cfg.DB.Dictionary, added)
					return nil
				})
			},
		},
		f.newAddCmd(),
		f.newListCmd(),
		f.newDropCmd(),
		f.newUserCmd(),
	)
	return cmd
}

func (f *dbFlags) withStore(ctx context.Context, fn func(context.Context, *config.Config, *x_db.DAO, *trie_serv.Store) error) error {
	cfg, dao, err := f.open()
	if err != nil {
		return err
	}
	defer dao.Close()
	s, err := store(cfg)
	if err != nil {
		return err
	}
	return fn(ctx, cfg, dao, s)
}

func (f *dbFlags) withDAO(fn func(*config.Config, *x_db.DAO) error) error {
	cfg, dao, err := f.open()
	if err != nil {
		return err
	}
	defer dao.Close()
	return fn(cfg, dao)
}

func (f *dbFlags) newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [word]...",
		Short: "Store words in a SQL dictionary, reading stdin when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			words := args
			if len(words) == 0 {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					if w := strings.TrimSuffix(sc.Text(), "\r"); w != "" {
						words = append(words, w)
					}
				}
				if err := sc.Err(); err != nil {
					return err
				}
			}
			return f.withDAO(func(cfg *config.Config, dao *x_db.DAO) error {
				n, err := dao.AddWords(cmd.Context(), cfg.DB.Dictionary, words)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d new rows\n", cfg.DB.Dictionary, n)
				return nil
			})
		},
	}
}

func (f *dbFlags) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List SQL dictionaries with their sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withDAO(func(_ *config.Config, dao *x_db.DAO) error {
				names, err := dao.Dictionaries(cmd.Context())
				if err != nil {
					return err
				}
				for _, name := range names {
					n, err := dao.CountWords(cmd.Context(), name)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", name, n)
				}
				return nil
			})
		},
	}
}

func (f *dbFlags) newDropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Delete a SQL dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.withDAO(func(cfg *config.Config, dao *x_db.DAO) error {
				n, err := dao.DeleteDictionary(cmd.Context(), cfg.DB.Dictionary)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows deleted\n", cfg.DB.Dictionary, n)
				return nil
			})
		},
	}
}

const envUserPassword = "TRIE_USER_PASSWORD"

func (f *dbFlags) newUserCmd() *cobra.Command {
	var (
		password string
		role     string
	)
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an API user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = config.GetEnvStr(envUserPassword, "")
			}
			if password == "" {
				return errors.New("password required: --password or TRIE_USER_PASSWORD")
			}
			return f.withDAO(func(_ *config.Config, dao *x_db.DAO) error {
				if err := dao.CreateUser(cmd.Context(), args[0], password, role); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s created (%s)\n", args[0], role)
				return nil
			})
		},
	}
	add.Flags().StringVarP(&password, "password", "p", "", "password")
	add.Flags().StringVar(&role, "role", "admin", "role: admin or user")

	user := &cobra.Command{Use: "user", Short: "Manage API users"}
	user.AddCommand(add)
	return user
}
