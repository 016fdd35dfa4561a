package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage oantigenminer configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.oantigenminer.yaml.",
		Example: `  oantigenminer config                        # show all config
  oantigenminer config set log.format json    # structured logs
  oantigenminer config get workers            # get a value`,
		Args: argsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  argsWithUsage(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  argsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "# No configuration set. Config file: ~/.oantigenminer.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

// settingParsers converts `config set` values for the keys the commands read.
var settingParsers = map[string]func(string) (any, error){
	"workers": func(v string) (any, error) {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("workers must be a non-negative integer, got %q", v)
		}
		return n, nil
	},
	"fasta.line_width": func(v string) (any, error) {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("fasta.line_width must be a positive integer, got %q", v)
		}
		return n, nil
	},
	"log.level": func(v string) (any, error) {
		if _, err := zap.ParseAtomicLevel(v); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		return v, nil
	},
	"log.format": func(v string) (any, error) {
		if v != "console" && v != "json" {
			return nil, fmt.Errorf("log.format must be console or json, got %q", v)
		}
		return v, nil
	},
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	parse, ok := settingParsers[key]
	if !ok {
		keys := make([]string, 0, len(settingParsers))
		for k := range settingParsers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return &usageError{fmt.Errorf("unknown key %q (known: %s)", key, strings.Join(keys, ", "))}
	}
	v, err := parse(value)
	if err != nil {
		return &usageError{err}
	}

	cfgFile, err := defaultConfigPath()
	if err != nil {
		return err
	}

	viper.Set(key, v)
	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v in %s\n", key, v, cfgFile)
	return nil
}

func runConfigGet(cmd *cobra.Command, key string) error {
	val := viper.Get(key)
	if val == nil {
		return &usageError{fmt.Errorf("key %q is not set", key)}
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}
