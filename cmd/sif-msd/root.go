package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-sif/sif-msd/config"
	"github.com/go-sif/sif-msd/logging"
	"github.com/go-sif/sif-msd/shard"
	msdtesting "github.com/go-sif/sif-msd/testing"
	"github.com/go-sif/sif-msd/worker"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	exitOK         = 0
	exitIncomplete = 1 // the run finished, but some chunks were not persisted
	exitUsage      = 2
)

// usageError marks errors caused by invalid arguments or configuration
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }

// incompleteError marks runs which finished with failed chunks
type incompleteError struct{ failed int64 }

func (e incompleteError) Error() string {
	return fmt.Sprintf("%d chunk(s) could not be persisted", e.failed)
}

// cli carries the state shared by every command of one invocation
type cli struct {
	v          *viper.Viper
	configFile string
	stdout     io.Writer
	stderr     io.Writer
	env        *worker.Environment
}

func newCLI(stdout, stderr io.Writer, env *worker.Environment) *cli {
	if env == nil {
		env = &worker.Environment{}
	}
	return &cli{v: viper.New(), stdout: stdout, stderr: stderr, env: env}
}

func execute(args []string, stdout, stderr io.Writer) int {
	return newCLI(stdout, stderr, nil).execute(args)
}

func (c *cli) execute(args []string) int {
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	err := root.Execute()
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(c.stderr, "Error:", err)
	if _, ok := err.(usageError); ok {
		return exitUsage
	}
	return exitIncomplete
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sif-msd <num_workers> <worker_id>",
		Short: "Convert one shard of a song file tree into CSV chunks",
		Long: "Convert every song file owned by worker <worker_id> of a pool of <num_workers>\n" +
			"into CSV chunks of " + strconv.Itoa(config.ChunkSize) + " rows, saved locally or uploaded to S3.\n" +
			"Options may also be set with SIF_MSD_* environment variables or a config file.",
		Args:          usageArgs(cobra.ExactArgs(2)),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			numWorkers, err := parseCount("num_workers", args[0])
			if err != nil {
				return err
			}
			workerID, err := parseCount("worker_id", args[1])
			if err != nil {
				return err
			}
			return c.runWorker(cmd.Context(), numWorkers, workerID)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (any format supported by viper)")
	flags.String("data-dir", "", "root of the song tree, one subdirectory per partition key (default \"data\")")
	flags.String("pattern", "", "base name pattern of song files (default \"*.h5\")")
	flags.String("staging-dir", "", "directory receiving chunk files (default \"processed\")")
	flags.Bool("save-local", false, "keep chunk files locally instead of uploading them")
	flags.String("bucket", "", "S3 bucket receiving chunk files")
	flags.String("region", "", "AWS region of the bucket")
	flags.String("alphabet", "", "ordered partition keys (default A-Z)")
	flags.String("strategy", "", "shard strategy, striped or contiguous (default \"striped\")")
	flags.String("compression", "", "chunk compression, none, lz4 or zstd (default \"none\")")
	flags.String("log-level", "", "trace, debug, info, warn, error or fatal (default \"info\")")
	flags.String("log-format", "", "text or json (default \"text\")")
	flags.Bool("collect-skip-errors", false, "report the cause of every skipped file at the end of the run")
	if err := c.v.BindPFlags(flags); err != nil {
		panic(err)
	}
	root.AddCommand(c.planCommand(), c.localCommand())
	return root
}

func (c *cli) planCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <num_workers>",
		Short: "Print the partition keys owned by every worker of a pool",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			numWorkers, err := parseCount("num_workers", args[0])
			if err != nil {
				return err
			}
			conf, err := c.loadConfig()
			if err != nil {
				return err
			}
			alphabet, err := conf.PartitionKeys()
			if err != nil {
				return usageError{err}
			}
			plan, err := shard.Plan(alphabet, numWorkers, conf.Strategy)
			if err != nil {
				return usageError{err}
			}
			for i, keys := range plan {
				fmt.Fprintf(c.stdout, "worker %d: %s\n", i, strings.Join(keys.Strings(), " "))
			}
			return nil
		},
	}
}

func (c *cli) localCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "local <num_workers>",
		Short: "Run every worker of a pool concurrently within this process",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			numWorkers, err := parseCount("num_workers", args[0])
			if err != nil {
				return err
			}
			if err = (shard.Identity{Total: numWorkers}).Validate(); err != nil {
				return usageError{err}
			}
			conf, log, err := c.setup()
			if err != nil {
				return err
			}
			env := c.environment(log)
			reports, err := msdtesting.LocalRun(cmd.Context(), numWorkers, func(ctx context.Context, workerID int) (*worker.Options, error) {
				opts, err := worker.OptionsFromConfig(ctx, conf, numWorkers, workerID, env)
				if err != nil {
					return nil, usageError{err}
				}
				return opts, nil
			})
			if err != nil {
				return err
			}
			var failed int64
			for _, report := range reports {
				failed += report.Stats.GetNumChunksFailed()
			}
			if failed > 0 {
				return incompleteError{failed}
			}
			return nil
		},
	}
}

func (c *cli) runWorker(ctx context.Context, numWorkers, workerID int) error {
	// an invalid identity must fail before the configuration touches any file
	if err := (shard.Identity{Total: numWorkers, Index: workerID}).Validate(); err != nil {
		return usageError{err}
	}
	conf, log, err := c.setup()
	if err != nil {
		return err
	}
	opts, err := worker.OptionsFromConfig(ctx, conf, numWorkers, workerID, c.environment(log))
	if err != nil {
		return usageError{err}
	}
	w, err := worker.CreateWorker(opts)
	if err != nil {
		return usageError{err}
	}
	report, err := w.Run(ctx)
	if err != nil {
		return err
	}
	if !report.Succeeded() {
		return incompleteError{report.Stats.GetNumChunksFailed()}
	}
	return nil
}

// setup loads and validates the configuration, and creates the logger it describes
func (c *cli) setup() (*config.Options, *logrus.Logger, error) {
	conf, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err = conf.Validate(); err != nil {
		return nil, nil, usageError{err}
	}
	level, err := logging.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, nil, usageError{err}
	}
	log, err := logging.New(level, conf.LogFormat, c.stderr)
	if err != nil {
		return nil, nil, usageError{err}
	}
	return conf, log, nil
}

func (c *cli) loadConfig() (*config.Options, error) {
	conf, err := config.Load(c.v, c.configFile)
	if err != nil {
		return nil, usageError{err}
	}
	return conf, nil
}

func (c *cli) environment(log logrus.FieldLogger) *worker.Environment {
	c.env.Logger = log
	return c.env
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func parseCount(name string, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, usageError{fmt.Errorf("%s must be an integer, was %q", name, arg)}
	}
	return n, nil
}
