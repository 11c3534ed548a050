package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/jonwraymond/toolmemo/health"
	"github.com/jonwraymond/toolmemo/memo"
	"github.com/jonwraymond/toolmemo/observe"
)

const serviceName = "memodemo"

// defaultConfigFile is read for flag defaults when MEMODEMO_CONFIG is unset.
// A missing file is not an error.
const defaultConfigFile = "memodemo.yaml"

// demo is one memoized computation exposed as a subcommand.
type demo struct {
	name            string
	usage           string
	argsUsage       string
	defaultCapacity int
	run             func(ctx context.Context, e *env, args []int) error
}

// env carries what every demo needs once flags are parsed.
type env struct {
	out      io.Writer
	capacity int
	health   bool
	recorder *observe.Recorder
	mw       *observe.Middleware
}

// config returns the memo configuration for a demo named name.
func (e *env) config(name string) memo.Config {
	return memo.Config{Name: name, Capacity: e.capacity, Observer: e.recorder}
}

// report prints the final counters and, when enabled, the health grade.
func (e *env) report(ctx context.Context, name string, src health.StatsSource) {
	s := src.Stats()
	fmt.Fprintf(e.out, "hits=%d misses=%d evictions=%d entries=%d/%d\n",
		s.Hits, s.Misses, s.Evictions, s.Len, s.Capacity)

	if !e.health {
		return
	}
	res := health.NewMemoChecker(name, src, health.MemoCheckerConfig{MinSamples: 1}).Check(ctx)
	fmt.Fprintf(e.out, "health=%s (%s)\n", res.Status, res.Message)
}

func newApp(stdout, stderr io.Writer, configFile string) *cli.Command {
	src := altsrc.StringSourcer(configFile)
	sources := func(key string) cli.ValueSourceChain {
		return cli.NewValueSourceChain(
			cli.EnvVar("MEMODEMO_"+strings.ToUpper(strings.ReplaceAll(key, "-", "_"))),
			yaml.YAML(key, src),
		)
	}

	app := &cli.Command{
		Name:      serviceName,
		Usage:     "run memoized computations with a bounded FIFO cache",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "capacity",
				Aliases: []string{"c"},
				Usage:   "maximum cached results (0 uses the demo default)",
				Sources: sources("capacity"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "debug",
				Usage:   "debug|info|warn|error",
				Sources: sources("log-level"),
			},
			&cli.StringFlag{
				Name:    "metrics",
				Value:   "none",
				Usage:   "metrics exporter: stdout|otlp|prometheus|none",
				Sources: sources("metrics"),
			},
			&cli.StringFlag{
				Name:    "tracing",
				Value:   "none",
				Usage:   "tracing exporter: stdout|otlp|none",
				Sources: sources("tracing"),
			},
			&cli.BoolFlag{
				Name:  "health",
				Usage: "grade the memo by hit and failure ratios after the run",
			},
		},
	}

	for _, d := range demos() {
		app.Commands = append(app.Commands, demoCommand(d, stdout, stderr))
	}
	return app
}

func demoCommand(d demo, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      d.name,
		Usage:     d.usage,
		ArgsUsage: d.argsUsage,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args, err := parseInts(cmd.Args().Slice())
			if err != nil {
				return err
			}

			capacity := cmd.Int("capacity")
			if capacity < 0 {
				return fmt.Errorf("%w: got %d", memo.ErrInvalidCapacity, capacity)
			}
			if capacity == 0 {
				capacity = d.defaultCapacity
			}

			// Telemetry shares stderr with the log so stdout holds only results.
			obs, err := observe.NewObserver(ctx, observe.Config{
				ServiceName: serviceName,
				Tracing: observe.TracingConfig{
					Enabled:   true,
					Exporter:  cmd.String("tracing"),
					SamplePct: 1.0,
					Writer:    stderr,
				},
				Metrics: observe.MetricsConfig{
					Enabled:  true,
					Exporter: cmd.String("metrics"),
					Writer:   stderr,
				},
				Logging: observe.LoggingConfig{
					Enabled: true,
					Level:   cmd.String("log-level"),
					Writer:  stderr,
				},
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := obs.Shutdown(context.WithoutCancel(ctx)); err != nil {
					fmt.Fprintf(stderr, "telemetry shutdown: %v\n", err)
				}
			}()

			rec, err := observe.RecorderFromObserver(obs)
			if err != nil {
				return err
			}
			mw, err := observe.MiddlewareFromObserver(obs)
			if err != nil {
				return err
			}

			return d.run(ctx, &env{
				out:      stdout,
				capacity: capacity,
				health:   cmd.Bool("health"),
				recorder: rec,
				mw:       mw,
			}, args)
		},
	}
}

func parseInts(raw []string) ([]int, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one integer argument is required")
	}
	out := make([]int, len(raw))
	for i, s := range raw {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = n
	}
	return out, nil
}
