package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Trinoooo/collatz_cert/certify/config"
	"github.com/Trinoooo/collatz_cert/certify/core"
	"github.com/Trinoooo/collatz_cert/certify/core/logs"
	"github.com/Trinoooo/collatz_cert/certify/metrics"
	"github.com/Trinoooo/collatz_cert/certify/pack"
	"github.com/Trinoooo/collatz_cert/consts"
	"github.com/Trinoooo/collatz_cert/errs"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func validateK(c *cli.Context, k uint64) error {
	if k < consts.MinK || k > consts.MaxK {
		e := errs.NewInvalidParamErr()
		logs.Error(e.Error(), zap.String(consts.LogFieldParams, "k"), zap.Uint64(consts.LogFieldValue, k))
		return e
	}
	return nil
}

func validateL(c *cli.Context, l uint64) error {
	if l < consts.MinL {
		e := errs.NewInvalidParamErr()
		logs.Error(e.Error(), zap.String(consts.LogFieldParams, "l"), zap.Uint64(consts.LogFieldValue, l))
		return e
	}
	return nil
}

func validateBins(c *cli.Context, bins int64) error {
	if bins < 1 {
		e := errs.NewInvalidParamErr()
		logs.Error(e.Error(), zap.String(consts.LogFieldParams, "bins"), zap.Int64(consts.LogFieldValue, bins))
		return e
	}
	return nil
}

type Wrapper struct {
	app    *cli.App
	cfg    *config.Config
	helper *metrics.MetricsHelper
}

func NewWrapper() (*Wrapper, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	wrapper := &Wrapper{
		app: &cli.App{
			Name:    "collatz_cert",
			Usage:   "generate and verify Collatz drift certificates",
			Version: consts.Version,
		},
		cfg:    cfg,
		helper: metrics.NewMetricsHelper(),
	}
	wrapper.modifyDefaultHelp()
	wrapper.withCommands()
	wrapper.withAuthor()
	return wrapper, nil
}

func (wrapper *Wrapper) Run(args []string) error {
	return wrapper.app.Run(args)
}

func (wrapper *Wrapper) modifyDefaultHelp() {
	cli.HelpFlag = &cli.BoolFlag{
		Name: "help",
	}
	cli.AppHelpTemplate = consts.HelpTemplate
}

func (wrapper *Wrapper) withCommands() {
	wrapper.app.Commands = []*cli.Command{
		wrapper.genCommand(),
		wrapper.verifyCommand(),
		wrapper.statsCommand(),
		wrapper.packCommand(),
	}
}

func (wrapper *Wrapper) withAuthor() {
	wrapper.app.Authors = []*cli.Author{
		{
			Name:  "Trino",
			Email: "sujun.trinoooo@gmail.com",
		},
	}
}

func (wrapper *Wrapper) genCommand() *cli.Command {
	return &cli.Command{
		Name:  "gen",
		Usage: "compute the valuation table and emit table file + manifest",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:    "k",
				Value:   uint64(wrapper.cfg.K()),
				Usage:   "modulus exponent, 2 <= k <= 28 are available.",
				EnvVars: []string{consts.EnvK},
				Action:  validateK,
			},
			&cli.Uint64Flag{
				Name:    "l",
				Value:   uint64(wrapper.cfg.L()),
				Usage:   "iteration depth, l >= 1 are available.",
				EnvVars: []string{consts.EnvL},
				Action:  validateL,
			},
			&cli.IntFlag{
				Name:    "threads",
				Value:   wrapper.cfg.Threads(),
				Usage:   "worker goroutine number, 0 means available cores.",
				EnvVars: []string{consts.EnvThreads},
			},
			&cli.StringFlag{
				Name:  "out-table",
				Usage: "output table path, defaults to table_k{K}_l{L}_v2.bin.",
			},
			&cli.StringFlag{
				Name:  "out-manifest",
				Usage: "output manifest path, defaults to cert_k{K}_l{L}_v2.json.",
			},
		},
		Action: wrapper.genAction,
	}
}

func (wrapper *Wrapper) genAction(c *cli.Context) error {
	k := uint32(c.Uint64("k"))
	l := uint32(c.Uint64("l"))

	tablePath := c.String("out-table")
	if tablePath == "" {
		tablePath = filepath.Join(wrapper.cfg.OutputDir(), core.DefaultTablePath(k, l))
	}
	manifestPath := c.String("out-manifest")
	if manifestPath == "" {
		manifestPath = filepath.Join(wrapper.cfg.OutputDir(), core.DefaultManifestPath(k, l))
	}

	start := time.Now()
	mf, err := core.GenerateCertificate(k, l, c.Int("threads"), tablePath, manifestPath)
	if err != nil {
		return err
	}
	wrapper.helper.TableGenCounter.Inc()
	wrapper.helper.ObserveCompute(start)

	fmt.Printf("OK gen: min_S=%d thr=%d pass=%t eps=%.6f\n", mf.MinS, mf.Threshold, mf.Pass, mf.Eps)
	fmt.Printf("table.sha256=%s\n", mf.Sha256TableHex)
	return nil
}

func (wrapper *Wrapper) verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "recompute a table file and cross-check it against its manifest",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:     "k",
				Required: true,
				Usage:    "modulus exponent the table claims to be generated with.",
				EnvVars:  []string{consts.EnvK},
				Action:   validateK,
			},
			&cli.Uint64Flag{
				Name:     "l",
				Required: true,
				Usage:    "iteration depth the table claims to be generated with.",
				EnvVars:  []string{consts.EnvL},
				Action:   validateL,
			},
			&cli.StringFlag{
				Name:     "table",
				Required: true,
				Usage:    "table file path.",
			},
			&cli.StringFlag{
				Name:     "manifest",
				Required: true,
				Usage:    "manifest file path.",
			},
			&cli.IntFlag{
				Name:    "threads",
				Value:   wrapper.cfg.Threads(),
				Usage:   "worker goroutine number, 0 means available cores.",
				EnvVars: []string{consts.EnvThreads},
			},
		},
		Action: wrapper.verifyAction,
	}
}

func (wrapper *Wrapper) verifyAction(c *cli.Context) error {
	start := time.Now()
	cert, err := core.Verify(
		uint32(c.Uint64("k")),
		uint32(c.Uint64("l")),
		c.String("table"),
		c.String("manifest"),
		c.Int("threads"),
	)
	if err != nil {
		wrapper.helper.VerifyFailureCounter.Inc()
		return err
	}
	wrapper.helper.ObserveCompute(start)

	fmt.Printf("verify: min_S=%d thr=%d pass=%t eps=%.6f\n", cert.MinS, cert.Threshold, cert.Pass, cert.Eps)
	return nil
}

func (wrapper *Wrapper) statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "summary stats and histogram for a table file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "table",
				Required: true,
				Usage:    "table file path, v1 or v2.",
			},
			&cli.Int64Flag{
				Name:   "bins",
				Value:  int64(wrapper.cfg.Bins()),
				Usage:  "histogram bin number, >= 1 are available.",
				Action: validateBins,
			},
			&cli.StringFlag{
				Name:  "out-csv",
				Usage: "optional histogram csv output path.",
			},
		},
		Action: wrapper.statsAction,
	}
}

func (wrapper *Wrapper) statsAction(c *cli.Context) error {
	tf, err := core.ReadTableFile(c.String("table"))
	if err != nil {
		return err
	}

	st, err := core.ComputeStats(tf.Entries)
	if err != nil {
		return err
	}
	cert := core.Derive(tf.Entries, tf.L)

	fmt.Printf("stats: K=%d L=%d ver=%d count=%d\n", tf.K, tf.L, tf.Ver, tf.Count)
	fmt.Printf("  min_S=%d max_S=%d mean=%.3f\n", st.Min, st.Max, st.Mean)
	fmt.Printf("  thr=%d pass(min)=%t\n", cert.Threshold, cert.Pass)
	fmt.Printf("  eps(min)=%.6f\n", cert.Eps)

	if csvPath := c.String("out-csv"); csvPath != "" {
		hist := core.BuildHistogram(tf.Entries, int(c.Int64("bins")), st)
		if err = hist.WriteCSV(csvPath); err != nil {
			return err
		}
	}
	return nil
}

func (wrapper *Wrapper) packCommand() *cli.Command {
	return &cli.Command{
		Name:  "pack",
		Usage: "pack table + manifest into tar.gz and emit its sha256",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "table",
				Required: true,
				Usage:    "table file path.",
			},
			&cli.StringFlag{
				Name:     "manifest",
				Required: true,
				Usage:    "manifest file path.",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "archive output path, defaults to cert_k{K}_l{L}_v{ver}.tar.gz.",
			},
			&cli.BoolFlag{
				Name:  "checksums",
				Usage: "also write CHECKSUMS.sha256 next to the archive.",
			},
		},
		Action: wrapper.packAction,
	}
}

func (wrapper *Wrapper) packAction(c *cli.Context) error {
	result, err := pack.Archive(
		c.String("table"),
		c.String("manifest"),
		c.String("out"),
		c.Bool("checksums"),
	)
	if err != nil {
		return err
	}

	fmt.Printf("tar.gz sha256=%s file=%s\n", result.Sha256Hex, result.ArchivePath)
	return nil
}
